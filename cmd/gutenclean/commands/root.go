// Package commands implements the CLI commands for gutenclean.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gutenclean",
	Short: "Strip Project Gutenberg boilerplate from digitized books",
	Long: `Gutenclean turns raw Project Gutenberg HTML into clean narrative text.

It normalizes the document structure (poems, songs, sidebars, footnotes,
page numbers), then scans line by line for the license header and footer
and everything else that is not the book itself.

Examples:
  # Clean a downloaded book
  gutenclean clean -o out/ book/1342-h.htm

  # Clean every book in a directory, eight at a time, with marker logs
  gutenclean clean -o out/ --log-markers --workers 8 books/

  # Download books by ID, then clean them
  gutenclean fetch --ids 1342,98,2701 -o books/
  gutenclean clean -o out/ books/

  # Score predictions against references
  gutenclean score --pred pred.jsonl --ref ref.jsonl`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.gutenclean.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".gutenclean")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GUTENCLEAN")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
