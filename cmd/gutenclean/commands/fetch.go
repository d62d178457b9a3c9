package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/literaryqa/gutenclean/internal/logger"
	"github.com/literaryqa/gutenclean/internal/report"
	"github.com/literaryqa/gutenclean/pkg/fetch"
)

// failedRecord is one row of the failed-download table.
type failedRecord struct {
	BookID string `json:"book_id" yaml:"book_id"`
	Reason string `json:"reason" yaml:"reason"`
}

func (r failedRecord) Row() []string {
	return []string{r.BookID, r.Reason}
}

var failedColumns = []string{"book_id", "reason"}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download book HTML from Gutenberg mirrors",
	Long: `Download books by ID, trying each mirror in order.

Downloads land in the output directory as <id>.htm and are reused on
later runs. Books no mirror can serve are listed in the failed table.

Examples:
  gutenclean fetch --ids 1342,98,2701 -o books/
  gutenclean fetch --id-file ids.txt -o books/ --failed failed.tsv`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	flags := fetchCmd.Flags()
	flags.StringSlice("ids", nil, "book IDs to download (comma-separated, can be repeated)")
	flags.String("id-file", "", "file with one book ID per line")
	flags.StringP("output", "o", "", "download directory (required)")
	flags.String("failed", "", "write failed downloads to this TSV file")
	flags.Duration("timeout", 10*time.Second, "per-request timeout")
	flags.Uint("attempts", 2, "retry attempts per mirror")

	_ = fetchCmd.MarkFlagRequired("output")
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ids, err := collectIDs(cmd)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return cmd.Help()
	}

	outDir, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	attempts, _ := cmd.Flags().GetUint("attempts")

	f := fetch.New(fetch.Config{
		CacheDir: outDir,
		Timeout:  timeout,
		Attempts: attempts,
	})

	var failed []failedRecord
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		data, err := f.Fetch(ctx, id)
		switch {
		case errors.Is(err, fetch.ErrNotFound):
			logger.Warn("book not found", "book", id)
			failed = append(failed, failedRecord{BookID: id, Reason: "not found on any mirror"})
		case err != nil:
			return err
		default:
			logInfo("fetched %s (%d bytes)", id, len(data))
		}
	}

	if failedPath, _ := cmd.Flags().GetString("failed"); failedPath != "" && len(failed) > 0 {
		if err := writeFailedReport(failedPath, failed); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		logInfo("%d of %d books could not be downloaded", len(failed), len(ids))
	}
	return nil
}

func collectIDs(cmd *cobra.Command) ([]string, error) {
	ids, _ := cmd.Flags().GetStringSlice("ids")

	if idFile, _ := cmd.Flags().GetString("id-file"); idFile != "" {
		f, err := os.Open(idFile)
		if err != nil {
			return nil, fmt.Errorf("open id file: %w", err)
		}
		defer f.Close()

		s := bufio.NewScanner(f)
		for s.Scan() {
			id := strings.TrimSpace(s.Text())
			if id == "" || strings.HasPrefix(id, "#") {
				continue
			}
			ids = append(ids, id)
		}
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("read id file: %w", err)
		}
	}

	return ids, nil
}

func writeFailedReport(path string, failed []failedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create failed table: %w", err)
	}
	defer f.Close()

	w := report.NewTSVWriter(f, failedColumns)
	for _, rec := range failed {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}
