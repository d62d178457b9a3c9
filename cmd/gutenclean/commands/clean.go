package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/literaryqa/gutenclean/internal/logger"
	"github.com/literaryqa/gutenclean/internal/report"
	"github.com/literaryqa/gutenclean/pkg/gutenclean"
	"github.com/literaryqa/gutenclean/pkg/textenc"
)

// cleanRecord is one row of the per-run cleaning report.
type cleanRecord struct {
	BookID  string `json:"book_id" yaml:"book_id"`
	Input   string `json:"input" yaml:"input"`
	Blocks  int    `json:"blocks" yaml:"blocks"`
	Bytes   int    `json:"bytes" yaml:"bytes"`
	Residue string `json:"residue,omitempty" yaml:"residue,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r cleanRecord) Row() []string {
	return []string{r.BookID, r.Input, fmt.Sprint(r.Blocks), fmt.Sprint(r.Bytes), r.Residue, r.Error}
}

var cleanColumns = []string{"book_id", "input", "blocks", "bytes", "residue", "error"}

var cleanCmd = &cobra.Command{
	Use:   "clean [files or directories]",
	Short: "Clean downloaded book files into narrative text",
	Long: `Clean Project Gutenberg book files.

HTML input is structurally normalized (poems, songs, footnotes, page
numbers) before the boilerplate scan; plain-text input is scanned
directly. Each book is written to <output>/<id>.cleaned.txt.

Examples:
  # One book
  gutenclean clean -o out/ books/1342-h.htm

  # A directory of books, with per-book marker logs
  gutenclean clean -o out/ --log-markers books/

  # Skip structural normalization for text-only input
  gutenclean clean -o out/ --normalize=false dumps/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("output", "o", "", "output directory (required)")
	flags.Bool("normalize", true, "apply structural normalization to HTML input")
	flags.Bool("punctuation", true, "normalize dashes and curly quotes")
	flags.Bool("log-markers", false, "write a <id>_cleaning.log of matched markers per book")
	flags.IntP("workers", "w", 4, "books cleaned concurrently")
	flags.String("report", "", "write a cleaning report to this file")
	flags.String("report-format", "tsv", "report format: tsv, jsonl, yaml")

	_ = cleanCmd.MarkFlagRequired("output")
}

func runClean(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outDir, _ := cmd.Flags().GetString("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no book files found in %v", args)
	}
	logger.Debug("inputs collected", "count", len(inputs))

	normalize, _ := cmd.Flags().GetBool("normalize")
	punct, _ := cmd.Flags().GetBool("punctuation")
	logMarkers, _ := cmd.Flags().GetBool("log-markers")
	workers, _ := cmd.Flags().GetInt("workers")
	if workers < 1 {
		workers = 1
	}

	records := make(chan cleanRecord, len(inputs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, input := range inputs {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				records <- cleanRecord{BookID: bookIDFromPath(path), Input: path, Error: ctx.Err().Error()}
				return
			}
			defer func() { <-sem }()

			records <- cleanOne(path, outDir, normalize, punct, logMarkers)
		}(input)
	}

	go func() {
		wg.Wait()
		close(records)
	}()

	var results []cleanRecord
	failed := 0
	for rec := range records {
		if rec.Error != "" {
			failed++
			logger.Error("cleaning failed", "book", rec.BookID, "error", rec.Error)
		} else {
			logInfo("cleaned %s (%d blocks, %d bytes)", rec.BookID, rec.Blocks, rec.Bytes)
		}
		results = append(results, rec)
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		formatStr, _ := cmd.Flags().GetString("report-format")
		if err := writeCleanReport(reportPath, report.Format(formatStr), results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d books failed", failed, len(inputs))
	}
	return nil
}

// cleanOne cleans a single book file, or stdin when path is "-". Every
// failure is folded into the returned record so one bad book never stops
// the batch.
func cleanOne(path, outDir string, normalize, punct, logMarkers bool) cleanRecord {
	bookID := bookIDFromPath(path)
	rec := cleanRecord{BookID: bookID, Input: path}

	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		rec.Error = err.Error()
		return rec
	}

	opts := []gutenclean.Option{
		gutenclean.WithPunctuationNormalization(punct),
	}
	var logFile *os.File
	if logMarkers {
		logFile, err = os.Create(filepath.Join(outDir, bookID+"_cleaning.log"))
		if err != nil {
			rec.Error = err.Error()
			return rec
		}
		defer logFile.Close()
		opts = append(opts, gutenclean.WithDiagnostics(logFile))
	}

	p := gutenclean.New(opts...)
	var out gutenclean.Output
	if normalize && (path == "-" || isHTML(path)) {
		out = p.CleanHTML(bookID, raw)
	} else {
		out = p.CleanText(bookID, textenc.Decode(raw))
	}

	dest := filepath.Join(outDir, bookID+".cleaned.txt")
	if err := os.WriteFile(dest, []byte(out.Text), 0o644); err != nil {
		rec.Error = err.Error()
		return rec
	}

	rec.Blocks = out.Blocks
	rec.Bytes = len(out.Text)
	rec.Residue = strings.Join(out.Residue, ",")
	return rec
}

func writeCleanReport(path string, format report.Format, records []cleanRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w, err := report.NewWriter(f, format, cleanColumns)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// collectInputs expands directory arguments into the book files they
// contain, non-recursively, and passes file arguments through.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		if arg == "-" {
			inputs = append(inputs, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if isHTML(e.Name()) || strings.HasSuffix(e.Name(), ".txt") {
				inputs = append(inputs, filepath.Join(arg, e.Name()))
			}
		}
	}
	return inputs, nil
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".htm", ".html":
		return true
	}
	return false
}

// bookIDFromPath derives the book ID from a file name: 1342-h.htm and
// pg1342-images.html both become 1342.
func bookIDFromPath(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.SplitN(base, "-", 2)[0]
	base = strings.TrimPrefix(base, "pg")
	return base
}
