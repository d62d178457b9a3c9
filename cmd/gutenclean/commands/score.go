package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/literaryqa/gutenclean/internal/logger"
	"github.com/literaryqa/gutenclean/internal/report"
	"github.com/literaryqa/gutenclean/pkg/metrics"
)

// answerRecord is one line of a predictions or references file. A
// prediction uses Prediction; a reference line carries one or more Answers.
type answerRecord struct {
	ID         string   `json:"id"`
	Prediction string   `json:"prediction,omitempty"`
	Answers    []string `json:"answers,omitempty"`
}

// scoreSummary is the aggregate result printed by the score command.
type scoreSummary struct {
	Scored     int     `json:"scored" yaml:"scored"`
	Missing    int     `json:"missing" yaml:"missing"`
	ExactMatch float64 `json:"exact_match" yaml:"exact_match"`
	F1         float64 `json:"f1" yaml:"f1"`
	RougeL     float64 `json:"rouge_l" yaml:"rouge_l"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score predicted answers against references",
	Long: `Score a predictions file against a references file.

Both files are JSONL. A prediction line is {"id": ..., "prediction": ...};
a reference line is {"id": ..., "answers": [...]}. Each prediction is
scored against every reference answer for its ID and the best value is
kept; the command prints the mean exact match, token F1 and ROUGE-L.

Example:
  gutenclean score --pred pred.jsonl --ref ref.jsonl`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	flags := scoreCmd.Flags()
	flags.String("pred", "", "predictions JSONL file (required)")
	flags.String("ref", "", "references JSONL file (required)")

	_ = scoreCmd.MarkFlagRequired("pred")
	_ = scoreCmd.MarkFlagRequired("ref")
}

func runScore(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	predPath, _ := cmd.Flags().GetString("pred")
	refPath, _ := cmd.Flags().GetString("ref")

	preds, err := readAnswerFile(predPath)
	if err != nil {
		return err
	}
	refs, err := readAnswerFile(refPath)
	if err != nil {
		return err
	}

	references := make(map[string][]string, len(refs))
	for _, r := range refs {
		answers := r.Answers
		if len(answers) == 0 && r.Prediction != "" {
			answers = []string{r.Prediction}
		}
		references[r.ID] = answers
	}

	var summary scoreSummary
	for _, p := range preds {
		answers, ok := references[p.ID]
		if !ok || len(answers) == 0 {
			summary.Missing++
			logger.Warn("no reference for prediction", "id", p.ID)
			continue
		}
		summary.Scored++
		summary.ExactMatch += metrics.MaxOverReferences(func(pred, ref string) float64 {
			if metrics.ExactMatch(pred, ref) {
				return 1
			}
			return 0
		}, p.Prediction, answers)
		summary.F1 += metrics.MaxOverReferences(metrics.F1, p.Prediction, answers)
		summary.RougeL += metrics.MaxOverReferences(metrics.RougeL, p.Prediction, answers)
	}
	if summary.Scored > 0 {
		n := float64(summary.Scored)
		summary.ExactMatch /= n
		summary.F1 /= n
		summary.RougeL /= n
	}

	w := report.NewYAMLWriter(os.Stdout)
	if err := w.Write(summary); err != nil {
		return err
	}
	return w.Flush()
}

func readAnswerFile(path string) ([]answerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []answerRecord
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec answerRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		records = append(records, rec)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
