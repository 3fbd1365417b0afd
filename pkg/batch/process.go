package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/coolbeans/lexunit/pkg/parser"
	"github.com/coolbeans/lexunit/pkg/types"
)

// DocumentResult summarizes one successfully processed document.
type DocumentResult struct {
	SourceFile string `json:"source_file"`
	OutputFile string `json:"output_file"`
	Units      int    `json:"units"`
	Citations  int    `json:"citations"`
	Valid      bool   `json:"valid"`
}

// Summary aggregates a whole batch run.
type Summary struct {
	Documents int              `json:"documents"`
	Units     int              `json:"units"`
	Citations int              `json:"citations"`
	Invalid   int              `json:"invalid"`
	Failures  []string         `json:"failures,omitempty"`
	Results   []DocumentResult `json:"results"`
}

// ProcessDirectory parses every matching file in dir through the full
// pipeline and writes one JSON document per input into the configured
// output directory.
func ProcessDirectory(dir string, cfg *Config, log *logrus.Logger) (*Summary, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	files, err := filepath.Glob(filepath.Join(dir, cfg.Pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "globbing %s", cfg.Pattern)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matching %s in %s", cfg.Pattern, dir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	log.WithFields(logrus.Fields{
		"files":   len(files),
		"workers": cfg.Workers,
	}).Info("starting batch run")

	var failed atomic.Bool
	runner := NewRunner[string, DocumentResult](RunnerConfig{
		MaxConcurrency: cfg.Workers,
		OnMessage:      func(msg string) { log.Info(msg) },
	})
	run := runner.Run(files, func(path string, messages chan<- string, results chan<- DocumentResult, errs chan<- error) {
		if cfg.FailFast && failed.Load() {
			return
		}
		result, err := processFile(path, cfg.OutputDir)
		if err != nil {
			failed.Store(true)
			errs <- errors.Wrapf(err, "processing %s", path)
			return
		}
		messages <- fmt.Sprintf("parsed %s: %d units, %d citations", filepath.Base(path), result.Units, result.Citations)
		results <- *result
	})

	sort.Slice(run.Results, func(i, j int) bool {
		return run.Results[i].SourceFile < run.Results[j].SourceFile
	})

	summary := &Summary{
		Documents: len(run.Results),
		Units:     lo.SumBy(run.Results, func(r DocumentResult) int { return r.Units }),
		Citations: lo.SumBy(run.Results, func(r DocumentResult) int { return r.Citations }),
		Invalid:   lo.CountBy(run.Results, func(r DocumentResult) bool { return !r.Valid }),
		Results:   run.Results,
		Failures: lo.Map(run.Errors, func(err error, _ int) string {
			return err.Error()
		}),
	}

	for _, err := range run.Errors {
		log.WithError(err).Error("document failed")
	}
	log.WithFields(logrus.Fields{
		"documents": summary.Documents,
		"units":     summary.Units,
		"citations": summary.Citations,
		"failures":  len(summary.Failures),
	}).Info("batch run finished")

	return summary, nil
}

func processFile(path, outputDir string) (*DocumentResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening document")
	}
	defer f.Close()

	result, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	outName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
	outPath := filepath.Join(outputDir, outName)
	if err := writeJSON(outPath, result); err != nil {
		return nil, err
	}

	return &DocumentResult{
		SourceFile: filepath.Base(path),
		OutputFile: outPath,
		Units:      len(result.Units),
		Citations:  countCitations(result.Units),
		Valid:      result.Report.IsValid(),
	}, nil
}

func countCitations(units []*types.Unit) int {
	return lo.SumBy(units, func(u *types.Unit) int { return len(u.Citations) })
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing output")
	}
	return nil
}
