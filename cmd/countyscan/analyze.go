package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"countyscan/internal/analyze"
	"countyscan/internal/domain"
	"countyscan/internal/jsonl"
)

var (
	analyzeInput  string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze field patterns in a JSONL record file",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "JSONL records file to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "analysis_report.json", "path for the JSON report")
	analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer := analyze.New(time.Now())

	total, skipped, err := jsonl.ScanFile(analyzeInput, func(rec domain.Record) {
		analyzer.Add(rec)
	})
	if err != nil {
		return fmt.Errorf("reading %s: %w", analyzeInput, err)
	}
	log.Printf("analyze read records=%d skipped=%d from %s", total, skipped, analyzeInput)

	summaries := analyzer.Summaries()
	if len(summaries) == 0 {
		log.Printf("analyze no counties found in input")
	}
	for county, summary := range summaries {
		log.Printf("analyze county=%s records=%d instrument_patterns=%d doc_types=%d",
			county, summary.RecordCount, len(summary.InstrumentPatterns), summary.UniqueDocTypes)
	}

	return writeJSONFile(analyzeOutput, summaries)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Printf("wrote %s", path)
	return nil
}
