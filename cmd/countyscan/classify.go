package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"countyscan/internal/classify"
)

var (
	classifyInput  string
	classifyOutput string
	classifyNoLLM  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Map raw doc_type labels to standardized categories",
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyInput, "input", "", "JSONL records file to classify (required)")
	classifyCmd.Flags().StringVar(&classifyOutput, "output", "doc_type_mapping.json", "path for the JSON mapping file")
	classifyCmd.Flags().BoolVar(&classifyNoLLM, "no-llm", false, "skip the LLM pass and use keyword rules only")
	classifyCmd.MarkFlagRequired("input")
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	freq, _, err := classify.CountLabels(classifyInput)
	if err != nil {
		return fmt.Errorf("reading %s: %w", classifyInput, err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	mapping := classify.CreateMapping(ctx, cfg, freq, !classifyNoLLM, rng)
	classify.LogDistribution(mapping)

	return writeJSONFile(classifyOutput, mapping)
}
