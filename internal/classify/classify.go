package classify

import (
	"context"
	"log"
	"math/rand"
	"sort"

	"countyscan/internal/config"
	"countyscan/internal/domain"
	"countyscan/internal/jsonl"
)

// CountLabels streams a JSONL record file and returns doc_type frequencies
// plus the total record count.
func CountLabels(path string) (map[string]int, int, error) {
	freq := make(map[string]int)
	total, skipped, err := jsonl.ScanFile(path, func(rec domain.Record) {
		if label := domain.StringValue(rec.DocType); label != "" {
			freq[label]++
		}
	})
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		log.Printf("classify input skipped=%d malformed lines", skipped)
	}
	log.Printf("classify found labels=%d records=%d", len(freq), total)
	return freq, total, nil
}

// CreateMapping builds the total label -> category mapping. The sampled
// (most frequent plus random-tail) labels go through the LLM when enabled
// and a credential is present; the rule table closes every remaining gap,
// so the key set always equals the input label set.
func CreateMapping(ctx context.Context, cfg config.Config, freq map[string]int, useLLM bool, rng *rand.Rand) map[string]string {
	var llmMap map[string]string

	if useLLM && cfg.LLMAPIKey() == "" {
		log.Printf("classify no %s API key configured, using rule-based fallback", cfg.LLMProvider)
		useLLM = false
	}
	if useLLM {
		sampled := SampleLabels(freq, cfg.LLMSampleSize, rng)
		log.Printf("classify sampled=%d of %d labels for LLM pass", len(sampled), len(freq))
		m, usage, err := NewLLMClassifier(cfg).ClassifyLabels(ctx, sampled)
		if err != nil {
			log.Printf("classify LLM pass failed: %v, using rule-based fallback", err)
		} else {
			llmMap = m
			log.Printf("classify LLM pass done tokens=%d", usage.TotalTokens())
		}
	} else {
		log.Printf("classify using rule-based classification only")
	}

	mapping := make(map[string]string, len(freq))
	for label := range freq {
		if category, ok := llmMap[label]; ok {
			mapping[label] = category
			continue
		}
		mapping[label] = RuleClassify(label)
	}
	return mapping
}

// LogDistribution reports how many labels landed in each category.
func LogDistribution(mapping map[string]string) {
	counts := make(map[string]int)
	for _, category := range mapping {
		counts[category]++
	}
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	log.Printf("classify category distribution:")
	for _, category := range categories {
		log.Printf("  %s: %d", category, counts[category])
	}
}
