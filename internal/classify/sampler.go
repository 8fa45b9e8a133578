package classify

import (
	"math/rand"
	"sort"
)

// Labels above this frequency rank always go to the LLM; the rest of the
// sample budget is spread randomly over the tail for coverage.
const topLabelCount = 50

// SampleLabels picks which labels get the higher-confidence LLM pass.
// When the distinct set fits the budget, everything is sampled. Otherwise
// the most frequent labels are taken first, then a random sample of the
// remainder fills the budget. Deterministic given rng.
func SampleLabels(freq map[string]int, sampleSize int, rng *rand.Rand) []string {
	byFrequency := make([]string, 0, len(freq))
	for label := range freq {
		byFrequency = append(byFrequency, label)
	}
	sort.Slice(byFrequency, func(i, j int) bool {
		if freq[byFrequency[i]] != freq[byFrequency[j]] {
			return freq[byFrequency[i]] > freq[byFrequency[j]]
		}
		return byFrequency[i] < byFrequency[j]
	})

	if len(byFrequency) <= sampleSize {
		return byFrequency
	}

	top := topLabelCount
	if top > sampleSize {
		top = sampleSize
	}
	sampled := append([]string(nil), byFrequency[:top]...)

	remaining := append([]string(nil), byFrequency[top:]...)
	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	need := sampleSize - len(sampled)
	if need > len(remaining) {
		need = len(remaining)
	}
	return append(sampled, remaining[:need]...)
}
