package intent

import "context"

// HybridAnalyzer tries an LLM-backed analyzer first and only consults the
// rule-based analyzer directly when the confidence threshold isn't met,
// letting the router trust the LLM's answer when it's confident and fall
// back to the deterministic rules otherwise. Note this is distinct from
// LLMAnalyzer's own internal fallback, which only triggers on outright
// failure; HybridAnalyzer additionally second-guesses a low-confidence
// but otherwise successful LLM answer.
type HybridAnalyzer struct {
	primary             Analyzer
	secondary           Analyzer
	confidenceThreshold float64
}

// NewHybridAnalyzer builds a HybridAnalyzer that prefers primary's result
// unless its confidence is below threshold, in which case secondary's
// result is used instead.
func NewHybridAnalyzer(primary, secondary Analyzer, confidenceThreshold float64) *HybridAnalyzer {
	return &HybridAnalyzer{primary: primary, secondary: secondary, confidenceThreshold: confidenceThreshold}
}

func (a *HybridAnalyzer) Analyze(ctx context.Context, message string, overrides Overrides) (Analysis, error) {
	primary, err := a.primary.Analyze(ctx, message, overrides)
	if err != nil {
		return a.secondary.Analyze(ctx, message, overrides)
	}
	if primary.Confidence >= a.confidenceThreshold {
		return primary, nil
	}
	return a.secondary.Analyze(ctx, message, overrides)
}

var _ Analyzer = (*HybridAnalyzer)(nil)
