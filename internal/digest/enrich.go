package digest

import (
	"context"
	"log/slog"
	"time"
)

// Enricher rephrases a deterministic digest into something friendlier.
// Implementations are expected to fail: timeouts, quota exhaustion, and
// malformed responses are all normal.
type Enricher interface {
	Enrich(ctx context.Context, text string) (string, error)
}

// Enrich runs the enricher with a hard timeout and falls back to the
// deterministic text on any failure or on an empty result. It never returns
// an error: enrichment is strictly additive and must not block a digest.
func Enrich(ctx context.Context, enricher Enricher, text string, timeout time.Duration) string {
	if enricher == nil || text == "" {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	enriched, err := enricher.Enrich(ctx, text)
	if err != nil {
		slog.Warn("digest enrichment failed, using deterministic text", "error", err)
		return text
	}
	if enriched == "" {
		slog.Warn("digest enrichment returned empty text, using deterministic text")
		return text
	}
	return enriched
}
