package analysis

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"leadscout/internal/domain/trend"
)

// EnricherConfig contains limits for the enrichment stage.
type EnricherConfig struct {
	// ContextBudget caps the number of characters of message context sent
	// to the text-analysis service per candidate.
	ContextBudget int

	// Concurrency caps simultaneous text-analysis calls.
	Concurrency int
}

// DefaultEnricherConfig returns the standard enrichment limits.
func DefaultEnricherConfig() EnricherConfig {
	return EnricherConfig{
		ContextBudget: 3000,
		Concurrency:   4,
	}
}

// Enricher attaches a sentiment label and summary to each candidate via
// the external text-analysis service. Enrichment is best effort: any
// failure degrades that candidate to a neutral default instead of
// dropping it or failing the run.
type Enricher struct {
	analyzer   trend.Analyzer
	normalizer *Normalizer
	cfg        EnricherConfig
	logger     zerolog.Logger
}

// NewEnricher creates an enricher. analyzer may be nil, in which case
// every candidate receives the neutral default.
func NewEnricher(analyzer trend.Analyzer, normalizer *Normalizer, cfg EnricherConfig, logger zerolog.Logger) *Enricher {
	if cfg.ContextBudget <= 0 {
		cfg.ContextBudget = DefaultEnricherConfig().ContextBudget
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultEnricherConfig().Concurrency
	}
	return &Enricher{
		analyzer:   analyzer,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logger,
	}
}

func neutralEnrichment() trend.Enrichment {
	return trend.Enrichment{
		Sentiment: trend.SentimentNeutral,
		Summary:   "Text analysis unavailable.",
	}
}

// GatherContext selects the messages mentioning word and concatenates
// them up to the context budget. word is a stemmed token, so matching
// runs against the cleaned but unstemmed form of each message: a
// snowball stem is a prefix of its surface forms in almost all cases,
// which makes substring matching catch inflected occurrences that the
// raw text would miss.
func (e *Enricher) GatherContext(word string, messages []string) string {
	var b strings.Builder
	// The budget counts characters, not bytes: chat text here is mostly
	// Cyrillic, and a byte cap would halve the context and could split a
	// rune mid-sequence.
	runes := 0
	for _, msg := range messages {
		if !strings.Contains(e.normalizer.Clean(msg), word) {
			continue
		}
		if runes > 0 {
			b.WriteString(". ")
			runes += 2
		}
		b.WriteString(msg)
		runes += utf8.RuneCountInString(msg)
		if runes >= e.cfg.ContextBudget {
			break
		}
	}
	ctx := b.String()
	if runes > e.cfg.ContextBudget {
		ctx = string([]rune(ctx)[:e.cfg.ContextBudget])
	}
	return ctx
}

// EnrichAll enriches every candidate, issuing at most cfg.Concurrency
// external calls at a time. The returned slice is aligned with the
// input: result[i] belongs to candidates[i]. Cancellation mid-way leaves
// not-yet-enriched candidates with the neutral default.
func (e *Enricher) EnrichAll(ctx context.Context, candidates []trend.ScoredCandidate, messages []string) []trend.Enrichment {
	results := make([]trend.Enrichment, len(candidates))
	for i := range results {
		results[i] = neutralEnrichment()
	}
	if e.analyzer == nil || len(candidates) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			contextText := e.GatherContext(cand.Word, messages)
			if contextText == "" {
				return nil
			}
			enrichment, err := e.analyzer.Analyze(gctx, cand.Word, contextText)
			if err != nil {
				e.logger.Warn().Err(err).Str("word", cand.Word).Msg("text analysis failed, using neutral default")
				return nil
			}
			enrichment.Sentiment = trend.CoerceSentiment(string(enrichment.Sentiment))
			if enrichment.Summary == "" {
				enrichment.Summary = neutralEnrichment().Summary
			}
			results[i] = enrichment
			return nil
		})
	}
	// Workers never return errors; failures degrade in place.
	_ = g.Wait()
	return results
}
