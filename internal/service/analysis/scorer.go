package analysis

import (
	"sort"

	"leadscout/internal/domain/trend"
)

// ScorerConfig contains the thresholds and weights for trend scoring.
type ScorerConfig struct {
	// MinFrequency is the absolute floor: a word must appear more than
	// this many times today to be considered.
	MinFrequency int

	// MinScore is the score floor a candidate must exceed.
	MinScore float64

	// GrowthWeight weighs the day-over-day percentage increase.
	GrowthWeight float64

	// VolumeWeight weighs today's absolute frequency.
	VolumeWeight float64
}

// DefaultScorerConfig returns the standard thresholds.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MinFrequency: 5,
		MinScore:     10,
		GrowthWeight: 0.7,
		VolumeWeight: 0.3,
	}
}

// Scorer computes day-over-day trendiness scores for words.
type Scorer struct {
	cfg ScorerConfig
}

// NewScorer creates a scorer with the given configuration.
func NewScorer(cfg ScorerConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the trendiness of a word given today's and yesterday's
// frequencies. A word absent yesterday scores its raw frequency, which
// rewards novel fast-rising terms without dividing by zero.
func (s *Scorer) Score(todayFreq, yesterdayFreq int) float64 {
	if yesterdayFreq == 0 {
		return float64(todayFreq)
	}
	pctIncrease := float64(todayFreq-yesterdayFreq) / float64(yesterdayFreq) * 100
	return s.cfg.GrowthWeight*pctIncrease + s.cfg.VolumeWeight*float64(todayFreq)
}

// Candidates scores every word recorded today against yesterday's
// frequencies (0 when absent) and returns those that grew, cleared the
// absolute frequency floor, and cleared the score floor. The result is
// unordered.
func (s *Scorer) Candidates(today, yesterday map[string]int) []trend.ScoredCandidate {
	var candidates []trend.ScoredCandidate
	for word, todayFreq := range today {
		yesterdayFreq := yesterday[word]
		if todayFreq <= yesterdayFreq || todayFreq <= s.cfg.MinFrequency {
			continue
		}
		score := s.Score(todayFreq, yesterdayFreq)
		if score <= s.cfg.MinScore {
			continue
		}
		candidates = append(candidates, trend.ScoredCandidate{
			Word:               word,
			TodayFrequency:     todayFreq,
			YesterdayFrequency: yesterdayFreq,
			Score:              score,
		})
	}
	return candidates
}

// Rank sorts candidates descending by score, breaking ties by word so the
// output is stable, and truncates to topN.
func Rank(candidates []trend.ScoredCandidate, topN int) []trend.ScoredCandidate {
	ranked := make([]trend.ScoredCandidate, len(candidates))
	copy(ranked, candidates)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Word < ranked[j].Word
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
