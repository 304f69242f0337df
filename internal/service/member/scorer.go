package member

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"leadscout/internal/domain/chat"
)

// Presence and profile weights for the activity heuristic. Online and
// recently-seen are mutually exclusive.
const (
	weightOnline   = 50
	weightRecently = 40
	weightPhoto    = 20
	weightBio      = 10
)

// ScorerConfig contains configuration for member activity scoring.
type ScorerConfig struct {
	// MinScore is the activity score a member must reach to be kept.
	MinScore int

	// MaxResults caps the number of returned members per group.
	MaxResults int
}

// DefaultScorerConfig returns the standard member scoring thresholds.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MinScore:   40,
		MaxResults: 100,
	}
}

// Scorer scores chat-group members by presence and profile completeness
// to decide which are active enough to harvest as leads.
type Scorer struct {
	source chat.MemberSource
	cfg    ScorerConfig
	logger zerolog.Logger
}

// NewScorer creates a member scorer over the given source.
func NewScorer(source chat.MemberSource, cfg ScorerConfig, logger zerolog.Logger) *Scorer {
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultScorerConfig().MinScore
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultScorerConfig().MaxResults
	}
	return &Scorer{
		source: source,
		cfg:    cfg,
		logger: logger,
	}
}

// ActivityScore computes the weighted presence/profile score for a
// member. Bots and deleted accounts are handled by the caller.
func ActivityScore(m chat.Member) int {
	score := 0
	switch m.Presence {
	case chat.PresenceOnline:
		score += weightOnline
	case chat.PresenceRecently:
		score += weightRecently
	}
	if m.HasPhoto {
		score += weightPhoto
	}
	if m.HasBio {
		score += weightBio
	}
	return score
}

// ScoreMembers streams members of a group, drops bots, deleted accounts
// and anyone below the minimum activity score, and returns up to max
// scored members in source order. Iteration over the source stops as
// soon as the cap is reached; member lists can be unbounded and are
// expensive to drain. max <= 0 selects the configured default.
func (s *Scorer) ScoreMembers(ctx context.Context, group string, max int) ([]chat.ScoredMember, error) {
	if s.source == nil {
		return nil, fmt.Errorf("member source not configured")
	}
	if max <= 0 || max > s.cfg.MaxResults {
		max = s.cfg.MaxResults
	}

	scored := make([]chat.ScoredMember, 0, max)
	err := s.source.EachMember(ctx, group, func(m chat.Member) bool {
		if m.IsBot || m.IsDeleted {
			return true
		}
		score := ActivityScore(m)
		if score < s.cfg.MinScore {
			return true
		}
		scored = append(scored, chat.ScoredMember{
			UserID:        m.UserID,
			DisplayName:   m.DisplayName(),
			Username:      m.Username,
			ActivityScore: score,
			Presence:      m.Presence,
		})
		return len(scored) < max
	})
	if err != nil {
		return nil, fmt.Errorf("scraping members of %q: %w", group, err)
	}

	s.logger.Debug().Str("group", group).Int("members", len(scored)).Msg("member scoring complete")
	return scored, nil
}
