package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Presence is a member's last-seen status as reported by the scraper.
type Presence string

const (
	PresenceOnline   Presence = "ONLINE"
	PresenceRecently Presence = "RECENTLY"
	PresenceOffline  Presence = "OFFLINE"
	PresenceUnknown  Presence = "UNKNOWN"
)

// Message is one harvested chat message.
type Message struct {
	ID      int64     `json:"message_id"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Member is one scraped chat-group member.
type Member struct {
	UserID    int64    `json:"user_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Username  string   `json:"username"`
	HasPhoto  bool     `json:"has_photo"`
	HasBio    bool     `json:"has_bio"`
	IsBot     bool     `json:"is_bot"`
	IsDeleted bool     `json:"is_deleted"`
	Presence  Presence `json:"status"`
}

// DisplayName resolves the member's display name: full name when present,
// otherwise username, otherwise a synthesized fallback.
func (m Member) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
	if full != "" {
		return full
	}
	if m.Username != "" {
		return m.Username
	}
	return fmt.Sprintf("User_%d", m.UserID)
}

// ScoredMember is a member that passed the activity threshold.
type ScoredMember struct {
	UserID        int64    `json:"user_id"`
	DisplayName   string   `json:"full_name"`
	Username      string   `json:"username,omitempty"`
	ActivityScore int      `json:"activity_score"`
	Presence      Presence `json:"status"`
}

// MessageSource fetches recent messages from a monitored group. A group
// identifier is source-specific: a Telegram group link for the scraper,
// a search query for the mention source.
type MessageSource interface {
	FetchRecentMessages(ctx context.Context, group string, limit int) ([]Message, error)
}

// MemberSource streams members of a group. fn is called once per member;
// returning false stops iteration early, which matters because group
// member lists can be very large and expensive to drain.
type MemberSource interface {
	EachMember(ctx context.Context, group string, fn func(Member) bool) error
}
