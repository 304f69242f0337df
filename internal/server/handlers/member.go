package handlers

import (
	"context"
	"net/http"
	"strconv"

	"leadscout/internal/domain/chat"
)

// MemberScorer scores chat-group members for lead harvesting.
type MemberScorer interface {
	ScoreMembers(ctx context.Context, group string, max int) ([]chat.ScoredMember, error)
}

// MemberHandler handles member scoring requests.
type MemberHandler struct {
	scorer MemberScorer
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(scorer MemberScorer) *MemberHandler {
	return &MemberHandler{scorer: scorer}
}

// ScoreMembers returns the active members of a group, scored and capped.
func (h *MemberHandler) ScoreMembers(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if group == "" {
		respondWithError(w, http.StatusBadRequest, "Missing group parameter")
		return
	}

	max := 0
	if maxStr := r.URL.Query().Get("max"); maxStr != "" {
		parsed, err := strconv.Atoi(maxStr)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid max parameter")
			return
		}
		max = parsed
	}

	members, err := h.scorer.ScoreMembers(r.Context(), group, max)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to score group members")
		return
	}
	if members == nil {
		members = []chat.ScoredMember{}
	}

	respondWithJSON(w, http.StatusOK, members)
}
