package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/domain/chat"
	"leadscout/internal/domain/trend"
)

type fakeRunner struct {
	tenantID int64
	day      time.Time
	source   chat.MessageSource
	groups   []string
	summary  trend.AnalysisSummary
	err      error
}

func (f *fakeRunner) RunAnalysis(_ context.Context, tenantID int64, day time.Time, source chat.MessageSource, groups []string) (trend.AnalysisSummary, error) {
	f.tenantID = tenantID
	f.day = day
	f.source = source
	f.groups = groups
	return f.summary, f.err
}

type fakeReader struct {
	tenantID int64
	day      time.Time
	trends   []trend.Trend
	err      error
}

func (f *fakeReader) GetTrends(_ context.Context, tenantID int64, day time.Time) ([]trend.Trend, error) {
	f.tenantID = tenantID
	f.day = day
	return f.trends, f.err
}

type fakeMemberScorer struct {
	group   string
	max     int
	members []chat.ScoredMember
	err     error
}

func (f *fakeMemberScorer) ScoreMembers(_ context.Context, group string, max int) ([]chat.ScoredMember, error) {
	f.group = group
	f.max = max
	return f.members, f.err
}

type stubSource struct{ name string }

func (s *stubSource) FetchRecentMessages(context.Context, string, int) ([]chat.Message, error) {
	return nil, nil
}

func newTenantRequest(method, target, tenantID, body string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tenantID", tenantID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAnalysisRun(t *testing.T) {
	runner := &fakeRunner{summary: trend.AnalysisSummary{ProcessedMessages: 40, TrendCount: 3}}
	chatSource := &stubSource{name: "scraper"}
	h := NewAnalysisHandler(runner, chatSource, nil, zerolog.Nop())

	req := newTenantRequest(http.MethodPost, "/api/v1/tenants/7/analysis", "7",
		`{"groups": ["uz_bozor"], "date": "2026-09-01"}`)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), runner.tenantID)
	assert.Equal(t, []string{"uz_bozor"}, runner.groups)
	assert.Same(t, chatSource, runner.source.(*stubSource))
	assert.Equal(t, "2026-09-01", runner.day.Format("2006-01-02"))

	var summary trend.AnalysisSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 40, summary.ProcessedMessages)
	assert.Equal(t, 3, summary.TrendCount)
}

func TestAnalysisRunPicksMentionSource(t *testing.T) {
	runner := &fakeRunner{}
	chatSource := &stubSource{name: "scraper"}
	mentionSource := &stubSource{name: "twitter"}
	h := NewAnalysisHandler(runner, chatSource, mentionSource, zerolog.Nop())

	req := newTenantRequest(http.MethodPost, "/api/v1/tenants/7/analysis", "7",
		`{"groups": ["crm tools"], "source": "twitter"}`)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, mentionSource, runner.source.(*stubSource))
}

func TestAnalysisRunMentionSourceNotConfigured(t *testing.T) {
	runner := &fakeRunner{}
	// Scraper configured, twitter not: an explicit twitter request must
	// not fall back to the scraper.
	h := NewAnalysisHandler(runner, &stubSource{name: "scraper"}, nil, zerolog.Nop())

	req := newTenantRequest(http.MethodPost, "/api/v1/tenants/7/analysis", "7",
		`{"groups": ["crm tools"], "source": "twitter"}`)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Nil(t, runner.groups)
}

func TestAnalysisRunBadRequests(t *testing.T) {
	h := NewAnalysisHandler(&fakeRunner{}, nil, nil, zerolog.Nop())

	tests := []struct {
		name     string
		tenantID string
		body     string
	}{
		{"bad tenant", "abc", `{"groups": ["g"]}`},
		{"bad body", "7", `{not json`},
		{"no groups", "7", `{"groups": []}`},
		{"bad date", "7", `{"groups": ["g"], "date": "01.09.2026"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newTenantRequest(http.MethodPost, "/api/v1/tenants/"+tt.tenantID+"/analysis", tt.tenantID, tt.body)
			rec := httptest.NewRecorder()
			h.Run(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalysisRunNoSourceConfigured(t *testing.T) {
	runner := &fakeRunner{err: trend.ErrNoSource}
	h := NewAnalysisHandler(runner, nil, nil, zerolog.Nop())

	req := newTenantRequest(http.MethodPost, "/api/v1/tenants/7/analysis", "7", `{"groups": ["g"]}`)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalysisRunPipelineFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("db down")}
	h := NewAnalysisHandler(runner, nil, nil, zerolog.Nop())

	req := newTenantRequest(http.MethodPost, "/api/v1/tenants/7/analysis", "7", `{"groups": ["g"]}`)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestGetTrends(t *testing.T) {
	reader := &fakeReader{trends: []trend.Trend{
		{ID: "a", TenantID: 7, Word: "telefon", Score: 73, Sentiment: trend.SentimentPositive, Summary: "s"},
	}}
	h := NewTrendHandler(reader)

	req := newTenantRequest(http.MethodGet, "/api/v1/tenants/7/trends?date=2026-09-01", "7", "")
	rec := httptest.NewRecorder()
	h.GetTrends(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, int64(7), reader.tenantID)
	assert.Equal(t, "2026-09-01", reader.day.Format("2006-01-02"))

	var got []trend.Trend
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "telefon", got[0].Word)
}

func TestGetTrendsDefaultsToToday(t *testing.T) {
	reader := &fakeReader{}
	h := NewTrendHandler(reader)

	req := newTenantRequest(http.MethodGet, "/api/v1/tenants/7/trends", "7", "")
	rec := httptest.NewRecorder()
	h.GetTrends(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Now().Format("2006-01-02"), reader.day.Format("2006-01-02"))
	// Empty snapshot serializes as an empty array, not null.
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetTrendsBadInputs(t *testing.T) {
	h := NewTrendHandler(&fakeReader{})

	req := newTenantRequest(http.MethodGet, "/api/v1/tenants/abc/trends", "abc", "")
	rec := httptest.NewRecorder()
	h.GetTrends(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = newTenantRequest(http.MethodGet, "/api/v1/tenants/7/trends?date=yesterday", "7", "")
	rec = httptest.NewRecorder()
	h.GetTrends(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTrendsReaderFailure(t *testing.T) {
	h := NewTrendHandler(&fakeReader{err: errors.New("db down")})

	req := newTenantRequest(http.MethodGet, "/api/v1/tenants/7/trends", "7", "")
	rec := httptest.NewRecorder()
	h.GetTrends(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScoreMembers(t *testing.T) {
	scorer := &fakeMemberScorer{members: []chat.ScoredMember{
		{UserID: 1, DisplayName: "Aziz", ActivityScore: 80, Presence: chat.PresenceOnline},
	}}
	h := NewMemberHandler(scorer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/7/members?group=uz_bozor&max=25", nil)
	rec := httptest.NewRecorder()
	h.ScoreMembers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uz_bozor", scorer.group)
	assert.Equal(t, 25, scorer.max)

	var got []chat.ScoredMember
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Aziz", got[0].DisplayName)
}

func TestScoreMembersBadInputs(t *testing.T) {
	h := NewMemberHandler(&fakeMemberScorer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/7/members", nil)
	rec := httptest.NewRecorder()
	h.ScoreMembers(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tenants/7/members?group=g&max=-1", nil)
	rec = httptest.NewRecorder()
	h.ScoreMembers(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreMembersUpstreamFailure(t *testing.T) {
	h := NewMemberHandler(&fakeMemberScorer{err: errors.New("scraper down")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/7/members?group=g", nil)
	rec := httptest.NewRecorder()
	h.ScoreMembers(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestScoreMembersEmptyResult(t *testing.T) {
	h := NewMemberHandler(&fakeMemberScorer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/7/members?group=g", nil)
	rec := httptest.NewRecorder()
	h.ScoreMembers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
