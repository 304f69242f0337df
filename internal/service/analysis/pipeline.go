package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"leadscout/internal/domain/chat"
	"leadscout/internal/domain/trend"
)

// EventPublisher publishes trend events to the event bus. *nats.Conn
// satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// ScheduleEntry is one tenant's scheduled analysis work.
type ScheduleEntry struct {
	TenantID int64
	Groups   []string
}

// PipelineConfig contains configuration for the analysis pipeline.
type PipelineConfig struct {
	// TopN caps the stored trend snapshot per tenant per day.
	TopN int

	// FetchLimit is the number of recent messages requested per group.
	FetchLimit int

	// EventsTopic is the NATS subject prefix for trend events.
	EventsTopic string

	// ScanInterval enables scheduled runs when positive.
	ScanInterval time.Duration

	// Schedule lists the tenants re-analyzed on each scan.
	Schedule []ScheduleEntry
}

// Pipeline runs the full trend analysis for a tenant: harvest messages,
// normalize, aggregate frequencies, score against yesterday, enrich the
// candidates, rank and persist the snapshot.
type Pipeline struct {
	normalizer *Normalizer
	aggregator *Aggregator
	scorer     *Scorer
	enricher   *Enricher
	freqStore  trend.FrequencyStore
	trendStore trend.Store
	source     chat.MessageSource
	eventBus   EventPublisher
	cfg        PipelineConfig
	logger     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPipeline wires the pipeline stages together. source is the default
// message source used for scheduled runs and for RunAnalysis calls that
// do not override it. eventBus may be nil to disable event publishing.
func NewPipeline(
	normalizer *Normalizer,
	aggregator *Aggregator,
	scorer *Scorer,
	enricher *Enricher,
	freqStore trend.FrequencyStore,
	trendStore trend.Store,
	source chat.MessageSource,
	eventBus EventPublisher,
	cfg PipelineConfig,
	logger zerolog.Logger,
) *Pipeline {
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 100
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pipeline{
		normalizer: normalizer,
		aggregator: aggregator,
		scorer:     scorer,
		enricher:   enricher,
		freqStore:  freqStore,
		trendStore: trendStore,
		source:     source,
		eventBus:   eventBus,
		cfg:        cfg,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RunAnalysis executes the full pipeline for one tenant and day using the
// given source and monitored groups. A nil source falls back to the
// pipeline's default; having neither is a configuration error reported
// before any frequency is mutated. The returned summary reflects a fully
// committed snapshot; on error the prior snapshot is untouched.
func (p *Pipeline) RunAnalysis(ctx context.Context, tenantID int64, day time.Time, source chat.MessageSource, groups []string) (trend.AnalysisSummary, error) {
	if source == nil {
		source = p.source
	}
	if source == nil {
		return trend.AnalysisSummary{}, trend.ErrNoSource
	}
	day = trend.Day(day)

	// Harvest messages from all groups concurrently. A failing group is
	// logged and skipped; it never aborts the run.
	messages := p.fetchMessages(ctx, source, groups)
	if err := ctx.Err(); err != nil {
		return trend.AnalysisSummary{}, err
	}

	var tokens []string
	for _, msg := range messages {
		tokens = append(tokens, p.normalizer.Tokenize(msg)...)
	}
	if err := p.aggregator.Aggregate(ctx, tenantID, day, tokens); err != nil {
		return trend.AnalysisSummary{}, fmt.Errorf("aggregating frequencies for tenant %d: %w", tenantID, err)
	}

	today, err := p.freqStore.GetFrequencies(ctx, tenantID, day)
	if err != nil {
		return trend.AnalysisSummary{}, fmt.Errorf("reading today's frequencies: %w", err)
	}
	yesterday, err := p.freqStore.GetFrequencies(ctx, tenantID, day.AddDate(0, 0, -1))
	if err != nil {
		return trend.AnalysisSummary{}, fmt.Errorf("reading yesterday's frequencies: %w", err)
	}

	candidates := Rank(p.scorer.Candidates(today, yesterday), p.cfg.TopN)
	enrichments := p.enricher.EnrichAll(ctx, candidates, messages)

	now := time.Now().UTC()
	trends := make([]trend.Trend, len(candidates))
	for i, cand := range candidates {
		trends[i] = trend.Trend{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Word:      cand.Word,
			Day:       day,
			Score:     cand.Score,
			Sentiment: enrichments[i].Sentiment,
			Summary:   enrichments[i].Summary,
			CreatedAt: now,
		}
	}

	// Replace even when empty: "no trends today" is a valid state,
	// distinct from "analysis never ran".
	if err := p.trendStore.ReplaceTrends(ctx, tenantID, day, trends); err != nil {
		return trend.AnalysisSummary{}, fmt.Errorf("replacing trend snapshot for tenant %d: %w", tenantID, err)
	}

	p.publishTrendEvent(tenantID, day, trends)

	summary := trend.AnalysisSummary{
		ProcessedMessages: len(messages),
		TrendCount:        len(trends),
	}
	p.logger.Info().
		Int64("tenant_id", tenantID).
		Str("day", day.Format("2006-01-02")).
		Int("messages", summary.ProcessedMessages).
		Int("trends", summary.TrendCount).
		Msg("analysis run complete")
	return summary, nil
}

// GetTrends returns the stored snapshot for (tenantID, day), ordered by
// score descending.
func (p *Pipeline) GetTrends(ctx context.Context, tenantID int64, day time.Time) ([]trend.Trend, error) {
	return p.trendStore.GetTrends(ctx, tenantID, trend.Day(day))
}

func (p *Pipeline) fetchMessages(ctx context.Context, source chat.MessageSource, groups []string) []string {
	var (
		mu       sync.Mutex
		messages []string
		wg       sync.WaitGroup
	)
	for _, group := range groups {
		wg.Add(1)
		go func(group string) {
			defer wg.Done()
			fetched, err := source.FetchRecentMessages(ctx, group, p.cfg.FetchLimit)
			if err != nil {
				p.logger.Warn().Err(err).Str("group", group).Msg("skipping unreachable group")
				return
			}
			mu.Lock()
			for _, m := range fetched {
				if m.Content != "" {
					messages = append(messages, m.Content)
				}
			}
			mu.Unlock()
		}(group)
	}
	wg.Wait()
	return messages
}

type trendEvent struct {
	TenantID   int64         `json:"tenant_id"`
	Day        string        `json:"date"`
	TrendCount int           `json:"trend_count"`
	Trends     []trend.Trend `json:"trends"`
}

func (p *Pipeline) publishTrendEvent(tenantID int64, day time.Time, trends []trend.Trend) {
	if p.eventBus == nil || p.cfg.EventsTopic == "" {
		return
	}
	data, err := json.Marshal(trendEvent{
		TenantID:   tenantID,
		Day:        day.Format("2006-01-02"),
		TrendCount: len(trends),
		Trends:     trends,
	})
	if err != nil {
		p.logger.Error().Err(err).Msg("marshaling trend event")
		return
	}
	subject := fmt.Sprintf("%s.detected.%d", p.cfg.EventsTopic, tenantID)
	if err := p.eventBus.Publish(subject, data); err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("publishing trend event")
	}
}

// Start begins scheduled analysis runs when a scan interval is
// configured. It returns immediately; runs happen on a background
// goroutine until Stop.
func (p *Pipeline) Start() error {
	if p.cfg.ScanInterval <= 0 || len(p.cfg.Schedule) == 0 {
		return nil
	}
	p.wg.Add(1)
	go p.scanLoop()
	return nil
}

func (p *Pipeline) scanLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			day := time.Now()
			for _, entry := range p.cfg.Schedule {
				if p.ctx.Err() != nil {
					return
				}
				if _, err := p.RunAnalysis(p.ctx, entry.TenantID, day, nil, entry.Groups); err != nil {
					p.logger.Error().Err(err).Int64("tenant_id", entry.TenantID).Msg("scheduled analysis failed")
				}
			}
		}
	}
}

// Stop cancels scheduled runs and waits for any in-flight run to finish,
// or for ctx to expire.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
