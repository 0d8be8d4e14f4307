package handlers

import (
	"context"
	"fmt"
	"sort"

	"retroboard/application/ports"
	"retroboard/application/queries"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	"retroboard/domain/services"
	appErrors "retroboard/pkg/errors"

	"go.uber.org/zap"
)

// GlobalMetricsHandler computes the aggregate metrics view
type GlobalMetricsHandler struct {
	sessionRepo ports.SessionRepository
	itemRepo    ports.ItemRepository
	configs     ports.AnalyticsConfigProvider
	logger      *zap.Logger
}

// NewGlobalMetricsHandler creates a new metrics handler
func NewGlobalMetricsHandler(
	sessionRepo ports.SessionRepository,
	itemRepo ports.ItemRepository,
	configs ports.AnalyticsConfigProvider,
	logger *zap.Logger,
) *GlobalMetricsHandler {
	if configs == nil {
		configs = ports.StaticConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GlobalMetricsHandler{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		configs:     configs,
		logger:      logger,
	}
}

// Handle executes the global metrics query
func (h *GlobalMetricsHandler) Handle(ctx context.Context, query queries.GlobalMetricsQuery) (*queries.GlobalMetricsResult, error) {
	cfg := h.configs.Current()

	sessions, err := h.selectSessions(ctx, query.SessionIDs)
	if err != nil {
		return nil, err
	}

	items := []*entities.Item{}
	if len(sessions) > 0 {
		items, err = h.itemRepo.GetItems(ctx, ports.ItemFilter{SessionIDs: entities.SessionIDs(sessions)})
		if err != nil {
			h.logger.Error("Failed to fetch items for metrics", zap.Error(err))
			return nil, repositoryError("get items", err)
		}
	}

	// Newest first for recency and participation windows
	byRecency := append([]*entities.Session(nil), sessions...)
	sort.SliceStable(byRecency, func(i, j int) bool {
		return byRecency[i].Date.After(byRecency[j].Date)
	})

	result := &queries.GlobalMetricsResult{
		General:    generalMetrics(byRecency, items, cfg.RecentSessionsLimit),
		Engagement: engagementMetrics(byRecency, items, services.NewTrendAnalyzer(cfg), cfg.ParticipationWindow),
		Patterns:   patternMetrics(items, cfg.ActionItemsSlug, cfg.TopVotedLimit),
	}

	h.logger.Debug("Computed global metrics",
		zap.Int("retros", len(sessions)),
		zap.Int("items", len(items)),
	)

	return result, nil
}

func (h *GlobalMetricsHandler) selectSessions(ctx context.Context, raw []string) ([]*entities.Session, error) {
	if len(raw) == 0 {
		sessions, err := h.sessionRepo.List(ctx)
		if err != nil {
			h.logger.Error("Failed to list sessions", zap.Error(err))
			return nil, repositoryError("list sessions", err)
		}
		return sessions, nil
	}

	ids, err := valueobjects.ParseSessionIDs(raw)
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error()).WithCode(appErrors.CodeMalformedRequest)
	}

	sessions, err := h.sessionRepo.GetByIDs(ctx, ids)
	if err != nil {
		h.logger.Error("Failed to fetch sessions for metrics", zap.Error(err))
		return nil, repositoryError("get sessions", err)
	}

	if len(sessions) != len(ids) {
		return nil, appErrors.NewValidationError(
			fmt.Sprintf("only %d of %d retrospectives were found", len(sessions), len(ids)),
		).WithCode(appErrors.CodeUnknownSessions)
	}

	return sessions, nil
}

func generalMetrics(byRecency []*entities.Session, items []*entities.Item, recentLimit int) queries.GeneralMetrics {
	m := queries.GeneralMetrics{
		TotalSessions:    len(byRecency),
		TotalItems:       len(items),
		SessionsByStatus: make(map[valueobjects.SessionStatus]int),
		RecentSessions:   make([]queries.RecentSession, 0, recentLimit),
	}

	for _, item := range items {
		m.TotalVotes += item.VoteCount
	}

	participants, completed := 0, 0
	for _, s := range byRecency {
		m.SessionsByStatus[s.Status]++
		participants += s.ParticipantCount()
		if s.IsCompleted() {
			completed++
		}
	}

	if n := float64(len(byRecency)); n > 0 {
		m.AvgItems = services.Round(float64(len(items))/n, 1)
		m.AvgParticipants = services.Round(float64(participants)/n, 1)
		m.CompletionRate = services.Round(float64(completed)/n*100, 2)
	}

	for i, s := range byRecency {
		if i == recentLimit {
			break
		}
		m.RecentSessions = append(m.RecentSessions, queries.RecentSession{
			ID:     s.ID,
			Title:  s.Title,
			Status: s.Status,
			Date:   s.Date,
			Author: queries.AuthorRef{Username: s.AuthorName},
		})
	}

	return m
}

func engagementMetrics(byRecency []*entities.Session, items []*entities.Item, trends *services.TrendAnalyzer, window int) queries.EngagementMetrics {
	m := queries.EngagementMetrics{
		ParticipantsPerRetro: make(map[string]int, len(byRecency)),
	}

	authors := make(map[string]struct{})
	for _, item := range items {
		authors[item.AuthorName] = struct{}{}
	}
	if len(authors) > 0 {
		m.ItemsPerPerson = services.Round(float64(len(items))/float64(len(authors)), 2)
	}

	counts := make([]int, len(byRecency))
	for i, s := range byRecency {
		counts[i] = s.ParticipantCount()
		m.ParticipantsPerRetro[s.ID.String()] = counts[i]
	}
	m.ParticipationTrend = trends.Participation(counts, window)

	return m
}

func patternMetrics(items []*entities.Item, actionSlug string, topLimit int) queries.PatternMetrics {
	m := queries.PatternMetrics{
		ItemsPerCategory: make(map[string]int),
		TopVotedItems:    make([]queries.VotedItem, 0, topLimit),
	}

	for _, item := range items {
		m.ItemsPerCategory[item.Category]++
		if item.Category == actionSlug {
			m.TotalActionItems++
		}
	}

	ranked := append([]*entities.Item(nil), items...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].VoteCount != ranked[j].VoteCount {
			return ranked[i].VoteCount > ranked[j].VoteCount
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i, item := range ranked {
		if i == topLimit {
			break
		}
		m.TopVotedItems = append(m.TopVotedItems, queries.VotedItem{
			ID:        item.ID,
			SessionID: item.SessionID,
			Category:  item.Category,
			Content:   item.Content,
			Author:    queries.AuthorRef{Username: item.AuthorName},
			VoteCount: item.VoteCount,
			CreatedAt: item.CreatedAt,
		})
	}

	return m
}
