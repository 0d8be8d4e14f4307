package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"retroboard/application/ports"
	"retroboard/application/queries"
	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	"retroboard/domain/services"
	appErrors "retroboard/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "retroboard/analytics"

// CompareSessionsHandler builds comparison reports
type CompareSessionsHandler struct {
	sessionRepo ports.SessionRepository
	itemRepo    ports.ItemRepository
	configs     ports.AnalyticsConfigProvider
	finder      services.MatchFinder
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewCompareSessionsHandler creates a new comparison handler
func NewCompareSessionsHandler(
	sessionRepo ports.SessionRepository,
	itemRepo ports.ItemRepository,
	configs ports.AnalyticsConfigProvider,
	finder services.MatchFinder,
	tracer trace.Tracer,
	logger *zap.Logger,
) *CompareSessionsHandler {
	if configs == nil {
		configs = ports.StaticConfig{}
	}
	if finder == nil {
		finder = services.NewBruteForceMatchFinder(nil)
	}
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CompareSessionsHandler{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		configs:     configs,
		finder:      finder,
		tracer:      tracer,
		logger:      logger,
	}
}

// Handle validates the request against the stored sessions, then runs the
// three analyzers concurrently over one snapshot of the items
func (h *CompareSessionsHandler) Handle(ctx context.Context, query queries.CompareSessionsQuery) (*queries.ComparisonReport, error) {
	cfg := h.configs.Current()

	ctx, span := h.tracer.Start(ctx, "CompareSessions",
		trace.WithAttributes(attribute.Int("retro.count", len(query.SessionIDs))))
	defer span.End()

	if cfg.ComparisonTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ComparisonTimeout)
		defer cancel()
	}

	ids, err := requestedSessions(query.SessionIDs, cfg)
	if err != nil {
		return nil, err
	}

	sessions, err := h.loadSessions(ctx, ids)
	if err != nil {
		return nil, err
	}

	warnings, err := checkTemplates(sessions, cfg)
	if err != nil {
		return nil, err
	}

	chronological := entities.SessionIDs(sessions)
	items, err := h.itemRepo.GetItems(ctx, ports.ItemFilter{SessionIDs: chronological})
	if err != nil {
		h.logger.Error("Failed to fetch items for comparison",
			zap.Strings("retro_ids", query.SessionIDs),
			zap.Error(err),
		)
		return nil, repositoryError("get items", err)
	}

	report := &queries.ComparisonReport{
		Sessions: summarize(sessions),
		Period: queries.AnalysisPeriod{
			Start: sessions[0].Date,
			End:   sessions[len(sessions)-1].Date,
		},
		Warnings: warnings,
	}

	// The analyzers share read-only inputs and write to disjoint fields.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, s := h.tracer.Start(gctx, "ActionItemTracker.Analyze")
		defer s.End()
		report.ActionItems = services.NewActionItemTracker(cfg, h.finder).Analyze(chronological, items)
		return nil
	})
	g.Go(func() error {
		_, s := h.tracer.Start(gctx, "RecurrenceAnalyzer.Analyze")
		defer s.End()
		report.Recurrences = services.NewRecurrenceAnalyzer(cfg, h.finder).Analyze(chronological, items)
		return nil
	})
	g.Go(func() error {
		_, s := h.tracer.Start(gctx, "TrendAnalyzer.Analyze")
		defer s.End()
		report.Trends = services.NewTrendAnalyzer(cfg).Analyze(sessions, items)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, "comparison failed")
	}

	h.logger.Info("Compared retrospectives",
		zap.Strings("retro_ids", query.SessionIDs),
		zap.Int("items", len(items)),
		zap.Int("recurrences", report.Recurrences.Total),
		zap.Int("warnings", len(warnings)),
	)

	return report, nil
}

// requestedSessions parses ids and enforces the configured bounds
func requestedSessions(raw []string, cfg *config.AnalyticsConfig) ([]valueobjects.SessionID, error) {
	ids, err := valueobjects.ParseSessionIDs(raw)
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error()).WithCode(appErrors.CodeMalformedRequest)
	}

	if len(ids) < cfg.MinSessions || len(ids) > cfg.MaxSessions {
		return nil, appErrors.NewValidationError(
			fmt.Sprintf("between %d and %d retrospectives must be compared, got %d", cfg.MinSessions, cfg.MaxSessions, len(ids)),
		).WithCode(appErrors.CodeInvalidSessionCount)
	}

	seen := make(map[valueobjects.SessionID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, appErrors.NewValidationError("duplicate retrospective ids are not allowed").
				WithCode(appErrors.CodeDuplicateSessions).
				WithDetail("retro_id", id.String())
		}
		seen[id] = true
	}

	return ids, nil
}

// loadSessions fetches the requested sessions in chronological order. Sessions
// sharing a date keep the order they were requested in.
func (h *CompareSessionsHandler) loadSessions(ctx context.Context, ids []valueobjects.SessionID) ([]*entities.Session, error) {
	found, err := h.sessionRepo.GetByIDs(ctx, ids)
	if err != nil {
		h.logger.Error("Failed to fetch sessions for comparison", zap.Error(err))
		return nil, repositoryError("get sessions", err)
	}

	byID := make(map[valueobjects.SessionID]*entities.Session, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	sessions := make([]*entities.Session, 0, len(ids))
	var missing []string
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		sessions = append(sessions, s)
	}

	if len(missing) > 0 {
		return nil, appErrors.NewValidationError(
			fmt.Sprintf("only %d of %d retrospectives were found", len(sessions), len(ids)),
		).WithCode(appErrors.CodeUnknownSessions).WithDetail("missing", missing)
	}

	entities.SortChronologically(sessions)
	return sessions, nil
}

// checkTemplates reports sessions whose template categories differ from the
// first session's. Trends are attributed to the first template, so such
// sessions contribute only to the categories they share with it.
func checkTemplates(sessions []*entities.Session, cfg *config.AnalyticsConfig) ([]string, error) {
	warnings := make([]string, 0)
	reference := sessions[0]

	var mismatched []string
	for _, s := range sessions[1:] {
		if !reference.Template.HasSameCategories(s.Template) {
			mismatched = append(mismatched, s.ID.String())
		}
	}
	if len(mismatched) == 0 {
		return warnings, nil
	}

	if cfg.RequireSameTemplate {
		return nil, appErrors.NewValidationError("retrospectives must share the same template categories").
			WithCode(appErrors.CodeTemplateMismatch).
			WithDetail("mismatched", mismatched)
	}

	warnings = append(warnings, fmt.Sprintf(
		"retrospectives %s use a template different from %s; category trends follow the template of %s",
		strings.Join(mismatched, ", "), reference.ID, reference.ID,
	))
	return warnings, nil
}

func summarize(sessions []*entities.Session) []queries.SessionSummary {
	out := make([]queries.SessionSummary, len(sessions))
	for i, s := range sessions {
		out[i] = queries.SessionSummary{
			ID:         s.ID,
			Title:      s.Title,
			Date:       s.Date,
			Status:     s.Status,
			AuthorName: s.AuthorName,
		}
	}
	return out
}

// repositoryError keeps typed errors from the persistence layer and turns
// anything else into a database error
func repositoryError(op string, err error) error {
	if appErrors.GetAppError(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.NewTimeoutError(op).WithCause(err)
	}
	return appErrors.NewDatabaseError(op, err)
}
