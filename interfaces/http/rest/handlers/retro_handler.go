package handlers

import (
	"net/http"
	"strings"

	"retroboard/application/commands"
	"retroboard/application/commands/bus"
	"retroboard/application/queries"
	querybus "retroboard/application/queries/bus"
	"retroboard/pkg/common"
	appErrors "retroboard/pkg/errors"
	"retroboard/pkg/observability"

	"go.uber.org/zap"
)

// RetroHandler handles the retrospective analytics endpoints
type RetroHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *appErrors.ErrorHandler
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewRetroHandler creates a new handler. metrics may be nil.
func NewRetroHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *appErrors.ErrorHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
) *RetroHandler {
	return &RetroHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		metrics:    metrics,
		logger:     logger,
	}
}

// compareRequest is the body of POST /retros/compare
type compareRequest struct {
	SessionIDs []string `json:"retro_ids"`
}

// Compare handles POST /retros/compare
func (h *RetroHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.CompareSessionsQuery{SessionIDs: req.SessionIDs})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsCompared.Observe(float64(len(req.SessionIDs)))
	}
	h.respondJSON(w, http.StatusOK, result)
}

// GlobalMetrics handles GET /retros/metrics. retro_ids is a comma separated
// list and may be repeated; without it every session is included.
func (h *RetroHandler) GlobalMetrics(w http.ResponseWriter, r *http.Request) {
	query := queries.GlobalMetricsQuery{SessionIDs: splitIDs(r.URL.Query()["retro_ids"])}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Import handles POST /retros, storing an exported retrospective
func (h *RetroHandler) Import(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ImportRetrospectiveCommand
	if err := common.DecodeJSON(w, r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Info("Retrospective imported via API",
		zap.String("session_id", cmd.ID),
		zap.Int("items", len(cmd.Items)),
	)
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    cmd.ID,
		"items": len(cmd.Items),
	})
}

func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (h *RetroHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
