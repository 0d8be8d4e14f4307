package handlers

import (
	"context"
	"fmt"

	"retroboard/application/commands"
	"retroboard/application/commands/bus"
	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportRetrospectiveHandler stores externally exported retrospectives
type ImportRetrospectiveHandler struct {
	sessionRepo ports.SessionRepository
	itemRepo    ports.ItemRepository
	cache       ports.Cache
	logger      *zap.Logger
}

// NewImportRetrospectiveHandler creates a new import handler. cache may be nil.
func NewImportRetrospectiveHandler(
	sessionRepo ports.SessionRepository,
	itemRepo ports.ItemRepository,
	cache ports.Cache,
	logger *zap.Logger,
) *ImportRetrospectiveHandler {
	return &ImportRetrospectiveHandler{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Handle implements bus.CommandHandler
func (h *ImportRetrospectiveHandler) Handle(ctx context.Context, cmd bus.Command) error {
	importCmd, ok := cmd.(commands.ImportRetrospectiveCommand)
	if !ok {
		return fmt.Errorf("invalid command type: expected ImportRetrospectiveCommand, got %T", cmd)
	}
	_, err := h.Import(ctx, importCmd)
	return err
}

// Import saves the session and its items. Items without an id get a UUID,
// items without a timestamp inherit the session date.
func (h *ImportRetrospectiveHandler) Import(ctx context.Context, cmd commands.ImportRetrospectiveCommand) (*entities.Session, error) {
	sessionID, err := valueobjects.NewSessionIDFromString(cmd.ID)
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error()).WithCode(appErrors.CodeMalformedRequest)
	}

	template, ok := entities.SystemTemplate(cmd.TemplateID)
	if !ok {
		return nil, appErrors.NewValidationError(fmt.Sprintf("unknown template %q", cmd.TemplateID)).
			WithCode(appErrors.CodeMalformedRequest)
	}

	session := &entities.Session{
		ID:           sessionID,
		Title:        cmd.Title,
		Date:         cmd.Date.UTC(),
		Status:       valueobjects.SessionStatus(cmd.Status),
		AuthorName:   cmd.Author,
		Template:     template,
		Participants: append([]string(nil), cmd.Participants...),
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, appErrors.Wrapf(err, "failed to save session %s", session.ID)
	}

	for _, in := range cmd.Items {
		item := &entities.Item{
			ID:         in.ID,
			SessionID:  sessionID,
			Category:   in.Category,
			Content:    in.Content,
			AuthorName: in.Author,
			VoteCount:  in.Votes,
			CreatedAt:  in.Created.UTC(),
		}
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if in.Created.IsZero() {
			item.CreatedAt = session.Date
		}

		if err := h.itemRepo.Save(ctx, item); err != nil {
			return nil, appErrors.Wrapf(err, "failed to save item %s", item.ID)
		}
	}

	if h.cache != nil {
		if err := h.cache.Clear(ctx); err != nil {
			h.logger.Warn("Failed to clear query cache after import", zap.Error(err))
		}
	}

	h.logger.Info("Imported retrospective",
		zap.String("session_id", session.ID.String()),
		zap.Int("items", len(cmd.Items)),
	)

	return session, nil
}
