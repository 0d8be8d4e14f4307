package handlers

import (
	"context"
	"fmt"
	"time"

	"retroboard/application/commands"
	"retroboard/application/commands/bus"
	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"

	"go.uber.org/zap"
)

const seedInterval = 14 // days between demo sessions

var (
	demoTeam = []string{"ana", "bruno", "carla", "diego", "elisa", "fabio"}

	// Each pool rotates across sessions; neighbouring entries restate the same
	// concern so comparisons find recurrences.
	demoNotes = map[string][]string{
		"went_well": {
			"Boa colaboração do time",
			"Boa colaboração entre o time",
			"Pair programming ajudou muito",
			"Deploy sem incidentes",
		},
		"to_improve": {
			"Reuniões muito longas e improdutivas demais",
			"Reuniões muito longas e improdutivas",
			"Falta de testes automatizados",
			"Falta de testes automatizados no backend",
			"Deploy manual demorado",
			"Deploy manual muito demorado",
		},
		"action_items": {
			"Implementar CI/CD",
			"Melhorar documentação",
			"Melhorar a documentação",
			"Refatorar código",
		},
	}
)

// SeedDemoDataHandler fills the repositories with demo retrospectives
type SeedDemoDataHandler struct {
	sessionRepo ports.SessionRepository
	itemRepo    ports.ItemRepository
	cache       ports.Cache
	logger      *zap.Logger
}

// NewSeedDemoDataHandler creates a new seeding handler. cache may be nil.
func NewSeedDemoDataHandler(
	sessionRepo ports.SessionRepository,
	itemRepo ports.ItemRepository,
	cache ports.Cache,
	logger *zap.Logger,
) *SeedDemoDataHandler {
	return &SeedDemoDataHandler{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Handle implements bus.CommandHandler
func (h *SeedDemoDataHandler) Handle(ctx context.Context, cmd bus.Command) error {
	seed, ok := cmd.(commands.SeedDemoDataCommand)
	if !ok {
		return fmt.Errorf("invalid command type: expected SeedDemoDataCommand, got %T", cmd)
	}
	_, err := h.Seed(ctx, seed)
	return err
}

// Seed creates cmd.Sessions sessions named demo-retro-NN. Running it twice
// overwrites the same sessions.
func (h *SeedDemoDataHandler) Seed(ctx context.Context, cmd commands.SeedDemoDataCommand) ([]*entities.Session, error) {
	templateID := cmd.TemplateID
	if templateID == "" {
		templateID = entities.TemplateWentWell
	}
	template, ok := entities.SystemTemplate(templateID)
	if !ok {
		return nil, appErrors.NewValidationError(fmt.Sprintf("unknown template %q", templateID))
	}

	sessions := make([]*entities.Session, 0, cmd.Sessions)
	for i := 0; i < cmd.Sessions; i++ {
		session := demoSession(i, cmd, template)
		if err := h.sessionRepo.Save(ctx, session); err != nil {
			return nil, appErrors.Wrapf(err, "failed to save session %s", session.ID)
		}

		for _, item := range demoItems(i, session) {
			if err := h.itemRepo.Save(ctx, item); err != nil {
				return nil, appErrors.Wrapf(err, "failed to save item %s", item.ID)
			}
		}
		sessions = append(sessions, session)
	}

	if h.cache != nil {
		if err := h.cache.Clear(ctx); err != nil {
			h.logger.Warn("Failed to clear query cache after seeding", zap.Error(err))
		}
	}

	h.logger.Info("Seeded demo retrospectives",
		zap.Int("sessions", len(sessions)),
		zap.String("template", template.ID),
	)

	return sessions, nil
}

func demoSession(i int, cmd commands.SeedDemoDataCommand, template *entities.Template) *entities.Session {
	status := valueobjects.SessionStatusCompleted
	if i == cmd.Sessions-1 {
		status = valueobjects.SessionStatusInProgress
	}

	// The team grows by one member every other session
	size := 3 + i/2
	if size > len(demoTeam) {
		size = len(demoTeam)
	}

	return &entities.Session{
		ID:           valueobjects.MustSessionID(fmt.Sprintf("demo-retro-%02d", i+1)),
		Title:        fmt.Sprintf("Sprint %d", i+1),
		Date:         cmd.StartDate.AddDate(0, 0, seedInterval*i),
		Status:       status,
		AuthorName:   demoTeam[0],
		Template:     template,
		Participants: append([]string(nil), demoTeam[:size]...),
	}
}

// demoItems picks one or two notes per category. Slugs outside the demo pools
// get a generic note.
func demoItems(i int, session *entities.Session) []*entities.Item {
	var items []*entities.Item
	for c, category := range session.Template.Categories {
		pool, ok := demoNotes[category.Slug]
		if !ok {
			pool = []string{fmt.Sprintf("%s: ponto levantado na sprint %d", category.Name, i+1)}
		}

		count := 1 + (i+c)%2
		for k := 0; k < count && k < len(pool); k++ {
			n := len(items)
			items = append(items, &entities.Item{
				ID:         fmt.Sprintf("%s-item-%02d", session.ID, n+1),
				SessionID:  session.ID,
				Category:   category.Slug,
				Content:    pool[(i+k*2)%len(pool)],
				AuthorName: demoTeam[(i+n)%len(session.Participants)],
				VoteCount:  (i*3 + n*5) % 7,
				CreatedAt:  session.Date.Add(time.Duration(n) * time.Minute),
			})
		}
	}
	return items
}
