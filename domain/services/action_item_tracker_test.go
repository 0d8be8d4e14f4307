package services

import (
	"testing"

	"retroboard/domain/config"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	"retroboard/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoSessions() (*entities.Session, *entities.Session) {
	previous := fixtures.NewSessionBuilder().WithID("prev").OnWeek(0).Build()
	current := fixtures.NewSessionBuilder().WithID("curr").OnWeek(1).Build()
	return previous, current
}

func TestActionItemTracker_SingleSessionIsZeroed(t *testing.T) {
	tracker := NewActionItemTracker(nil, nil)
	session := fixtures.NewSessionBuilder().Build()
	items := []*entities.Item{fixtures.Note(session, "action_items", "Implementar CI/CD")}

	report := tracker.Analyze([]valueobjects.SessionID{session.ID}, items)

	assert.Equal(t, 0, report.PreviousTotal)
	assert.Equal(t, 0, report.Resolved)
	assert.Equal(t, 0, report.Recurring)
	assert.Equal(t, 0, report.New)
	assert.Equal(t, 0.0, report.ResolutionRate)
	assert.NotNil(t, report.Details)
	assert.Empty(t, report.Details)
}

func TestActionItemTracker_Classification(t *testing.T) {
	previous, current := twoSessions()
	ids := entities.SessionIDs([]*entities.Session{previous, current})

	tests := []struct {
		name          string
		items         []*entities.Item
		wantTotal     int
		wantResolved  int
		wantRecurring int
		wantNew       int
		wantRate      float64
	}{
		{
			name:          "no action items",
			items:         nil,
			wantTotal:     0,
			wantResolved:  0,
			wantRecurring: 0,
			wantNew:       0,
			wantRate:      0.0,
		},
		{
			name: "identical item in both sessions recurs",
			items: []*entities.Item{
				fixtures.Note(previous, "action_items", "Implementar CI/CD"),
				fixtures.Note(current, "action_items", "Implementar CI/CD"),
			},
			wantTotal:     1,
			wantRecurring: 1,
			wantRate:      0.0,
		},
		{
			name: "item only in previous is resolved",
			items: []*entities.Item{
				fixtures.Note(previous, "action_items", "Implementar CI/CD"),
			},
			wantTotal:    1,
			wantResolved: 1,
			wantRate:     100.0,
		},
		{
			name: "item only in current is new",
			items: []*entities.Item{
				fixtures.Note(current, "action_items", "Implementar CI/CD"),
			},
			wantNew: 1,
		},
		{
			name: "mixed",
			items: []*entities.Item{
				fixtures.Note(previous, "action_items", "Implementar CI/CD"),
				fixtures.Note(previous, "action_items", "Melhorar documentação"),
				fixtures.Note(previous, "action_items", "Melhorar performance"),
				fixtures.Note(current, "action_items", "Melhorar a documentação"),
				fixtures.Note(current, "action_items", "Refatorar código"),
			},
			wantTotal:     3,
			wantResolved:  2,
			wantRecurring: 1,
			wantNew:       1,
			wantRate:      66.67,
		},
		{
			name: "other categories are ignored",
			items: []*entities.Item{
				fixtures.Note(previous, "to_improve", "Implementar CI/CD"),
				fixtures.Note(current, "went_well", "Refatorar código"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewActionItemTracker(nil, nil)

			report := tracker.Analyze(ids, tt.items)

			assert.Equal(t, tt.wantTotal, report.PreviousTotal)
			assert.Equal(t, tt.wantResolved, report.Resolved)
			assert.Equal(t, tt.wantRecurring, report.Recurring)
			assert.Equal(t, tt.wantNew, report.New)
			assert.Equal(t, tt.wantRate, report.ResolutionRate)
			assert.Len(t, report.Details, tt.wantResolved+tt.wantRecurring+tt.wantNew)
		})
	}
}

func TestActionItemTracker_DetailsOrderAndOrigin(t *testing.T) {
	// Arrange
	previous, current := twoSessions()
	resolved := fixtures.Note(previous, "action_items", "Implementar CI/CD")
	recurring := fixtures.Note(previous, "action_items", "Melhorar documentação")
	restated := fixtures.Note(current, "action_items", "Melhorar a documentação")
	created := fixtures.Note(current, "action_items", "Refatorar código")

	tracker := NewActionItemTracker(nil, nil)

	// Act
	report := tracker.Analyze(
		entities.SessionIDs([]*entities.Session{previous, current}),
		[]*entities.Item{created, restated, recurring, resolved},
	)

	// Assert
	require.Len(t, report.Details, 3)

	assert.Equal(t, resolved.ID, report.Details[0].ID)
	assert.Equal(t, valueobjects.ActionItemResolved, report.Details[0].Status)
	assert.Nil(t, report.Details[0].Similarity)
	assert.Equal(t, previous.ID, report.Details[0].OriginRetro)

	assert.Equal(t, recurring.ID, report.Details[1].ID)
	assert.Equal(t, valueobjects.ActionItemRecurring, report.Details[1].Status)
	require.NotNil(t, report.Details[1].Similarity)
	assert.InDelta(t, 0.9545, *report.Details[1].Similarity, 0.0001)
	assert.Equal(t, previous.ID, report.Details[1].OriginRetro)

	assert.Equal(t, created.ID, report.Details[2].ID)
	assert.Equal(t, valueobjects.ActionItemNew, report.Details[2].Status)
	assert.Equal(t, current.ID, report.Details[2].OriginRetro)
	assert.Equal(t, "Refatorar código", report.Details[2].Content)
}

func TestActionItemTracker_OnlyLastTwoSessions(t *testing.T) {
	first := fixtures.NewSessionBuilder().WithID("first").OnWeek(0).Build()
	previous, current := twoSessions()
	items := []*entities.Item{
		fixtures.Note(first, "action_items", "Implementar CI/CD"),
		fixtures.Note(previous, "action_items", "Refatorar código"),
	}
	tracker := NewActionItemTracker(nil, nil)

	report := tracker.Analyze(entities.SessionIDs([]*entities.Session{first, previous, current}), items)

	assert.Equal(t, 1, report.PreviousTotal)
	assert.Equal(t, 1, report.Resolved)
	assert.Equal(t, "Refatorar código", report.Details[0].Content)
}

func TestActionItemTracker_CustomSlugAndThreshold(t *testing.T) {
	previous, current := twoSessions()
	cfg := config.DefaultAnalyticsConfig()
	cfg.ActionItemsSlug = "acoes"
	cfg.SimilarityThreshold = 0.80
	items := []*entities.Item{
		fixtures.Note(previous, "acoes", "Cards muito confusos"),
		fixtures.Note(current, "acoes", "Cards confusos"),
		fixtures.Note(current, "action_items", "Implementar CI/CD"),
	}
	tracker := NewActionItemTracker(cfg, NewQuickRatioMatchFinder())

	report := tracker.Analyze(entities.SessionIDs([]*entities.Session{previous, current}), items)

	assert.Equal(t, 1, report.PreviousTotal)
	assert.Equal(t, 1, report.Recurring)
	assert.Equal(t, 0, report.New)
}
