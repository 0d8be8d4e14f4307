package handlers

import (
	"context"
	"testing"
	"time"

	"retroboard/application/commands"
	"retroboard/domain/core/entities"
	"retroboard/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func importCommand() commands.ImportRetrospectiveCommand {
	return commands.ImportRetrospectiveCommand{
		ID:           "retro-42",
		Title:        "Sprint 42",
		Date:         time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC),
		Status:       "concluida",
		Author:       "ana",
		TemplateID:   entities.TemplateWentWell,
		Participants: []string{"ana", "bruno"},
		Items: []commands.ImportItem{
			{ID: "n1", Category: "to_improve", Content: "Pipeline lento", Author: "bruno", Votes: 3},
			{Category: "action_items", Content: "Cachear dependências", Author: "ana"},
		},
	}
}

func TestImportRetrospectiveHandler_Import(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cmd := importCommand()

	var saved []*entities.Item
	mockSessions := new(mocks.MockSessionRepository)
	mockItems := new(mocks.MockItemRepository)
	mockCache := new(mocks.MockCache)

	mockSessions.On("Save", mock.Anything, mock.MatchedBy(func(s *entities.Session) bool {
		return s.ID.String() == "retro-42" && s.Template.ID == entities.TemplateWentWell
	})).Return(nil).Once()
	mockItems.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*entities.Item))
	}).Return(nil)
	mockCache.On("Clear", mock.Anything).Return(nil).Once()

	handler := NewImportRetrospectiveHandler(mockSessions, mockItems, mockCache, zap.NewNop())

	// Act
	session, err := handler.Import(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, session.ParticipantCount())

	require.Len(t, saved, 2)
	assert.Equal(t, "n1", saved[0].ID)
	assert.Equal(t, 3, saved[0].VoteCount)
	assert.NotEmpty(t, saved[1].ID)
	assert.Equal(t, cmd.Date, saved[1].CreatedAt)
	for _, item := range saved {
		assert.Equal(t, session.ID, item.SessionID)
	}

	mockSessions.AssertExpectations(t)
	mockItems.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestImportRetrospectiveCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *commands.ImportRetrospectiveCommand)
		wantErr string
	}{
		{
			name:   "valid command",
			mutate: func(c *commands.ImportRetrospectiveCommand) {},
		},
		{
			name:    "unknown status",
			mutate:  func(c *commands.ImportRetrospectiveCommand) { c.Status = "arquivada" },
			wantErr: "status",
		},
		{
			name:    "unknown template",
			mutate:  func(c *commands.ImportRetrospectiveCommand) { c.TemplateID = "custom" },
			wantErr: "unknown template",
		},
		{
			name: "category outside template",
			mutate: func(c *commands.ImportRetrospectiveCommand) {
				c.Items[0].Category = "mad"
			},
			wantErr: "not part of template",
		},
		{
			name: "duplicate note after normalization",
			mutate: func(c *commands.ImportRetrospectiveCommand) {
				c.Items = append(c.Items, commands.ImportItem{Category: "to_improve", Content: "  PIPELINE lento "})
			},
			wantErr: "duplicate note",
		},
		{
			name: "negative votes",
			mutate: func(c *commands.ImportRetrospectiveCommand) {
				c.Items[0].Votes = -1
			},
			wantErr: "votos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := importCommand()
			tt.mutate(&cmd)

			err := cmd.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
