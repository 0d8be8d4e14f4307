package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"retroboard/application/commands"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"
	"retroboard/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var seedStart = time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

func TestSeedDemoDataHandler_Seed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockSessions := new(mocks.MockSessionRepository)
	mockItems := new(mocks.MockItemRepository)
	mockCache := new(mocks.MockCache)

	mockSessions.On("Save", mock.Anything, mock.AnythingOfType("*entities.Session")).Return(nil).Times(4)
	mockItems.On("Save", mock.Anything, mock.AnythingOfType("*entities.Item")).Return(nil)
	mockCache.On("Clear", mock.Anything).Return(nil).Once()

	handler := NewSeedDemoDataHandler(mockSessions, mockItems, mockCache, zap.NewNop())

	// Act
	sessions, err := handler.Seed(ctx, commands.SeedDemoDataCommand{Sessions: 4, StartDate: seedStart})

	// Assert
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	for i, s := range sessions {
		assert.Equal(t, seedStart.AddDate(0, 0, 14*i), s.Date)
		assert.Equal(t, entities.TemplateWentWell, s.Template.ID)
	}
	assert.Equal(t, "demo-retro-01", sessions[0].ID.String())
	assert.Equal(t, "demo-retro-04", sessions[3].ID.String())
	assert.Equal(t, valueobjects.SessionStatusCompleted, sessions[0].Status)
	assert.Equal(t, valueobjects.SessionStatusInProgress, sessions[3].Status)
	assert.Less(t, sessions[0].ParticipantCount(), sessions[3].ParticipantCount())

	mockSessions.AssertExpectations(t)
	mockItems.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestSeedDemoDataHandler_Seed_IsDeterministic(t *testing.T) {
	// Arrange
	var first, second []*entities.Item
	record := func(dst *[]*entities.Item) *mocks.MockItemRepository {
		repo := new(mocks.MockItemRepository)
		repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			*dst = append(*dst, args.Get(1).(*entities.Item))
		}).Return(nil)
		return repo
	}
	sessions := new(mocks.MockSessionRepository)
	sessions.On("Save", mock.Anything, mock.Anything).Return(nil)
	cmd := commands.SeedDemoDataCommand{Sessions: 3, StartDate: seedStart}

	// Act
	_, err := NewSeedDemoDataHandler(sessions, record(&first), nil, zap.NewNop()).Seed(context.Background(), cmd)
	require.NoError(t, err)
	_, err = NewSeedDemoDataHandler(sessions, record(&second), nil, zap.NewNop()).Seed(context.Background(), cmd)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestSeedDemoDataHandler_Seed_UnknownTemplate(t *testing.T) {
	handler := NewSeedDemoDataHandler(new(mocks.MockSessionRepository), new(mocks.MockItemRepository), nil, zap.NewNop())

	_, err := handler.Seed(context.Background(), commands.SeedDemoDataCommand{
		Sessions: 2, StartDate: seedStart, TemplateID: "nope",
	})

	assert.True(t, appErrors.IsValidation(err))
}

func TestSeedDemoDataHandler_Seed_SaveFailure(t *testing.T) {
	mockSessions := new(mocks.MockSessionRepository)
	mockSessions.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	handler := NewSeedDemoDataHandler(mockSessions, new(mocks.MockItemRepository), nil, zap.NewNop())

	_, err := handler.Seed(context.Background(), commands.SeedDemoDataCommand{Sessions: 2, StartDate: seedStart})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo-retro-01")
}

func TestSeedDemoDataHandler_Handle_RejectsOtherCommands(t *testing.T) {
	handler := NewSeedDemoDataHandler(nil, nil, nil, zap.NewNop())

	err := handler.Handle(context.Background(), commands.ImportRetrospectiveCommand{})

	assert.ErrorContains(t, err, "invalid command type")
}
