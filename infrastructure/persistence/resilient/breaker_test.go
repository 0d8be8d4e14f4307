package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	appErrors "retroboard/pkg/errors"
	"retroboard/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() BreakerConfig {
	cfg := DefaultBreakerConfig("sessions")
	cfg.MaxFailures = 2
	cfg.Timeout = time.Hour
	return cfg
}

func TestSessionRepository_OpensAfterConsecutiveFailures(t *testing.T) {
	// Arrange
	ctx := context.Background()
	inner := new(mocks.MockSessionRepository)
	inner.On("List", mock.Anything).Return(nil, errors.New("connection reset")).Twice()

	repo := NewSessionRepository(inner, testConfig(), zap.NewNop())

	// Act
	_, err1 := repo.List(ctx)
	_, err2 := repo.List(ctx)
	_, err3 := repo.List(ctx)

	// Assert
	assert.EqualError(t, err1, "connection reset")
	assert.EqualError(t, err2, "connection reset")
	assert.True(t, appErrors.IsUnavailable(err3))
	assert.Equal(t, 503, appErrors.GetAppError(err3).HTTPStatus)
	inner.AssertExpectations(t)
}

func TestSessionRepository_ValidationErrorsDoNotTrip(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockSessionRepository)
	inner.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, appErrors.NewValidationError("bad id"))

	repo := NewSessionRepository(inner, testConfig(), zap.NewNop())
	for i := 0; i < 5; i++ {
		_, err := repo.GetByIDs(ctx, nil)
		assert.True(t, appErrors.IsValidation(err))
	}
}

func TestSessionRepository_PassesResults(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockSessionRepository)
	session := &entities.Session{Title: "Sprint 1"}
	inner.On("List", mock.Anything).Return([]*entities.Session{session}, nil)
	inner.On("Save", mock.Anything, session).Return(nil)

	repo := NewSessionRepository(inner, testConfig(), zap.NewNop())

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Same(t, session, sessions[0])
	assert.NoError(t, repo.Save(ctx, session))
}

func TestItemRepository_OpenBreaker(t *testing.T) {
	ctx := context.Background()
	inner := new(mocks.MockItemRepository)
	inner.On("GetItems", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Twice()
	inner.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()

	repo := NewItemRepository(inner, testConfig(), zap.NewNop())
	_, _ = repo.GetItems(ctx, ports.ItemFilter{})
	_, _ = repo.GetItems(ctx, ports.ItemFilter{})

	err := repo.Save(ctx, &entities.Item{ID: "n1"})

	assert.True(t, appErrors.IsUnavailable(err))
	inner.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
