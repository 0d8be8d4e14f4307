package memory

import (
	"context"
	"testing"

	"retroboard/application/ports"
	"retroboard/domain/core/valueobjects"
	"retroboard/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	scenario := fixtures.NewScenario()
	for _, s := range []int{2, 0, 1} {
		require.NoError(t, repo.Save(ctx, scenario.Sessions[s]))
	}

	t.Run("List is chronological", func(t *testing.T) {
		sessions, err := repo.List(ctx)

		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "retro-1", sessions[0].ID.String())
		assert.Equal(t, "retro-3", sessions[2].ID.String())
	})

	t.Run("GetByIDs omits unknown and repeated ids", func(t *testing.T) {
		ids := []valueobjects.SessionID{
			valueobjects.MustSessionID("retro-2"),
			valueobjects.MustSessionID("nope"),
			valueobjects.MustSessionID("retro-2"),
		}

		sessions, err := repo.GetByIDs(ctx, ids)

		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "Sprint 2", sessions[0].Title)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		sessions, err := repo.List(ctx)
		require.NoError(t, err)
		sessions[0].Participants[0] = "mallory"

		again, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ana", again[0].Participants[0])
	})
}

func TestSessionRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSessionRepository().List(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestItemRepository_GetItems(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	scenario := fixtures.NewScenario()
	for _, item := range scenario.Items {
		require.NoError(t, repo.Save(ctx, item))
	}
	s1, s3 := scenario.Sessions[0].ID, scenario.Sessions[2].ID

	tests := []struct {
		name   string
		filter ports.ItemFilter
		want   int
	}{
		{name: "everything", filter: ports.ItemFilter{}, want: 7},
		{name: "one session", filter: ports.ItemFilter{SessionIDs: []valueobjects.SessionID{s1}}, want: 3},
		{name: "category", filter: ports.ItemFilter{Category: "action_items"}, want: 2},
		{
			name:   "sessions without action items",
			filter: ports.ItemFilter{SessionIDs: []valueobjects.SessionID{s1, s3}, ExcludeCategory: "action_items"},
			want:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.GetItems(ctx, tt.filter)

			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestItemRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository()
	session := fixtures.NewSessionBuilder().Build()
	item := fixtures.NewItemBuilder().WithID("n1").InSession(session).WithVotes(1).Build()

	require.NoError(t, repo.Save(ctx, item))
	item.VoteCount = 4
	require.NoError(t, repo.Save(ctx, item))

	items, err := repo.GetItems(ctx, ports.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].VoteCount)
}
