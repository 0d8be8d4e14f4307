package dynamodb

import (
	"context"
	"errors"
	"testing"

	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"
	"retroboard/tests/fixtures"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const table = "retroboard-test"

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	return &dynamodb.PutItemOutput{}, args.Error(0)
}

func (m *mockClient) BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.BatchGetItemOutput), args.Error(1)
}

func (m *mockClient) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func (m *mockClient) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.ScanOutput), args.Error(1)
}

func marshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func TestSessionRecord_RoundTrip(t *testing.T) {
	session := fixtures.NewSessionBuilder().WithID("retro-7").OnWeek(3).Build()

	rec := toSessionRecord(session)
	back, err := rec.toEntity()

	require.NoError(t, err)
	assert.Equal(t, "SESSION#retro-7", rec.PK)
	assert.Equal(t, "METADATA", rec.SK)
	assert.Equal(t, "SESSIONS", rec.GSI1PK)
	assert.Equal(t, session.ID, back.ID)
	assert.True(t, session.Date.Equal(back.Date))
	assert.True(t, session.Template.HasSameCategories(back.Template))
	assert.Equal(t, session.Participants, back.Participants)
}

func TestSessionRepository_Save(t *testing.T) {
	client := new(mockClient)
	session := fixtures.NewSessionBuilder().WithID("retro-1").Build()
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		pk, ok := in.Item["PK"].(*types.AttributeValueMemberS)
		return ok && pk.Value == "SESSION#retro-1" && *in.TableName == table
	})).Return(nil)

	repo := NewSessionRepository(client, table, "GSI1", zap.NewNop())

	require.NoError(t, repo.Save(context.Background(), session))
	client.AssertExpectations(t)
}

func TestSessionRepository_Save_Failure(t *testing.T) {
	client := new(mockClient)
	client.On("PutItem", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	repo := NewSessionRepository(client, table, "GSI1", zap.NewNop())
	err := repo.Save(context.Background(), fixtures.NewSessionBuilder().Build())

	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeDatabase))
}

func TestSessionRepository_GetByIDs(t *testing.T) {
	// Arrange
	client := new(mockClient)
	s1 := fixtures.NewSessionBuilder().WithID("retro-1").Build()
	s2 := fixtures.NewSessionBuilder().WithID("retro-2").OnWeek(1).Build()

	client.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
		return len(in.RequestItems[table].Keys) == 3
	})).Return(&dynamodb.BatchGetItemOutput{
		Responses: map[string][]map[string]types.AttributeValue{
			table: {marshal(t, toSessionRecord(s1))},
		},
		UnprocessedKeys: map[string]types.KeysAndAttributes{
			table: {Keys: []map[string]types.AttributeValue{marshal(t, map[string]string{"PK": "SESSION#retro-2", "SK": "METADATA"})}},
		},
	}, nil).Once()
	client.On("BatchGetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.BatchGetItemInput) bool {
		return len(in.RequestItems[table].Keys) == 1
	})).Return(&dynamodb.BatchGetItemOutput{
		Responses: map[string][]map[string]types.AttributeValue{
			table: {marshal(t, toSessionRecord(s2))},
		},
	}, nil).Once()

	repo := NewSessionRepository(client, table, "GSI1", zap.NewNop())
	ids := []valueobjects.SessionID{s1.ID, s2.ID, s1.ID, valueobjects.MustSessionID("missing")}

	// Act
	sessions, err := repo.GetByIDs(context.Background(), ids)

	// Assert
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, []valueobjects.SessionID{s1.ID, s2.ID}, entities.SessionIDs(sessions))
	client.AssertExpectations(t)
}

func TestSessionRepository_List(t *testing.T) {
	client := new(mockClient)
	s1 := fixtures.NewSessionBuilder().WithID("retro-1").Build()
	client.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == "GSI1" && *in.ScanIndexForward
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{marshal(t, toSessionRecord(s1))},
	}, nil)

	repo := NewSessionRepository(client, table, "GSI1", zap.NewNop())
	sessions, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "retro-1", sessions[0].ID.String())
}

func TestItemRepository_GetItems(t *testing.T) {
	// Arrange
	client := new(mockClient)
	s1 := fixtures.NewSessionBuilder().WithID("retro-1").Build()
	s2 := fixtures.NewSessionBuilder().WithID("retro-2").Build()
	n1 := fixtures.Note(s1, "to_improve", "Pipeline lento")
	n2 := fixtures.Note(s2, "to_improve", "Pipeline muito lento")

	partition := func(pk string) interface{} {
		return mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			for _, v := range in.ExpressionAttributeValues {
				if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == pk {
					return in.FilterExpression != nil
				}
			}
			return false
		})
	}
	client.On("Query", mock.Anything, partition("SESSION#retro-1")).
		Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{marshal(t, toItemRecord(n1))}}, nil)
	client.On("Query", mock.Anything, partition("SESSION#retro-2")).
		Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{marshal(t, toItemRecord(n2))}}, nil)

	repo := NewItemRepository(client, table, zap.NewNop())

	// Act
	items, err := repo.GetItems(context.Background(), ports.ItemFilter{
		SessionIDs:      []valueobjects.SessionID{s1.ID, s2.ID},
		ExcludeCategory: "action_items",
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.ElementsMatch(t, []string{n1.ID, n2.ID}, []string{items[0].ID, items[1].ID})
	client.AssertExpectations(t)
}

func TestItemRepository_GetItems_QueryFailure(t *testing.T) {
	client := new(mockClient)
	client.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	repo := NewItemRepository(client, table, zap.NewNop())
	_, err := repo.GetItems(context.Background(), ports.ItemFilter{
		SessionIDs: []valueobjects.SessionID{valueobjects.MustSessionID("retro-1")},
	})

	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeDatabase))
}

func TestItemRepository_GetItems_ScansWithoutSessions(t *testing.T) {
	client := new(mockClient)
	s1 := fixtures.NewSessionBuilder().WithID("retro-1").Build()
	note := fixtures.Note(s1, "went_well", "Boa colaboração do time")
	client.On("Scan", mock.Anything, mock.Anything).
		Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{marshal(t, toItemRecord(note))}}, nil)

	repo := NewItemRepository(client, table, zap.NewNop())
	items, err := repo.GetItems(context.Background(), ports.ItemFilter{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, note.Content, items[0].Content)
	assert.True(t, note.CreatedAt.Equal(items[0].CreatedAt))
}
