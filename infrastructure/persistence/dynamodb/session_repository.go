package dynamodb

import (
	"context"
	"errors"
	"time"

	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	"retroboard/domain/core/valueobjects"
	appErrors "retroboard/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	batchGetLimit   = 100
	maxBatchRetries = 3
)

var errUnprocessedKeys = errors.New("unprocessed keys left after retries")

// SessionRepository implements ports.SessionRepository on DynamoDB
type SessionRepository struct {
	client    Client
	tableName string
	indexName string
	logger    *zap.Logger
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository. indexName is the GSI
// that lists sessions by date.
func NewSessionRepository(client Client, tableName, indexName string, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Save persists a session snapshot
func (r *SessionRepository) Save(ctx context.Context, session *entities.Session) error {
	av, err := attributevalue.MarshalMap(toSessionRecord(session))
	if err != nil {
		return appErrors.NewDatabaseError("marshal session", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save session to DynamoDB",
			zap.Error(err),
			zap.String("session_id", session.ID.String()),
		)
		return appErrors.NewDatabaseError("PutItem", err)
	}

	r.logger.Debug("Saved session to DynamoDB", zap.String("session_id", session.ID.String()))
	return nil
}

// GetByIDs loads sessions with BatchGetItem. Unknown ids are omitted.
func (r *SessionRepository) GetByIDs(ctx context.Context, ids []valueobjects.SessionID) ([]*entities.Session, error) {
	if len(ids) == 0 {
		return []*entities.Session{}, nil
	}

	// BatchGetItem rejects duplicate keys
	seen := make(map[string]bool, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if seen[id.String()] {
			continue
		}
		seen[id.String()] = true

		key, err := sessionKey(id)
		if err != nil {
			return nil, appErrors.NewDatabaseError("marshal key", err)
		}
		keys = append(keys, key)
	}

	sessions := make([]*entities.Session, 0, len(keys))
	for start := 0; start < len(keys); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(keys) {
			end = len(keys)
		}

		chunk, err := r.batchGetChunk(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, chunk...)
	}

	return sessions, nil
}

// batchGetChunk processes a single chunk of keys, retrying unprocessed keys
// with exponential backoff
func (r *SessionRepository) batchGetChunk(ctx context.Context, keys []map[string]types.AttributeValue) ([]*entities.Session, error) {
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			r.tableName: {Keys: keys},
		},
	}

	var sessions []*entities.Session
	for attempt := 0; ; attempt++ {
		output, err := r.client.BatchGetItem(ctx, input)
		if err != nil {
			return nil, appErrors.NewDatabaseError("BatchGetItem", err)
		}

		for _, av := range output.Responses[r.tableName] {
			session, err := unmarshalSession(av)
			if err != nil {
				r.logger.Warn("Skipping unreadable session record", zap.Error(err))
				continue
			}
			sessions = append(sessions, session)
		}

		unprocessed := output.UnprocessedKeys[r.tableName].Keys
		if len(unprocessed) == 0 {
			return sessions, nil
		}
		if attempt >= maxBatchRetries {
			return nil, appErrors.NewDatabaseError("BatchGetItem", errUnprocessedKeys).
				WithDetail("unprocessed", len(unprocessed))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(1<<attempt) * 50 * time.Millisecond):
		}

		input.RequestItems = map[string]types.KeysAndAttributes{
			r.tableName: {Keys: unprocessed},
		}
	}
}

// List returns every session, oldest first, through the date index
func (r *SessionRepository) List(ctx context.Context) ([]*entities.Session, error) {
	keyEx := expression.Key("GSI1PK").Equal(expression.Value(sessionsGSI1PK))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build expression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}

	sessions := []*entities.Session{}
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("Query", err)
		}
		for _, av := range page.Items {
			session, err := unmarshalSession(av)
			if err != nil {
				r.logger.Warn("Skipping unreadable session record", zap.Error(err))
				continue
			}
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

func unmarshalSession(av map[string]types.AttributeValue) (*entities.Session, error) {
	var rec sessionRecord
	if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
		return nil, err
	}
	return rec.toEntity()
}
