package dynamodb

import (
	"context"
	"sync"

	"retroboard/application/ports"
	"retroboard/domain/core/entities"
	appErrors "retroboard/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentQueries = 4

// ItemRepository implements ports.ItemRepository on DynamoDB. Items live in
// the partition of their session.
type ItemRepository struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository
func NewItemRepository(client Client, tableName string, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Save persists an item snapshot
func (r *ItemRepository) Save(ctx context.Context, item *entities.Item) error {
	av, err := attributevalue.MarshalMap(toItemRecord(item))
	if err != nil {
		return appErrors.NewDatabaseError("marshal item", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save item to DynamoDB",
			zap.Error(err),
			zap.String("item_id", item.ID),
			zap.String("session_id", item.SessionID.String()),
		)
		return appErrors.NewDatabaseError("PutItem", err)
	}
	return nil
}

// GetItems queries the partition of every requested session. Without session
// ids the whole table is scanned.
func (r *ItemRepository) GetItems(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	if len(filter.SessionIDs) == 0 {
		return r.scan(ctx, filter)
	}

	var (
		mu    sync.Mutex
		items = []*entities.Item{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)

	seen := make(map[string]bool, len(filter.SessionIDs))
	for _, id := range filter.SessionIDs {
		if seen[id.String()] {
			continue
		}
		seen[id.String()] = true

		pk := sessionPK(id)
		g.Go(func() error {
			found, err := r.queryPartition(gctx, pk, filter)
			if err != nil {
				return err
			}
			mu.Lock()
			items = append(items, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) queryPartition(ctx context.Context, pk string, filter ports.ItemFilter) ([]*entities.Item, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.Key("SK").BeginsWith(itemPrefix))

	builder := expression.NewBuilder().WithKeyCondition(keyEx)
	if cond, ok := categoryCondition(filter); ok {
		builder = builder.WithFilter(cond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build expression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []*entities.Item
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("Query", err)
		}
		items = append(items, r.unmarshalItems(page.Items)...)
	}
	return items, nil
}

func (r *ItemRepository) scan(ctx context.Context, filter ports.ItemFilter) ([]*entities.Item, error) {
	cond := expression.Name("EntityType").Equal(expression.Value(entityItem))
	if extra, ok := categoryCondition(filter); ok {
		cond = cond.And(extra)
	}

	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, appErrors.NewDatabaseError("build expression", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	items := []*entities.Item{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, appErrors.NewDatabaseError("Scan", err)
		}
		items = append(items, r.unmarshalItems(page.Items)...)
	}
	return items, nil
}

// categoryCondition translates the category part of the filter
func categoryCondition(filter ports.ItemFilter) (expression.ConditionBuilder, bool) {
	switch {
	case filter.Category != "" && filter.ExcludeCategory != "":
		return expression.Name("Category").Equal(expression.Value(filter.Category)).
			And(expression.Name("Category").NotEqual(expression.Value(filter.ExcludeCategory))), true
	case filter.Category != "":
		return expression.Name("Category").Equal(expression.Value(filter.Category)), true
	case filter.ExcludeCategory != "":
		return expression.Name("Category").NotEqual(expression.Value(filter.ExcludeCategory)), true
	}
	return expression.ConditionBuilder{}, false
}

func (r *ItemRepository) unmarshalItems(avs []map[string]types.AttributeValue) []*entities.Item {
	items := make([]*entities.Item, 0, len(avs))
	for _, av := range avs {
		var rec itemRecord
		if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
			r.logger.Warn("Skipping unreadable item record", zap.Error(err))
			continue
		}
		item, err := rec.toEntity()
		if err != nil {
			r.logger.Warn("Skipping unreadable item record", zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items
}
