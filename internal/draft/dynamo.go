package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/grassandaxe/booking-wizard/internal/wizard"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// draftItem is the persisted shape. Data holds the draft as a JSON string so
// the item stays a flat record regardless of which keys are filled in.
type draftItem struct {
	SessionID string `dynamodbav:"sessionId"`
	Data      string `dynamodbav:"data"`
	UpdatedAt string `dynamodbav:"updatedAt"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
}

// DynamoRepository stores drafts in a DynamoDB table keyed by sessionId.
// expiresAt is meant to be the table's TTL attribute; since DynamoDB deletes
// lazily, expired items are also filtered on read.
type DynamoRepository struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	logger    *logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

var _ Repository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided DynamoDB client.
func NewDynamoRepository(client dynamoAPI, tableName string, ttl time.Duration, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("draft: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("draft: table name cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoRepository{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		logger:    logger,
		tracer:    otel.Tracer("grassaxe.internal.draft.dynamo"),
		now:       time.Now,
	}
}

func (r *DynamoRepository) Load(ctx context.Context, sessionID string) (wizard.BookingData, error) {
	ctx, span := r.tracer.Start(ctx, "draft.dynamo.load")
	defer span.End()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		span.RecordError(err)
		return wizard.BookingData{}, fmt.Errorf("draft: failed to fetch draft: %w", err)
	}
	if out == nil || out.Item == nil {
		return wizard.BookingData{}, ErrNotFound
	}

	var item draftItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		span.RecordError(err)
		return wizard.BookingData{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if item.ExpiresAt > 0 && item.ExpiresAt <= r.now().Unix() {
		r.logger.Debug("draft: ignoring expired item", "session_id", sessionID)
		return wizard.BookingData{}, ErrNotFound
	}

	var data wizard.BookingData
	if err := json.Unmarshal([]byte(item.Data), &data); err != nil {
		span.RecordError(err)
		return wizard.BookingData{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, nil
}

func (r *DynamoRepository) Save(ctx context.Context, sessionID string, data wizard.BookingData) error {
	ctx, span := r.tracer.Start(ctx, "draft.dynamo.save")
	defer span.End()

	if sessionID == "" {
		return errors.New("draft: sessionID required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("draft: failed to marshal draft: %w", err)
	}
	now := r.now().UTC()
	item, err := attributevalue.MarshalMap(draftItem{
		SessionID: sessionID,
		Data:      string(raw),
		UpdatedAt: now.Format(time.RFC3339Nano),
		ExpiresAt: now.Add(r.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("draft: failed to marshal item: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to persist draft: %w", err)
	}
	return nil
}

func (r *DynamoRepository) Clear(ctx context.Context, sessionID string) error {
	ctx, span := r.tracer.Start(ctx, "draft.dynamo.clear")
	defer span.End()

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(sessionID),
	}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to delete draft: %w", err)
	}
	return nil
}

func (r *DynamoRepository) key(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}
}
