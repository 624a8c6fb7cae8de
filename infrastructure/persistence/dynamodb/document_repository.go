// Package dynamodb stores documents and project descriptors in a single
// DynamoDB table keyed by PK/SK.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"appbuilder/application/ports"
	"appbuilder/domain/core/aggregates"
	"appbuilder/infrastructure/persistence/abstractions"
	pkgerrors "appbuilder/pkg/errors"
	"appbuilder/pkg/utils"
)

// API is the part of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

const (
	entityDocument = "DOCUMENT"
	entityProject  = "PROJECT"

	skDocument = "DOCUMENT"
	skMetadata = "METADATA"
)

func projectPK(projectID string) string {
	return fmt.Sprintf("PROJECT#%s", projectID)
}

func itemKey(projectID, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: projectPK(projectID)},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// documentItem represents the DynamoDB item structure for a document snapshot
type documentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ProjectID  string `dynamodbav:"ProjectID"`
	Version    int    `dynamodbav:"Version"`
	Body       string `dynamodbav:"Body"`
	Digest     string `dynamodbav:"Digest"`
	Elements   int    `dynamodbav:"Elements"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

// DocumentRepository implements ports.DocumentRepository on DynamoDB
type DocumentRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
	clock     utils.Clock
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(client API, tableName string, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
		clock:     utils.SystemClock,
	}
}

// Load retrieves the latest snapshot of a project
func (r *DocumentRepository) Load(ctx context.Context, projectID string) (*aggregates.Snapshot, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(projectID, skDocument),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("load document", err)
	}
	if len(result.Item) == 0 {
		return nil, abstractions.DocumentNotFound(projectID)
	}

	var item documentItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	snapshot, err := abstractions.DecodeSnapshot([]byte(item.Body))
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Retrieved document from DynamoDB",
		zap.String("project_id", projectID),
		zap.Int("version", item.Version))
	return snapshot, nil
}

// Save writes the snapshot if it advances the stored version
func (r *DocumentRepository) Save(ctx context.Context, projectID string, snapshot aggregates.Snapshot) error {
	body, err := abstractions.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	item := documentItem{
		PK:         projectPK(projectID),
		SK:         skDocument,
		EntityType: entityDocument,
		ProjectID:  projectID,
		Version:    snapshot.Version,
		Body:       string(body),
		Digest:     utils.Digest(body),
		Elements:   len(snapshot.Elements),
		UpdatedAt:  r.clock().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	condition := expression.Name("PK").AttributeNotExists().
		Or(expression.Name("Version").LessThan(expression.Value(snapshot.Version)))
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionalCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionalCheckFailed) {
			r.logger.Warn("Rejected stale document write",
				zap.String("project_id", projectID),
				zap.Int("version", snapshot.Version))
			return abstractions.StaleWrite(projectID, r.storedVersion(ctx, projectID), snapshot.Version)
		}
		r.logger.Error("Failed to save document to DynamoDB",
			zap.Error(err),
			zap.String("project_id", projectID))
		return pkgerrors.NewDatabaseError("save document", err)
	}

	r.logger.Debug("Saved document to DynamoDB",
		zap.String("project_id", projectID),
		zap.Int("version", snapshot.Version),
		zap.Int("bytes", len(body)))
	return nil
}

// storedVersion is best effort, for the conflict details only
func (r *DocumentRepository) storedVersion(ctx context.Context, projectID string) int {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  itemKey(projectID, skDocument),
		ProjectionExpression: aws.String("Version"),
	})
	if err != nil || len(result.Item) == 0 {
		return -1
	}
	var item struct {
		Version int `dynamodbav:"Version"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return -1
	}
	return item.Version
}
