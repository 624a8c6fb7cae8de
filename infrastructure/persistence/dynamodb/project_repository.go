package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"appbuilder/application/ports"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	"appbuilder/infrastructure/persistence/abstractions"
	pkgerrors "appbuilder/pkg/errors"
)

// projectItem represents the DynamoDB item structure for a project descriptor
type projectItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	ProjectID   string `dynamodbav:"ProjectID"`
	Name        string `dynamodbav:"Name"`
	Description string `dynamodbav:"Description"`
	Platform    string `dynamodbav:"Platform"`
	Language    string `dynamodbav:"Language"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func toProjectItem(p entities.ProjectDescriptor) projectItem {
	return projectItem{
		PK:          projectPK(p.ID),
		SK:          skMetadata,
		EntityType:  entityProject,
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Platform:    string(p.Platform),
		Language:    string(p.Language),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (i projectItem) toDescriptor() (*entities.ProjectDescriptor, error) {
	createdAt, err := time.Parse(time.RFC3339, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt on project %s: %w", i.ProjectID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, i.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid UpdatedAt on project %s: %w", i.ProjectID, err)
	}
	return &entities.ProjectDescriptor{
		ID:          i.ProjectID,
		Name:        i.Name,
		Description: i.Description,
		Platform:    valueobjects.Platform(i.Platform),
		Language:    valueobjects.Language(i.Language),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// ProjectRepository implements ports.ProjectRepository on DynamoDB
type ProjectRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(client API, tableName string, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Get retrieves a descriptor by project id
func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*entities.ProjectDescriptor, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(projectID, skMetadata),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get project", err)
	}
	if len(result.Item) == 0 {
		return nil, abstractions.ProjectNotFound(projectID)
	}

	var item projectItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return item.toDescriptor()
}

// Save persists a descriptor (create or update)
func (r *ProjectRepository) Save(ctx context.Context, project entities.ProjectDescriptor) error {
	av, err := attributevalue.MarshalMap(toProjectItem(project))
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save project to DynamoDB",
			zap.Error(err),
			zap.String("project_id", project.ID))
		return pkgerrors.NewDatabaseError("save project", err)
	}
	return nil
}
