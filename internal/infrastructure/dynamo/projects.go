package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/showcase-api/internal/domain"
)

// ProjectRepo manages project records. PK: project_id.
type ProjectRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewProjectRepo(client *dynamodb.Client, tableName string) *ProjectRepo {
	return &ProjectRepo{client: client, tableName: tableName}
}

func (r *ProjectRepo) Put(ctx context.Context, p *domain.Project) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

// Scan returns every project record. Scan order is not defined by
// DynamoDB, so results are sorted by project id — ULIDs order by
// creation time, which reproduces insertion order.
func (r *ProjectRepo) Scan(ctx context.Context) ([]domain.Project, error) {
	projects := []domain.Project{}
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan projects: %w", err)
		}
		var page []domain.Project
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal projects: %w", err)
		}
		projects = append(projects, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ProjectID < projects[j].ProjectID
	})
	return projects, nil
}

// Update applies a SET update to the record. Returns domain.ErrNotFound
// when no record with the given id exists.
func (r *ProjectRepo) Update(ctx context.Context, projectID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("project_id", projectID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(project_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
		}
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting an id that does not exist is not an
// error — the caller cannot distinguish "removed" from "was never there".
func (r *ProjectRepo) Delete(ctx context.Context, projectID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("project_id", projectID),
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
