package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

const withdrawalStatusGSI = "status-created_at-index"

// GetWithdrawalRequest retrieves a withdrawal request from DynamoDB by its ID.
func (s *Store) GetWithdrawalRequest(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"request_id": requestID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.WithdrawalsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("withdrawal request %s: %w", requestID, storage.ErrNotFound)
	}

	var req models.WithdrawalRequest
	if err := attributevalue.UnmarshalMap(result.Item, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal request: %w", err)
	}

	return &req, nil
}

// ListWithdrawalRequests retrieves withdrawal requests, newest first,
// optionally filtered by status.
func (s *Store) ListWithdrawalRequests(ctx context.Context, status *models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	var items []map[string]types.AttributeValue

	if status != nil {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.WithdrawalsTableName),
			IndexName:              aws.String(withdrawalStatusGSI),
			KeyConditionExpression: aws.String("#status = :status"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(*status)},
			},
			ScanIndexForward: aws.Bool(false),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query withdrawal requests by status: %w", err)
		}
		items = result.Items
	} else {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String(s.WithdrawalsTableName),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawals table: %w", err)
		}
		items = result.Items
	}

	var requests []models.WithdrawalRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal requests: %w", err)
	}

	return requests, nil
}

// TransitionWithdrawalRequest moves a pending request to the given terminal
// status. The conditional update makes the terminal-is-final invariant hold
// even when two operators decide the same request at once: only one update
// can observe the pending status.
func (s *Store) TransitionWithdrawalRequest(ctx context.Context, requestID string, to models.WithdrawalStatus, decidedBy models.Actor) (*models.WithdrawalRequest, error) {
	req, err := s.GetWithdrawalRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.Status != models.WithdrawalPending {
		return nil, storage.ErrAlreadyTerminal
	}

	now := time.Now()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp for transition: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.WithdrawalsTableName),
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		UpdateExpression:    aws.String("SET #status = :new_status, decided_by_id = :decided_by_id, decided_by_name = :decided_by_name, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new_status":      &types.AttributeValueMemberS{Value: string(to)},
			":pending_status":  &types.AttributeValueMemberS{Value: string(models.WithdrawalPending)},
			":decided_by_id":   &types.AttributeValueMemberS{Value: decidedBy.ID},
			":decided_by_name": &types.AttributeValueMemberS{Value: decidedBy.DisplayName},
			":now":             nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrAlreadyTerminal
		}
		return nil, fmt.Errorf("failed to transition withdrawal request: %w", err)
	}

	var updated models.WithdrawalRequest
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated withdrawal request: %w", err)
	}

	return &updated, nil
}
