package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/storage"
)

// GetAccount retrieves an account from DynamoDB by its ID.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// CompareAndSetBalance sets the account balance to newBalance only if the
// stored balance still equals expectedBalance. The version counter bumps on
// every successful write.
func (s *Store) CompareAndSetBalance(ctx context.Context, accountID string, expectedBalance, newBalance int64) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		UpdateExpression:    aws.String("SET balance = :new_balance, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(account_id) AND balance = :expected_balance"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new_balance":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newBalance)},
			":expected_balance": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedBalance)},
			":inc":              &types.AttributeValueMemberN{Value: "1"},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrBalanceConflict
		}
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	return nil
}
