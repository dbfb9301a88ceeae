package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/storage"
	"github.com/rewardly/admin-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testDecider = models.Actor{ID: "op-1", DisplayName: "Edna Editor", Role: models.RoleEditor}

func TestGetWithdrawalRequest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		reqAV, _ := attributevalue.MarshalMap(models.WithdrawalRequest{RequestID: "wd-1", Status: models.WithdrawalPending})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: reqAV}, nil)

		retrieved, err := newTestStore(mockClient).GetWithdrawalRequest(context.Background(), "wd-1")

		assert.NoError(t, err)
		assert.Equal(t, "wd-1", retrieved.RequestID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)

		_, err := newTestStore(mockClient).GetWithdrawalRequest(context.Background(), "wd-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListWithdrawalRequests(t *testing.T) {
	reqAV, _ := attributevalue.MarshalMap(models.WithdrawalRequest{RequestID: "wd-1", Status: models.WithdrawalPending})

	t.Run("By Status Uses The Index", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.IndexName == withdrawalStatusGSI
		})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{reqAV}}, nil)

		status := models.WithdrawalPending
		requests, err := newTestStore(mockClient).ListWithdrawalRequests(context.Background(), &status)

		assert.NoError(t, err)
		assert.Len(t, requests, 1)
		mockClient.AssertNotCalled(t, "Scan")
	})

	t.Run("All Requests Scans The Table", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{reqAV}}, nil)

		requests, err := newTestStore(mockClient).ListWithdrawalRequests(context.Background(), nil)

		assert.NoError(t, err)
		assert.Len(t, requests, 1)
		mockClient.AssertNotCalled(t, "Query")
	})
}

func TestTransitionWithdrawalRequest(t *testing.T) {
	pending := models.WithdrawalRequest{RequestID: "wd-1", Status: models.WithdrawalPending}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		pendingAV, _ := attributevalue.MarshalMap(pending)
		decided := pending
		decided.Status = models.WithdrawalCompleted
		decided.DecidedByID = testDecider.ID
		decidedAV, _ := attributevalue.MarshalMap(decided)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: pendingAV}, nil)
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.UpdateItemInput) bool {
			return *input.ConditionExpression == "#status = :pending_status"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: decidedAV}, nil)

		updated, err := newTestStore(mockClient).TransitionWithdrawalRequest(context.Background(), "wd-1", models.WithdrawalCompleted, testDecider)

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalCompleted, updated.Status)
		assert.Equal(t, "op-1", updated.DecidedByID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Decided", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		rejected := pending
		rejected.Status = models.WithdrawalRejected
		rejectedAV, _ := attributevalue.MarshalMap(rejected)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: rejectedAV}, nil)

		_, err := newTestStore(mockClient).TransitionWithdrawalRequest(context.Background(), "wd-1", models.WithdrawalCompleted, testDecider)

		assert.ErrorIs(t, err, storage.ErrAlreadyTerminal)
		mockClient.AssertNotCalled(t, "UpdateItem")
	})

	t.Run("Concurrent Decision Loses The Race", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		pendingAV, _ := attributevalue.MarshalMap(pending)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: pendingAV}, nil)
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := newTestStore(mockClient).TransitionWithdrawalRequest(context.Background(), "wd-1", models.WithdrawalFailed, testDecider)

		assert.ErrorIs(t, err, storage.ErrAlreadyTerminal)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("some other storage error"))

		_, err := newTestStore(mockClient).TransitionWithdrawalRequest(context.Background(), "wd-1", models.WithdrawalFailed, testDecider)

		assert.Error(t, err)
	})
}
