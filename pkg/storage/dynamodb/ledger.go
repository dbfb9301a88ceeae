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

const (
	// ledgerGSI indexes all entries under one partition key so they can be
	// listed newest-first.
	ledgerGSI        = "gsi1pk-created_at-index"
	ledgerPartition  = "LEDGER_ENTRIES"
	ledgerAccountGSI = "account_id-created_at-index"
	ledgerStatusGSI  = "status-created_at-index"
)

// AppendLedgerEntry persists a new ledger entry. The conditional put makes
// the append idempotence-safe: re-writing an existing entry ID fails instead
// of overwriting the audit record.
func (s *Store) AppendLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	entry.GSI1PK = ledgerPartition

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.LedgerTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// ListLedgerEntries retrieves all ledger entries, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ledgerPartition},
		},
		ScanIndexForward: aws.Bool(false), // newest first
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}

// ListLedgerEntriesByAccount retrieves the entries for one account, newest first.
func (s *Store) ListLedgerEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerAccountGSI),
		KeyConditionExpression: aws.String("account_id = :account_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries by account: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}

// GetLedgerEntry retrieves a single entry by its ID.
func (s *Store) GetLedgerEntry(ctx context.Context, entryID string) (*models.LedgerEntry, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"entry_id": entryID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("ledger entry %s: %w", entryID, storage.ErrNotFound)
	}

	var entry models.LedgerEntry
	if err := attributevalue.UnmarshalMap(result.Item, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entry: %w", err)
	}

	return &entry, nil
}

// UpdateLedgerEntryStatus moves an entry from pending to the given status.
// The conditional update guards the terminal-is-final invariant against
// concurrent writers: only an entry still in pending can be moved.
func (s *Store) UpdateLedgerEntryStatus(ctx context.Context, entryID string, status models.LedgerStatus) (*models.LedgerEntry, error) {
	if !status.Valid() {
		return nil, storage.ErrInvalidStatusTransition
	}

	entry, err := s.GetLedgerEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status.Terminal() {
		return nil, storage.ErrInvalidStatusTransition
	}

	now := time.Now()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp for status update: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.LedgerTableName),
		Key: map[string]types.AttributeValue{
			"entry_id": &types.AttributeValueMemberS{Value: entryID},
		},
		UpdateExpression:    aws.String("SET #status = :new_status, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new_status":     &types.AttributeValueMemberS{Value: string(status)},
			":pending_status": &types.AttributeValueMemberS{Value: string(models.LedgerPending)},
			":now":            nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, storage.ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("failed to update ledger entry status: %w", err)
	}

	var updated models.LedgerEntry
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated ledger entry: %w", err)
	}

	return &updated, nil
}

// ListStalePendingEntries retrieves entries that have sat in pending for
// longer than maxAge. Used by the reconciliation sweep.
func (s *Store) ListStalePendingEntries(ctx context.Context, maxAge time.Duration) ([]models.LedgerEntry, error) {
	cutoffTime := time.Now().Add(-maxAge)
	cutoffTimeStr, err := cutoffTime.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerStatusGSI),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.LedgerPending)},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale pending entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stale pending entries: %w", err)
	}

	return entries, nil
}
