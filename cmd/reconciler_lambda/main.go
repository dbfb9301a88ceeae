package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/rewardly/admin-ledger/pkg/config"
	"github.com/rewardly/admin-ledger/pkg/reconcile"
	"github.com/rewardly/admin-ledger/pkg/scheduler"
	dydbstore "github.com/rewardly/admin-ledger/pkg/storage/dynamodb"
)

var reconciler *reconcile.Reconciler

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.AccountsTable, cfg.LedgerTable, cfg.WithdrawalsTable, cfg.ConnectionsTable)
	reconciler = reconcile.NewReconciler(store)
}

// HandleRequest processes reconciliation tasks enqueued after transfers
// with an unknown outcome.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var task scheduler.ReconcileTask
		if err := json.Unmarshal([]byte(message.Body), &task); err != nil {
			log.Printf("ERROR: failed to unmarshal reconcile task from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		if err := reconciler.ResolveEntry(ctx, task.EntryID); err != nil {
			log.Printf("ERROR: failed to resolve entry %s: %v", task.EntryID, err)
			return err
		}

		log.Printf("Resolved entry %s for transaction %s", task.EntryID, task.TransactionID)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
