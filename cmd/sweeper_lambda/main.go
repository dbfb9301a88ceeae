package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/rewardly/admin-ledger/pkg/config"
	"github.com/rewardly/admin-ledger/pkg/reconcile"
	dydbstore "github.com/rewardly/admin-ledger/pkg/storage/dynamodb"
)

var reconciler *reconcile.Reconciler
var stalePendingAge time.Duration

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	stalePendingAge = time.Duration(cfg.StalePendingMinutes) * time.Minute

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.AccountsTable, cfg.LedgerTable, cfg.WithdrawalsTable, cfg.ConnectionsTable)
	reconciler = reconcile.NewReconciler(store)
}

// HandleRequest is triggered by an EventBridge Schedule. It settles
// ledger entries that have sat in pending past the staleness threshold.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting sweep for stale pending ledger entries...")

	settled, err := reconciler.SweepStale(ctx, stalePendingAge)
	if err != nil {
		log.Printf("ERROR: sweep failed: %v", err)
		return err
	}

	log.Printf("Sweep finished, settled %d entries", settled)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
