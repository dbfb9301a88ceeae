package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/rewardly/admin-ledger/pkg/config"
	"github.com/rewardly/admin-ledger/pkg/events"
	"github.com/rewardly/admin-ledger/pkg/handlers"
	"github.com/rewardly/admin-ledger/pkg/history"
	"github.com/rewardly/admin-ledger/pkg/scheduler"
	dydbstore "github.com/rewardly/admin-ledger/pkg/storage/dynamodb"
	"github.com/rewardly/admin-ledger/pkg/transfer"
	"github.com/rewardly/admin-ledger/pkg/withdrawals"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// AWS Session
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(awsCfg)
	store := dydbstore.New(dbClient, cfg.AccountsTable, cfg.LedgerTable, cfg.WithdrawalsTable, cfg.ConnectionsTable)

	// SQS client and reconciliation scheduler.
	var reconcileScheduler scheduler.Scheduler
	if cfg.ReconcileQueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsCfg)
		reconcileScheduler = scheduler.NewSQSScheduler(sqsClient, cfg.ReconcileQueueURL)
	} else {
		log.Println("SQS_RECONCILE_QUEUE_URL not set, unknown-outcome transfers will rely on the scheduled sweep")
	}

	// Console push publisher.
	var publisher events.Publisher = &events.NoOpPublisher{}
	if cfg.ConsolePushEndpoint != "" {
		p, err := events.NewPublisher(store, store, cfg.ConsolePushEndpoint)
		if err != nil {
			log.Fatalf("failed to create console publisher: %v", err)
		}
		publisher = p
	}

	engine := transfer.NewEngine(store, store, publisher, reconcileScheduler)
	historyService := history.NewService(store)
	withdrawalService := withdrawals.NewService(store, publisher)

	router := handlers.NewRouter(handlers.Dependencies{
		Store:              store,
		Engine:             engine,
		History:            historyService,
		Withdrawals:        withdrawalService,
		ConsoleConnections: store,
		Logger:             logger,
	})

	log.Printf("Starting server on port %s", cfg.HTTPPort)

	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
