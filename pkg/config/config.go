// Package config loads service settings from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the service.
type Config struct {
	HTTPPort            string `mapstructure:"HTTP_PORT"`
	AccountsTable       string `mapstructure:"DYNAMODB_ACCOUNTS_TABLE_NAME"`
	LedgerTable         string `mapstructure:"DYNAMODB_LEDGER_TABLE_NAME"`
	WithdrawalsTable    string `mapstructure:"DYNAMODB_WITHDRAWALS_TABLE_NAME"`
	ConnectionsTable    string `mapstructure:"DYNAMODB_CONNECTIONS_TABLE_NAME"`
	ReconcileQueueURL   string `mapstructure:"SQS_RECONCILE_QUEUE_URL"`
	ConsolePushEndpoint string `mapstructure:"CONSOLE_PUSH_ENDPOINT"`
	StalePendingMinutes int    `mapstructure:"STALE_PENDING_MINUTES"`
}

// Load reads configuration from the environment, applying defaults for
// optional settings. Table names are required.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STALE_PENDING_MINUTES", 15)

	keys := []string{
		"HTTP_PORT",
		"DYNAMODB_ACCOUNTS_TABLE_NAME",
		"DYNAMODB_LEDGER_TABLE_NAME",
		"DYNAMODB_WITHDRAWALS_TABLE_NAME",
		"DYNAMODB_CONNECTIONS_TABLE_NAME",
		"SQS_RECONCILE_QUEUE_URL",
		"CONSOLE_PUSH_ENDPOINT",
		"STALE_PENDING_MINUTES",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for name, value := range map[string]string{
		"DYNAMODB_ACCOUNTS_TABLE_NAME":    cfg.AccountsTable,
		"DYNAMODB_LEDGER_TABLE_NAME":      cfg.LedgerTable,
		"DYNAMODB_WITHDRAWALS_TABLE_NAME": cfg.WithdrawalsTable,
		"DYNAMODB_CONNECTIONS_TABLE_NAME": cfg.ConnectionsTable,
	} {
		if strings.TrimSpace(value) == "" {
			return Config{}, fmt.Errorf("%s is not set", name)
		}
	}

	return cfg, nil
}
