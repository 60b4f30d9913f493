package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kokifi/lottery/pkg/domain/sysconfig"
	"gorm.io/gorm"
)

// Constraints gorm tags cannot express. Both SQLite and Postgres support
// partial indexes with this syntax.
var constraintStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lotteries_single_active
		ON lotteries (status) WHERE status = 'active'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_koki_purchase_reward_once
		ON koki_transactions (source, source_id) WHERE transaction_type = 'purchase_reward'`,
}

// Migrate creates or updates the schema and seeds missing config rows.
func Migrate(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	log := logger.With("context", "Migrate")
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range constraintStatements {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}
	configs := NewSystemConfigRepository(db.WithContext(ctx))
	if err := configs.SeedDefaults(ctx, sysconfig.Defaults()); err != nil {
		return fmt.Errorf("seed system config: %w", err)
	}
	log.Info("Database schema is up to date", "tables", len(Models()))
	return nil
}
