package repository

import (
	"context"
	"time"

	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type systemConfigRepository struct {
	db *gorm.DB
}

// NewSystemConfigRepository creates a SystemConfigRepository bound to db.
func NewSystemConfigRepository(db *gorm.DB) repository.SystemConfigRepository {
	return &systemConfigRepository{db: db}
}

func (r *systemConfigRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []SystemConfig
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *systemConfigRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&SystemConfig{Key: key, Value: value, UpdatedAt: time.Now().UTC()}).Error
}

func (r *systemConfigRepository) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	now := time.Now().UTC()
	for key, value := range defaults {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&SystemConfig{Key: key, Value: value, UpdatedAt: now}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
