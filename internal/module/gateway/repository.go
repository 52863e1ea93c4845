package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/votely/server/internal/module/region"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for gateway configuration access.
type Repository interface {
	GetByRegion(ctx context.Context, reg region.Region) (*Config, error)
	Upsert(ctx context.Context, cfg *Config) error
	List(ctx context.Context) ([]*Config, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new gateway configuration repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByRegion(ctx context.Context, reg region.Region) (*Config, error) {
	var cfg Config
	err := r.db.WithContext(ctx).First(&cfg, "region = ?", reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoConfig, reg)
		}
		return nil, fmt.Errorf("get gateway config: %w", err)
	}
	return &cfg, nil
}

func (r *repository) Upsert(ctx context.Context, cfg *Config) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "region"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"gateway_type", "stripe_enabled", "paddle_enabled",
				"split_percentage", "recommendation_reason", "updated_at",
			}),
		}).
		Create(cfg).Error
	if err != nil {
		return fmt.Errorf("upsert gateway config: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]*Config, error) {
	var configs []*Config
	err := r.db.WithContext(ctx).Order("region ASC").Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("list gateway configs: %w", err)
	}
	return configs, nil
}
