package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for plan data access.
type Repository interface {
	ListActive(ctx context.Context) ([]*Plan, error)
	Get(ctx context.Context, id uuid.UUID) (*Plan, error)
	UpdateProcessingFee(ctx context.Context, id uuid.UUID, settings ProcessingFeeSettings) (*Plan, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new plan repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]*Plan, error) {
	var plans []*Plan
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price ASC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Plan, error) {
	var p Plan
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

func (r *repository) UpdateProcessingFee(ctx context.Context, id uuid.UUID, settings ProcessingFeeSettings) (*Plan, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ProcessingFeeEnabled = settings.Enabled
	p.ProcessingFeeType = settings.Type
	p.ProcessingFeeAmount = settings.Amount
	p.ProcessingFeeMandatory = settings.Mandatory

	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("update processing fee: %w", err)
	}
	return p, nil
}
