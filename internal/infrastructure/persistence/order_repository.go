package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

var _ order.Repository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order with its items and adjustments
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Adjustments").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByItemID retrieves the order that owns the given line item
func (r *GormOrderRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*order.Order, error) {
	var item models.LineItemModel
	err := r.db.WithContext(ctx).
		Select("order_id").
		First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order item: %w", err)
	}
	return r.FindByID(ctx, item.OrderID)
}

// Save persists the order together with its items and adjustments.
// Adjustments carry no identity of their own and are replaced wholesale.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Adjustments").
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(model).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		for i := range model.Items {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&model.Items[i]).Error; err != nil {
				return fmt.Errorf("failed to save order item: %w", err)
			}
		}
		if err := tx.Where("order_id = ?", model.ID).
			Delete(&models.AdjustmentModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear order adjustments: %w", err)
		}
		if len(model.Adjustments) > 0 {
			if err := tx.Create(&model.Adjustments).Error; err != nil {
				return fmt.Errorf("failed to save order adjustments: %w", err)
			}
		}
		return nil
	})
}
