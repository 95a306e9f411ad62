package woods

import (
	"context"

	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists the wood catalog.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the full catalog in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.Wood, error) {
	var woods []models.Wood
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&woods).Error; err != nil {
		return nil, err
	}
	return woods, nil
}

func (r *Repository) Create(ctx context.Context, wood *models.Wood) error {
	return r.db.WithContext(ctx).Create(wood).Error
}

// UpdateFields replaces the editable columns and returns the stored row.
// The image column is never touched.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, name, description string, stock int, price decimal.Decimal) (*models.Wood, error) {
	var updated *models.Wood
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wood{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":        name,
				"description": description,
				"stock":       stock,
				"price":       price,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var wood models.Wood
		if err := tx.First(&wood, "id = ?", id).Error; err != nil {
			return err
		}
		updated = &wood
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete returns gorm.ErrRecordNotFound when nothing was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Wood{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ImageNames lists the distinct image names referenced by any wood.
func (r *Repository) ImageNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&models.Wood{}).
		Where("image IS NOT NULL AND image <> ''").
		Distinct("image").
		Pluck("image", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Stats aggregates the catalog counters used by the analytics summary.
type Stats struct {
	TotalProducts int64
	TotalStock    int64
	LowStockCount int64
}

func (r *Repository) Stats(ctx context.Context, lowStockThreshold int) (Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).
		Model(&models.Wood{}).
		Select(
			"COUNT(*) AS total_products, COALESCE(SUM(stock), 0) AS total_stock, "+
				"COALESCE(SUM(CASE WHEN stock <= ? THEN 1 ELSE 0 END), 0) AS low_stock_count",
			lowStockThreshold,
		).
		Scan(&stats).Error
	return stats, err
}
