package repository

import (
	"context"

	"github.com/romuloroldao/Black-House-sub001/models"

	"gorm.io/gorm"
)

// DietRepository persists diets, their items and supplement rows.
type DietRepository struct {
	db *gorm.DB
}

func NewDietRepository(db *gorm.DB) *DietRepository {
	return &DietRepository{db: db}
}

func (r *DietRepository) Create(ctx context.Context, diet *models.Diet) error {
	return r.db.WithContext(ctx).Create(diet).Error
}

// CreateItems inserts all diet items in a single multi-row statement.
func (r *DietRepository) CreateItems(ctx context.Context, items []models.DietItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// CreateSupplements inserts supplement and medication rows in one statement.
func (r *DietRepository) CreateSupplements(ctx context.Context, rows []models.DietSupplement) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
