// Package repository holds the GORM data access layer. Every repository is
// constructed with the exact handle it is allowed to use — the shared pool
// for reads outside a transaction, or the transaction handle during an
// import. No repository ever reaches for an ambient database global.
package repository

import (
	"context"
	"errors"

	"github.com/romuloroldao/Black-House-sub001/models"

	"gorm.io/gorm"
)

// FoodRepository persists catalog foods.
type FoodRepository struct {
	db *gorm.DB
}

func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

// FindByName matches the literal name, case and whitespace sensitive.
func (r *FoodRepository) FindByName(ctx context.Context, name string) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// FindByNormalized matches the canonical lookup key.
func (r *FoodRepository) FindByNormalized(ctx context.Context, key string) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).Where("normalized_name = ?", key).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// ListAll returns the full catalog for the similarity scan.
func (r *FoodRepository) ListAll(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if err := r.db.WithContext(ctx).Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// SearchPartial returns the shortest catalog name containing the fragment,
// or nil when nothing matches.
func (r *FoodRepository) SearchPartial(ctx context.Context, fragment string) (*models.Food, error) {
	var food models.Food
	err := r.db.WithContext(ctx).
		Where("normalized_name LIKE ?", "%"+fragment+"%").
		Order("length(normalized_name)").
		First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *FoodRepository) Create(ctx context.Context, food *models.Food) error {
	return r.db.WithContext(ctx).Create(food).Error
}
