package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/romuloroldao/Black-House-sub001/models"

	"gorm.io/gorm"
)

// FoodTypeRepository persists food categories.
type FoodTypeRepository struct {
	db *gorm.DB
}

func NewFoodTypeRepository(db *gorm.DB) *FoodTypeRepository {
	return &FoodTypeRepository{db: db}
}

// FindByName matches case and surrounding-whitespace insensitively.
func (r *FoodTypeRepository) FindByName(ctx context.Context, name string) (*models.FoodType, error) {
	var ft models.FoodType
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&ft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

func (r *FoodTypeRepository) Create(ctx context.Context, ft *models.FoodType) error {
	return r.db.WithContext(ctx).Create(ft).Error
}
