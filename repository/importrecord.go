package repository

import (
	"context"
	"errors"

	"github.com/romuloroldao/Black-House-sub001/models"

	"gorm.io/gorm"
)

// ImportRecordRepository persists the preview audit rows.
type ImportRecordRepository struct {
	db *gorm.DB
}

func NewImportRecordRepository(db *gorm.DB) *ImportRecordRepository {
	return &ImportRecordRepository{db: db}
}

func (r *ImportRecordRepository) Create(ctx context.Context, record *models.ImportRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByToken returns (nil, nil) when no record carries the token.
func (r *ImportRecordRepository) FindByToken(ctx context.Context, token string) (*models.ImportRecord, error) {
	var record models.ImportRecord
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ImportRecordRepository) Update(ctx context.Context, record *models.ImportRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
