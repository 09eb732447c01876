package promo

import (
	"context"
	"errors"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the single settings row, creating it empty when a fresh
// database has not been seeded.
func (r *Repository) Get(ctx context.Context) (*models.PromoSetting, error) {
	var row models.PromoSetting
	err := r.db.WithContext(ctx).First(&row, "id = ?", models.PromoSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.PromoSetting{ID: models.PromoSettingID}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Update(ctx context.Context, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PromoSetting{}).
		Where("id = ?", models.PromoSettingID).
		Updates(updates).Error
}
