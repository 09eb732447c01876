package models

import "time"

// PromoSettingID is the primary key of the single promo row.
const PromoSettingID = 1

type PromoSetting struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	PromoText     string    `gorm:"column:promo_text;not null;default:''"`
	PromoImageURL *string   `gorm:"column:promo_image_url"`
	IsActive      bool      `gorm:"column:is_active;not null;default:false"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PromoSetting) TableName() string { return "promo_settings" }
