package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/errors"
)

const maxPromoTextLength = 500

type promoRepository interface {
	Get(ctx context.Context) (*models.PromoSetting, error)
	Update(ctx context.Context, updates map[string]any) error
}

// Service reads and edits the banner shown on the public intake form.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Update(ctx context.Context, input UpdateInput) (*SettingsDTO, error)
}

type SettingsDTO struct {
	PromoText     string    `json:"promo_text"`
	PromoImageURL *string   `json:"promo_image_url"`
	IsActive      bool      `json:"is_active"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateInput leaves a field untouched when it is nil.
type UpdateInput struct {
	PromoText *string `json:"promo_text" validate:"omitempty,max=500"`
	IsActive  *bool   `json:"is_active"`
}

type service struct {
	repo promoRepository
	now  func() time.Time
}

func NewService(repo promoRepository, clock func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: repo, now: clock}, nil
}

func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "load promo settings")
	}
	return fromModel(row), nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*SettingsDTO, error) {
	updates := map[string]any{}
	if input.PromoText != nil {
		text := strings.TrimSpace(*input.PromoText)
		if len([]rune(text)) > maxPromoTextLength {
			return nil, errors.Newf(errors.CodeValidation, "promo_text must be at most %d characters", maxPromoTextLength)
		}
		updates["promo_text"] = text
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, errors.New(errors.CodeValidation, "nothing to update")
	}
	if _, err := s.repo.Get(ctx); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "load promo settings")
	}
	updates["updated_at"] = s.now().UTC()
	if err := s.repo.Update(ctx, updates); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "update promo settings")
	}
	return s.Get(ctx)
}

func fromModel(row *models.PromoSetting) *SettingsDTO {
	return &SettingsDTO{
		PromoText:     row.PromoText,
		PromoImageURL: row.PromoImageURL,
		IsActive:      row.IsActive,
		UpdatedAt:     row.UpdatedAt,
	}
}
