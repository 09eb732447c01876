package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/laundry-backend/pkg/db"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const phoneConstraint = "customers_nomor_hp_key"

// Service covers the admin customer screens and the customer writes made
// while an order is created or edited.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[CustomerDTO], error)
	Update(ctx context.Context, input UpdateCustomerInput) (*CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Upsert finds the customer by phone and refreshes its last-known
	// details, creating it when absent. It runs on tx when given.
	Upsert(ctx context.Context, tx *gorm.DB, details IntakeDetails) (*models.Customer, error)
	// Rename updates name and phone of an existing customer on tx.
	Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name, phone string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[CustomerDTO], error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	dtos := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	return pagination.BuildPage(dtos, params.Limit, func(c CustomerDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	}), nil
}

func (s *service) Update(ctx context.Context, input UpdateCustomerInput) (*CustomerDTO, error) {
	if input.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	updates := map[string]any{}
	if v := strings.TrimSpace(input.Name); v != "" {
		updates["nama_terakhir"] = v
	}
	if v := strings.TrimSpace(input.Phone); v != "" {
		updates["nomor_hp"] = v
	}
	if v := strings.TrimSpace(input.Address); v != "" {
		updates["alamat_terakhir"] = v
	}
	if v := strings.TrimSpace(input.MapsLink); v != "" {
		updates["google_maps_terakhir"] = v
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	affected, err := s.repo.Update(ctx, input.ID, updates)
	if err != nil {
		return nil, mapWriteError(err, "update customer")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	customer, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	dto := FromModel(*customer)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "customer still has orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *service) Upsert(ctx context.Context, tx *gorm.DB, details IntakeDetails) (*models.Customer, error) {
	phone := strings.TrimSpace(details.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nomorHP is required")
	}
	repo := s.repo.WithTx(tx)

	existing, err := repo.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		updates := map[string]any{
			"nama_terakhir":        strings.TrimSpace(details.Name),
			"alamat_terakhir":      strings.TrimSpace(details.Address),
			"google_maps_terakhir": details.MapsLink,
		}
		if _, err := repo.Update(ctx, existing.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
		}
		existing.LastName = strings.TrimSpace(details.Name)
		existing.LastAddress = strings.TrimSpace(details.Address)
		existing.LastMapsLink = details.MapsLink
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer := &models.Customer{
			PhoneNumber:  phone,
			LastName:     strings.TrimSpace(details.Name),
			LastAddress:  strings.TrimSpace(details.Address),
			LastMapsLink: details.MapsLink,
		}
		if err := repo.Create(ctx, customer); err != nil {
			return nil, mapWriteError(err, "create customer")
		}
		return customer, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer")
	}
}

func (s *service) Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name, phone string) error {
	updates := map[string]any{}
	if v := strings.TrimSpace(name); v != "" {
		updates["nama_terakhir"] = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		updates["nomor_hp"] = v
	}
	if len(updates) == 0 {
		return nil
	}
	affected, err := s.repo.WithTx(tx).Update(ctx, id, updates)
	if err != nil {
		return mapWriteError(err, "update customer")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func mapWriteError(err error, msg string) error {
	if db.IsUniqueViolation(err, phoneConstraint) {
		return pkgerrors.New(pkgerrors.CodeConflict, "phone number already belongs to another customer")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
