package users

import (
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape without credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"full_name"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CourierDTO is the compact shape used by assignment dropdowns.
type CourierDTO struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// CreateUserDTO holds what the repository needs to persist a user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         enums.UserRole
	IsActive     *bool
}

// CreateUserInput is the super-admin request to add a staff account.
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     enums.UserRole
}

// UpdateUserInput changes role, name and optionally the password.
type UpdateUserInput struct {
	ID       uuid.UUID
	FullName string
	Role     enums.UserRole
	Password string
	IsActive *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func CourierFromModel(u models.User) CourierDTO {
	return CourierDTO{ID: u.ID, FullName: u.DisplayName(), Email: u.Email}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		Role:         c.Role,
		IsActive:     isActive,
	}
}
