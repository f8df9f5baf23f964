package users

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// UserDTO is the staff profile returned to clients.
type UserDTO struct {
	ID        types.UserID    `json:"id"`
	AccountID types.AccountID `json:"account_id"`
	StoreID   *types.StoreID  `json:"store_id,omitempty"`
	Role      enums.UserRole  `json:"role"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateUserInput captures the fields needed to attach a profile to an account.
type CreateUserInput struct {
	AccountID types.AccountID
	StoreID   *types.StoreID
	Role      enums.UserRole
	Name      string
	Email     string
}

// UpdateUserInput is a partial patch.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *enums.UserRole
	IsActive *bool
}

// FromModel maps a persisted user to its DTO.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		AccountID: u.AccountID,
		StoreID:   u.StoreID,
		Role:      u.Role,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func fromModels(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
