package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id types.UserID) (*models.User, error)
	FindByAccountID(ctx context.Context, accountID types.AccountID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByStore(ctx context.Context, storeID types.StoreID) ([]models.User, error)
	Update(ctx context.Context, id types.UserID, updates map[string]any) error
	Delete(ctx context.Context, id types.UserID) error
}

// Service exposes staff profile operations.
type Service interface {
	Create(ctx context.Context, id *access.Identity, input CreateUserInput) (*UserDTO, error)
	List(ctx context.Context, id *access.Identity) ([]UserDTO, error)
	ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]UserDTO, error)
	GetByAccountID(ctx context.Context, id *access.Identity, accountID types.AccountID) (*UserDTO, error)
	Me(ctx context.Context, id *access.Identity) (*UserDTO, error)
	Update(ctx context.Context, id *access.Identity, userID types.UserID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id *access.Identity, userID types.UserID) error
}

type service struct {
	repo   userRepository
	policy *access.Policy
}

// NewService builds the users service.
func NewService(repo userRepository, policy *access.Policy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, policy: policy}, nil
}

func (s *service) Create(ctx context.Context, id *access.Identity, input CreateUserInput) (*UserDTO, error) {
	if err := s.policy.Authorize(id, access.ActionUserWrite); err != nil {
		return nil, err
	}
	if input.AccountID.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account_id is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	created, err := s.repo.Create(ctx, &models.User{
		AccountID: input.AccountID,
		StoreID:   input.StoreID,
		Role:      input.Role,
		Name:      name,
		Email:     email,
		IsActive:  true,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "account already has a profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context, id *access.Identity) ([]UserDTO, error) {
	if id == nil {
		return []UserDTO{}, nil
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return fromModels(rows), nil
}

func (s *service) ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]UserDTO, error) {
	if id == nil {
		return []UserDTO{}, nil
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store users")
	}
	return fromModels(rows), nil
}

func (s *service) GetByAccountID(ctx context.Context, id *access.Identity, accountID types.AccountID) (*UserDTO, error) {
	if id == nil {
		return nil, nil
	}
	user, err := s.repo.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) Me(ctx context.Context, id *access.Identity) (*UserDTO, error) {
	if id == nil {
		return nil, nil
	}
	return s.GetByAccountID(ctx, id, id.AccountID)
}

func (s *service) Update(ctx context.Context, id *access.Identity, userID types.UserID, input UpdateUserInput) (*UserDTO, error) {
	if err := s.policy.Authorize(id, access.ActionUserWrite); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		updates["email"] = email
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		updates["role"] = *input.Role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, updates); err != nil {
			return nil, mapLoadError(err)
		}
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, id *access.Identity, userID types.UserID) error {
	if err := s.policy.Authorize(id, access.ActionUserWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return mapLoadError(err)
	}
	return nil
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
}
