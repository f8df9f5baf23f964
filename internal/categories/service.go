package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id types.CategoryID) (*models.Category, error)
	ListByStore(ctx context.Context, storeID types.StoreID) ([]models.Category, error)
	Update(ctx context.Context, id types.CategoryID, updates map[string]any) error
	Delete(ctx context.Context, id types.CategoryID) error
	StoreExists(ctx context.Context, storeID types.StoreID) (bool, error)
}

// Service exposes category operations.
type Service interface {
	Create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateCategoryInput) (*CategoryDTO, error)
	Get(ctx context.Context, id *access.Identity, categoryID types.CategoryID) (*CategoryDTO, error)
	ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]CategoryDTO, error)
	Update(ctx context.Context, id *access.Identity, categoryID types.CategoryID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id *access.Identity, categoryID types.CategoryID) error
}

type service struct {
	repo   categoryRepository
	policy *access.Policy
}

func NewService(repo categoryRepository, policy *access.Policy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, policy: policy}, nil
}

func (s *service) Create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateCategoryInput) (*CategoryDTO, error) {
	if err := s.policy.Authorize(id, access.ActionCategoryWrite); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	ok, err := s.repo.StoreExists(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	created, err := s.repo.Create(ctx, &models.Category{
		StoreID:     storeID,
		Name:        name,
		Description: trimmedOrNil(input.Description),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id *access.Identity, categoryID types.CategoryID) (*CategoryDTO, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(category), nil
}

func (s *service) ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]CategoryDTO, error) {
	if id == nil {
		return []CategoryDTO{}, nil
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id *access.Identity, categoryID types.CategoryID, input UpdateCategoryInput) (*CategoryDTO, error) {
	if err := s.policy.Authorize(id, access.ActionCategoryWrite); err != nil {
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
	if input.Description.Valid {
		if desc := trimmedOrNil(input.Description.Value); desc != nil {
			updates["description"] = *desc
		} else {
			updates["description"] = nil
		}
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, categoryID, updates); err != nil {
			return nil, mapLoadError(err)
		}
	}
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(category), nil
}

func (s *service) Delete(ctx context.Context, id *access.Identity, categoryID types.CategoryID) error {
	if err := s.policy.Authorize(id, access.ActionCategoryWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return mapLoadError(err)
	}
	return nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
}
