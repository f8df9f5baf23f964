package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/internal/users"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type stubUserService struct {
	dto         *users.UserDTO
	list        []users.UserDTO
	err         error
	createInput *users.CreateUserInput
	updateInput *users.UpdateUserInput
	caller      *access.Identity
}

func (s *stubUserService) Create(_ context.Context, _ *access.Identity, input users.CreateUserInput) (*users.UserDTO, error) {
	s.createInput = &input
	return s.dto, s.err
}

func (s *stubUserService) List(context.Context, *access.Identity) ([]users.UserDTO, error) {
	return s.list, s.err
}

func (s *stubUserService) ListByStore(context.Context, *access.Identity, types.StoreID) ([]users.UserDTO, error) {
	return s.list, s.err
}

func (s *stubUserService) GetByAccountID(context.Context, *access.Identity, types.AccountID) (*users.UserDTO, error) {
	return s.dto, s.err
}

func (s *stubUserService) Me(_ context.Context, id *access.Identity) (*users.UserDTO, error) {
	s.caller = id
	return s.dto, s.err
}

func (s *stubUserService) Update(_ context.Context, _ *access.Identity, _ types.UserID, input users.UpdateUserInput) (*users.UserDTO, error) {
	s.updateInput = &input
	return s.dto, s.err
}

func (s *stubUserService) Delete(context.Context, *access.Identity, types.UserID) error {
	return s.err
}

func TestUserCreateParsesRole(t *testing.T) {
	accountID := types.New[types.AccountID]()
	svc := &stubUserService{dto: &users.UserDTO{AccountID: accountID}}
	body := map[string]any{
		"account_id": accountID.String(),
		"role":       "cashier",
		"name":       "Ana",
		"email":      "Ana@Example.com",
	}
	rec := serve(UserCreate(svc, nil), newRequest(t, http.MethodPost, "/", body, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.createInput.Role != enums.UserRoleCashier || svc.createInput.Email != "ana@example.com" {
		t.Fatalf("unexpected input %+v", svc.createInput)
	}
}

func TestUserCreateRejectsMissingAccountAndBadRole(t *testing.T) {
	for name, body := range map[string]any{
		"missing account": map[string]any{"role": "cashier", "name": "Ana", "email": "a@b.co"},
		"bad role":        map[string]any{"account_id": types.New[types.AccountID]().String(), "role": "janitor", "name": "Ana", "email": "a@b.co"},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubUserService{}
			rec := serve(UserCreate(svc, nil), newRequest(t, http.MethodPost, "/", body, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
			if svc.createInput != nil {
				t.Fatalf("service should not be called")
			}
		})
	}
}

func TestUserMeWithoutProfileReturnsNull(t *testing.T) {
	svc := &stubUserService{}
	rec := serve(UserMe(svc, nil), newRequest(t, http.MethodGet, "/", nil, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.caller == nil {
		t.Fatalf("identity not forwarded")
	}
	if got := decodeData[*users.UserDTO](t, rec); got != nil {
		t.Fatalf("expected null got %+v", got)
	}
}

func TestUserUpdateRole(t *testing.T) {
	userID := types.New[types.UserID]()
	svc := &stubUserService{dto: &users.UserDTO{ID: userID}}
	rec := serve(UserUpdate(svc, nil), newRequest(t, http.MethodPatch, "/", map[string]any{"role": "manager", "is_active": false}, map[string]string{"userId": userID.String()}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	in := svc.updateInput
	if in.Role == nil || *in.Role != enums.UserRoleManager {
		t.Fatalf("expected manager role")
	}
	if in.IsActive == nil || *in.IsActive {
		t.Fatalf("expected is_active=false")
	}
}
