package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/db/dbtest"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

func newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.Open(t).DB()), nil)
	require.NoError(t, err)
	return svc
}

func caller() *access.Identity {
	return &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleAdmin}
}

func TestCreateAndResolveMe(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	storeID := types.New[types.StoreID]()
	me := &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleCashier, StoreID: &storeID}

	created, err := svc.Create(ctx, caller(), CreateUserInput{
		AccountID: me.AccountID,
		StoreID:   &storeID,
		Role:      enums.UserRoleCashier,
		Name:      " Dana ",
		Email:     "Dana@Example.com",
	})
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.Equal(t, "Dana", created.Name)
	require.Equal(t, "dana@example.com", created.Email)

	profile, err := svc.Me(ctx, me)
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Equal(t, created.ID, profile.ID)

	byStore, err := svc.ListByStore(ctx, me, storeID)
	require.NoError(t, err)
	require.Len(t, byStore, 1)

	missing, err := svc.GetByAccountID(ctx, me, types.New[types.AccountID]())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateRejectsDuplicateAccount(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	account := types.New[types.AccountID]()
	input := CreateUserInput{AccountID: account, Role: enums.UserRoleAdmin, Name: "Root", Email: "root@example.com"}

	_, err := svc.Create(ctx, caller(), input)
	require.NoError(t, err)
	_, err = svc.Create(ctx, caller(), input)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, CreateUserInput{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	cases := []CreateUserInput{
		{Role: enums.UserRoleAdmin, Name: "A", Email: "a@b.c"},
		{AccountID: types.New[types.AccountID](), Role: "owner", Name: "A", Email: "a@b.c"},
		{AccountID: types.New[types.AccountID](), Role: enums.UserRoleAdmin, Email: "a@b.c"},
		{AccountID: types.New[types.AccountID](), Role: enums.UserRoleAdmin, Name: "A", Email: "nope"},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, caller(), input)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "input %+v", input)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, caller(), CreateUserInput{
		AccountID: types.New[types.AccountID](),
		Role:      enums.UserRoleCashier,
		Name:      "Eli",
		Email:     "eli@example.com",
	})
	require.NoError(t, err)

	role := enums.UserRoleManager
	inactive := false
	updated, err := svc.Update(ctx, caller(), created.ID, UpdateUserInput{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleManager, updated.Role)
	require.False(t, updated.IsActive)

	require.NoError(t, svc.Delete(ctx, caller(), created.ID))
	err = svc.Delete(ctx, caller(), created.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	all, err := svc.List(ctx, caller())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestReadsWithoutIdentity(t *testing.T) {
	svc := newService(t)
	me, err := svc.Me(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, me)

	list, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, list)
}
