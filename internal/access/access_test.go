package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

func cashier() *Identity {
	return &Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleCashier}
}

func TestRequireIdentity(t *testing.T) {
	require.True(t, pkgerrors.Is(RequireIdentity(nil), pkgerrors.CodeUnauthorized))
	require.True(t, pkgerrors.Is(RequireIdentity(&Identity{}), pkgerrors.CodeUnauthorized))
	require.NoError(t, RequireIdentity(cashier()))
}

func TestEmptyPolicyOnlyChecksPresence(t *testing.T) {
	policy, err := NewPolicy(nil)
	require.NoError(t, err)

	require.NoError(t, policy.Authorize(cashier(), ActionSaleRefund))
	require.True(t, pkgerrors.Is(policy.Authorize(nil, ActionSaleRefund), pkgerrors.CodeUnauthorized))

	var nilPolicy *Policy
	require.NoError(t, nilPolicy.Authorize(cashier(), ActionStoreDelete))
}

func TestPolicyRestrictsRoles(t *testing.T) {
	policy, err := NewPolicy(map[string]string{
		"sale.refund": "manager| store_owner",
	})
	require.NoError(t, err)

	err = policy.Authorize(cashier(), ActionSaleRefund)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	manager := &Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleManager}
	require.NoError(t, policy.Authorize(manager, ActionSaleRefund))
	require.NoError(t, policy.Authorize(cashier(), ActionSaleCreate))
	require.Equal(t, []string{"sale.refund:manager|store_owner"}, policy.Rules())
}

func TestNewPolicyRejectsBadInput(t *testing.T) {
	_, err := NewPolicy(map[string]string{"sale.void": "admin"})
	require.Error(t, err)

	_, err = NewPolicy(map[string]string{"sale.refund": "janitor"})
	require.Error(t, err)

	_, err = NewPolicy(map[string]string{"sale.refund": " | "})
	require.Error(t, err)
}
