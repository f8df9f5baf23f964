package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/auth"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "pos-test", ExpirationMinutes: 60}

func captureIdentity(t *testing.T, header string) (*httptest.ResponseRecorder, *access.Identity) {
	t.Helper()
	var captured *access.Identity
	handler := Identity(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp, captured
}

func TestIdentityAllowsAnonymous(t *testing.T) {
	resp, id := captureIdentity(t, "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Nil(t, id)
}

func TestIdentityRejectsBadTokens(t *testing.T) {
	for _, header := range []string{"Bearer invalid", "Bearer "} {
		resp, id := captureIdentity(t, header)
		require.Equal(t, http.StatusUnauthorized, resp.Code, header)
		require.Nil(t, id)
	}
}

func TestIdentityResolvesClaims(t *testing.T) {
	accountID := types.New[types.AccountID]()
	storeID := types.New[types.StoreID]()
	token, err := auth.MintAccessToken(testJWT, time.Now(), auth.AccessTokenPayload{
		AccountID: accountID,
		StoreID:   &storeID,
		Role:      enums.UserRoleManager,
	})
	require.NoError(t, err)

	resp, id := captureIdentity(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, id)
	require.Equal(t, accountID, id.AccountID)
	require.Equal(t, enums.UserRoleManager, id.Role)
	require.Equal(t, storeID, *id.StoreID)
}
