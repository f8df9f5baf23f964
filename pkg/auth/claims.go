package auth

import (
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID types.AccountID
	StoreID   *types.StoreID
	Role      enums.UserRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	AccountID types.AccountID `json:"account_id"`
	StoreID   *types.StoreID  `json:"store_id,omitempty"`
	Role      enums.UserRole  `json:"role"`
	jwt.RegisteredClaims
}
