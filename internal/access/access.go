// Package access resolves who is calling and what they may do. The identity is
// always passed explicitly; nothing here reads ambient request state.
package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// Action names a guarded mutation.
type Action string

const (
	ActionStoreCreate     Action = "store.create"
	ActionStoreUpdate     Action = "store.update"
	ActionStoreDelete     Action = "store.delete"
	ActionCategoryWrite   Action = "category.write"
	ActionProductWrite    Action = "product.write"
	ActionProductQuantity Action = "product.quantity"
	ActionSaleCreate      Action = "sale.create"
	ActionSaleRefund      Action = "sale.refund"
	ActionUserWrite       Action = "user.write"
)

var knownActions = map[Action]struct{}{
	ActionStoreCreate:     {},
	ActionStoreUpdate:     {},
	ActionStoreDelete:     {},
	ActionCategoryWrite:   {},
	ActionProductWrite:    {},
	ActionProductQuantity: {},
	ActionSaleCreate:      {},
	ActionSaleRefund:      {},
	ActionUserWrite:       {},
}

// Identity is the authenticated caller.
type Identity struct {
	AccountID types.AccountID
	Role      enums.UserRole
	StoreID   *types.StoreID
}

// RequireIdentity fails with UNAUTHORIZED when no caller is present.
func RequireIdentity(id *Identity) error {
	if id == nil || id.AccountID.IsZero() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

// Policy restricts actions to roles. Actions without a rule only need an identity.
type Policy struct {
	rules map[Action][]enums.UserRole
}

// NewPolicy parses rules of the form {"sale.refund": "manager|store_owner"}.
func NewPolicy(raw map[string]string) (*Policy, error) {
	rules := make(map[Action][]enums.UserRole, len(raw))
	for key, value := range raw {
		action := Action(strings.TrimSpace(key))
		if _, ok := knownActions[action]; !ok {
			return nil, fmt.Errorf("unknown access action %q", key)
		}
		var roles []enums.UserRole
		for _, part := range strings.Split(value, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			role, err := enums.ParseUserRole(part)
			if err != nil {
				return nil, fmt.Errorf("access action %q: %w", key, err)
			}
			roles = append(roles, role)
		}
		if len(roles) == 0 {
			return nil, fmt.Errorf("access action %q has no roles", key)
		}
		rules[action] = roles
	}
	return &Policy{rules: rules}, nil
}

// Authorize checks presence and, when a rule exists for action, the caller's role.
func (p *Policy) Authorize(id *Identity, action Action) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	allowed, ok := p.rules[action]
	if !ok {
		return nil
	}
	for _, role := range allowed {
		if role == id.Role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role").
		WithDetails(map[string]any{"action": string(action), "role": id.Role.String()})
}

// Rules returns the configured actions in sorted order, for startup logging.
func (p *Policy) Rules() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.rules))
	for action, roles := range p.rules {
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = role.String()
		}
		out = append(out, fmt.Sprintf("%s:%s", action, strings.Join(names, "|")))
	}
	sort.Strings(out)
	return out
}
