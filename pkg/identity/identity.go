package identity

import (
	"context"
	"strings"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Role values stored on the users table.
const (
	RoleMerchant   = "merchant"
	RoleSuperAdmin = "super_admin"
)

// Identity represents the authenticated principal for a request. It is
// populated fresh from the users store on every request; bypass privileges
// are a property of the principal, never of the data it touches.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsSuperAdmin reports whether this principal may bypass tenant isolation.
// adminEmail is the configured support address; it is passed in explicitly
// so call sites never read ambient environment state.
func (i *Identity) IsSuperAdmin(adminEmail string) bool {
	if i == nil {
		return false
	}
	if i.Role == RoleSuperAdmin {
		return true
	}
	return adminEmail != "" && strings.EqualFold(i.Email, adminEmail)
}

// OwnerValue returns the value stamped into a record's owner field.
// byEmail selects between the principal's internal id and its email,
// matching the entity registration's owner kind.
func (i *Identity) OwnerValue(byEmail bool) string {
	if byEmail {
		return i.Email
	}
	return i.UserID
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
