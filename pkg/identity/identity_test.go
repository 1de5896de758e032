package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const adminEmail = "support@tiffinhub.io"

func TestIsSuperAdmin(t *testing.T) {
	testCases := []struct {
		description string
		id          *Identity
		expected    bool
	}{
		{
			description: "merchant is not a super-admin",
			id:          &Identity{UserID: "u1", Email: "a@shop.com", Role: RoleMerchant},
			expected:    false,
		},
		{
			description: "super_admin role bypasses regardless of email",
			id:          &Identity{UserID: "u2", Email: "b@shop.com", Role: RoleSuperAdmin},
			expected:    true,
		},
		{
			description: "configured support address bypasses even as a merchant",
			id:          &Identity{UserID: "u3", Email: adminEmail, Role: RoleMerchant},
			expected:    true,
		},
		{
			description: "support address comparison ignores case",
			id:          &Identity{UserID: "u4", Email: "Support@TiffinHub.IO", Role: RoleMerchant},
			expected:    true,
		},
		{
			description: "nil identity never bypasses",
			id:          nil,
			expected:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.id.IsSuperAdmin(adminEmail))
		})
	}
}

func TestIsSuperAdminWithoutConfiguredEmail(t *testing.T) {
	id := &Identity{UserID: "u1", Email: "", Role: RoleMerchant}
	assert.False(t, id.IsSuperAdmin(""))
}

func TestOwnerValue(t *testing.T) {
	id := &Identity{UserID: "u1", Email: "a@shop.com"}
	assert.Equal(t, "u1", id.OwnerValue(false))
	assert.Equal(t, "a@shop.com", id.OwnerValue(true))
}

func TestContextRoundTrip(t *testing.T) {
	id := &Identity{UserID: "u1", Email: "a@shop.com", Role: RoleMerchant}
	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = Get(context.Background())
	assert.False(t, ok)
}
