package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tiffinhub/tiffinhub/pkg/identity"
	"github.com/tiffinhub/tiffinhub/pkg/model"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

var testSigningKey = []byte("test-signing-key")

type mockUsersStore struct {
	mock.Mock
}

func (m *mockUsersStore) FetchUser(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUsersStore) FetchUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUsersStore) ListUsers(limit, offset int) ([]model.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUsersStore) UpdateUser(id string, changes map[string]interface{}) (*model.User, error) {
	args := m.Called(id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSigningKey)
	require.NoError(t, err)
	return signed
}

// capturingHandler records the identity the middleware placed on the
// request context.
func capturingHandler(captured **identity.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := identity.Get(r.Context()); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	auth := NewBearerAuthenticator(new(mockUsersStore), testSigningKey)

	req := httptest.NewRequest("GET", "/api/customers", nil)
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Authorization missing", rr.Body.String())
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	auth := NewBearerAuthenticator(new(mockUsersStore), testSigningKey)

	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Malformed authorization header", rr.Body.String())
}

func TestMiddlewareRejectsBadSignature(t *testing.T) {
	auth := NewBearerAuthenticator(new(mockUsersStore), testSigningKey)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := token.SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid authorization token", rr.Body.String())
}

func TestMiddlewareRejectsUnknownPrincipal(t *testing.T) {
	usersStore := new(mockUsersStore)
	usersStore.On("FetchUser", "u1").Return(nil, store.ErrRecordNotFound)

	auth := NewBearerAuthenticator(usersStore, testSigningKey)

	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1"))
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unknown principal", rr.Body.String())
}

func TestMiddlewareRejectsDisabledAccount(t *testing.T) {
	usersStore := new(mockUsersStore)
	usersStore.On("FetchUser", "u1").Return(&model.User{
		ID:       "u1",
		Email:    "a@shop.com",
		Role:     identity.RoleMerchant,
		IsActive: false,
	}, nil)

	auth := NewBearerAuthenticator(usersStore, testSigningKey)

	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1"))
	rr := httptest.NewRecorder()
	auth.Middleware(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Account disabled", rr.Body.String())
}

func TestMiddlewareSetsIdentity(t *testing.T) {
	usersStore := new(mockUsersStore)
	usersStore.On("FetchUser", "u1").Return(&model.User{
		ID:       "u1",
		Email:    "a@shop.com",
		Role:     identity.RoleMerchant,
		IsActive: true,
	}, nil)

	auth := NewBearerAuthenticator(usersStore, testSigningKey)

	var captured *identity.Identity
	req := httptest.NewRequest("GET", "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "u1"))
	rr := httptest.NewRecorder()
	auth.Middleware(capturingHandler(&captured)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "u1", captured.UserID)
	assert.Equal(t, "a@shop.com", captured.Email)
	assert.Equal(t, identity.RoleMerchant, captured.Role)
	usersStore.AssertExpectations(t)
}
