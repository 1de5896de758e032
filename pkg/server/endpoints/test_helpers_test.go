package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/identity"
)

const testAdminEmail = "support@tiffinhub.io"

func init() {
	audit.SetEnabled(false)
}

func merchantIdentity(id string) *identity.Identity {
	return &identity.Identity{UserID: id, Email: id + "@example.com", Role: identity.RoleMerchant}
}

func adminIdentity() *identity.Identity {
	return &identity.Identity{UserID: "admin-1", Email: testAdminEmail, Role: identity.RoleSuperAdmin}
}

// newRequest builds a request carrying an identity, mux vars and an optional
// JSON body, mirroring what the router and auth middleware would produce.
func newRequest(t *testing.T, method, target string, caller *identity.Identity, vars map[string]string, body interface{}) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if caller != nil {
		req = req.WithContext(identity.Set(req.Context(), caller))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
