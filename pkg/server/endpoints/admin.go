package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/identity"
	"github.com/tiffinhub/tiffinhub/pkg/server"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// Fields a super-admin may change on a merchant account. Everything else in
// a PUT body is ignored.
var adminUserFields = map[string]bool{
	"name":      true,
	"role":      true,
	"is_active": true,
}

// RegisterAdminEndpoints registers the merchant-account management routes.
// Super-admin only; must be registered before the generic entity routes so
// /api/admin/users is not swallowed by the {entity} pattern.
func RegisterAdminEndpoints(s *server.Server) {
	usersStore := s.UsersStore
	adminEmail := s.Config.AdminEmail

	api := s.Router.PathPrefix("/api/admin").Subrouter()
	api.Use(s.Auth.Middleware)

	api.HandleFunc("/users", handleListUsers(usersStore, adminEmail)).Methods("GET")
	api.HandleFunc("/users/{id}", handleUpdateUser(usersStore, adminEmail)).Methods("PUT")
}

func handleListUsers(usersStore store.UsersStore, adminEmail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !caller.IsSuperAdmin(adminEmail) {
			respondWithError(w, http.StatusForbidden, "Super-admin privileges required")
			return
		}

		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))
		offset, _ := strconv.Atoi(query.Get("offset"))

		users, err := usersStore.ListUsers(limit, offset)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

func handleUpdateUser(usersStore store.UsersStore, adminEmail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !caller.IsSuperAdmin(adminEmail) {
			respondWithError(w, http.StatusForbidden, "Super-admin privileges required")
			return
		}

		targetID := mux.Vars(r)["id"]

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		changes := make(map[string]interface{})
		for field, value := range payload {
			if adminUserFields[field] {
				changes[field] = value
			}
		}
		if len(changes) == 0 {
			respondWithError(w, http.StatusBadRequest, "No updatable fields in request")
			return
		}

		user, err := usersStore.UpdateUser(targetID, changes)
		if err != nil {
			auditAdmin(caller, r, "update", targetID, err)
			if errors.Is(err, store.ErrRecordNotFound) {
				respondWithError(w, http.StatusNotFound, "User not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		auditAdmin(caller, r, "update", targetID, nil)
		respondWithJSON(w, http.StatusOK, user)
	}
}

func auditAdmin(caller *identity.Identity, r *http.Request, operation, targetID string, err error) {
	event := audit.AdminEvent{
		UserID:       caller.UserID,
		ClientIP:     getClientIP(r),
		Operation:    operation,
		TargetUserID: targetID,
		Success:      err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}
