package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tiffinhub/tiffinhub/pkg/audit"
	"github.com/tiffinhub/tiffinhub/pkg/entity"
	"github.com/tiffinhub/tiffinhub/pkg/identity"
	"github.com/tiffinhub/tiffinhub/pkg/server"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// RegisterEntityEndpoints registers the generic CRUD routes shared by every
// registered entity.
func RegisterEntityEndpoints(s *server.Server) {
	gateway := s.Gateway
	adminEmail := s.Config.AdminEmail

	api := s.Router.PathPrefix("/api").Subrouter()
	api.Use(s.Auth.Middleware)

	api.HandleFunc("/{entity}", handleListEntities(gateway, adminEmail)).Methods("GET")
	api.HandleFunc("/{entity}", handleCreateEntity(gateway)).Methods("POST")
	api.HandleFunc("/{entity}/{id}", handleGetEntity(gateway)).Methods("GET")
	api.HandleFunc("/{entity}/{id}", handleUpdateEntity(gateway)).Methods("PUT")
	api.HandleFunc("/{entity}/{id}", handleDeleteEntity(gateway)).Methods("DELETE")
}

func handleListEntities(gateway *entity.Gateway, adminEmail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		def, ok := entity.Lookup(mux.Vars(r)["entity"])
		if !ok {
			respondWithError(w, http.StatusNotFound, "Unknown entity")
			return
		}

		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))
		offset, _ := strconv.Atoi(query.Get("offset"))
		all, _ := strconv.ParseBool(query.Get("all"))

		params := entity.ListParams{
			Where:  query.Get("where"),
			SortBy: query.Get("sortBy"),
			Limit:  limit,
			Offset: offset,
			All:    all,
		}

		records, err := gateway.List(def, caller, params)
		if err != nil {
			auditEntity(caller, r, "list", def.Name, "", false, err)
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		auditEntity(caller, r, "list", def.Name, "", all && caller.IsSuperAdmin(adminEmail), nil)
		respondWithJSON(w, http.StatusOK, records)
	}
}

func handleGetEntity(gateway *entity.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		vars := mux.Vars(r)
		def, ok := entity.Lookup(vars["entity"])
		if !ok {
			respondWithError(w, http.StatusNotFound, "Unknown entity")
			return
		}

		record, err := gateway.Get(def, caller, vars["id"])
		if err != nil {
			auditEntity(caller, r, "show", def.Name, vars["id"], false, err)
			respondWithError(w, entityErrorCode(err), err.Error())
			return
		}

		auditEntity(caller, r, "show", def.Name, vars["id"], false, nil)
		respondWithJSON(w, http.StatusOK, record)
	}
}

func handleCreateEntity(gateway *entity.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		def, ok := entity.Lookup(mux.Vars(r)["entity"])
		if !ok {
			respondWithError(w, http.StatusNotFound, "Unknown entity")
			return
		}

		var payload store.Record
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		record, err := gateway.Create(def, caller, payload)
		if err != nil {
			auditEntity(caller, r, "create", def.Name, "", false, err)
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		recordID, _ := record["id"].(string)
		auditEntity(caller, r, "create", def.Name, recordID, false, nil)
		respondWithJSON(w, http.StatusCreated, record)
	}
}

func handleUpdateEntity(gateway *entity.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		vars := mux.Vars(r)
		def, ok := entity.Lookup(vars["entity"])
		if !ok {
			respondWithError(w, http.StatusNotFound, "Unknown entity")
			return
		}

		var payload store.Record
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondWithError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		record, err := gateway.Update(def, caller, vars["id"], payload)
		if err != nil {
			auditEntity(caller, r, "update", def.Name, vars["id"], false, err)
			respondWithError(w, entityErrorCode(err), err.Error())
			return
		}

		auditEntity(caller, r, "update", def.Name, vars["id"], false, nil)
		respondWithJSON(w, http.StatusOK, record)
	}
}

func handleDeleteEntity(gateway *entity.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		vars := mux.Vars(r)
		def, ok := entity.Lookup(vars["entity"])
		if !ok {
			respondWithError(w, http.StatusNotFound, "Unknown entity")
			return
		}

		if err := gateway.Delete(def, caller, vars["id"]); err != nil {
			auditEntity(caller, r, "delete", def.Name, vars["id"], false, err)
			respondWithError(w, entityErrorCode(err), err.Error())
			return
		}

		auditEntity(caller, r, "delete", def.Name, vars["id"], false, nil)
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

func entityErrorCode(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func auditEntity(caller *identity.Identity, r *http.Request, operation, entityName, recordID string, bypass bool, err error) {
	event := audit.EntityEvent{
		UserID:    caller.UserID,
		ClientIP:  getClientIP(r),
		Operation: operation,
		Entity:    entityName,
		RecordID:  recordID,
		Bypass:    bypass,
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}
