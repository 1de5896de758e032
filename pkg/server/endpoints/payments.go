package endpoints

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tiffinhub/tiffinhub/pkg/entity"
	"github.com/tiffinhub/tiffinhub/pkg/extern/payments"
	"github.com/tiffinhub/tiffinhub/pkg/identity"
	"github.com/tiffinhub/tiffinhub/pkg/server"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// Checkout amounts are denominated in paise.
const paymentCurrency = "inr"

// RegisterPaymentLinkEndpoint registers the hosted-checkout link generator
// for a payment record.
func RegisterPaymentLinkEndpoint(s *server.Server) {
	api := s.Router.PathPrefix("/api/payments").Subrouter()
	api.Use(s.Auth.Middleware)

	api.HandleFunc("/{id}/link", handleCreatePaymentLink(s.Gateway, s.Payments)).Methods("POST")
}

func handleCreatePaymentLink(gateway *entity.Gateway, provider payments.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		def, ok := entity.Lookup("payments")
		if !ok {
			respondWithError(w, http.StatusInternalServerError, "Payments entity not registered")
			return
		}

		paymentID := mux.Vars(r)["id"]
		record, err := gateway.Get(def, caller, paymentID)
		if err != nil {
			respondWithError(w, entityErrorCode(err), err.Error())
			return
		}

		amount, ok := entity.NumericValue(record["amount"])
		if !ok || amount <= 0 {
			respondWithError(w, http.StatusBadRequest, "Payment has no chargeable amount")
			return
		}

		description := fmt.Sprintf("Tiffin payment %s", paymentID)
		link, err := provider.CreatePaymentLink(paymentID, int64(amount*100), paymentCurrency, description)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		updated, err := gateway.Update(def, caller, paymentID, store.Record{"payment_link": link})
		if err != nil {
			respondWithError(w, entityErrorCode(err), err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"payment_link": link,
			"payment":      updated,
		})
	}
}
