package endpoints

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tiffinhub/tiffinhub/pkg/server"
)

// RegisterAll registers all API endpoints on the server. Routes are matched
// in registration order, so the fixed paths come before the generic
// {entity} patterns.
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterWebhookEndpoints(srv)
	RegisterAdminEndpoints(srv)
	RegisterPaymentLinkEndpoint(srv)
	RegisterEntityEndpoints(srv)

	srv.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
