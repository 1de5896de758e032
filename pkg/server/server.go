package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiffinhub/tiffinhub/pkg/config"
	"github.com/tiffinhub/tiffinhub/pkg/entity"
	"github.com/tiffinhub/tiffinhub/pkg/extern/mailer"
	"github.com/tiffinhub/tiffinhub/pkg/extern/messaging"
	"github.com/tiffinhub/tiffinhub/pkg/extern/payments"
	"github.com/tiffinhub/tiffinhub/pkg/metrics"
	"github.com/tiffinhub/tiffinhub/pkg/server/middleware"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
	gormstore "github.com/tiffinhub/tiffinhub/pkg/server/store/gorm"
)

// Server wires the router, the stores and the entity gateway together.
type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger

	EntityStore     store.EntityStore
	UsersStore      store.UsersStore
	BillingStore    store.BillingStore
	CustomersStore  store.CustomersStore
	DeliveriesStore store.DeliveriesStore

	Gateway  *entity.Gateway
	Auth     *middleware.BearerAuthenticator
	Payments payments.Gateway
	Sender   messaging.Sender
	Mailer   mailer.Mailer

	srv *http.Server
}

// NewServer creates a Server with GORM-backed stores on the given database.
func NewServer(db *gorm.DB, cfg *config.Config, logger *zap.Logger, host, port string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(metrics.Middleware)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	entityStore := gormstore.NewEntityStore(db)
	usersStore := gormstore.NewUsersStore(db)

	s := &Server{
		Router:          router,
		DB:              db,
		Config:          cfg,
		Logger:          logger,
		EntityStore:     entityStore,
		UsersStore:      usersStore,
		BillingStore:    gormstore.NewBillingStore(db),
		CustomersStore:  gormstore.NewCustomersStore(db),
		DeliveriesStore: gormstore.NewDeliveriesStore(db),
		Gateway:         entity.NewGateway(entityStore, cfg.AdminEmail, cfg.APIListLimitMax, logger),
		Auth:            middleware.NewBearerAuthenticator(usersStore, []byte(cfg.JWTSigningKey)),
		srv:             srv,
	}

	s.Payments = payments.NewStripeGateway(
		cfg.StripeAPIKey,
		cfg.StripeWebhookSecret,
		cfg.PublicBaseURL+"/billing/success",
		cfg.PublicBaseURL+"/billing/cancel",
	)
	s.Sender = messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	s.Mailer = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	return s
}

// Start begins serving requests and blocks.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
