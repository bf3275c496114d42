package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinora/clinora/infrastructure/config"
	"github.com/clinora/clinora/infrastructure/http/handler"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/http/response"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Admin        *handler.AdminHandler
	Patient      *handler.PatientHandler
	Appointment  *handler.AppointmentHandler
	Consultation *handler.ConsultationHandler
	Dashboard    *handler.DashboardHandler
}

type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func NewServer(cfg *config.Config, handlers Handlers, authMW *middleware.AuthMiddleware, log logger.Logger) *Server {
	router := NewRouter(cfg, handlers, authMW)

	var root http.Handler = router
	if cfg.CORSEnabled {
		root = middleware.CORSMiddleware(root, cfg.CORSAllowedOrigins)
	}
	root = middleware.CorrelationIDMiddleware(root)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      root,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// NewRouter builds the route table. Split out so handler tests can run
// requests through the real routing and middleware chain.
func NewRouter(cfg *config.Config, handlers Handlers, authMW *middleware.AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", handlers.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", handlers.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authMW.RequireAuth(handlers.Auth.Logout)).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authMW.RequireAuth(handlers.Auth.Me)).Methods(http.MethodGet)

	api.HandleFunc("/admin/users", authMW.RequireAuth(handlers.Admin.CreateUser)).Methods(http.MethodPost)
	api.HandleFunc("/admin/users", authMW.RequireAuth(handlers.Admin.ListProfiles)).Methods(http.MethodGet)
	api.HandleFunc("/admin/users/{id}/role", authMW.RequireAuth(handlers.Admin.UpdateUserRole)).Methods(http.MethodPatch)
	api.HandleFunc("/admin/audit", authMW.RequireAuth(handlers.Admin.ListAuditEntries)).Methods(http.MethodGet)

	api.HandleFunc("/patients", authMW.RequireAuth(handlers.Patient.Create)).Methods(http.MethodPost)
	api.HandleFunc("/patients", authMW.RequireAuth(handlers.Patient.List)).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", authMW.RequireAuth(handlers.Patient.Get)).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", authMW.RequireAuth(handlers.Patient.Update)).Methods(http.MethodPut)
	api.HandleFunc("/patients/{id}", authMW.RequireClinician(handlers.Patient.Deactivate)).Methods(http.MethodDelete)
	api.HandleFunc("/patients/{id}/appointments", authMW.RequireAuth(handlers.Appointment.ListByPatient)).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}/consultations", authMW.RequireAuth(handlers.Consultation.ListByPatient)).Methods(http.MethodGet)

	api.HandleFunc("/appointments", authMW.RequireAuth(handlers.Appointment.Create)).Methods(http.MethodPost)
	api.HandleFunc("/appointments", authMW.RequireAuth(handlers.Appointment.ListByDate)).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", authMW.RequireAuth(handlers.Appointment.Update)).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{id}", authMW.RequireAuth(handlers.Appointment.Cancel)).Methods(http.MethodDelete)

	// Both roles write clinical records; only delete is clinician-gated.
	api.HandleFunc("/consultations", authMW.RequireAuth(handlers.Consultation.Create)).Methods(http.MethodPost)
	api.HandleFunc("/consultations/{id}", authMW.RequireAuth(handlers.Consultation.Update)).Methods(http.MethodPut)
	api.HandleFunc("/consultations/{id}", authMW.RequireClinician(handlers.Consultation.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/consultations/{id}/images", authMW.RequireAuth(handlers.Consultation.AttachImage)).Methods(http.MethodPost)
	api.HandleFunc("/consultations/{id}/images", authMW.RequireAuth(handlers.Consultation.ListImages)).Methods(http.MethodGet)

	api.HandleFunc("/dashboard/stats", authMW.RequireAuth(handlers.Dashboard.Stats)).Methods(http.MethodGet)

	router.PathPrefix(cfg.ImageStoreBaseURL + "/").Handler(
		http.StripPrefix(cfg.ImageStoreBaseURL+"/", http.FileServer(http.Dir(cfg.ImageStorePath))),
	).Methods(http.MethodGet)

	return router
}

func (s *Server) Start() error {
	s.logger.Info(context.Background(), "HTTP server starting", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
