package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fintrackhq/fintrack-backend/internal/usecase/assets"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/deposit"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/goal"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/holding"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/sip"
	"github.com/fintrackhq/fintrack-backend/internal/usecase/summary"
)

// Config holds everything the HTTP server needs
type Config struct {
	Port         int
	APIToken     string
	DefaultOwner uuid.UUID
	Log          zerolog.Logger

	Accounts  *assets.AccountService
	Assets    *assets.AssetService
	Covers    *assets.CoverService
	Goals     *goal.Service
	Fixed     *deposit.FixedService
	Recurring *deposit.RecurringService
	SIPs      *sip.Service
	Holdings  *holding.Service
	Summary   *summary.Service
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	apiToken     string
	defaultOwner uuid.UUID

	accounts  *assets.AccountService
	assets    *assets.AssetService
	covers    *assets.CoverService
	goals     *goal.Service
	fixed     *deposit.FixedService
	recurring *deposit.RecurringService
	sips      *sip.Service
	holdings  *holding.Service
	summary   *summary.Service
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		log:          cfg.Log.With().Str("component", "httpapi").Logger(),
		apiToken:     cfg.APIToken,
		defaultOwner: cfg.DefaultOwner,
		accounts:     cfg.Accounts,
		assets:       cfg.Assets,
		covers:       cfg.Covers,
		goals:        cfg.Goals,
		fixed:        cfg.Fixed,
		recurring:    cfg.Recurring,
		sips:         cfg.SIPs,
		holdings:     cfg.Holdings,
		summary:      cfg.Summary,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Owner-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.ownerMiddleware)

		r.Route("/accounts", s.accountRoutes)
		r.Route("/assets", s.assetRoutes)
		r.Route("/covers", s.coverRoutes)
		r.Route("/goals", s.goalRoutes)
		r.Route("/fixed-deposits", s.fixedDepositRoutes)
		r.Route("/recurring-deposits", s.recurringDepositRoutes)
		r.Route("/sips", s.sipRoutes)
		r.Route("/holdings", s.holdingRoutes)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func routeParam(r *http.Request, param string) string {
	return chi.URLParam(r, param)
}
