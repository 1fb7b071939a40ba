// Package api exposes the generator over HTTP.
//
// Routes:
//   - POST /api/generate-mock-data            run one generation for a tenant
//   - GET  /api/tenants/{tenantID}/borrowers  read back a tenant's portfolios
//   - GET  /healthz                           liveness
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/willfong/riskgen/internal/generator"
	"github.com/willfong/riskgen/internal/models"
)

// Generator runs one generation for a tenant
type Generator interface {
	GenerateForTenant(ctx context.Context, tenantID string) (*generator.GenerationResult, error)
}

// BorrowerLister reads a tenant's borrowers back with loans and transactions
type BorrowerLister interface {
	ListBorrowers(ctx context.Context, tenantID string) ([]models.BorrowerPortfolio, error)
}

// Server holds the HTTP handlers and their dependencies
type Server struct {
	gen       Generator
	borrowers BorrowerLister
	logger    *zap.Logger
	jwtSecret []byte
}

// Options holds optional server settings
type Options struct {
	Logger *zap.Logger
	// JWTSecret enables bearer-token checks on /api routes when set
	JWTSecret string
}

// NewServer creates a server over the generator and the borrower store
func NewServer(gen Generator, borrowers BorrowerLister, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		gen:       gen,
		borrowers: borrowers,
		logger:    logger,
	}
	if opts.JWTSecret != "" {
		s.jwtSecret = []byte(opts.JWTSecret)
	}
	return s
}

// Router builds the route table
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	if s.jwtSecret != nil {
		apiRouter.Use(s.bearerAuth)
	}
	apiRouter.HandleFunc("/generate-mock-data", s.handleGenerate).Methods(http.MethodPost)
	apiRouter.HandleFunc("/tenants/{tenantID}/borrowers", s.handleListBorrowers).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
