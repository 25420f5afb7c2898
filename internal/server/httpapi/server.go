// Package httpapi exposes the portfolio, knowledge, resume, and auth services
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/server/config"
	"github.com/chdeepakkumar/portfolio/internal/server/knowledge"
	"github.com/chdeepakkumar/portfolio/internal/server/portfolio"
	"github.com/chdeepakkumar/portfolio/internal/server/resume"
	"github.com/chdeepakkumar/portfolio/internal/server/users"
)

// maxBodyBytes caps JSON request bodies and uploads.
const maxBodyBytes = 1 << 20

// Server wires the services into a chi router and runs the HTTP listener.
type Server struct {
	addr           string
	jwtSecret      []byte
	allowedOrigins []string

	users     *users.Service
	portfolio *portfolio.Service
	knowledge *knowledge.Service
	resumes   *resume.Manager
	logger    logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, us *users.Service, ps *portfolio.Service,
	ks *knowledge.Service, rm *resume.Manager) *Server {
	return &Server{
		addr:           cfg.EndpointAddr,
		jwtSecret:      []byte(cfg.JWTSecret),
		allowedOrigins: cfg.AllowedOrigins,
		users:          us,
		portfolio:      ps,
		knowledge:      ks,
		resumes:        rm,
		logger:         l.With("module", "http_server"),
	}
}

// Router builds the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(securityHeaders)
	r.Use(s.requestLogger)

	// 10 requests per minute per client on auth and mutating endpoints,
	// mirroring the per-endpoint throttle of the public deployment.
	limit := httprate.LimitByIP(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Use(limit)
			r.Post("/request-otp", s.handleRequestOTP)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
		})

		r.Route("/portfolio", func(r chi.Router) {
			// Public surface.
			r.Get("/", s.handleGetPortfolio)
			r.Get("/sections", s.handleGetSectionOrder)
			r.Get("/knowledge-files", s.handleListKnowledge)
			r.Get("/knowledge-files/{filename}", s.handleGetKnowledge)
			r.Get("/resume.pdf", s.handleDownloadActiveResume)
			r.Get("/resume/{filename}", s.handleDownloadResume)

			// Admin surface.
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/admin", s.handleGetAdminPortfolio)
				r.Get("/resumes", s.handleListResumes)
				r.With(limit).Put("/", s.handleUpdatePortfolio)
				r.With(limit).Put("/sections", s.handleUpdateSectionOrder)
				r.With(limit).Post("/knowledge-files", s.handleUploadKnowledge)
				r.With(limit).Delete("/knowledge-files/{filename}", s.handleDeleteKnowledge)
				r.With(limit).Post("/resume", s.handleUploadResume)
				r.With(limit).Put("/resume/active", s.handleActivateResume)
				r.With(limit).Delete("/resume/{filename}", s.handleDeleteResume)
				r.With(limit).Get("/generate-resume.pdf", s.handleGenerateResume)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/health/admin", s.handleHealthAdmin)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
