package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vbonduro/recipelens/internal/service"
)

const defaultMaxUploadBytes = 50 * 1024 * 1024 // 50 MB

type Server struct {
	service        *service.KitchenService
	mux            *http.ServeMux
	handler        http.Handler
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewServer wires the API routes. maxUploadBytes <= 0 selects 50 MB.
func NewServer(svc *service.KitchenService, maxUploadBytes int64, logger *slog.Logger) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	s := &Server{
		service:        svc,
		mux:            http.NewServeMux(),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
	s.registerRoutes()
	s.handler = wrap(s.mux, logger)
	return s
}

// wrap applies the middleware chain. The request logger sits outside the
// recoverer so a panicking request is still logged with its 500.
func wrap(h http.Handler, logger *slog.Logger) http.Handler {
	h = securityHeaders(h)
	h = openCORS().Handler(h)
	h = middleware.Recoverer(h)
	h = requestLogger(logger, h)
	return middleware.RequestID(h)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("POST /recipe", s.handleRecipe)
	s.mux.HandleFunc("POST /chatbot", s.handleChatbot)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// openCORS allows every origin, method and header, credentials included.
// Origins are echoed back since browsers reject a wildcard origin on
// credentialed requests.
func openCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc:  func(*http.Request, string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{sessionHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to 30 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
