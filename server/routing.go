package server

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teranos/formulary/logger"
)

// routes creates the router with all routes and middleware
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/symbols", s.handleSymbols)
		r.Get("/categories", s.handleCategories)
		r.Get("/templates", s.handleTemplates)
		r.Get("/templates/{name}", s.handleTemplate)
		r.Post("/render", s.handleRender)
		r.Post("/insert", s.handleInsert)
		r.Get("/export.svg", s.handleExportSVG)
	})

	r.Get("/ws", s.handleWebSocket)

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

// requestLogger logs each request through the server's zap logger at the
// http verbosity level
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)

		if !logger.ShouldOutput(int(s.verbosity.Load()), logger.OutputHTTPCalls) {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.With(logger.FieldsFromContext(ctx)...).Infow("HTTP request",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, ww.Status(),
			logger.FieldSize, ww.BytesWritten(),
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	})
}
