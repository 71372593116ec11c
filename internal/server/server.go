package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/ditherit/ditherit/configs"
	"github.com/ditherit/ditherit/pkg/dither"
)

// Server is a wrapper around chi router.
type Server struct {
	Router   *chi.Mux
	BasePath string
	started  time.Time
}

// New create a new server. Routes must be added manually before
// calling ListenAndServe.
func New(basePath string) *Server {
	basePath = path.Clean("/" + basePath)
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}

	s := &Server{
		Router:   chi.NewRouter(),
		BasePath: basePath,
		started:  time.Now(),
	}

	// Recoverer comes after Logger so panics go to the request log entry.
	s.Router.Use(
		middleware.RealIP,
		middleware.RequestID,
		Logger(),
		middleware.Recoverer,
		SetRequestInfo,
		s.SetSecurity(),
	)

	return s
}

// AddRoute adds a new route to the server, prefixed with
// the BasePath.
func (s *Server) AddRoute(pattern string, handler http.Handler) {
	s.Router.Mount(path.Join(s.BasePath, pattern), handler)
}

// ListenAndServe starts the HTTP server. It stops gracefully
// when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", configs.Config.Server.Host, configs.Config.Server.Port),
		Handler:           s.Router,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Add the profiler in dev mode
	if configs.Config.Main.DevMode {
		s.AddRoute("/debug", middleware.Profiler())
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GetReqID returns the request ID.
func (s *Server) GetReqID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// Log returns a log entry including the request ID
func (s *Server) Log(r *http.Request) *log.Entry {
	return log.WithField("@id", s.GetReqID(r))
}

// SysRoutes returns the route returning some system
// information.
func (s *Server) SysRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		s.Render(w, r, http.StatusOK, map[string]interface{}{
			"uptime":     time.Since(s.started).Round(time.Second).String(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"mem_alloc":  m.Alloc,
			"algorithms": len(dither.Algorithms()),
		})
	})

	return r
}
