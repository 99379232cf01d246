package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"zaireen_import/internal/handlers"
)

type Server struct {
	httpServer *http.Server
}

// NewServer builds the route table. When authMW is non-nil it guards every
// mutating endpoint; read endpoints stay open.
func NewServer(port string, h *handlers.Handlers, authMW func(http.Handler) http.Handler) *Server {
	mux := http.NewServeMux()

	if h != nil {
		guarded := func(fn http.HandlerFunc) http.Handler {
			if authMW == nil {
				return fn
			}
			return authMW(fn)
		}

		mux.HandleFunc("/health", h.Health)
		mux.HandleFunc("/audit", h.Audit)
		mux.HandleFunc("/export", h.Export)
		mux.HandleFunc("/scans", h.ScanAudit)

		// collection endpoints dispatch on method internally; every
		// verb on a guarded route requires a token
		mux.Handle("/kaflas", guarded(h.Kaflas))
		mux.Handle("/zaireen", guarded(h.Zaireen))
		mux.Handle("/zaireen/visa", guarded(h.UploadVisa))
		mux.Handle("/scan", guarded(h.Scan))
		mux.Handle("/scan/batch", guarded(h.ScanBatch))
		mux.Handle("/uploads", guarded(h.Uploads))
		mux.Handle("/uploads/remote", guarded(h.UploadRemote))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
