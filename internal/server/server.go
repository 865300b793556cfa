package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"k8s.io/klog/v2"

	"github.com/harfgame/harf/internal/game"
)

// Run starts the server and blocks until the context is cancelled.
//
// addr may be empty, in which case an auto-assigned localhost port is used
// (handy in tests). Once listening, the ServerState is sent on started so
// callers can read the resolved Address.
func Run(ctx context.Context, addr string, cfg game.Config, started chan<- *ServerState) error {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	state := NewServerState(cfg)
	state.Address = ln.Addr().String()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/ws", state.HandleWS)

	srv := &http.Server{
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go state.limiter.run(ctx)

	go func() {
		klog.Infof("server listening on %s", state.Address)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			klog.Errorf("server error: %v", err)
		}
	}()

	if started != nil {
		started <- state
	}

	<-ctx.Done()

	// Graceful shutdown with a 5 second timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	klog.Info("shutting down server...")
	state.Close()
	return srv.Shutdown(shutdownCtx)
}
