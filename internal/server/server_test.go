package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/harfgame/harf/internal/game"
)

func TestServerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	started := make(chan *ServerState, 1)
	go func() {
		errCh <- Run(ctx, "", game.DefaultConfig(), started)
	}()
	state := <-started

	resp, err := http.Get("http://" + state.Address + "/healthz")
	if err != nil {
		t.Fatalf("failed to connect to server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK, got %v", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected health body: %s", body)
	}

	// Cancel the context and wait for a clean shutdown.
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("server shut down with error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server took too long to shut down")
	}
}
