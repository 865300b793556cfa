package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/harfgame/harf/internal/game"
	"github.com/harfgame/harf/internal/server"
)

var flagAddr = flag.String("addr", "", "Address to listen on (default: $ADDR, or auto-port on localhost)")

func main() {
	_ = godotenv.Load()
	klog.InitFlags(nil)
	flag.Parse()

	addr := *flagAddr
	if addr == "" {
		addr = os.Getenv("ADDR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := make(chan *server.ServerState, 1)
	go func() {
		state := <-started
		fmt.Printf("harf server listening on ws://%s/ws\n", state.Address)
	}()

	if err := server.Run(ctx, addr, configFromEnv(), started); err != nil {
		klog.Fatal(err)
	}
}

// configFromEnv overlays environment settings on the engine defaults.
func configFromEnv() game.Config {
	cfg := game.DefaultConfig()
	cfg.MaxRounds = getInt("MAX_ROUNDS", cfg.MaxRounds)
	cfg.MaxPlayers = getInt("MAX_PLAYERS", cfg.MaxPlayers)
	cfg.MinPlayers = getInt("MIN_PLAYERS", cfg.MinPlayers)
	cfg.RoundSeconds = getInt("ROUND_SECONDS", cfg.RoundSeconds)
	cfg.IdleTimeout = getDuration("IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.FinishedTTL = getDuration("FINISHED_TTL", cfg.FinishedTTL)
	cfg.RateWindow = getDuration("RATE_WINDOW", cfg.RateWindow)
	cfg.RateLimit = getInt("RATE_LIMIT", cfg.RateLimit)
	return cfg
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		klog.Warningf("ignoring %s=%q: not an integer", k, v)
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		klog.Warningf("ignoring %s=%q: not a duration", k, v)
	}
	return def
}
