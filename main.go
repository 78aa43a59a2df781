/*
Package main
File: main.go
Description: Server entry point. Loads the rules catalog, deals a new game,
starts the real-time WebSocket hub and serves the REST API for one local
session until interrupted.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/everforgeworks/power-crude/internal/api"
	"github.com/everforgeworks/power-crude/internal/game"
)

// envOr returns the environment value for key, or def when unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	var (
		addr     = flag.String("addr", envOr("POWERCRUDE_ADDR", ":8081"), "HTTP listen address")
		dataDir  = flag.String("data", envOr("POWERCRUDE_DATA", "data"), "Catalog directory (assets, markets, economy, events)")
		players  = flag.String("players", envOr("POWERCRUDE_PLAYERS", "Player 1,Player 2,Player 3,Player 4"), "Comma separated player names, 2 to 6")
		money    = flag.Int("money", int(envInt("POWERCRUDE_MONEY", game.DefaultStartingMoney)), "Starting money per player")
		seed     = flag.Int64("seed", envInt("POWERCRUDE_SEED", 0), "Shuffle seed, 0 for random")
		logLevel = flag.String("log-level", envOr("POWERCRUDE_LOG_LEVEL", "info"), "debug, info, warn or error")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	if err := run(*addr, *dataDir, *players, *money, *seed, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(addr, dataDir, players string, money int, seed int64, logger *slog.Logger) error {
	// 1. Load the static rules catalog
	catalog, err := game.LoadCatalog(dataDir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	// 2. Deal the game
	g, err := game.NewGame(catalog, game.GameConfig{
		Players:       strings.Split(players, ","),
		StartingMoney: money,
		Seed:          seed,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start the real-time hub
	hub := api.NewHub(logger)
	go hub.Run(ctx)

	// 4. Setup Router and Handlers
	server := api.NewServer(g, hub, logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           corsMiddleware(server.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 5. Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		logger.Info("POWER CRUDE server live", "addr", addr, "game", g.ID.String(), "players", len(g.Players()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// corsMiddleware lets a browser client served from another origin talk to the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
