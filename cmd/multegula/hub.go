package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/multegula/internal/bridge"
)

var (
	flagHubAddr    string
	flagHubPlayers int
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Start a websocket hub for peer arenas",
	Long: `Start a hub that relays events between peers. The hub waits until
--players peers have announced their names, then starts the arena with a
shared seed. Every peer simulates the arena locally.

Examples:
  multegula hub                         # Two peers on :8080
  multegula hub --addr :9000 --players 4

Peers connect with:
  multegula peer --hub ws://localhost:8080/ws --name <name>`,
	Run: runHub,
}

func init() {
	hubCmd.Flags().StringVar(&flagHubAddr, "addr", ":8080", "HTTP listen address (host:port)")
	hubCmd.Flags().IntVar(&flagHubPlayers, "players", 2, "Peers per arena (2-4)")
}

func runHub(_ *cobra.Command, _ []string) {
	logger, err := newLogger("multegula-hub")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := bridge.HubConfig{Players: flagHubPlayers}
	if flagSeed != 0 {
		seed := flagSeed
		cfg.Seed = func() int64 { return seed }
	}
	hub := bridge.NewHub(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{
		Addr:              flagHubAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down hub")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Hub listening", "addr", flagHubAddr, "players", hub.Players())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Hub error: %v\n", err)
		os.Exit(1)
	}
}
