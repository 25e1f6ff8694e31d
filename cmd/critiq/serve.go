package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/critiqlabs/critiq/internal/config"
	"github.com/critiqlabs/critiq/internal/critique"
	"github.com/critiqlabs/critiq/internal/extract"
	"github.com/critiqlabs/critiq/internal/server"
	"github.com/critiqlabs/critiq/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the critique HTTP server",
	Long: `Run the critiq HTTP server. It accepts base64-encoded uploads on
POST /api/critique and critiques them for the configured category.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	category, err := extract.ParseCategory(cfg.CritiqueCategory)
	if err != nil {
		return fmt.Errorf("validate CRITIQUE_CATEGORY: %w", err)
	}

	slog.Info("opening conversation store", "backend", cfg.StoreBackend, "path", cfg.StorePath)
	st, err := store.Open(ctx, store.Config{Backend: cfg.StoreBackend, Path: cfg.StorePath})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svc := critique.NewService(st, critique.NewClaudeClient(critique.ClaudeConfig{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.Model,
	}))

	handler := server.NewHandler(svc, category, cfg.DefaultBluntness)
	router := server.SetupRouter(handler, server.Options{
		CORSOrigin:     cfg.CORSOrigin,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	slog.Info("starting critiq server",
		"addr", cfg.ListenAddr,
		"category", category,
		"store_backend", cfg.StoreBackend,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
