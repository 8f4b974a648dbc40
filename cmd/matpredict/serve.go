// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/predictlab/matpredict/internal/secrets"
	"github.com/predictlab/matpredict/internal/server"
	"github.com/predictlab/matpredict/pkg/types"
)

const defaultAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the discovery web interface",
	Long: `Serve starts an HTTP server with the discovery web page: a goal form,
live progress streamed over a websocket, ranked results with download
links, and embedded 3-D structure viewers. The server runs until
interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}

// serveConfig assembles the web-surface configuration, flag over config
// file over default.
func serveConfig(cmd *cobra.Command) types.ServeConfig {
	cfg := types.ServeConfig{
		Addr:            viper.GetString("serve.addr"),
		ViewerCacheSize: viper.GetInt("serve.viewer_cache_size"),
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadedKeys.Require(secrets.EnvOpenAI, secrets.EnvGoogle, secrets.EnvMaterials); err != nil {
		return err
	}

	runner, stats, err := newRunner(cmd.Context(), pipelineConfig())
	if err != nil {
		return err
	}

	cfg := serveConfig(cmd)
	srv, err := server.New(runner, stats, cfg.ViewerCacheSize)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		log.Printf("matpredict listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
