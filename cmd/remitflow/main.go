// The remitflow command runs the agent backend: it connects to the tool
// server, loads the checkpoint store, and serves the chat API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/checkpoint"
	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/graph"
	"github.com/kumusha/remitflow/llm"
	"github.com/kumusha/remitflow/server"
	"github.com/kumusha/remitflow/toolserver"
	"github.com/kumusha/remitflow/workflow"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := checkpoint.Open(ctx, cfg.Checkpoint.Driver, cfg.Checkpoint.PostgresURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open checkpoint store")
	}
	defer store.Close()

	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	toolClient, err := toolserver.Dial(dialCtx, cfg.ToolServer.URL, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("url", cfg.ToolServer.URL).Msg("connect to tool server")
	}
	defer toolClient.Close()

	model := llm.NewAnthropic(cfg.LLM, logger)
	g := graph.New(model, toolClient, workflow.NewRegistry(), workflow.Env{}, store, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(g, store, logger).Handler(cfg.Server),
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("agent backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("serve")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
