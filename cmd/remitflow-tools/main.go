// The remitflow-tools command runs the tool server: the websocket surface
// that executes gateway, wallet, and knowledge tools on behalf of the agent.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/gateway"
	"github.com/kumusha/remitflow/knowledge"
	"github.com/kumusha/remitflow/remit"
	"github.com/kumusha/remitflow/toolserver"
	"github.com/kumusha/remitflow/wallet"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("validate config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewClient(cfg.Gateway, logger)
	tokens := gateway.NewTokenManager(cfg.Gateway.UseTokenManager)
	auth := gateway.NewAuthenticator(gw, cfg.Gateway, cfg.Auth, logger)

	pipeline, err := remit.NewPipeline(gw, cfg.Gateway, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init transaction pipeline")
	}
	walletSvc := wallet.NewService(gw, cfg.Gateway, logger)

	kb, err := knowledge.NewBase(knowledge.NewHashEmbedder(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init knowledge base")
	}
	if err := knowledge.Seed(ctx, kb); err != nil {
		logger.Fatal().Err(err).Msg("seed knowledge base")
	}

	ts := toolserver.NewServer(cfg, tokens, auth, pipeline, walletSvc, kb, logger)

	mux := http.NewServeMux()
	mux.Handle("/tools", ts.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"remitflow-tools"}`))
	})

	srv := &http.Server{Addr: cfg.ToolServer.Listen, Handler: mux}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("tool server listening")
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
