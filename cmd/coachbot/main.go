package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/api"
	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/llm"
	"github.com/confinedspacecoach/coachbot/internal/service"
	"github.com/confinedspacecoach/coachbot/internal/sink"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize completion client. Without a credential the relay runs
	// in fallback-only mode rather than refusing to start.
	var completer llm.Completer
	if cfg.HasLLMKey() {
		client, err := llm.NewOpenAIClient(cfg.LLM)
		if err != nil {
			logger.Fatal("Failed to create completion client", zap.Error(err))
		}
		completer = client
	} else {
		logger.Warn("No completion API key configured, answers will use the fallback message")
	}

	// Initialize logging sinks and fan-out
	sheetSink := sink.NewSheetSink(cfg.Sheet, logger)
	trelloSink := sink.NewTrelloSink(cfg.Trello, logger)
	webhookSink := sink.NewWebhookSink(cfg.Forward, logger)
	fanout := sink.NewFanout(
		[]sink.Sink{sheetSink, trelloSink, webhookSink},
		30*time.Second,
		logger,
	)

	// Initialize services
	chatService := service.NewChatService(cfg, completer, logger)
	forwardService := service.NewForwardService(cfg, logger)

	// Setup router
	router := api.SetupRouter(cfg, chatService, forwardService, fanout, sheetSink)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting Coachbot server",
			zap.String("address", cfg.Address()),
			zap.String("model", cfg.LLM.Model),
			zap.Bool("sheet", cfg.SheetEnabled()),
			zap.Bool("trello", cfg.TrelloEnabled()),
			zap.Bool("forward", cfg.ForwardEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight sink deliveries drain
	done := make(chan struct{})
	go func() {
		fanout.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Timed out waiting for sink deliveries")
	}

	logger.Info("Server exited")
}
