// Package main is the entry point for the API server.
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

	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-chat/internal/catalog"
	"github.com/capitalize-ai/assistant-chat/internal/config"
	"github.com/capitalize-ai/assistant-chat/internal/handler"
	"github.com/capitalize-ai/assistant-chat/internal/llm"
	natsclient "github.com/capitalize-ai/assistant-chat/internal/nats"
	"github.com/capitalize-ai/assistant-chat/internal/service"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
	"github.com/capitalize-ai/assistant-chat/pkg/tracing"
)

const serviceName = "assistant-chat"

func main() {
	// Load configuration
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting API server",
		zap.String("port", cfg.ServerPort),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("model", cfg.ModelName()),
	)

	ctx := context.Background()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Build assistants from the product catalogs
	assistants, err := catalog.BuildAssistants([]catalog.Source{
		{Kind: catalog.Bank, Path: cfg.BankProductsPath},
		{Kind: catalog.Grocery, Path: cfg.GroceryProductsPath},
	})
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}
	registry := service.NewAssistantRegistry(assistants)
	log.Info("assistants loaded", zap.Int("count", len(assistants)))

	// Connect to NATS when thread events are enabled
	var (
		events    service.EventPublisher
		readiness handler.ReadinessChecker
	)
	if cfg.EventsEnabled() {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			return fmt.Errorf("failed to ensure stream: %w", err)
		}
		events = streamManager
		readiness = streamManager
	} else {
		log.Info("NATS_URL not set, thread events disabled")
	}

	// Initialize LLM client
	llmClient, err := llm.NewClient(llm.Provider(cfg.LLMProvider), llm.Options{
		APIKey:  providerKey(cfg),
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Initialize services
	threads := service.NewThreadStore(registry, events, log, cfg.MaxThreads)
	gateway := service.NewCompletionGateway(threads, llmClient, cfg.ModelName(), events, log)

	// Create router
	router := handler.NewRouter(handler.RouterConfig{
		Assistants:     handler.NewAssistantHandler(registry),
		Threads:        handler.NewThreadHandler(threads, gateway, log),
		Health:         handler.NewHealthHandler(readiness),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

func providerKey(cfg *config.Config) string {
	if llm.Provider(cfg.LLMProvider) == llm.ProviderAnthropic {
		return cfg.AnthropicAPIKey
	}
	return cfg.OpenAIAPIKey
}
