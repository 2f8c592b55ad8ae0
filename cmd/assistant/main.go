// cmd/assistant/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"car-sales-assistant/internal/agent"
	"car-sales-assistant/internal/catalog"
	"car-sales-assistant/internal/common/config"
	"car-sales-assistant/internal/common/database"
	"car-sales-assistant/internal/common/logger"
	"car-sales-assistant/internal/common/observability"
	"car-sales-assistant/internal/history"
	"car-sales-assistant/internal/knowledge"
	"car-sales-assistant/internal/llm"
	"car-sales-assistant/internal/search"
	"car-sales-assistant/internal/tools"
	"car-sales-assistant/internal/webhook"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Catalog (fatal when missing: every search depends on it) ---
	inventory, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	zapLog.Info("Catalog loaded", zap.Int("entries", inventory.Len()))

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Chroma knowledge store with retry ---
	var knowledgeStore *knowledge.ChromaStore
	err = retryWithBackoff(func() error {
		var err error
		knowledgeStore, err = knowledge.NewChromaStore(cfg.Chroma, log)
		return err
	}, 10, 2*time.Second, zapLog, "Chroma connection")

	if err != nil {
		zapLog.Fatal("chroma failed after retries", zap.Error(err))
	}
	zapLog.Info("Chroma connected successfully", zap.String("collection", cfg.Chroma.Collection))

	// --- Wire the pipeline ---
	resolver := search.NewResolver(inventory, log)

	registry := tools.NewRegistry(log,
		tools.NewBudgetSearchTool(inventory),
		tools.NewSpecificCarTool(inventory, resolver),
		tools.NewPopularCarsTool(inventory),
		tools.NewFinancingTool(cfg.Agent.AnnualInterestRate),
		tools.NewFinancingOptionsTool(cfg.Agent.AnnualInterestRate),
		tools.NewBudgetByPaymentTool(cfg.Agent.AnnualInterestRate),
		tools.NewCompanyInfoTool(knowledgeStore, cfg.Agent.ResponseMaxLength),
		tools.NewAppointmentTool(),
	)

	generator := llm.NewClient(cfg.OpenAI, cfg.Agent.MaxToolRounds, log)
	conversations := history.NewRedisStore(redis.GetClient(), cfg.Agent.MaxConversationTurns, cfg.Agent.HistoryTTL(), log)

	orchestrator := agent.New(agent.Options{
		Generator:     generator,
		Executor:      registry,
		History:       conversations,
		Observability: obs,
		MaxTurns:      cfg.Agent.MaxConversationTurns,
		MaxLength:     cfg.Agent.ResponseMaxLength,
		Logger:        log,
	})

	// --- HTTP servers ---
	mux := http.NewServeMux()
	webhook.NewHandler(orchestrator, log).Register(mux)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Webhook server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("webhook server failed", zap.Error(err))
		}
	}()

	// Metrics and pprof on a separate port, never exposed to the channel.
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsMux.Handle("/debug/pprof/", http.DefaultServeMux)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort)
		zapLog.Info("Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, metricsMux); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
