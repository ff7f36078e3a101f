// cmd/loan-pipeline/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bank-automation/internal/assessor"
	"bank-automation/internal/bureau"
	"bank-automation/internal/common/config"
	"bank-automation/internal/common/database"
	"bank-automation/internal/common/errors"
	"bank-automation/internal/common/logger"
	"bank-automation/internal/models"
	"bank-automation/internal/pipeline"
	"bank-automation/internal/scheduler"
	"bank-automation/internal/underwriting"
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
			delay *= 2
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

	zapLog.Info("Starting loan pipeline...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	needsPostgres := false
	needsRedis := false
	for _, b := range cfg.Assessment.Bureaus {
		if b.Kind == "records" {
			needsPostgres = true
		}
		if b.Cached {
			needsRedis = true
		}
	}

	// --- Init PostgreSQL with retry (records bureau only) ---
	var pg *database.PostgresClient
	if needsPostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry (report cache only) ---
	var rdb *database.RedisClient
	if needsRedis {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Build bureau sources from config ---
	bureaus := make([]bureau.Bureau, 0, len(cfg.Assessment.Bureaus))
	cacheTTL := time.Duration(cfg.Assessment.CacheTTLSeconds) * time.Second
	for _, bc := range cfg.Assessment.Bureaus {
		var src bureau.Bureau
		switch bc.Kind {
		case "records":
			src = bureau.NewRecords(bc.ID, pg.DB)
		default:
			src = bureau.NewSimulated(bc.ID)
		}
		if bc.Cached {
			src = bureau.NewCached(src, rdb.Client, cacheTTL)
		}
		bureaus = append(bureaus, src)
	}

	// --- Assemble pipeline stages ---
	assess := assessor.New(bureaus, cfg.Assessment.RequireAllBureaus, log)
	engine := underwriting.New(cfg.Underwriting, log)
	sched := scheduler.New(log)

	for _, oc := range cfg.Scheduler.Officers {
		officer := &models.Officer{
			ID:              oc.ID,
			Name:            oc.Name,
			Capacity:        oc.Capacity,
			Specializations: oc.Specializations,
			Performance:     oc.Performance,
		}
		if err := sched.RegisterOfficer(officer); err != nil {
			zapLog.Fatal("officer registration failed",
				zap.String("officerId", oc.ID),
				zap.Error(err),
			)
		}
	}
	zapLog.Info("Officers registered", zap.Int("count", len(cfg.Scheduler.Officers)))

	pipe := pipeline.New(assess, engine, sched, log)

	// --- HTTP API, Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/applications", handleApplication(pipe, zapLog))
	mux.HandleFunc("/api/v1/tasks/complete", handleCompletion(sched, zapLog))

	server := &http.Server{Addr: cfg.App.MetricsAddr, Handler: mux}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Loan pipeline stopped gracefully")
}

type applicationRequest struct {
	Application models.LoanApplication     `json:"application"`
	Income      *models.IncomeVerification `json:"income,omitempty"`
}

func handleApplication(pipe *pipeline.Pipeline, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req applicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
			return
		}

		result, err := pipe.Process(r.Context(), &req.Application, req.Income)
		if err != nil {
			status := http.StatusInternalServerError
			if se, ok := err.(*errors.StageError); ok && se.Code == errors.ErrCodeMalformedApplication {
				status = http.StatusUnprocessableEntity
			}
			log.Warn("application processing failed", zap.Error(err))
			writeJSON(w, status, map[string]interface{}{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type completionRequest struct {
	TaskID string `json:"taskId"`
}

func handleCompletion(sched *scheduler.Manager, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TaskID == "" {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		result, err := sched.CompleteTask(req.TaskID)
		if err != nil {
			log.Warn("task completion failed", zap.String("taskId", req.TaskID), zap.Error(err))
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
