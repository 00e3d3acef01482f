package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nn-visualizer/cmd"
	"nn-visualizer/internal/api"
	"nn-visualizer/internal/core"
	"nn-visualizer/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	Port           int           `env:"PORT" envDefault:"8000"`
	ModelPath      string        `env:"MODEL_PATH" envDefault:"model.json"`
	MaxLen         int           `env:"MAX_LEN" envDefault:"55"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3Region          string `env:"AWS_REGION"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

func loadModel(ctx context.Context, cfg APIConfig) (*core.Model, error) {
	provider, bucket, key, err := cmd.ModelSource(cfg.ModelPath, storage.S3ClientConfig{
		Endpoint:        cfg.S3EndpointURL,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return core.LoadModel(ctx, provider, bucket, key)
}

func createRouter(model *core.Model, maxLen int, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	apiHandler := api.NewActivationService(model, maxLen)
	apiHandler.AddRoutes(r)

	return r
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}
	if cfg.MaxLen <= 0 {
		log.Fatalf("MAX_LEN must be positive, got %d", cfg.MaxLen)
	}

	model, err := loadModel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("could not load model from %s: %v", cfg.ModelPath, err)
	}
	slog.Info("loaded model", "model_id", model.Id, "name", model.Name, "layers", len(model.Layers), "path", cfg.ModelPath)

	if model.InputSize != 0 && model.InputSize != cfg.MaxLen {
		slog.Warn("model input size does not match MAX_LEN, requests will fail", "input_size", model.InputSize, "max_len", cfg.MaxLen)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: createRouter(model, cfg.MaxLen, cfg.RequestTimeout),
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
