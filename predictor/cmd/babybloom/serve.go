package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	_ "github.com/Krimson/babybloom/predictor/docs"
	"github.com/Krimson/babybloom/predictor/internal/advice"
	"github.com/Krimson/babybloom/predictor/internal/assistant"
	"github.com/Krimson/babybloom/predictor/internal/config"
	"github.com/Krimson/babybloom/predictor/internal/contact"
	"github.com/Krimson/babybloom/predictor/internal/grpcapi"
	"github.com/Krimson/babybloom/predictor/internal/handler"
	"github.com/Krimson/babybloom/predictor/internal/logging"
	"github.com/Krimson/babybloom/predictor/internal/metrics"
	"github.com/Krimson/babybloom/predictor/internal/site"
)

// @title BabyBloom Predictor API
// @version 1.0
// @description Preterm birth risk classification from newborn biometrics and optional uterine contraction statistics.

// @contact.name API Support
// @contact.email support@babybloom.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web site, JSON API and gRPC service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.Init("babybloom", cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, logger)
		},
	}
}

// newRouter wires every HTTP surface onto one gorilla router.
func newRouter(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	contactService := contact.NewService(&contact.LogSink{Logger: logger}, cfg.ContactRatePerMinute, cfg.ContactBurst)

	handler.NewHTTPHandler(contactService, logger).RegisterRoutes(router)

	pages, err := site.New(contactService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load site: %w", err)
	}
	pages.RegisterRoutes(router)

	router.Handle("/ws/assistant", assistant.NewHandler(advice.NewScheduler(cfg.AssistantDelay), cfg.AllowedOrigin, logger))
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return enableCORS(cfg.AllowedOrigin, router), nil
}

func newGRPCServer(logger *slog.Logger) (*grpc.Server, *grpcapi.Health) {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.LoggingInterceptor(logger)))

	grpcapi.RegisterPredictionServer(grpcServer, grpcapi.NewPredictionService(logger))

	healthServer := grpcapi.NewHealth()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	httpHandler, err := newRouter(cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	grpcServer, healthServer := newGRPCServer(logger)

	grpcAddr := ":" + cfg.GRPCPort
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	healthServer.MarkServing()

	serverErr := make(chan error, 2)
	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("http server error: %w", err)
		}
	}()
	go func() {
		logger.Info("grpc server listening", "addr", grpcAddr)
		if err := grpcServer.Serve(listener); err != nil {
			serverErr <- fmt.Errorf("grpc server error: %w", err)
		}
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
		logger.Error("server failed", "error", runErr)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	healthServer.Drain()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server forced to shutdown", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		logger.Warn("graceful shutdown timeout, forcing grpc stop")
		grpcServer.Stop()
	}

	logger.Info("server stopped")
	return runErr
}

func enableCORS(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
