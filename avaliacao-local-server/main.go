// Command avaliacao-local-server serves the intake API over plain HTTP for local development.
// Configuration comes from the environment; SSM is read only when SSM_PARAMETER_PATH is set.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/clients"
	"qualityhome/lib/config"
	"qualityhome/lib/data"
	"qualityhome/lib/handler"
	"qualityhome/lib/util"
)

const defaultPort = "8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	isLocal := parseIsLocal()
	logger := setupLogger(isLocal)

	params, err := loadParams(ctx, isLocal, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error while getting SSM params from parameter store")
	}

	cfg, err := config.Load(params, os.Getenv)
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	intakeHandler, sqlDB, err := handler.Setup(ctx, cfg, isLocal, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error setting up intake handler")
	}
	defer sqlDB.Close()

	co := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", "Idempotency-Key"},
		ExposedHeaders: []string{"Content-Disposition", "X-Laudo-Pdf-Url"},
		MaxAge:         300,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           co.Handler(intakeHandler.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"operation":       "main",
		"addr":            server.Addr,
		"allowed_origins": strings.Join(cfg.AllowedOrigins, ","),
	}).Info("Avaliacao local server listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Server stopped")
	}
}

func loadParams(ctx context.Context, isLocal bool, logger *logrus.Logger) (map[string]string, error) {
	path := os.Getenv("SSM_PARAMETER_PATH")
	if path == "" {
		return map[string]string{}, nil
	}
	ssmRepository := &data.SSMDao{
		SSM:    clients.NewSSMClient(isLocal, os.Getenv("AWS_REGION")),
		Path:   path,
		Logger: logger,
	}
	return ssmRepository.GetParameters(ctx)
}

func parseIsLocal() bool {
	isLocal, err := strconv.ParseBool(os.Getenv("IS_LOCAL"))
	if err != nil {
		return true
	}
	return isLocal
}

func setupLogger(isLocal bool) *logrus.Logger {
	logger := logrus.New()
	util.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	if isLocal {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
