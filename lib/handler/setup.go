package handler

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"qualityhome/lib/clients"
	"qualityhome/lib/config"
	"qualityhome/lib/data"
	"qualityhome/lib/intake"
)

// Setup connects to PostgreSQL and object storage and assembles the intake handler.
// The returned *sql.DB is owned by the caller.
func Setup(ctx context.Context, cfg *config.Config, isLocal bool, logger *logrus.Logger) (*IntakeHandler, *sql.DB, error) {
	sqlDB, err := clients.NewPostgresSQLClient(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating PostgreSQL client: %w", err)
	}
	avaliacaoRepository := &data.AvaliacaoDao{
		DB:     sqlDB,
		Logger: logger,
	}

	s3API, err := clients.NewS3API(ctx, cfg, isLocal)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("error creating storage client: %w", err)
	}
	photoStore := clients.NewObjectStore(s3API, cfg.PhotoBucket, cfg.PublicBaseURL)
	receiptStore := clients.NewObjectStore(s3API, cfg.ReceiptBucket, cfg.PublicBaseURL)

	pipeline := &intake.Pipeline{
		Allocator: intake.NewAllocator(avaliacaoRepository, logger),
		Uploader:  intake.NewUploader(photoStore, logger, cfg.MaxParallelUploads, cfg.MaxPhotoBytes),
		Records:   avaliacaoRepository,
		Logger:    logger,
		Location:  cfg.Location,
	}
	if cfg.NotifierEnabled() {
		pipeline.Notifier = clients.NewWebhookClient(cfg.WebhookURL, cfg.WebhookTimeout)
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.WithFields(logrus.Fields{
			"operation":          "Setup",
			"photo_bucket":       photoStore.Bucket(),
			"receipt_bucket":     receiptStore.Bucket(),
			"static_credentials": cfg.UsesStaticCredentials(),
		}).Debug("Intake pipeline initialized successfully")
	}

	return &IntakeHandler{
		Submitter:     pipeline,
		Receipts:      intake.NewReceiptGenerator(receiptStore, avaliacaoRepository, logger, cfg.Location),
		Records:       avaliacaoRepository,
		Logger:        logger,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
	}, sqlDB, nil
}
