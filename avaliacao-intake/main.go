package main

import (
	"context"
	"database/sql"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/clients"
	"qualityhome/lib/config"
	"qualityhome/lib/data"
	"qualityhome/lib/handler"
	"qualityhome/lib/util"
)

// Global variables for Lambda cold start optimization
var (
	logger        *logrus.Logger
	isLocal       bool
	ssmRepository data.SSMRepository
	ssmParams     map[string]string
	cfg           *config.Config
	sqlDB         *sql.DB
	intakeHandler *handler.IntakeHandler
)

// Handler processes API Gateway requests for the appraisal intake API
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return intakeHandler.Handle(ctx, request)
}

func main() {
	lambda.Start(Handler)
}

func init() {
	var err error
	ctx := context.Background()

	isLocal = parseIsLocal()
	logger = setupLogger(isLocal)

	ssmClient := clients.NewSSMClient(isLocal, os.Getenv("AWS_REGION"))
	ssmRepository = &data.SSMDao{
		SSM:    ssmClient,
		Path:   os.Getenv("SSM_PARAMETER_PATH"),
		Logger: logger,
	}

	ssmParams, err = ssmRepository.GetParameters(ctx)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error while getting SSM params from parameter store")
	}

	cfg, err = config.Load(ssmParams, os.Getenv)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Invalid configuration")
	}

	intakeHandler, sqlDB, err = handler.Setup(ctx, cfg, isLocal, logger)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "init",
			"error":     err.Error(),
		}).Fatal("Error setting up intake handler")
	}

	logger.WithFields(logrus.Fields{
		"operation":        "init",
		"photo_bucket":     cfg.PhotoBucket,
		"receipt_bucket":   cfg.ReceiptBucket,
		"notifier_enabled": cfg.NotifierEnabled(),
	}).Info("Avaliacao intake service initialized successfully")
}

func parseIsLocal() bool {
	isLocal, _ := strconv.ParseBool(os.Getenv("IS_LOCAL"))
	return isLocal
}

func setupLogger(isLocal bool) *logrus.Logger {
	logger := logrus.New()
	util.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	logger.SetFormatter(&logrus.JSONFormatter{PrettyPrint: isLocal})
	return logger
}
