package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/api"
	"qualityhome/lib/clients"
	"qualityhome/lib/config"
	"qualityhome/lib/data"
	"qualityhome/lib/util"
)

var (
	logger         *logrus.Logger
	isLocal        bool
	ssmRepository  data.SSMRepository
	allowedOrigins []string
)

func handler(request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	response := api.PreflightResponse(allowedOrigins, request)
	if response.StatusCode != http.StatusOK {
		logger.WithFields(logrus.Fields{
			"operation": "handler",
			"origin":    api.HeaderValue(request.Headers, "origin"),
			"status":    response.StatusCode,
		}).Warn("Preflight rejected")
	}
	return response, nil
}

func main() {
	lambda.Start(handler)
}

func init() {
	isLocal, _ = strconv.ParseBool(os.Getenv("IS_LOCAL"))

	logger = logrus.New()
	util.SetLogLevel(logger, os.Getenv("LOG_LEVEL"))
	logger.SetFormatter(&logrus.JSONFormatter{
		PrettyPrint: isLocal,
	})

	ssmRepository = &data.SSMDao{
		SSM:    clients.NewSSMClient(isLocal, os.Getenv("AWS_REGION")),
		Path:   os.Getenv("SSM_PARAMETER_PATH"),
		Logger: logger,
	}

	ssmParams, err := ssmRepository.GetParameters(context.Background())
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Fatal("Error while getting ssm params from param store")
	}

	cfg, err := config.Load(ssmParams, os.Getenv)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Fatal("Invalid configuration")
	}
	allowedOrigins = cfg.AllowedOrigins
}
