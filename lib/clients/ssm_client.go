package clients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"qualityhome/lib/constants"
)

func NewSSMClient(isLocal bool, region string) *ssm.Client {
	if region == "" {
		region = constants.DEFAULT_STORAGE_REGION
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		panic(err)
	}

	if isLocal {
		cfg.BaseEndpoint = aws.String(localStackEndpoint)
	}

	return ssm.NewFromConfig(cfg)
}
