package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"qualityhome/lib/config"
)

const localStackEndpoint = "http://docker.for.mac.host.internal:4566"

// S3API is the subset of the S3 client the object store calls
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStoreInterface uploads objects to one bucket and resolves their public URLs
type ObjectStoreInterface interface {
	Upload(ctx context.Context, key string, body []byte, contentType string, upsert bool) (string, error)
	PublicURL(key string) string
}

var _ ObjectStoreInterface = (*ObjectStore)(nil)

// ObjectStore wraps an S3-compatible client bound to a single bucket
type ObjectStore struct {
	svc           S3API
	bucket        string
	publicBaseURL string
}

// NewS3API builds an S3 client for the configured storage endpoint. With an APIKey the
// requests are signed with the static key pair, otherwise with the default credential chain.
func NewS3API(ctx context.Context, cfg *config.Config, isLocal bool) (*s3.Client, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.StorageRegion),
	}
	if cfg.UsesStaticCredentials() {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.APIKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	endpoint := cfg.EndpointURL
	if endpoint == "" && isLocal {
		endpoint = localStackEndpoint
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// NewObjectStore binds svc to bucket. Public URLs are built as <publicBaseURL>/<bucket>/<key>.
func NewObjectStore(svc S3API, bucket, publicBaseURL string) *ObjectStore {
	return &ObjectStore{
		svc:           svc,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Bucket returns the bucket name the store writes to
func (store *ObjectStore) Bucket() string {
	return store.bucket
}

// Upload writes body under key and returns the key. Without upsert the write only
// succeeds when no object exists at key yet.
func (store *ObjectStore) Upload(ctx context.Context, key string, body []byte, contentType string, upsert bool) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("max-age=3600"),
	}
	if !upsert {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := store.svc.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", key, store.bucket, err)
	}
	return key, nil
}

// PublicURL returns the public URL of key, or an empty string when no base URL is configured
func (store *ObjectStore) PublicURL(key string) string {
	if store.publicBaseURL == "" || key == "" {
		return ""
	}

	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return store.publicBaseURL + "/" + url.PathEscape(store.bucket) + "/" + strings.Join(segments, "/")
}
