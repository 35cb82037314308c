package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"qualityhome/lib/constants"
	"qualityhome/lib/util"
)

const (
	defaultDatabasePort   = "5432"
	defaultSSLMode        = "require"
	defaultWebhookTimeout = 10 * time.Second
	defaultMaxPhotoBytes  = 10 << 20
)

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Config is resolved once at cold start and passed down explicitly
type Config struct {
	// EndpointURL is the object storage endpoint. Empty uses the AWS default endpoint.
	EndpointURL string
	// APIKey is the storage secret key. Empty falls back to the default AWS credential chain.
	APIKey string
	// WebhookURL receives every inserted record. Empty disables notification.
	WebhookURL string

	AccessKeyID    string
	StorageRegion  string
	PublicBaseURL  string
	PhotoBucket    string
	ReceiptBucket  string
	Database       DatabaseConfig
	Location       *time.Location
	WebhookTimeout time.Duration

	// MaxParallelUploads bounds concurrent photo uploads, 0 means all at once
	MaxParallelUploads int
	MaxPhotoBytes      int64
	AllowedOrigins     []string
}

// Load builds the configuration from SSM parameters. Parameters are matched on the last
// segment of their name, so any parameter path works: /quality-home/WEBHOOK_URL and
// /quality-home-staging/WEBHOOK_URL both set WebhookURL. An exact match on the default
// name wins over other paths. An environment variable named after the segment
// overrides the parameter.
func Load(params map[string]string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	byName := make(map[string]string, len(params))
	for key, value := range params {
		byName[parameterName(key)] = value
	}

	lookup := func(key string) string {
		name := parameterName(key)
		if value := strings.TrimSpace(getenv(name)); value != "" {
			return value
		}
		if value, ok := params[key]; ok {
			return strings.TrimSpace(value)
		}
		return strings.TrimSpace(byName[name])
	}

	cfg := &Config{
		EndpointURL:   strings.TrimRight(lookup(constants.STORAGE_ENDPOINT_URL), "/"),
		APIKey:        lookup(constants.STORAGE_API_KEY),
		WebhookURL:    lookup(constants.WEBHOOK_URL),
		AccessKeyID:   lookup(constants.STORAGE_ACCESS_KEY_ID),
		StorageRegion: util.DefaultString(lookup(constants.STORAGE_REGION), constants.DEFAULT_STORAGE_REGION),
		PhotoBucket:   util.DefaultString(lookup(constants.PHOTO_BUCKET), constants.DEFAULT_PHOTO_BUCKET),
		ReceiptBucket: util.DefaultString(lookup(constants.RECEIPT_BUCKET), constants.DEFAULT_RECEIPT_BUCKET),
		Database: DatabaseConfig{
			Host:     lookup(constants.DATABASE_RDS_ENDPOINT),
			Port:     util.DefaultString(lookup(constants.DATABASE_PORT), defaultDatabasePort),
			Name:     lookup(constants.DATABASE_NAME),
			User:     lookup(constants.DATABASE_USERNAME),
			Password: lookup(constants.DATABASE_PASSWORD),
			SSLMode:  util.DefaultString(lookup(constants.SSL_MODE), defaultSSLMode),
		},
		WebhookTimeout: defaultWebhookTimeout,
		MaxPhotoBytes:  defaultMaxPhotoBytes,
	}

	cfg.PublicBaseURL = strings.TrimRight(lookup(constants.STORAGE_PUBLIC_BASE_URL), "/")
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = util.DefaultString(cfg.EndpointURL, fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.StorageRegion))
	}

	location, err := time.LoadLocation(util.DefaultString(lookup(constants.TIMEZONE), constants.DEFAULT_TIMEZONE))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	cfg.Location = location

	if raw := lookup(constants.WEBHOOK_TIMEOUT); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook timeout %q: %w", raw, err)
		}
		cfg.WebhookTimeout = timeout
	}

	if raw := lookup(constants.MAX_PARALLEL_UPLOADS); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid max parallel uploads %q", raw)
		}
		cfg.MaxParallelUploads = limit
	}

	if raw := lookup(constants.MAX_PHOTO_BYTES); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid max photo bytes %q", raw)
		}
		cfg.MaxPhotoBytes = size
	}

	for _, origin := range strings.Split(lookup(constants.ALLOWED_ORIGINS), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func parameterName(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}

// NotifierEnabled reports whether a webhook URL is configured
func (c *Config) NotifierEnabled() bool {
	return c.WebhookURL != ""
}

// UsesStaticCredentials reports whether storage requests are signed with the configured key pair
func (c *Config) UsesStaticCredentials() bool {
	return c.APIKey != "" && c.AccessKeyID != ""
}
