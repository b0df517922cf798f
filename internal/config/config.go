package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	CORSOrigin         string `envconfig:"CORS_ORIGIN" default:"*"`

	// Auth settings
	JWTSecret      string `envconfig:"ACCESS_TOKEN_SECRET" required:"true"`
	JWTExpiryHours int    `envconfig:"ACCESS_TOKEN_EXPIRY_HOURS" default:"24"`

	// Object storage for course thumbnails. Optional: when S3Bucket is empty
	// the thumbnail upload endpoint is disabled.
	S3URL       string `envconfig:"S3_URL"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// Pub/Sub notifications. Optional: when GCPProjectID is empty no events
	// are published.
	GCPProjectID      string `envconfig:"GCP_PROJECT_ID"`
	LectureEventTopic string `envconfig:"LECTURE_EVENT_TOPIC" default:"lecture_events"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// JWTExpiry returns the configured access token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}
