package config

import (
	"encoding/json"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Config struct {
	TummySize       int
	CrunchCount     int
	Interval        time.Duration
	HTTPTimeout     time.Duration
	MetricsPort     int
	LogLevel        string
	EventsTopic     string
	GoogleProjectID string
	CredentialsFile string
}

func Load() *Config {
	cfg := &Config{
		TummySize:       getEnvInt("CRUNCHER_TUMMY_SIZE", 5),
		CrunchCount:     getEnvInt("CRUNCHER_CRUNCH_COUNT", 0),
		Interval:        getEnvDuration("CRUNCHER_INTERVAL", 10*time.Second),
		HTTPTimeout:     getEnvDuration("CRUNCHER_HTTP_TIMEOUT", 5*time.Second),
		MetricsPort:     getEnvInt("CRUNCHER_METRICS_PORT", 8080),
		LogLevel:        strings.TrimSpace(getEnv("CRUNCHER_LOG_LEVEL", "info")),
		EventsTopic:     strings.TrimSpace(getEnv("CRUNCHER_EVENTS_TOPIC", "")),
		CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	}
	if cfg.EventsTopic != "" {
		cfg.GoogleProjectID = getGoogleProjectID(cfg.CredentialsFile, getEnv("CRUNCHER_PUBSUB_PROJECT_ID", ""))
		if cfg.GoogleProjectID == "" {
			log.Warn().Msg("Google project ID not resolved; set CRUNCHER_PUBSUB_PROJECT_ID or GOOGLE_CLOUD_PROJECT or GOOGLE_APPLICATION_CREDENTIALS")
		}
	}
	if cfg.CrunchCount < 0 {
		log.Warn().Int("count", cfg.CrunchCount).Msg("negative CRUNCHER_CRUNCH_COUNT; crunching until stopped")
		cfg.CrunchCount = 0
	}
	return cfg
}

func (c *Config) HTTPAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.MetricsPort))
}

// PublishEnabled reports whether crunch events should go to Pub/Sub.
func (c *Config) PublishEnabled() bool {
	return c.EventsTopic != "" && c.GoogleProjectID != ""
}

// Redacted returns a view safe for logging
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"tummySize":           c.TummySize,
		"crunchCount":         c.CrunchCount,
		"interval":            c.Interval.String(),
		"httpTimeout":         c.HTTPTimeout.String(),
		"metricsPort":         c.MetricsPort,
		"logLevel":            c.LogLevel,
		"eventsTopic":         c.EventsTopic,
		"projectID":           c.GoogleProjectID,
		"credentialsProvided": c.CredentialsFile != "",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		iv, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return iv
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid int; using default")
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err == nil && d >= 0 {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration; using default")
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func projectIDFromCredentials(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open credentials")
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", errors.Wrap(err, "read credentials")
	}
	var x struct {
		ProjectID string `json:"project_id"`
	}
	// malformed files just yield no project id
	_ = json.Unmarshal(b, &x)
	return x.ProjectID, nil
}

// getGoogleProjectID resolves the project from, in order: the explicit
// setting, common Google env vars, then the credentials file.
func getGoogleProjectID(credsFile string, explicit string) string {
	if explicit := strings.TrimSpace(explicit); explicit != "" {
		log.Info().Str("projectID", explicit).Msg("using CRUNCHER_PUBSUB_PROJECT_ID for Google project")
		return explicit
	}
	if v := strings.TrimSpace(firstNonEmpty(os.Getenv("GOOGLE_CLOUD_PROJECT"), os.Getenv("GCLOUD_PROJECT"), os.Getenv("GCP_PROJECT"))); v != "" {
		log.Info().Str("projectID", v).Msg("using Google project from common environment variables")
		return v
	}
	if p := strings.TrimSpace(credsFile); p != "" {
		pid, err := projectIDFromCredentials(p)
		if err == nil && pid != "" {
			log.Info().Str("credsFile", p).Msg("using project_id from credentials file")
			return strings.TrimSpace(pid)
		}
		log.Warn().Err(err).Str("credsFile", p).Msg("project_id not found in credentials file or unreadable")
	}
	return ""
}
