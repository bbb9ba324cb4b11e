package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type CredentialSource string

const (
	CredentialsInline CredentialSource = "inline"
	CredentialsFile   CredentialSource = "file"
)

// Application settings
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Upstream  UpstreamConfig
	Analytics AnalyticsConfig
	Ads       AdsConfig
	Report    ReportConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

type UpstreamConfig struct {
	Timeout            time.Duration
	RateLimitPerSecond int
}

type AnalyticsConfig struct {
	PropertyID       string
	APIURL           string
	CredentialSource CredentialSource
	CredentialsJSON  string
	CredentialsFile  string
}

type AdsConfig struct {
	CustomerID      string
	LoginCustomerID string
	DeveloperToken  string
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	APIURL          string
	APIVersion      string
}

// Raw reporting settings; internal/app parses them into domain values
type ReportConfig struct {
	Window     string
	StatusRule string
}

// Logging settings
type LoggingConfig struct {
	Level string
}

// Enabled reports whether enough material is present to call the Ads API.
func (a AdsConfig) Enabled() bool {
	return a.DeveloperToken != "" && a.RefreshToken != "" && a.ClientID != "" && a.ClientSecret != ""
}

// Load reads settings from the environment. envFiles are loaded first when
// present; a missing file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", "30s"),
		},
		Upstream: UpstreamConfig{
			Timeout:            getDurationEnv("UPSTREAM_TIMEOUT", "20s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 10),
		},
		Analytics: AnalyticsConfig{
			PropertyID:       getEnv("GOOGLE_ANALYTICS_PROPERTY", ""),
			APIURL:           getEnv("GA_API_URL", "https://analyticsdata.googleapis.com"),
			CredentialSource: CredentialSource(strings.ToLower(getEnv("GOOGLE_CREDENTIALS_SOURCE", string(CredentialsFile)))),
			CredentialsJSON:  getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),
			CredentialsFile:  getEnv("GOOGLE_APPLICATION_CREDENTIALS_FILE", "/app/GA_SERVICE_ACCOUNT_JSON"),
		},
		Ads: AdsConfig{
			CustomerID:      getEnv("GOOGLE_ADS_CUSTOMER_ID", getEnv("GOOGLE_ADS_LINKED_CUSTOMER_ID", "")),
			LoginCustomerID: getEnv("GOOGLE_ADS_LOGIN_CUSTOMER_ID", ""),
			DeveloperToken:  getEnv("GOOGLE_ADS_DEVELOPER_TOKEN", ""),
			ClientID:        getEnv("GOOGLE_ADS_CLIENT_ID", ""),
			ClientSecret:    getEnv("GOOGLE_ADS_CLIENT_SECRET", ""),
			RefreshToken:    getEnv("GOOGLE_ADS_REFRESH_TOKEN", ""),
			APIURL:          getEnv("GOOGLE_ADS_API_URL", "https://googleads.googleapis.com"),
			APIVersion:      getEnv("GOOGLE_ADS_API_VERSION", "v21"),
		},
		Report: ReportConfig{
			Window:     getEnv("REPORT_WINDOW", "last_7_days"),
			StatusRule: getEnv("STATUS_RULE", "analytics"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	switch c.Analytics.CredentialSource {
	case CredentialsInline, CredentialsFile:
	default:
		return fmt.Errorf("unknown credential source %q (want inline or file)", c.Analytics.CredentialSource)
	}
	if c.Upstream.RateLimitPerSecond <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND must be greater than zero")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
