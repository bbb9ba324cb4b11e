package infrastructure

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/config"
)

const (
	AnalyticsReadonlyScope = "https://www.googleapis.com/auth/analytics.readonly"
	AdsScope               = "https://www.googleapis.com/auth/adwords"
)

// AnalyticsTokenSource resolves the service account from the single source
// named in cfg. It is meant to run once at startup.
func AnalyticsTokenSource(ctx context.Context, cfg config.AnalyticsConfig) (oauth2.TokenSource, error) {
	var payload []byte

	switch cfg.CredentialSource {
	case config.CredentialsInline:
		if cfg.CredentialsJSON == "" {
			return nil, fmt.Errorf("%w: GOOGLE_APPLICATION_CREDENTIALS_JSON is empty", domain.ErrCredentials)
		}
		payload = []byte(cfg.CredentialsJSON)
	case config.CredentialsFile:
		if cfg.CredentialsFile == "" {
			return nil, fmt.Errorf("%w: no credentials file configured", domain.ErrCredentials)
		}
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCredentials, err)
		}
		payload = data
	default:
		return nil, fmt.Errorf("%w: unknown credential source %q", domain.ErrCredentials, cfg.CredentialSource)
	}

	creds, err := google.CredentialsFromJSON(ctx, payload, AnalyticsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCredentials, err)
	}

	return creds.TokenSource, nil
}

// AdsTokenSource exchanges the configured refresh token for access tokens.
func AdsTokenSource(ctx context.Context, cfg config.AdsConfig) (oauth2.TokenSource, error) {
	if cfg.RefreshToken == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: Google Ads OAuth client or refresh token missing", domain.ErrCredentials)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{AdsScope},
	}

	return oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}), nil
}
