package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"metricsbridge/internal/delivery"
	"metricsbridge/internal/domain"
	"metricsbridge/internal/infrastructure"
	"metricsbridge/internal/usecase"
	"metricsbridge/internal/version"
	"metricsbridge/pkg/config"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// App owns the upstream clients and the collection pipeline built from config.
type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Collector *usecase.Collector

	gatherer prometheus.Gatherer
}

// New resolves credentials once and wires the clients, fetchers and combiner.
// Credential problems do not fail startup; they surface as error records.
// Unknown report window or status rule values do.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*App, error) {
	window, err := domain.ParseReportWindow(cfg.Report.Window)
	if err != nil {
		return nil, fmt.Errorf("REPORT_WINDOW: %w", err)
	}
	rule, err := domain.ParseStatusRule(cfg.Report.StatusRule)
	if err != nil {
		return nil, fmt.Errorf("STATUS_RULE: %w", err)
	}

	m := metrics.New(reg)
	opts := infrastructure.ClientOptions{
		Timeout:            cfg.Upstream.Timeout,
		RateLimitPerSecond: cfg.Upstream.RateLimitPerSecond,
	}

	var gaClient domain.AnalyticsClient
	ts, gaErr := infrastructure.AnalyticsTokenSource(ctx, cfg.Analytics)
	if gaErr != nil {
		log.WithError(gaErr).WithField("source", cfg.Analytics.CredentialSource).Error("Google Analytics credentials unavailable")
	} else {
		gaClient = infrastructure.NewAnalyticsAPIClient(cfg.Analytics.APIURL, ts, opts, log, m)
		log.WithField("source", cfg.Analytics.CredentialSource).Info("Google Analytics credentials resolved")
	}

	var adsClient domain.AdsClient
	if cfg.Ads.Enabled() {
		adsTS, err := infrastructure.AdsTokenSource(ctx, cfg.Ads)
		if err != nil {
			log.WithError(err).Error("Google Ads credentials unavailable")
		} else {
			adsClient = infrastructure.NewAdsAPIClient(cfg.Ads.APIURL, adsTS, infrastructure.AdsClientOptions{
				ClientOptions:   opts,
				APIVersion:      cfg.Ads.APIVersion,
				DeveloperToken:  cfg.Ads.DeveloperToken,
				LoginCustomerID: cfg.Ads.LoginCustomerID,
			}, log, m)
		}
	} else {
		log.Warn("Google Ads integration not configured, ads metrics will be placeholders")
	}

	collector := usecase.NewCollector(
		usecase.NewAnalyticsFetcher(gaClient, gaErr, log, m),
		usecase.NewAdsFetcher(adsClient, log, m),
		usecase.NewCombiner(rule, log),
		window,
		log,
		m,
	)

	return &App{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		Collector: collector,
		gatherer:  gatherer,
	}, nil
}

// Handler builds the HTTP surface
func (a *App) Handler() http.Handler {
	handlers := delivery.NewHTTPHandlers(a.Collector, delivery.Defaults{
		PropertyID: a.Config.Analytics.PropertyID,
		CustomerID: a.Config.Ads.CustomerID,
	}, version.Version, a.Logger)

	router := delivery.NewHTTPRouter(handlers, a.Logger, a.Metrics, a.gatherer, a.Config.Server.RequestTimeout)
	return router.SetupRoutes()
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Collect runs one collection outside the HTTP server
func (a *App) Collect(ctx context.Context, propertyID, customerID string) *domain.CombinedRecord {
	if propertyID == "" {
		propertyID = a.Config.Analytics.PropertyID
	}
	if customerID == "" {
		customerID = a.Config.Ads.CustomerID
	}
	return a.Collector.Collect(ctx, usecase.CollectRequest{
		PropertyID: propertyID,
		CustomerID: customerID,
		Metadata:   domain.Metadata{"trigger": "cli"},
	})
}
