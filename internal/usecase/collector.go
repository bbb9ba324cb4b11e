package usecase

import (
	"context"
	"sync"
	"time"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// SourceFetcher produces one normalized record per call and never fails.
type SourceFetcher interface {
	Fetch(ctx context.Context, identifier string, window domain.DateRange) *domain.SourceMetrics
}

type CollectRequest struct {
	PropertyID string
	CustomerID string
	Metadata   domain.Metadata
}

// Collector runs both fetches and combines them, once per request
type Collector struct {
	analytics SourceFetcher
	ads       SourceFetcher
	combiner  *Combiner
	window    domain.ReportWindow
	now       func() time.Time
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewCollector(
	analytics SourceFetcher,
	ads SourceFetcher,
	combiner *Combiner,
	window domain.ReportWindow,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Collector {
	return &Collector{
		analytics: analytics,
		ads:       ads,
		combiner:  combiner,
		window:    window,
		now:       time.Now,
		logger:    logger,
		metrics:   metrics,
	}
}

func (c *Collector) Window() domain.ReportWindow {
	return c.window
}

func (c *Collector) Collect(ctx context.Context, req CollectRequest) *domain.CombinedRecord {
	start := time.Now()
	log := c.logger.WithContext(ctx)

	dates := c.window.Resolve(c.now())

	var ga, ads *domain.SourceMetrics

	// fetch both sources concurrently
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ga = c.analytics.Fetch(ctx, req.PropertyID, dates)
	}()

	go func() {
		defer wg.Done()
		ads = c.ads.Fetch(ctx, req.CustomerID, dates)
	}()

	wg.Wait()

	meta := domain.Metadata{
		"ga_property":     NormalizePropertyID(req.PropertyID),
		"ads_customer_id": NormalizeCustomerID(req.CustomerID),
		"report_window":   string(c.window),
		"window_start":    dates.StartDate(),
		"window_end":      dates.EndDate(),
	}
	for k, v := range req.Metadata {
		meta[k] = v
	}

	record := c.combiner.Combine(ga, ads, meta)
	c.metrics.RecordCombined(record.Status)

	log.WithFields(map[string]any{
		"status":     record.Status,
		"ga_status":  record.GoogleAnalytics.Status,
		"ads_status": record.GoogleAds.Status,
		"duration":   time.Since(start),
	}).Info("Collected metrics")

	return record
}
