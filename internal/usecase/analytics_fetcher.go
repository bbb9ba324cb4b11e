package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// AnalyticsFetcher turns a GA4 report into normalized source metrics.
// It never returns an error: every failure becomes an error record.
type AnalyticsFetcher struct {
	client    domain.AnalyticsClient
	clientErr error
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewAnalyticsFetcher wires the fetcher to client. clientErr is the reason
// client could not be built (credential resolution at startup) and is
// reported on every fetch while client is nil.
func NewAnalyticsFetcher(client domain.AnalyticsClient, clientErr error, logger *logger.Logger, metrics *metrics.Metrics) *AnalyticsFetcher {
	return &AnalyticsFetcher{
		client:    client,
		clientErr: clientErr,
		logger:    logger,
		metrics:   metrics,
	}
}

// NormalizePropertyID accepts both "properties/123" and "123".
func NormalizePropertyID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "properties/")
}

func (f *AnalyticsFetcher) Fetch(ctx context.Context, propertyID string, window domain.DateRange) *domain.SourceMetrics {
	start := time.Now()
	result := f.fetch(ctx, NormalizePropertyID(propertyID), window)
	f.metrics.RecordSourceFetch(domain.SourceAnalytics, string(result.Status), time.Since(start))
	return result
}

func (f *AnalyticsFetcher) fetch(ctx context.Context, propertyID string, window domain.DateRange) *domain.SourceMetrics {
	log := f.logger.WithContext(ctx).WithField("property_id", propertyID)

	if propertyID == "" {
		err := fmt.Errorf("%w: no Google Analytics property ID provided", domain.ErrMissingIdentifier)
		log.WithError(err).Warn("No Google Analytics property ID provided")
		return domain.NewErrorMetrics(domain.SourceAnalytics, "", err.Error())
	}

	if f.client == nil {
		msg := "Google Analytics client not configured"
		if f.clientErr != nil {
			msg = f.clientErr.Error()
		}
		log.WithField("error", msg).Error("Google Analytics credentials unavailable")
		return domain.NewErrorMetrics(domain.SourceAnalytics, propertyID, msg)
	}

	log.WithFields(map[string]any{
		"start_date": window.StartDate(),
		"end_date":   window.EndDate(),
	}).Info("Fetching Google Analytics data")

	report, err := f.client.RunReport(ctx, propertyID, window)
	if err != nil {
		log.WithError(err).Error("Failed to fetch Google Analytics data")
		return domain.NewErrorMetrics(domain.SourceAnalytics, propertyID, err.Error())
	}

	if report == nil || len(report.Rows) == 0 {
		log.Warn("No data returned from Google Analytics")
		return domain.NewErrorMetrics(domain.SourceAnalytics, propertyID, domain.ErrNoData.Error())
	}

	result := NormalizeAnalytics(propertyID, report)

	log.WithFields(map[string]any{
		"rows":     len(report.Rows),
		"sessions": result.Metrics[domain.MetricSessions],
		"users":    result.Metrics[domain.MetricUsers],
	}).Info("Fetched Google Analytics data")

	return result
}

// NormalizeAnalytics sums sessions and users over the daily rows. The bounce
// rate is the session-weighted mean of the upstream percentage, as a fraction.
func NormalizeAnalytics(propertyID string, report *domain.AnalyticsReport) *domain.SourceMetrics {
	var sessions, users, weighted, plain float64
	rows := make([]domain.MetricRow, 0, len(report.Rows))

	for _, r := range report.Rows {
		sessions += r.Sessions
		users += r.Users
		weighted += r.BounceRate * r.Sessions
		plain += r.BounceRate

		rows = append(rows, domain.MetricRow{
			Date: r.Date,
			Values: map[string]float64{
				domain.MetricSessions:   r.Sessions,
				domain.MetricUsers:      r.Users,
				domain.MetricBounceRate: percentToFraction(r.BounceRate),
			},
		})
	}

	var bounce float64
	switch {
	case sessions > 0:
		bounce = weighted / sessions
	case len(report.Rows) > 0:
		bounce = plain / float64(len(report.Rows))
	}

	return domain.NewSuccessMetrics(domain.SourceAnalytics, propertyID, map[string]float64{
		domain.MetricSessions:   sessions,
		domain.MetricUsers:      users,
		domain.MetricBounceRate: percentToFraction(bounce),
	}, rows)
}

func percentToFraction(p float64) float64 {
	f := p / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
