package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// micro-currency units carry six implied decimals
const microsExponent = -6

// Google Ads customer IDs are ten digits once dashes are removed
var customerIDPattern = regexp.MustCompile(`^[0-9]{10}$`)

// AdsFetcher turns a Google Ads campaign report into normalized source metrics.
type AdsFetcher struct {
	client  domain.AdsClient
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewAdsFetcher accepts a nil client: fetches then report a placeholder record.
func NewAdsFetcher(client domain.AdsClient, logger *logger.Logger, metrics *metrics.Metrics) *AdsFetcher {
	return &AdsFetcher{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// NormalizeCustomerID strips the dashes of the 123-456-7890 display form.
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

func ValidCustomerID(id string) bool {
	return customerIDPattern.MatchString(id)
}

func (f *AdsFetcher) Fetch(ctx context.Context, customerID string, window domain.DateRange) *domain.SourceMetrics {
	start := time.Now()
	result := f.fetch(ctx, NormalizeCustomerID(customerID), window)
	f.metrics.RecordSourceFetch(domain.SourceAds, string(result.Status), time.Since(start))
	return result
}

func (f *AdsFetcher) fetch(ctx context.Context, customerID string, window domain.DateRange) *domain.SourceMetrics {
	log := f.logger.WithContext(ctx).WithField("customer_id", customerID)

	if customerID == "" {
		log.Info("No Google Ads customer ID provided, skipping")
		return domain.NewSkippedMetrics(domain.SourceAds, "no Google Ads customer ID provided")
	}

	if !ValidCustomerID(customerID) {
		err := fmt.Errorf("%w: Google Ads customer ID %q must be 10 digits", domain.ErrInvalidIdentifier, customerID)
		log.WithError(err).Warn("Rejected Google Ads customer ID")
		return domain.NewErrorMetrics(domain.SourceAds, "", err.Error())
	}

	if f.client == nil {
		log.Warn("Google Ads integration not configured")
		return domain.NewPlaceholderMetrics(domain.SourceAds, customerID, "Google Ads integration not configured")
	}

	log.WithFields(map[string]any{
		"start_date": window.StartDate(),
		"end_date":   window.EndDate(),
	}).Info("Fetching Google Ads data")

	report, err := f.client.CampaignReport(ctx, customerID, window)
	if err != nil {
		log.WithError(err).Error("Failed to fetch Google Ads data")
		return domain.NewErrorMetrics(domain.SourceAds, customerID, err.Error())
	}
	if report == nil {
		report = &domain.AdsReport{CustomerID: customerID}
	}

	result := NormalizeAds(customerID, report)

	log.WithFields(map[string]any{
		"campaigns": len(report.Rows),
		"cost":      result.Metrics[domain.MetricCost],
		"clicks":    result.Metrics[domain.MetricClicks],
	}).Info("Fetched Google Ads data")

	return result
}

// NormalizeAds sums the campaign rows. Cost is converted from micros to
// major currency units.
func NormalizeAds(customerID string, report *domain.AdsReport) *domain.SourceMetrics {
	var costMicros, clicks int64
	conversions := decimal.Zero
	rows := make([]domain.MetricRow, 0, len(report.Rows))

	for _, r := range report.Rows {
		costMicros += r.CostMicros
		clicks += r.Clicks
		conversions = conversions.Add(decimal.NewFromFloat(r.Conversions))

		rows = append(rows, domain.MetricRow{
			CampaignID: r.CampaignID,
			Campaign:   r.CampaignName,
			Values: map[string]float64{
				domain.MetricCost:        MicrosToUnits(r.CostMicros),
				domain.MetricClicks:      float64(r.Clicks),
				domain.MetricConversions: r.Conversions,
			},
		})
	}

	return domain.NewSuccessMetrics(domain.SourceAds, customerID, map[string]float64{
		domain.MetricCost:        MicrosToUnits(costMicros),
		domain.MetricClicks:      float64(clicks),
		domain.MetricConversions: conversions.InexactFloat64(),
	}, rows)
}

func MicrosToUnits(micros int64) float64 {
	return decimal.New(micros, microsExponent).InexactFloat64()
}
