package usecase

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

func testDeps() (*logger.Logger, *metrics.Metrics) {
	return logger.Nop(), metrics.New(prometheus.NewRegistry())
}

type fakeAnalyticsClient struct {
	mu         sync.Mutex
	report     *domain.AnalyticsReport
	err        error
	propertyID string
	window     domain.DateRange
	calls      int
}

func (f *fakeAnalyticsClient) RunReport(ctx context.Context, propertyID string, window domain.DateRange) (*domain.AnalyticsReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.propertyID = propertyID
	f.window = window
	return f.report, f.err
}

type fakeAdsClient struct {
	mu         sync.Mutex
	report     *domain.AdsReport
	err        error
	customerID string
	calls      int
}

func (f *fakeAdsClient) CampaignReport(ctx context.Context, customerID string, window domain.DateRange) (*domain.AdsReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.customerID = customerID
	return f.report, f.err
}

type stubFetcher struct {
	result     *domain.SourceMetrics
	identifier string
	window     domain.DateRange
}

func (s *stubFetcher) Fetch(ctx context.Context, identifier string, window domain.DateRange) *domain.SourceMetrics {
	s.identifier = identifier
	s.window = window
	return s.result
}
