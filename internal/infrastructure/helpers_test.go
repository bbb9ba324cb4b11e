package infrastructure

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

func testDeps() (*logger.Logger, *metrics.Metrics) {
	return logger.Nop(), metrics.New(prometheus.NewRegistry())
}

func testWindow() domain.DateRange {
	return domain.DateRange{
		Start: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
}

func testOptions() ClientOptions {
	return ClientOptions{Timeout: 2 * time.Second, RateLimitPerSecond: 100}
}
