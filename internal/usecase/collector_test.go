package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"metricsbridge/internal/domain"
)

func TestCollect(t *testing.T) {
	ga := &stubFetcher{result: successGA()}
	ads := &stubFetcher{result: domain.NewSkippedMetrics(domain.SourceAds, "no id")}
	log, m := testDeps()

	collector := NewCollector(ga, ads, newTestCombiner(domain.StatusRuleAll), domain.WindowYesterday, log, m)
	collector.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	record := collector.Collect(context.Background(), CollectRequest{
		PropertyID: "properties/p1",
		CustomerID: "",
		Metadata:   domain.Metadata{"request_id": "r-1", "report_window": "override"},
	})

	assert.Equal(t, "properties/p1", ga.identifier)
	assert.Equal(t, "2026-10-18", ga.window.StartDate())
	assert.Equal(t, "2026-10-18", ga.window.EndDate())
	assert.Equal(t, ga.window, ads.window)

	assert.Equal(t, domain.CombinedSuccess, record.Status)
	assert.Equal(t, "p1", record.Metadata["ga_property"])
	assert.Equal(t, "", record.Metadata["ads_customer_id"])
	assert.Equal(t, "r-1", record.Metadata["request_id"])
	assert.Equal(t, "override", record.Metadata["report_window"])
	assert.Equal(t, "2026-10-18", record.Metadata["window_start"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CombinedRecordsTotal.WithLabelValues(domain.CombinedSuccess)))
	assert.Equal(t, domain.WindowYesterday, collector.Window())
}

func TestCollectToleratesNilFetchResults(t *testing.T) {
	log, m := testDeps()
	collector := NewCollector(&stubFetcher{}, &stubFetcher{}, newTestCombiner(domain.StatusRuleAnalytics), domain.WindowLast7Days, log, m)

	record := collector.Collect(context.Background(), CollectRequest{})

	assert.Equal(t, domain.CombinedPartial, record.Status)
	assert.Equal(t, domain.StatusError, record.GoogleAnalytics.Status)
	assert.Equal(t, domain.StatusError, record.GoogleAds.Status)
}

func TestCollectWithRealFetchers(t *testing.T) {
	log, m := testDeps()
	gaClient := &fakeAnalyticsClient{report: &domain.AnalyticsReport{Rows: []domain.AnalyticsRow{{Date: "2026-10-18", Sessions: 100, Users: 40, BounceRate: 25}}}}

	collector := NewCollector(
		NewAnalyticsFetcher(gaClient, nil, log, m),
		NewAdsFetcher(nil, log, m),
		newTestCombiner(domain.StatusRuleAnalytics),
		domain.WindowLast7Days,
		log, m,
	)

	record := collector.Collect(context.Background(), CollectRequest{PropertyID: "p1", CustomerID: "1234567890"})

	assert.Equal(t, domain.CombinedSuccess, record.Status)
	assert.Equal(t, 100.0, record.Sessions)
	assert.Equal(t, 0.25, record.BounceRate)
	assert.Equal(t, domain.StatusPlaceholder, record.GoogleAds.Status)
}
