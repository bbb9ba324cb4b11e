package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricsbridge/internal/domain"
)

var testRange = domain.WindowLast7Days.Resolve(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))

func TestAnalyticsFetchSuccess(t *testing.T) {
	client := &fakeAnalyticsClient{report: &domain.AnalyticsReport{
		PropertyID: "522918452",
		Rows: []domain.AnalyticsRow{
			{Date: "2026-10-18", Sessions: 60, Users: 25, BounceRate: 20},
			{Date: "2026-10-19", Sessions: 40, Users: 15, BounceRate: 40},
		},
	}}
	log, m := testDeps()
	f := NewAnalyticsFetcher(client, nil, log, m)

	result := f.Fetch(context.Background(), "properties/522918452", testRange)

	assert.Equal(t, "522918452", client.propertyID)
	assert.Equal(t, testRange, client.window)
	assert.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, 100.0, result.Value(domain.MetricSessions))
	assert.Equal(t, 40.0, result.Value(domain.MetricUsers))
	assert.InDelta(t, 0.28, result.Value(domain.MetricBounceRate), 1e-9)
	require.Len(t, result.Rows, 2)
	assert.InDelta(t, 0.2, result.Rows[0].Values[domain.MetricBounceRate], 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetchesTotal.WithLabelValues(domain.SourceAnalytics, "success")))
}

func TestAnalyticsFetchFailures(t *testing.T) {
	tests := []struct {
		name      string
		client    domain.AnalyticsClient
		clientErr error
		property  string
		wantError string
	}{
		{
			name:      "empty property",
			client:    &fakeAnalyticsClient{},
			property:  "  ",
			wantError: "missing identifier: no Google Analytics property ID provided",
		},
		{
			name:      "credentials unavailable",
			clientErr: fmt.Errorf("%w: file not found", domain.ErrCredentials),
			property:  "1",
			wantError: "credentials unavailable: file not found",
		},
		{
			name:      "no client and no reason",
			property:  "1",
			wantError: "Google Analytics client not configured",
		},
		{
			name:      "upstream failure",
			client:    &fakeAnalyticsClient{err: errors.New("upstream call failed: 503")},
			property:  "1",
			wantError: "upstream call failed: 503",
		},
		{
			name:      "no rows",
			client:    &fakeAnalyticsClient{report: &domain.AnalyticsReport{}},
			property:  "1",
			wantError: domain.ErrNoData.Error(),
		},
		{
			name:      "nil report",
			client:    &fakeAnalyticsClient{},
			property:  "1",
			wantError: domain.ErrNoData.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, m := testDeps()
			f := NewAnalyticsFetcher(tt.client, tt.clientErr, log, m)

			result := f.Fetch(context.Background(), tt.property, testRange)
			require.NotNil(t, result)
			assert.Equal(t, domain.StatusError, result.Status)
			assert.Equal(t, tt.wantError, result.Error)
			assert.Equal(t, domain.SourceAnalytics, result.Source)
			assert.Zero(t, result.Value(domain.MetricSessions))
		})
	}
}

func TestNormalizeAnalyticsBounceRate(t *testing.T) {
	t.Run("no sessions falls back to plain mean", func(t *testing.T) {
		result := NormalizeAnalytics("1", &domain.AnalyticsReport{Rows: []domain.AnalyticsRow{
			{BounceRate: 10}, {BounceRate: 30},
		}})
		assert.InDelta(t, 0.2, result.Value(domain.MetricBounceRate), 1e-9)
	})

	t.Run("clamped to one", func(t *testing.T) {
		result := NormalizeAnalytics("1", &domain.AnalyticsReport{Rows: []domain.AnalyticsRow{
			{Sessions: 1, BounceRate: 150},
		}})
		assert.Equal(t, 1.0, result.Value(domain.MetricBounceRate))
	})
}

func TestNormalizePropertyID(t *testing.T) {
	assert.Equal(t, "522918452", NormalizePropertyID("properties/522918452"))
	assert.Equal(t, "522918452", NormalizePropertyID(" 522918452 "))
	assert.Equal(t, "", NormalizePropertyID(""))
}
