package infrastructure

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// upstream metric names, in request order
const (
	gaSessions   = "sessions"
	gaTotalUsers = "totalUsers"
	gaBounceRate = "bounceRate"
)

type gaNamed struct {
	Name string `json:"name"`
}

type gaDateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type gaOrderBy struct {
	Dimension struct {
		DimensionName string `json:"dimensionName"`
	} `json:"dimension"`
}

type runReportRequest struct {
	DateRanges []gaDateRange `json:"dateRanges"`
	Dimensions []gaNamed     `json:"dimensions"`
	Metrics    []gaNamed     `json:"metrics"`
	OrderBys   []gaOrderBy   `json:"orderBys,omitempty"`
}

type gaValue struct {
	Value string `json:"value"`
}

type runReportResponse struct {
	MetricHeaders []gaNamed `json:"metricHeaders"`
	Rows          []struct {
		DimensionValues []gaValue `json:"dimensionValues"`
		MetricValues    []gaValue `json:"metricValues"`
	} `json:"rows"`
	RowCount int `json:"rowCount"`
}

// AnalyticsAPIClient implements domain.AnalyticsClient against the GA4 Data API
type AnalyticsAPIClient struct {
	http    *httpClient
	baseURL string
}

func NewAnalyticsAPIClient(baseURL string, ts oauth2.TokenSource, opts ClientOptions, logger *logger.Logger, metrics *metrics.Metrics) *AnalyticsAPIClient {
	return &AnalyticsAPIClient{
		http:    newHTTPClient("analytics", ts, opts, logger, metrics),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// RunReport fetches daily sessions, users and bounce rate for the window.
func (c *AnalyticsAPIClient) RunReport(ctx context.Context, propertyID string, window domain.DateRange) (*domain.AnalyticsReport, error) {
	endpoint := fmt.Sprintf("%s/v1beta/properties/%s:runReport", c.baseURL, url.PathEscape(propertyID))

	order := gaOrderBy{}
	order.Dimension.DimensionName = "date"

	request := runReportRequest{
		DateRanges: []gaDateRange{{StartDate: window.StartDate(), EndDate: window.EndDate()}},
		Dimensions: []gaNamed{{Name: "date"}},
		Metrics:    []gaNamed{{Name: gaSessions}, {Name: gaTotalUsers}, {Name: gaBounceRate}},
		OrderBys:   []gaOrderBy{order},
	}

	var response runReportResponse
	if err := c.http.postJSON(ctx, endpoint, nil, request, &response); err != nil {
		return nil, err
	}

	report, err := toAnalyticsReport(propertyID, &response)
	if err != nil {
		c.http.metrics.RecordExternalAPIFailure("analytics", "json_parse")
		return nil, err
	}

	c.http.logger.WithContext(ctx).WithFields(map[string]any{
		"property_id": propertyID,
		"rows":        len(report.Rows),
		"start_date":  window.StartDate(),
		"end_date":    window.EndDate(),
	}).Info("Successfully fetched analytics report")

	return report, nil
}

func toAnalyticsReport(propertyID string, resp *runReportResponse) (*domain.AnalyticsReport, error) {
	index := make(map[string]int, len(resp.MetricHeaders))
	for i, h := range resp.MetricHeaders {
		index[h.Name] = i
	}

	report := &domain.AnalyticsReport{PropertyID: propertyID}

	for _, row := range resp.Rows {
		var out domain.AnalyticsRow

		if len(row.DimensionValues) > 0 {
			out.Date = formatGADate(row.DimensionValues[0].Value)
		}

		var err error
		if out.Sessions, err = metricValue(row.MetricValues, index, gaSessions); err != nil {
			return nil, err
		}
		if out.Users, err = metricValue(row.MetricValues, index, gaTotalUsers); err != nil {
			return nil, err
		}
		if out.BounceRate, err = metricValue(row.MetricValues, index, gaBounceRate); err != nil {
			return nil, err
		}

		report.Rows = append(report.Rows, out)
	}

	return report, nil
}

// metricValue reads a numeric metric by header name; a missing metric is zero
func metricValue(values []gaValue, index map[string]int, name string) (float64, error) {
	i, ok := index[name]
	if !ok || i >= len(values) || values[i].Value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(values[i].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: metric %s has non-numeric value %q", domain.ErrUpstream, name, values[i].Value)
	}
	return v, nil
}

// GA returns dates as YYYYMMDD
func formatGADate(s string) string {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return s
	}
	return t.Format(domain.DateLayout)
}
