package domain

import (
	"time"
)

type Status string

const (
	StatusSuccess     Status = "success"
	StatusError       Status = "error"
	StatusSkipped     Status = "skipped"
	StatusPlaceholder Status = "placeholder"
)

// Overall status values of a combined record
const (
	CombinedSuccess = "success"
	CombinedPartial = "partial"
)

// Source names
const (
	SourceAnalytics = "google_analytics"
	SourceAds       = "google_ads"
)

// Metric names
const (
	MetricSessions    = "sessions"
	MetricUsers       = "users"
	MetricBounceRate  = "bounce_rate"
	MetricCost        = "cost"
	MetricClicks      = "clicks"
	MetricConversions = "conversions"
)

// one row of upstream values: a day for analytics, a campaign for ads
type MetricRow struct {
	Date       string             `json:"date,omitempty"`
	CampaignID string             `json:"campaign_id,omitempty"`
	Campaign   string             `json:"campaign,omitempty"`
	Values     map[string]float64 `json:"values"`
}

// SourceMetrics is the normalized result of one upstream fetch.
// Records with StatusError always carry an Error message and their
// numeric values must not be read as real data.
type SourceMetrics struct {
	Source     string             `json:"source"`
	Status     Status             `json:"status"`
	Error      string             `json:"error,omitempty"`
	Message    string             `json:"message,omitempty"`
	Identifier string             `json:"identifier,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Rows       []MetricRow        `json:"data"`
}

func NewSuccessMetrics(source, identifier string, values map[string]float64, rows []MetricRow) *SourceMetrics {
	if values == nil {
		values = map[string]float64{}
	}
	if rows == nil {
		rows = []MetricRow{}
	}
	return &SourceMetrics{
		Source:     source,
		Status:     StatusSuccess,
		Identifier: identifier,
		Metrics:    values,
		Rows:       rows,
	}
}

func NewErrorMetrics(source, identifier, message string) *SourceMetrics {
	if message == "" {
		message = "unknown error"
	}
	return &SourceMetrics{
		Source:     source,
		Status:     StatusError,
		Error:      message,
		Identifier: identifier,
		Metrics:    map[string]float64{},
		Rows:       []MetricRow{},
	}
}

func NewSkippedMetrics(source, message string) *SourceMetrics {
	return &SourceMetrics{
		Source:  source,
		Status:  StatusSkipped,
		Message: message,
		Metrics: map[string]float64{},
		Rows:    []MetricRow{},
	}
}

func NewPlaceholderMetrics(source, identifier, message string) *SourceMetrics {
	return &SourceMetrics{
		Source:     source,
		Status:     StatusPlaceholder,
		Message:    message,
		Identifier: identifier,
		Metrics:    map[string]float64{},
		Rows:       []MetricRow{},
	}
}

// Value returns the named metric, or zero when it is missing or the record failed.
func (m *SourceMetrics) Value(name string) float64 {
	if m == nil || m.Status == StatusError {
		return 0
	}
	return m.Metrics[name]
}

func (m *SourceMetrics) IsError() bool {
	return m != nil && m.Status == StatusError
}

// caller supplied collection context
type Metadata map[string]any

// CombinedRecord is the payload served on /metrics
type CombinedRecord struct {
	GoogleAnalytics *SourceMetrics `json:"google_analytics"`
	GoogleAds       *SourceMetrics `json:"google_ads"`

	Sessions    float64 `json:"sessions"`
	Users       float64 `json:"users"`
	BounceRate  float64 `json:"bounce_rate"`
	AdSpend     float64 `json:"ad_spend"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`

	Metadata  Metadata          `json:"metadata"`
	Timestamp time.Time         `json:"timestamp"`
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}
