package domain

import (
	"context"
)

// daily analytics values as returned by the reporting API
type AnalyticsRow struct {
	Date       string
	Sessions   float64
	Users      float64
	BounceRate float64 // percentage, 0-100
}

type AnalyticsReport struct {
	PropertyID string
	Rows       []AnalyticsRow
}

// campaign aggregate as returned by the ads reporting API
type AdsRow struct {
	CampaignID   string
	CampaignName string
	CostMicros   int64
	Clicks       int64
	Conversions  float64
}

type AdsReport struct {
	CustomerID string
	Rows       []AdsRow
}

// interface for the analytics reporting API
type AnalyticsClient interface {
	RunReport(ctx context.Context, propertyID string, window DateRange) (*AnalyticsReport, error)
}

// interface for the ads reporting API
type AdsClient interface {
	CampaignReport(ctx context.Context, customerID string, window DateRange) (*AdsReport, error)
}
