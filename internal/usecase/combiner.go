package usecase

import (
	"strings"
	"time"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
)

// Combiner merges the analytics and ads records into one payload.
// Combine is total: any pair of records, nil included, yields a record.
type Combiner struct {
	rule   domain.StatusRule
	now    func() time.Time
	logger *logger.Logger
}

func NewCombiner(rule domain.StatusRule, logger *logger.Logger) *Combiner {
	if rule == "" {
		rule = domain.StatusRuleAnalytics
	}
	return &Combiner{
		rule:   rule,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the timestamp source
func (c *Combiner) WithClock(now func() time.Time) *Combiner {
	c.now = now
	return c
}

func (c *Combiner) Combine(ga, ads *domain.SourceMetrics, meta domain.Metadata) *domain.CombinedRecord {
	if ga == nil {
		ga = domain.NewErrorMetrics(domain.SourceAnalytics, "", "analytics data is missing")
	}
	if ads == nil {
		ads = domain.NewErrorMetrics(domain.SourceAds, "", "ads data is missing")
	}
	ga = normalizeRecord(ga, domain.SourceAnalytics)
	ads = normalizeRecord(ads, domain.SourceAds)

	record := &domain.CombinedRecord{
		GoogleAnalytics: ga,
		GoogleAds:       ads,

		Sessions:    ga.Value(domain.MetricSessions),
		Users:       ga.Value(domain.MetricUsers),
		BounceRate:  ga.Value(domain.MetricBounceRate),
		AdSpend:     ads.Value(domain.MetricCost),
		Clicks:      ads.Value(domain.MetricClicks),
		Conversions: ads.Value(domain.MetricConversions),

		Metadata:  copyMetadata(meta),
		Timestamp: c.now().UTC(),
		Status:    c.overallStatus(ga, ads),
	}

	var messages []string
	for _, src := range []*domain.SourceMetrics{ga, ads} {
		if !src.IsError() {
			continue
		}
		if record.Errors == nil {
			record.Errors = make(map[string]string, 2)
		}
		record.Errors[src.Source] = src.Error
		messages = append(messages, src.Error)

		c.logger.WithFields(map[string]any{
			"source": src.Source,
			"error":  src.Error,
		}).Warn("Source returned an error")
	}
	record.Error = strings.Join(messages, "; ")

	c.logger.WithFields(map[string]any{
		"status":      record.Status,
		"rule":        c.rule,
		"ga_status":   ga.Status,
		"ads_status":  ads.Status,
		"sessions":    record.Sessions,
		"ad_spend":    record.AdSpend,
		"error_count": len(messages),
	}).Debug("Combined metrics")

	return record
}

func (c *Combiner) overallStatus(ga, ads *domain.SourceMetrics) string {
	if ga.Status != domain.StatusSuccess {
		return domain.CombinedPartial
	}
	if c.rule == domain.StatusRuleAll && ads.Status != domain.StatusSuccess && ads.Status != domain.StatusSkipped {
		return domain.CombinedPartial
	}
	return domain.CombinedSuccess
}

// normalizeRecord returns a copy labelled with its slot, with every collection
// present and the values of error records dropped. The input is not modified.
func normalizeRecord(in *domain.SourceMetrics, source string) *domain.SourceMetrics {
	out := *in
	out.Source = source

	out.Metrics = make(map[string]float64, len(in.Metrics))
	if in.Status != domain.StatusError {
		for k, v := range in.Metrics {
			out.Metrics[k] = v
		}
	}
	if in.Rows == nil || in.Status == domain.StatusError {
		out.Rows = []domain.MetricRow{}
	}

	if out.Status == domain.StatusError && out.Error == "" {
		out.Error = "unknown error"
	}
	return &out
}

func copyMetadata(meta domain.Metadata) domain.Metadata {
	out := make(domain.Metadata, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
