package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type ReportWindow string

const (
	WindowYesterday  ReportWindow = "yesterday"
	WindowLast7Days  ReportWindow = "last_7_days"
	WindowLast30Days ReportWindow = "last_30_days"
)

// inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }
func (r DateRange) EndDate() string   { return r.End.Format(DateLayout) }

func ParseReportWindow(s string) (ReportWindow, error) {
	w := ReportWindow(strings.ToLower(strings.TrimSpace(s)))
	switch w {
	case WindowYesterday, WindowLast7Days, WindowLast30Days:
		return w, nil
	case "":
		return WindowLast7Days, nil
	}
	return "", fmt.Errorf("unknown report window %q", s)
}

// Resolve turns the window into concrete dates relative to now.
// last_N_days spans N days back through today, matching the "NdaysAgo".."today" range.
func (w ReportWindow) Resolve(now time.Time) DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch w {
	case WindowYesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}
	case WindowLast30Days:
		return DateRange{Start: today.AddDate(0, 0, -30), End: today}
	default:
		return DateRange{Start: today.AddDate(0, 0, -7), End: today}
	}
}

// StatusRule decides when a combined record counts as a success
type StatusRule string

const (
	// only the analytics source decides
	StatusRuleAnalytics StatusRule = "analytics"
	// analytics must succeed and ads must be success or skipped
	StatusRuleAll StatusRule = "all"
)

func ParseStatusRule(s string) (StatusRule, error) {
	r := StatusRule(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case StatusRuleAnalytics, StatusRuleAll:
		return r, nil
	case "":
		return StatusRuleAnalytics, nil
	}
	return "", fmt.Errorf("unknown status rule %q", s)
}
