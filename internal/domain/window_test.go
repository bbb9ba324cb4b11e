package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWindowResolve(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		window ReportWindow
		start  string
		end    string
	}{
		{WindowYesterday, "2026-10-18", "2026-10-18"},
		{WindowLast7Days, "2026-10-12", "2026-10-19"},
		{WindowLast30Days, "2026-09-19", "2026-10-19"},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			r := tt.window.Resolve(now)
			assert.Equal(t, tt.start, r.StartDate())
			assert.Equal(t, tt.end, r.EndDate())
		})
	}
}

func TestParseReportWindow(t *testing.T) {
	w, err := ParseReportWindow(" Yesterday ")
	require.NoError(t, err)
	assert.Equal(t, WindowYesterday, w)

	w, err = ParseReportWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowLast7Days, w)

	_, err = ParseReportWindow("7daysAgo")
	assert.Error(t, err)
}

func TestParseStatusRule(t *testing.T) {
	r, err := ParseStatusRule("ALL")
	require.NoError(t, err)
	assert.Equal(t, StatusRuleAll, r)

	r, err = ParseStatusRule("")
	require.NoError(t, err)
	assert.Equal(t, StatusRuleAnalytics, r)

	_, err = ParseStatusRule("ads")
	assert.Error(t, err)
}
