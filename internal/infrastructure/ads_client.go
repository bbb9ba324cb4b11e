package infrastructure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"metricsbridge/internal/domain"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

// guards against a server that never stops returning page tokens
const maxAdsPages = 50

type AdsClientOptions struct {
	ClientOptions
	APIVersion      string
	DeveloperToken  string
	LoginCustomerID string
}

type adsSearchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

// int64 fields arrive as JSON strings
type adsSearchResponse struct {
	Results []struct {
		Campaign struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"campaign"`
		Metrics struct {
			CostMicros  int64   `json:"costMicros,string"`
			Clicks      int64   `json:"clicks,string"`
			Conversions float64 `json:"conversions"`
		} `json:"metrics"`
	} `json:"results"`
	NextPageToken string `json:"nextPageToken"`
}

// AdsAPIClient implements domain.AdsClient against the Google Ads REST API
type AdsAPIClient struct {
	http    *httpClient
	baseURL string
	opts    AdsClientOptions
}

func NewAdsAPIClient(baseURL string, ts oauth2.TokenSource, opts AdsClientOptions, logger *logger.Logger, metrics *metrics.Metrics) *AdsAPIClient {
	if opts.APIVersion == "" {
		opts.APIVersion = "v21"
	}
	opts.LoginCustomerID = strings.ReplaceAll(opts.LoginCustomerID, "-", "")

	return &AdsAPIClient{
		http:    newHTTPClient("ads", ts, opts.ClientOptions, logger, metrics),
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
	}
}

func CampaignQuery(window domain.DateRange) string {
	return fmt.Sprintf(
		"SELECT campaign.id, campaign.name, metrics.cost_micros, metrics.clicks, metrics.conversions "+
			"FROM campaign WHERE segments.date BETWEEN '%s' AND '%s'",
		window.StartDate(), window.EndDate(),
	)
}

// CampaignReport returns campaign-level aggregates for the window, following pagination.
func (c *AdsAPIClient) CampaignReport(ctx context.Context, customerID string, window domain.DateRange) (*domain.AdsReport, error) {
	endpoint := fmt.Sprintf("%s/%s/customers/%s/googleAds:search", c.baseURL, c.opts.APIVersion, url.PathEscape(customerID))
	headers := map[string]string{
		"developer-token":   c.opts.DeveloperToken,
		"login-customer-id": c.opts.LoginCustomerID,
	}

	report := &domain.AdsReport{CustomerID: customerID}
	request := adsSearchRequest{Query: CampaignQuery(window)}

	for page := 0; page < maxAdsPages; page++ {
		var response adsSearchResponse
		if err := c.http.postJSON(ctx, endpoint, headers, request, &response); err != nil {
			return nil, err
		}

		for _, r := range response.Results {
			report.Rows = append(report.Rows, domain.AdsRow{
				CampaignID:   r.Campaign.ID,
				CampaignName: r.Campaign.Name,
				CostMicros:   r.Metrics.CostMicros,
				Clicks:       r.Metrics.Clicks,
				Conversions:  r.Metrics.Conversions,
			})
		}

		if response.NextPageToken == "" {
			c.http.logger.WithContext(ctx).WithFields(map[string]any{
				"customer_id": customerID,
				"campaigns":   len(report.Rows),
				"pages":       page + 1,
			}).Info("Successfully fetched ads report")
			return report, nil
		}
		request.PageToken = response.NextPageToken
	}

	return nil, fmt.Errorf("%w: ads report exceeded %d pages", domain.ErrUpstream, maxAdsPages)
}
