package delivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"metricsbridge/internal/domain"
	"metricsbridge/internal/usecase"
	"metricsbridge/pkg/logger"
)

// MetricsCollector is the core sequence the handlers expose
type MetricsCollector interface {
	Collect(ctx context.Context, req usecase.CollectRequest) *domain.CombinedRecord
	Window() domain.ReportWindow
}

// Identifiers used when a request does not override them
type Defaults struct {
	PropertyID string
	CustomerID string
}

// handles HTTP requests
type HTTPHandlers struct {
	collector MetricsCollector
	defaults  Defaults
	version   string
	startedAt time.Time
	logger    *logger.Logger
}

// creates new HTTP handlers
func NewHTTPHandlers(collector MetricsCollector, defaults Defaults, version string, logger *logger.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		collector: collector,
		defaults:  defaults,
		version:   version,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// GetMetrics fetches both sources and returns the combined record
func (h *HTTPHandlers) GetMetrics(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	propertyID := c.DefaultQuery("property_id", h.defaults.PropertyID)
	customerID := c.DefaultQuery("customer_id", h.defaults.CustomerID)

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"property_id": propertyID,
		"customer_id": customerID,
	}).Info("Collecting metrics")

	meta := domain.Metadata{}
	if requestID != "" {
		meta["request_id"] = requestID
	}

	record := h.collector.Collect(ctx, usecase.CollectRequest{
		PropertyID: propertyID,
		CustomerID: customerID,
		Metadata:   meta,
	})
	if record == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to collect metrics",
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// HealthCheck reports liveness
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetServiceInfo describes the service and its endpoints
func (h *HTTPHandlers) GetServiceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":       "metricsbridge",
		"version":       h.version,
		"description":   "Combined Google Analytics 4 and Google Ads metrics",
		"report_window": h.collector.Window(),
		"endpoints": gin.H{
			"metrics": gin.H{
				"path":        "/metrics",
				"description": "Fetch both sources and return the combined record",
				"parameters": gin.H{
					"property_id": "Optional: GA4 property ID, defaults to GOOGLE_ANALYTICS_PROPERTY",
					"customer_id": "Optional: Google Ads customer ID, defaults to GOOGLE_ADS_CUSTOMER_ID",
				},
				"example": "/metrics?property_id=522918452",
			},
			"health": gin.H{
				"path":        "/health",
				"description": "Liveness check",
			},
			"prometheus": gin.H{
				"path":        "/metrics/prometheus",
				"description": "Prometheus metrics",
			},
		},
		"request_id": c.GetString("request_id"),
	})
}
