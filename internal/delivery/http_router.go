package delivery

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"metricsbridge/internal/delivery/middleware"
	"metricsbridge/pkg/logger"
	"metricsbridge/pkg/metrics"
)

type HTTPRouter struct {
	handlers       *HTTPHandlers
	logger         *logger.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	requestTimeout time.Duration
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, gatherer prometheus.Gatherer, requestTimeout time.Duration) *HTTPRouter {
	return &HTTPRouter{
		handlers:       handlers,
		logger:         logger,
		metrics:        metrics,
		gatherer:       gatherer,
		requestTimeout: requestTimeout,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(r.requestTimeout))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	router.GET("/", r.handlers.GetServiceInfo)
	router.GET("/health", r.handlers.HealthCheck)
	router.GET("/metrics", r.handlers.GetMetrics)

	// Prometheus exposition; /metrics serves the combined record
	router.GET("/metrics/prometheus", middleware.PrometheusHandler(r.gatherer))

	return router
}
