package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/school-admissions-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the admissions API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sequenceIssued  *prometheus.CounterVec
	documentsTotal  *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	sequenceIssued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sequence_numbers_issued_total",
		Help: "Record numbers issued per entity",
	}, []string{"entity"})

	documentsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_rendered_total",
		Help: "Generated admit cards and letters per type",
	}, []string{"type"})

	registry.MustRegister(requestDuration, requestTotal, sequenceIssued, documentsTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sequenceIssued:  sequenceIssued,
		documentsTotal:  documentsTotal,
	}
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// SequenceIssued counts one issued record number.
func (s *MetricsService) SequenceIssued(entity models.SequenceEntity) {
	s.sequenceIssued.WithLabelValues(string(entity)).Inc()
}

// DocumentRendered counts one generated document.
func (s *MetricsService) DocumentRendered(docType string) {
	s.documentsTotal.WithLabelValues(docType).Inc()
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}
