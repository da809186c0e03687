package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 上游调用次数，按服务和结果划分
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advault_upstream_requests_total",
			Help: "Total number of calls to external services",
		},
		[]string{"service", "outcome"},
	)

	// 上游调用耗时
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advault_upstream_request_duration_seconds",
			Help:    "External service call latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	// 网关回退到演示数据的次数
	GatewayFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advault_gateway_fallbacks_total",
			Help: "Number of ad searches answered from the built-in dataset",
		},
		[]string{"reason"},
	)

	SelectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "advault_selection_size",
			Help: "Number of currently selected ads",
		},
	)

	// 保存任务，按终态划分
	UploadJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advault_upload_jobs_total",
			Help: "Upload jobs by terminal phase",
		},
		[]string{"phase"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advault_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advault_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// ObserveUpstream 记录一次上游调用
func ObserveUpstream(service, outcome string, start time.Time) {
	UpstreamRequests.WithLabelValues(service, outcome).Inc()
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware 记录基础 HTTP 指标。路径不作为标签，避免基数过高
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, req)

		httpRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	})
}
