package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	socketConnections  prometheus.Counter
	messagesSentTotal  *prometheus.CounterVec
	uploadLatency      prometheus.Histogram
	uploadRejected     *prometheus.CounterVec
	votesCastTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connect_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "connect_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connect_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		socketConnections = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "connect_socket_connections_total",
			Help: "Total number of websocket connections accepted.",
		})

		messagesSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connect_messages_sent_total",
			Help: "Total number of chat messages delivered, by type.",
		}, []string{"type"})

		uploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "connect_upload_duration_seconds",
			Help:    "Duration of file upload requests.",
			Buckets: prometheus.DefBuckets,
		})

		uploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connect_uploads_rejected_total",
			Help: "Total number of uploads rejected before storage, by reason.",
		}, []string{"reason"})

		votesCastTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "connect_votes_cast_total",
			Help: "Total number of discussion votes applied, by entity.",
		}, []string{"entity"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			socketConnections,
			messagesSentTotal,
			uploadLatency,
			uploadRejected,
			votesCastTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// SocketConnectionsTotal exposes the websocket connection counter.
func SocketConnectionsTotal() prometheus.Counter {
	RegisterMetrics()
	return socketConnections
}

// MessagesSent exposes the per-type message counter.
func MessagesSent() *prometheus.CounterVec {
	RegisterMetrics()
	return messagesSentTotal
}

// UploadLatency exposes the upload duration histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatency
}

// UploadRejected exposes the rejected-upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejected
}

// VotesCast exposes the per-entity vote counter.
func VotesCast() *prometheus.CounterVec {
	RegisterMetrics()
	return votesCastTotal
}
