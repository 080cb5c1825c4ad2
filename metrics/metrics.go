package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var FetchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_fetch_attempts_total",
}, []string{"kind", "result"})
var FetchBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_fetch_bytes_total",
}, []string{"kind"})
var FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name: "media_fetch_duration_seconds",
}, []string{"kind"})
var MediaNormalized = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_normalized_total",
}, []string{"kind"})
var Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_uploads_total",
}, []string{"result"})
var S3Operations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_s3_operations_total",
}, []string{"operation"})
var NodeExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "media_node_executions_total",
}, []string{"node", "result"})
var QueueRunning = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "media_queue_running_workers",
}, []string{"queue"})

func init() {
	prometheus.MustRegister(FetchAttempts)
	prometheus.MustRegister(FetchBytes)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(MediaNormalized)
	prometheus.MustRegister(Uploads)
	prometheus.MustRegister(S3Operations)
	prometheus.MustRegister(NodeExecutions)
	prometheus.MustRegister(QueueRunning)
}
