package metricsx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	storeFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_fetch_duration_seconds",
			Help:    "Key-path store fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection"},
	)
	storeFetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fetch_failures_total",
			Help: "Total key-path store fetch failures by collection.",
		},
		[]string{"collection"},
	)
	droppedTimestamps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_dropped_timestamps_total",
			Help: "Scan events dropped from bucketing because the log id held no parseable HHMM timestamp.",
		},
	)
	unjoinedRefs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_unjoined_refs_total",
			Help: "Order items skipped during aggregation because no placement parameter matched the product ref.",
		},
	)
	snapshotCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_cache_hits_total",
			Help: "Snapshot cache hits by collection.",
		},
		[]string{"collection"},
	)
	snapshotCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_cache_misses_total",
			Help: "Snapshot cache misses by collection.",
		},
		[]string{"collection"},
	)
	kafkaConsumerLag = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_consumer_lag",
			Help: "Kafka consumer lag by topic.",
		},
		[]string{"topic", "group"},
	)
	ingestAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_events_accepted_total",
			Help: "Scan events accepted by the ingest consumer.",
		},
	)
	ingestDeadLettered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_events_dead_lettered_total",
			Help: "Scan events routed to the dead-letter topic.",
		},
	)
	influxWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "influx_write_failures_total",
			Help: "Total InfluxDB write failures.",
		},
	)
	telegramSendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_send_failures_total",
			Help: "Total Telegram alert send failures.",
		},
	)
	asynqQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asynq_queue_depth",
			Help: "Asynq queue depth by queue.",
		},
		[]string{"queue"},
	)
)

func Register() {
	prometheus.MustRegister(
		httpRequests, httpLatency,
		storeFetchLatency, storeFetchFailures,
		droppedTimestamps, unjoinedRefs,
		snapshotCacheHits, snapshotCacheMisses,
		kafkaConsumerLag, ingestAccepted, ingestDeadLettered,
		influxWriteFailures, telegramSendFailures, asynqQueueDepth,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		status := strconv.Itoa(lrw.statusCode)
		httpRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpLatency.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}

func ObserveStoreFetch(collection string, d time.Duration) {
	storeFetchLatency.WithLabelValues(collection).Observe(d.Seconds())
}

func IncStoreFetchFailure(collection string) {
	storeFetchFailures.WithLabelValues(collection).Inc()
}

func AddDroppedTimestamps(n int) {
	if n > 0 {
		droppedTimestamps.Add(float64(n))
	}
}

func AddUnjoinedRefs(n int) {
	if n > 0 {
		unjoinedRefs.Add(float64(n))
	}
}

func IncSnapshotCacheHit(collection string) {
	snapshotCacheHits.WithLabelValues(collection).Inc()
}

func IncSnapshotCacheMiss(collection string) {
	snapshotCacheMisses.WithLabelValues(collection).Inc()
}

func SetKafkaLag(topic string, group string, lag int64) {
	kafkaConsumerLag.WithLabelValues(topic, group).Set(float64(lag))
}

func IncIngestAccepted() {
	ingestAccepted.Inc()
}

func IncIngestDeadLettered() {
	ingestDeadLettered.Inc()
}

func IncInfluxWriteFailure() {
	influxWriteFailures.Inc()
}

func IncTelegramSendFailure() {
	telegramSendFailures.Inc()
}

func SetAsynqQueueDepth(queue string, depth int) {
	asynqQueueDepth.WithLabelValues(queue).Set(float64(depth))
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
