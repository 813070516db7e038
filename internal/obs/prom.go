package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yanun0323/logs"
)

// Recorder exports pipeline metrics through Prometheus.
type Recorder struct {
	counters  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	lastPrice *prometheus.GaugeVec
}

// NewRecorder registers the pipeline collectors for one service.
func NewRecorder(service string) *Recorder {
	labels := prometheus.Labels{"service": service}
	return &Recorder{
		counters: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "quantpipe_events_total",
				Help:        "Total pipeline events by kind",
				ConstLabels: labels,
			},
			[]string{"kind"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "quantpipe_operation_duration_seconds",
				Help:        "Duration of hot-path operations in seconds",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"operation"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "quantpipe_last_price",
				Help:        "Last observed price for a symbol",
				ConstLabels: labels,
			},
			[]string{"symbol"},
		),
	}
}

// IncCounter records one pipeline event.
func (r *Recorder) IncCounter(c Counter) {
	if r == nil {
		return
	}
	r.counters.WithLabelValues(c.String()).Inc()
}

// ObserveLatency records one duration sample.
func (r *Recorder) ObserveLatency(l Latency, d time.Duration) {
	if r == nil {
		return
	}
	r.latency.WithLabelValues(l.String()).Observe(d.Seconds())
}

// SetLastPrice records the latest price for a symbol.
func (r *Recorder) SetLastPrice(symbol string, price float64) {
	if r == nil {
		return
	}
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// Serve exposes /metrics on addr until the listener fails. Run it in its
// own goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logs.Errorf("metrics listener, err: %+v", err)
	}
}
