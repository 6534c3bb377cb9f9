// Package prometheus implements chassis.MetricsProvider with Prometheus
// collectors.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/chassis"
)

// Provider records chassis and binding events as Prometheus metrics.
type Provider struct {
	publishes    *prometheus.CounterVec
	publishTime  *prometheus.HistogramVec
	rejects      *prometheus.CounterVec
	status       *prometheus.GaugeVec
	subscribers  prometheus.Gauge
	bindingState *prometheus.GaugeVec
	processed    *prometheus.CounterVec
	processTime  *prometheus.HistogramVec
	changes      prometheus.Counter
}

var _ chassis.MetricsProvider = (*Provider)(nil)

// New creates a Provider and registers its collectors with reg. Every
// metric name is prefixed with namespace, e.g. "signup".
func New(reg prometheus.Registerer, namespace string) (*Provider, error) {
	p := &Provider{
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chassis_publishes_total",
			Help:      "Snapshots published, by operation.",
		}, []string{"operation"}),
		publishTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chassis_publish_duration_seconds",
			Help:      "Time to compute and fan out a snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"operation"}),
		rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chassis_rejects_total",
			Help:      "Operations rejected before publishing, by operation.",
		}, []string{"operation"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chassis_status",
			Help:      "1 for the current form status, 0 otherwise.",
		}, []string{"status"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chassis_subscribers",
			Help:      "Active snapshot subscriptions.",
		}),
		bindingState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chassis_binding_state",
			Help:      "1 for the current binding state, 0 otherwise.",
		}, []string{"state"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chassis_binding_processed_total",
			Help:      "Binding patches processed, by result.",
		}, []string{"result"}),
		processTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chassis_binding_process_duration_seconds",
			Help:      "Time to decode and apply a binding patch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		changes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chassis_binding_changes_total",
			Help:      "Raw changes received from binding watchers.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.publishes, p.publishTime, p.rejects, p.status, p.subscribers,
		p.bindingState, p.processed, p.processTime, p.changes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Provider) OnPublish(op chassis.Operation, d time.Duration) {
	p.publishes.WithLabelValues(string(op)).Inc()
	p.publishTime.WithLabelValues(string(op)).Observe(d.Seconds())
}

func (p *Provider) OnReject(op chassis.Operation) {
	p.rejects.WithLabelValues(string(op)).Inc()
}

func (p *Provider) OnStatusChange(from, to chassis.Status) {
	p.status.WithLabelValues(from.String()).Set(0)
	p.status.WithLabelValues(to.String()).Set(1)
}

func (p *Provider) OnSubscribers(count int) {
	p.subscribers.Set(float64(count))
}

func (p *Provider) OnStateChange(from, to chassis.State) {
	p.bindingState.WithLabelValues(from.String()).Set(0)
	p.bindingState.WithLabelValues(to.String()).Set(1)
}

func (p *Provider) OnProcessSuccess(d time.Duration) {
	p.processed.WithLabelValues("success").Inc()
	p.processTime.WithLabelValues("success").Observe(d.Seconds())
}

// OnProcessFailure labels the failure with its stage, "decode" or "apply".
func (p *Provider) OnProcessFailure(stage string, d time.Duration) {
	p.processed.WithLabelValues(stage).Inc()
	p.processTime.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *Provider) OnChangeReceived() {
	p.changes.Inc()
}
