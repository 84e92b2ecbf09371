package observability

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "homeservices"

// Recorder receives counters from the state container, the job lifecycle
// and the HTTP facade. Implementations must tolerate concurrent use.
type Recorder interface {
	IncDispatch(action string)
	IncTransition(event string, allowed bool)
	ObserveGatewayCall(op string, d time.Duration, success bool)
	RecordRequest(route, method string, status int, d time.Duration)
}

// NoopRecorder discards everything. It is the default when metrics are off.
type NoopRecorder struct{}

func (NoopRecorder) IncDispatch(string)                               {}
func (NoopRecorder) IncTransition(string, bool)                       {}
func (NoopRecorder) ObserveGatewayCall(string, time.Duration, bool)   {}
func (NoopRecorder) RecordRequest(string, string, int, time.Duration) {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	dispatches      *prom.CounterVec
	transitions     *prom.CounterVec
	gatewayDuration *prom.HistogramVec
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers the service metrics on reg.
// A nil registry gets a private one so tests never touch the global default.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.dispatches = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "store_dispatches_total",
			Help:      "Actions dispatched into the state container",
		}, []string{"action"})
		pr.transitions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "job_transitions_total",
			Help:      "Job lifecycle events by outcome",
		}, []string{"event", "result"})
		pr.gatewayDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_call_duration_seconds",
			Help:      "Latency of calls to external collaborators",
			Buckets:   prom.DefBuckets,
		}, []string{"op", "result"})
		pr.requests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"})
		pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "method"})
		reg.MustRegister(pr.dispatches, pr.transitions, pr.gatewayDuration, pr.requests, pr.requestDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncDispatch(action string) {
	if p == nil || p.dispatches == nil {
		return
	}
	p.dispatches.WithLabelValues(action).Inc()
}

func (p *PrometheusRecorder) IncTransition(event string, allowed bool) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(event, resultLabel(allowed, "applied", "rejected")).Inc()
}

func (p *PrometheusRecorder) ObserveGatewayCall(op string, d time.Duration, success bool) {
	if p == nil || p.gatewayDuration == nil {
		return
	}
	p.gatewayDuration.WithLabelValues(op, resultLabel(success, "success", "failed")).Observe(d.Seconds())
}

func (p *PrometheusRecorder) RecordRequest(route, method string, status int, d time.Duration) {
	if p == nil || p.requests == nil {
		return
	}
	p.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func resultLabel(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
