// Package metrics exposes client-side counters for polling and API traffic.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"careerdeck/internal/logging"
	"careerdeck/internal/poll"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the careerdeck collectors on a private registry.
type Collector struct {
	registry *prometheus.Registry

	polls        *prometheus.CounterVec
	pollDuration *prometheus.HistogramVec
	requests     *prometheus.CounterVec
	reqDuration  *prometheus.HistogramVec
	writes       *prometheus.CounterVec
}

// New creates a collector with Go runtime metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careerdeck",
			Name:      "poll_ticks_total",
			Help:      "Poll ticks by poller and outcome (success, failure, stale, skipped).",
		}, []string{"poller", "outcome"}),
		pollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careerdeck",
			Name:      "poll_fetch_seconds",
			Help:      "Duration of poll fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"poller"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careerdeck",
			Name:      "api_requests_total",
			Help:      "API requests by method and status code (0 for transport errors).",
		}, []string{"method", "code"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careerdeck",
			Name:      "api_request_seconds",
			Help:      "Duration of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careerdeck",
			Name:      "optimistic_writes_total",
			Help:      "Optimistic writes by kind and final status (confirmed, failed).",
		}, []string{"kind", "status"}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		c.polls, c.pollDuration, c.requests, c.reqDuration, c.writes,
	)
	return c
}

// ObservePoll implements poll.Observer.
func (c *Collector) ObservePoll(poller string, outcome poll.Outcome, elapsed time.Duration) {
	c.polls.WithLabelValues(poller, string(outcome)).Inc()
	if outcome != poll.OutcomeSkipped {
		c.pollDuration.WithLabelValues(poller).Observe(elapsed.Seconds())
	}
}

// ObserveRequest implements api.Observer. Paths are not used as labels to
// keep cardinality bounded.
func (c *Collector) ObserveRequest(method, _ string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.reqDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveWrite counts the resolution of an optimistic write.
func (c *Collector) ObserveWrite(kind string, ok bool) {
	status := "confirmed"
	if !ok {
		status = "failed"
	}
	c.writes.WithLabelValues(kind, status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logging.Boot("metrics listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
