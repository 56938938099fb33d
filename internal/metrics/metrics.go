// Package metrics counts navigation activity for Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tvnav/internal/domain"
)

const namespace = "tvnav"

// Recorder receives navigation counters. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Move(mode domain.Mode, result string)
	Activate(mode domain.Mode, ok bool)
	Back(source string, outcome domain.BackOutcome)
	Transition(name string)
	Pop(outcome string)
	KeyIntercepted(mode domain.Mode)
	Ready(attempts int)
}

// Nop discards everything
type Nop struct{}

func (Nop) Move(domain.Mode, string) {}
func (Nop) Activate(domain.Mode, bool) {}
func (Nop) Back(string, domain.BackOutcome) {}
func (Nop) Transition(string) {}
func (Nop) Pop(string) {}
func (Nop) KeyIntercepted(domain.Mode) {}
func (Nop) Ready(int) {}

// Prometheus records into its own registry
type Prometheus struct {
	registry    *prometheus.Registry
	moves       *prometheus.CounterVec
	activations *prometheus.CounterVec
	backs       *prometheus.CounterVec
	transitions *prometheus.CounterVec
	pops        *prometheus.CounterVec
	keys        *prometheus.CounterVec
	ready       prometheus.Gauge
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates a recorder with a private registry
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Directional moves by mode and result.",
		}, []string{"mode", "result"}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activations_total",
			Help:      "Activations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		backs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "back_total",
			Help:      "Back gestures by source and outcome.",
		}, []string{"source", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlay_transitions_total",
			Help:      "Overlay open, close and swap transitions.",
		}, []string{"transition"}),
		pops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_pops_total",
			Help:      "History pops by classification.",
		}, []string{"outcome"}),
		keys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keys_intercepted_total",
			Help:      "Key events consumed by the engine.",
		}, []string{"mode"}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready_attempts",
			Help:      "Polls needed before the first items appeared.",
		}),
	}
	p.registry.MustRegister(p.moves, p.activations, p.backs, p.transitions, p.pops, p.keys, p.ready)
	return p
}

func (p *Prometheus) Move(mode domain.Mode, result string) {
	p.moves.WithLabelValues(mode.String(), result).Inc()
}

func (p *Prometheus) Activate(mode domain.Mode, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	p.activations.WithLabelValues(mode.String(), outcome).Inc()
}

func (p *Prometheus) Back(source string, outcome domain.BackOutcome) {
	p.backs.WithLabelValues(source, outcome.String()).Inc()
}

func (p *Prometheus) Transition(name string) {
	p.transitions.WithLabelValues(name).Inc()
}

func (p *Prometheus) Pop(outcome string) {
	p.pops.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) KeyIntercepted(mode domain.Mode) {
	p.keys.WithLabelValues(mode.String()).Inc()
}

func (p *Prometheus) Ready(attempts int) {
	p.ready.Set(float64(attempts))
}

// Registry exposes the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (p *Prometheus) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics: listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
