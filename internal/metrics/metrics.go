package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "sessionplanner"

// Recorder collects optimization runs as prometheus metrics on its own registry
type Recorder struct {
	registry       *prometheus.Registry
	runs           *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	scheduled      *prometheus.GaugeVec
	nodesVisited   *prometheus.CounterVec
	branchesPruned *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Optimization runs by strategy.",
		}, []string{"strategy"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed optimization runs by strategy and cause.",
		}, []string{"strategy", "cause"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of optimization runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"strategy"}),
		scheduled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduled_sessions",
			Help:      "Sessions scheduled by the latest successful run, by strategy and priority.",
		}, []string{"strategy", "priority"}),
		nodesVisited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_nodes_visited_total",
			Help:      "Search tree nodes visited.",
		}, []string{"strategy"}),
		branchesPruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_branches_pruned_total",
			Help:      "Search subtrees pruned by the bound.",
		}, []string{"strategy"}),
	}

	recorder.registry.MustRegister(
		recorder.runs,
		recorder.failures,
		recorder.duration,
		recorder.scheduled,
		recorder.nodesVisited,
		recorder.branchesPruned,
	)
	return recorder
}

func (recorder *Recorder) RecordRun(strategy model.Strategy, duration time.Duration, score model.Score, search model.SearchStats, err error) {
	label := string(strategy)
	recorder.runs.WithLabelValues(label).Inc()
	recorder.duration.WithLabelValues(label).Observe(duration.Seconds())
	recorder.nodesVisited.WithLabelValues(label).Add(float64(search.NodesVisited))
	recorder.branchesPruned.WithLabelValues(label).Add(float64(search.BranchesPruned))

	if err != nil {
		recorder.failures.WithLabelValues(label, Cause(err)).Inc()
		return
	}
	recorder.scheduled.WithLabelValues(label, model.MustAttend.String()).Set(float64(score.MustAttend))
	recorder.scheduled.WithLabelValues(label, model.Optional.String()).Set(float64(score.Optional))
}

// Cause classifies an optimization error into a low-cardinality label
func Cause(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, model.ErrMissingTravelTime):
		return "missing_travel_time"
	case errors.Is(err, model.ErrSolverUnavailable):
		return "solver_unavailable"
	case errors.Is(err, model.ErrSolverFailed):
		return "solver_failed"
	}
	return "other"
}

func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// WriteText dumps every metric in the prometheus text exposition format
func (recorder *Recorder) WriteText(out io.Writer) error {
	families, err := recorder.registry.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(out, family); err != nil {
			return err
		}
	}
	return nil
}
