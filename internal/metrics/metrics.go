// Package metrics records bootstrap step outcomes for node_exporter.
//
// Init hooks are short-lived, so nothing is served over HTTP. The
// [Recorder] collects into its own registry and writes a textfile that
// node_exporter's textfile collector picks up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements the bootstrap step observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	stepDuration  *prometheus.GaugeVec
	stepSuccess   *prometheus.GaugeVec
	leader        prometheus.Gauge
	tasksLaunched prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewRecorder returns a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "nodeinit",
				Subsystem: "step",
				Name:      "duration_seconds",
				Help:      "Wall time of the last run of each bootstrap step",
			},
			[]string{"step"},
		),
		stepSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "nodeinit",
				Subsystem: "step",
				Name:      "success",
				Help:      "Whether the last run of each bootstrap step succeeded (1) or failed (0)",
			},
			[]string{"step"},
		),
		leader: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nodeinit",
			Name:      "leader",
			Help:      "Whether this node detected the leader role (1) or not (0)",
		}),
		tasksLaunched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nodeinit",
			Name:      "background_tasks_launched",
			Help:      "Number of background init scripts started; their completion is not tracked",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nodeinit",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the bootstrap finished",
		}),
	}

	r.registry.MustRegister(r.stepDuration, r.stepSuccess, r.leader, r.tasksLaunched, r.lastRun)
	return r
}

// ObserveStep records a finished step.
func (r *Recorder) ObserveStep(step string, d time.Duration, err error) {
	r.stepDuration.WithLabelValues(step).Set(d.Seconds())
	if err != nil {
		r.stepSuccess.WithLabelValues(step).Set(0)
		return
	}
	r.stepSuccess.WithLabelValues(step).Set(1)
}

// SetLeader records the role decision.
func (r *Recorder) SetLeader(leader bool) {
	if leader {
		r.leader.Set(1)
		return
	}
	r.leader.Set(0)
}

// TaskLaunched counts a started background task.
func (r *Recorder) TaskLaunched(string) {
	r.tasksLaunched.Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile stamps the run time and writes all metrics to path
// atomically.
func (r *Recorder) WriteTextfile(path string, now time.Time) error {
	r.lastRun.Set(float64(now.Unix()))
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
