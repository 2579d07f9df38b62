package observability

import (
	"errors"
	"log/slog"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the lifecycle hooks.
type Metrics struct {
	actions      *prometheus.CounterVec
	noops        *prometheus.CounterVec
	calculations *prometheus.CounterVec
	operations   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calcgame_history_transitions_total",
				Help: "History transitions by kind (do, undo, redo).",
			},
			[]string{"type"},
		),
		noops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calcgame_history_noops_total",
				Help: "Undo or redo requests that had nothing to do.",
			},
			[]string{"type"},
		),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calcgame_calculations_total",
				Help: "Screen evaluations by outcome.",
			},
			[]string{"outcome"},
		),
		operations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "calcgame_calculation_operations",
			Help:    "Operations counted in successful calculations.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}

	var err error
	if m.actions, err = register(reg, m.actions); err != nil {
		return nil, err
	}
	if m.noops, err = register(reg, m.noops); err != nil {
		return nil, err
	}
	if m.calculations, err = register(reg, m.calculations); err != nil {
		return nil, err
	}
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	transition := func(e *domain.ActionEvent) {
		if e.Err != nil {
			m.noops.WithLabelValues(string(e.Type)).Inc()
			return
		}
		m.actions.WithLabelValues(string(e.Type)).Inc()
	}
	return domain.LifecycleHooks{
		OnDo:   transition,
		OnUndo: transition,
		OnRedo: transition,
		OnCalculate: func(e *domain.CalculationEvent) {
			if e.Err != nil {
				m.calculations.WithLabelValues("error").Inc()
				return
			}
			m.calculations.WithLabelValues("ok").Inc()
			m.operations.Observe(float64(e.Operations))
		},
	}
}

// LogHooks returns lifecycle hooks that log every event at debug level,
// and failed calculations at info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	transition := func(e *domain.ActionEvent) {
		if e.Err != nil {
			logger.Debug("history no-op", "type", e.Type, "cursor", e.Cursor, "err", e.Err)
			return
		}
		logger.Debug("history transition", "type", e.Type, "action", e.Name, "cursor", e.Cursor)
	}
	return domain.LifecycleHooks{
		OnDo:   transition,
		OnUndo: transition,
		OnRedo: transition,
		OnCalculate: func(e *domain.CalculationEvent) {
			if e.Err != nil {
				logger.Info("calculation failed", "source", e.Source, "err", e.Err)
				return
			}
			logger.Debug("calculation", "source", e.Source, "result", e.Result, "operations", e.Operations)
		},
	}
}
