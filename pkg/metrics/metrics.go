package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/model"
)

// Outcome labels for strategy counters
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
)

// CleaningMetrics tracks cleaning activity across sessions. Counters are
// exported to Prometheus; Totals keeps an in-process copy for logging and
// reporting. All methods are safe on a nil receiver.
type CleaningMetrics struct {
	mu        sync.Mutex
	logger    *zap.Logger
	startTime time.Time
	totals    Totals

	sessionsLoaded prometheus.Counter
	strategies     *prometheus.CounterVec
	cellsFilled    prometheus.Counter
	rowsRemoved    *prometheus.CounterVec
}

// Totals is a point-in-time copy of the collected counters
type Totals struct {
	SessionsLoaded    int
	StrategiesApplied int
	StrategiesSkipped int
	CellsFilled       int
	RowsRemoved       map[string]int // operation -> rows
	Uptime            time.Duration
}

// NewCleaningMetrics creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewCleaningMetrics(reg prometheus.Registerer, logger *zap.Logger) *CleaningMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &CleaningMetrics{
		logger:    logger,
		startTime: time.Now(),
		totals:    Totals{RowsRemoved: make(map[string]int)},
		sessionsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datacleaner",
			Name:      "sessions_loaded_total",
			Help:      "Tables loaded into a cleaning session.",
		}),
		strategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datacleaner",
			Name:      "strategies_total",
			Help:      "Per-column strategies requested, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		cellsFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datacleaner",
			Name:      "cells_filled_total",
			Help:      "Missing cells replaced by imputation.",
		}),
		rowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datacleaner",
			Name:      "rows_removed_total",
			Help:      "Rows removed from working tables, by operation.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.sessionsLoaded, m.strategies, m.cellsFilled, m.rowsRemoved)
	}
	return m
}

// RecordLoad counts a table loaded into a session
func (m *CleaningMetrics) RecordLoad(source string, rows int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals.SessionsLoaded++
	m.sessionsLoaded.Inc()
	m.logger.Debug("Recorded table load", zap.String("source", source), zap.Int("rows", rows))
}

// RecordStrategy counts one per-column strategy outcome
func (m *CleaningMetrics) RecordStrategy(kind model.StrategyKind, applied bool, filled int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	outcome := OutcomeSkipped
	if applied {
		outcome = OutcomeApplied
		m.totals.StrategiesApplied++
		m.totals.CellsFilled += filled
		m.cellsFilled.Add(float64(filled))
	} else {
		m.totals.StrategiesSkipped++
	}
	m.strategies.WithLabelValues(kind.String(), outcome).Inc()
}

// RecordRowsRemoved counts rows dropped by a row-level operation
func (m *CleaningMetrics) RecordRowsRemoved(operation string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totals.RowsRemoved[operation] += rows
	m.rowsRemoved.WithLabelValues(operation).Add(float64(rows))
}

// Snapshot returns a copy of the current totals
func (m *CleaningMetrics) Snapshot() Totals {
	if m == nil {
		return Totals{RowsRemoved: map[string]int{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.totals
	t.RowsRemoved = make(map[string]int, len(m.totals.RowsRemoved))
	for k, v := range m.totals.RowsRemoved {
		t.RowsRemoved[k] = v
	}
	t.Uptime = time.Since(m.startTime)
	return t
}

// LogSummary writes the current totals to the logger
func (m *CleaningMetrics) LogSummary() {
	if m == nil {
		return
	}
	t := m.Snapshot()
	m.logger.Info("Cleaning activity",
		zap.Duration("uptime", t.Uptime),
		zap.Int("sessionsLoaded", t.SessionsLoaded),
		zap.Int("strategiesApplied", t.StrategiesApplied),
		zap.Int("strategiesSkipped", t.StrategiesSkipped),
		zap.Int("cellsFilled", t.CellsFilled),
		zap.Int("duplicateRowsRemoved", t.RowsRemoved[model.OpDropDuplicates]),
		zap.Int("missingRowsRemoved", t.RowsRemoved[model.OpDropMissing]))
}
