// pkg/cleaner/cleaner.go
package cleaner

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/David-Botos/data-cleaning/pkg/dedupe"
	"github.com/David-Botos/data-cleaning/pkg/metrics"
	"github.com/David-Botos/data-cleaning/pkg/model"
	"github.com/David-Botos/data-cleaning/pkg/summary"
)

// Session owns the original and working copies of one loaded table. The
// original is captured once per source and never mutated; cleaning
// operations change only the working copy, and Reset restores it.
//
// A Session is not safe for concurrent use; callers serialize actions.
type Session struct {
	id       string
	source   string
	original *model.Table
	working  *model.Table
	history  []model.CleaningOperation
	logger   *zap.Logger
	metrics  *metrics.CleaningMetrics
	now      func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithMetrics reports session activity to m
func WithMetrics(m *metrics.CleaningMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates an empty session
func NewSession(logger *zap.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	id := uuid.New().String()
	s := &Session{
		id:     id,
		logger: logger.Named("session").With(zap.String("session", id)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LoadOutcome describes what Load/Initialize did
type LoadOutcome struct {
	Reinitialized     bool
	DuplicatesRemoved int
	MissingRemoved    int
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Source returns the identifier of the loaded source, or "" when empty
func (s *Session) Source() string { return s.source }

// Loaded reports whether a table has been loaded
func (s *Session) Loaded() bool { return s.original != nil }

// Initialize captures t as the original snapshot and starts a fresh working
// copy. The requested load-time defaults run once, duplicates first.
func (s *Session) Initialize(source string, t *model.Table, opts model.LoadOptions) (LoadOutcome, error) {
	if t == nil {
		return LoadOutcome{}, errors.New("table cannot be nil")
	}

	s.source = source
	s.original = t.Clone()
	s.working = t.Clone()
	s.history = nil
	s.record(model.CleaningOperation{Operation: model.OpLoad, FillValue: source})
	s.metrics.RecordLoad(source, t.NumRows())

	s.logger.Info("Loaded table",
		zap.String("source", source),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()))

	out := LoadOutcome{Reinitialized: true}
	if opts.RemoveDuplicates {
		out.DuplicatesRemoved = s.removeDuplicates()
	}
	if opts.DropMissing {
		out.MissingRemoved = s.dropMissing()
	}
	return out, nil
}

// Load initializes the session for a new source. Loading the same source
// again keeps the current working copy and its mutations.
func (s *Session) Load(source string, t *model.Table, opts model.LoadOptions) (LoadOutcome, error) {
	if s.Loaded() && s.source == source {
		s.logger.Debug("Source unchanged, keeping working table", zap.String("source", source))
		return LoadOutcome{}, nil
	}
	return s.Initialize(source, t, opts)
}

// Reset discards every mutation by replacing the working table with a fresh
// copy of the original
func (s *Session) Reset() error {
	if !s.Loaded() {
		return model.ErrEmptySession
	}
	s.working = s.original.Clone()
	s.record(model.CleaningOperation{Operation: model.OpReset})
	s.logger.Info("Reset working table to original", zap.Int("rows", s.working.NumRows()))
	return nil
}

// DropAllMissing removes every working row with at least one missing cell
// and returns how many rows were removed
func (s *Session) DropAllMissing() (int, error) {
	if !s.Loaded() {
		return 0, model.ErrEmptySession
	}
	return s.dropMissing(), nil
}

// RemoveDuplicateRows keeps the first occurrence of each distinct working row
// and returns how many rows were removed
func (s *Session) RemoveDuplicateRows() (int, error) {
	if !s.Loaded() {
		return 0, model.ErrEmptySession
	}
	return s.removeDuplicates(), nil
}

// Original returns a copy of the original snapshot
func (s *Session) Original() (*model.Table, error) {
	if !s.Loaded() {
		return nil, model.ErrEmptySession
	}
	return s.original.Clone(), nil
}

// Working returns a copy of the working table
func (s *Session) Working() (*model.Table, error) {
	if !s.Loaded() {
		return nil, model.ErrEmptySession
	}
	return s.working.Clone(), nil
}

// Summary computes the data-quality summary of the working table
func (s *Session) Summary() (model.SummaryReport, error) {
	if !s.Loaded() {
		return model.SummaryReport{}, model.ErrEmptySession
	}
	return summary.ComputeSummary(s.working), nil
}

// Comparison returns the before/after view of original and working tables
func (s *Session) Comparison() (model.Comparison, error) {
	if !s.Loaded() {
		return model.Comparison{}, model.ErrEmptySession
	}
	return summary.Compare(s.original, s.working), nil
}

// Duplicates returns every working row that has an exact duplicate, as a
// table, together with the rows' indices in the working table
func (s *Session) Duplicates() (*model.Table, []int, error) {
	if !s.Loaded() {
		return nil, nil, model.ErrEmptySession
	}
	rows := dedupe.FindDuplicates(s.working)
	return s.working.SelectRows(rows), rows, nil
}

// History returns the operations applied since the last load
func (s *Session) History() []model.CleaningOperation {
	out := make([]model.CleaningOperation, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) record(op model.CleaningOperation) {
	op.ID = uuid.New().String()
	op.At = s.now()
	s.history = append(s.history, op)
}
