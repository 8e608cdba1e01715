// Package ledger keeps a history of generation runs. It records metadata
// about each output (where, how many rows, which defects) and never reads the
// generated data back.
package ledger

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"pkg.jsn.cam/synthgen/pkg/defect"
	"pkg.jsn.cam/synthgen/pkg/sink"
	"pkg.jsn.cam/synthgen/pkg/storage"
)

// FormatVersion is the on-disk layout of runs. Ledgers written with another
// major version cannot be opened.
const FormatVersion = "v1.0.0"

var (
	ErrRunNotFound        = errors.New("run not found")
	ErrIncompatibleLedger = errors.New("incompatible ledger version")
)

var (
	runsBucket = []byte("runs")
	metaBucket = []byte("meta")
	versionKey = "version"
)

// Run describes one execution of one dataset generator.
type Run struct {
	ID         uuid.UUID                     `json:"id"`
	Dataset    string                        `json:"dataset"`
	Format     sink.Format                   `json:"format"`
	Path       string                        `json:"path,omitempty"`
	Seed       uint64                        `json:"seed"`
	Rows       int64                         `json:"rows"`
	Bytes      int64                         `json:"bytes"`
	Defects    map[string]defect.ColumnTally `json:"defects,omitempty"`
	StartedAt  time.Time                     `json:"started_at"`
	FinishedAt time.Time                     `json:"finished_at"`
	Version    string                        `json:"version"`
	// Interrupted is set when the run stopped before its generator was exhausted.
	Interrupted bool `json:"interrupted,omitempty"`
}

// NewRun starts a run record. IDs are time ordered.
func NewRun(dataset string, format sink.Format, path string, seed uint64) *Run {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Run{
		ID:        id,
		Dataset:   dataset,
		Format:    format,
		Path:      path,
		Seed:      seed,
		StartedAt: time.Now().UTC(),
		Version:   FormatVersion,
	}
}

// Finish stamps the run with its totals.
func (r *Run) Finish(rows, bytes int64, tally *defect.Tally) {
	r.Rows = rows
	r.Bytes = bytes
	if tally != nil {
		r.Defects = tally.Snapshot()
	}
	r.FinishedAt = time.Now().UTC()
}

// Corrupted is the number of defective values across all columns.
func (r *Run) Corrupted() int64 {
	var n int64
	for _, c := range r.Defects {
		n += c.Corrupted
	}
	return n
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Ledger stores runs in a storage.Backend.
type Ledger struct {
	backend storage.Backend
	logger  *zap.Logger
}

// Open prepares backend for use as a ledger, stamping a fresh one with
// FormatVersion and refusing one written by an incompatible version.
func Open(backend storage.Backend, logger *zap.Logger) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Ledger{backend: backend, logger: logger.Named("ledger")}

	existing, err := backend.BucketExists(metaBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect ledger: %w", err)
	}
	for _, bucket := range [][]byte{runsBucket, metaBucket} {
		if err := backend.CreateBucket(bucket); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if !existing {
		if err := storage.PutString(backend, metaBucket, versionKey, []byte(FormatVersion)); err != nil {
			return nil, fmt.Errorf("failed to write ledger version: %w", err)
		}
		l.logger.Debug("created ledger", zap.String("version", FormatVersion))
		return l, nil
	}

	stored, err := storage.GetString(backend, metaBucket, versionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger version: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: ledger has no version", ErrIncompatibleLedger)
	}

	ok, err := IsCompatibleVersion(string(stored), FormatVersion)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: ledger %s, synthgen %s", ErrIncompatibleLedger, stored, FormatVersion)
	}
	return l, nil
}

// OpenFile opens the bbolt ledger at path.
func OpenFile(path string, logger *zap.Logger) (*Ledger, error) {
	backend, err := storage.NewBboltBackend(path)
	if err != nil {
		return nil, err
	}
	l, err := Open(backend, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return l, nil
}

// IsCompatibleVersion reports whether a ledger written with version stored
// can be read by current. Major versions must match.
func IsCompatibleVersion(stored, current string) (bool, error) {
	if !semver.IsValid(stored) {
		return false, fmt.Errorf("invalid ledger version: %s", stored)
	}
	if !semver.IsValid(current) {
		return false, fmt.Errorf("invalid ledger version: %s", current)
	}
	return semver.Major(stored) == semver.Major(current), nil
}

// Record saves run, replacing any earlier run with the same ID.
func (l *Ledger) Record(run *Run) error {
	if run.ID == uuid.Nil {
		return fmt.Errorf("run has no ID")
	}
	if err := storage.PutJSON(l.backend, runsBucket, run.ID.String(), run); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	l.logger.Debug("run recorded",
		zap.Stringer("run", run.ID),
		zap.String("dataset", run.Dataset),
		zap.Int64("rows", run.Rows))
	return nil
}

// Get returns the run with the given ID.
func (l *Ledger) Get(id uuid.UUID) (*Run, error) {
	var run Run
	found, err := storage.GetJSON(l.backend, runsBucket, id.String(), &run)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return &run, nil
}

// List returns every run, newest first. Undecodable entries are skipped.
func (l *Ledger) List() ([]*Run, error) {
	var runs []*Run
	err := l.backend.ForEach(runsBucket, func(k, v []byte) error {
		var run Run
		if err := storage.DecodeJSON(v, &run); err != nil {
			l.logger.Warn("skipping undecodable run", zap.ByteString("key", k), zap.Error(err))
			return nil
		}
		runs = append(runs, &run)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(runs, func(a, b *Run) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})
	return runs, nil
}

// Prune deletes all but the newest keep runs and returns how many it removed.
func (l *Ledger) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("invalid keep count %d", keep)
	}
	if keep == 0 {
		return l.clear()
	}
	runs, err := l.List()
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}

	removed := 0
	for _, run := range runs[keep:] {
		if err := storage.DeleteString(l.backend, runsBucket, run.ID.String()); err != nil {
			return removed, fmt.Errorf("failed to delete run %s: %w", run.ID, err)
		}
		removed++
	}
	l.logger.Info("pruned ledger", zap.Int("removed", removed), zap.Int("kept", keep))
	return removed, nil
}

// clear drops every run, including entries List cannot decode.
func (l *Ledger) clear() (int, error) {
	removed := 0
	err := l.backend.ForEach(runsBucket, func(_, _ []byte) error {
		removed++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	if err := l.backend.DeleteBucket(runsBucket); err != nil {
		return 0, fmt.Errorf("failed to drop runs: %w", err)
	}
	if err := l.backend.CreateBucket(runsBucket); err != nil {
		return 0, fmt.Errorf("failed to create bucket: %w", err)
	}
	l.logger.Info("cleared ledger", zap.Int("removed", removed))
	return removed, nil
}

func (l *Ledger) Close() error {
	return l.backend.Close()
}
