package tables

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/model"
)

// Table names. Each maps to <name>.csv inside the data directory.
const (
	TableComponents          = "components"
	TableTechnologies        = "technologies"
	TableClasses             = "classes"
	TableComponentTechnology = "component_technology"
	TableClassComponent      = "class_component"
	TableChangeLog           = "change_log"
)

// AllTables lists every table the store manages, in load order.
var AllTables = []string{
	TableComponents,
	TableTechnologies,
	TableClasses,
	TableComponentTechnology,
	TableClassComponent,
	TableChangeLog,
}

// Store owns the in-memory snapshot of the six tables and their on-disk
// CSV representation. It provides no locking; see the package doc for the
// multi-process write discipline.
type Store struct {
	dir    string
	logger *zap.Logger
	snap   *model.Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads all six tables from dir. It fails with an IOFailure if any
// required table is absent or unreadable.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{dir: dir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.logger.Info("table store loaded",
		zap.String("dir", dir),
		zap.Int("components", len(s.snap.Components)),
		zap.Int("technologies", len(s.snap.Technologies)),
		zap.Int("classes", len(s.snap.Classes)),
		zap.Int("log_entries", len(s.snap.ChangeLog)))
	return s, nil
}

// Dir returns the data directory the store was opened on.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path of a table.
func (s *Store) Path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// Snapshot returns the store's current in-memory snapshot. The snapshot
// is owned by the store: mutators update it in place and then Persist the
// affected tables; readers must not hold it across a Reload.
func (s *Store) Snapshot() *model.Snapshot { return s.snap }

// Reload re-reads every table from disk, discarding in-memory state.
// Call before computing mutation preconditions, and after external edits.
func (s *Store) Reload() error {
	snap := &model.Snapshot{}
	for _, table := range AllTables {
		records, err := readCSV(s.Path(table))
		if err != nil {
			return model.WrapIO(fmt.Sprintf("load table %s", table), err)
		}

		var decodeErr error
		switch table {
		case TableComponents:
			snap.Components, decodeErr = decodeComponents(records)
		case TableTechnologies:
			snap.Technologies, decodeErr = decodeTechnologies(records)
		case TableClasses:
			snap.Classes, decodeErr = decodeClasses(records)
		case TableComponentTechnology:
			snap.ComponentTechnology, decodeErr = decodeComponentTechnology(records)
		case TableClassComponent:
			snap.ClassComponent, decodeErr = decodeClassComponent(records)
		case TableChangeLog:
			snap.ChangeLog, decodeErr = decodeChangeLog(records)
		}
		if decodeErr != nil {
			return model.WrapIO(fmt.Sprintf("decode table %s", table), decodeErr)
		}
	}
	s.snap = snap
	return nil
}

// Persist writes one table back in full from the current snapshot. The
// whole relation is serialized; there are no partial-row updates.
func (s *Store) Persist(table string) error {
	var records [][]string
	var err error

	switch table {
	case TableComponents:
		records = encodeComponents(s.snap.Components)
	case TableTechnologies:
		records = encodeTechnologies(s.snap.Technologies)
	case TableClasses:
		records = encodeClasses(s.snap.Classes)
	case TableComponentTechnology:
		records = encodeComponentTechnology(s.snap.ComponentTechnology)
	case TableClassComponent:
		records = encodeClassComponent(s.snap.ClassComponent)
	case TableChangeLog:
		records, err = encodeChangeLog(s.snap.ChangeLog)
		if err != nil {
			return model.WrapIO(fmt.Sprintf("encode table %s", table), err)
		}
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	if err := writeCSVAtomic(s.Path(table), records); err != nil {
		return model.WrapIO(fmt.Sprintf("persist table %s", table), err)
	}
	s.logger.Debug("table persisted", zap.String("table", table), zap.Int("rows", len(records)-1))
	return nil
}

// LogHighWaterOnDisk re-reads only change_log.csv and returns the largest
// log id currently durable. Used for the optimistic id-claim check before
// a log write is renamed into place.
func (s *Store) LogHighWaterOnDisk() (int64, error) {
	records, err := readCSV(s.Path(TableChangeLog))
	if err != nil {
		return 0, model.WrapIO("load table change_log", err)
	}
	entries, err := decodeChangeLog(records)
	if err != nil {
		return 0, model.WrapIO("decode table change_log", err)
	}
	return model.LogHighWater(entries), nil
}

// Exists reports whether dir looks like an initialized data directory
// (all six table files present).
func Exists(dir string) bool {
	for _, table := range AllTables {
		if _, err := os.Stat(filepath.Join(dir, table+".csv")); err != nil {
			return false
		}
	}
	return true
}
