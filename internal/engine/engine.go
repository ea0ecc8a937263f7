package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/tables"
)

// Clock supplies change-log timestamps. Production code uses the system
// clock; tests inject a deterministic one so audit trails are stable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Engine executes mutations and change-control transitions against a
// table store. It holds no state of its own beyond its collaborators;
// every operation reloads before acting.
type Engine struct {
	store  *tables.Store
	clock  Clock
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger sets the engine's logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine over a table store.
func New(store *tables.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		clock:  systemClock{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's table store.
func (e *Engine) Store() *tables.Store { return e.store }

// actorOrSystem applies the default actor for immediate operations.
func actorOrSystem(requestedBy string) string {
	if requestedBy == "" {
		return "system"
	}
	return requestedBy
}

// maxLogRetries bounds the optimistic log-id claim loop.
const maxLogRetries = 3

// appendEntry assigns the next log id, stamps the entry, and persists the
// change log. The id is computed from the freshly loaded log and verified
// against the on-disk high-water mark just before the write; a lost race
// retries with the newly observed maximum.
func (e *Engine) appendEntry(entry model.Entry) (int64, error) {
	snap := e.store.Snapshot()
	for attempt := 0; attempt < maxLogRetries; attempt++ {
		id := model.NextLogID(snap.ChangeLog)

		onDisk, err := e.store.LogHighWaterOnDisk()
		if err != nil {
			return 0, err
		}
		if onDisk >= id {
			e.logger.Warn("log id claimed by concurrent writer, retrying",
				zap.Int64("intended_id", id),
				zap.Int64("on_disk_high_water", onDisk))
			if err := e.store.Reload(); err != nil {
				return 0, err
			}
			snap = e.store.Snapshot()
			continue
		}

		entry.LogID = id
		entry.Timestamp = e.clock.Now()
		snap.ChangeLog = append(snap.ChangeLog, entry)
		if err := e.store.Persist(tables.TableChangeLog); err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, model.NewConflict("could not claim a log id after %d attempts: concurrent writers kept advancing the change log", maxLogRetries)
}

// transitionEntry performs the single status rewrite the change log
// permits: pending to approved/rejected, stamping the reviewer.
func (e *Engine) transitionEntry(entry *model.Entry, status model.Status, reviewedBy string) error {
	entry.Status = status
	entry.ReviewedBy = reviewedBy
	entry.ReviewedAt = e.clock.Now()
	return e.store.Persist(tables.TableChangeLog)
}
