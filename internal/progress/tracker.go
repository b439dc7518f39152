package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/ariano/internal/catalog"
)

// ErrUnknownModule is returned in strict mode when an event names a module
// the catalog does not contain.
var ErrUnknownModule = errors.New("unknown module")

// Store persists the progress record.
type Store interface {
	// Load returns the stored record, or Empty() when nothing usable is
	// stored. It never fails.
	Load(ctx context.Context) LearningPathProgress

	// Save persists the record. Failures are handled by the store.
	Save(ctx context.Context, p LearningPathProgress)

	// Reset deletes the stored record.
	Reset(ctx context.Context) error
}

// Options configures a Tracker.
type Options struct {
	// Strict rejects events for modules missing from the catalog instead of
	// creating an entry with the default order.
	Strict bool

	// Now overrides the clock used for completion timestamps.
	Now func() time.Time

	Logger *zap.Logger
}

// Tracker records learner events against a catalog and a store.
type Tracker struct {
	store   Store
	catalog *catalog.Catalog
	strict  bool
	now     func() time.Time
	log     *zap.Logger
}

// NewTracker creates a Tracker.
func NewTracker(store Store, cat *catalog.Catalog, opts Options) *Tracker {
	t := &Tracker{
		store:   store,
		catalog: cat,
		strict:  opts.Strict,
		now:     opts.Now,
		log:     opts.Logger,
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	return t
}

// Catalog returns the catalog the tracker works against.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.catalog
}

// Reconcile returns the stored record aligned with the catalog. The result
// is not persisted.
func (t *Tracker) Reconcile(ctx context.Context) LearningPathProgress {
	return Reconcile(t.store.Load(ctx), t.catalog.Modules, t.now())
}

// RecordContentViewed marks the lesson content of a module as viewed.
func (t *Tracker) RecordContentViewed(ctx context.Context, moduleID string) error {
	return t.record(ctx, moduleID, func(m *ModuleProgressData) {
		m.ContentViewed = true
	})
}

// RecordChallengeCompleted marks a challenge of a module as solved.
func (t *Tracker) RecordChallengeCompleted(ctx context.Context, moduleID string) error {
	return t.record(ctx, moduleID, func(m *ModuleProgressData) {
		m.ChallengeCompleted = true
	})
}

// load returns the stored record with a usable module map.
func (t *Tracker) load(ctx context.Context) LearningPathProgress {
	rec := t.store.Load(ctx)
	if rec.Modules == nil {
		rec.Modules = map[string]ModuleProgressData{}
	}
	return rec
}

// record runs one load-mutate-save cycle for a module event.
func (t *Tracker) record(ctx context.Context, moduleID string, mark func(*ModuleProgressData)) error {
	rec := t.load(ctx)

	entry, ok := rec.Modules[moduleID]
	if !ok {
		order, known := orderOf(t.catalog.Modules, moduleID)
		if !known {
			if t.strict {
				return fmt.Errorf("record %q: %w", moduleID, ErrUnknownModule)
			}
			t.log.Warn("module not in catalog, using default order",
				zap.String("module_id", moduleID),
				zap.Int("order", defaultOrder))
			order = defaultOrder
		}
		entry = NewModuleEntry(moduleID, order)
	}

	mark(&entry)
	rec.Modules[moduleID] = entry
	rec.LastActiveModuleID = moduleID

	AdvanceAll(rec.Modules, t.now())
	rec.OverallProgress = OverallPercent(rec.Modules, t.catalog.Modules)

	t.store.Save(ctx, rec)
	t.log.Debug("progress recorded",
		zap.String("module_id", moduleID),
		zap.String("state", string(rec.Modules[moduleID].State)),
		zap.Int("overall", rec.OverallProgress))
	return nil
}

// ModuleState returns the stored coarse state of a module, or active when
// the module has no entry yet.
func (t *Tracker) ModuleState(ctx context.Context, moduleID string) State {
	m, ok := t.store.Load(ctx).Modules[moduleID]
	if !ok || m.State == "" {
		return StateActive
	}
	return m.State
}

// ModuleStage returns the stored finer status of a module, or not-started
// when the module has no entry yet.
func (t *Tracker) ModuleStage(ctx context.Context, moduleID string) Stage {
	m, ok := t.store.Load(ctx).Modules[moduleID]
	if !ok || m.Progress == "" {
		return StageNotStarted
	}
	return m.Progress
}

// ModuleAccessible reports whether a module may be opened. No gating is
// enforced; this is the single place to reintroduce it.
func (t *Tracker) ModuleAccessible(moduleID string) bool {
	return true
}

// OverallProgress returns the completion percentage of the stored record
// against the catalog.
func (t *Tracker) OverallProgress(ctx context.Context) int {
	return OverallPercent(t.store.Load(ctx).Modules, t.catalog.Modules)
}

// UnlockAll creates entries for every catalog module and unlocks any locked
// entry, then persists the record.
func (t *Tracker) UnlockAll(ctx context.Context) {
	rec := t.load(ctx)
	for _, mod := range t.catalog.Modules {
		m, ok := rec.Modules[mod.ID]
		if !ok {
			rec.Modules[mod.ID] = NewModuleEntry(mod.ID, mod.Order)
			continue
		}
		if m.State == StateLocked {
			m.State = StateActive
			if m.Progress == StageNotStarted {
				m.Progress = StageInProgress
			}
			rec.Modules[mod.ID] = m
		}
	}

	AdvanceAll(rec.Modules, t.now())
	rec.OverallProgress = OverallPercent(rec.Modules, t.catalog.Modules)
	t.store.Save(ctx, rec)
}

// Reset deletes all stored progress.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	t.log.Info("progress reset")
	return nil
}
