package progress

import (
	"math"
	"time"

	"github.com/abhisek/ariano/internal/catalog"
)

// defaultOrder is used for entries whose module is missing from the catalog.
const defaultOrder = 1

// NewModuleEntry returns a fresh entry for a module. Every module starts
// unlocked.
func NewModuleEntry(moduleID string, order int) ModuleProgressData {
	return ModuleProgressData{
		ModuleID: moduleID,
		State:    StateActive,
		Progress: StageNotStarted,
		Order:    order,
	}
}

// Advance applies the status transition rule to a single entry. It only
// looks at the entry's own fields and is idempotent.
func (m ModuleProgressData) Advance(now time.Time) ModuleProgressData {
	// Compatibility shim: nothing creates locked entries any more, but
	// records written while gating existed may still carry them.
	if m.State == StateLocked {
		m.State = StateActive
		if m.Progress == StageNotStarted {
			m.Progress = StageInProgress
		}
	}

	switch {
	case m.ContentViewed && m.ChallengeCompleted:
		m.Progress = StageCompleted
		m.State = StateCompleted
		if m.CompletedAt == 0 {
			m.CompletedAt = now.UnixMilli()
		}
	case m.State == StateActive && (m.ContentViewed || m.ChallengeCompleted):
		m.Progress = StageInProgress
	}
	return m
}

// AdvanceAll applies Advance to every entry of modules in place.
func AdvanceAll(modules map[string]ModuleProgressData, now time.Time) {
	for id, m := range modules {
		modules[id] = m.Advance(now)
	}
}

// OverallPercent returns the rounded share of catalog modules whose entry
// is completed. Entries for modules outside the catalog do not count.
func OverallPercent(modules map[string]ModuleProgressData, cat []catalog.Module) int {
	if len(cat) == 0 {
		return 0
	}
	completed := 0
	for _, mod := range cat {
		if m, ok := modules[mod.ID]; ok && m.Progress == StageCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(cat))))
}

// Reconcile aligns a stored record with the catalog: missing entries are
// created, existing ones are kept (including those for modules no longer in
// the catalog), statuses are advanced and the overall percentage is
// recomputed. The input record is not modified.
func Reconcile(rec LearningPathProgress, cat []catalog.Module, now time.Time) LearningPathProgress {
	out := rec.Clone()
	for _, mod := range cat {
		if _, ok := out.Modules[mod.ID]; !ok {
			out.Modules[mod.ID] = NewModuleEntry(mod.ID, mod.Order)
		}
	}

	AdvanceAll(out.Modules, now)
	out.OverallProgress = OverallPercent(out.Modules, cat)

	if out.LastActiveModuleID == "" && len(cat) > 0 {
		out.LastActiveModuleID = cat[0].ID
	}
	return out
}

// orderOf returns the catalog order of a module.
func orderOf(cat []catalog.Module, moduleID string) (int, bool) {
	for _, mod := range cat {
		if mod.ID == moduleID {
			return mod.Order, true
		}
	}
	return 0, false
}
