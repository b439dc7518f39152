package progress

import (
	"encoding/json"
	"time"
)

// State is the coarse gating status of a module.
type State string

const (
	// StateLocked is representable but never created; entries start active.
	StateLocked    State = "locked"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Label returns a short display label for the state.
func (s State) Label() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateActive:
		return "Active"
	case StateCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Icon returns a display icon for the state.
func (s State) Icon() string {
	switch s {
	case StateLocked:
		return "🔒"
	case StateCompleted:
		return "✅"
	default:
		return "▶️"
	}
}

// Stage is the finer completion status of a module.
type Stage string

const (
	StageNotStarted Stage = "not-started"
	StageInProgress Stage = "in-progress"
	StageCompleted  Stage = "completed"
)

// Label returns a short display label for the stage.
func (s Stage) Label() string {
	switch s {
	case StageNotStarted:
		return "Not started"
	case StageInProgress:
		return "In progress"
	case StageCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// ModuleProgressData is the persisted progress of one module.
type ModuleProgressData struct {
	ModuleID           string `json:"moduleId"`
	State              State  `json:"state"`
	Progress           Stage  `json:"progress"`
	ContentViewed      bool   `json:"contentViewed"`
	ChallengeCompleted bool   `json:"challengeCompleted"`
	CompletedAt        int64  `json:"completedAt,omitempty"` // epoch milliseconds, 0 = unset
	Order              int    `json:"order,omitempty"`
}

// CompletedTime returns the completion time, if one was recorded.
func (m ModuleProgressData) CompletedTime() (time.Time, bool) {
	if m.CompletedAt == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(m.CompletedAt), true
}

// LearningPathProgress is the whole persisted record.
type LearningPathProgress struct {
	Modules            map[string]ModuleProgressData
	LastActiveModuleID string // "" when no module was touched yet
	OverallProgress    int    // 0-100
}

// Empty returns the zero-value record.
func Empty() LearningPathProgress {
	return LearningPathProgress{Modules: map[string]ModuleProgressData{}}
}

// Clone returns a copy whose module map can be mutated independently.
func (p LearningPathProgress) Clone() LearningPathProgress {
	out := p
	out.Modules = make(map[string]ModuleProgressData, len(p.Modules))
	for id, m := range p.Modules {
		out.Modules[id] = m
	}
	return out
}

// wireProgress is the persisted JSON layout. lastActiveModuleId is null
// rather than "" when unset.
type wireProgress struct {
	Modules            map[string]ModuleProgressData `json:"modules"`
	LastActiveModuleID *string                       `json:"lastActiveModuleId"`
	OverallProgress    int                           `json:"overallProgress"`
}

func (p LearningPathProgress) MarshalJSON() ([]byte, error) {
	w := wireProgress{
		Modules:         p.Modules,
		OverallProgress: p.OverallProgress,
	}
	if w.Modules == nil {
		w.Modules = map[string]ModuleProgressData{}
	}
	if p.LastActiveModuleID != "" {
		id := p.LastActiveModuleID
		w.LastActiveModuleID = &id
	}
	return json.Marshal(w)
}

func (p *LearningPathProgress) UnmarshalJSON(data []byte) error {
	var w wireProgress
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Modules = w.Modules
	if p.Modules == nil {
		p.Modules = map[string]ModuleProgressData{}
	}
	p.LastActiveModuleID = ""
	if w.LastActiveModuleID != nil {
		p.LastActiveModuleID = *w.LastActiveModuleID
	}
	p.OverallProgress = w.OverallProgress
	return nil
}
