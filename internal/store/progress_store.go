package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/abhisek/ariano/internal/progress"
)

// DefaultKey is the storage key the progress record is kept under.
const DefaultKey = "ariano-learning-path-progress"

// ProgressStore persists the learning path record as JSON in a Slot.
// Storage problems never reach the caller: loads fall back to the empty
// record and failed saves are logged.
type ProgressStore struct {
	slot Slot
	log  *zap.Logger
}

// NewProgressStore creates a ProgressStore over slot. A nil logger discards
// log output.
func NewProgressStore(slot Slot, log *zap.Logger) *ProgressStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProgressStore{slot: slot, log: log}
}

func (s *ProgressStore) Load(ctx context.Context) progress.LearningPathProgress {
	data, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrEmptySlot) {
			s.log.Warn("progress unavailable, starting empty", zap.Error(err))
		}
		return progress.Empty()
	}

	var rec progress.LearningPathProgress
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn("stored progress unreadable, starting empty",
			zap.Error(err),
			zap.Int("bytes", len(data)))
		return progress.Empty()
	}
	return rec
}

func (s *ProgressStore) Save(ctx context.Context, rec progress.LearningPathProgress) {
	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Error("encode progress", zap.Error(err))
		return
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.log.Error("save progress", zap.Error(err))
	}
}

func (s *ProgressStore) Reset(ctx context.Context) error {
	return s.slot.Clear(ctx)
}
