package progress

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/ariano/internal/catalog"
)

// fakeStore keeps the record as JSON so every Load hands out a fresh copy,
// like a real persistence slot.
type fakeStore struct {
	data     []byte
	saves    int
	resetErr error
}

func (f *fakeStore) Load(context.Context) LearningPathProgress {
	if f.data == nil {
		return Empty()
	}
	var p LearningPathProgress
	if err := json.Unmarshal(f.data, &p); err != nil {
		return Empty()
	}
	return p
}

func (f *fakeStore) Save(_ context.Context, p LearningPathProgress) {
	data, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	f.data = data
	f.saves++
}

func (f *fakeStore) Reset(context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.data = nil
	return nil
}

func testCatalog(t *testing.T, modules ...catalog.Module) *catalog.Catalog {
	t.Helper()
	if len(modules) == 0 {
		modules = twoModules()
	}
	c, err := catalog.New(modules, nil)
	require.NoError(t, err)
	return c
}

func newTestTracker(t *testing.T, store Store, opts Options) *Tracker {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewTracker(store, testCatalog(t), opts)
}

func TestTracker_ViewThenComplete(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{})
	ctx := context.Background()

	require.NoError(t, tr.RecordContentViewed(ctx, "1"))
	assert.Equal(t, StageInProgress, tr.ModuleStage(ctx, "1"))
	assert.Equal(t, StateActive, tr.ModuleState(ctx, "1"))

	require.NoError(t, tr.RecordChallengeCompleted(ctx, "1"))

	rec := store.Load(ctx)
	m := rec.Modules["1"]
	assert.Equal(t, StateCompleted, m.State)
	assert.Equal(t, StageCompleted, m.Progress)
	assert.Equal(t, fixedNow.UnixMilli(), m.CompletedAt)
	assert.Equal(t, 50, rec.OverallProgress)
	assert.Equal(t, "1", rec.LastActiveModuleID)
	assert.Equal(t, 2, store.saves)
}

func TestTracker_CompletionTimestampNeverOverwritten(t *testing.T) {
	store := &fakeStore{}
	clock := fixedNow
	tr := newTestTracker(t, store, Options{Now: func() time.Time { return clock }})
	ctx := context.Background()

	require.NoError(t, tr.RecordContentViewed(ctx, "1"))
	require.NoError(t, tr.RecordChallengeCompleted(ctx, "1"))
	first := store.Load(ctx).Modules["1"].CompletedAt

	clock = clock.Add(48 * time.Hour)
	require.NoError(t, tr.RecordChallengeCompleted(ctx, "1"))
	require.NoError(t, tr.RecordContentViewed(ctx, "2"))

	assert.Equal(t, first, store.Load(ctx).Modules["1"].CompletedAt)
}

func TestTracker_UnknownModuleLenient(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{Logger: zap.New(core)})
	ctx := context.Background()

	require.NoError(t, tr.RecordChallengeCompleted(ctx, "ghost"))

	rec := store.Load(ctx)
	m, ok := rec.Modules["ghost"]
	require.True(t, ok)
	assert.Equal(t, 1, m.Order)
	assert.True(t, m.ChallengeCompleted)
	assert.Equal(t, StageInProgress, m.Progress)
	assert.Equal(t, "ghost", rec.LastActiveModuleID)
	assert.Equal(t, 0, rec.OverallProgress)
	assert.Equal(t, 1, logs.FilterMessage("module not in catalog, using default order").Len())
}

func TestTracker_UnknownModuleStrict(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{Strict: true})

	err := tr.RecordContentViewed(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUnknownModule)
	assert.Zero(t, store.saves)
}

func TestTracker_EntryUsesCatalogOrder(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{})
	ctx := context.Background()

	require.NoError(t, tr.RecordContentViewed(ctx, "2"))
	assert.Equal(t, 2, store.Load(ctx).Modules["2"].Order)
}

func TestTracker_ModuleStateDefaults(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{}, Options{})
	ctx := context.Background()

	assert.Equal(t, StateActive, tr.ModuleState(ctx, "1"))
	assert.Equal(t, StateActive, tr.ModuleState(ctx, "nope"))
	assert.Equal(t, StageNotStarted, tr.ModuleStage(ctx, "1"))
}

func TestTracker_ModuleStateReturnsStoredLocked(t *testing.T) {
	store := &fakeStore{data: []byte(`{"modules":{"1":{"moduleId":"1","state":"locked","progress":"not-started","contentViewed":false,"challengeCompleted":false}},"lastActiveModuleId":null,"overallProgress":0}`)}
	tr := newTestTracker(t, store, Options{})

	assert.Equal(t, StateLocked, tr.ModuleState(context.Background(), "1"))
}

func TestTracker_ModuleAccessible(t *testing.T) {
	tr := newTestTracker(t, &fakeStore{}, Options{})

	for _, id := range []string{"1", "2", "not-in-catalog", ""} {
		assert.True(t, tr.ModuleAccessible(id), "module %q", id)
	}
}

func TestTracker_ReconcileDoesNotPersist(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{})

	rec := tr.Reconcile(context.Background())
	assert.Len(t, rec.Modules, 2)
	assert.Equal(t, "1", rec.LastActiveModuleID)
	assert.Zero(t, store.saves)
}

func TestTracker_ReconcileIdempotent(t *testing.T) {
	store := &fakeStore{}
	clock := fixedNow
	tr := newTestTracker(t, store, Options{Now: func() time.Time { return clock }})
	ctx := context.Background()

	require.NoError(t, tr.RecordContentViewed(ctx, "2"))
	require.NoError(t, tr.RecordChallengeCompleted(ctx, "2"))

	first, err := json.Marshal(tr.Reconcile(ctx))
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	second, err := json.Marshal(tr.Reconcile(ctx))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestTracker_OverallProgress(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{})
	ctx := context.Background()

	assert.Equal(t, 0, tr.OverallProgress(ctx))

	for _, id := range []string{"1", "2"} {
		require.NoError(t, tr.RecordContentViewed(ctx, id))
		require.NoError(t, tr.RecordChallengeCompleted(ctx, id))
	}
	assert.Equal(t, 100, tr.OverallProgress(ctx))
}

func TestTracker_UnlockAll(t *testing.T) {
	store := &fakeStore{data: []byte(`{"modules":{"2":{"moduleId":"2","state":"locked","progress":"not-started","contentViewed":false,"challengeCompleted":false}},"lastActiveModuleId":"2","overallProgress":0}`)}
	tr := newTestTracker(t, store, Options{})
	ctx := context.Background()

	tr.UnlockAll(ctx)

	rec := store.Load(ctx)
	require.Len(t, rec.Modules, 2)
	assert.Equal(t, NewModuleEntry("1", 1), rec.Modules["1"])
	assert.Equal(t, StateActive, rec.Modules["2"].State)
	assert.Equal(t, StageInProgress, rec.Modules["2"].Progress)
	assert.Equal(t, "2", rec.LastActiveModuleID)
}

func TestTracker_Reset(t *testing.T) {
	store := &fakeStore{}
	tr := newTestTracker(t, store, Options{})
	ctx := context.Background()

	require.NoError(t, tr.RecordContentViewed(ctx, "1"))
	require.NoError(t, tr.Reset(ctx))
	assert.Equal(t, Empty(), store.Load(ctx))

	store.resetErr = errors.New("disk on fire")
	assert.Error(t, tr.Reset(ctx))
}

func TestTracker_NilModuleMapFromStore(t *testing.T) {
	tr := newTestTracker(t, nilMapStore{}, Options{})

	assert.NotPanics(t, func() {
		_ = tr.RecordContentViewed(context.Background(), "1")
		tr.UnlockAll(context.Background())
	})
}

type nilMapStore struct{}

func (nilMapStore) Load(context.Context) LearningPathProgress { return LearningPathProgress{} }
func (nilMapStore) Save(context.Context, LearningPathProgress) {}
func (nilMapStore) Reset(context.Context) error                { return nil }

// TestTracker_CompletedIffBothFlags drives random event sequences and checks
// that a module is completed exactly when both flags are set, and checks the
// percentage after every step.
func TestTracker_CompletedIffBothFlags(t *testing.T) {
	modules := []catalog.Module{
		{ID: "a", Order: 1}, {ID: "b", Order: 2}, {ID: "c", Order: 3},
	}
	ids := []string{"a", "b", "c", "outside"}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		store := &fakeStore{}
		tr := NewTracker(store, testCatalog(t, modules...), Options{
			Now: func() time.Time { return fixedNow },
		})
		ctx := context.Background()

		for step := 0; step < 12; step++ {
			id := ids[rng.Intn(len(ids))]
			if rng.Intn(2) == 0 {
				require.NoError(t, tr.RecordContentViewed(ctx, id))
			} else {
				require.NoError(t, tr.RecordChallengeCompleted(ctx, id))
			}

			rec := store.Load(ctx)
			completed := 0
			for _, m := range rec.Modules {
				both := m.ContentViewed && m.ChallengeCompleted
				assert.Equal(t, both, m.State == StateCompleted, "run %d step %d module %s", run, step, m.ModuleID)
				assert.Equal(t, both, m.CompletedAt != 0)
			}
			for _, mod := range modules {
				if rec.Modules[mod.ID].Progress == StageCompleted {
					completed++
				}
			}
			want := int(float64(completed)*100/float64(len(modules)) + 0.5)
			assert.Equal(t, want, rec.OverallProgress)
		}
	}
}
