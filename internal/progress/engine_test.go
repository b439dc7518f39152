package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ariano/internal/catalog"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func twoModules() []catalog.Module {
	return []catalog.Module{
		{ID: "1", Order: 1},
		{ID: "2", Order: 2},
	}
}

func TestNewModuleEntry(t *testing.T) {
	m := NewModuleEntry("intro", 3)

	assert.Equal(t, "intro", m.ModuleID)
	assert.Equal(t, StateActive, m.State)
	assert.Equal(t, StageNotStarted, m.Progress)
	assert.False(t, m.ContentViewed)
	assert.False(t, m.ChallengeCompleted)
	assert.Zero(t, m.CompletedAt)
	assert.Equal(t, 3, m.Order)
}

func TestAdvance(t *testing.T) {
	stamp := fixedNow.Add(-time.Hour).UnixMilli()

	tests := []struct {
		name string
		in   ModuleProgressData
		want ModuleProgressData
	}{
		{
			name: "untouched stays not started",
			in:   ModuleProgressData{State: StateActive, Progress: StageNotStarted},
			want: ModuleProgressData{State: StateActive, Progress: StageNotStarted},
		},
		{
			name: "content viewed",
			in:   ModuleProgressData{State: StateActive, Progress: StageNotStarted, ContentViewed: true},
			want: ModuleProgressData{State: StateActive, Progress: StageInProgress, ContentViewed: true},
		},
		{
			name: "challenge completed",
			in:   ModuleProgressData{State: StateActive, Progress: StageNotStarted, ChallengeCompleted: true},
			want: ModuleProgressData{State: StateActive, Progress: StageInProgress, ChallengeCompleted: true},
		},
		{
			name: "both flags complete the module",
			in:   ModuleProgressData{State: StateActive, Progress: StageInProgress, ContentViewed: true, ChallengeCompleted: true},
			want: ModuleProgressData{State: StateCompleted, Progress: StageCompleted, ContentViewed: true, ChallengeCompleted: true, CompletedAt: fixedNow.UnixMilli()},
		},
		{
			name: "existing timestamp kept",
			in:   ModuleProgressData{State: StateCompleted, Progress: StageCompleted, ContentViewed: true, ChallengeCompleted: true, CompletedAt: stamp},
			want: ModuleProgressData{State: StateCompleted, Progress: StageCompleted, ContentViewed: true, ChallengeCompleted: true, CompletedAt: stamp},
		},
		{
			name: "locked is unlocked and bumped",
			in:   ModuleProgressData{State: StateLocked, Progress: StageNotStarted},
			want: ModuleProgressData{State: StateActive, Progress: StageInProgress},
		},
		{
			name: "locked with both flags completes",
			in:   ModuleProgressData{State: StateLocked, Progress: StageNotStarted, ContentViewed: true, ChallengeCompleted: true},
			want: ModuleProgressData{State: StateCompleted, Progress: StageCompleted, ContentViewed: true, ChallengeCompleted: true, CompletedAt: fixedNow.UnixMilli()},
		},
		{
			name: "unknown state with one flag is left alone",
			in:   ModuleProgressData{State: "paused", Progress: StageNotStarted, ContentViewed: true},
			want: ModuleProgressData{State: "paused", Progress: StageNotStarted, ContentViewed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Advance(fixedNow)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, got.Advance(fixedNow.Add(time.Hour)), "advance must be idempotent")
		})
	}
}

func TestOverallPercent(t *testing.T) {
	done := ModuleProgressData{Progress: StageCompleted}
	open := ModuleProgressData{Progress: StageInProgress}

	three := []catalog.Module{{ID: "a", Order: 1}, {ID: "b", Order: 2}, {ID: "c", Order: 3}}

	tests := []struct {
		name    string
		modules map[string]ModuleProgressData
		cat     []catalog.Module
		want    int
	}{
		{"empty catalog", map[string]ModuleProgressData{"a": done}, nil, 0},
		{"nothing done", map[string]ModuleProgressData{}, three, 0},
		{"one of three rounds down", map[string]ModuleProgressData{"a": done, "b": open}, three, 33},
		{"two of three rounds up", map[string]ModuleProgressData{"a": done, "b": done}, three, 67},
		{"all done", map[string]ModuleProgressData{"a": done, "b": done, "c": done}, three, 100},
		{"non-catalog entries ignored", map[string]ModuleProgressData{"a": done, "zz": done, "yy": done}, three, 33},
		{"half", map[string]ModuleProgressData{"1": done}, twoModules(), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallPercent(tt.modules, tt.cat))
		})
	}
}

func TestReconcile_EmptyRecord(t *testing.T) {
	got := Reconcile(Empty(), twoModules(), fixedNow)

	require.Len(t, got.Modules, 2)
	assert.Equal(t, NewModuleEntry("1", 1), got.Modules["1"])
	assert.Equal(t, NewModuleEntry("2", 2), got.Modules["2"])
	assert.Equal(t, "1", got.LastActiveModuleID)
	assert.Equal(t, 0, got.OverallProgress)
}

func TestReconcile_EmptyCatalog(t *testing.T) {
	got := Reconcile(Empty(), nil, fixedNow)

	assert.Empty(t, got.Modules)
	assert.Equal(t, "", got.LastActiveModuleID)
	assert.Equal(t, 0, got.OverallProgress)
}

func TestReconcile_KeepsExistingAndOrphans(t *testing.T) {
	stored := Empty()
	stored.LastActiveModuleID = "2"
	stored.Modules["2"] = ModuleProgressData{
		ModuleID: "2", State: StateActive, Progress: StageInProgress,
		ContentViewed: true, ChallengeCompleted: true,
	}
	stored.Modules["retired"] = ModuleProgressData{
		ModuleID: "retired", State: StateCompleted, Progress: StageCompleted,
		ContentViewed: true, ChallengeCompleted: true, CompletedAt: 1,
	}

	got := Reconcile(stored, twoModules(), fixedNow)

	assert.Equal(t, "2", got.LastActiveModuleID)
	assert.Equal(t, StateCompleted, got.Modules["2"].State)
	assert.Equal(t, fixedNow.UnixMilli(), got.Modules["2"].CompletedAt)
	assert.Contains(t, got.Modules, "retired")
	assert.Equal(t, 50, got.OverallProgress, "retired module must not count")

	// The input record is untouched.
	assert.Equal(t, StateActive, stored.Modules["2"].State)
	assert.NotContains(t, stored.Modules, "1")
}

func TestReconcile_Idempotent(t *testing.T) {
	stored := Empty()
	stored.Modules["1"] = ModuleProgressData{
		ModuleID: "1", State: StateActive, Progress: StageInProgress,
		ContentViewed: true, ChallengeCompleted: true,
	}

	first := Reconcile(stored, twoModules(), fixedNow)
	second := Reconcile(first, twoModules(), fixedNow.Add(24*time.Hour))

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestJSONLayout(t *testing.T) {
	rec := Empty()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"modules":{},"lastActiveModuleId":null,"overallProgress":0}`, string(data))

	rec.LastActiveModuleID = "1"
	rec.OverallProgress = 50
	rec.Modules["1"] = ModuleProgressData{
		ModuleID: "1", State: StateCompleted, Progress: StageCompleted,
		ContentViewed: true, ChallengeCompleted: true, CompletedAt: 1700000000000, Order: 1,
	}
	data, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"modules": {"1": {"moduleId": "1", "state": "completed", "progress": "completed",
			"contentViewed": true, "challengeCompleted": true,
			"completedAt": 1700000000000, "order": 1}},
		"lastActiveModuleId": "1",
		"overallProgress": 50
	}`, string(data))

	var back LearningPathProgress
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestJSON_NullModules(t *testing.T) {
	var rec LearningPathProgress
	require.NoError(t, json.Unmarshal([]byte(`{"modules":null,"lastActiveModuleId":null,"overallProgress":0}`), &rec))
	assert.NotNil(t, rec.Modules)
	assert.Equal(t, Empty(), rec)
}

func TestCompletedTime(t *testing.T) {
	_, ok := ModuleProgressData{}.CompletedTime()
	assert.False(t, ok)

	ts, ok := ModuleProgressData{CompletedAt: fixedNow.UnixMilli()}.CompletedTime()
	assert.True(t, ok)
	assert.True(t, ts.Equal(fixedNow))
}
