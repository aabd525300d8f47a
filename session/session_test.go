package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shingyusik/scientific-analysis-agent/core"
	"github.com/shingyusik/scientific-analysis-agent/dataset"
	"github.com/shingyusik/scientific-analysis-agent/filter"
	"github.com/shingyusik/scientific-analysis-agent/pipeline"
)

// -------------------- InMemoryStore --------------------

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()

	s, err := store.Create("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)

	_, err = store.Create("s1")
	assert.ErrorContains(t, err, "already exists")

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = store.Get("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestInMemoryStoreAppendEvent(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Create("s1")
	require.NoError(t, err)

	event := core.NewEvent("user", core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "hi"}}})
	require.NoError(t, store.AppendEvent("s1", event))
	assert.Error(t, store.AppendEvent("missing", event))

	s, _ := store.Get("s1")
	assert.Len(t, s.GetEvents(), 1)
}

func TestInMemoryStoreDeleteAndIDs(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Create("a")
	require.NoError(t, err)
	_, err = store.Create("b")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b"}, store.IDs())

	store.Delete("a")
	store.Delete("a") // missing ids are not an error
	assert.ElementsMatch(t, []string{"b"}, store.IDs())
}

// -------------------- Snapshot --------------------

func newSnapshotPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	p := pipeline.New(filter.DefaultRegistry(), dataset.Cone(16), "cone")
	params := filter.DefaultSliceParams().Params()
	params["offsets"] = []float64{0.5}
	_, err := p.Apply(filter.TypeSlice, params)
	require.NoError(t, err)
	_, err = p.Apply(filter.TypeElevation, nil)
	require.NoError(t, err)
	return p
}

func TestSnapshotRoundTrip(t *testing.T) {
	p := newSnapshotPipeline(t)

	snap := TakeSnapshot(p)
	assert.Equal(t, "cone", snap.RootName)
	require.Len(t, snap.Steps, 2)
	assert.Equal(t, filter.TypeSlice, snap.Steps[0].Type)
	assert.Equal(t, filter.TypeElevation, snap.Steps[1].Type)

	data, err := snap.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap.RootName, decoded.RootName)
	require.Len(t, decoded.Steps, 2)
	assert.Equal(t, []float64{0.5}, decoded.Steps[0].Params.Floats("offsets", nil))
}

func TestSnapshotParamsAreCopies(t *testing.T) {
	p := newSnapshotPipeline(t)
	snap := TakeSnapshot(p)

	snap.Steps[0].Params["offsets"] = []float64{9}

	step, err := p.Step(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, step.Params.Floats("offsets", nil))
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("not zstd"))
	assert.Error(t, err)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	p := newSnapshotPipeline(t)
	path := filepath.Join(t.TempDir(), "pipeline.snapshot")

	require.NoError(t, SaveSnapshot(p, path))

	snap, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "cone", snap.RootName)
	assert.Len(t, snap.Steps, 2)

	_, err = LoadSnapshot(filepath.Join(t.TempDir(), "missing.snapshot"))
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	snap := TakeSnapshot(newSnapshotPipeline(t))

	restored, err := Restore(snap, filter.DefaultRegistry(), dataset.Cone(16), "cone")
	require.NoError(t, err)
	require.Equal(t, 2, restored.StepCount())

	first, err := restored.Step(0)
	require.NoError(t, err)
	assert.Equal(t, filter.TypeSlice, first.Type)
	assert.True(t, first.Valid)
	assert.Equal(t, []float64{0.5}, first.Params.Floats("offsets", nil))

	// Steps chain in order
	second, err := restored.Step(1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.InputID())
}

func TestRestoreInto(t *testing.T) {
	p := newSnapshotPipeline(t)
	snap := TakeSnapshot(p)

	// Diverge, then restore in place
	_, err := p.Apply(filter.TypeClip, nil)
	require.NoError(t, err)
	require.Equal(t, 3, p.StepCount())

	require.NoError(t, RestoreInto(snap, p))
	assert.Equal(t, 2, p.StepCount())
	assert.Equal(t, "cone", p.RootName())
}

func TestRestoreSkipsUnknownFilters(t *testing.T) {
	snap := Snapshot{RootName: "cone", Steps: []StepRecord{
		{Type: "warp_filter", Params: filter.Params{}},
		{Type: filter.TypeElevation, Params: filter.Params{}},
	}}

	restored, err := Restore(snap, filter.DefaultRegistry(), dataset.Cone(16), "cone")
	require.NoError(t, err)
	require.Equal(t, 1, restored.StepCount())

	step, err := restored.Step(0)
	require.NoError(t, err)
	assert.Equal(t, filter.TypeElevation, step.Type)
}

func TestRestoreAbortsOnFailingStep(t *testing.T) {
	params := filter.DefaultSliceParams().Params()
	params["normal"] = []float64{0, 0, 0}
	snap := Snapshot{RootName: "cone", Steps: []StepRecord{
		{Type: filter.TypeSlice, Params: params},
		{Type: filter.TypeElevation, Params: filter.Params{}},
	}}

	_, err := Restore(snap, filter.DefaultRegistry(), dataset.Cone(16), "cone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore step 0")
}
