package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

func TestWriteReadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.jsonl")
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	defs := []types.Definition{
		{ID: "1", Kind: types.KindAtomic, Name: "int", Size: 4, Alignment: 4, DefinedAt: at},
		{ID: "2", Kind: types.KindVariant, Name: "U", Members: []string{"int"}, DefinedAt: at},
	}
	require.NoError(t, WriteJSONL(path, defs))

	got, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, defs, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, err := ReadJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.mp")
	defs := []types.Definition{
		types.Atomic("int", 4, 4),
		types.Aggregate("S", "int", "int"),
	}
	require.NoError(t, WriteSnapshot(path, types.PackedUnit, defs))

	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, types.PackedUnit, snap.PackedAlignment)
	require.Len(t, snap.Definitions, 2)
	assert.Equal(t, "S", snap.Definitions[1].Name)
	assert.Equal(t, []string{"int", "int"}, snap.Definitions[1].Members)
	assert.Equal(t, uint64(4), snap.Definitions[0].Alignment)
}

func TestReadSnapshotRejectsOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.mp")
	require.NoError(t, WriteSnapshot(path, types.PackedFirstMember, nil))

	// Rewrite with a schema from the future.
	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	snap.Schema = snapshotSchemaVersion + 1
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, msgpack.NewEncoder(f).Encode(snap))
	require.NoError(t, f.Close())

	_, err = ReadSnapshot(path)
	assert.ErrorIs(t, err, ErrSnapshotSchema)
}
