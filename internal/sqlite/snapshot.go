package sqlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

// Current snapshot schema version. Increment when Snapshot changes shape.
const snapshotSchemaVersion uint16 = 1

// ErrSnapshotSchema is returned when a snapshot was written by an
// incompatible version.
var ErrSnapshotSchema = errors.New("unsupported snapshot schema")

// Snapshot is the msgpack form of a definition log.
type Snapshot struct {
	Schema          uint16                      `msgpack:"schema"`
	PackedAlignment types.PackedAlignmentPolicy `msgpack:"packed_alignment"`
	Definitions     []types.Definition          `msgpack:"definitions"`
}

// WriteSnapshot serializes defs to path with msgpack. The file is replaced
// atomically.
func WriteSnapshot(path string, policy types.PackedAlignmentPolicy, defs []types.Definition) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := f.Name()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&Snapshot{
		Schema:          snapshotSchemaVersion,
		PackedAlignment: policy,
		Definitions:     defs,
	}); err != nil {
		f.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ReadSnapshot deserializes a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotSchema, snap.Schema)
	}
	return &snap, nil
}
