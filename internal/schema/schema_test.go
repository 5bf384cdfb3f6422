package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const basicFile = `
[[type]]
name = "int"
kind = "atomic"
size = 4
align = 4

[[type]]
name = "bool"
kind = "ATOMIC"
size = 1
align = 2

[[type]]
name = "S"
kind = "struct"
members = ["int", "bool"]

[[type]]
name = "U"
kind = "union"
members = ["S", "int"]
`

func TestDecodeFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "basic.toml", basicFile)

	defs, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, []types.Definition{
		types.Atomic("int", 4, 4),
		types.Atomic("bool", 1, 2),
		types.Aggregate("S", "int", "bool"),
		types.Variant("U", "S", "int"),
	}, defs)
}

func TestDecodeFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown key",
			content: "[[type]]\nname = \"int\"\nkind = \"atomic\"\nsize = 4\nalignment = 4\n",
			wantMsg: "unknown keys",
		},
		{
			name:    "missing kind",
			content: "[[type]]\nname = \"int\"\nsize = 4\nalign = 4\n",
			wantMsg: "missing kind",
		},
		{
			name:    "unknown kind",
			content: "[[type]]\nname = \"E\"\nkind = \"enum\"\n",
			wantErr: types.ErrUnknownKind,
		},
		{
			name:    "negative size",
			content: "[[type]]\nname = \"int\"\nkind = \"atomic\"\nsize = -4\nalign = 4\n",
			wantMsg: "size",
		},
		{
			name:    "zero alignment",
			content: "[[type]]\nname = \"int\"\nkind = \"atomic\"\nsize = 4\n",
			wantErr: types.ErrInvalidAlignment,
		},
		{
			name:    "struct without members",
			content: "[[type]]\nname = \"S\"\nkind = \"struct\"\n",
			wantErr: types.ErrNoMembers,
		},
		{
			name:    "struct with size",
			content: "[[type]]\nname = \"S\"\nkind = \"struct\"\nsize = 8\nmembers = [\"int\"]\n",
			wantMsg: "cannot declare size",
		},
		{
			name:    "invalid toml",
			content: "[[type]\nname = ",
			wantMsg: "failed to parse TOML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.toml", tt.content)
			_, err := DecodeFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecodeFilesKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		content := fmt.Sprintf("[[type]]\nname = \"t%d\"\nkind = \"atomic\"\nsize = %d\nalign = 1\n", i, i+1)
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%d.toml", i), content))
	}

	defs, err := DecodeFiles(context.Background(), paths, 3)
	require.NoError(t, err)
	require.Len(t, defs, 8)
	for i, def := range defs {
		assert.Equal(t, fmt.Sprintf("t%d", i), def.Name)
		assert.Equal(t, uint64(i+1), def.Size)
	}
}

func TestDecodeFilesFailsOnAnyBadFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.toml", basicFile)
	bad := writeFile(t, dir, "bad.toml", "[[type]]\nname = \"x\"\n")

	_, err := DecodeFiles(context.Background(), []string{good, bad}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")
}

func TestDecodeFilesEmpty(t *testing.T) {
	defs, err := DecodeFiles(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, defs)
}
