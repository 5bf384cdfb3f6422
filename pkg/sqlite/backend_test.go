package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/typelayout/pkg/typelayout"
	"github.com/mesh-intelligence/typelayout/pkg/types"
)

func TestCatalogReplaysIntoRegistry(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	catalog := NewCatalog()
	require.NoError(t, catalog.Attach(cfg))
	for _, def := range []types.Definition{
		types.Atomic("int", 4, 4),
		types.Atomic("bool", 1, 2),
		types.Aggregate("S", "int", "bool"),
	} {
		_, err := catalog.Append(def)
		require.NoError(t, err)
	}
	require.NoError(t, catalog.Detach())

	catalog = NewCatalog()
	require.NoError(t, catalog.Attach(cfg))
	t.Cleanup(func() { catalog.Detach() })

	defs, err := catalog.Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 3)

	reg := typelayout.NewRegistry(types.PackedFirstMember)
	for _, def := range defs {
		switch def.Kind {
		case types.KindAtomic:
			require.NoError(t, reg.DefineAtomic(def.Name, def.Size, def.Alignment))
		case types.KindAggregate:
			require.NoError(t, reg.DefineAggregate(def.Name, def.Members))
		}
	}
	rep, err := reg.Describe("S")
	require.NoError(t, err)
	assert.Equal(t, types.LayoutInfo{Size: 5, Alignment: 4}, rep.Unpacked)
}
