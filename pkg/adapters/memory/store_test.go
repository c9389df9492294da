package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	values := map[string]domain.Value{
		"count": domain.Number(3),
		"lit":   domain.Bool(true),
		"name":  domain.Text("testing"),
	}
	require.NoError(t, store.Save(ctx, "entry-1", values))

	loaded, err := store.Load(ctx, "entry-1")
	require.NoError(t, err)
	assert.True(t, loaded["count"].Equal(domain.Number(3)))
	assert.True(t, loaded["lit"].Equal(domain.Bool(true)))
	assert.True(t, loaded["name"].Equal(domain.Text("testing")))

	require.NoError(t, store.Delete(ctx, "entry-1"))
	_, err = store.Load(ctx, "entry-1")
	assert.ErrorIs(t, err, domain.ErrScopeNotFound)
}

func TestStore_LoadIsolatesCaller(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "e", map[string]domain.Value{"a": domain.Number(1)}))

	loaded, err := store.Load(ctx, "e")
	require.NoError(t, err)
	loaded["a"] = domain.Number(99)

	again, err := store.Load(ctx, "e")
	require.NoError(t, err)
	assert.True(t, again["a"].Equal(domain.Number(1)), "caller mutation leaked into store")
}

func TestStore_List(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", nil))
	require.NoError(t, store.Save(ctx, "b", nil))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
