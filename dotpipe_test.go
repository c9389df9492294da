package dotpipe_test

import (
	"context"
	"testing"

	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotpipe/dotpipe"
	"github.com/dotpipe/dotpipe/internal/testutils"
	"github.com/dotpipe/dotpipe/pkg/adapters/memory"
	"github.com/dotpipe/dotpipe/pkg/domain"
)

const counterPage = `{
	"title": "Counter",
	"body": [
		{"tag": "button", "id": "bump", "macro": "inc:count|$display:!count"},
		{"tag": "span", "id": "display"}
	]
}`

func TestFromDefinition_RegistersMacroNodes(t *testing.T) {
	eng, err := dotpipe.FromDefinition([]byte(counterPage))
	require.NoError(t, err)
	defer eng.Close()

	assert.ElementsMatch(t, []string{"bump"}, eng.Entries())

	entry, ok := eng.Entry("bump")
	require.True(t, ok)
	assert.Equal(t, "inc:count|$display:!count", entry.Macro)
}

func TestFromDefinition_Malformed(t *testing.T) {
	_, err := dotpipe.FromDefinition([]byte(`{"body": "not a list`))
	assert.Error(t, err)
}

func TestEngine_RunMutatesDocument(t *testing.T) {
	eng, err := dotpipe.FromDefinition([]byte(counterPage))
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.Run(context.Background(), "bump"))

	node, ok := eng.Tree().NodeByID("display")
	require.True(t, ok)
	assert.Equal(t, "1", node.Content())
}

func TestEngine_LazyRegistrationOnTrigger(t *testing.T) {
	eng, err := dotpipe.FromDefinition([]byte(counterPage))
	require.NoError(t, err)
	defer eng.Close()

	require.True(t, eng.Unregister("bump"))

	// The node still carries its macro, so the first trigger re-registers.
	require.NoError(t, eng.Run(context.Background(), "bump"))
	_, ok := eng.Entry("bump")
	assert.True(t, ok)
}

func TestEngine_RunUnknownEntry(t *testing.T) {
	eng, err := dotpipe.FromDefinition([]byte(counterPage))
	require.NoError(t, err)
	defer eng.Close()

	err = eng.Run(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestFromLoader(t *testing.T) {
	loader := memory.NewLoader(map[string][]byte{"home": []byte(counterPage)})

	eng, err := dotpipe.FromLoader(context.Background(), loader, "home")
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, "Counter", eng.Tree().Title)

	_, err = dotpipe.FromLoader(context.Background(), loader, "missing")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestFromRepo(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)

	doc := core.Document{
		ID: "home.md",
		Content: "---\ntitle: Home\n---\n" +
			`{"body":[{"tag":"button","id":"go","macro":"&n:hi|$go:!n"}]}`,
	}
	require.NoError(t, repo.Save(context.Background(), doc))

	eng, err := dotpipe.FromRepo(context.Background(), dir, "home")
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.Run(context.Background(), "go"))
	node, _ := eng.Tree().NodeByID("go")
	assert.Equal(t, "hi", node.Content())

	_, err = dotpipe.FromRepo(context.Background(), dir, "ghost")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestEngine_ScopeStoreWiring(t *testing.T) {
	store := memory.NewStore()
	eng, err := dotpipe.FromDefinition([]byte(counterPage), dotpipe.WithScopeStore(store))
	require.NoError(t, err)
	defer eng.Close()

	require.NoError(t, eng.Run(context.Background(), "bump"))

	values, err := store.Load(context.Background(), "bump")
	require.NoError(t, err)
	assert.True(t, values["count"].Equal(domain.Number(1)))
}
