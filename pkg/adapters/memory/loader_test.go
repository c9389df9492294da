package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

func TestLoader_GetAndList(t *testing.T) {
	loader := NewLoader(map[string][]byte{
		"home": []byte(`{"body":[{"tag":"div","id":"out"}]}`),
	})
	loader.SetPage("about", []byte(`{"body":[]}`))
	ctx := context.Background()

	raw, err := loader.GetPage(ctx, "home")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"out"`)

	_, err = loader.GetPage(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)

	ids, err := loader.ListPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "home"}, ids)
}
