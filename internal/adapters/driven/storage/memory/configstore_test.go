package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CopiesInitial(t *testing.T) {
	initial := map[string]any{"server.base_url": "http://a"}
	store := NewConfigStore(initial)

	initial["server.base_url"] = "http://b"

	assert.Equal(t, "http://a", store.GetString("server.base_url"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"s": "text",
		"i": int64(3),
		"f": 1.5,
	})

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 3, store.GetInt("i"))
	assert.Equal(t, 0, store.GetInt("f"))
	assert.InDelta(t, 1.5, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("i"), 1e-9)
	assert.Zero(t, store.GetFloat("s"))
}

func TestConfigStore_SetUnset(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("k", "v"))
	v, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, store.Unset("k"))
	_, ok = store.Get("k")
	assert.False(t, ok)

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
