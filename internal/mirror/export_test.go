package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	m := sample()

	data, err := Export(m)
	require.NoError(t, err)

	back, err := ParseImport(data)
	require.NoError(t, err)
	assert.Equal(t, m, back, "ids, texts and done flags survive the round trip")
}

func TestExportEmptyMirror(t *testing.T) {
	data, err := Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	back, err := ParseImport(data)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestParseImportRejectsNonArray(t *testing.T) {
	for _, payload := range []string{`{"title":"x"}`, `"text"`, `42`, `not json`} {
		_, err := ParseImport([]byte(payload))
		assert.ErrorIs(t, err, ErrNotAnArray, "payload %s", payload)
	}
}

func TestParseImportCoercesLooseInput(t *testing.T) {
	raw := `[
	  {
	    "title": "Loose",
	    "items": [
	      {"id": "a", "text": "one", "done": 1},
	      {"id": "b", "text": "zero", "done": 0},
	      {"id": "c", "text": "stringy", "done": "true"},
	      {"id": "d", "text": "missing"}
	    ]
	  },
	  {"items": [{"text": ""}]}
	]`

	m, err := ParseImport([]byte(raw))
	require.NoError(t, err)
	require.Len(t, m, 2)

	items := m[0].Items
	assert.True(t, items[0].Done)
	assert.False(t, items[1].Done)
	assert.True(t, items[2].Done)
	assert.False(t, items[3].Done)

	assert.Equal(t, "Untitled", m[1].Title, "missing title gets the blur placeholder")
	assert.Equal(t, "New item", m[1].Items[0].Text, "empty text gets the blur placeholder")
	assert.Empty(t, m[1].ID, "ids are not invented here; the store fills them")
}

func TestParseImportMissingItemsMeansNoItems(t *testing.T) {
	m, err := ParseImport([]byte(`[{"id": "s1", "title": "Bare"}]`))
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Empty(t, m[0].Items)
	assert.NotNil(t, m[0].Items)
}
