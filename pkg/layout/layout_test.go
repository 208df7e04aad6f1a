package layout

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "overlays": [
    {"type": "text", "text": "LIVE", "x": 12.7, "y": "30"},
    {"type": "Chroma", "key_color": [0, 300, -5]},
    {"type": "timer", "running": true}
  ]
}`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/layout.json", []byte(sample), 0644))

	l, err := Load(fs, "/layout.json")
	require.NoError(t, err)
	require.Len(t, l.Overlays, 3)

	e := l.Overlays[0]
	assert.Equal(t, "text", e.Type())

	x, err := e.Int("x", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, x)

	y, err := e.Int("y", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, y)

	alpha, err := e.Float("alpha", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, alpha)

	assert.Equal(t, "chroma", l.Overlays[1].Type())
	c, err := l.Overlays[1].Color("key_color", [3]uint8{})
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0, 255, 0}, c)

	running, err := l.Overlays[2].Bool("running", false)
	require.NoError(t, err)
	assert.True(t, running)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.json")
	assert.Error(t, err)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"overlays": [`))
	assert.Error(t, err)
}

func TestEntryTypeErrors(t *testing.T) {
	e := Entry{"x": []interface{}{1}, "text": map[string]interface{}{}, "c": []interface{}{1, 2}, "n": "abc"}

	_, err := e.Int("x", 0)
	assert.Error(t, err)

	_, err = e.String("text", "")
	assert.Error(t, err)

	_, err = e.Color("c", [3]uint8{})
	assert.Error(t, err)

	_, err = e.Float("n", 0)
	assert.Error(t, err)
}

func TestEntryNullUsesDefault(t *testing.T) {
	e := Entry{"x": nil}
	x, err := e.Int("x", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, x)
}
