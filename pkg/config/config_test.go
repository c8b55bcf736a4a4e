package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: coax
world:
  units:
    length: mm
  medium: vacuum
  grid:
    coordinates: Cylindrical
    dimensions:
      r: {from: 0, to: 40}
      z: {from: -10, to: 90.5}
  objects:
    - class: Semiconductor
      hierarchy: 2
`

func TestDecodeYAML(t *testing.T) {
	tree, err := Decode(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	root := Root(tree)
	name, err := root.StringField("name")
	require.NoError(t, err)
	assert.Equal(t, "coax", name)

	to, err := root.GetPath("world", "grid", "dimensions", "r", "to")
	require.NoError(t, err)
	f, err := to.Float()
	require.NoError(t, err)
	assert.Equal(t, 40.0, f)
	assert.Equal(t, "world.grid.dimensions.r.to", to.Path())

	zTo, err := root.GetPath("world", "grid", "dimensions", "z", "to")
	require.NoError(t, err)
	f, err = zTo.Float()
	require.NoError(t, err)
	assert.Equal(t, 90.5, f)

	objs, err := root.GetPath("world", "objects")
	require.NoError(t, err)
	list, err := objs.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "world.objects[0]", list[0].Path())

	h, err := list[0].Get("hierarchy")
	require.NoError(t, err)
	rank, err := h.Int()
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}

func TestDecodeJSON(t *testing.T) {
	tree, err := Decode(strings.NewReader(`{"name": "box", "world": {"medium": "vacuum"}}`))
	require.NoError(t, err)
	medium, err := Root(tree).GetPath("world", "medium")
	require.NoError(t, err)
	s, err := medium.Text()
	require.NoError(t, err)
	assert.Equal(t, "vacuum", s)
}

func TestDecodeRejectsNonMapping(t *testing.T) {
	_, err := Decode(strings.NewReader("- 1\n- 2\n"))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDecodeEmptyDocument(t *testing.T) {
	for _, src := range []string{"", "\n\n"} {
		_, err := Decode(strings.NewReader(src))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty document")
	}
}

func TestMissingField(t *testing.T) {
	root := Root(Tree{"world": map[string]any{"grid": map[string]any{}}})

	_, err := root.GetPath("world", "grid", "coordinates")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))

	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "world.grid.coordinates", mf.Path)
}

func TestFieldTypeErrors(t *testing.T) {
	root := Root(Tree{"n": "x", "s": 3, "f": 1.5, "b": "yes", "l": "no"})

	_, err := root.FloatField("n")
	var fte *FieldTypeError
	require.ErrorAs(t, err, &fte)
	assert.Equal(t, "number", fte.Want)

	_, err = root.StringField("s")
	require.ErrorAs(t, err, &fte)

	f, _ := root.Get("f")
	_, err = f.Int()
	require.ErrorAs(t, err, &fte)

	b, _ := root.Get("b")
	_, err = b.Bool()
	require.ErrorAs(t, err, &fte)

	l, _ := root.Get("l")
	_, err = l.List()
	require.ErrorAs(t, err, &fte)
}

func TestLookupAndKeys(t *testing.T) {
	root := Root(Tree{"b": 1, "a": 2})
	_, ok := root.Lookup("c")
	assert.False(t, ok)
	assert.True(t, root.Has("a"))
	assert.Equal(t, []string{"a", "b"}, root.Keys())
}

func TestStringMap(t *testing.T) {
	n := At("units", map[string]any{"length": "cm", "angle": "deg"})
	m, err := n.StringMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"length": "cm", "angle": "deg"}, m)

	_, err = At("units", map[string]any{"length": 3}).StringMap()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "det.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	tree, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "coax", tree["name"])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
