package sheetlive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_BuiltIns(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"counter", "image", "string", "switch"}, r.Names())
}

func TestRegistry_AddDuplicateKeepsExisting(t *testing.T) {
	r := NewRegistry()
	replaced := false
	err := r.Add(KindString, func(Call) error { replaced = true; return nil }, true)
	require.ErrorIs(t, err, ErrDuplicateOperation)

	s := newFakeSurface("title")
	c, _ := call(t, s, "title", "still the built-in")
	require.NoError(t, r.Dispatch(KindString, c))
	assert.False(t, replaced)
	assert.Equal(t, "still the built-in", s.element("title").Text)
}

func TestRegistry_AddRequiresNameAndOperation(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Add("", func(Call) error { return nil }, false))
	assert.Error(t, r.Add("noop", nil, false))
}

func TestRegistry_Import(t *testing.T) {
	r := NewRegistry()
	var got []any
	preset := Preset{
		Name:      "record",
		Operation: func(c Call) error { got = append(got, c.Descriptor); return nil },
		Simple:    true,
	}
	require.NoError(t, r.Import(preset))
	assert.True(t, r.Has("record"))
	assert.ErrorIs(t, r.Import(preset), ErrDuplicateOperation)

	c, _ := call(t, newFakeSurface(), []any{"a", "b"}, "v")
	require.NoError(t, r.Dispatch("record", c))
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestRegistry_SimpleExpandsLists(t *testing.T) {
	r := NewRegistry()
	s := newFakeSurface("home", "home-small")
	c, _ := call(t, s, []any{"home", "home-small"}, "7")
	require.NoError(t, r.Dispatch(KindString, c))
	assert.Equal(t, "7", s.element("home").Text)
	assert.Equal(t, "7", s.element("home-small").Text)
}

func TestRegistry_NonSimpleReceivesWholeDescriptor(t *testing.T) {
	r := NewRegistry()
	var got any
	require.NoError(t, r.Add("whole", func(c Call) error { got = c.Descriptor; return nil }, false))

	c, _ := call(t, newFakeSurface(), []any{"a", "b"}, "v")
	require.NoError(t, r.Dispatch("whole", c))
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestRegistry_SimpleContinuesAfterFailure(t *testing.T) {
	r := NewRegistry()
	var seen []string
	boom := errors.New("boom")
	require.NoError(t, r.Add("flaky", func(c Call) error {
		id := c.Descriptor.(string)
		seen = append(seen, id)
		if id == "bad" {
			return boom
		}
		return nil
	}, true))

	c, _ := call(t, newFakeSurface(), []any{"bad", "good"}, "v")
	err := r.Dispatch("flaky", c)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"bad", "good"}, seen)
}

func TestRegistry_DispatchUnknown(t *testing.T) {
	r := NewRegistry()
	c, _ := call(t, newFakeSurface(), "x", "v")
	assert.ErrorIs(t, r.Dispatch("marquee", c), ErrUnknownOperation)
}
