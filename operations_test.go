package sheetlive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpString(t *testing.T) {
	s := newFakeSurface("title")
	c, hook := call(t, s, "title", "<b>Grand Final</b>")
	require.NoError(t, opString(c))
	assert.Equal(t, "<b>Grand Final</b>", s.element("title").Text)
	assert.Empty(t, warnings(hook))
}

func TestOpString_MissingElementWarns(t *testing.T) {
	s := newFakeSurface()
	c, hook := call(t, s, "ghost", "x")
	require.NoError(t, opString(c))
	assert.Equal(t, []string{"display element not found"}, warnings(hook))
}

func TestOpString_BadDescriptor(t *testing.T) {
	s := newFakeSurface()
	c, _ := call(t, s, 42, "x")
	assert.Error(t, opString(c))
}

func TestOpImage(t *testing.T) {
	s := newFakeSurface("logo")
	c, _ := call(t, s, "logo", "https://cdn.example/team.png")
	require.NoError(t, opImage(c))
	assert.Equal(t, "https://cdn.example/team.png", s.element("logo").Src)
}

func counterIDs() []any {
	return []any{"p1", "p2", "p3", "p4", "p5"}
}

func visibleCount(t *testing.T, s *fakeSurface) []bool {
	t.Helper()
	var out []bool
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		out = append(out, s.element(id).Visible)
	}
	return out
}

func TestOpCounter(t *testing.T) {
	s := newFakeSurface("p1", "p2", "p3", "p4", "p5")
	c, hook := call(t, s, counterIDs(), "3")
	require.NoError(t, opCounter(c))
	assert.Equal(t, []bool{true, true, true, false, false}, visibleCount(t, s))
	assert.Empty(t, warnings(hook))
}

func TestOpCounter_EmptyHidesAll(t *testing.T) {
	s := newFakeSurface("p1", "p2", "p3", "p4", "p5")
	c, hook := call(t, s, counterIDs(), "")
	require.NoError(t, opCounter(c))
	assert.Equal(t, []bool{false, false, false, false, false}, visibleCount(t, s))
	assert.Empty(t, warnings(hook))
}

func TestOpCounter_UnparsableWarnsAndActsAsZero(t *testing.T) {
	s := newFakeSurface("p1", "p2", "p3", "p4", "p5")
	c, hook := call(t, s, counterIDs(), "abc")
	require.NoError(t, opCounter(c))
	assert.Equal(t, []bool{false, false, false, false, false}, visibleCount(t, s))
	assert.Len(t, warnings(hook), 1)
}

func TestOpCounter_LargerThanListIsClamped(t *testing.T) {
	s := newFakeSurface("p1", "p2", "p3", "p4", "p5")
	c, _ := call(t, s, counterIDs(), "99")
	require.NoError(t, opCounter(c))
	assert.Equal(t, []bool{true, true, true, true, true}, visibleCount(t, s))
}

func TestOpCounter_MissingElementDoesNotStopOthers(t *testing.T) {
	s := newFakeSurface("p1", "p3")
	c, hook := call(t, s, []any{"p1", "p2", "p3"}, "1")
	require.NoError(t, opCounter(c))
	assert.True(t, s.element("p1").Visible)
	assert.False(t, s.element("p3").Visible)
	assert.Len(t, warnings(hook), 1)
}

func TestOpCounter_NotAList(t *testing.T) {
	s := newFakeSurface()
	c, _ := call(t, s, map[string]any{"a": "b"}, "1")
	assert.Error(t, opCounter(c))
}

func TestParseCount(t *testing.T) {
	cases := map[string]int{
		"":         0,
		"  ":       0,
		"0":        0,
		"3":        3,
		" 4 ":      4,
		"2.9":      2,
		"08":       8,
		"-2":       0,
		"abc":      -1,
		"3 up":     -1,
		"NaN":      -1,
		"Inf":      -1,
		"-Inf":     -1,
		"Infinity": -1,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseCount(in), "%q", in)
	}
}

func TestOpSwitch(t *testing.T) {
	s := newFakeSurface("A", "B")
	table := map[string]any{"win": "A", "lose": "B"}

	c, hook := call(t, s, table, "win")
	require.NoError(t, opSwitch(c))
	assert.True(t, s.element("A").Visible)
	assert.False(t, s.element("B").Visible)
	assert.Empty(t, warnings(hook))
}

func TestOpSwitch_SharedTargetStaysVisible(t *testing.T) {
	s := newFakeSurface("A", "B")
	table := map[string]any{"win": "A", "tie": "A", "lose": "B"}

	c, hook := call(t, s, table, "tie")
	require.NoError(t, opSwitch(c))
	assert.True(t, s.element("A").Visible)
	assert.False(t, s.element("B").Visible)
	assert.Empty(t, warnings(hook))

	c, _ = call(t, s, table, "lose")
	require.NoError(t, opSwitch(c))
	assert.False(t, s.element("A").Visible)
	assert.True(t, s.element("B").Visible)
}

func TestOpSwitch_NoMatchHidesAllAndWarns(t *testing.T) {
	s := newFakeSurface("A", "B")
	table := map[string]any{"win": "A", "lose": "B"}

	c, hook := call(t, s, table, "draw")
	require.NoError(t, opSwitch(c))
	assert.False(t, s.element("A").Visible)
	assert.False(t, s.element("B").Visible)
	assert.Len(t, warnings(hook), 1)
}

func TestOpSwitch_NotATable(t *testing.T) {
	s := newFakeSurface()
	c, _ := call(t, s, "A", "win")
	assert.Error(t, opSwitch(c))
}
