package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclIntrinsicNames(t *testing.T) {
	cases := []struct {
		src  string
		name string
	}{
		{"func AddStuff(a, b int) int { return a + b }", "AddStuff"},
		{"type Widget struct{ N int }", "Widget"},
		{"type Pair[T any] struct{ A, B T }", "Pair"},
		{"type Alias = int", "Alias"},
		{"const answer = 42", "answer"},
		{"var count int", "count"},
		{"type Reader interface{ Read() }", "Reader"},
	}
	for _, c := range cases {
		d, err := ParseDecl(c.src)
		require.NoError(t, err, "src %q", c.src)
		name, ok := d.IntrinsicName()
		require.True(t, ok, "src %q should have an intrinsic name", c.src)
		assert.Equal(t, c.name, name)
	}
}

func TestParseDeclNoIntrinsicName(t *testing.T) {
	cases := []struct {
		src      string
		describe string
	}{
		{"func (w Widget) Area() int { return w.N }", "method declaration"},
		{`import "fmt"`, "import declaration"},
		{"var a, b int", "grouped var declaration"},
		{"const (\n\tx = 1\n\ty = 2\n)", "grouped const declaration"},
		{"const x, y = 1, 2", "grouped const declaration"},
		{"var _ = setup()", "var declaration"},
	}
	for _, c := range cases {
		d, err := ParseDecl(c.src)
		require.NoError(t, err, "src %q", c.src)
		_, ok := d.IntrinsicName()
		assert.False(t, ok, "src %q should have no intrinsic name", c.src)
		assert.Equal(t, c.describe, d.Describe())
	}
}

func TestParseDeclCanonicalText(t *testing.T) {
	// Capture is whitespace-insensitive: the held text is gofmt shaped.
	a, err := ParseDecl("func  AddStuff( a,b int )int{ return a+b }")
	require.NoError(t, err)
	b, err := ParseDecl("func AddStuff(a, b int) int { return a + b }")
	require.NoError(t, err)
	assert.Equal(t, b.String(), a.String())
}

func TestParseDeclErrors(t *testing.T) {
	_, err := ParseDecl("not a declaration at all {{{")
	assert.Error(t, err)

	_, err = ParseDecl("func A() {}\nfunc B() {}")
	assert.Error(t, err, "two declarations must be rejected")
}

func TestParseStream(t *testing.T) {
	s, err := ParseStream("func add_stuff(a int, b int) int { return a + b }")
	require.NoError(t, err)
	assert.False(t, s.IsEmpty())

	_, err = ParseStream("\"unterminated")
	assert.Error(t, err)

	empty, err := ParseStream("   ")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}
