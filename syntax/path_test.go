package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	p, err := ParsePath("AddStuff")
	require.NoError(t, err)
	assert.Equal(t, Path{Name: "AddStuff"}, p)

	p, err = ParsePath("otherpkg.AddStuff")
	require.NoError(t, err)
	assert.Equal(t, Path{Pkg: "otherpkg", Name: "AddStuff"}, p)

	p, err = ParsePath("example.com/other/pkg.AddStuff")
	require.NoError(t, err)
	assert.Equal(t, "example.com/other/pkg", p.Pkg)
	assert.Equal(t, "AddStuff", p.Name)
	assert.Equal(t, "pkg", p.PkgName())
	assert.Equal(t, "example.com/other/pkg.AddStuff", p.String())
}

func TestParsePathInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "2x", "a.2x", "a..b", "pkg.", "a/b/.Name", "func"} {
		_, err := ParsePath(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestPathWithName(t *testing.T) {
	p, err := ParsePath("example.com/pkg.Orig")
	require.NoError(t, err)
	slot := p.WithName("__exported_decl_orig")
	assert.Equal(t, "example.com/pkg.__exported_decl_orig", slot.String())
}

func TestParseIdent(t *testing.T) {
	for _, in := range []string{"x", "AddStuff", "_hidden", "x9"} {
		got, err := ParseIdent(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, in, got)
	}
	for _, in := range []string{"", "some::path", "some.path", "Thing<T>", "func", "9x", "a b"} {
		_, err := ParseIdent(in)
		assert.Error(t, err, "input %q", in)
	}
}
