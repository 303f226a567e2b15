package protocol

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declbridge/declbridge/errors"
)

func TestImportSimplePath(t *testing.T) {
	inv, err := Import("var tokens = mypkg.SomethingCool", "")
	require.NoError(t, err)
	assert.Equal(t, "mypkg.__exported_decl_something_cool", inv.Slot.String())
	assert.Equal(t, "tokens", inv.First)
	assert.Equal(t, DefaultRoot+"."+ImportInnerName, inv.Callback.String())
	assert.Nil(t, inv.Extra)
}

func TestImportLongPath(t *testing.T) {
	inv, err := Import("var tokens = example.com/some/mod.SomethingElse", "")
	require.NoError(t, err)
	assert.Equal(t, "example.com/some/mod.__exported_decl_something_else", inv.Slot.String())
}

func TestImportRootOverride(t *testing.T) {
	inv, err := Import("var x = pkg.Thing", "example.com/custom/runtime")
	require.NoError(t, err)
	assert.Equal(t, "example.com/custom/runtime", inv.Callback.Pkg)
}

func TestImportInvalidBinding(t *testing.T) {
	_, err := Import("var 3 * 2 = mypkg.something", "")
	assert.Error(t, err)
	_, err = Import("tokens = mypkg.something", "")
	assert.Error(t, err)
	_, err = Import("var my_tokens = 2 - 2", "")
	assert.Error(t, err)
}

func TestImportInnerEmitsBinding(t *testing.T) {
	decl := "func add_stuff(a int, b int) int {\n\treturn a + b\n}"
	code, err := ImportInner(&Forwarded{Target: "myTokens", Decl: decl}, "")
	require.NoError(t, err)
	assert.Contains(t, code, "var myTokens = declbridge.MustParseStream(")
	// The quoted payload must round-trip the exact captured text.
	got, err := unquoteCallArg(code)
	require.NoError(t, err)
	assert.Equal(t, decl, got)
}

// unquoteCallArg extracts the quoted argument of the emitted
// MustParseStream call.
func unquoteCallArg(code string) (string, error) {
	start := strings.Index(code, `("`)
	end := strings.LastIndex(code, `)`)
	if start < 0 || end <= start {
		return "", errors.Newf("no quoted call argument in %q", code)
	}
	return strconv.Unquote(code[start+1 : end])
}

func TestParseImportedArgs(t *testing.T) {
	args, derr := ParseImportedArgs("my_ident, func my_function() int { return 33 }")
	require.Nil(t, derr)
	assert.Equal(t, "my_ident", args.Var)
	name, ok := args.Decl.IntrinsicName()
	require.True(t, ok)
	assert.Equal(t, "my_function", name)
}

func TestParseImportedArgsMissingComma(t *testing.T) {
	_, derr := ParseImportedArgs("my_ident func my_function() int { return 33 }")
	assert.NotNil(t, derr)
}

func TestParseImportedArgsNonDecl(t *testing.T) {
	_, derr := ParseImportedArgs("another_ident, 2 + 2")
	assert.NotNil(t, derr)
}
