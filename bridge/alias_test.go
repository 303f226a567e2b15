package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseAliasCrossPackage(t *testing.T) {
	a, err := UseAlias(KindAttribute, "var Widgetize = otherpkg.MyAttribute")
	require.NoError(t, err)
	assert.Equal(t, "Widgetize", a.Name)
	assert.Equal(t, "otherpkg.MyAttribute", a.Target)
	assert.Equal(t, "Widgetize_Inner", a.InnerName())
}

func TestUseAliasSamePackage(t *testing.T) {
	a, err := UseAlias(KindProcedural, "var Renamed = MyProc")
	require.NoError(t, err)
	assert.Equal(t, "MyProc", a.Target)
}

func TestUseAliasRejectsUnexported(t *testing.T) {
	_, err := UseAlias(KindAttribute, "var renamed = otherpkg.MyAttribute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be exported")
}

func TestUseAliasRejectsNonAlias(t *testing.T) {
	for _, src := range []string{
		"type Widgetize struct{}",
		"var A, B = x.C, x.D",
		"var Widgetize = someCall()",
	} {
		_, err := UseAlias(KindAttribute, src)
		assert.Error(t, err, "src %q", src)
	}
}

func TestAliasRender(t *testing.T) {
	a, err := UseAlias(KindAttribute, "var Widgetize = otherpkg.MyAttribute")
	require.NoError(t, err)
	out, err := a.Render("")
	require.NoError(t, err)

	assert.Contains(t, out, "var Widgetize_Inner = otherpkg.MyAttribute_Inner")
	assert.Contains(t, out, `declbridge.MustRegisterContinuation("Widgetize_Inner", Widgetize_Inner)`)
}
