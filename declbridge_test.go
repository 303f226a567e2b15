package declbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declbridge/declbridge/registry"
)

func TestForwardToUsesDefaultEngine(t *testing.T) {
	err := DefaultEngine().Table().Register(registry.Slot{
		Name:      registry.SlotName("RootThing"),
		Namespace: "example.com/rootpkg",
		Decl:      "type RootThing struct{}",
	})
	require.NoError(t, err)

	var got InnerArgs
	MustRegisterContinuation("RootSmoke_Inner", func(args InnerArgs) (Stream, error) {
		got = args
		return ParseStream("var _ = 0")
	})

	out, err := ForwardTo(Path{Pkg: "example.com/rootpkg", Name: "RootThing"}, "RootSmoke_Inner", "payload")
	require.NoError(t, err)
	assert.Equal(t, "var _ = 0", out.String())
	assert.Contains(t, got.Decl, "type RootThing struct{}")
	assert.Equal(t, "payload", got.Extra)
}

func TestPayloadCodecRoundTrip(t *testing.T) {
	fields := []string{"attached decl", "pkg.Thing", `custom ~~ \ text`}
	got := SplitExtra(JoinExtra(fields...))
	assert.Equal(t, fields, got)
}

func TestRegisterContinuationDuplicateSurfacesError(t *testing.T) {
	noop := func(InnerArgs) (Stream, error) { return Stream{}, nil }
	require.NoError(t, RegisterContinuation("RootDup_Inner", noop))
	assert.Error(t, RegisterContinuation("RootDup_Inner", noop))
}
