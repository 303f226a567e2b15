// Package declbridge is the runtime surface generated code links against:
// syntax streams, extra-payload codec helpers, and the default engine's
// continuation registry. The subpackages carry the machinery; this package
// only re-exports what generated files and bridged generators need.
package declbridge

import (
	"github.com/declbridge/declbridge/engine"
	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/registry"
	"github.com/declbridge/declbridge/syntax"
)

// Stream is a validated Go token stream (see syntax.Stream).
type Stream = syntax.Stream

// Path is a package-qualified identifier (see syntax.Path).
type Path = syntax.Path

// InnerArgs is what a registered continuation receives.
type InnerArgs = engine.InnerArgs

// Continuation consumes forwarded syntax and produces generated code.
type Continuation = engine.Continuation

// Parsing and payload-codec helpers.
var (
	ParseStream     = syntax.ParseStream
	MustParseStream = syntax.MustParseStream
	ParsePath       = syntax.ParsePath
	ParseIdent      = syntax.ParseIdent
	EscapeExtra     = syntax.EscapeExtra
	UnescapeExtra   = syntax.UnescapeExtra
	JoinExtra       = syntax.JoinExtra
	SplitExtra      = syntax.SplitExtra
)

// Errorf creates an error with a stack trace, for use inside generated
// continuations.
var Errorf = errors.Newf

// ForeignSelector is the custom-parsing capability for attribute bridging:
// any type that can parse the selector argument's surface syntax, expose the
// foreign declaration's path, and serialize itself back to syntax text.
type ForeignSelector interface {
	ParseStream(Stream) error
	ForeignPath() Path
	String() string
}

// defaultEngine resolves foreign slots through the build's package graph.
var defaultEngine = engine.New(engine.WithResolver(&registry.PackageResolver{}))

// DefaultEngine returns the process-wide engine that init-time registrations
// target.
func DefaultEngine() *engine.Engine {
	return defaultEngine
}

// RegisterContinuation makes a continuation addressable as a forward target
// on the default engine.
func RegisterContinuation(name string, c Continuation) error {
	return defaultEngine.RegisterContinuation(name, c)
}

// MustRegisterContinuation is RegisterContinuation for init functions in
// generated code.
func MustRegisterContinuation(name string, c Continuation) {
	defaultEngine.MustRegisterContinuation(name, c)
}

// ForwardTo resolves source's slot and runs the named continuation with the
// captured declaration and the raw extra payload.
func ForwardTo(source Path, target string, extra string) (Stream, error) {
	return defaultEngine.Forward(source, target, extra)
}
