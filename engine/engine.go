// Package engine drives the declbridge expansion pipeline: it resolves
// registry slots, dispatches invocation records to their continuations, and
// runs the directive scanner over package directories.
package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/logger"
	"github.com/declbridge/declbridge/protocol"
	"github.com/declbridge/declbridge/registry"
	"github.com/declbridge/declbridge/syntax"
)

// InnerArgs is what a registered continuation receives: the forwarded
// declaration's text plus the raw extra payload (empty when the plain
// forwarding arm was used).
type InnerArgs struct {
	Decl  string
	Extra string
}

// Continuation is a generator that consumes forwarded syntax. Bridged
// generators register their auto-generated inner halves as continuations.
type Continuation func(args InnerArgs) (syntax.Stream, error)

// DefaultGeneratedFile is the file name Generate writes into each package.
const DefaultGeneratedFile = "declbridge_gen.go"

// Engine executes invocation records against a slot table and a continuation
// registry. Slot resolution for foreign namespaces goes through the
// configured resolver.
type Engine struct {
	mu            sync.Mutex
	table         *registry.Table
	resolver      registry.Resolver
	continuations map[string]Continuation
	root          string
	generatedFile string
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets the fallback resolver for foreign namespaces.
func WithResolver(r registry.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithRoot overrides the runtime root import path used for builtin
// continuation matching and generated references.
func WithRoot(root string) Option {
	return func(e *Engine) {
		if root != "" {
			e.root = root
		}
	}
}

// WithGeneratedFile overrides the name of the file Generate writes.
func WithGeneratedFile(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.generatedFile = name
		}
	}
}

// New creates an engine with an empty slot table.
func New(opts ...Option) *Engine {
	e := &Engine{
		table:         registry.NewTable(),
		continuations: make(map[string]Continuation),
		root:          protocol.DefaultRoot,
		generatedFile: DefaultGeneratedFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// logger resolves the component logger at call time, so an engine built
// before logger initialization still logs through the configured logger.
func (e *Engine) logger() *zap.SugaredLogger {
	return logger.ComponentLogger("engine")
}

// Table exposes the engine's slot table.
func (e *Engine) Table() *registry.Table {
	return e.table
}

// Root returns the runtime root import path in effect.
func (e *Engine) Root() string {
	return e.root
}

// RegisterContinuation makes a named continuation addressable as a forward
// target. Names are flat, like the slot namespace: registering a duplicate
// is an error.
func (e *Engine) RegisterContinuation(name string, c Continuation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.continuations[name]; exists {
		return errors.Newf("continuation %q already registered", name)
	}
	e.continuations[name] = c
	return nil
}

// MustRegisterContinuation is RegisterContinuation for init-time wiring,
// where a duplicate name is a programmer error.
func (e *Engine) MustRegisterContinuation(name string, c Continuation) {
	if err := e.RegisterContinuation(name, c); err != nil {
		panic(err)
	}
}

func (e *Engine) continuation(name string) (Continuation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.continuations[name]
	return c, ok
}

// Execute runs one invocation record to completion: resolve the slot, apply
// the forwarding arm, and dispatch the continuation. Returns the generated
// code the final continuation produced.
func (e *Engine) Execute(inv *protocol.Invocation) (string, error) {
	return e.execute(inv, e.resolveSlot)
}

// execute runs an invocation with a caller-supplied resolution strategy, so
// generation runs can prefer slots exported earlier in the same run.
func (e *Engine) execute(inv *protocol.Invocation, resolve func(syntax.Path) (registry.Slot, error)) (string, error) {
	slot, err := resolve(inv.Slot)
	if err != nil {
		return "", err
	}
	forwarded := protocol.InvokeSlot(slot, inv)

	if inv.Callback.Pkg == e.root {
		switch inv.Callback.Name {
		case protocol.ImportInnerName:
			return protocol.ImportInner(forwarded, e.root)
		case protocol.ForwardInnerName:
			return e.dispatchForward(forwarded)
		}
	}
	// A caller-chosen continuation invoked directly by path.
	return e.dispatchTo(inv.Callback.Name, forwarded.Decl, forwarded.Extra)
}

// dispatchForward performs the inner-forward splice and hands the result to
// the target continuation.
func (e *Engine) dispatchForward(f *protocol.Forwarded) (string, error) {
	args, err := protocol.ForwardInner(f)
	if err != nil {
		return "", err
	}
	return e.dispatchTo(args.Target.Name, args.Decl.String(), args.Extra)
}

func (e *Engine) dispatchTo(name, decl string, extra *string) (string, error) {
	c, ok := e.continuation(name)
	if !ok {
		return "", errors.Newf("unknown continuation %q", name)
	}
	args := InnerArgs{Decl: decl}
	if extra != nil {
		args.Extra = *extra
	}
	out, err := c(args)
	if err != nil {
		return "", errors.Wrapf(err, "continuation %q", name)
	}
	return out.String(), nil
}

// resolveSlot looks the path up in the table, then falls back to the foreign
// resolver. A qualified path only ever matches slots registered under that
// namespace; a local slot whose flattened name happens to coincide is never
// substituted.
func (e *Engine) resolveSlot(path syntax.Path) (registry.Slot, error) {
	if s, ok := e.table.Lookup(path.Pkg, path.Name); ok {
		return s, nil
	}
	if e.resolver != nil {
		s, err := e.resolver.Resolve(path)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, registry.ErrSlotNotFound) {
			return registry.Slot{}, err
		}
	}
	e.logger().Debugw("slot resolution failed", logger.FieldSlot, path.String())
	return registry.Slot{}, errors.Wrapf(registry.ErrSlotNotFound, "%s", path.String())
}

// Forward is the library entry point bridged generators call at expansion
// time: resolve the source's slot and run the named continuation with the
// declaration and payload.
func (e *Engine) Forward(source syntax.Path, target string, extra string) (syntax.Stream, error) {
	inv := &protocol.Invocation{
		Slot:     protocol.SlotPath(source),
		First:    target,
		Callback: syntax.Path{Pkg: e.root, Name: protocol.ForwardInnerName},
	}
	if extra != "" {
		inv.Extra = &extra
	}
	out, err := e.Execute(inv)
	if err != nil {
		return syntax.Stream{}, err
	}
	return syntax.ParseStream(out)
}
