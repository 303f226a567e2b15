package protocol

import (
	"fmt"
	"strconv"

	"github.com/declbridge/declbridge/registry"
	"github.com/declbridge/declbridge/syntax"
)

// DefaultRoot is the canonical import path of the declbridge runtime:
// generated code refers to continuations and helpers under this path unless
// a root override is configured.
const DefaultRoot = "github.com/declbridge/declbridge"

// Builtin continuation names under the runtime root.
const (
	ImportInnerName  = "ImportInner"
	ForwardInnerName = "ForwardInner"
)

// Invocation is the stage-1 request record: invoke a registry slot, sending
// its contents to a continuation. The exporter's slot is continuation
// agnostic; the importer chooses the callback.
type Invocation struct {
	Slot     syntax.Path // slot path, already slot-named
	First    string      // binding ident (import) or target path (forward)
	Callback syntax.Path // continuation that receives the forwarded syntax
	Extra    *string     // optional payload, escaped by the caller
}

// Forwarded is the stage-2 record a slot produces for its continuation. The
// slot dispatches between its plain and extra arms on the presence of the
// payload.
type Forwarded struct {
	Target string // passed-through first argument
	Decl   string // the captured declaration's text
	Extra  *string
}

// SlotPath rewrites a source path to address its registry slot: the final
// segment is replaced with the slot name under the same namespace prefix.
func SlotPath(source syntax.Path) syntax.Path {
	return source.WithName(registry.SlotName(source.Name))
}

// InvokeSlot applies a slot to an invocation, selecting the plain or extra
// forwarding arm.
func InvokeSlot(slot registry.Slot, inv *Invocation) *Forwarded {
	return &Forwarded{Target: inv.First, Decl: slot.Decl, Extra: inv.Extra}
}

// Import builds the invocation for the import surface: resolve the source
// path's slot and send its contents to the built-in import continuation,
// which materializes the declaration as a syntax-stream binding.
func Import(raw string, root string) (*Invocation, error) {
	args, derr := ParseImportArgs(raw)
	if derr != nil {
		return nil, derr
	}
	return &Invocation{
		Slot:     SlotPath(args.Source),
		First:    args.Var,
		Callback: syntax.Path{Pkg: rootOr(root), Name: ImportInnerName},
	}, nil
}

// ImportInner is the built-in continuation behind Import. It receives the
// forwarded declaration and emits a package-level binding that parses the
// captured text back into a live syntax stream.
func ImportInner(f *Forwarded, root string) (string, error) {
	pkg := syntax.Path{Pkg: rootOr(root), Name: "MustParseStream"}
	return fmt.Sprintf("var %s = %s.MustParseStream(%s)\n", f.Target, pkg.PkgName(), strconv.Quote(f.Decl)), nil
}

func rootOr(root string) string {
	if root == "" {
		return DefaultRoot
	}
	return root
}
