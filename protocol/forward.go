package protocol

import (
	"github.com/declbridge/declbridge/syntax"
)

// Forward builds the invocation for the forward surface: relay a captured
// declaration, plus an optional payload, to a caller-chosen continuation.
// An explicit root argument in the directive wins over the configured root.
func Forward(raw string, root string) (*Invocation, error) {
	args, derr := ParseForwardArgs(raw)
	if derr != nil {
		return nil, derr
	}
	if args.Root == "" {
		args.Root = root
	}
	return ForwardArgsInvocation(args), nil
}

// ForwardArgsInvocation builds the invocation for already-parsed forward
// arguments. The slot is invoked with the inner-forward continuation, which
// performs the actual splice to the target.
func ForwardArgsInvocation(args *ForwardArgs) *Invocation {
	return &Invocation{
		Slot:     SlotPath(args.Source),
		First:    args.Target.String(),
		Callback: syntax.Path{Pkg: rootOr(args.Root), Name: ForwardInnerName},
		Extra:    args.Extra,
	}
}

// ForwardInner is the built-in continuation behind Forward: it receives the
// forwarded declaration and splices it, followed by the raw payload when one
// is present, into an invocation of the target continuation.
func ForwardInner(f *Forwarded) (*ForwardedArgs, error) {
	target, err := syntax.ParsePath(f.Target)
	if err != nil {
		return nil, err
	}
	decl, err := syntax.ParseDecl(f.Decl)
	if err != nil {
		return nil, err
	}
	return &ForwardedArgs{Target: target, Decl: decl, Extra: f.Extra}, nil
}
