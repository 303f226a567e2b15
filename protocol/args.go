// Package protocol implements the export/import/forward operations at the
// heart of declbridge. Each operation is a pure transformation from argument
// syntax to generated code or an invocation record; the engine package drives
// the records through their continuations.
package protocol

import (
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/declbridge/declbridge/diag"
	"github.com/declbridge/declbridge/syntax"
)

// ImportArgs destructures the import surface: `var <ident> = <source path>`.
type ImportArgs struct {
	Var    string
	Source syntax.Path
}

// ForwardArgs destructures the forward surface:
// `<source path>, <target path>[, <root path>][, "<extra>"]`.
type ForwardArgs struct {
	Source syntax.Path
	Target syntax.Path
	Root   string  // optional override of the runtime root import path
	Extra  *string // optional payload, passed through verbatim
}

// ForwardedArgs destructures what a slot passes to forward's inner
// continuation: `<target path>, <declaration>[, "<extra>"]`.
type ForwardedArgs struct {
	Target syntax.Path
	Decl   *syntax.Decl
	Extra  *string
}

// ImportedArgs destructures what a slot passes to import's inner
// continuation: `<binding ident>, <declaration>`.
type ImportedArgs struct {
	Var  string
	Decl *syntax.Decl
}

// ParseImportArgs parses the `var x = some/pkg.Name` form.
func ParseImportArgs(raw string) (*ImportArgs, *diag.Error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "var ")
	if !ok {
		return nil, diag.New(diag.KindParse, token.Position{}, "expected `var <ident> = <path>`").WithSnippet(raw)
	}
	name, pathText, ok := strings.Cut(rest, "=")
	if !ok {
		return nil, diag.New(diag.KindParse, token.Position{}, "expected `=` in import binding").WithSnippet(raw)
	}
	ident, err := syntax.ParseIdent(strings.TrimSpace(name))
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "invalid binding name: %v", err).WithSnippet(strings.TrimSpace(name))
	}
	source, err := syntax.ParsePath(pathText)
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "invalid source path: %v", err).WithSnippet(strings.TrimSpace(pathText))
	}
	return &ImportArgs{Var: ident, Source: source}, nil
}

// ParseForwardArgs parses forward's raw arguments.
func ParseForwardArgs(raw string) (*ForwardArgs, *diag.Error) {
	parts, derr := splitTopLevel(raw)
	if derr != nil {
		return nil, derr
	}
	if len(parts) < 2 || len(parts) > 4 {
		return nil, diag.New(diag.KindParse, token.Position{},
			"forward expects `<source>, <target>[, <root>][, <extra literal>]`, got %d arguments", len(parts)).WithSnippet(raw)
	}
	source, err := syntax.ParsePath(parts[0])
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "invalid source path: %v", err).WithSnippet(parts[0])
	}
	target, err := syntax.ParsePath(parts[1])
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "invalid target path: %v", err).WithSnippet(parts[1])
	}
	args := &ForwardArgs{Source: source, Target: target}
	rest := parts[2:]
	// A trailing quoted literal is the extra payload; a bare path before it
	// overrides the runtime root.
	if len(rest) > 0 && !isStringLiteral(rest[0]) {
		args.Root = strings.TrimSpace(rest[0])
		rest = rest[1:]
	}
	if len(rest) > 0 {
		if !isStringLiteral(rest[0]) {
			return nil, diag.New(diag.KindParse, token.Position{}, "extra payload must be a quoted string literal").WithSnippet(rest[0])
		}
		extra, err := strconv.Unquote(strings.TrimSpace(rest[0]))
		if err != nil {
			return nil, diag.New(diag.KindParse, token.Position{}, "invalid extra literal: %v", err).WithSnippet(rest[0])
		}
		args.Extra = &extra
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return nil, diag.New(diag.KindParse, token.Position{}, "unexpected trailing argument").WithSnippet(rest[0])
	}
	return args, nil
}

// ParseForwardedArgs parses the inner continuation's raw arguments.
func ParseForwardedArgs(raw string) (*ForwardedArgs, *diag.Error) {
	parts, derr := splitTopLevel(raw)
	if derr != nil {
		return nil, derr
	}
	if len(parts) < 2 || len(parts) > 3 {
		return nil, diag.New(diag.KindParse, token.Position{},
			"expected `<target>, <declaration>[, <extra literal>]`, got %d arguments", len(parts)).WithSnippet(raw)
	}
	target, err := syntax.ParsePath(parts[0])
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "invalid target path: %v", err).WithSnippet(parts[0])
	}
	decl, err := syntax.ParseDecl(parts[1])
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "forwarded tokens are not a declaration: %v", err).WithSnippet(parts[1])
	}
	args := &ForwardedArgs{Target: target, Decl: decl}
	if len(parts) == 3 {
		extra, err := strconv.Unquote(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, diag.New(diag.KindParse, token.Position{}, "invalid extra literal: %v", err).WithSnippet(parts[2])
		}
		args.Extra = &extra
	}
	return args, nil
}

// ParseImportedArgs parses import's inner continuation arguments.
func ParseImportedArgs(raw string) (*ImportedArgs, *diag.Error) {
	parts, derr := splitTopLevel(raw)
	if derr != nil {
		return nil, derr
	}
	if len(parts) != 2 {
		return nil, diag.New(diag.KindParse, token.Position{},
			"expected `<binding ident>, <declaration>`, got %d arguments", len(parts)).WithSnippet(raw)
	}
	ident, err := syntax.ParseIdent(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "invalid binding name: %v", err).WithSnippet(parts[0])
	}
	decl, err := syntax.ParseDecl(parts[1])
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "imported tokens are not a declaration: %v", err).WithSnippet(parts[1])
	}
	return &ImportedArgs{Var: ident, Decl: decl}, nil
}

func isStringLiteral(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && (s[0] == '"' || s[0] == '`')
}

// splitTopLevel splits raw argument text on commas that sit outside any
// bracket nesting and outside string literals. Declaration arguments can
// contain commas, so a naive split would tear them apart.
func splitTopLevel(raw string) ([]string, *diag.Error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(raw))
	var scanErr *diag.Error
	var s scanner.Scanner
	s.Init(file, []byte(raw), func(pos token.Position, msg string) {
		if scanErr == nil {
			scanErr = diag.New(diag.KindParse, pos, "malformed argument tokens: %s", msg).WithSnippet(raw)
		}
	}, 0)

	depth := 0
	var parts []string
	last := 0
	for {
		pos, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
		switch tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		case token.COMMA:
			if depth == 0 {
				off := fset.Position(pos).Offset
				parts = append(parts, strings.TrimSpace(raw[last:off]))
				last = off + 1
			}
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if tail := strings.TrimSpace(raw[last:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts, nil
}
