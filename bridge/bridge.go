// Package bridge turns a user-written generator function into a two-phase
// bridged generator: an exported outer half that captures a foreign
// declaration by path, and a hidden inner continuation that receives the
// forwarded syntax and runs the user's implementation.
package bridge

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/declbridge/declbridge/diag"
)

// GeneratorKind distinguishes the two bridging surfaces.
type GeneratorKind int

const (
	// KindAttribute bridges a two-argument generator: the foreign
	// declaration selected by path, then the declaration the directive is
	// attached to.
	KindAttribute GeneratorKind = iota
	// KindProcedural bridges a single-argument generator that only consumes
	// the foreign declaration.
	KindProcedural
)

func (k GeneratorKind) String() string {
	if k == KindProcedural {
		return "procedural"
	}
	return "attribute"
}

// arity returns how many parameters the user implementation must declare.
func (k GeneratorKind) arity(custom bool) int {
	if k == KindProcedural {
		return 1
	}
	if custom {
		return 3
	}
	return 2
}

// InnerSuffix is appended to a bridged generator's public name to form the
// name of its hidden inner continuation.
const InnerSuffix = "_Inner"

// Generator is a validated bridged-generator definition, ready to render.
type Generator struct {
	Kind   GeneratorKind
	Name   string // exported outer name
	FnName string // the user implementation's (unexported) name
	Custom string // custom selector type expression, attribute kind only

	params []string
}

// InnerName returns the continuation name the outer half forwards to.
func (g *Generator) InnerName() string {
	return g.Name + InnerSuffix
}

// CustomQualifier returns the package qualifier of the custom selector type,
// or "" when the type is local or no custom parsing is configured. The
// generated outer half names the type, so its package must be imported there.
func (g *Generator) CustomQualifier() string {
	t := strings.TrimPrefix(g.Custom, "*")
	if i := strings.IndexByte(t, '.'); i >= 0 {
		return t[:i]
	}
	return ""
}

// ImportAttr validates src as an attribute-shaped generator implementation:
// an unexported function taking the foreign declaration stream and the
// attached declaration stream, returning a stream and an error. publicName
// overrides the derived outer name (the implementation name, capitalized).
func ImportAttr(publicName, src string) (*Generator, error) {
	return build(KindAttribute, publicName, "", src)
}

// ImportProc validates src as a procedural generator implementation: a
// single-parameter function consuming only the foreign declaration stream.
func ImportProc(publicName, src string) (*Generator, error) {
	return build(KindProcedural, publicName, "", src)
}

// WithCustomParsing is the attribute variant whose selector argument is
// parsed by typeExpr instead of as a bare path. typeExpr must implement the
// ForeignSelector capability; the implementation takes a third parameter
// bound to the re-parsed custom payload.
func WithCustomParsing(typeExpr, publicName, src string) (*Generator, error) {
	if strings.TrimSpace(typeExpr) == "" {
		return nil, diag.New(diag.KindProtocol, token.Position{},
			"with_custom_parsing requires a selector type")
	}
	return build(KindAttribute, publicName, strings.TrimSpace(typeExpr), src)
}

func build(kind GeneratorKind, publicName, custom, src string) (*Generator, error) {
	fn, fset, err := parseFunc(src)
	if err != nil {
		return nil, err
	}
	pos := fset.Position(fn.Pos())

	if fn.Recv != nil {
		return nil, diag.New(diag.KindShape, pos,
			"cannot bridge a method; write a plain function").
			WithSnippet(fn.Name.Name)
	}
	if ast.IsExported(fn.Name.Name) {
		return nil, diag.New(diag.KindShape, pos,
			"bridged implementation %s must be unexported; the generated outer generator takes the exported name",
			fn.Name.Name)
	}

	name := publicName
	if name == "" {
		name = exportedForm(fn.Name.Name)
	}
	if !token.IsIdentifier(name) || !ast.IsExported(name) {
		return nil, diag.New(diag.KindShape, pos,
			"%q is not a valid exported generator name", name)
	}

	params := paramNames(fn)
	want := kind.arity(custom != "")
	if len(params) != want {
		return nil, diag.New(diag.KindShape, pos,
			"%s generator %s takes %d parameter(s), want %d",
			kind, fn.Name.Name, len(params), want).
			WithSuggestion(paramHint(kind, custom != ""))
	}
	for _, f := range fn.Type.Params.List {
		if !isStreamType(f.Type) {
			return nil, diag.New(diag.KindShape, pos,
				"generator %s parameters must be declaration streams", fn.Name.Name)
		}
	}
	if !hasStreamErrorResults(fn) {
		return nil, diag.New(diag.KindShape, pos,
			"generator %s must return a stream and an error", fn.Name.Name)
	}

	return &Generator{
		Kind:   kind,
		Name:   name,
		FnName: fn.Name.Name,
		Custom: custom,
		params: params,
	}, nil
}

func parseFunc(src string) (*ast.FuncDecl, *token.FileSet, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "generator.go", "package capture\n\n"+src, 0)
	if err != nil {
		return nil, nil, diag.New(diag.KindParse, token.Position{},
			"cannot parse generator definition: %v", err).WithSnippet(firstLine(src))
	}
	if len(file.Decls) != 1 {
		return nil, nil, diag.New(diag.KindShape, token.Position{},
			"expected exactly one function declaration, found %d declarations", len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		return nil, nil, diag.New(diag.KindShape, token.Position{},
			"bridging directives apply to function declarations").
			WithSnippet(firstLine(src))
	}
	return fn, fset, nil
}

func paramNames(fn *ast.FuncDecl) []string {
	var names []string
	for _, f := range fn.Type.Params.List {
		if len(f.Names) == 0 {
			names = append(names, "_")
			continue
		}
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
	}
	return names
}

// isStreamType accepts the stream type under either import spelling
// (syntax.Stream or declbridge.Stream).
func isStreamType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		return t.Sel.Name == "Stream"
	case *ast.Ident:
		return t.Name == "Stream"
	}
	return false
}

func hasStreamErrorResults(fn *ast.FuncDecl) bool {
	res := fn.Type.Results
	if res == nil || len(res.List) != 2 {
		return false
	}
	if len(res.List[0].Names) != 0 || len(res.List[1].Names) != 0 {
		return false
	}
	if !isStreamType(res.List[0].Type) {
		return false
	}
	id, ok := res.List[1].Type.(*ast.Ident)
	return ok && id.Name == "error"
}

func paramHint(kind GeneratorKind, custom bool) string {
	switch {
	case kind == KindProcedural:
		return "declare func(foreign Stream) (Stream, error)"
	case custom:
		return "declare func(foreign, attached, custom Stream) (Stream, error)"
	default:
		return "declare func(foreign, attached Stream) (Stream, error)"
	}
}

func exportedForm(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
