package bridge

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"

	"github.com/declbridge/declbridge/diag"
	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/protocol"
)

// Alias re-exports a bridged generator under a new name. The rendered code
// also re-exports the hidden inner continuation under the matching renamed
// path so forwards addressed to the alias keep working.
type Alias struct {
	Kind   GeneratorKind
	Name   string // the new visible name
	Target string // the original generator expression, e.g. otherpkg.MyAttr
}

// UseAlias validates src as an aliasing declaration of the form
//
//	var NewName = otherpkg.Original
//
// attached to a use_attr or use_proc directive.
func UseAlias(kind GeneratorKind, src string) (*Alias, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "alias.go", "package capture\n\n"+src, 0)
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{},
			"cannot parse aliasing declaration: %v", err).WithSnippet(firstLine(src))
	}
	if len(file.Decls) != 1 {
		return nil, aliasShapeError(src)
	}
	gd, ok := file.Decls[0].(*ast.GenDecl)
	if !ok || gd.Tok != token.VAR || len(gd.Specs) != 1 {
		return nil, aliasShapeError(src)
	}
	spec := gd.Specs[0].(*ast.ValueSpec)
	if len(spec.Names) != 1 || len(spec.Values) != 1 {
		return nil, aliasShapeError(src)
	}

	name := spec.Names[0].Name
	if !ast.IsExported(name) {
		return nil, diag.New(diag.KindShape, fset.Position(spec.Pos()),
			"alias %s must be exported", name)
	}
	target, ok := aliasTarget(spec.Values[0])
	if !ok {
		return nil, diag.New(diag.KindShape, fset.Position(spec.Pos()),
			"alias value must name a bridged generator").WithSnippet(firstLine(src))
	}
	return &Alias{Kind: kind, Name: name, Target: target}, nil
}

func aliasShapeError(src string) *diag.Error {
	return diag.New(diag.KindShape, token.Position{},
		"use directives apply to a single var alias of a bridged generator").
		WithSnippet(firstLine(src)).
		WithSuggestion("write: var NewName = otherpkg.Original")
}

// aliasTarget accepts a plain identifier (same-package alias) or a selector
// expression naming the generator in another package.
func aliasTarget(expr ast.Expr) (string, bool) {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name, true
	case *ast.SelectorExpr:
		base, ok := v.X.(*ast.Ident)
		if !ok {
			return "", false
		}
		return base.Name + "." + v.Sel.Name, true
	}
	return "", false
}

// InnerName returns the alias's re-exported continuation name.
func (a *Alias) InnerName() string {
	return a.Name + InnerSuffix
}

// Qualifier returns the target's package qualifier, or "" for a same-package
// alias. The generated file needs an import for it.
func (a *Alias) Qualifier() string {
	if i := strings.IndexByte(a.Target, '.'); i >= 0 {
		return a.Target[:i]
	}
	return ""
}

// Render emits the inner re-export and its registration. The outer alias var
// itself stays in the user's source; only the hidden half is generated.
func (a *Alias) Render(root string) (string, error) {
	if root == "" {
		root = protocol.DefaultRoot
	}
	pkg := runtimePkgName(root)

	var b strings.Builder
	fmt.Fprintf(&b, "var %s = %s%s\n", a.InnerName(), a.Target, InnerSuffix)
	fmt.Fprintf(&b, "\nfunc init() {\n\t%s.MustRegisterContinuation(%q, %s)\n}\n",
		pkg, a.InnerName(), a.InnerName())

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return "", errors.Wrapf(err, "rendering alias %s", a.Name)
	}
	return string(out), nil
}
