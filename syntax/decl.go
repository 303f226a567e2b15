package syntax

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"github.com/declbridge/declbridge/errors"
)

// Decl is one captured top-level Go declaration: a function, type, const,
// var, or a single-spec declaration group. The source text is held in
// canonical gofmt shape so that slot contents compare bit-for-bit across
// independent captures.
type Decl struct {
	src  string
	node ast.Decl
}

// ParseDecl captures exactly one top-level declaration from src.
func ParseDecl(src string) (*Decl, error) {
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return nil, errors.Wrap(err, "declaration does not parse")
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", "package capture\n\n"+string(formatted), parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrap(err, "declaration does not parse")
	}
	if len(file.Decls) != 1 {
		return nil, errors.Newf("expected exactly one declaration, got %d", len(file.Decls))
	}
	return &Decl{src: string(formatted), node: file.Decls[0]}, nil
}

// String returns the declaration's canonical source text.
func (d *Decl) String() string {
	return d.src
}

// IntrinsicName returns the declaration's own name, when it has one. Methods,
// import declarations, grouped declarations, and blank-named declarations
// have none and require an override name at export time. Type parameters
// never contribute to the name.
func (d *Decl) IntrinsicName() (string, bool) {
	switch n := d.node.(type) {
	case *ast.FuncDecl:
		if n.Recv != nil {
			return "", false
		}
		return n.Name.Name, true
	case *ast.GenDecl:
		if n.Tok == token.IMPORT || len(n.Specs) != 1 {
			return "", false
		}
		switch spec := n.Specs[0].(type) {
		case *ast.TypeSpec:
			return spec.Name.Name, true
		case *ast.ValueSpec:
			if len(spec.Names) != 1 || spec.Names[0].Name == "_" {
				return "", false
			}
			return spec.Names[0].Name, true
		}
	}
	return "", false
}

// Describe names the declaration's construct for error messages.
func (d *Decl) Describe() string {
	switch n := d.node.(type) {
	case *ast.FuncDecl:
		if n.Recv != nil {
			return "method declaration"
		}
		return "function declaration"
	case *ast.GenDecl:
		switch n.Tok {
		case token.IMPORT:
			return "import declaration"
		case token.TYPE:
			if len(n.Specs) != 1 {
				return "grouped type declaration"
			}
			return "type declaration"
		case token.CONST:
			if groupedValueDecl(n) {
				return "grouped const declaration"
			}
			return "const declaration"
		case token.VAR:
			if groupedValueDecl(n) {
				return "grouped var declaration"
			}
			return "var declaration"
		}
	}
	return "declaration"
}

// groupedValueDecl mirrors IntrinsicName's single-name rule: one spec binding
// several names is still a group.
func groupedValueDecl(n *ast.GenDecl) bool {
	if len(n.Specs) != 1 {
		return true
	}
	spec, ok := n.Specs[0].(*ast.ValueSpec)
	return !ok || len(spec.Names) != 1
}

// Stream returns the declaration as an opaque syntax stream.
func (d *Decl) Stream() Stream {
	return Stream{text: d.src}
}
