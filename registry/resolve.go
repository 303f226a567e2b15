package registry

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/syntax"
)

// Resolver resolves a slot path to the captured declaration it holds.
type Resolver interface {
	Resolve(path syntax.Path) (Slot, error)
}

// TableResolver resolves against an in-memory table, optionally falling back
// to another resolver for namespaces the table has not seen. The fallback is
// how cross-package resolution reaches slots generated by earlier builds.
type TableResolver struct {
	Table    *Table
	Fallback Resolver
}

// Resolve implements Resolver. The path must already address the slot name
// (see protocol.SlotPath).
func (r *TableResolver) Resolve(path syntax.Path) (Slot, error) {
	if s, ok := r.Table.Lookup(path.Pkg, path.Name); ok {
		return s, nil
	}
	if r.Fallback != nil {
		return r.Fallback.Resolve(path)
	}
	return Slot{}, errors.Wrapf(ErrSlotNotFound, "%s", path.String())
}

// PackageResolver loads the exporting package with go/packages and reads the
// slot constant back out of its generated file. A slot that was never
// exported surfaces as the usual unknown-name failure.
type PackageResolver struct {
	// Dir is the directory packages.Load resolves import paths from.
	// Empty means the current directory.
	Dir string
}

// Resolve implements Resolver.
func (r *PackageResolver) Resolve(path syntax.Path) (Slot, error) {
	if path.Pkg == "" {
		return Slot{}, errors.Wrapf(ErrSlotNotFound, "%s has no package qualifier", path.Name)
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedFiles,
		Dir:  r.Dir,
	}
	pkgs, err := packages.Load(cfg, path.Pkg)
	if err != nil {
		return Slot{}, errors.Wrapf(err, "failed to load package %s", path.Pkg)
	}
	if len(pkgs) == 0 {
		return Slot{}, errors.Wrapf(ErrSlotNotFound, "no packages found for %s", path.Pkg)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return Slot{}, errors.Newf("package %s has errors: %v", path.Pkg, pkg.Errors)
	}
	for _, file := range pkg.Syntax {
		if decl, ok := findSlotConst(file, path.Name); ok {
			return Slot{Name: path.Name, Namespace: path.Pkg, Decl: decl}, nil
		}
	}
	return Slot{}, errors.Wrapf(ErrSlotNotFound, "%s", path.String())
}

// ResolveInSource finds a slot constant inside a single generated file's
// source text. Used by tests and by the staleness check.
func ResolveInSource(src, name string) (string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return "", errors.Wrap(err, "generated source does not parse")
	}
	if decl, ok := findSlotConst(file, name); ok {
		return decl, nil
	}
	return "", errors.Wrapf(ErrSlotNotFound, "%s", name)
}

func findSlotConst(file *ast.File, name string) (string, bool) {
	for _, d := range file.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, ident := range vs.Names {
				if ident.Name != name || i >= len(vs.Values) {
					continue
				}
				lit, ok := vs.Values[i].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				decl, err := strconv.Unquote(lit.Value)
				if err != nil {
					continue
				}
				return decl, true
			}
		}
	}
	return "", false
}
