package engine

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/declbridge/declbridge/bridge"
	"github.com/declbridge/declbridge/diag"
)

// DirectiveKind identifies what a scanned directive asks for.
type DirectiveKind string

const (
	DirectiveExport  DirectiveKind = "export"
	DirectiveImport  DirectiveKind = "import"
	DirectiveForward DirectiveKind = "forward"
	DirectiveBridge  DirectiveKind = "bridge"
	DirectiveUse     DirectiveKind = "use"
)

// Directive is one scanned declbridge comment, together with the declaration
// it is attached to when the directive applies to a declaration.
type Directive struct {
	Kind DirectiveKind
	Arg  string // directive argument text (override name, binding, forward args)
	Pos  token.Position
	Decl string   // attached declaration source, directive comments excluded
	Doc  []string // full doc-comment lines, for the bridging rules

	// UseKind distinguishes use_attr from use_proc aliases.
	UseKind bridge.GeneratorKind

	// Imports maps local package names to import spec text from the
	// directive's file, so generated code referencing those packages can
	// carry the matching imports.
	Imports map[string]string
}

// ScanResult is everything the scanner found in one package directory.
type ScanResult struct {
	PkgName    string
	Dir        string
	Directives []Directive
}

// ScanPackage scans the non-generated Go files of a directory for declbridge
// directives. Test files are included so test-only exports work. Malformed
// individual files are reported as diagnostics without aborting the scan of
// sibling files.
func (e *Engine) ScanPackage(dir string) (*ScanResult, []*diag.Error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []*diag.Error{diag.New(diag.KindParse, token.Position{},
			"cannot read package directory: %v", err)}
	}

	result := &ScanResult{Dir: dir}
	var diags []*diag.Error
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if name == e.generatedFile || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			diags = append(diags, diag.New(diag.KindParse, token.Position{Filename: path},
				"cannot read file: %v", err))
			continue
		}
		pkgName, dirs, fileDiags := scanFile(path, string(src))
		if result.PkgName == "" {
			result.PkgName = pkgName
		}
		result.Directives = append(result.Directives, dirs...)
		diags = append(diags, fileDiags...)
	}
	return result, diags
}

// scanFile extracts directives from one file. Doc-comment directives attach
// to their declaration; free-floating comment directives stand alone.
func scanFile(filename, src string) (pkgName string, dirs []Directive, diags []*diag.Error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return "", nil, []*diag.Error{diag.New(diag.KindParse, token.Position{Filename: filename},
			"file does not parse: %v", err)}
	}
	pkgName = file.Name.Name
	imports := fileImports(file)

	attached := make(map[*ast.CommentGroup]bool)
	for _, decl := range file.Decls {
		doc := declDoc(decl)
		if doc == nil {
			continue
		}
		attached[doc] = true
		d, derr := declDirective(fset, src, decl, doc)
		if derr != nil {
			diags = append(diags, derr)
			continue
		}
		if d != nil {
			dirs = append(dirs, *d)
		}
	}

	for _, group := range file.Comments {
		if attached[group] {
			continue
		}
		for _, c := range group.List {
			word, arg, ok := bridge.CutDirective(c.Text)
			if !ok {
				continue
			}
			pos := fset.Position(c.Pos())
			switch word {
			case "import":
				dirs = append(dirs, Directive{Kind: DirectiveImport, Arg: arg, Pos: pos})
			case "forward":
				dirs = append(dirs, Directive{Kind: DirectiveForward, Arg: arg, Pos: pos})
			case "export", bridge.DirectiveImportAttr, bridge.DirectiveImportProc,
				bridge.DirectiveCustomParse, bridge.DirectiveUseAttr, bridge.DirectiveUseProc:
				diags = append(diags, diag.New(diag.KindProtocol, pos,
					"directive %s%s must be attached to a declaration", bridge.DirectivePrefix, word))
			}
		}
	}
	for i := range dirs {
		dirs[i].Imports = imports
	}
	return pkgName, dirs, diags
}

// fileImports indexes a file's import specs by the local package name they
// bind. Blank and dot imports bind no name and are skipped.
func fileImports(file *ast.File) map[string]string {
	m := make(map[string]string)
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name != nil {
			name := spec.Name.Name
			if name == "_" || name == "." {
				continue
			}
			m[name] = name + " " + spec.Path.Value
			continue
		}
		base := path
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		m[base] = spec.Path.Value
	}
	return m
}

func declDoc(decl ast.Decl) *ast.CommentGroup {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return d.Doc
	case *ast.GenDecl:
		return d.Doc
	}
	return nil
}

// declDirective interprets a declaration's doc comment. At most one directive
// family may apply to a single declaration.
func declDirective(fset *token.FileSet, src string, decl ast.Decl, doc *ast.CommentGroup) (*Directive, *diag.Error) {
	var lines []string
	for _, c := range doc.List {
		lines = append(lines, c.Text)
	}

	declSrc := sliceDecl(fset, src, decl)
	pos := fset.Position(decl.Pos())

	var found *Directive
	record := func(d Directive) *diag.Error {
		if found != nil {
			return diag.New(diag.KindProtocol, pos,
				"conflicting declbridge directives on one declaration")
		}
		d.Pos = pos
		d.Decl = declSrc
		d.Doc = lines
		found = &d
		return nil
	}

	sawCustom := false
	for _, line := range lines {
		word, arg, ok := bridge.CutDirective(line)
		if !ok {
			continue
		}
		switch word {
		case "export":
			if derr := record(Directive{Kind: DirectiveExport, Arg: arg}); derr != nil {
				return nil, derr
			}
		case bridge.DirectiveImportAttr, bridge.DirectiveImportProc:
			if derr := record(Directive{Kind: DirectiveBridge}); derr != nil {
				return nil, derr
			}
		case bridge.DirectiveCustomParse:
			// Consumed by the bridging rules together with import_attr.
			sawCustom = true
		case bridge.DirectiveUseAttr:
			if derr := record(Directive{Kind: DirectiveUse, UseKind: bridge.KindAttribute}); derr != nil {
				return nil, derr
			}
		case bridge.DirectiveUseProc:
			if derr := record(Directive{Kind: DirectiveUse, UseKind: bridge.KindProcedural}); derr != nil {
				return nil, derr
			}
		case "import", "forward":
			return nil, diag.New(diag.KindProtocol, pos,
				"directive %s%s does not attach to a declaration", bridge.DirectivePrefix, word)
		default:
			return nil, diag.New(diag.KindProtocol, pos,
				"unknown directive %s%s", bridge.DirectivePrefix, word)
		}
	}

	// A lone with_custom_parsing still reaches the bridging rules so the
	// missing co-directive is reported there.
	if found == nil && sawCustom {
		return &Directive{Kind: DirectiveBridge, Pos: pos, Decl: declSrc, Doc: lines}, nil
	}
	return found, nil
}

// sliceDecl returns the declaration's own source text, starting after its doc
// comment.
func sliceDecl(fset *token.FileSet, src string, decl ast.Decl) string {
	start := fset.Position(decl.Pos()).Offset
	end := fset.Position(decl.End()).Offset
	if start < 0 || end > len(src) || start >= end {
		return ""
	}
	return src[start:end]
}
