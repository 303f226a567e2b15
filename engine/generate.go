package engine

import (
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/declbridge/declbridge/bridge"
	"github.com/declbridge/declbridge/diag"
	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/logger"
	"github.com/declbridge/declbridge/protocol"
	"github.com/declbridge/declbridge/registry"
	"github.com/declbridge/declbridge/syntax"
)

// Report is the outcome of processing one package directory. Diags collect
// per-directive failures; a failed directive never aborts its siblings.
type Report struct {
	Dir   string
	File  string // path of the generated file
	Code  string // rendered content, empty when there is nothing to generate
	Wrote bool
	Stale bool // set by Check when the on-disk file does not match
	Diags []*diag.Error
}

// OK reports whether every directive expanded cleanly.
func (r *Report) OK() bool {
	return len(r.Diags) == 0
}

// Generate scans dir for directives and writes the package's generated file.
// A directory with no directives gets no file; a leftover generated file from
// a previous run is removed.
func (e *Engine) Generate(dir string) (*Report, error) {
	started := time.Now()
	report, err := e.render(dir)
	if err != nil {
		return nil, err
	}

	if report.Code == "" {
		if _, statErr := os.Stat(report.File); statErr == nil {
			if rmErr := os.Remove(report.File); rmErr != nil {
				return nil, errors.Wrap(rmErr, "removing stale generated file")
			}
		}
		return report, nil
	}

	existing, readErr := os.ReadFile(report.File)
	if readErr == nil && string(existing) == report.Code {
		e.logger().Debugw("generated file up to date", logger.FieldFile, report.File)
		return report, nil
	}
	if err := os.WriteFile(report.File, []byte(report.Code), 0o644); err != nil {
		return nil, errors.Wrap(err, "writing generated file")
	}
	report.Wrote = true
	e.logger().Infow("generated",
		logger.FieldFile, report.File,
		logger.FieldDuration, time.Since(started))
	return report, nil
}

// Check renders without writing and reports whether the on-disk generated
// file is stale. Used by CI to enforce committed generated code.
func (e *Engine) Check(dir string) (*Report, error) {
	report, err := e.render(dir)
	if err != nil {
		return nil, err
	}
	existing, readErr := os.ReadFile(report.File)
	switch {
	case report.Code == "":
		report.Stale = readErr == nil // file exists but nothing should be generated
	case readErr != nil:
		report.Stale = true
	default:
		report.Stale = string(existing) != report.Code
	}
	return report, nil
}

// render runs every directive in dir and composes the generated file.
func (e *Engine) render(dir string) (*Report, error) {
	scan, diags := e.ScanPackage(dir)
	if scan == nil {
		return nil, errors.Newf("scanning %s: %s", dir, diags[0].Error())
	}
	report := &Report{
		Dir:   dir,
		File:  filepath.Join(dir, e.generatedFile),
		Diags: diags,
	}
	if len(scan.Directives) == 0 {
		return report, nil
	}

	runTable := registry.NewTable()
	resolve := func(p syntax.Path) (registry.Slot, error) {
		if p.Pkg == "" || p.Pkg == scan.PkgName {
			if s, ok := runTable.Lookup("", p.Name); ok {
				return s, nil
			}
		}
		return e.resolveSlot(p)
	}

	// Exports first so same-package imports and forwards can see them.
	for _, d := range scan.Directives {
		if d.Kind != DirectiveExport {
			continue
		}
		res, err := protocol.Export(d.Arg, d.Decl, false)
		if err != nil {
			report.Diags = append(report.Diags, asDiag(err, d))
			continue
		}
		if err := runTable.Register(res.Slot); err != nil {
			report.Diags = append(report.Diags,
				diag.New(diag.KindProtocol, d.Pos, "%v", err).WithSnippet(d.Arg))
		}
	}

	var sections []string
	needsRuntime := false
	foreign := make(map[string]bool)

	for _, d := range scan.Directives {
		var (
			code  string
			quals []string
			err   error
		)
		switch d.Kind {
		case DirectiveExport:
			continue
		case DirectiveImport:
			code, err = e.expandImport(d, resolve)
		case DirectiveForward:
			code, err = e.expandForward(d, resolve)
		case DirectiveBridge:
			code, quals, err = e.expandBridge(d)
		case DirectiveUse:
			code, quals, err = e.expandUse(d)
		}
		if err != nil {
			report.Diags = append(report.Diags, asDiag(err, d))
			continue
		}
		specs, importDiags := foreignImports(d, quals)
		if len(importDiags) > 0 {
			report.Diags = append(report.Diags, importDiags...)
			continue
		}
		if code != "" {
			sections = append(sections, code)
			for _, s := range specs {
				foreign[s] = true
			}
			switch d.Kind {
			case DirectiveImport, DirectiveBridge, DirectiveUse:
				needsRuntime = true
			}
		}
	}

	slots := runTable.Snapshot("")
	if len(slots) == 0 && len(sections) == 0 {
		return report, nil
	}

	var importLines []string
	if needsRuntime {
		importLines = append(importLines, strconv.Quote(e.root))
	}
	for s := range foreign {
		importLines = append(importLines, s)
	}
	sort.Strings(importLines)

	var b strings.Builder
	b.WriteString(registry.Header)
	b.WriteString("\n\npackage ")
	b.WriteString(scan.PkgName)
	b.WriteString("\n\n")
	switch len(importLines) {
	case 0:
	case 1:
		b.WriteString("import ")
		b.WriteString(importLines[0])
		b.WriteString("\n\n")
	default:
		b.WriteString("import (\n")
		for _, l := range importLines {
			b.WriteString("\t")
			b.WriteString(l)
			b.WriteString("\n")
		}
		b.WriteString(")\n\n")
	}
	if block := registry.RenderSlots(slots); block != "" {
		b.WriteString(block)
		b.WriteString("\n")
	}
	for _, s := range sections {
		b.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, errors.Wrap(err, "formatting generated file")
	}
	report.Code = string(out)
	return report, nil
}

func (e *Engine) expandImport(d Directive, resolve func(syntax.Path) (registry.Slot, error)) (string, error) {
	inv, err := protocol.Import(d.Arg, e.root)
	if err != nil {
		return "", err
	}
	return e.execute(inv, resolve)
}

func (e *Engine) expandForward(d Directive, resolve func(syntax.Path) (registry.Slot, error)) (string, error) {
	inv, err := protocol.Forward(d.Arg, e.root)
	if err != nil {
		return "", err
	}
	return e.execute(inv, resolve)
}

func (e *Engine) expandBridge(d Directive) (string, []string, error) {
	g, ok, err := bridge.FromDirectives(d.Doc, d.Pos, d.Decl)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, nil
	}
	code, err := g.Render(e.root)
	if err != nil {
		return "", nil, err
	}
	return code, []string{g.CustomQualifier()}, nil
}

func (e *Engine) expandUse(d Directive) (string, []string, error) {
	a, err := bridge.UseAlias(d.UseKind, d.Decl)
	if err != nil {
		return "", nil, err
	}
	code, err := a.Render(e.root)
	if err != nil {
		return "", nil, err
	}
	return code, []string{a.Qualifier()}, nil
}

// foreignImports maps the package qualifiers a directive's generated code
// references to the import specs of the directive's own file. A qualifier
// with no matching import is a diagnostic: the generated file could not
// compile without it.
func foreignImports(d Directive, quals []string) ([]string, []*diag.Error) {
	var specs []string
	var diags []*diag.Error
	for _, q := range quals {
		if q == "" {
			continue
		}
		spec, ok := d.Imports[q]
		if !ok {
			diags = append(diags, diag.New(diag.KindResolve, d.Pos,
				"generated code needs package %s, but the file does not import it", q))
			continue
		}
		specs = append(specs, spec)
	}
	return specs, diags
}

// asDiag coerces an expansion error into a positioned diagnostic.
func asDiag(err error, d Directive) *diag.Error {
	var derr *diag.Error
	if errors.As(err, &derr) {
		if !derr.Pos.IsValid() {
			derr.Pos = d.Pos
		}
		return derr
	}
	kind := diag.KindProtocol
	if errors.Is(err, registry.ErrSlotNotFound) {
		kind = diag.KindResolve
	}
	return diag.New(kind, d.Pos, "%v", err).WithSnippet(d.Arg)
}
