package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declbridge/declbridge/registry"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const exporterSrc = `package widgets

//declbridge:export
func AddStuff(a int, b int) int {
	return a + b
}

//declbridge:export special_impl
var _ = struct{ N int }{N: 1}
`

const importerSrc = `package widgets

//declbridge:import var addStuffDecl = widgets.AddStuff
`

func TestScanPackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export.go", exporterSrc)
	writeFile(t, dir, "import.go", importerSrc)

	e := New()
	res, diags := e.ScanPackage(dir)
	require.Empty(t, diags)
	assert.Equal(t, "widgets", res.PkgName)
	require.Len(t, res.Directives, 3)

	assert.Equal(t, DirectiveExport, res.Directives[0].Kind)
	assert.Empty(t, res.Directives[0].Arg)
	assert.Contains(t, res.Directives[0].Decl, "func AddStuff")

	assert.Equal(t, DirectiveExport, res.Directives[1].Kind)
	assert.Equal(t, "special_impl", res.Directives[1].Arg)

	assert.Equal(t, DirectiveImport, res.Directives[2].Kind)
	assert.Equal(t, "var addStuffDecl = widgets.AddStuff", res.Directives[2].Arg)
}

func TestScanSkipsGeneratedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export.go", exporterSrc)
	writeFile(t, dir, DefaultGeneratedFile, "package widgets\n\n//declbridge:export\nfunc Old() {}\n")

	e := New()
	res, diags := e.ScanPackage(dir)
	require.Empty(t, diags)
	assert.Len(t, res.Directives, 2)
}

func TestScanDetachedDeclDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", "package widgets\n\n//declbridge:import_attr\n\nvar x = 1\n")

	e := New()
	_, diags := e.ScanPackage(dir)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Error(), "must be attached to a declaration")
}

func TestGenerateExportAndImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export.go", exporterSrc)
	writeFile(t, dir, "import.go", importerSrc)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "diags: %v", report.Diags)
	assert.True(t, report.Wrote)

	code, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Contains(t, string(code), registry.Header)
	assert.Contains(t, string(code), "__exported_decl_add_stuff")
	assert.Contains(t, string(code), "__exported_decl_special_impl")
	assert.Contains(t, string(code), "var addStuffDecl = declbridge.MustParseStream(")

	// The captured text round-trips through the slot constant.
	decl, err := registry.ResolveInSource(string(code), "__exported_decl_add_stuff")
	require.NoError(t, err)
	assert.Contains(t, decl, "func AddStuff(a int, b int) int")

	// A second run is a no-op.
	report2, err := e.Generate(dir)
	require.NoError(t, err)
	assert.False(t, report2.Wrote)
}

func TestGenerateBridgedGenerator(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gen.go", `package widgets

//declbridge:import_attr
func myAttribute(foreign, attached declbridge.Stream) (declbridge.Stream, error) {
	return foreign, nil
}
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "diags: %v", report.Diags)

	code, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Contains(t, string(code), "func MyAttribute(selector declbridge.Stream, attached declbridge.Stream)")
	assert.Contains(t, string(code), `MustRegisterContinuation("MyAttribute_Inner", MyAttribute_Inner)`)
	assert.Contains(t, string(code), `import "github.com/declbridge/declbridge"`)
}

func TestGenerateUseAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alias.go", `package widgets

import "example.com/widgets/otherpkg"

//declbridge:use_attr
var Widgetize = otherpkg.MyAttribute
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "diags: %v", report.Diags)

	code, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Contains(t, string(code), "var Widgetize_Inner = otherpkg.MyAttribute_Inner")
	// The target package's import rides along with the runtime import.
	assert.Contains(t, string(code), `"example.com/widgets/otherpkg"`)
	assert.Contains(t, string(code), `"github.com/declbridge/declbridge"`)
}

func TestGenerateUseAliasNamedImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alias.go", `package widgets

import op "example.com/widgets/otherpkg"

//declbridge:use_proc
var Renamed = op.MyProc
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "diags: %v", report.Diags)

	code, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Contains(t, string(code), "var Renamed_Inner = op.MyProc_Inner")
	assert.Contains(t, string(code), `op "example.com/widgets/otherpkg"`)
}

func TestGenerateUseAliasMissingImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alias.go", `package widgets

//declbridge:use_attr
var Widgetize = otherpkg.MyAttribute
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.Len(t, report.Diags, 1)
	assert.Contains(t, report.Diags[0].Error(), "does not import")
	// Nothing compilable came out, so nothing is written.
	_, statErr := os.Stat(report.File)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateCustomSelectorImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gen.go", `package widgets

import "example.com/widgets/seltypes"

//declbridge:import_attr
//declbridge:with_custom_parsing seltypes.Selector
func myCustom(foreign, attached, custom declbridge.Stream) (declbridge.Stream, error) {
	return foreign, nil
}
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.True(t, report.OK(), "diags: %v", report.Diags)

	code, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Contains(t, string(code), "var sel seltypes.Selector")
	assert.Contains(t, string(code), `"example.com/widgets/seltypes"`)
}

func TestGenerateCollectsSiblingFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mixed.go", `package widgets

//declbridge:export
func Good() {}

//declbridge:export
var _ = 1

//declbridge:import var x = widgets.Missing
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	assert.Len(t, report.Diags, 2)

	// The good export still makes it into the file.
	code, err := os.ReadFile(report.File)
	require.NoError(t, err)
	assert.Contains(t, string(code), "__exported_decl_good")
}

func TestGenerateSlotCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "collide.go", `package widgets

//declbridge:export
func MyThing() {}

//declbridge:export my_thing
type Other struct{}
`)

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	require.Len(t, report.Diags, 1)
	assert.Contains(t, report.Diags[0].Error(), "already registered")
}

func TestGenerateNothingRemovesLeftover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.go", "package widgets\n\nvar x = 1\n")
	writeFile(t, dir, DefaultGeneratedFile, "package widgets\n")

	e := New()
	report, err := e.Generate(dir)
	require.NoError(t, err)
	assert.Empty(t, report.Code)
	_, statErr := os.Stat(report.File)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckStaleness(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "export.go", exporterSrc)

	e := New()

	// Nothing on disk yet: stale.
	report, err := e.Check(dir)
	require.NoError(t, err)
	assert.True(t, report.Stale)

	_, err = e.Generate(dir)
	require.NoError(t, err)

	report, err = e.Check(dir)
	require.NoError(t, err)
	assert.False(t, report.Stale)

	// Source drift makes the committed file stale again.
	writeFile(t, dir, "export.go", `package widgets

//declbridge:export
func AddStuff(a int, b int) int {
	return a * b
}
`)
	report, err = e.Check(dir)
	require.NoError(t, err)
	assert.True(t, report.Stale)
}
