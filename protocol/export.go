package protocol

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/declbridge/declbridge/diag"
	"github.com/declbridge/declbridge/registry"
	"github.com/declbridge/declbridge/syntax"
)

// ExportResult is the output of an export: the registered slot plus the
// generated code for it.
type ExportResult struct {
	Slot registry.Slot
	Code string
}

// Export captures a declaration into a registry slot.
//
// overrideName may be empty when the declaration carries its own name;
// declarations without an intrinsic name (methods, grouped declarations,
// imports, blank names) require it. The override must be a bare identifier.
// With emitOriginal the generated code re-emits the declaration unchanged so
// the exporting package compiles exactly as before.
func Export(overrideName, declSrc string, emitOriginal bool) (*ExportResult, error) {
	decl, err := syntax.ParseDecl(declSrc)
	if err != nil {
		return nil, diag.New(diag.KindParse, token.Position{}, "export: %v", err).WithSnippet(firstLine(declSrc))
	}

	name, hasName := decl.IntrinsicName()
	overrideName = strings.TrimSpace(overrideName)
	if overrideName != "" {
		if name, err = syntax.ParseIdent(overrideName); err != nil {
			return nil, diag.New(diag.KindParse, token.Position{}, "export name: %v", err).WithSnippet(overrideName)
		}
	} else if !hasName {
		return nil, diag.New(diag.KindShape, token.Position{},
			"cannot export a %s without an explicit name", decl.Describe()).
			WithSnippet(firstLine(declSrc)).
			WithSuggestion("pass a name: //declbridge:export MyName")
	}

	slot := registry.Slot{
		Name: registry.SlotName(name),
		Decl: decl.String(),
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s holds the exported syntax of %s.\n", slot.Name, name)
	fmt.Fprintf(&sb, "const %s = %s\n", slot.Name, strconv.Quote(slot.Decl))
	if emitOriginal {
		sb.WriteString("\n// The exported declaration, re-emitted unchanged; it may be unused here.\n")
		sb.WriteString(decl.String())
		if !strings.HasSuffix(decl.String(), "\n") {
			sb.WriteString("\n")
		}
	}
	return &ExportResult{Slot: slot, Code: sb.String()}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
