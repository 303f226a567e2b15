package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the marker line identifying declbridge-generated files, in the
// form the Go toolchain recognizes as generated code.
const Header = "// Code generated by declbridge. DO NOT EDIT."

// RenderSlots renders a namespace's slots as a const block. Slots must
// already be in deterministic order (see Table.Snapshot).
func RenderSlots(slots []Slot) string {
	if len(slots) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("// Registry slots for declarations exported from this package.\n")
	sb.WriteString("const (\n")
	for _, s := range slots {
		fmt.Fprintf(&sb, "\t%s = %s\n", s.Name, strconv.Quote(s.Decl))
	}
	sb.WriteString(")\n")
	return sb.String()
}
