package bridge

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/declbridge/declbridge/errors"
	"github.com/declbridge/declbridge/protocol"
)

// Render emits the outer generator, the hidden inner continuation, and the
// init registration for a bridged generator. root is the runtime import path
// whose package name the generated code references.
func (g *Generator) Render(root string) (string, error) {
	if root == "" {
		root = protocol.DefaultRoot
	}
	pkg := runtimePkgName(root)
	var b strings.Builder

	g.renderOuter(&b, pkg)
	b.WriteString("\n")
	g.renderInner(&b, pkg)
	fmt.Fprintf(&b, "\nfunc init() {\n\t%s.MustRegisterContinuation(%q, %s)\n}\n",
		pkg, g.InnerName(), g.InnerName())

	out, err := format.Source([]byte(b.String()))
	if err != nil {
		return "", errors.Wrapf(err, "rendering bridged generator %s", g.Name)
	}
	return string(out), nil
}

func (g *Generator) renderOuter(b *strings.Builder, pkg string) {
	fmt.Fprintf(b, "// %s bridges %s across packages.\n", g.Name, g.FnName)
	if g.Kind == KindProcedural {
		fmt.Fprintf(b, "func %s(selector %s.Stream) (%s.Stream, error) {\n", g.Name, pkg, pkg)
		fmt.Fprintf(b, "\tsource, err := %s.ParsePath(selector.String())\n", pkg)
		fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s.Stream{}, err\n\t}\n", pkg)
		fmt.Fprintf(b, "\treturn %s.ForwardTo(source, %q, \"\")\n}\n", pkg, g.InnerName())
		return
	}

	fmt.Fprintf(b, "func %s(selector %s.Stream, attached %s.Stream) (%s.Stream, error) {\n",
		g.Name, pkg, pkg, pkg)
	if g.Custom != "" {
		fmt.Fprintf(b, "\tvar sel %s\n", g.Custom)
		fmt.Fprintf(b, "\tvar _ %s.ForeignSelector = &sel\n", pkg)
		fmt.Fprintf(b, "\tif err := sel.ParseStream(selector); err != nil {\n")
		fmt.Fprintf(b, "\t\treturn %s.Stream{}, err\n\t}\n", pkg)
		fmt.Fprintf(b, "\tsource := sel.ForeignPath()\n")
		fmt.Fprintf(b, "\textra := %s.JoinExtra(attached.String(), source.String(), sel.String())\n", pkg)
	} else {
		fmt.Fprintf(b, "\tsource, err := %s.ParsePath(selector.String())\n", pkg)
		fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s.Stream{}, err\n\t}\n", pkg)
		fmt.Fprintf(b, "\textra := %s.JoinExtra(attached.String(), selector.String(), \"\")\n", pkg)
	}
	fmt.Fprintf(b, "\treturn %s.ForwardTo(source, %q, extra)\n}\n", pkg, g.InnerName())
}

func (g *Generator) renderInner(b *strings.Builder, pkg string) {
	fmt.Fprintf(b, "func %s(args %s.InnerArgs) (%s.Stream, error) {\n", g.InnerName(), pkg, pkg)
	fmt.Fprintf(b, "\tforeign, err := %s.ParseStream(args.Decl)\n", pkg)
	fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s.Stream{}, err\n\t}\n", pkg)

	if g.Kind == KindProcedural {
		fmt.Fprintf(b, "\treturn %s(foreign)\n}\n", g.FnName)
		return
	}

	fmt.Fprintf(b, "\tfields := %s.SplitExtra(args.Extra)\n", pkg)
	fmt.Fprintf(b, "\tif len(fields) != 3 {\n")
	fmt.Fprintf(b, "\t\treturn %s.Stream{}, %s.Errorf(\"bridge payload for %s has %%d fields, want 3\", len(fields))\n", pkg, pkg, g.Name)
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\tattached, err := %s.ParseStream(fields[0])\n", pkg)
	fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s.Stream{}, err\n\t}\n", pkg)
	fmt.Fprintf(b, "\tif _, err := %s.ParsePath(fields[1]); err != nil {\n", pkg)
	fmt.Fprintf(b, "\t\treturn %s.Stream{}, err\n\t}\n", pkg)

	if g.Custom != "" {
		fmt.Fprintf(b, "\tcustom, err := %s.ParseStream(fields[2])\n", pkg)
		fmt.Fprintf(b, "\tif err != nil {\n\t\treturn %s.Stream{}, err\n\t}\n", pkg)
		fmt.Fprintf(b, "\treturn %s(foreign, attached, custom)\n}\n", g.FnName)
		return
	}
	fmt.Fprintf(b, "\treturn %s(foreign, attached)\n}\n", g.FnName)
}

// runtimePkgName derives the referenced package name from the runtime root
// import path.
func runtimePkgName(root string) string {
	if i := strings.LastIndexByte(root, '/'); i >= 0 {
		return root[i+1:]
	}
	return root
}
