package bridge

import (
	"go/token"
	"strings"

	"github.com/declbridge/declbridge/diag"
)

// Directive words recognized on a generator implementation's doc comment.
const (
	DirectiveImportAttr  = "import_attr"
	DirectiveImportProc  = "import_proc"
	DirectiveCustomParse = "with_custom_parsing"
	DirectiveUseAttr     = "use_attr"
	DirectiveUseProc     = "use_proc"
)

// DirectivePrefix introduces every declbridge directive comment.
const DirectivePrefix = "//declbridge:"

// CutDirective splits a comment line into its directive word and argument
// text. ok is false for ordinary comments.
func CutDirective(line string) (word, arg string, ok bool) {
	line = strings.TrimSpace(line)
	rest, found := strings.CutPrefix(line, DirectivePrefix)
	if !found {
		return "", "", false
	}
	word, arg, _ = strings.Cut(rest, " ")
	return word, strings.TrimSpace(arg), true
}

// FromDirectives interprets the directive lines attached to a function
// declaration and builds the bridged generator they describe. Directive order
// does not matter. ok is false when no bridging directive is present.
func FromDirectives(lines []string, pos token.Position, src string) (g *Generator, ok bool, err error) {
	var (
		kind       GeneratorKind
		kindSeen   bool
		publicName string
		custom     string
		customSeen bool
	)

	for _, line := range lines {
		word, arg, isDirective := CutDirective(line)
		if !isDirective {
			continue
		}
		switch word {
		case DirectiveImportAttr, DirectiveImportProc:
			if kindSeen {
				return nil, false, diag.New(diag.KindProtocol, pos,
					"duplicate bridging directive %s%s", DirectivePrefix, word)
			}
			kindSeen = true
			publicName = arg
			if word == DirectiveImportProc {
				kind = KindProcedural
			}
		case DirectiveCustomParse:
			if customSeen {
				return nil, false, diag.New(diag.KindProtocol, pos,
					"exactly one %s%s directive is permitted", DirectivePrefix, DirectiveCustomParse)
			}
			customSeen = true
			custom = arg
		}
	}

	if !kindSeen {
		if customSeen {
			return nil, false, diag.New(diag.KindProtocol, pos,
				"%s%s is only legal on a definition carrying %s%s",
				DirectivePrefix, DirectiveCustomParse, DirectivePrefix, DirectiveImportAttr).
				WithSuggestion("add " + DirectivePrefix + DirectiveImportAttr)
		}
		return nil, false, nil
	}
	if customSeen && kind == KindProcedural {
		return nil, false, diag.New(diag.KindProtocol, pos,
			"%s%s does not apply to procedural generators",
			DirectivePrefix, DirectiveCustomParse)
	}

	if customSeen {
		g, err = WithCustomParsing(custom, publicName, src)
	} else if kind == KindProcedural {
		g, err = ImportProc(publicName, src)
	} else {
		g, err = ImportAttr(publicName, src)
	}
	if err != nil {
		if derr, isDiag := err.(*diag.Error); isDiag && !derr.Pos.IsValid() {
			derr.Pos = pos
		}
		return nil, false, err
	}
	return g, true, nil
}
