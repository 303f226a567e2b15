// Package diag carries localized build-time diagnostics. Every user-facing
// failure in declbridge is a diagnostic attached to a source span; internal
// invariant violations are assertion errors, never diagnostics.
package diag

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/pterm/pterm"
)

// Kind categorizes diagnostics for programmatic handling.
type Kind string

const (
	// KindShape: wrong visibility, wrong argument count, missing required name.
	KindShape Kind = "shape"
	// KindParse: malformed path, identifier, or payload argument.
	KindParse Kind = "parse"
	// KindProtocol: misuse of the bridging protocol, such as duplicate
	// directives or a directive missing its required co-directive.
	KindProtocol Kind = "protocol"
	// KindResolve: a slot path that does not resolve to an exported slot.
	KindResolve Kind = "resolve"
)

// Severity indicates how a diagnostic should be treated.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a diagnostic attached to a source position. It is terminal for the
// expansion that produced it and never affects sibling expansions.
type Error struct {
	Kind        Kind
	Severity    Severity
	Message     string
	Pos         token.Position // zero Pos means no source location is known
	Snippet     string         // the offending tokens, if available
	Suggestions []string
}

// New creates an error diagnostic.
func New(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// WithSnippet attaches the offending source tokens.
func (e *Error) WithSnippet(snippet string) *Error {
	e.Snippet = snippet
	return e
}

// WithSuggestion appends a possible fix.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

// Error implements the error interface with the plain format.
func (e *Error) Error() string {
	return e.Plain()
}

// Plain renders a concise single-line form for logs and tests.
func (e *Error) Plain() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Snippet != "" {
		fmt.Fprintf(&b, " (at %q)", e.Snippet)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, ". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

// Terminal renders a colored form for interactive CLI output.
func (e *Error) Terminal() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(pterm.Gray(e.Pos.String()))
		b.WriteString(" ")
	}
	switch e.Severity {
	case SeverityWarning:
		b.WriteString(pterm.Yellow(e.Message))
	default:
		b.WriteString(pterm.Red(e.Message))
	}
	if e.Snippet != "" {
		b.WriteString("\n  ")
		b.WriteString(pterm.Cyan(e.Snippet))
	}
	for _, s := range e.Suggestions {
		b.WriteString("\n  ")
		b.WriteString(pterm.LightBlue("hint: " + s))
	}
	return b.String()
}
