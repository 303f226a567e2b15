package syntax

import "strings"

// ExtraDelimiter separates fields in a combined extra payload. Field contents
// are escaped with EscapeExtra before joining so the delimiter can appear
// literally inside a field.
const ExtraDelimiter = "~~"

// EscapeExtra escapes a payload field so it can ride inside a
// delimiter-joined extra string. Every backslash becomes two backslashes,
// then every occurrence of the delimiter is rewritten character by character
// ("~~" becomes `\~\~`).
func EscapeExtra(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, ExtraDelimiter, `\~\~`)
}

// UnescapeExtra is the exact left inverse of EscapeExtra: for every input s,
// UnescapeExtra(EscapeExtra(s)) == s. It scans left to right so that runs of
// backslashes and delimiters decode unambiguously.
func UnescapeExtra(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case '~':
				b.WriteByte('~')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// JoinExtra escapes each field and joins them with the delimiter. Every tilde
// is escaped individually, not just delimiter pairs, so a field ending in "~"
// cannot run into the delimiter and shift the split boundary.
func JoinExtra(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		f = strings.ReplaceAll(f, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(f, "~", `\~`)
	}
	return strings.Join(escaped, ExtraDelimiter)
}

// SplitExtra splits a combined extra payload into its unescaped fields. The
// scan steps over escape pairs, so field boundaries are only ever the bare
// delimiters JoinExtra inserted.
func SplitExtra(extra string) []string {
	var fields []string
	var b strings.Builder
	for i := 0; i < len(extra); i++ {
		if extra[i] == '\\' && i+1 < len(extra) {
			b.WriteByte(extra[i])
			b.WriteByte(extra[i+1])
			i++
			continue
		}
		if extra[i] == '~' && i+1 < len(extra) && extra[i+1] == '~' {
			fields = append(fields, UnescapeExtra(b.String()))
			b.Reset()
			i++
			continue
		}
		b.WriteByte(extra[i])
	}
	return append(fields, UnescapeExtra(b.String()))
}
