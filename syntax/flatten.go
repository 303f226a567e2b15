// Package syntax provides the low-level syntax utilities behind declbridge:
// identifier flattening, the extra-payload escaping codec, path and identifier
// parsing, and declaration capture.
package syntax

import "unicode"

// Flatten converts an identifier to its canonical lowercase underscore form.
// Registry slot names are derived from this, so the output must be identical
// across independent runs for the same input.
//
// Rules:
//   - a boundary underscore is inserted where the case class changes across
//     adjacent letters, except between the first and second character
//   - runs of whitespace collapse to a single underscore, except at the very
//     start of the string
//   - explicit underscores pass through verbatim, including leading and
//     trailing runs
//   - anything that is not ASCII alphanumeric, underscore, or whitespace is
//     dropped
func Flatten(input string) string {
	if input == "" {
		return input
	}
	runes := []rune(input)
	prevLower := unicode.IsLower(runes[0])
	prevWhitespace := true
	first := true
	out := make([]rune, 0, len(runes))
	for _, c := range runes {
		if c == '_' {
			prevWhitespace = true
			out = append(out, '_')
			continue
		}
		if !isASCIIAlnum(c) && !unicode.IsSpace(c) {
			continue
		}
		if !first && unicode.IsSpace(c) {
			if !prevWhitespace {
				out = append(out, '_')
			}
			prevWhitespace = true
		} else {
			currentLower := unicode.IsLower(c)
			// The asymmetry here (consecutive non-lowercase characters also
			// split) is load-bearing: downstream slot names depend on it.
			if ((prevLower != currentLower && prevLower) ||
				(prevLower == currentLower && !prevLower)) &&
				!first && !prevWhitespace {
				out = append(out, '_')
			}
			out = append(out, unicode.ToLower(c))
			prevLower = currentLower
			prevWhitespace = false
		}
		first = false
	}
	return string(out)
}

func isASCIIAlnum(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
