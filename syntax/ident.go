package syntax

import (
	"go/token"

	"github.com/declbridge/declbridge/errors"
)

// ParseIdent validates that s is a single bare Go identifier: no package
// qualifier, no type parameters, no punctuation. Override names passed to
// export must satisfy this.
func ParseIdent(s string) (string, error) {
	if s == "" {
		return "", errors.New("expected an identifier, got empty input")
	}
	if !token.IsIdentifier(s) {
		return "", errors.Newf("expected a bare identifier, got %q", s)
	}
	return s, nil
}
