package syntax

import (
	"strings"

	"github.com/declbridge/declbridge/errors"
)

// Path addresses an exported declaration or a continuation: an optional
// package import path plus a final identifier segment. The zero Pkg means the
// name lives in the current namespace.
type Path struct {
	Pkg  string // import path, may be empty
	Name string // final identifier segment
}

// ParsePath parses forms like "AddStuff", "otherpkg.AddStuff", or
// "example.com/other/pkg.AddStuff". The final segment must be a bare
// identifier.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, errors.New("expected a path, got empty input")
	}

	// The name is everything after the last dot that follows the last slash.
	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s, ".")
	if dot <= slash {
		// No qualifier: the whole thing must be one identifier.
		if _, err := ParseIdent(s); err != nil {
			return Path{}, errors.Wrapf(err, "invalid path %q", s)
		}
		return Path{Name: s}, nil
	}

	pkg, name := s[:dot], s[dot+1:]
	if pkg == "" {
		return Path{}, errors.Newf("invalid path %q: empty package qualifier", s)
	}
	if _, err := ParseIdent(name); err != nil {
		return Path{}, errors.Wrapf(err, "invalid path %q: final segment must be an identifier", s)
	}
	for _, seg := range strings.Split(strings.ReplaceAll(pkg, "/", "."), ".") {
		if seg == "" {
			return Path{}, errors.Newf("invalid path %q: empty segment", s)
		}
	}
	return Path{Pkg: pkg, Name: name}, nil
}

// String renders the path back to its source form.
func (p Path) String() string {
	if p.Pkg == "" {
		return p.Name
	}
	return p.Pkg + "." + p.Name
}

// IsZero reports whether the path is unset.
func (p Path) IsZero() bool {
	return p.Pkg == "" && p.Name == ""
}

// WithName returns a copy of the path addressing a different final segment.
// Used to turn an exported declaration's path into its registry slot path,
// and an outer generator's path into its hidden inner continuation.
func (p Path) WithName(name string) Path {
	return Path{Pkg: p.Pkg, Name: name}
}

// PkgName returns the local package identifier generated code should use to
// qualify references under this path (the last path element).
func (p Path) PkgName() string {
	if p.Pkg == "" {
		return ""
	}
	if i := strings.LastIndex(p.Pkg, "/"); i >= 0 {
		return p.Pkg[i+1:]
	}
	return p.Pkg
}
