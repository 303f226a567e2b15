package syntax

import (
	"go/scanner"
	"go/token"
	"strings"

	"github.com/declbridge/declbridge/errors"
)

// Stream is a captured run of Go source text: the value an import
// materializes inside the importing context, and the currency generators
// consume and produce. It is opaque syntax; declbridge never interprets it
// semantically.
type Stream struct {
	text string
}

// ParseStream validates that text scans as Go tokens and wraps it.
func ParseStream(text string) (Stream, error) {
	var scanErrs scanner.ErrorList
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(text))
	var s scanner.Scanner
	s.Init(file, []byte(text), func(pos token.Position, msg string) {
		scanErrs.Add(pos, msg)
	}, 0)
	for {
		_, tok, _ := s.Scan()
		if tok == token.EOF {
			break
		}
	}
	if scanErrs.Len() > 0 {
		return Stream{}, errors.Wrap(scanErrs.Err(), "text does not scan as Go tokens")
	}
	return Stream{text: text}, nil
}

// MustParseStream is ParseStream for text already known to be valid, such as
// text round-tripped through a registry slot. It panics on scan failure,
// which indicates a corrupted slot rather than user error.
func MustParseStream(text string) Stream {
	s, err := ParseStream(text)
	if err != nil {
		panic(errors.Wrap(err, "MustParseStream"))
	}
	return s
}

// String returns the underlying source text.
func (s Stream) String() string {
	return s.text
}

// IsEmpty reports whether the stream contains no non-whitespace text.
func (s Stream) IsEmpty() bool {
	return strings.TrimSpace(s.text) == ""
}
