package application

import (
	"fmt"
	"strings"
	"unicode"
)

// Reference identifies an application entry point as "module:attribute",
// for example "main:app".
type Reference struct {
	Module    string
	Attribute string
}

// ParseReference parses an application reference of the form
// "module:attribute".
//
// The module is a dot-separated sequence of identifiers and the attribute is a
// single identifier.
func ParseReference(s string) (Reference, error) {
	module, attr, ok := strings.Cut(s, ":")
	if !ok {
		return Reference{}, fmt.Errorf("invalid application reference %q: expected module:attribute", s)
	}

	for _, part := range strings.Split(module, ".") {
		if !isIdentifier(part) {
			return Reference{}, fmt.Errorf("invalid application reference %q: module must be a dotted path of identifiers", s)
		}
	}

	if !isIdentifier(attr) {
		return Reference{}, fmt.Errorf("invalid application reference %q: attribute must be an identifier", s)
	}

	return Reference{module, attr}, nil
}

// MustParseReference is like [ParseReference] but panics if s is invalid.
func MustParseReference(s string) Reference {
	ref, err := ParseReference(s)
	if err != nil {
		panic(err)
	}
	return ref
}

func (r Reference) String() string {
	return r.Module + ":" + r.Attribute
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
