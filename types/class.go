// Package types holds the small shared interfaces that the grammar, lex, and
// parse packages pass between each other: token classes, tokens, a token
// stream, and the parse tree the predictive parser builds.
package types

import "strings"

// TokenClass identifies a lexical category: a terminal symbol of the grammar,
// or one of the catch-all classes (identifier, number) that stand in for a
// whole family of lexemes.
type TokenClass interface {
	// ID returns the ID of the token class. The ID must uniquely identify the
	// token within all terminals of a grammar.
	ID() string

	// Human returns a human-readable name for the token class, for use in
	// contexts such as error reporting.
	Human() string

	// Equal returns whether the TokenClass equals another. If two IDs are the
	// same, Equal must return true.
	Equal(o any) bool
}

type simpleTokenClass string

func (class simpleTokenClass) ID() string {
	return strings.ToLower(string(class))
}

func (class simpleTokenClass) Human() string {
	return string(class)
}

func (class simpleTokenClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		otherPtr, ok := o.(*TokenClass)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return other.ID() == class.ID()
}

const (
	TokenUndefined = simpleTokenClass("undefined_token")
	TokenEndOfText = simpleTokenClass("$")
	TokenError     = simpleTokenClass("lexical_error")
)

// MakeDefaultClass takes a string and returns a token class that both uses
// the lower-case version of the string as its ID and the un-modified string
// as its human-readable name.
func MakeDefaultClass(s string) TokenClass {
	return simpleTokenClass(s)
}
