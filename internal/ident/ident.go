// Package ident validates and normalizes the fixed-width identifiers used in
// acquisition file names: language, speaker, and researcher codes.
package ident

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"amznas/internal/services"
)

// Code is a normalized 3-letter identifier. The same syntax is shared by the
// language, speaker, and researcher roles; once a code is part of a filename
// it is immutable.
type Code string

var codePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Parse validates raw against the 3-letter pattern and returns the lowercase
// normalized code. Pure, no side effects.
func Parse(raw string) (Code, error) {
	trimmed := strings.TrimSpace(raw)
	if !codePattern.MatchString(trimmed) {
		return "", services.Wrap(services.ErrInvalidIdentifier, "ident", "parse",
			"identifier "+strconv.Quote(raw)+" must be exactly three letters", nil)
	}
	return Code(strings.ToLower(trimmed)), nil
}

// MustParse is a test and wiring convenience; it panics on invalid input.
func MustParse(raw string) Code {
	code, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func (c Code) String() string { return string(c) }

// LanguageName returns a best-effort English display name when the code is a
// registered ISO 639 language code. Most field-project codes are not in the
// registry; those return the empty string and the caller shows the bare code.
func LanguageName(code Code) string {
	base, err := language.ParseBase(string(code))
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(base)
}
