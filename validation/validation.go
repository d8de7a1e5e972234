package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// "Vorname N." shape: one or more capitalized words, then a single
	// capital letter and a period, e.g. "Leo G." or "Anna Maria S.".
	candidateNameRegex = regexp.MustCompile(`^[A-ZÄÖÜ][a-zäöüß]+(\s+[A-ZÄÖÜ][a-zäöüß]+)*\s+[A-ZÄÖÜ]\.$`)
)

// IsValidEmail reports whether s has a plausible email shape. No
// normalization (case, Unicode) is applied.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidCandidateName reports whether s matches the "Firstname I." form.
func IsValidCandidateName(s string) bool {
	return candidateNameRegex.MatchString(strings.TrimSpace(s))
}

// IsValidDescription reports whether s is non-empty and at most 140
// code points long.
func IsValidDescription(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= 140
}
