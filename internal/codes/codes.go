// Package codes derives canonical 3-letter location codes from the text held
// in an origin or destination field.
package codes

import (
	"regexp"
	"strings"

	"github.com/pkordes/tripsearch/backend/internal/domain"
)

// Matcher resolves free text to a known place. *catalog.Catalog satisfies it.
type Matcher interface {
	MatchText(text string) (domain.Place, bool)
}

var (
	leadingCode    = regexp.MustCompile(`^([A-Z]{3})(?:[^A-Za-z]|$)`)
	standaloneCode = regexp.MustCompile(`(?:^|[^A-Za-z])([A-Z]{3})(?:[^A-Za-z]|$)`)
	validCode      = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Extract returns the location code for text. It never fails; the rules
// are tried in order and the first hit wins:
//
//  1. text starts with 3 upper-case letters not followed by a letter ("LOS - Lagos").
//  2. the first standalone run of exactly 3 upper-case letters ("Lagos (LOS)").
//  3. the code of the first place whose city or name matches text (needs m).
//  4. the first whitespace-delimited token, which may well be invalid.
//
// A nil m skips rule 3.
func Extract(text string, m Matcher) string {
	if sub := leadingCode.FindStringSubmatch(text); sub != nil {
		return sub[1]
	}
	if sub := standaloneCode.FindStringSubmatch(text); sub != nil {
		return sub[1]
	}
	if m != nil {
		if p, ok := m.MatchText(text); ok {
			return p.Code
		}
	}
	if fields := strings.Fields(text); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Valid reports whether code is exactly three upper-case ASCII letters.
func Valid(code string) bool {
	return validCode.MatchString(code)
}
