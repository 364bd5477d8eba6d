package helper

import (
	"strings"
	"unicode"
)

// Underscore converts a struct field name to its snake_case JSON key,
// e.g. PublicationStatus -> publication_status, AuthorID -> author_id.
func Underscore(field string) string {
	var b strings.Builder
	runes := []rune(field)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
