package uploads

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client supplied name to a safe basename made of
// ASCII letters, digits, dots, dashes and underscores. Path separators are
// treated as whitespace so no directory component survives. The result may be
// empty.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}

	folded := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	joined := strings.Join(strings.Fields(folded), "_")
	cleaned := unsafeChars.ReplaceAllString(joined, "")
	return strings.Trim(cleaned, "._")
}
