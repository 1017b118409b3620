// Package export renders goal lists into shareable artifacts: text documents,
// achievement cards, compressed photo attachments and encrypted backups.
package export

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filename builds bucket-list-<slug>-YYYY-MM-DD.<ext>
func Filename(profileName, ext string, now time.Time) string {
	return "bucket-list-" + Slug(profileName) + "-" + now.Format("2006-01-02") + "." + strings.TrimPrefix(ext, ".")
}

// Slug lowercases name, strips accents and collapses everything but letters
// and digits into single dashes
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "profile"
	}
	return s
}
