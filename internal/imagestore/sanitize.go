package imagestore

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fallbackName replaces filenames that sanitize to nothing.
const fallbackName = "upload"

// SanitizeFilename reduces an untrusted client filename to a safe basename:
// accents are folded to ASCII, path separators and whitespace collapse to
// single underscores, characters outside [A-Za-z0-9._-] are dropped, and
// leading or trailing dots and underscores are trimmed.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r > unicode.MaxASCII {
			continue
		}
		if r == '/' || r == '\\' || r == filepath.Separator {
			r = ' '
		}
		b.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(b.String()), "_")

	b.Reset()
	for _, r := range joined {
		if r == '.' || r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return fallbackName
	}
	return cleaned
}
