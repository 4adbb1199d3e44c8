package upload

import (
	"strings"
)

// maxFilenameLength caps stored filenames.
const maxFilenameLength = 255

// SanitizeFilename reduces a client-supplied filename to a safe form:
// the last path segment (both '/' and '\' are treated as separators, which
// neutralizes traversal attempts from any client OS), with every character
// outside [A-Za-z0-9._-] replaced by '_', leading and trailing dots
// trimmed, and the result truncated to 255 characters.
//
// The function is idempotent: applying it to its own output changes nothing.
func SanitizeFilename(name string) string {
	// Last path segment, whichever separator style the client used.
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	// Leading/trailing dots would allow dotfiles and "..".
	cleaned := strings.Trim(b.String(), ".")

	if len(cleaned) > maxFilenameLength {
		cleaned = strings.Trim(cleaned[:maxFilenameLength], ".")
	}

	return cleaned
}
