package store

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// maxStemRunes bounds the client-derived part of a generated name.
const maxStemRunes = 80

// Basename returns the final path segment of a client-supplied filename.
// Empty and "." segments are skipped, so "a/b/" yields "b" and "/" yields "".
// Backslashes are not separators here; SanitizeStem takes care of them.
func Basename(name string) string {
	segs := strings.Split(name, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" && segs[i] != "." {
			return segs[i]
		}
	}
	return ""
}

// SplitExt splits a basename into stem and extension. The extension keeps
// its leading dot. A leading dot alone (".bashrc") or a trailing dot
// ("name.") does not start an extension.
func SplitExt(base string) (stem, ext string) {
	i := strings.LastIndexByte(base, '.')
	if i > 0 && i < len(base)-1 {
		return base[:i], base[i:]
	}
	return base, ""
}

// SanitizeStem replaces path separators with underscores and truncates the
// result to 80 characters.
func SanitizeStem(stem string) string {
	stem = strings.NewReplacer("/", "_", "\\", "_").Replace(stem)
	r := []rune(stem)
	if len(r) > maxStemRunes {
		return string(r[:maxStemRunes])
	}
	return stem
}

// NewToken returns 32 lowercase hex characters backed by a random v4 UUID.
func NewToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// UniqueName builds the storage name "{stem}-{token}{ext}" for a
// client-supplied filename. Uniqueness rests on the 128-bit token alone.
func UniqueName(original string) string {
	stem, ext := SplitExt(Basename(original))
	return SanitizeStem(stem) + "-" + NewToken() + ext
}
