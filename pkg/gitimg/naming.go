package gitimg

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// imageExtensions lists the recognized image filename extensions, lower case.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".bmp":  true,
	".ico":  true,
	".avif": true,
}

// ignoredNames lists infrastructure filenames that never count as assets.
var ignoredNames = map[string]bool{
	".gitkeep":   true,
	".gitignore": true,
	".DS_Store":  true,
	"README.md":  true,
	"Thumbs.db":  true,
}

// SanitizeName maps an arbitrary filename to a path-safe token. Every rune
// outside [A-Za-z0-9._-] becomes an underscore. The function is total and
// idempotent: the result always matches ^[A-Za-z0-9._-]+$, and sanitizing a
// sanitized name returns it unchanged.
func SanitizeName(name string) string {
	if name == "" {
		return "file"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// HasImageExtension reports whether name ends with a recognized image
// extension, case-insensitively.
func HasImageExtension(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

// IsIgnoredName reports whether name is an infrastructure file or hidden file
// that listings must skip.
func IsIgnoredName(name string) bool {
	return ignoredNames[name] || strings.HasPrefix(name, ".")
}

// assetFileName composes the timestamp-prefixed filename for an upload. The
// millisecond timestamp is the sole collision-avoidance mechanism.
func assetFileName(name string, at time.Time) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), SanitizeName(name))
}

// SplitAssetFileName recovers the upload time and original name from a
// timestamp-prefixed filename. The returned time is zero and the name is the
// full input when no parseable prefix is present.
func SplitAssetFileName(fileName string) (time.Time, string) {
	prefix, rest, ok := strings.Cut(fileName, "-")
	if !ok {
		return time.Time{}, fileName
	}
	millis, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || millis < 0 {
		return time.Time{}, fileName
	}
	return time.UnixMilli(millis).UTC(), rest
}
