package utils

import "strings"

// ExtensionFromMime maps a MIME type to a file extension without the leading
// dot. Returns the empty string for unknown types.
func ExtensionFromMime(mimeType string) string {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	switch base {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/svg+xml":
		return "svg"
	default:
		return ""
	}
}
