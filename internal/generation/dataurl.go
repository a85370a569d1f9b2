package generation

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL renders data as "data:<mime>;base64,<payload>".
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 image data URL into its content type and bytes.
func DecodeDataURL(src string) (string, []byte, error) {
	if !strings.HasPrefix(src, "data:") {
		return "", nil, fmt.Errorf("src must be a base64 data URL")
	}
	header, payload, ok := strings.Cut(src[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("src must be a base64 data URL")
	}

	contentType := strings.TrimSuffix(header, ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty image")
	}
	return contentType, data, nil
}

func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// Slug lowercases s and collapses everything but letters and digits into
// single dashes. An empty result yields fallback.
func Slug(s, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return fallback
	}
	return out
}
