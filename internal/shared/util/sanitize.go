package util

import (
	"errors"
	"strings"
)

const maxFileNameLen = 128

// SanitizeFileName normalizes an uploaded photo name into a storage-safe
// segment. Traversal patterns are rejected outright; everything outside a
// conservative character set collapses to underscores.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	s = strings.Trim(s, "._")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if len(s) > maxFileNameLen {
		// Keep the tail so the extension survives.
		s = s[len(s)-maxFileNameLen:]
	}
	return s, nil
}
