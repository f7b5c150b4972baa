package errors

import (
	"strings"
	"unicode"
)

// ValidateProfileName validates a profile name for use in output filenames.
// Profile names become part of "<stem>-<profile>.ttl", so they must not be
// able to escape the output directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "profile name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "profile name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "profile name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "profile name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePrefixName validates a namespace prefix label (the part of a CURIE
// before the colon). The empty prefix is allowed. A non-empty prefix must
// start with a letter and contain only letters, digits, '_', '-' or '.', and
// must not end with '.'.
func ValidatePrefixName(prefix string) error {
	if prefix == "" {
		return nil
	}
	for i, r := range prefix {
		switch {
		case i == 0 && !unicode.IsLetter(r):
			return New(ErrCodeMalformedPrefix, "prefix %q must start with a letter", prefix)
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-', r == '.':
		default:
			return New(ErrCodeMalformedPrefix, "prefix %q contains invalid character %q", prefix, r)
		}
	}
	if strings.HasSuffix(prefix, ".") {
		return New(ErrCodeMalformedPrefix, "prefix %q must not end with '.'", prefix)
	}
	return nil
}

// ValidateNamespace validates a namespace IRI bound to a prefix.
// It must be non-empty and free of whitespace and angle brackets, which
// cannot appear inside an IRI reference.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return New(ErrCodeMalformedPrefix, "namespace cannot be empty")
	}
	if strings.ContainsAny(ns, "<>\" {}|^`\\") || strings.IndexFunc(ns, unicode.IsSpace) >= 0 {
		return New(ErrCodeMalformedPrefix, "namespace %q contains characters not allowed in an IRI", ns)
	}
	return nil
}
