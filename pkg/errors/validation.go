package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ncNameRegex approximates the XML NCName production for the ASCII range.
// Non-ASCII letters are accepted separately in ValidateID.
var ncNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// ValidateID checks that id can be written back out as an xml:id value.
//
// The rules are:
//   - No empty identifiers
//   - No whitespace or control characters
//   - No ':' (xml:id values are NCNames)
//   - Must not start with a digit, '.' or '-'
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}

	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "identifier %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsRune(id, ':') {
		return New(ErrCodeInvalidID, "identifier %q cannot contain ':'", id)
	}

	if isASCII(id) && !ncNameRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "identifier %q is not a valid XML name", id)
	}

	return nil
}

// ValidateTypeName validates an annotation type name (the f.id of a
// dependsOn declaration) before it is turned into a file name.
//
// Type names must be plain tokens: no path separators, no traversal
// sequences, no hidden-file prefix.
func ValidateTypeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "annotation type cannot be empty")
	}

	const maxLength = 128
	if len(name) > maxLength {
		return New(ErrCodeInvalidPath, "annotation type too long (max %d characters)", maxLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPath, "annotation type %q contains invalid characters", name)
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "annotation type %q cannot contain path separators", name)
	}

	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "annotation type %q cannot start with '.' or contain '..'", name)
	}

	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
