// Package errors provides structured error types for graf.
//
// Every failure the annotation model, the parser, or the renderer can report
// carries a machine-readable [Code]. Callers branch on the code rather than on
// message text:
//
//	g, err := io.ImportXML("doc-penn.xml")
//	if errors.Is(err, errors.ErrCodeDependencyNotFound) {
//	    // a dependsOn layer could not be located
//	}
//
// # Error Codes
//
// Codes fall into three groups:
//   - Model errors: INVALID_REGION, INVALID_EDGE, NODE_NOT_IN_GRAPH, NO_SUCH_*
//   - Document errors raised while parsing: MISSING_*, UNKNOWN_ANNOTATION_SPACE,
//     ROOT_NOT_FOUND, DANGLING_ANNOTATION_REF, ORPHAN_FEATURE, MALFORMED_XML
//   - Environment errors: DEPENDENCY_NOT_FOUND, INVALID_CONFIG
//
// All of them are fatal to the operation that returned them; nothing in graf
// retries or recovers partially.
//
// # Wrapping
//
//	err := errors.Wrap(errors.ErrCodeMalformedXML, cause, "read %s", path)
//
// [Is] and [GetCode] walk the whole chain, and also recognise error types that
// expose a Code() method (see feature.ConflictError).
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Model errors
	ErrCodeInvalidRegion  Code = "INVALID_REGION"
	ErrCodeInvalidAnchor  Code = "INVALID_ANCHOR"
	ErrCodeInvalidEdge    Code = "INVALID_EDGE"
	ErrCodeInvalidID      Code = "INVALID_ID"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeDuplicateID    Code = "DUPLICATE_ID"
	ErrCodeNodeNotInGraph Code = "NODE_NOT_IN_GRAPH"
	ErrCodeNoSuchElement  Code = "NO_SUCH_ELEMENT"
	ErrCodeNoSuchFeature  Code = "NO_SUCH_FEATURE"
	ErrCodeNoMatch        Code = "NO_MATCH"
	ErrCodeUnification    Code = "UNIFICATION_CONFLICT"

	// Document errors
	ErrCodeMissingLabel          Code = "MISSING_LABEL"
	ErrCodeMissingRef            Code = "MISSING_REF"
	ErrCodeMissingAttribute      Code = "MISSING_ATTRIBUTE"
	ErrCodeUnknownSpace          Code = "UNKNOWN_ANNOTATION_SPACE"
	ErrCodeSpaceTypeMismatch     Code = "ANNOTATION_SET_TYPE_MISMATCH"
	ErrCodeRootNotFound          Code = "ROOT_NOT_FOUND"
	ErrCodeDanglingAnnotationRef Code = "DANGLING_ANNOTATION_REF"
	ErrCodeOrphanFeature         Code = "ORPHAN_FEATURE"
	ErrCodeMalformedXML          Code = "MALFORMED_XML"

	// Environment errors
	ErrCodeDependencyNotFound Code = "DEPENDENCY_NOT_FOUND"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by domain error types that carry extra fields but
// still belong to a code family.
type coder interface {
	Code() Code
}

// Is reports whether any error in err's chain has the given code.
func Is(err error, code Code) bool {
	for err != nil {
		if c, ok := codeOf(err); ok && c == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if nothing in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		if c, ok := codeOf(err); ok {
			return c
		}
		err = errors.Unwrap(err)
	}
	return ""
}

func codeOf(err error) (Code, bool) {
	switch e := err.(type) {
	case *Error:
		return e.Code, true
	case coder:
		return e.Code(), true
	}
	return "", false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
