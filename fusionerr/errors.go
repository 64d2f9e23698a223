// Package fusionerr defines the structured error type shared by every stage of
// the fingerprint-to-image pipeline.
package fusionerr

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Every failure is terminal for the invocation that produced it: the pipeline
// is deterministic, so a retry reproduces the same error.
type Kind string

const (
	KindInvalidFingerprintFormat Kind = "InvalidFingerprintFormat"
	KindKeyExtraction            Kind = "KeyExtraction"
	KindInvalidLength            Kind = "InvalidLength"
	KindInvalidDimensions        Kind = "InvalidDimensions"
	KindParameterOutOfDomain     Kind = "ParameterOutOfDomain"
	KindUnknownStyle             Kind = "UnknownStyle"
	KindInternal                 Kind = "Internal"
)

// Error is the structured error returned by the core packages.
//
// RuleID is a stable identifier (e.g. RF-FP-003, RF-PARAM-001) naming the
// violated rule. Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a structured error without a cause.
func New(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// Newf is New with fmt-style formatting of the message.
func Newf(kind Kind, ruleID, format string, args ...any) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a structured error carrying cause. A nil cause yields New.
func Wrap(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return New(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
