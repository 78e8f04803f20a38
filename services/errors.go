// Package services holds the enrollment and progress orchestration and the analytics recorder.
package services

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so sentinels compare equal to wrapped copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrUserNotFound     = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
	ErrCourseNotFound   = &Error{Kind: KindNotFound, Code: "course_not_found", Message: "Course not found"}
	ErrProgressNotFound = &Error{Kind: KindNotFound, Code: "progress_not_found", Message: "Progress not found"}
	ErrAlreadyEnrolled  = &Error{Kind: KindConflict, Code: "already_enrolled", Message: "Already enrolled in this course"}
	ErrAlreadyCompleted = &Error{Kind: KindConflict, Code: "already_completed", Message: "Course already completed"}
)

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "validation", Message: message}
}

// Internal wraps err as a KindInternal error.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
