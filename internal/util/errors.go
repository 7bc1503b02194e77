package util

import "errors"

var (
	ErrCourseIDRequired   = errors.New("course id is required")
	ErrStudentNotEnrolled = errors.New("student is not enrolled in course")
	ErrStoreUnavailable   = errors.New("document store unavailable")
	ErrMalformedDocument  = errors.New("malformed document")
	ErrUnknownStoreDriver = errors.New("unknown document store driver")
)
