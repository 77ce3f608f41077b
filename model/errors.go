package model

import "errors"

var (
	// ErrCourseNotFound aborts a whole batch before any video is touched.
	ErrCourseNotFound = errors.New("course not found")

	// ErrCourseExists rejects registration of a duplicate course code.
	ErrCourseExists = errors.New("course code already exists")

	// ErrIndexingTimeout means the indexing service did not finish within
	// the allotted wait. The outcome is unknown, unlike a failure the
	// service reported itself.
	ErrIndexingTimeout = errors.New("timed out waiting for video indexing")
)
