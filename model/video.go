package model

import "github.com/google/uuid"

type VideoStatus string

const (
	StatusPending   VideoStatus = "PENDING"
	StatusCompleted VideoStatus = "COMPLETED"
	StatusError     VideoStatus = "ERROR"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Video is one lecture recording. ID is assigned by the registry at
// registration, IndexerID by the external indexing service once indexing
// completes.
type Video struct {
	ID          uuid.UUID
	CourseID    uuid.UUID
	Status      VideoStatus
	Name        string
	Description string
	IndexerID   string
	Thumbnail   string
	Visibility  Visibility
}

// Upload is a video as it arrives in a batch submission, before the
// registry has assigned it an id.
type Upload struct {
	Name        string
	Description string
	Media       []byte
}
