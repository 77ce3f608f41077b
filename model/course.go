package model

import "github.com/google/uuid"

// Course is identified by its code, a natural key. The video list only
// grows, through video registration.
type Course struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Description string
	Visibility  Visibility
	VideoIDs    []uuid.UUID
}

// Outline is the course context handed to the transcript cleaner.
func (c Course) Outline() string {
	return c.Code + " " + c.Name + " " + c.Description
}
