package storage

import (
	"context"

	"github.com/campushub/coursechat/fusion"
	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

type CourseRepository interface {
	Save(ctx context.Context, course *model.Course) error
	FindByCode(ctx context.Context, code string) (*model.Course, error)
	FindAll(ctx context.Context) ([]*model.Course, error)
	FindPublic(ctx context.Context) ([]*model.Course, error)
}

type VideoRepository interface {
	// Register assigns the video an id, stores it with status PENDING and
	// links it to its course.
	Register(ctx context.Context, video *model.Video) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.VideoStatus) error
	SetIndexed(ctx context.Context, id uuid.UUID, indexerID, thumbnail string) error
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Video, error)
	FindByIndexerID(ctx context.Context, indexerID string) (*model.Video, error)
}

type TranscriptRepository interface {
	Save(ctx context.Context, record model.TranscriptRecord) error
	UpdateCleaned(ctx context.Context, videoID uuid.UUID, cleaned string) error
	FindByVideo(ctx context.Context, videoID uuid.UUID) (model.TranscriptRecord, error)
}

// SectionTextRepository is the lexical half of the hybrid index.
type SectionTextRepository interface {
	SaveAll(ctx context.Context, videoID uuid.UUID, sections []model.PromptSection) error
	Search(ctx context.Context, videoID uuid.UUID, query string, limit int) ([]fusion.Candidate, error)
}

// SectionVecRepository is the semantic half of the hybrid index. Vectors
// are computed by the caller, one per section.
type SectionVecRepository interface {
	SaveAll(ctx context.Context, videoID uuid.UUID, sections []model.PromptSection, vectors [][]float32) error
	Search(ctx context.Context, videoID uuid.UUID, vector []float32, limit int) ([]fusion.Candidate, error)
}
