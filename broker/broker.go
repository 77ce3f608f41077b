// Package broker drives each submitted video through the full processing
// chain: index, thumbnail, transcript extraction, cleaning, alignment and
// section indexing. One video's failure never touches its siblings.
package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campushub/coursechat/model"
	"github.com/campushub/coursechat/storage"
	"github.com/campushub/coursechat/transcript"
)

// VideoIndexer is the external indexing collaborator. WaitForIndex blocks
// until the service has processed the video or the configured wait runs
// out, in which case it returns an error wrapping model.ErrIndexingTimeout.
type VideoIndexer interface {
	Upload(ctx context.Context, upload model.Upload) (string, error)
	WaitForIndex(ctx context.Context, indexerID string) (model.Insights, error)
	Thumbnail(ctx context.Context, indexerID, thumbnailID string) (string, error)
	PromptContent(ctx context.Context, indexerID string) ([]model.PromptSection, error)
}

// TranscriptCleaner rewrites a timestamped transcript without filler words
// and grammar slips, keeping the timestamps.
type TranscriptCleaner interface {
	Clean(ctx context.Context, timestamped, courseOutline, videoDescription string) (string, error)
}

// SectionEmbedder vectorizes section content for the semantic index.
type SectionEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Broker struct {
	courses     storage.CourseRepository
	videos      storage.VideoRepository
	transcripts storage.TranscriptRepository
	sectionText storage.SectionTextRepository
	sectionVec  storage.SectionVecRepository
	indexer     VideoIndexer
	cleaner     TranscriptCleaner
	embedder    SectionEmbedder
	logger      *slog.Logger
}

func NewBroker(courses storage.CourseRepository, videos storage.VideoRepository, transcripts storage.TranscriptRepository,
	sectionText storage.SectionTextRepository, sectionVec storage.SectionVecRepository,
	indexer VideoIndexer, cleaner TranscriptCleaner, embedder SectionEmbedder, logger *slog.Logger) *Broker {
	return &Broker{
		courses:     courses,
		videos:      videos,
		transcripts: transcripts,
		sectionText: sectionText,
		sectionVec:  sectionVec,
		indexer:     indexer,
		cleaner:     cleaner,
		embedder:    embedder,
		logger:      logger,
	}
}

// ProcessBatch validates the course, registers every upload as a PENDING
// video and runs the processing chain per video, sequentially. It returns
// an error only when the course code is unknown, before anything is
// registered. Per-video failures are recorded in the result and as status
// ERROR, never raised.
func (b *Broker) ProcessBatch(ctx context.Context, courseCode string, uploads []model.Upload) (BatchResult, error) {
	course, err := b.courses.FindByCode(ctx, courseCode)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to validate course %q: %w", courseCode, err)
	}

	result := BatchResult{CourseCode: courseCode}
	for _, upload := range uploads {
		video := &model.Video{
			CourseID:    course.ID,
			Name:        upload.Name,
			Description: upload.Description,
		}
		if err := b.videos.Register(ctx, video); err != nil {
			// registration failures are isolated like processing ones
			b.logger.Error("failed to register video",
				slog.String("course", courseCode), slog.String("name", upload.Name), slog.String("error", err.Error()))
			result.Videos = append(result.Videos, VideoResult{
				Name:    upload.Name,
				Status:  model.StatusError,
				Message: err.Error(),
			})
			continue
		}

		result.Videos = append(result.Videos, b.runVideo(ctx, course, video, upload))
	}

	b.logger.Info("batch processed",
		slog.String("course", courseCode), slog.Int("videos", len(uploads)), slog.Int("completed", result.Completed()))

	return result, nil
}

// runVideo is the per-video isolation boundary. Whatever the chain did
// before failing stays written; only the status records the outcome.
func (b *Broker) runVideo(ctx context.Context, course *model.Course, video *model.Video, upload model.Upload) VideoResult {
	result := VideoResult{VideoID: video.ID, Name: video.Name}

	if err := b.processVideo(ctx, course, video, upload); err != nil {
		result.Status = model.StatusError
		result.Message = err.Error()
		result.TimedOut = errors.Is(err, model.ErrIndexingTimeout)
		b.logger.Error("failed to process video",
			slog.String("video", video.ID.String()), slog.Bool("timedOut", result.TimedOut), slog.String("error", err.Error()))
		if err := b.videos.SetStatus(ctx, video.ID, model.StatusError); err != nil {
			b.logger.Error("failed to record video error status",
				slog.String("video", video.ID.String()), slog.String("error", err.Error()))
		}

		return result
	}

	result.Status = model.StatusCompleted
	if err := b.videos.SetStatus(ctx, video.ID, model.StatusCompleted); err != nil {
		result.Status = model.StatusError
		result.Message = err.Error()
		b.logger.Error("failed to record video completed status",
			slog.String("video", video.ID.String()), slog.String("error", err.Error()))
	}

	return result
}

func (b *Broker) processVideo(ctx context.Context, course *model.Course, video *model.Video, upload model.Upload) error {
	indexerID, err := b.indexer.Upload(ctx, upload)
	if err != nil {
		return fmt.Errorf("failed to upload video: %w", err)
	}

	insights, err := b.indexer.WaitForIndex(ctx, indexerID)
	if err != nil {
		return fmt.Errorf("failed waiting for index: %w", err)
	}

	thumbnail, err := b.indexer.Thumbnail(ctx, indexerID, insights.ThumbnailID)
	if err != nil {
		return fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	if err := b.videos.SetIndexed(ctx, video.ID, indexerID, "data:image/jpeg;base64,"+thumbnail); err != nil {
		return fmt.Errorf("failed to store indexing result: %w", err)
	}
	video.IndexerID = indexerID

	record := transcript.NewRecord(video.ID, insights.Phrases)
	if err := b.transcripts.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	cleaned, err := b.cleaner.Clean(ctx, record.Timestamped, course.Outline(), video.Description)
	if err != nil {
		return fmt.Errorf("failed to clean transcript: %w", err)
	}
	if err := b.transcripts.UpdateCleaned(ctx, video.ID, cleaned); err != nil {
		return fmt.Errorf("failed to save cleaned transcript: %w", err)
	}

	sections, err := b.indexer.PromptContent(ctx, indexerID)
	if err != nil {
		return fmt.Errorf("failed to fetch prompt content: %w", err)
	}
	transcript.Align(sections, transcript.ParseFragments(cleaned))

	if err := b.indexSections(ctx, video, sections); err != nil {
		return err
	}

	b.logger.Info("video processed",
		slog.String("video", video.ID.String()), slog.String("indexerID", indexerID), slog.Int("sections", len(sections)))

	return nil
}

func (b *Broker) indexSections(ctx context.Context, video *model.Video, sections []model.PromptSection) error {
	if err := b.sectionText.SaveAll(ctx, video.ID, sections); err != nil {
		return fmt.Errorf("failed to index sections: %w", err)
	}

	vectors := make([][]float32, 0, len(sections))
	for _, section := range sections {
		vector, err := b.embedder.Embed(ctx, section.Content)
		if err != nil {
			return fmt.Errorf("failed to embed section: %w", err)
		}
		vectors = append(vectors, vector)
	}
	if err := b.sectionVec.SaveAll(ctx, video.ID, sections, vectors); err != nil {
		return fmt.Errorf("failed to index section vectors: %w", err)
	}

	return nil
}
