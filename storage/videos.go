package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

var ErrVideoNotFound = errors.New("video not found")

type PostgresVideoRepository struct {
	db *Postgres
}

func NewPostgresVideoRepository(db *Postgres) *PostgresVideoRepository {
	return &PostgresVideoRepository{db: db}
}

// Register stores the video with a fresh id and status PENDING. The link
// to the course is the row itself, so the course's video set grows by one
// atomically and registrations for different videos never contend.
func (p *PostgresVideoRepository) Register(ctx context.Context, video *model.Video) error {
	video.ID = uuid.New()
	video.Status = model.StatusPending
	if video.Visibility == "" {
		video.Visibility = model.VisibilityPrivate
	}

	_, err := p.db.db.ExecContext(ctx, `
INSERT INTO video (id, course_id, status, name, description, visibility)
VALUES ($1, $2, $3, $4, $5, $6)`,
		video.ID, video.CourseID, video.Status, video.Name, video.Description, video.Visibility)
	if err != nil {
		return fmt.Errorf("failed to register video: %w", err)
	}

	return nil
}

func (p *PostgresVideoRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.VideoStatus) error {
	result, err := p.db.db.ExecContext(ctx, `
UPDATE video SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}
	if count, err := result.RowsAffected(); err == nil && count == 0 {
		return fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	return nil
}

func (p *PostgresVideoRepository) SetIndexed(ctx context.Context, id uuid.UUID, indexerID, thumbnail string) error {
	result, err := p.db.db.ExecContext(ctx, `
UPDATE video SET indexer_id = $2, thumbnail = $3 WHERE id = $1`, id, indexerID, thumbnail)
	if err != nil {
		return fmt.Errorf("failed to update indexed video: %w", err)
	}
	if count, err := result.RowsAffected(); err == nil && count == 0 {
		return fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}

	return nil
}

func (p *PostgresVideoRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Video, error) {
	rows, err := p.db.db.QueryContext(ctx, `
SELECT id, course_id, status, name, description, indexer_id, thumbnail, visibility
FROM video
WHERE course_id = $1
ORDER BY id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find videos: %w", err)
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		video := &model.Video{}
		if err := rows.Scan(&video.ID, &video.CourseID, &video.Status, &video.Name,
			&video.Description, &video.IndexerID, &video.Thumbnail, &video.Visibility); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	return videos, nil
}

func (p *PostgresVideoRepository) FindByIndexerID(ctx context.Context, indexerID string) (*model.Video, error) {
	video := &model.Video{}
	err := p.db.db.QueryRowContext(ctx, `
SELECT id, course_id, status, name, description, indexer_id, thumbnail, visibility
FROM video
WHERE indexer_id = $1`, indexerID).
		Scan(&video.ID, &video.CourseID, &video.Status, &video.Name,
			&video.Description, &video.IndexerID, &video.Thumbnail, &video.Visibility)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, indexerID)
	}
	if err != nil {
		return nil, err
	}

	return video, nil
}
