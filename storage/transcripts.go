package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

var ErrTranscriptNotFound = errors.New("transcript not found")

type PostgresTranscriptRepository struct {
	db *Postgres
}

func NewPostgresTranscriptRepository(db *Postgres) *PostgresTranscriptRepository {
	return &PostgresTranscriptRepository{db: db}
}

// Save writes the raw transcript artifacts. Re-saving the same record is
// tolerated, but only the cleaning step updates the cleaned field.
func (p *PostgresTranscriptRepository) Save(ctx context.Context, record model.TranscriptRecord) error {
	phrases, err := json.Marshal(record.Phrases)
	if err != nil {
		return fmt.Errorf("failed to encode phrases: %w", err)
	}

	_, err = p.db.db.ExecContext(ctx, `
INSERT INTO transcript (video_id, phrases, raw, timestamped)
VALUES ($1, $2, $3, $4)
ON CONFLICT (video_id) DO UPDATE
SET phrases = EXCLUDED.phrases, raw = EXCLUDED.raw, timestamped = EXCLUDED.timestamped`,
		record.VideoID, phrases, record.Raw, record.Timestamped)
	if err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	return nil
}

func (p *PostgresTranscriptRepository) UpdateCleaned(ctx context.Context, videoID uuid.UUID, cleaned string) error {
	result, err := p.db.db.ExecContext(ctx, `
UPDATE transcript SET cleaned = $2 WHERE video_id = $1`, videoID, cleaned)
	if err != nil {
		return fmt.Errorf("failed to update cleaned transcript: %w", err)
	}
	if count, err := result.RowsAffected(); err == nil && count == 0 {
		return fmt.Errorf("%w: video %s", ErrTranscriptNotFound, videoID)
	}

	return nil
}

func (p *PostgresTranscriptRepository) FindByVideo(ctx context.Context, videoID uuid.UUID) (model.TranscriptRecord, error) {
	record := model.TranscriptRecord{}
	var phrases []byte
	err := p.db.db.QueryRowContext(ctx, `
SELECT video_id, phrases, raw, timestamped, cleaned
FROM transcript
WHERE video_id = $1`, videoID).
		Scan(&record.VideoID, &phrases, &record.Raw, &record.Timestamped, &record.Cleaned)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TranscriptRecord{}, fmt.Errorf("%w: video %s", ErrTranscriptNotFound, videoID)
	}
	if err != nil {
		return model.TranscriptRecord{}, err
	}
	if err := json.Unmarshal(phrases, &record.Phrases); err != nil {
		return model.TranscriptRecord{}, fmt.Errorf("failed to decode phrases: %w", err)
	}

	return record, nil
}
