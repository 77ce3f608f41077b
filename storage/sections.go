package storage

import (
	"context"
	"fmt"

	"github.com/campushub/coursechat/fusion"
	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

// PostgresSectionRepository is the lexical side of the hybrid section
// index, backed by Postgres full-text search.
type PostgresSectionRepository struct {
	db *Postgres
}

func NewPostgresSectionRepository(db *Postgres) *PostgresSectionRepository {
	return &PostgresSectionRepository{db: db}
}

func (p *PostgresSectionRepository) SaveAll(ctx context.Context, videoID uuid.UUID, sections []model.PromptSection) error {
	for _, section := range sections {
		_, err := p.db.db.ExecContext(ctx, `
INSERT INTO section (id, video_id, start_seconds, end_seconds, content)
VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), videoID, section.Start, section.End, section.Content)
		if err != nil {
			return fmt.Errorf("failed to save section: %w", err)
		}
	}

	return nil
}

// Search ranks a video's sections against the query with ts_rank. The
// scores only order this list; rank fusion makes them comparable with the
// semantic side.
func (p *PostgresSectionRepository) Search(ctx context.Context, videoID uuid.UUID, query string, limit int) ([]fusion.Candidate, error) {
	rows, err := p.db.db.QueryContext(ctx, `
SELECT id, content, ts_rank(to_tsvector('english', content), plainto_tsquery('english', $2)) AS score
FROM section
WHERE video_id = $1
AND to_tsvector('english', content) @@ plainto_tsquery('english', $2)
ORDER BY score DESC
LIMIT $3`, videoID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search sections: %w", err)
	}
	defer rows.Close()

	candidates := []fusion.Candidate{}
	for rows.Next() {
		var candidate fusion.Candidate
		if err := rows.Scan(&candidate.ID, &candidate.Text, &candidate.Score); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
