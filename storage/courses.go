package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

type PostgresCourseRepository struct {
	db *Postgres
}

func NewPostgresCourseRepository(db *Postgres) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

func (p *PostgresCourseRepository) Save(ctx context.Context, course *model.Course) error {
	if course.ID == uuid.Nil {
		existing, err := p.FindByCode(ctx, course.Code)
		if err != nil && !errors.Is(err, model.ErrCourseNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", model.ErrCourseExists, course.Code)
		}
		course.ID = uuid.New()
	}
	if course.Visibility == "" {
		course.Visibility = model.VisibilityPrivate
	}

	_, err := p.db.db.ExecContext(ctx, `
INSERT INTO course (id, code, name, description, visibility)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name, description = EXCLUDED.description, visibility = EXCLUDED.visibility`,
		course.ID, course.Code, course.Name, course.Description, course.Visibility)
	if err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}

	return nil
}

func (p *PostgresCourseRepository) FindByCode(ctx context.Context, code string) (*model.Course, error) {
	row := p.db.db.QueryRowContext(ctx, `
SELECT id, code, name, description, visibility
FROM course
WHERE code = $1`, code)

	course, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrCourseNotFound, code)
	}
	if err != nil {
		return nil, err
	}

	if err := p.loadVideoIDs(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

func (p *PostgresCourseRepository) FindAll(ctx context.Context) ([]*model.Course, error) {
	return p.findWhere(ctx, ``)
}

func (p *PostgresCourseRepository) FindPublic(ctx context.Context) ([]*model.Course, error) {
	return p.findWhere(ctx, `WHERE visibility = 'PUBLIC'`)
}

func (p *PostgresCourseRepository) findWhere(ctx context.Context, where string) ([]*model.Course, error) {
	rows, err := p.db.db.QueryContext(ctx, `
SELECT id, code, name, description, visibility
FROM course `+where+`
ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}
	defer rows.Close()

	courses := []*model.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	for _, course := range courses {
		if err := p.loadVideoIDs(ctx, course); err != nil {
			return nil, err
		}
	}

	return courses, nil
}

func (p *PostgresCourseRepository) loadVideoIDs(ctx context.Context, course *model.Course) error {
	rows, err := p.db.db.QueryContext(ctx, `
SELECT id FROM video WHERE course_id = $1 ORDER BY id`, course.ID)
	if err != nil {
		return fmt.Errorf("failed to load course videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		course.VideoIDs = append(course.VideoIDs, id)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (*model.Course, error) {
	course := &model.Course{}
	if err := row.Scan(&course.ID, &course.Code, &course.Name, &course.Description, &course.Visibility); err != nil {
		return nil, err
	}

	return course, nil
}
