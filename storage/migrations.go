package storage

var pgMigration = []string{
	`CREATE TYPE video_status AS ENUM ('PENDING', 'COMPLETED', 'ERROR')`,
	`CREATE TYPE visibility AS ENUM ('PRIVATE', 'PUBLIC')`,
	`CREATE TABLE course (
id uuid PRIMARY KEY,
code VARCHAR(255) NOT NULL UNIQUE,
name VARCHAR(255) NOT NULL,
description TEXT NOT NULL DEFAULT '',
visibility visibility NOT NULL DEFAULT 'PRIVATE'
)`,
	`CREATE TABLE video (
id uuid PRIMARY KEY,
course_id uuid NOT NULL REFERENCES course(id),
status video_status NOT NULL,
name VARCHAR(255) NOT NULL,
description TEXT NOT NULL DEFAULT '',
indexer_id VARCHAR(255) NOT NULL DEFAULT '',
thumbnail TEXT NOT NULL DEFAULT '',
visibility visibility NOT NULL DEFAULT 'PRIVATE'
)`,
	`CREATE TABLE transcript (
video_id uuid PRIMARY KEY REFERENCES video(id),
phrases JSONB NOT NULL DEFAULT '[]',
raw TEXT NOT NULL DEFAULT '',
timestamped TEXT NOT NULL DEFAULT '',
cleaned TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE section (
id uuid PRIMARY KEY,
video_id uuid NOT NULL REFERENCES video(id),
start_seconds DOUBLE PRECISION NOT NULL,
end_seconds DOUBLE PRECISION NOT NULL,
content TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX section_video_idx ON section (video_id)`,
	`CREATE INDEX section_content_idx ON section
USING GIN (to_tsvector('english', content))`,
}
