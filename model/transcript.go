package model

import "github.com/google/uuid"

// Phrase is one timestamped unit of speech as reported by the video
// indexer. Start and End are normalized to seconds.
type Phrase struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Phrase string  `json:"phrase"`
}

// TranscriptRecord holds the transcript artifacts of one video. Raw and
// Timestamped are written once when insights arrive, Cleaned is written by
// the cleaning step.
type TranscriptRecord struct {
	VideoID     uuid.UUID
	Phrases     []Phrase
	Raw         string
	Timestamped string
	Cleaned     string
}

// Insights is the part of the indexer's analysis the pipeline consumes.
type Insights struct {
	ThumbnailID string
	Phrases     []Phrase
}

// PromptSection is a time-bounded content block produced by the indexer's
// summarization. Its content may embed a [Transcript] placeholder that the
// aligner fills with transcript fragments.
type PromptSection struct {
	Start   float64
	End     float64
	Content string
}
