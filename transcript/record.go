package transcript

import (
	"strings"

	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

// NewRecord derives the transcript artifacts of a video from the phrases
// the indexer reported: the plain text and the timestamped rendition the
// chunker and cleaner operate on.
func NewRecord(videoID uuid.UUID, phrases []model.Phrase) model.TranscriptRecord {
	var timestamped, raw strings.Builder
	for _, phrase := range phrases {
		timestamped.WriteString("[" + model.FormatClock(phrase.Start) + "] ")
		timestamped.WriteString(phrase.Phrase + " ")
		raw.WriteString(phrase.Phrase + " ")
	}

	return model.TranscriptRecord{
		VideoID:     videoID,
		Phrases:     phrases,
		Raw:         strings.TrimSpace(raw.String()),
		Timestamped: strings.TrimSpace(timestamped.String()),
	}
}
