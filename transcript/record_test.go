package transcript_test

import (
	"testing"

	"github.com/campushub/coursechat/model"
	"github.com/campushub/coursechat/transcript"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	videoID := uuid.New()
	phrases := []model.Phrase{
		{Start: 4, End: 6.5, Phrase: "hello everyone"},
		{Start: 6.5, End: 9, Phrase: "welcome to the lecture"},
	}

	record := transcript.NewRecord(videoID, phrases)

	assert.Equal(t, videoID, record.VideoID)
	assert.Equal(t, phrases, record.Phrases)
	assert.Equal(t, "hello everyone welcome to the lecture", record.Raw)
	assert.Equal(t, "[0:00:04.00] hello everyone [0:00:06.50] welcome to the lecture", record.Timestamped)
}

func TestNewRecordEmpty(t *testing.T) {
	record := transcript.NewRecord(uuid.New(), nil)

	assert.Empty(t, record.Raw)
	assert.Empty(t, record.Timestamped)
}

func TestRecordChunksParseBack(t *testing.T) {
	// the timestamped rendition must be what the chunker and the aligner
	// expect to see
	record := transcript.NewRecord(uuid.New(), []model.Phrase{
		{Start: 0, Phrase: "one"},
		{Start: 3700.25, Phrase: "two"},
	})

	chunks := transcript.NewChunker(0).Split(record.Timestamped)
	assert.Equal(t, []string{record.Timestamped}, chunks)

	fragments := transcript.ParseFragments(record.Timestamped)
	assert.Len(t, fragments, 2)
	assert.Equal(t, 3700.25, fragments[1].Time)
}
