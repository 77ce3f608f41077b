package broker

import (
	"github.com/campushub/coursechat/model"
	"github.com/google/uuid"
)

// VideoResult is the recorded outcome of one video's run. TimedOut marks
// the distinguished case where the indexing service never answered within
// the wait: the outcome is unknown and a retry may be worthwhile, unlike a
// plain ERROR.
type VideoResult struct {
	VideoID  uuid.UUID         `json:"videoId"`
	Name     string            `json:"name"`
	Status   model.VideoStatus `json:"status"`
	TimedOut bool              `json:"timedOut,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// BatchResult reports every attempted video of a batch. Callers learn
// about per-video failures here and through video status, never through an
// error return.
type BatchResult struct {
	CourseCode string        `json:"courseCode"`
	Videos     []VideoResult `json:"videos"`
}

func (r BatchResult) Completed() int {
	count := 0
	for _, video := range r.Videos {
		if video.Status == model.StatusCompleted {
			count++
		}
	}

	return count
}
