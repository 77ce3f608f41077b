package indexer

import "github.com/campushub/coursechat/model"

// videoIndex mirrors the slice of the index document the pipeline needs:
// processing state, the summary thumbnail and the timestamped transcript.
type videoIndex struct {
	State      string `json:"state"`
	Summarized struct {
		ThumbnailID string `json:"thumbnailId"`
	} `json:"summarizedInsights"`
	Videos []struct {
		Insights struct {
			Transcript []struct {
				Text      string `json:"text"`
				Instances []struct {
					AdjustedStart string `json:"adjustedStart"`
					AdjustedEnd   string `json:"adjustedEnd"`
				} `json:"instances"`
			} `json:"transcript"`
		} `json:"insights"`
	} `json:"videos"`
}

func (vi *videoIndex) insights() model.Insights {
	insights := model.Insights{
		ThumbnailID: vi.Summarized.ThumbnailID,
	}

	if len(vi.Videos) == 0 {
		return insights
	}

	for _, phrase := range vi.Videos[0].Insights.Transcript {
		if len(phrase.Instances) == 0 {
			continue
		}
		insights.Phrases = append(insights.Phrases, model.Phrase{
			Start:  model.ParseTimestamp(phrase.Instances[0].AdjustedStart),
			End:    model.ParseTimestamp(phrase.Instances[0].AdjustedEnd),
			Phrase: phrase.Text,
		})
	}

	return insights
}
