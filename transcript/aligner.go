package transcript

import (
	"regexp"
	"strings"

	"github.com/campushub/coursechat/model"
)

// Marker is the placeholder the summarization leaves in a section body
// where the transcript excerpt belongs.
const Marker = "[Transcript]"

var fragmentPattern = regexp.MustCompile(`\[(\d+:\d+:\d+\.\d+)\]\s*([^\[]+)`)

// Fragment is one timestamped piece of a cleaned transcript.
type Fragment struct {
	Time float64
	Text string
}

// ParseFragments extracts the bracket-delimited timestamped fragments from
// a cleaned transcript, normalizing timestamps to seconds.
func ParseFragments(cleaned string) []Fragment {
	matches := fragmentPattern.FindAllStringSubmatch(cleaned, -1)
	fragments := make([]Fragment, 0, len(matches))
	for _, match := range matches {
		fragments = append(fragments, Fragment{
			Time: model.ParseTimestamp(match[1]),
			Text: strings.TrimSpace(match[2]),
		})
	}

	return fragments
}

// Align rewrites each section body, replacing its Marker with the
// fragments whose timestamp falls inside the section's [start, end]
// window. The fragment cursor only moves forward and is not reset between
// sections, so a fragment is assigned to at most one section. Sections
// must be supplied in time order and fragments sorted by time. A section
// without a marker is left untouched and consumes nothing, which makes a
// second run over already aligned sections a no-op.
func Align(sections []model.PromptSection, fragments []Fragment) {
	index := 0
	for i := range sections {
		if !strings.Contains(sections[i].Content, Marker) {
			continue
		}

		pending := make([]string, 0)
		for index < len(fragments) {
			fragment := fragments[index]
			if fragment.Time < sections[i].Start || fragment.Time > sections[i].End {
				break
			}
			pending = append(pending, "("+model.FormatTimestamp(fragment.Time)+") "+fragment.Text)
			index++
		}

		sections[i].Content = strings.Replace(sections[i].Content, Marker, strings.Join(pending, "\n"), 1)
	}
}
