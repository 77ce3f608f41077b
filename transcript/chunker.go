package transcript

import "regexp"

// DefaultMaxChunkLength bounds the size of a transcript chunk handed to the
// cleaning model in one call.
const DefaultMaxChunkLength = 10000

// A unit is a bracketed timestamp followed by the phrase spoken there:
// "[0:01:23.45] some words ". Chunks never split inside a unit.
var unitStart = regexp.MustCompile(`\[\d{1,2}:\d{2}:\d{2}\.\d{1,2}\]`)

type Chunker struct {
	maxLength int
}

func NewChunker(maxLength int) *Chunker {
	if maxLength <= 0 {
		maxLength = DefaultMaxChunkLength
	}

	return &Chunker{maxLength: maxLength}
}

// Split cuts a timestamped transcript into chunks of at most maxLength
// characters, closing the current chunk before a unit that would push it
// over the limit. A single unit longer than maxLength becomes a chunk of
// its own. Concatenating the chunks reproduces the input exactly; input
// without any timestamp unit is returned as a single chunk.
func (c *Chunker) Split(transcript string) []string {
	if transcript == "" {
		return nil
	}

	starts := unitStart.FindAllStringIndex(transcript, -1)
	if len(starts) == 0 {
		return []string{transcript}
	}

	units := make([]string, 0, len(starts))
	for i, match := range starts {
		begin := match[0]
		if i == 0 {
			// anything before the first timestamp stays attached
			begin = 0
		}
		end := len(transcript)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		units = append(units, transcript[begin:end])
	}

	chunks := make([]string, 0)
	current := ""
	for _, unit := range units {
		if current != "" && len(current)+len(unit) > c.maxLength {
			chunks = append(chunks, current)
			current = ""
		}
		current += unit
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
