package transcript_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/campushub/coursechat/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit builds a timestamped phrase unit of exactly size characters.
func unit(minute, size int) string {
	prefix := fmt.Sprintf("[0:%02d:00.00] ", minute)
	return prefix + strings.Repeat("a", size-len(prefix)-1) + " "
}

func TestChunkerBoundary(t *testing.T) {
	chunker := transcript.NewChunker(10000)

	units := []string{unit(1, 4000), unit(2, 4000), unit(3, 4000)}
	input := strings.Join(units, "")

	chunks := chunker.Split(input)

	require.Len(t, chunks, 2)
	assert.Equal(t, units[0]+units[1], chunks[0])
	assert.Equal(t, units[2], chunks[1])
}

func TestChunkerRoundTrip(t *testing.T) {
	for name, tc := range map[string]struct {
		input string
		max   int
	}{
		"short":           {input: unit(0, 40) + unit(1, 60) + unit(2, 50), max: 100},
		"exact fit":       {input: unit(0, 50) + unit(1, 50), max: 100},
		"oversized unit":  {input: unit(0, 40) + unit(1, 500) + unit(2, 40), max: 100},
		"leading text":    {input: "intro without timestamp " + unit(0, 40) + unit(1, 40), max: 60},
		"no units at all": {input: "just some plain text, no timestamps anywhere", max: 10},
	} {
		t.Run(name, func(t *testing.T) {
			chunker := transcript.NewChunker(tc.max)
			chunks := chunker.Split(tc.input)
			assert.Equal(t, tc.input, strings.Join(chunks, ""))
		})
	}
}

func TestChunkerMaxLength(t *testing.T) {
	chunker := transcript.NewChunker(100)

	var input string
	for i := 0; i < 20; i++ {
		input += unit(i, 45)
	}

	for _, chunk := range chunker.Split(input) {
		assert.LessOrEqual(t, len(chunk), 100)
	}
}

func TestChunkerOversizedUnitAlone(t *testing.T) {
	chunker := transcript.NewChunker(100)

	big := unit(1, 300)
	chunks := chunker.Split(unit(0, 50) + big + unit(2, 50))

	require.Len(t, chunks, 3)
	assert.Equal(t, big, chunks[1])
}

func TestChunkerDegenerate(t *testing.T) {
	chunker := transcript.NewChunker(10)

	assert.Nil(t, chunker.Split(""))
	assert.Equal(t, []string{"no timestamps here"}, chunker.Split("no timestamps here"))
}
