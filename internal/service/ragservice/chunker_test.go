package ragservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		target   int
		overlap  int
		expected []string
	}{
		{
			name:     "Empty text",
			text:     "",
			target:   100,
			overlap:  10,
			expected: nil,
		},
		{
			name:     "Zero target",
			text:     "some text",
			target:   0,
			overlap:  0,
			expected: nil,
		},
		{
			name:     "Text shorter than target is a single chunk",
			text:     "short document",
			target:   100,
			overlap:  10,
			expected: []string{"short document"},
		},
		{
			name:     "Cut moves back to sentence boundary",
			text:     "First sentence. Second sentence that keeps going",
			target:   20,
			overlap:  0,
			expected: []string{"First sentence.", " Second sentence tha", "t keeps going"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(tt.text, tt.target, tt.overlap)
			assert.Equal(t, tt.expected, chunks)
		})
	}
}

func TestChunkTextOverlap(t *testing.T) {
	// No '.' anywhere, so every cut lands exactly on the target and each
	// next window re-reads the last overlap runes.
	text := strings.Repeat("a", 250)
	chunks := ChunkText(text, 100, 20)

	assert.Equal(t, []string{
		strings.Repeat("a", 100),
		strings.Repeat("a", 100),
		strings.Repeat("a", 90),
	}, chunks)
}

func TestChunkTextProgress(t *testing.T) {
	// Overlap >= target would stall the window; it must still terminate and
	// cover the whole text.
	text := strings.Repeat("x", 500)
	chunks := ChunkText(text, 50, 50)

	assert.NotEmpty(t, chunks)
	total := 0
	for _, c := range chunks {
		assert.NotEmpty(t, c)
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text))
	assert.Equal(t, strings.Repeat("x", 50), chunks[0])
}

func TestChunkTextCoversEverything(t *testing.T) {
	text := "Para 1 about tariffs. Para 2 about quotas. Para 3 about origin rules. Para 4 about transit."
	chunks := ChunkText(text, 30, 5)

	assert.NotEmpty(t, chunks)
	// Concatenation with overlaps removed must reproduce the source.
	var sb strings.Builder
	sb.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		prev := sb.String()
		c := chunks[i]
		// Find where the current chunk continues the accumulated text.
		matched := false
		for cut := min(len(c), len(prev)); cut >= 0; cut-- {
			if strings.HasSuffix(prev, c[:cut]) {
				sb.WriteString(c[cut:])
				matched = true
				break
			}
		}
		assert.True(t, matched)
	}
	assert.Equal(t, text, sb.String())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
