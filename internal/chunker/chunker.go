// Package chunker groups ordered segments into size-bounded batches for
// single translation calls, and encodes/decodes the line-indexed text
// blob exchanged with the translation model.
package chunker

import (
	"unicode/utf8"

	"github.com/shwan6160/EPUB-AI-Translator/internal/segment"
)

// DefaultMaxChars is the stock per-chunk character budget.
const DefaultMaxChars = 8000

// Chunk is an ordered, contiguous batch of a document's segments.
type Chunk struct {
	Segments []*segment.Segment
}

// SourceLen returns the total source character length of the chunk.
func (c Chunk) SourceLen() int {
	total := 0
	for _, s := range c.Segments {
		total += utf8.RuneCountInString(s.SourceText)
	}
	return total
}

// Indices returns the segment indices covered by the chunk.
func (c Chunk) Indices() []int {
	out := make([]int, len(c.Segments))
	for i, s := range c.Segments {
		out[i] = s.Index
	}
	return out
}

// Split partitions segments into chunks by greedy left-to-right
// accumulation. Every chunk is non-empty, order is preserved, and the
// union covers the input exactly once. A single segment longer than
// maxChars becomes its own chunk; it is never split or dropped.
func Split(segs []*segment.Segment, maxChars int) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var chunks []Chunk
	var current []*segment.Segment
	size := 0

	for _, s := range segs {
		n := utf8.RuneCountInString(s.SourceText)
		if len(current) > 0 && size+n > maxChars {
			chunks = append(chunks, Chunk{Segments: current})
			current = nil
			size = 0
		}
		current = append(current, s)
		size += n
	}
	if len(current) > 0 {
		chunks = append(chunks, Chunk{Segments: current})
	}
	return chunks
}
