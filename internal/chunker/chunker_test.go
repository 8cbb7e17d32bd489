package chunker

import (
	"strings"
	"testing"

	"github.com/shwan6160/EPUB-AI-Translator/internal/segment"
)

func makeSegments(texts ...string) []*segment.Segment {
	segs := make([]*segment.Segment, len(texts))
	for i, t := range texts {
		segs[i] = &segment.Segment{Index: i, SourceText: t}
	}
	return segs
}

func TestSplit_Empty(t *testing.T) {
	if chunks := Split(nil, 100); len(chunks) != 0 {
		t.Errorf("expected no chunks for no segments, got %d", len(chunks))
	}
}

func TestSplit_SingleChunkUnderBudget(t *testing.T) {
	segs := makeSegments("aaa", "bbb", "ccc")
	chunks := Split(segs, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if got := chunks[0].Indices(); len(got) != 3 {
		t.Errorf("chunk should cover all segments, got %v", got)
	}
}

func TestSplit_GreedyBoundary(t *testing.T) {
	// 4+4 fits in 10, adding another 4 would overflow.
	segs := makeSegments("aaaa", "bbbb", "cccc", "dddd", "eeee")
	chunks := Split(segs, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	want := [][]int{{0, 1}, {2, 3}, {4}}
	for i, w := range want {
		got := chunks[i].Indices()
		if len(got) != len(w) {
			t.Fatalf("chunk %d covers %v, want %v", i, got, w)
		}
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("chunk %d covers %v, want %v", i, got, w)
			}
		}
	}
}

func TestSplit_OversizedSegmentIsSingleton(t *testing.T) {
	segs := makeSegments("ab", strings.Repeat("x", 50), "cd")
	chunks := Split(segs, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if n := len(chunks[1].Segments); n != 1 {
		t.Errorf("oversized segment must be alone in its chunk, got %d segments", n)
	}
	if chunks[1].SourceLen() != 50 {
		t.Errorf("oversized segment must not be truncated, len = %d", chunks[1].SourceLen())
	}
}

func TestSplit_CoversInputExactlyOnceInOrder(t *testing.T) {
	segs := makeSegments("one", "twotwo", "threethree", "4", "fivefivefive", "six")
	chunks := Split(segs, 12)

	var flat []int
	for _, ch := range chunks {
		if len(ch.Segments) == 0 {
			t.Fatal("chunks must be non-empty")
		}
		flat = append(flat, ch.Indices()...)
	}
	if len(flat) != len(segs) {
		t.Fatalf("chunks cover %d segments, want %d", len(flat), len(segs))
	}
	for i, idx := range flat {
		if idx != i {
			t.Errorf("position %d holds index %d, order broken", i, idx)
		}
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	// Five 3-byte runes each: two segments fit a 10-rune budget.
	segs := makeSegments("가나다라마", "바사아자차")
	chunks := Split(segs, 10)
	if len(chunks) != 1 {
		t.Errorf("budget is in characters, expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplit_ZeroBudgetUsesDefault(t *testing.T) {
	segs := makeSegments("a", "b")
	chunks := Split(segs, 0)
	if len(chunks) != 1 {
		t.Errorf("zero budget should fall back to the default, got %d chunks", len(chunks))
	}
}
