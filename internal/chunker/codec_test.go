package chunker

import (
	"strings"
	"testing"
)

func chunkOf(texts ...string) Chunk {
	return Chunk{Segments: makeSegments(texts...)}
}

func TestCodecBuild(t *testing.T) {
	ch := chunkOf("first", "second")
	got := Codec{}.Build(ch)
	want := "[0] first\n[1] second\n"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}
}

func TestCodecParse_RoundTrip(t *testing.T) {
	ch := chunkOf("first", "second", "third")
	c := Codec{}
	got := c.Parse(c.Build(ch), ch)
	for i, want := range []string{"first", "second", "third"} {
		if got[i] != want {
			t.Errorf("segment %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestCodecParse_MarkersWithExtraLines(t *testing.T) {
	ch := chunkOf("a", "b")
	output := "Here is the translation:\n[0] 하나\n[1] 둘\n[99] stray"
	got := Codec{}.Parse(output, ch)
	if len(got) != 2 {
		t.Fatalf("expected exactly the chunk's indices, got %v", got)
	}
	if got[0] != "하나" || got[1] != "둘" {
		t.Errorf("got %v", got)
	}
}

func TestCodecParse_MarkersMultilineSegment(t *testing.T) {
	ch := chunkOf("a", "b")
	output := "[0] line one\nline two\n[1] other"
	got := Codec{}.Parse(output, ch)
	if got[0] != "line one\nline two" {
		t.Errorf("multi-line segment = %q", got[0])
	}
	if got[1] != "other" {
		t.Errorf("segment 1 = %q", got[1])
	}
}

func TestCodecParse_LineCountFallback(t *testing.T) {
	// No markers at all, but line count matches the chunk.
	ch := chunkOf("one", "two", "three")
	output := "하나\n둘\n\n셋"
	got := Codec{}.Parse(output, ch)
	if got[0] != "하나" || got[1] != "둘" || got[2] != "셋" {
		t.Errorf("line-count fallback got %v", got)
	}
}

func TestCodecParse_ProportionalFallbackIsTotal(t *testing.T) {
	// Garbled output: no markers, wrong line count. Every segment must
	// still be mapped and the full output preserved.
	ch := chunkOf("one", "two", "three")
	output := "completely unstructured reply"
	got := Codec{}.Parse(output, ch)
	if len(got) != 3 {
		t.Fatalf("expected all 3 segments mapped, got %v", got)
	}
	var joined strings.Builder
	for i := 0; i < 3; i++ {
		text, ok := got[i]
		if !ok {
			t.Fatalf("segment %d unmapped", i)
		}
		joined.WriteString(text)
	}
	if joined.String() != output {
		t.Errorf("proportional slices must concatenate to the output, got %q", joined.String())
	}
}

func TestCodecParse_ProportionalSlicesRunes(t *testing.T) {
	ch := chunkOf("one", "two")
	output := "가나다라"
	got := Codec{}.Parse(output, ch)
	if got[0] != "가나" || got[1] != "다라" {
		t.Errorf("rune slicing broken: %v", got)
	}
}

func TestCodecParse_EmptyOutput(t *testing.T) {
	ch := chunkOf("one", "two")
	got := Codec{}.Parse("", ch)
	if len(got) != 2 {
		t.Fatalf("empty output must still map every segment, got %v", got)
	}
	if got[0] != "" || got[1] != "" {
		t.Errorf("expected empty strings, got %v", got)
	}
}

func TestCodecParse_MissingIndexFallsThrough(t *testing.T) {
	// Marker tier must not accept partial coverage; with matching line
	// count the zip fallback takes over.
	ch := chunkOf("one", "two")
	output := "[0] only first\nsecond without marker"
	got := Codec{}.Parse(output, ch)
	if got[0] == "" || got[1] == "" {
		t.Errorf("expected both segments mapped via fallback, got %v", got)
	}
}

func TestCodecParse_NonContiguousIndices(t *testing.T) {
	// Chunks later in a document carry non-zero-based indices.
	segs := makeSegments("x", "y", "z")
	ch := Chunk{Segments: segs[1:]}
	output := "[1] Y\n[2] Z"
	got := Codec{}.Parse(output, ch)
	if got[1] != "Y" || got[2] != "Z" {
		t.Errorf("got %v", got)
	}
}
