package chunker

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Codec serializes a chunk for the translation model and maps the
// model's output back onto segment indices. Decoding never fails: three
// strategies are tried in order, and the last one is total.
type Codec struct {
	Log *slog.Logger
}

// Build renders a chunk as one `[index] text` line per segment. A
// segment whose text contains newlines spans multiple physical lines
// but still begins with its own marker.
func (c Codec) Build(ch Chunk) string {
	var sb strings.Builder
	for _, s := range ch.Segments {
		fmt.Fprintf(&sb, "[%d] %s\n", s.Index, s.SourceText)
	}
	return sb.String()
}

// Parse maps translated output back to the chunk's segment indices.
// The returned map always covers every segment in the chunk.
func (c Codec) Parse(output string, ch Chunk) map[int]string {
	output = strings.TrimRight(output, "\n")
	for _, strat := range strategies {
		if m, ok := strat.parse(output, ch); ok {
			if strat.degraded && c.Log != nil {
				c.Log.Warn("chunk decode degraded",
					"strategy", strat.name,
					"segments", len(ch.Segments),
				)
			}
			return m
		}
	}
	// Unreachable: the proportional strategy is total.
	return nil
}

type strategy struct {
	name     string
	degraded bool
	parse    func(output string, ch Chunk) (map[int]string, bool)
}

var strategies = []strategy{
	{name: "marker", parse: parseMarkers},
	{name: "line-count", degraded: true, parse: parseLineCount},
	{name: "proportional", degraded: true, parse: parseProportional},
}

var lineMarkerRe = regexp.MustCompile(`^\[(\d+)\]\s*(.*)$`)

// parseMarkers recovers segments from `[index]` line markers. It
// succeeds only when the recovered indices cover every expected index;
// extra or out-of-range indices are discarded.
func parseMarkers(output string, ch Chunk) (map[int]string, bool) {
	recovered := make(map[int]string)
	current := -1
	for _, line := range strings.Split(output, "\n") {
		if m := lineMarkerRe.FindStringSubmatch(line); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err == nil {
				current = idx
				recovered[current] = m[2]
				continue
			}
		}
		if current >= 0 {
			recovered[current] += "\n" + line
		}
	}

	result := make(map[int]string, len(ch.Segments))
	for _, s := range ch.Segments {
		text, ok := recovered[s.Index]
		if !ok {
			return nil, false
		}
		result[s.Index] = text
	}
	return result, true
}

// parseLineCount strips any marker prefixes, drops empty lines, and
// zips segments to lines when the counts match.
func parseLineCount(output string, ch Chunk) (map[int]string, bool) {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = lineMarkerRe.ReplaceAllString(line, "$2")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != len(ch.Segments) {
		return nil, false
	}

	result := make(map[int]string, len(ch.Segments))
	for i, s := range ch.Segments {
		result[s.Index] = lines[i]
	}
	return result, true
}

// parseProportional slices the whole output into even character spans,
// one per segment, the final segment absorbing the remainder. Always
// succeeds, so decode can never leave a segment unmapped. Division is
// by character count; see DESIGN.md for the known precision gap.
func parseProportional(output string, ch Chunk) (map[int]string, bool) {
	n := len(ch.Segments)
	result := make(map[int]string, n)
	if n == 0 {
		return result, true
	}

	runes := []rune(output)
	per := len(runes) / n
	for i, s := range ch.Segments {
		start := i * per
		end := start + per
		if i == n-1 {
			end = len(runes)
		}
		result[s.Index] = string(runes[start:end])
	}
	return result, true
}
