// Package lyrics turns stored lyric and tablature text into display sections and renders them.
//
// A line reading exactly "[Label]" opens a block. Blocks labelled intro, outro or anything containing
// "instrumental" are chord grids; every other block keeps its lines verbatim.
package lyrics

import (
	"regexp"
	"strings"
)

// Kind is the type of a [Segment].
type Kind string

const (
	KindText         Kind = "text"
	KindSection      Kind = "section"
	KindInstrumental Kind = "instrumental"
)

var (
	markerPattern    = regexp.MustCompile(`^\[(.*?)\]$`)
	anyMarkerPattern = regexp.MustCompile(`^\[.*\]$`)
)

// Segment is one display unit of a sheet.
//
// Text segments carry Line. Section segments carry SectionKey and their raw Lines.
// Instrumental segments carry SectionKey and Rows of chord cells.
type Segment struct {
	Kind       Kind       `json:"type"`
	Line       string     `json:"content,omitempty"`
	SectionKey string     `json:"section_key,omitempty"`
	Lines      []string   `json:"lines,omitempty"`
	Rows       [][]string `json:"rows,omitempty"`
}

// Label is the display label of the segment's section key.
func (s Segment) Label() string {
	return Label(s.SectionKey)
}

// IsInstrumental reports whether a section label designates a chord grid.
func IsInstrumental(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "instrumental") || l == "intro" || l == "outro"
}

// Parse splits text into segments in order. Empty text yields no segments.
func Parse(text string) []Segment {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	segments := make([]Segment, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		m := markerPattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			segments = append(segments, Segment{Kind: KindText, Line: lines[i]})
			continue
		}

		key := m[1]
		end := nextMarker(lines, i+1)

		if IsInstrumental(key) {
			segments = append(segments, Segment{
				Kind:       KindInstrumental,
				SectionKey: key,
				Rows:       parseRows(lines[i+1 : end]),
			})
		} else {
			segments = append(segments, Segment{
				Kind:       KindSection,
				SectionKey: key,
				Lines:      append([]string{}, lines[i+1:end]...),
			})
		}

		i = end - 1
	}

	return segments
}

// nextMarker returns the index of the first marker line at or after start, or len(lines).
func nextMarker(lines []string, start int) int {
	for j := start; j < len(lines); j++ {
		if anyMarkerPattern.MatchString(strings.TrimSpace(lines[j])) {
			return j
		}
	}
	return len(lines)
}

// parseRows splits non-empty lines on pipes into trimmed, non-empty chord cells.
func parseRows(lines []string) [][]string {
	rows := [][]string{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cells := []string{}
		for _, cell := range strings.Split(line, "|") {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

// Grid pads rows with empty cells to the width of the widest row.
func Grid(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	grid := make([][]string, len(rows))
	for i, r := range rows {
		grid[i] = make([]string, width)
		copy(grid[i], r)
	}
	return grid
}
