package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songsheet/internal/chords"
	"github.com/desertthunder/songsheet/internal/formatter"
	"github.com/desertthunder/songsheet/internal/lyrics"
	"github.com/desertthunder/songsheet/internal/models"
)

// renderSheet lays out a song for the scrolling viewport: details, chord diagrams, then lyrics sections.
func renderSheet(d *models.SongDetails) string {
	var b strings.Builder

	title := d.Title
	if d.IsFavorite {
		title += " ★"
	}
	b.WriteString(styles.title.Render(title) + "\n")
	if d.ArtistName != "" {
		b.WriteString(styles.help.Render(d.ArtistName) + "\n\n")
	}

	for _, row := range append(formatter.Details(&d.Partition), formatter.Extras(&d.Partition)...) {
		b.WriteString(styles.label.Render(row.Label) + row.Value + "\n")
	}
	if embed := d.EmbedURL(); embed != "" {
		b.WriteString(styles.label.Render("Écouter") + embed + "\n")
	}

	if diagrams := renderDiagrams(d.Chords); diagrams != "" {
		b.WriteString("\n" + diagrams + "\n")
	}

	b.WriteString("\n" + renderLyrics(d.Lyrics))
	return b.String()
}

// renderDiagrams draws chord names above their fretboard diagrams, side by side.
func renderDiagrams(entries []models.ChordEntry) string {
	var columns []string
	for _, c := range entries {
		diagram, err := chords.Diagram(c.Fingering)
		if err != nil {
			diagram = c.Fingering + "\n"
		}
		column := styles.chord.Render(c.Chord) + "\n" + strings.TrimRight(diagram, "\n")
		columns = append(columns, lipgloss.NewStyle().MarginRight(3).Render(column))
	}
	if len(columns) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderLyrics renders each segment as plain text with its section label highlighted.
func renderLyrics(text string) string {
	var b strings.Builder
	for _, seg := range lyrics.Parse(text) {
		out, err := lyrics.RenderString(lyrics.TextRenderer{}, []lyrics.Segment{seg})
		if err != nil {
			continue
		}
		if seg.Kind == lyrics.KindText {
			b.WriteString(out)
			continue
		}

		label, body, _ := strings.Cut(out, "\n")
		b.WriteString(styles.section.Render(strings.Trim(label, "[]")) + "\n" + body)
	}
	return b.String()
}

// pacerStatus summarizes the auto-scroll state for the song view footer.
func pacerStatus(running bool, bpm int, multiplier float64) string {
	state := "⏸"
	if running {
		state = "▶"
	}
	return fmt.Sprintf("%s %d BPM ×%.2f", state, bpm, multiplier)
}
