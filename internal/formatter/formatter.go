// package formatter exports song sheets to files (plain text, Markdown, JSON, YAML and chord CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/songsheet/internal/chords"
	"github.com/desertthunder/songsheet/internal/lyrics"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Export formats accepted by [Export].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatCSV      = "csv"
)

// Formats lists every export format.
var Formats = []string{FormatText, FormatMarkdown, FormatJSON, FormatYAML, FormatCSV}

var extensions = map[string]string{
	FormatText:     ".txt",
	FormatMarkdown: ".md",
	FormatJSON:     ".json",
	FormatYAML:     ".yaml",
	FormatCSV:      ".csv",
}

// Extension returns the file extension of format, or "" when unknown.
func Extension(format string) string {
	return extensions[format]
}

// Detail is one labelled row of the technical details table.
type Detail struct {
	Label string
	Value string
}

// Details returns the technical details table of a song, in display order.
func Details(p *models.Partition) []Detail {
	return []Detail{
		{"Accordage", p.Tuning},
		{"Tonalité", p.KeySignature},
		{"Capo", p.Capo},
		{"Tempo", p.Tempo},
		{"Mesure", p.TimeSignature},
		{"Grattage", p.Rhythm},
	}
}

// Extras returns the optional album, year and difficulty rows that are set.
func Extras(p *models.Partition) []Detail {
	var extras []Detail
	if p.Album != nil {
		extras = append(extras, Detail{"Album", *p.Album})
	}
	if p.Year != nil {
		extras = append(extras, Detail{"Année", strconv.Itoa(*p.Year)})
	}
	if p.Difficulty != nil {
		extras = append(extras, Detail{"Difficulté", *p.Difficulty})
	}
	return extras
}

// Export renders details in format.
func Export(details *models.SongDetails, format string) ([]byte, error) {
	switch format {
	case FormatText:
		return ExportToText(details)
	case FormatMarkdown:
		return ExportToMarkdown(details)
	case FormatJSON:
		return ExportToJSON(details)
	case FormatYAML:
		return ExportToYAML(details)
	case FormatCSV:
		return ExportToCSV(details)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a song's chords to CSV format with columns: Position, Chord, Fingering
func ExportToCSV(details *models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Chord", "Fingering"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range details.Chords {
		record := []string{strconv.Itoa(c.Position), c.Chord, c.Fingering}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a song to a Markdown sheet with a details table, chord diagrams and lyrics
func ExportToMarkdown(details *models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", details.Title))
	if details.ArtistName != "" {
		buf.WriteString(fmt.Sprintf("**%s**\n\n", details.ArtistName))
	}

	buf.WriteString("| | |\n|---|---|\n")
	for _, d := range append(Details(&details.Partition), Extras(&details.Partition)...) {
		buf.WriteString(fmt.Sprintf("| %s | %s |\n", d.Label, escapeCell(d.Value)))
	}
	buf.WriteString("\n")

	if embed := details.EmbedURL(); embed != "" {
		buf.WriteString(fmt.Sprintf("[Écouter](%s)\n\n", embed))
	}

	if len(details.Chords) > 0 {
		buf.WriteString("## Accords\n\n")
		for _, c := range details.Chords {
			buf.WriteString(fmt.Sprintf("### %s `%s`\n\n", c.Chord, c.Fingering))
			if diagram, err := chords.Diagram(c.Fingering); err == nil {
				buf.WriteString("```\n" + diagram + "```\n\n")
			}
		}
	}

	if details.Lyrics != "" {
		buf.WriteString("## Paroles\n")
		if err := (lyrics.MarkdownRenderer{}).Render(&buf, lyrics.Parse(details.Lyrics)); err != nil {
			return nil, fmt.Errorf("failed to render lyrics: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a song to a plain text sheet
func ExportToText(details *models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", details.Label()))
	buf.WriteString(strings.Repeat("=", len([]rune(details.Label()))) + "\n\n")

	for _, d := range append(Details(&details.Partition), Extras(&details.Partition)...) {
		buf.WriteString(fmt.Sprintf("%-11s %s\n", d.Label+":", d.Value))
	}

	if len(details.Chords) > 0 {
		names := make([]string, len(details.Chords))
		for i, c := range details.Chords {
			names[i] = fmt.Sprintf("%s (%s)", c.Chord, c.Fingering)
		}
		buf.WriteString(fmt.Sprintf("\nAccords: %s\n", strings.Join(names, ", ")))
	}

	if details.Lyrics != "" {
		buf.WriteString("\n")
		if err := (lyrics.TextRenderer{}).Render(&buf, lyrics.Parse(details.Lyrics)); err != nil {
			return nil, fmt.Errorf("failed to render lyrics: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a song with its chords to indented JSON
func ExportToJSON(details *models.SongDetails) ([]byte, error) {
	return shared.MarshalJSON(details, true)
}

// ExportToYAML converts a song to a submission document that `songs add --file` can read back
func ExportToYAML(details *models.SongDetails) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(models.SubmissionFromDetails(details)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of song metadata (without lyrics and chords)
func ToMetadataJSON(p models.Partition) ([]byte, error) {
	p.Lyrics = ""
	return shared.MarshalJSON(p, true)
}

// Slug builds a file name base "artist-title" from lowercase ASCII letters, digits and dashes.
func Slug(p *models.Partition) string {
	decomposed := norm.NFD.String(strings.ToLower(p.ArtistName + " " + p.Title))

	var b strings.Builder
	dash := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteRune('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "song-" + strconv.FormatInt(p.ID, 10)
	}
	return slug
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ChordsFile   string
	MetadataFile string
}

// WriteCSVExport exports a song's chords to CSV format with accompanying metadata JSON file.
//
// Defaults to the song slug as the base filename & creates {base}_chords.csv and {base}_metadata.json
func WriteCSVExport(details *models.SongDetails, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = Slug(&details.Partition)
	}

	csvData, err := ExportToCSV(details)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	chordsFile := baseFilepath + "_chords.csv"
	if err := os.WriteFile(chordsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(details.Partition)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ChordsFile:   chordsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a song to Markdown format in a dedicated directory.
//
// Directory name defaults to the song slug.
// Creates a directory structure: {dir}/README.md and {dir}/chords.csv
func WriteMarkdownExport(details *models.SongDetails, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = Slug(&details.Partition)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(details)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	csvData, err := ExportToCSV(details)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	csvFile := filepath.Join(outputDir, "chords.csv")
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}
	result.Files = append(result.Files, csvFile)

	return result, nil
}

// WriteTextExport exports a song to plain text format.
//
// Defaults to {slug}.txt as the filename.
func WriteTextExport(details *models.SongDetails, path string) (string, error) {
	return WriteExport(details, FormatText, path)
}

// WriteExport writes details in format to path, defaulting to {slug}{ext}.
func WriteExport(details *models.SongDetails, format, path string) (string, error) {
	if path == "" {
		path = Slug(&details.Partition) + Extension(format)
	}

	data, err := Export(details, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
