package lyrics

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"
)

// Renderer writes segments in a display format.
type Renderer interface {
	Render(w io.Writer, segments []Segment) error
}

// Output formats accepted by [NewRenderer].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// NewRenderer returns the renderer for format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case FormatText, "txt", "":
		return TextRenderer{}, nil
	case FormatMarkdown, "md":
		return MarkdownRenderer{}, nil
	case FormatHTML:
		return HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// RenderString renders segments with r into a string.
func RenderString(r Renderer, segments []Segment) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, segments); err != nil {
		return "", err
	}
	return b.String(), nil
}

// TextRenderer renders plain text with bracketed labels and aligned chord grids.
type TextRenderer struct{}

func (TextRenderer) Render(w io.Writer, segments []Segment) error {
	var b strings.Builder
	for _, s := range segments {
		switch s.Kind {
		case KindText:
			b.WriteString(s.Line + "\n")
		case KindSection:
			b.WriteString("[" + s.Label() + "]\n")
			for _, l := range s.Lines {
				b.WriteString(l + "\n")
			}
		case KindInstrumental:
			b.WriteString("[" + s.Label() + "]\n")
			for _, row := range alignGrid(Grid(s.Rows)) {
				b.WriteString(strings.TrimRight("| "+strings.Join(row, " | ")+" |", " ") + "\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// MarkdownRenderer renders headings, fenced lyric blocks and chord grid tables.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(w io.Writer, segments []Segment) error {
	var b strings.Builder
	for _, s := range segments {
		switch s.Kind {
		case KindText:
			b.WriteString(s.Line + "\n")
		case KindSection:
			body := strings.Join(s.Lines, "\n")
			fence := codeFence(body)
			fmt.Fprintf(&b, "\n### %s\n\n%s\n%s\n%s\n\n", s.Label(), fence, body, fence)
		case KindInstrumental:
			fmt.Fprintf(&b, "\n### %s\n\n", s.Label())
			grid := Grid(s.Rows)
			if len(grid) == 0 || len(grid[0]) == 0 {
				continue
			}
			header := make([]string, len(grid[0]))
			rule := make([]string, len(grid[0]))
			for i := range header {
				header[i] = fmt.Sprintf("%d", i+1)
				rule[i] = "---"
			}
			b.WriteString("| " + strings.Join(header, " | ") + " |\n")
			b.WriteString("| " + strings.Join(rule, " | ") + " |\n")
			for _, row := range grid {
				b.WriteString("| " + strings.Join(row, " | ") + " |\n")
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// codeFence returns a backtick fence longer than any backtick run in body, and at least three long.
func codeFence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

var htmlTemplate = template.Must(template.New("sheet").Funcs(template.FuncMap{
	"join": func(lines []string) string { return strings.Join(lines, "\n") },
	"grid": Grid,
}).Parse(`<div class="lyrics">
{{- range . }}
{{- if eq .Kind "text" }}
<div class="line">{{ .Line }}</div>
{{- else if eq .Kind "section" }}
<section class="section"><h3 class="label">{{ .Label }}</h3><pre>{{ join .Lines }}</pre></section>
{{- else }}
<section class="instrumental"><h3 class="label">{{ .Label }}</h3><table class="grid">
{{- range grid .Rows }}<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>{{ end -}}
</table></section>
{{- end }}
{{- end }}
</div>
`))

// HTMLRenderer renders escaped HTML fragments.
type HTMLRenderer struct{}

func (HTMLRenderer) Render(w io.Writer, segments []Segment) error {
	return htmlTemplate.Execute(w, segments)
}

// alignGrid pads every cell to its column width.
func alignGrid(grid [][]string) [][]string {
	if len(grid) == 0 {
		return grid
	}

	widths := make([]int, len(grid[0]))
	for _, row := range grid {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	out := make([][]string, len(grid))
	for r, row := range grid {
		out[r] = make([]string, len(row))
		for i, cell := range row {
			out[r][i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
		}
	}
	return out
}
