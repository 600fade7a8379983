package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songsheet/internal/chords"
	"github.com/desertthunder/songsheet/internal/formatter"
	"github.com/desertthunder/songsheet/internal/lyrics"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/server"
	"github.com/desertthunder/songsheet/internal/shared"
	tu "github.com/desertthunder/songsheet/internal/testing"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func newMockLibrary() *tu.MockSongService {
	artists := []*models.Artist{{ID: 1, Name: "Zoé Fontaine"}, {ID: 2, Name: "Alice Martin"}}
	songs := []*models.Partition{
		{ID: 1, ArtistID: 1, ArtistName: "Zoé Fontaine", Title: "Été Indien", Tempo: "90 BPM",
			Lyrics: "[Verse 1]\nLa mer\nLe sable\n[Chorus]\nRefrain\n[Intro]\nC | G\nAm | F\n\nFin"},
		{ID: 2, ArtistID: 2, ArtistName: "Alice Martin", Title: "Bleu", Tempo: "120 BPM"},
		{ID: 3, ArtistID: 1, ArtistName: "Zoé Fontaine", Title: "Automne", Tempo: "70 BPM"},
	}
	return tu.NewMockSongService(artists, songs)
}

// runCLI runs the command line against svc and returns everything written to the runner output.
func runCLI(t *testing.T, svc *tu.MockSongService, args ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	opts := RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)}
	if svc != nil {
		opts.Songs = svc
	}
	runner := NewRunner(opts)
	defer runner.Close()

	err := runApp(runner, output, args...)
	return output.String(), err
}

func runApp(runner *Runner, output io.Writer, args ...string) error {
	app := &cli.Command{
		Name:      "songsheet",
		Commands:  runner.register(),
		Writer:    output,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"songsheet"}, args...))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			songs := newMockLibrary()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Songs:      songs,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.songs != songs {
				t.Error("expected songs to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if seen[cmd.Name] {
				t.Errorf("command %q registered twice", cmd.Name)
			}
			seen[cmd.Name] = true
		}

		for _, name := range []string{"setup", "serve", "artists", "songs", "chords", "lyrics", "tui"} {
			if !seen[name] {
				t.Errorf("expected command %q to be registered", name)
			}
		}
	})
}

func TestArtistsCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "artists", "list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Artistes (2)") || !strings.Contains(out, "Zoé Fontaine") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("random as JSON", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "artists", "random", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var artist models.Artist
		if err := json.Unmarshal([]byte(out), &artist); err != nil {
			t.Fatalf("output is not an artist: %v", err)
		}
		if artist.Name != "Zoé Fontaine" {
			t.Errorf("expected Zoé Fontaine, got %q", artist.Name)
		}
	})

	t.Run("songs of one artist", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "artists", "songs", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Été Indien") || !strings.Contains(out, "Automne") {
			t.Errorf("missing songs in %q", out)
		}
		if strings.Contains(out, "Bleu") {
			t.Errorf("listed another artist's song: %q", out)
		}
	})

	t.Run("unknown artist", func(t *testing.T) {
		_, err := runCLI(t, newMockLibrary(), "artists", "songs", "42")
		if !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})

	t.Run("id validation", func(t *testing.T) {
		tests := []struct {
			args []string
			want error
		}{
			{[]string{"artists", "songs"}, shared.ErrMissingArgument},
			{[]string{"artists", "songs", "abc"}, shared.ErrInvalidArgument},
			{[]string{"artists", "songs", "0"}, shared.ErrInvalidArgument},
		}
		for _, tt := range tests {
			t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
				_, err := runCLI(t, newMockLibrary(), tt.args...)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}

func TestSongsCommands(t *testing.T) {
	t.Run("list groups by artist name", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		alice, zoe := strings.Index(out, "Alice Martin"), strings.Index(out, "Zoé Fontaine")
		if alice < 0 || zoe < 0 || alice > zoe {
			t.Errorf("expected Alice before Zoé, got %q", out)
		}
	})

	t.Run("list with search", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "list", "--search", "ALICE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Bleu") || strings.Contains(out, "Zoé Fontaine") {
			t.Errorf("unexpected search output %q", out)
		}
	})

	t.Run("list without matches", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "list", "-q", "zzz")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "Aucune chanson\n" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("show as text records a view", func(t *testing.T) {
		svc := newMockLibrary()
		out, err := runCLI(t, svc, "songs", "show", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Zoé Fontaine - Été Indien", "Couplet 1", "Refrain", "90 BPM"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if len(svc.Viewed) != 1 || svc.Viewed[0] != 1 {
			t.Errorf("expected one view of song 1, got %v", svc.Viewed)
		}
	})

	t.Run("show as JSON", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "show", "--format", "json", "2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !json.Valid([]byte(out)) {
			t.Errorf("expected JSON, got %q", out)
		}
	})

	t.Run("show rejects unknown formats", func(t *testing.T) {
		_, err := runCLI(t, newMockLibrary(), "songs", "show", "--format", "pdf", "1")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("show unknown song", func(t *testing.T) {
		_, err := runCLI(t, newMockLibrary(), "songs", "show", "99")
		if !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("recent honours the limit", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "recent", "--limit", "2", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var songs []models.Partition
		if err := json.Unmarshal([]byte(out), &songs); err != nil {
			t.Fatalf("output is not a song list: %v", err)
		}
		if len(songs) != 2 {
			t.Errorf("expected 2 songs, got %d", len(songs))
		}
	})

	t.Run("popular as a table", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "popular")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Populaires") || !strings.Contains(out, "Bleu") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("favorite toggles", func(t *testing.T) {
		svc := newMockLibrary()
		out, err := runCLI(t, svc, "songs", "favorite", "3")
		if err != nil || !strings.HasPrefix(out, "★") {
			t.Fatalf("expected favorite to be added, got %q, %v", out, err)
		}
		out, err = runCLI(t, svc, "songs", "favorite", "3")
		if err != nil || !strings.HasPrefix(out, "☆") {
			t.Fatalf("expected favorite to be removed, got %q, %v", out, err)
		}
	})
}

func TestSongsWriteCommands(t *testing.T) {
	t.Run("add reads a YAML submission", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "song.yaml", `artist: Zoé Fontaine
title: Hiver
tempo: "100"
chords:
  - chord: Am
    fingering: x02210
lyrics: |
  [Verse 1]
  Neige
`)

		svc := newMockLibrary()
		out, err := runCLI(t, svc, "songs", "add", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(svc.Created) != 1 {
			t.Fatalf("expected one created song, got %d", len(svc.Created))
		}
		created := svc.Created[0]
		if created.Title != "Hiver" || created.Tempo != "100 BPM" {
			t.Errorf("unexpected submission %+v", created)
		}
		if len(created.Chords) != 1 || created.Chords[0].Fingering != "x02210" {
			t.Errorf("unexpected chords %+v", created.Chords)
		}
		if !strings.Contains(out, "Created song 1") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("add reports validation errors", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "song.yaml", "artist: Zoé Fontaine\n")

		_, err := runCLI(t, newMockLibrary(), "songs", "add", path)
		if models.KindOf(err) != models.ErrorKindValidation {
			t.Errorf("expected a validation error, got %v", err)
		}
	})

	t.Run("add rejects malformed YAML", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "song.yaml", "artist: [unclosed\n")

		_, err := runCLI(t, newMockLibrary(), "songs", "add", path)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("edit without a file prints the current submission", func(t *testing.T) {
		out, err := runCLI(t, newMockLibrary(), "songs", "edit", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var sub models.Submission
		if err := yaml.Unmarshal([]byte(out), &sub); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if sub.Artist != "Zoé Fontaine" || sub.Title != "Été Indien" {
			t.Errorf("unexpected submission %+v", sub)
		}
	})

	t.Run("edit with a file updates the song", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "song.yaml", "artist: Alice Martin\ntitle: Bleu nuit\n")

		svc := newMockLibrary()
		if _, err := runCLI(t, svc, "songs", "edit", "--file", path, "2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.Updated[2].Title != "Bleu nuit" {
			t.Errorf("expected song 2 to be updated, got %+v", svc.Updated)
		}
	})

	t.Run("export one song", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "sheet.yaml")

		out, err := runCLI(t, newMockLibrary(), "songs", "export", "--format", "yaml", "--output", path, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(out, path) {
			t.Errorf("expected output to name %s, got %q", path, out)
		}
	})

	t.Run("export one song as CSV", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "sheet")

		if _, err := runCLI(t, newMockLibrary(), "songs", "export", "--format", "csv", "--output", base, "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, base+"_chords.csv")
		tu.AssertFileExists(t, base+"_metadata.json")
	})

	t.Run("export-all writes a manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")

		out, err := runCLI(t, newMockLibrary(), "songs", "export-all",
			"--format", "json", "--output", dir, "--rate", "1000", "--workers", "2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Successful: 3") {
			t.Errorf("unexpected summary %q", out)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})

	t.Run("export-all with selected IDs", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")

		out, err := runCLI(t, newMockLibrary(), "songs", "export-all",
			"--format", "text", "--output", dir, "--rate", "1000", "--ids", "1, 99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Successful: 1") || !strings.Contains(out, "Failed:     1") {
			t.Errorf("unexpected summary %q", out)
		}
	})

	t.Run("export-all rejects bad IDs", func(t *testing.T) {
		_, err := runCLI(t, newMockLibrary(), "songs", "export-all", "--ids", "1,x")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSongsPlay(t *testing.T) {
	svc := newMockLibrary()
	text, err := formatter.ExportToText(svc.Details[1])
	if err != nil {
		t.Fatalf("failed to render expected text: %v", err)
	}

	t.Run("prints the whole sheet", func(t *testing.T) {
		out, err := runCLI(t, svc, "songs", "play", "--height", "3", "--interval", "1ms", "--multiplier", "5", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimRight(out, "\n") != strings.TrimRight(string(text), "\n") {
			t.Errorf("expected the whole sheet in order, got:\n%s", out)
		}
	})

	t.Run("rejects zero interval", func(t *testing.T) {
		out, err := runCLI(t, svc, "songs", "play", "--height", "1", "--interval", "0s", "1")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if out != "" {
			t.Errorf("expected no output, got %q", out)
		}
	})
}

func TestChordsCommands(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		out, err := runCLI(t, nil, "chords", "lookup", "Cmaj7")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "x32000") || !strings.Contains(out, "EADGBe") {
			t.Errorf("unexpected lookup output %q", out)
		}
	})

	t.Run("lookup unknown chord", func(t *testing.T) {
		_, err := runCLI(t, nil, "chords", "lookup", "H7")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("suggest disables chords in use", func(t *testing.T) {
		out, err := runCLI(t, nil, "chords", "suggest", "--in-use", "C, Am", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var suggestions chords.Suggestions
		if err := json.Unmarshal([]byte(out), &suggestions); err != nil {
			t.Fatalf("output is not a suggestion panel: %v", err)
		}

		disabled := map[string]bool{}
		for _, g := range suggestions.Groups {
			for _, s := range g.Chords {
				if s.Disabled {
					disabled[s.Chord] = true
				}
			}
		}
		if !disabled["C"] || !disabled["Am"] || len(disabled) != 2 {
			t.Errorf("expected only C and Am disabled, got %v", disabled)
		}
	})

	t.Run("suggest as text", func(t *testing.T) {
		out, err := runCLI(t, nil, "chords", "suggest", "--in-use", "G")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "(G)") {
			t.Errorf("expected G to be marked, got %q", out)
		}
	})
}

func TestLyricsCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lyrics.txt", "[Verse 1]\nLa mer\n[Intro]\nC | G\n")

	t.Run("parse", func(t *testing.T) {
		out, err := runCLI(t, nil, "lyrics", "parse", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var segments []lyrics.Segment
		if err := json.Unmarshal([]byte(out), &segments); err != nil {
			t.Fatalf("output is not a segment list: %v", err)
		}
		if len(segments) != 2 || segments[0].Kind != lyrics.KindSection || segments[1].Kind != lyrics.KindInstrumental {
			t.Errorf("unexpected segments %+v", segments)
		}
	})

	t.Run("render markdown", func(t *testing.T) {
		out, err := runCLI(t, nil, "lyrics", "render", "--format", "markdown", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "### Couplet 1") || !strings.Contains(out, "| C | G |") {
			t.Errorf("unexpected markdown %q", out)
		}
	})

	t.Run("render rejects unknown formats", func(t *testing.T) {
		_, err := runCLI(t, nil, "lyrics", "render", "--format", "pdf", path)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runCLI(t, nil, "lyrics", "parse")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("import", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, `<html><body><pre>[Verse 1]<br>Hello</pre></body></html>`)
		}))
		defer srv.Close()

		out, err := runCLI(t, nil, "lyrics", "import", srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "[Verse 1]\nHello\n" {
			t.Errorf("unexpected import %q", out)
		}

		target := filepath.Join(dir, "imported.txt")
		if _, err := runCLI(t, nil, "lyrics", "import", "--output", target, srv.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := tu.MustReadFile(t, target); got != "[Verse 1]\nHello\n" {
			t.Errorf("unexpected file content %q", got)
		}
	})
}

func TestAPICommands(t *testing.T) {
	svc := newMockLibrary()
	srv := httptest.NewServer(server.New(shared.DefaultConfig(), svc, shared.NewLogger(io.Discard)).Handler())
	defer srv.Close()

	t.Run("get", func(t *testing.T) {
		out, err := runCLI(t, nil, "api", "get", "--remote", srv.URL, "/api/artists")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `"name": "Zoé Fontaine"`) {
			t.Errorf("expected indented artist JSON, got %q", out)
		}
	})

	t.Run("get error status", func(t *testing.T) {
		_, err := runCLI(t, nil, "api", "get", "--remote", srv.URL, "/api/songs/99")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("post rejects invalid JSON", func(t *testing.T) {
		_, err := runCLI(t, nil, "api", "post", "--remote", srv.URL, "--data", "{nope", "/api/songs")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("post creates a song", func(t *testing.T) {
		out, err := runCLI(t, nil, "api", "post", "--remote", srv.URL,
			"--data", `{"artist": "Alice Martin", "title": "Vert"}`, "/api/songs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, `"id"`) {
			t.Errorf("expected the new ID, got %q", out)
		}
	})

	t.Run("dump", func(t *testing.T) {
		out, err := runCLI(t, nil, "api", "dump", "--remote", srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var dump map[string]json.RawMessage
		if err := json.Unmarshal([]byte(out), &dump); err != nil {
			t.Fatalf("dump is not JSON: %v", err)
		}
		for _, key := range []string{"health", "options", "artists", "songs", "recent", "popular"} {
			if _, ok := dump[key]; !ok {
				t.Errorf("dump missing %q", key)
			}
		}
		if _, ok := dump["errors"]; ok {
			t.Errorf("unexpected errors in dump: %s", dump["errors"])
		}
	})

	t.Run("songs through the remote service", func(t *testing.T) {
		out, err := runCLI(t, nil, "songs", "list", "--remote", srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Été Indien") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestCacheClearWithoutRedis(t *testing.T) {
	out, err := runCLI(t, newMockLibrary(), "cache", "clear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "nothing to clear") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSetupCommands(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	defer tu.MustChdir(t, wd)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

	t.Run("config", func(t *testing.T) {
		if err := runApp(runner, output, "setup", "config", "--config", "custom.toml"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "custom.toml"))

		if err := runApp(runner, output, "setup", "config", "--config", "custom.toml"); err == nil {
			t.Error("expected an error when the config already exists")
		}
	})

	t.Run("database creates config and applies migrations", func(t *testing.T) {
		if err := runApp(runner, output, "setup", "database"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, filepath.Join(dir, "songsheet.db"))
	})

	migrationStatus := func(t *testing.T) []bool {
		t.Helper()
		output.Reset()
		if err := runApp(runner, output, "setup", "status", "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var rows []struct {
			Applied bool `json:"applied"`
		}
		if err := json.Unmarshal(output.Bytes(), &rows); err != nil {
			t.Fatalf("status is not JSON: %v", err)
		}
		applied := make([]bool, len(rows))
		for i, r := range rows {
			applied[i] = r.Applied
		}
		return applied
	}

	t.Run("status after setup", func(t *testing.T) {
		applied := migrationStatus(t)
		if len(applied) == 0 {
			t.Fatal("expected migrations to be listed")
		}
		for i, a := range applied {
			if !a {
				t.Errorf("migration %d not applied", i)
			}
		}
	})

	t.Run("rollback", func(t *testing.T) {
		if err := runApp(runner, output, "setup", "rollback"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		applied := migrationStatus(t)
		if applied[len(applied)-1] {
			t.Error("expected the latest migration to be rolled back")
		}
	})
}

func TestLocalLibrary(t *testing.T) {
	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "songsheet.db")

	run := func(args ...string) (string, error) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output, Logger: shared.NewLogger(io.Discard)})
		defer runner.Close()
		err := runApp(runner, output, args...)
		return output.String(), err
	}

	path := writeFile(t, dir, "song.yaml", `artist: Zoé Fontaine
title: Été Indien
tempo: "90"
chords:
  - chord: Am
    fingering: x02210
  - chord: ""
lyrics: |
  [Verse 1]
  La mer
`)

	if _, err := run("songs", "add", path); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := run("songs", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Zoé Fontaine") || !strings.Contains(out, "Été Indien") {
		t.Errorf("unexpected list %q", out)
	}

	out, err = run("songs", "show", "--format", "json", "1")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var details models.SongDetails
	if err := json.Unmarshal([]byte(out), &details); err != nil {
		t.Fatalf("show output is not JSON: %v", err)
	}
	if details.Tempo != "90 BPM" || len(details.Chords) != 1 || details.Chords[0].Chord != "Am" {
		t.Errorf("unexpected details %+v", details)
	}

	out, err = run("songs", "popular", "--json")
	if err != nil {
		t.Fatalf("popular failed: %v", err)
	}
	var popular []models.Partition
	if err := json.Unmarshal([]byte(out), &popular); err != nil {
		t.Fatalf("popular output is not JSON: %v", err)
	}
	if len(popular) != 1 || popular[0].Views != 1 {
		t.Errorf("expected the viewed song to be popular with 1 view, got %+v", popular)
	}
}
