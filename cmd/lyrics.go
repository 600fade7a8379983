package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/songsheet/internal/lyrics"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// LyricsParse prints the segments of a lyrics file as JSON.
func (r *Runner) LyricsParse(ctx context.Context, cmd *cli.Command) error {
	text, err := readLyrics(cmd)
	if err != nil {
		return err
	}

	segments := lyrics.Parse(text)
	if segments == nil {
		segments = []lyrics.Segment{}
	}
	return r.writeJSON(segments, cmd.Bool("pretty"))
}

// LyricsRender renders a lyrics file in text, Markdown or HTML.
func (r *Runner) LyricsRender(ctx context.Context, cmd *cli.Command) error {
	text, err := readLyrics(cmd)
	if err != nil {
		return err
	}

	renderer, err := lyrics.NewRenderer(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return renderer.Render(r.output, lyrics.Parse(text))
}

// LyricsImport downloads a lyrics page and prints or saves its sheet text.
func (r *Runner) LyricsImport(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	r.logger.Info("importing lyrics", "url", url)
	text, err := lyrics.FetchHTML(ctx, r.httpClient, url, cmd.String("selector"))
	if err != nil {
		return fmt.Errorf("failed to import lyrics: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		if err := os.WriteFile(output, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write lyrics: %w", err)
		}
		return r.writePlain("✓ Lyrics saved to %s (%d segments)\n", output, len(lyrics.Parse(text)))
	}
	return r.writePlain("%s\n", text)
}

func readLyrics(cmd *cli.Command) (string, error) {
	path := cmd.StringArg("file")
	if path == "" {
		return "", fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read lyrics: %w", err)
	}
	return string(data), nil
}
