package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/songsheet/internal/chords"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChordsLookup prints the catalog fingering of a chord with its diagram.
func (r *Runner) ChordsLookup(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	fingering := chords.Lookup(name)
	if fingering == "" {
		return fmt.Errorf("chord %q %w", name, shared.ErrNotFound)
	}

	if cmd.Bool("json") {
		return r.writeJSON(chords.Suggestion{Chord: name, Fingering: fingering}, true)
	}

	diagram, err := chords.Diagram(fingering)
	if err != nil {
		return err
	}
	r.writePlain("%s  %s\n\n", name, fingering)
	return r.writePlain("%s", diagram)
}

// ChordsSuggest prints the suggestion panel, marking chords passed with --in-use.
func (r *Runner) ChordsSuggest(ctx context.Context, cmd *cli.Command) error {
	var inUse []string
	for _, c := range strings.Split(cmd.String("in-use"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			inUse = append(inUse, c)
		}
	}

	suggestions := chords.Suggest(inUse)
	if cmd.Bool("json") {
		return r.writeJSON(suggestions, true)
	}

	for _, g := range suggestions.Groups {
		r.writePlain("%-3s", g.Root)
		for _, s := range g.Chords {
			r.writePlain(" %s", suggestionCell(s))
		}
		r.writePlain("\n")
	}
	r.writePlain("…  ")
	for _, s := range suggestions.Others {
		r.writePlain(" %s", suggestionCell(s))
	}
	return r.writePlain("\n")
}

// suggestionCell renders a chord, crossed out when already in use.
func suggestionCell(s chords.Suggestion) string {
	if s.Disabled {
		return "(" + s.Chord + ")"
	}
	return s.Chord
}
