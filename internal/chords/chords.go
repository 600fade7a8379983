// Package chords is the chord fingering catalog behind the chord suggestion panel.
//
// Lookups pre-fill a fingering when a chord is added from the suggestions; the catalog never validates stored entries.
package chords

import (
	"slices"
	"strings"
)

// Suggestion is one chord offered by the suggestion panel.
type Suggestion struct {
	Chord     string `json:"chord"`
	Fingering string `json:"fingering"`
	Disabled  bool   `json:"disabled"`
}

// Group is the suggestion group of one root note.
type Group struct {
	Root   string       `json:"root"`
	Chords []Suggestion `json:"chords"`
}

// Lookup returns the fingering of chord, or "" when the catalog does not know it.
func Lookup(chord string) string {
	return fingerings[chord]
}

// Roots returns the twelve suggestion roots.
func Roots() []string {
	return slices.Clone(roots)
}

// Variants returns the chord qualities suggested for each root; "" is the major triad.
func Variants() []string {
	return slices.Clone(variants)
}

// Groups returns one suggestion group per root with every variant.
func Groups() []Group {
	return Suggest(nil).Groups
}

// Others returns the overflow suggestion group.
func Others() []Suggestion {
	return Suggest(nil).Others
}

// Suggestions is the content of the suggestion panel.
type Suggestions struct {
	Groups []Group      `json:"groups"`
	Others []Suggestion `json:"others"`
}

// Suggest builds the suggestion panel, disabling chords whose exact name is already in use.
func Suggest(inUse []string) Suggestions {
	used := make(map[string]bool, len(inUse))
	for _, c := range inUse {
		used[strings.TrimSpace(c)] = true
	}

	suggest := func(chord string) Suggestion {
		return Suggestion{Chord: chord, Fingering: Lookup(chord), Disabled: used[chord]}
	}

	s := Suggestions{Groups: make([]Group, 0, len(roots))}
	for _, root := range roots {
		g := Group{Root: root, Chords: make([]Suggestion, 0, len(variants))}
		for _, v := range variants {
			g.Chords = append(g.Chords, suggest(root+v))
		}
		s.Groups = append(s.Groups, g)
	}

	for _, chord := range others {
		s.Others = append(s.Others, suggest(chord))
	}

	return s
}
