package chords

import (
	"fmt"
	"strings"
)

const stringNames = "EADGBe"

// Diagram draws a fingering as a small fretboard, one column per string from low E to high e.
//
// Muted strings are marked x and open strings o above the nut. Frets are shown relative to the lowest
// fretted note when the shape sits above the fifth fret.
func Diagram(fingering string) (string, error) {
	if len(fingering) != 6 {
		return "", fmt.Errorf("fingering %q must have 6 characters", fingering)
	}

	frets := make([]int, 6)
	lowest, highest := 0, 0
	for i, r := range strings.ToLower(fingering) {
		switch {
		case r == 'x':
			frets[i] = -1
		case r >= '0' && r <= '9':
			f := int(r - '0')
			frets[i] = f
			if f > 0 && (lowest == 0 || f < lowest) {
				lowest = f
			}
			if f > highest {
				highest = f
			}
		default:
			return "", fmt.Errorf("fingering %q has invalid character %q", fingering, r)
		}
	}

	base := 1
	if highest > 5 {
		base = lowest
	}
	rows := max(highest-base+1, 4)

	var b strings.Builder
	b.WriteString(stringNames + "\n")
	for _, f := range frets {
		switch f {
		case -1:
			b.WriteByte('x')
		case 0:
			b.WriteByte('o')
		default:
			b.WriteByte(' ')
		}
	}
	b.WriteByte('\n')

	if base == 1 {
		b.WriteString("======\n")
	} else {
		fmt.Fprintf(&b, "------ %dfr\n", base)
	}

	for row := 0; row < rows; row++ {
		fret := base + row
		for _, f := range frets {
			if f == fret {
				b.WriteByte('O')
			} else {
				b.WriteByte('|')
			}
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}
