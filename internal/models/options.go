package models

// FormOptions lists the choices offered by the add/edit form.
type FormOptions struct {
	Tunings        []string `json:"tunings"`
	Keys           []string `json:"keys"`
	CapoOptions    []string `json:"capo_options"`
	TimeSignatures []string `json:"time_signatures"`
	Difficulties   []string `json:"difficulties"`
}

var (
	tunings = []string{
		"E | A | D | G | B | E", "D | A | D | G | B | E", "Eb | Ab | Db | Gb | Bb | Eb",
		"D | G | C | F | A | D", "D | A | D | G | A | D", "D | A | D | F# | A | D",
		"E | B | E | G# | B | E", "D | G | D | G | B | D", "E | A | E | A | C# | E",
		"C | G | C | G | C | E", "D | A | D | F | A | D", "D | A | D | G | B | D",
		"C | G | C | F | A | D", "B | F# | B | E | G# | C#", "A | E | A | D | F# | B",
		"E | A | D | G | C | F", "C | A | C | G | C | E", "C | F | C | F | A | C",
		"E | G# | C | E | G# | C", "G | C | G | D | B | D",
	}
	keys = []string{
		"C", "Cm", "C# / Db", "C#m / Dbm", "D", "Dm", "D# / Eb", "D#m / Ebm",
		"E", "Em", "F", "Fm", "F# / Gb", "F#m / Gbm", "G", "Gm", "G# / Ab",
		"G#m / Abm", "A", "Am", "A# / Bb", "A#m / Bbm", "B / Cb", "Bm / Cbm",
	}
	capoOptions    = []string{"Aucun", "1er", "2e", "3e", "4e", "5e", "6e", "7e", "8e", "9e", "10e", "11e", "12e"}
	timeSignatures = []string{"4 / 4", "3 / 4", "2 / 4", "6 / 8", "12 / 8", "2 / 2", "3 / 8", "9 / 8", "5 / 4", "7 / 8"}
	difficulties   = []string{"Débutant", "Intermédiaire", "Expert"}
)

// Options returns copies of the form choice lists.
func Options() FormOptions {
	return FormOptions{
		Tunings:        append([]string(nil), tunings...),
		Keys:           append([]string(nil), keys...),
		CapoOptions:    append([]string(nil), capoOptions...),
		TimeSignatures: append([]string(nil), timeSignatures...),
		Difficulties:   append([]string(nil), difficulties...),
	}
}
