package chords

// roots lists the twelve suggestion roots in chromatic order.
var roots = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// variants are the chord qualities suggested for every root.
var variants = []string{"", "m", "7", "sus2", "sus4", "maj7", "m7", "dim", "dim7", "aug", "add9"}

// others is the overflow suggestion group.
var others = []string{
	"C#", "D#", "F#", "G#", "A#",
	"Cm", "C#m", "Dm", "D#m", "Fm", "F#m", "Gm", "G#m", "Am", "A#m", "Bm",
}

// fingerings maps chord names to one character per string, low E first. 'x' mutes a string.
var fingerings = map[string]string{
	"A":  "x02220",
	"B":  "x24442",
	"C":  "x32010",
	"D":  "xx0232",
	"E":  "022100",
	"F":  "133211",
	"G":  "320003",
	"Ab": "466544",
	"Bb": "x13331",
	"C#": "x46664",
	"D#": "x68886",
	"F#": "244322",
	"G#": "466544",

	"Am":  "x02210",
	"Bm":  "x24432",
	"Cm":  "x35543",
	"Dm":  "xx0231",
	"Em":  "022000",
	"Fm":  "133111",
	"Gm":  "355333",
	"Abm": "466444",
	"Bbm": "x13321",
	"C#m": "x46654",
	"D#m": "x68876",
	"F#m": "244222",
	"G#m": "466444",

	"Amaj7":  "x02120",
	"Bmaj7":  "x24342",
	"Cmaj7":  "x32000",
	"Dmaj7":  "xx0222",
	"Emaj7":  "021100",
	"Fmaj7":  "1x3210",
	"Gmaj7":  "320002",
	"Abmaj7": "4x554x",
	"Bbmaj7": "x13231",
	"C#maj7": "x46564",
	"D#maj7": "x68786",
	"F#maj7": "2x4322",
	"G#maj7": "4x554x",

	"Am7":  "x02010",
	"Bm7":  "x20202",
	"Cm7":  "x35343",
	"Dm7":  "xx0211",
	"Em7":  "020000",
	"Fm7":  "131141",
	"Gm7":  "353333",
	"Abm7": "464444",
	"Bbm7": "x13121",
	"C#m7": "x46454",
	"D#m7": "x68676",
	"F#m7": "242222",
	"G#m7": "464444",

	"A7":  "x02020",
	"B7":  "x21202",
	"C7":  "x32310",
	"D7":  "xx0212",
	"E7":  "020100",
	"F7":  "131211",
	"G7":  "320001",
	"Ab7": "464544",
	"Bb7": "x13131",
	"C#7": "x46464",
	"D#7": "x68686",
	"F#7": "242322",
	"G#7": "464544",

	"Asus2":  "x02200",
	"Bsus2":  "x24422",
	"Csus2":  "x30010",
	"Dsus2":  "xx0230",
	"Esus2":  "024400",
	"Fsus2":  "133011",
	"Gsus2":  "300033",
	"Absus2": "466644",
	"Bbsus2": "x13311",
	"C#sus2": "x46644",
	"D#sus2": "x68866",
	"F#sus2": "244422",
	"G#sus2": "466644",

	"Asus4":  "x02230",
	"Bsus4":  "x24452",
	"Csus4":  "x33010",
	"Dsus4":  "xx0233",
	"Esus4":  "022200",
	"Fsus4":  "133311",
	"Gsus4":  "330013",
	"Absus4": "466644",
	"Bbsus4": "x13341",
	"C#sus4": "x46674",
	"D#sus4": "x68896",
	"F#sus4": "244422",
	"G#sus4": "466644",
}
