package lyrics

import "strings"

// sectionLabels maps English section types to their display labels.
var sectionLabels = map[string]string{
	"Intro":        "Intro",
	"Verse":        "Couplet",
	"Pre-Chorus":   "Pré-Refrain",
	"Chorus":       "Refrain",
	"Post-Chorus":  "Post-Refrain",
	"Bridge":       "Bridge",
	"Interlude":    "Interlude",
	"Instrumental": "Instrumental",
	"Outro":        "Outro",
}

// Label translates the section type of key and keeps its number: "Verse 2" becomes "Couplet 2".
// Only the first word after the type is kept as the number. Unknown section types return key unchanged.
func Label(key string) string {
	parts := strings.Split(key, " ")
	label, ok := sectionLabels[parts[0]]
	if !ok {
		return key
	}
	if len(parts) > 1 && parts[1] != "" {
		return label + " " + parts[1]
	}
	return label
}
