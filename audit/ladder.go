package audit

// Mode selects which threshold ladder classifies a score.
type Mode string

const (
	// ModeExecute grades delivery work; the stricter ladder.
	ModeExecute Mode = "execute"
	// ModeExplore grades exploratory work, where low yield is expected.
	ModeExplore Mode = "explore"
)

// validModes maps accepted mode strings.
var validModes = map[Mode]bool{
	ModeExecute: true,
	ModeExplore: true,
}

// IsValidMode reports whether name is a recognized mode.
func IsValidMode(name string) bool {
	return validModes[Mode(name)]
}

// ParseMode converts name to a Mode. Anything unrecognized, including the empty
// string, is treated as ModeExecute.
func ParseMode(name string) Mode {
	if IsValidMode(name) {
		return Mode(name)
	}
	return ModeExecute
}

// Band is one step of a threshold ladder: scores strictly below Upper get Label.
type Band struct {
	Upper float64
	Label string
}

// Ladder is an ordered list of bands evaluated in ascending order of Upper.
// The first band whose Upper exceeds the score wins; Fallback applies when none does.
type Ladder struct {
	Bands    []Band
	Fallback string
}

// Classify returns the label of the first band containing score.
func (l Ladder) Classify(score float64) string {
	for _, b := range l.Bands {
		if score < b.Upper {
			return b.Label
		}
	}
	return l.Fallback
}

// Severity ranks label within the ladder: 0 is the worst band, len(Bands) is the
// fallback. Unknown labels return -1.
func (l Ladder) Severity(label string) int {
	for i, b := range l.Bands {
		if b.Label == label {
			return i
		}
	}
	if label == l.Fallback {
		return len(l.Bands)
	}
	return -1
}

var (
	executeLadder = Ladder{
		Bands: []Band{
			{Upper: 0.05, Label: "breakdown"},
			{Upper: 0.15, Label: "inefficient"},
			{Upper: 0.30, Label: "acceptable"},
		},
		Fallback: "efficient",
	}
	exploreLadder = Ladder{
		Bands: []Band{
			{Upper: 0.05, Label: "very-low-yield"},
			{Upper: 0.15, Label: "normal-for-exploration"},
		},
		Fallback: "strong-yield",
	}
)

// LadderFor returns the threshold ladder for mode. Unknown modes use the execute ladder.
func LadderFor(mode Mode) Ladder {
	if mode == ModeExplore {
		return exploreLadder
	}
	return executeLadder
}

// Classify maps a composite score to a descriptive flag using the ladder for mode.
func Classify(score float64, mode Mode) string {
	return LadderFor(mode).Classify(score)
}
