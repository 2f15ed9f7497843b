package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindRoomDesc lineKind = iota
	kindRoomName
	kindYouSee
	kindExits
	kindDialogue
	kindSystem
	kindError
	kindVictory
	kindTrace
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)
	styleInputPrompt = fg("34")
	stylePlayerInput = fg("34")
	styleItems       = lipgloss.NewStyle().Bold(true)

	// Torchlight palette: stone greys, candle yellow, dragon red.
	kindStyles = map[lineKind]lipgloss.Style{
		kindRoomDesc: fg("255"),
		kindRoomName: fg("117").Bold(true),
		kindYouSee:   fg("255"),
		kindExits:    fg("243"),
		kindDialogue: fg("228"),
		kindSystem:   fg("243"),
		kindError:    fg("196"),
		kindVictory:  fg("220").Bold(true),
		kindTrace:    fg("240"),
	}
)

// linePrefixes maps narration openings to their kind. Earlier entries win.
var linePrefixes = []struct {
	prefix string
	kind   lineKind
}{
	{"[trace]", kindTrace},
	{"***", kindVictory},
	{"You see:", kindYouSee},
	{"Exits:", kindExits},
	{"You don't see", kindError},
	{"You can't", kindError},
	{"You don't have", kindError},
	{"I don't understand", kindError},
	{"It's too dark", kindError},
}

// classifyLine determines what kind of output line this is. Room names are
// recognized by the model, which knows the world.
func classifyLine(line string) lineKind {
	for _, p := range linePrefixes {
		if strings.HasPrefix(line, p.prefix) {
			return p.kind
		}
	}
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		return kindSystem
	}
	if containsQuotedSpeech(line) {
		return kindDialogue
	}
	return kindRoomDesc
}

// containsQuotedSpeech reports whether line holds a single-quoted phrase
// longer than five characters. Apostrophes in words like "It's" do not count.
func containsQuotedSpeech(line string) bool {
	start := -1
	for i, r := range line {
		if r != '\'' {
			continue
		}
		if start >= 0 && i-start-1 > 5 {
			return true
		}
		if start >= 0 {
			start = -1
		} else {
			start = i
		}
	}
	return false
}

// render styles an already wrapped line.
func render(line string, kind lineKind) string {
	if kind == kindYouSee {
		const prefix = "You see: "
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return kindStyles[kindYouSee].Render(prefix) + styleItems.Render(rest)
		}
	}
	return kindStyles[kind].Render(line)
}
