package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// entry is one unstyled line of the transcript. Lines are kept raw so they
// can be re-wrapped when the terminal is resized.
type entry struct {
	text   string
	kind   lineKind
	input  bool
	system bool
}

// transcript is everything shown in the viewport since the game started.
type transcript struct {
	entries []entry
}

func (t *transcript) addInput(input string) {
	t.entries = append(t.entries, entry{text: "> " + input, input: true})
}

func (t *transcript) addSystem(lines []string) {
	for _, l := range lines {
		t.entries = append(t.entries, entry{text: l, system: true})
	}
}

func (t *transcript) addNarration(lines []string, classify func(string) lineKind) {
	for _, l := range lines {
		t.entries = append(t.entries, entry{text: l, kind: classify(l)})
	}
}

// endTurn separates turns with a blank line.
func (t *transcript) endTurn() {
	t.entries = append(t.entries, entry{})
}

// render wraps and styles every line for a viewport of the given width.
func (t *transcript) render(width int) string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.text == "" {
			out = append(out, "")
			continue
		}
		switch {
		case e.input:
			out = append(out, stylePlayerInput.Render(wordwrap.String(e.text, width)))
		case e.system:
			out = append(out, kindStyles[kindSystem].Render(wordwrap.String("["+e.text+"]", width)))
		default:
			out = append(out, render(wordwrap.String(e.text, width), e.kind))
		}
	}
	return strings.Join(out, "\n")
}

// plain returns the transcript as unstyled text.
func (t *transcript) plain() string {
	var b strings.Builder
	for _, e := range t.entries {
		if e.system {
			b.WriteString("[" + e.text + "]")
		} else {
			b.WriteString(e.text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
