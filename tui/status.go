package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/mysticcastle/engine/rules"
)

var titleCaser = cases.Title(language.English)

// itemDisplayName title-cases an item name for the status bar.
// "brass lamp" -> "Brass Lamp", "crown of whispers" -> "Crown Of Whispers".
func itemDisplayName(name string) string {
	return titleCaser.String(name)
}

// renderStatusBar produces a full-width inverted status line showing
// current room, exits, inventory, and move count.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	roomName := s.CurrentRoom
	if room, ok := m.defs.Room(s.CurrentRoom); ok {
		roomName = room.Name
	}

	exitStr := strings.Join(rules.VisibleExits(m.defs, s, s.CurrentRoom), ",")
	if !rules.CanSee(m.defs, s, s.CurrentRoom) {
		exitStr = "?"
	}

	left := fmt.Sprintf(" %s | Exits: %s", roomName, exitStr)
	right := fmt.Sprintf("M:%d ", s.Moves)
	if s.GameWon {
		right = fmt.Sprintf("WON | M:%d ", s.Moves)
	}

	// Show inventory items if they fit, otherwise just count.
	if n := len(s.Inventory); n > 0 {
		names := make([]string, 0, n)
		for _, name := range s.Inventory {
			names = append(names, itemDisplayName(name))
		}
		candidate := fmt.Sprintf("Inv: %s | %s", strings.Join(names, ", "), right)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | %s", n, right)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
