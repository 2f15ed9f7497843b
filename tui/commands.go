package tui

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rodaine/table"

	"github.com/nathoo/mysticcastle/engine/save"
	"github.com/nathoo/mysticcastle/engine/state"
)

// metaCommand is a slash command handled by the TUI itself.
type metaCommand struct {
	name  string
	usage string
	run   func(m *Model, arg string) []string
}

// metaCommands lists the slash commands in help order. /help and /quit are
// handled before the table is consulted.
var metaCommands = []metaCommand{
	{"/save", "/save [name]  Save game (default: quicksave)", (*Model).cmdSave},
	{"/load", "/load [name]  Load game (default: quicksave)", (*Model).cmdLoad},
	{"/stats", "/stats        Show your progress", (*Model).cmdStats},
	{"/copy", "/copy         Copy the transcript to the clipboard", (*Model).cmdCopy},
	{"/history", "/history      List the commands you typed", (*Model).cmdHistory},
	{"/state", "/state        Debug: dump current state", (*Model).cmdState},
	{"/trace", "/trace        Toggle debug trace output", (*Model).cmdTrace},
}

var gameHelp = []string{
	"Game commands:",
	"  look (l)              Describe the room",
	"  look <thing> (x)      Look closely at something, or search it",
	"  go <dir>              Move (or just type n/s/e/w/u/d/out)",
	"  take/get <item>       Pick something up",
	"  drop <item>           Put something down",
	"  use/open <thing>      Use an item, or open something",
	"  read <item>           Read something",
	"  talk                  Talk to whoever is here",
	"  offer <item>          Offer an item",
	"  inventory (i)         Check what you're carrying",
	"  again (g)             Repeat your last command",
	"",
	"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/help":
		return m.cmdHelp(), false
	}
	for _, mc := range metaCommands {
		if mc.name == name {
			return mc.run(m, arg), false
		}
	}
	return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", name)}, false
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = save.DefaultName
	}
	if _, err := save.WriteFile(m.saveDir, name, m.engine.State, m.defs); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = save.DefaultName
	}
	sd, err := save.ReadFile(m.saveDir, name)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	if err := save.Validate(sd, m.defs); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	save.ApplySave(m.engine.State, sd)

	output := []string{fmt.Sprintf("Game loaded from %s (%d moves).", name, sd.Moves)}
	return append(output, m.engine.Step("look").Output...)
}

func (m *Model) cmdHelp() []string {
	out := []string{"System:"}
	for _, mc := range metaCommands {
		out = append(out, "  "+mc.usage)
	}
	out = append(out, "  /help         Show this help", "  /quit         Exit game", "")
	return append(out, gameHelp...)
}

func (m *Model) cmdState(string) []string {
	s := m.engine.State
	output := []string{
		fmt.Sprintf("Moves: %d", s.Moves),
		fmt.Sprintf("Location: %s", s.CurrentRoom),
		fmt.Sprintf("Inventory: %v", s.Inventory),
		fmt.Sprintf("Lamp lit: %v", s.LampLit),
	}
	if len(s.SecretsFound) > 0 {
		keys := make([]string, 0, len(s.SecretsFound))
		for k := range s.SecretsFound {
			keys = append(keys, state.SecretKeyString(k))
		}
		sort.Strings(keys)
		output = append(output, fmt.Sprintf("Secrets: %v", keys))
	}
	if len(s.OpenedRooms) > 0 {
		output = append(output, fmt.Sprintf("Opened: %v", s.OpenedRooms))
	}
	return append(output, fmt.Sprintf("Dragon: line %d, friendly %v", s.DragonDialogue, s.DragonFriendly))
}

func (m *Model) cmdStats(string) []string {
	st := m.engine.Stats()

	var buf bytes.Buffer
	tbl := table.New("Stat", "Value").WithWriter(&buf)
	tbl.AddRow("Moves", st.Moves)
	tbl.AddRow("Items carried", st.InventoryCount)
	tbl.AddRow("Secrets found", strconv.Itoa(st.SecretsFound)+"/"+strconv.Itoa(st.TotalSecrets))
	tbl.AddRow("Crown", yesNo(st.HasCrown))
	tbl.AddRow("Dragon friend", yesNo(st.DragonFriendly))
	tbl.AddRow("Won", yesNo(st.HasWon))
	tbl.AddRow("Minutes played", st.MinutesPlayed)
	tbl.Print()

	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func (m *Model) cmdCopy(string) []string {
	if err := writeClipboard(m.out.plain()); err != nil {
		return []string{fmt.Sprintf("Copy failed: %v", err)}
	}
	return []string{fmt.Sprintf("Copied %d lines to the clipboard.", len(m.out.entries))}
}

func (m *Model) cmdHistory(string) []string {
	entries := m.history.Entries()
	if len(entries) == 0 {
		return []string{"No commands yet."}
	}
	return entries
}

func (m *Model) cmdTrace(string) []string {
	m.trace = !m.trace
	if m.trace {
		return []string{"Trace output enabled."}
	}
	return []string{"Trace output disabled."}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
