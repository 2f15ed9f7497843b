package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rodaine/table"

	"github.com/nathoo/mysticcastle/engine/rules"
	"github.com/nathoo/mysticcastle/engine/save"
	"github.com/nathoo/mysticcastle/engine/state"
)

type metaCommand struct {
	name  string
	usage string
	run   func(c *CLI, arg string)
}

// metaCommands are listed in help order. /help and /quit are handled in
// handleMeta directly.
var metaCommands = []metaCommand{
	{"/save", "/save [name]  Save game (default: quicksave)", (*CLI).cmdSave},
	{"/load", "/load [name]  Load game (default: quicksave)", (*CLI).cmdLoad},
	{"/stats", "/stats        Show your progress", (*CLI).cmdStats},
	{"/state", "/state        Debug: dump current state", (*CLI).cmdState},
	{"/trace", "/trace        Toggle debug trace output", (*CLI).cmdTrace},
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
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/help":
		c.cmdHelp()
		return false
	}

	for _, mc := range metaCommands {
		if mc.name == name {
			mc.run(c, arg)
			return false
		}
	}
	c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", name))
	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = save.DefaultName
	}
	if _, err := save.WriteFile(c.SaveDir, name, c.Engine.State, c.Defs); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = save.DefaultName
	}
	sd, err := save.ReadFile(c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	if err := save.Validate(sd, c.Defs); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.ApplySave(c.Engine.State, sd)
	c.printSystem(fmt.Sprintf("Game loaded from %s (%d moves).", name, sd.Moves))
	c.printLines(c.Engine.Step("look").Output)
}

func (c *CLI) cmdHelp() {
	c.printLine("System:")
	for _, mc := range metaCommands {
		c.printLine("  " + mc.usage)
	}
	c.printLine("  /help         Show this help")
	c.printLine("  /quit         Exit game")
	c.printLine("")
	for _, line := range gameHelp {
		c.printLine(line)
	}
}

func (c *CLI) cmdState(string) {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Moves: %d", s.Moves))
	c.printSystem(fmt.Sprintf("Location: %s", s.CurrentRoom))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	c.printSystem(fmt.Sprintf("Lamp lit: %v", s.LampLit))
	if len(s.SecretsFound) > 0 {
		keys := make([]string, 0, len(s.SecretsFound))
		for k := range s.SecretsFound {
			keys = append(keys, state.SecretKeyString(k))
		}
		sort.Strings(keys)
		c.printSystem(fmt.Sprintf("Secrets: %v", keys))
	}
	if len(s.OpenedRooms) > 0 {
		c.printSystem(fmt.Sprintf("Opened: %v", s.OpenedRooms))
	}
	c.printSystem(fmt.Sprintf("Dragon: line %d, friendly %v", s.DragonDialogue, s.DragonFriendly))
}

func (c *CLI) cmdStats(string) {
	st := rules.Stats(c.Defs, c.Engine.State, c.Engine.Now())
	tbl := table.New("Stat", "Value").WithWriter(c.Out)
	tbl.AddRow("Moves", st.Moves)
	tbl.AddRow("Items carried", st.InventoryCount)
	tbl.AddRow("Secrets found", strconv.Itoa(st.SecretsFound)+"/"+strconv.Itoa(st.TotalSecrets))
	tbl.AddRow("Crown", yesNo(st.HasCrown))
	tbl.AddRow("Dragon friend", yesNo(st.DragonFriendly))
	tbl.AddRow("Won", yesNo(st.HasWon))
	tbl.AddRow("Minutes played", st.MinutesPlayed)
	tbl.Print()
}

func (c *CLI) cmdTrace(string) {
	c.Trace = !c.Trace
	if c.Trace {
		c.printSystem("Trace output enabled.")
	} else {
		c.printSystem("Trace output disabled.")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
