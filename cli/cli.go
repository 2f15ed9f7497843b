// Package cli provides the plain line-oriented front end: terminal I/O,
// narration wrapping, and meta-command dispatch.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/mysticcastle/engine"
	"github.com/nathoo/mysticcastle/engine/parser"
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Width     int // wrap narration at this column; 0 disables wrapping
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	lastCmd string
}

// New creates a CLI on stdin/stdout wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".mysticcastle", "saves"),
		Width:   80,
	}
}

// Run shows the intro and the starting room, then reads commands until
// input ends or the player quits.
func (c *CLI) Run() {
	if intro := c.Defs.Game.Intro; intro != "" {
		c.printLines([]string{intro, ""})
	}
	c.printLines(c.Engine.Step("look").Output)

	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		// Blank lines and script comments are ignored.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(line)
		}
		if c.handle(line) {
			return
		}
	}
}

// handle runs one input line. It reports whether the player quit.
func (c *CLI) handle(line string) bool {
	if strings.HasPrefix(line, "/") {
		return c.handleMeta(line)
	}

	switch lower := strings.ToLower(line); lower {
	case "again", "g":
		if c.lastCmd == "" {
			c.printLine("Nothing to repeat.")
			return false
		}
		line = c.lastCmd
	default:
		c.lastCmd = line
	}

	// The save and load verbs share the meta-command handlers.
	if cmd, ok := parser.Parse(line); ok && (cmd.Verb == "save" || cmd.Verb == "load") {
		return c.handleMeta(strings.TrimSpace("/" + cmd.Verb + " " + cmd.Noun))
	}

	result := c.Engine.Step(line)
	c.printLines(result.Output)
	if c.Trace {
		c.printTrace(result)
	}
	return false
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		if c.Width > 0 {
			line = wordwrap.String(line, c.Width)
		}
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
