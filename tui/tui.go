package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/mysticcastle/engine"
	"github.com/nathoo/mysticcastle/engine/parser"
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// Model is the Bubble Tea model for the MysticCastle TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History

	out       transcript
	roomNames map[string]bool

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// turnMsg delivers a block of output to Update.
type turnMsg struct {
	input  string
	lines  []string
	system bool
}

// New creates a TUI model wired to the given engine. An empty saveDir
// selects ~/.mysticcastle/saves.
func New(eng *engine.Engine, defs *state.Defs, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "go north, take rusty key, help"
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if saveDir == "" {
		home, _ := os.UserHomeDir()
		saveDir = filepath.Join(home, ".mysticcastle", "saves")
	}

	names := make(map[string]bool, len(defs.Rooms))
	for _, r := range defs.Rooms {
		names[r.Name] = true
	}

	return Model{
		engine:    eng,
		defs:      defs,
		input:     ti,
		history:   NewHistory(100),
		roomNames: names,
		saveDir:   saveDir,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, saveDir string) error {
	p := tea.NewProgram(New(eng, defs, saveDir), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init shows the banner, the intro and the starting room.
func (m Model) Init() tea.Cmd {
	opening := func() tea.Msg {
		g := m.defs.Game
		lines := []string{fmt.Sprintf("%s v%s by %s", g.Title, g.Version, g.Author), ""}
		if g.Intro != "" {
			lines = append(lines, g.Intro, "")
		}
		return turnMsg{lines: append(lines, m.engine.Step("look").Output...)}
	}
	return tea.Batch(textinput.Blink, opening)
}

// Update handles key presses, resizes and turn output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case "down":
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case turnMsg:
		m = m.appendTurn(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize lays out the viewport above the status bar and input line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1)

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.refreshViewport()
}

// handleEnter runs the submitted line as a meta-command or a game command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	switch lower := strings.ToLower(input); {
	case lower == "again" || lower == "g":
		if m.lastCmd == "" {
			return m.appendTurn(turnMsg{input: input, lines: []string{"Nothing to repeat."}, system: true}), nil
		}
		input = m.lastCmd
	case !strings.HasPrefix(input, "/"):
		m.lastCmd = input
	}

	// The save and load verbs behave like their meta-commands.
	if cmd, ok := parser.Parse(input); ok && (cmd.Verb == "save" || cmd.Verb == "load") {
		input = strings.TrimSpace("/" + cmd.Verb + " " + cmd.Noun)
	}

	if strings.HasPrefix(input, "/") {
		lines, quit := m.handleMeta(input)
		m = m.appendTurn(turnMsg{input: input, lines: lines, system: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.engine.Step(input)
	lines := result.Output
	if m.trace {
		lines = append(lines, traceLines(result)...)
	}
	return m.appendTurn(turnMsg{input: input, lines: lines}), nil
}

// appendTurn records a turn in the transcript and scrolls to it.
func (m Model) appendTurn(msg turnMsg) Model {
	if msg.input != "" {
		m.out.addInput(msg.input)
	}
	if msg.system {
		m.out.addSystem(msg.lines)
	} else {
		m.out.addNarration(msg.lines, m.classify)
	}
	m.out.endTurn()
	m.refreshViewport()
	return m
}

func (m Model) classify(line string) lineKind {
	if m.roomNames[line] {
		return kindRoomName
	}
	return classifyLine(line)
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.out.render(max(m.width, 10)))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

func traceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// viewportKeyMap keeps paging keys but leaves Up/Down to command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
