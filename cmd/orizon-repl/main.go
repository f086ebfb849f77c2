// Command orizon-repl is the interactive pipeline stepper (SPEC_FULL.md
// §10): a bubbletea program that walks one demo program from
// internal/demoprograms through HIR, MIR, and the reference
// interpreter's result one stage at a time, letting a reader watch the
// same crate this repository's own tests compile.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orizon-lang/orizon/internal/demoprograms"
	"github.com/orizon-lang/orizon/internal/driver"
	"github.com/orizon-lang/orizon/internal/interp"
	"github.com/orizon-lang/orizon/internal/prettyprint"
)

type stage int

const (
	stageHIR stage = iota
	stageMIR
	stageRun
	stageCount
)

func (s stage) label() string {
	switch s {
	case stageHIR:
		return "HIR"
	case stageMIR:
		return "MIR (monomorphized)"
	case stageRun:
		return "interpreter"
	default:
		return "?"
	}
}

type model struct {
	scenarios []demoprograms.Scenario
	index     int
	current   stage

	hir string
	mir string
	run string
	err error

	width int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	stageStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func newModel() model {
	m := model{scenarios: demoprograms.All(), width: 80}
	m.recompute()

	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

// recompute runs the full pipeline for the current scenario and caches
// every stage's rendering, so switching stages with the arrow keys never
// re-invokes the driver.
func (m *model) recompute() {
	sc := m.scenarios[m.index]

	ctx := driver.New(sc.Name)

	mirProg, err := ctx.Compile(sc.Root)
	if err != nil {
		m.err = err
		m.hir, m.mir, m.run = "", "", ""

		return
	}

	m.err = nil

	mainSym := ctx.Lowering.Program.Symbols.Intern("main")
	if fnID, ok := ctx.Lowering.Program.FnByName[mainSym]; ok {
		m.hir = prettyprint.HIR(ctx.Lowering.Program, fnID)
	} else {
		m.hir = "(no main function)"
	}

	m.mir = prettyprint.MIR(mirProg)

	result, rerr := interp.New(mirProg).RunMain()
	if rerr != nil {
		m.run = fmt.Sprintf("error: %v", rerr)
	} else {
		m.run = fmt.Sprintf("main() = %d (expected %d)", result, sc.Expect)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			m.current = (m.current + 1) % stageCount
		case "left", "h", "p":
			m.current = (m.current - 1 + stageCount) % stageCount
		case "down", "j":
			m.index = (m.index + 1) % len(m.scenarios)
			m.current = stageHIR
			m.recompute()
		case "up", "k":
			m.index = (m.index - 1 + len(m.scenarios)) % len(m.scenarios)
			m.current = stageHIR
			m.recompute()
		}
	}

	return m, nil
}

func (m model) View() string {
	sc := m.scenarios[m.index]

	header := titleStyle.Render(fmt.Sprintf("%s — %s", sc.Name, sc.Description))
	stageLine := stageStyle.Render(fmt.Sprintf("[%d/%d] %s", m.current+1, stageCount, m.current.label()))
	help := helpStyle.Render("←/→ switch stage   ↑/↓ switch scenario   q quit")

	if m.err != nil {
		return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n", header, stageLine, errStyle.Render(m.err.Error()), help)
	}

	var body string

	switch m.current {
	case stageHIR:
		body = m.hir
	case stageMIR:
		body = m.mir
	case stageRun:
		body = m.run
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n", header, stageLine, body, help)
}

func main() {
	m := newModel()
	if len(os.Args) > 1 {
		for i, sc := range m.scenarios {
			if sc.Name == os.Args[1] {
				m.index = i
				m.recompute()
			}
		}
	}

	program := tea.NewProgram(m, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
