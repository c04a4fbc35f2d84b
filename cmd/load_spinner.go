package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loadFunc loads something countable, such as records, and reports how many
// items it found.
type loadFunc func(ctx context.Context) (int, error)

type loadDoneMsg struct {
	count int
	err   error
}

// recordLoader spins while records are read and leaves a one-line summary
// of how many were found.
type recordLoader struct {
	spinner spinner.Model
	noun    string
	load    tea.Cmd
	count   int
	err     error
	done    bool
	summary lipgloss.Style
}

func newRecordLoader(noun string, load tea.Cmd) recordLoader {
	return recordLoader{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
		),
		noun:    noun,
		load:    load,
		summary: lipgloss.NewStyle().Faint(true),
	}
}

func (m recordLoader) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m recordLoader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.done = true
		m.count = msg.count
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m recordLoader) View() string {
	switch {
	case !m.done:
		return fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.noun)
	case m.err != nil:
		return ""
	default:
		return m.summary.Render(fmt.Sprintf("Loaded %d %s.", m.count, m.noun)) + "\n"
	}
}

// runRecordLoader shows a spinner on output while load runs and returns the
// loader's error.
func runRecordLoader(ctx context.Context, output io.Writer, noun string, load loadFunc) error {
	loadCmd := func() tea.Msg {
		count, err := load(ctx)
		return loadDoneMsg{count: count, err: err}
	}

	p := tea.NewProgram(
		newRecordLoader(noun, loadCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}

	loader, ok := final.(recordLoader)
	if !ok {
		return fmt.Errorf("unexpected final loader model type %T", final)
	}
	return loader.err
}
