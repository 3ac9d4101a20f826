// Package ui provides terminal helpers: a spinner for slow operations,
// interactive prompts, and TTY detection.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// --- Plain text fallback ---

// PlainStatus prints status messages to a callback function.
// Used when stderr is not a TTY (e.g., piped output).
type PlainStatus struct {
	print func(string)
}

// NewPlainStatus creates a new PlainStatus with the given print callback.
func NewPlainStatus(print func(string)) *PlainStatus {
	return &PlainStatus{print: print}
}

// Run prints title, runs fn and reports the outcome.
func (p *PlainStatus) Run(title string, fn func() error) error {
	p.print(title + "...")
	if err := fn(); err != nil {
		return err
	}
	p.print("Done.")
	return nil
}

// --- TUI spinner ---

// DoneMsg is sent to the bubbletea program when the work finishes.
type DoneMsg struct {
	Err error
}

type model struct {
	spinner spinner.Model
	title   string
	done    bool
	err     error
}

// NewSpinnerModel creates a new bubbletea model showing title next to a
// spinner until a DoneMsg arrives.
func NewSpinnerModel(title string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return model{spinner: s, title: title}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("  %s\n", errStyle.Render("Failed: "+m.title))
		}
		return fmt.Sprintf("  %s\n", titleStyle.Render("Done! "+m.title))
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), infoStyle.Render(m.title))
}

// RunWithSpinner runs fn while showing a spinner on stderr. When stderr
// is not a terminal it falls back to plain status lines.
func RunWithSpinner(title string, fn func() error) error {
	if !IsTTY() {
		return NewPlainStatus(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		}).Run(title, fn)
	}

	p := tea.NewProgram(NewSpinnerModel(title), tea.WithOutput(os.Stderr))
	errc := make(chan error, 1)
	go func() {
		err := fn()
		errc <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	return <-errc
}
