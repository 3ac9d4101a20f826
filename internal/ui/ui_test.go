package ui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dsablic/bb/internal/ui"
)

func TestPlainStatus(t *testing.T) {
	var messages []string
	p := ui.NewPlainStatus(func(msg string) {
		messages = append(messages, msg)
	})

	if err := p.Run("Cloning ws/repo", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0] != "Cloning ws/repo..." {
		t.Errorf("unexpected first message %q", messages[0])
	}
}

func TestPlainStatusError(t *testing.T) {
	var messages []string
	p := ui.NewPlainStatus(func(msg string) {
		messages = append(messages, msg)
	})

	want := errors.New("boom")
	if err := p.Run("Cloning", func() error { return want }); err != want {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("expected only the title message, got %v", messages)
	}
}

func TestSpinnerModelDone(t *testing.T) {
	m := ui.NewSpinnerModel("Cloning ws/repo")
	if !strings.Contains(m.View(), "Cloning ws/repo") {
		t.Errorf("expected title in view, got %q", m.View())
	}

	next, cmd := m.Update(ui.DoneMsg{})
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !strings.Contains(next.View(), "Done!") {
		t.Errorf("expected done view, got %q", next.View())
	}

	failed, _ := m.Update(ui.DoneMsg{Err: errors.New("boom")})
	if !strings.Contains(failed.View(), "Failed") {
		t.Errorf("expected failed view, got %q", failed.View())
	}
}

func TestSpinnerModelCtrlC(t *testing.T) {
	m := ui.NewSpinnerModel("x")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("expected quit command on ctrl+c")
	}
}

func TestIsTTY(t *testing.T) {
	// Result depends on the test runner; only check it does not panic.
	_ = ui.IsTTY()
	_ = ui.CanPrompt()
	if ui.Width() <= 0 {
		t.Error("expected positive width")
	}
}
