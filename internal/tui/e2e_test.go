package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

// newE2EApp creates an App for end-to-end testing via teatest. Unlike
// newTestApp it is not pre-sized; teatest sends the WindowSizeMsg.
func newE2EApp(t *testing.T) (*App, *testKitchen) {
	t.Helper()
	tk := seedKitchen(t)
	return newAppFor(tk), tk
}

// waitFor waits until one frame contains every text. Output read by a wait
// is consumed, so everything expected on a screen is checked together.
func waitFor(t *testing.T, tm *teatest.TestModel, texts ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		for _, text := range texts {
			if !bytes.Contains(bts, []byte(text)) {
				return false
			}
		}
		return true
	}, teatest.WithDuration(5*time.Second))
}

// These launch the real Bubble Tea program in a headless terminal, send
// keystrokes, and assert on the rendered screen.

func TestE2E_DashboardOnStartup(t *testing.T) {
	app, _ := newE2EApp(t)
	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "KITCHEN OVERVIEW", "Home Kitchen")
}

func TestE2E_HelpScreenAndBack(t *testing.T) {
	app, _ := newE2EApp(t)
	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "KITCHEN OVERVIEW")

	tm.Send(tea.KeyMsg{Type: tea.KeyF1})
	waitFor(t, tm, "Use some of the selected item")

	tm.Send(tea.KeyMsg{Type: tea.KeyEscape})
	waitFor(t, tm, "KITCHEN OVERVIEW")
}

func TestE2E_UseTomatoes(t *testing.T) {
	app, tk := newE2EApp(t)
	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(120, 40))

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	waitFor(t, tm, "PANTRY INVENTORY", "Tomatoes")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	waitFor(t, tm, "USE TOMATOES")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitFor(t, tm, "CONFIRM USE")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	waitFor(t, tm, "Used 1 kg of Tomatoes")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	waitFor(t, tm, "CONFIRM EXIT")
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	m := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	if final, ok := m.(*App); !ok || !final.quitting {
		t.Fatal("expected a quitting *App final model")
	}
	if q := tk.db.BatchQuantity(t, tk.older.ID); q != "1" {
		t.Errorf("expected the sooner-expiring batch drawn down to 1, got %s", q)
	}
}

func TestE2E_QuitCancel(t *testing.T) {
	app, _ := newE2EApp(t)
	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "KITCHEN OVERVIEW")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	waitFor(t, tm, "CONFIRM EXIT")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	tm.Send(tea.KeyMsg{Type: tea.KeyF5})
	waitFor(t, tm, "Nothing has been used yet")
}
