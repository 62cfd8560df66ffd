package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/services/consumption"
	"github.com/pantrymind/pantrymind/internal/services/pantry"
	"github.com/pantrymind/pantrymind/internal/testutil"
	"github.com/pantrymind/pantrymind/internal/util"
)

// testKitchen is the stock every TUI test starts from.
type testKitchen struct {
	db       *testutil.TestDB
	kitchen  *models.Kitchen
	tomatoes *models.InventoryItem
	milk     *models.InventoryItem
	older    *models.InventoryBatch // tomatoes, expires first
	newer    *models.InventoryBatch
}

func seedKitchen(t *testing.T) *testKitchen {
	t.Helper()

	db := testutil.NewTestDB(t)
	s := testutil.NewSeeder(t, db)

	k := s.Kitchen(testutil.FixtureKitchen(func(k *models.Kitchen) { k.Name = "Home Kitchen" }))
	tomatoes := s.Item(testutil.FixtureItem(k.ID, "Tomatoes", "kg"))
	milk := s.Item(testutil.FixtureItem(k.ID, "Whole Milk", "ml"))

	return &testKitchen{
		db:       db,
		kitchen:  k,
		tomatoes: tomatoes,
		milk:     milk,
		older:    s.Batch(testutil.FixtureBatch(tomatoes.ID, "2", testutil.ExpiringIn(2), testutil.AddedAgo(72*time.Hour))),
		newer:    s.Batch(testutil.FixtureBatch(tomatoes.ID, "3", testutil.ExpiringIn(10), testutil.AddedAgo(24*time.Hour))),
	}
}

// newTestApp creates an App over a seeded in-memory database, sized to
// 120x40 and marked ready.
func newTestApp(t *testing.T) (*App, *testKitchen) {
	t.Helper()

	tk := seedKitchen(t)
	app := newAppFor(tk)

	app.width = 120
	app.height = 40
	app.ready = true
	app.updateViewDimensions()

	return app, tk
}

func newAppFor(tk *testKitchen) *App {
	cfg := config.Default()
	clock := util.NewFixedClock(time.Now().UTC())

	svc := pantry.NewService(tk.db.DB.DB, clock)
	engine := consumption.NewCoordinator(consumption.NewDBStore(tk.db.DB), consumption.Options{Clock: clock})

	return New(svc, engine, cfg, clock, tk.kitchen.ID)
}

// run executes cmd and feeds the resulting messages back into the app
// until nothing is left to do.
func run(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			run(t, app, c)
		}
	default:
		_, next := app.Update(msg)
		run(t, app, next)
	}
}

// press sends a key to the app and runs whatever it triggers.
func press(t *testing.T, app *App, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := app.Update(msg)
	run(t, app, cmd)
}

// typeText presses one key per character.
func typeText(t *testing.T, app *App, s string) {
	t.Helper()
	for _, r := range s {
		press(t, app, keyMsg(string(r)))
	}
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}
