package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/services/consumption"
)

func TestApp_InitialState(t *testing.T) {
	app, _ := newTestApp(t)

	if app.currentModule != ModuleDashboard {
		t.Errorf("expected initial module Dashboard, got %s", app.currentModule)
	}
	if app.quitting || app.showConfirm || app.showDetail {
		t.Error("expected no modal state initially")
	}
	if app.useForm != nil {
		t.Error("expected no use form initially")
	}
	if app.userID != "cli" {
		t.Errorf("expected default user cli, got %q", app.userID)
	}
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := newTestApp(t)
	app.ready = false

	if !strings.Contains(app.View(), "Initializing") {
		t.Error("expected initialization message when not ready")
	}
}

func TestApp_View_Quitting(t *testing.T) {
	app, _ := newTestApp(t)
	app.quitting = true

	if !strings.Contains(app.View(), "shutting down") {
		t.Error("expected shutdown message when quitting")
	}
}

func TestApp_Dashboard(t *testing.T) {
	app, _ := newTestApp(t)

	if !strings.Contains(app.View(), "Loading...") {
		t.Error("expected loading state before stats arrive")
	}

	run(t, app, app.loadStats())

	output := app.View()
	for _, want := range []string{"KITCHEN OVERVIEW", "Home Kitchen", "Items:          2", "Active batches: 2", "Use within 3 days"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in dashboard output", want)
		}
	}
	if app.stats.ExpiringSoon != 1 {
		t.Errorf("expected 1 batch expiring soon, got %d", app.stats.ExpiringSoon)
	}
}

func TestApp_Dashboard_UnknownKitchen(t *testing.T) {
	app, _ := newTestApp(t)
	app.kitchenID = "missing"

	run(t, app, app.loadStats())

	if len(app.alerts) == 0 || !strings.Contains(app.alerts[0].Message, "Failed to load kitchen") {
		t.Errorf("expected load alert, got %v", app.alerts)
	}
}

func TestApp_ModuleNavigation_FKeys(t *testing.T) {
	tests := []struct {
		key      tea.KeyType
		expected Module
		contains string
	}{
		{tea.KeyF3, ModulePantry, "PANTRY INVENTORY"},
		{tea.KeyF4, ModuleExpiring, "USE SOON"},
		{tea.KeyF5, ModuleHistory, "USAGE HISTORY"},
		{tea.KeyF2, ModuleDashboard, "KITCHEN OVERVIEW"},
		{tea.KeyF1, ModuleHelp, "HELP"},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			app, _ := newTestApp(t)
			press(t, app, specialKeyMsg(tt.key))

			if app.currentModule != tt.expected {
				t.Errorf("expected module %s, got %s", tt.expected, app.currentModule)
			}
			if !strings.Contains(app.View(), tt.contains) {
				t.Errorf("expected %q in %s output", tt.contains, tt.expected)
			}
		})
	}
}

func TestApp_HelpAndBack(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, specialKeyMsg(tea.KeyF4))
	press(t, app, keyMsg("?"))

	if app.currentModule != ModuleHelp {
		t.Fatalf("expected Help, got %s", app.currentModule)
	}
	if app.previousModule != ModuleExpiring {
		t.Errorf("expected previous module expiring, got %s", app.previousModule)
	}

	press(t, app, specialKeyMsg(tea.KeyEscape))
	if app.currentModule != ModuleExpiring {
		t.Errorf("expected to return to expiring, got %s", app.currentModule)
	}
}

func TestApp_QuitConfirmation(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(keyMsg("q"))
	if !app.showConfirm {
		t.Fatal("expected quit confirmation to show")
	}
	if !strings.Contains(app.View(), "CONFIRM EXIT") {
		t.Error("expected confirm dialog in output")
	}

	app.Update(keyMsg("x"))
	if !app.showConfirm {
		t.Error("expected confirmation to stay open on unrelated key")
	}

	app.Update(specialKeyMsg(tea.KeyEscape))
	if app.showConfirm {
		t.Error("expected Esc to dismiss confirmation")
	}

	app.Update(specialKeyMsg(tea.KeyF10))
	_, cmd := app.Update(keyMsg("y"))
	if !app.quitting {
		t.Error("expected app to be quitting after confirm")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestApp_WindowResize(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if app.width != 80 || app.height != 24 {
		t.Errorf("expected 80x24, got %dx%d", app.width, app.height)
	}
}

func TestApp_PantryList(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, specialKeyMsg(tea.KeyF3))

	output := app.View()
	for _, want := range []string{"Tomatoes", "Whole Milk", "in 2 days"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in pantry output", want)
		}
	}

	press(t, app, keyMsg("j"))
	if item := app.inventoryView.SelectedItem(); item == nil || item.Name != "Whole Milk" {
		t.Errorf("expected milk selected, got %v", item)
	}
	press(t, app, keyMsg("k"))

	// Paging past the end leaves an empty page without failing.
	press(t, app, specialKeyMsg(tea.KeyPgDown))
	press(t, app, specialKeyMsg(tea.KeyPgUp))
	if len(app.alerts) != 0 {
		t.Errorf("expected no alerts, got %v", app.alerts)
	}
}

func TestApp_PantryDetail(t *testing.T) {
	app, tk := newTestApp(t)
	press(t, app, specialKeyMsg(tea.KeyF3))
	press(t, app, specialKeyMsg(tea.KeyEnter))

	if !app.showDetail || app.detail == nil {
		t.Fatal("expected batch detail")
	}
	if got := app.detail.Batches[0].ID; got != tk.older.ID {
		t.Errorf("expected the sooner-expiring batch first, got %s", got)
	}

	output := app.View()
	if !strings.Contains(output, "TOMATOES") || !strings.Contains(output, "used in this order") {
		t.Error("expected batch detail in output")
	}

	press(t, app, specialKeyMsg(tea.KeyEscape))
	if app.showDetail {
		t.Error("expected detail hidden after Esc")
	}
}

// openUse navigates to the pantry and opens the use form on the first item.
func openUse(t *testing.T, app *App) {
	t.Helper()
	press(t, app, specialKeyMsg(tea.KeyF3))
	press(t, app, keyMsg("c"))
	if app.useForm == nil {
		t.Fatal("expected use form")
	}
}

// submitUse fills in the use form and submits it.
func submitUse(t *testing.T, app *App, qty, unit string) {
	t.Helper()
	typeText(t, app, qty)
	press(t, app, specialKeyMsg(tea.KeyEnter))
	typeText(t, app, unit)
	press(t, app, specialKeyMsg(tea.KeyEnter))
	press(t, app, specialKeyMsg(tea.KeyEnter))
}

func TestApp_UseFlow(t *testing.T) {
	app, tk := newTestApp(t)
	openUse(t, app)

	if !strings.Contains(app.View(), "USE TOMATOES") {
		t.Error("expected form title")
	}

	submitUse(t, app, "3", "")

	if app.preview == nil {
		t.Fatalf("expected a preview, form error: %q", app.useForm.Render())
	}
	output := app.View()
	if !strings.Contains(output, "CONFIRM USE") || !strings.Contains(output, "take 2") {
		t.Errorf("expected preview allocations in output:\n%s", output)
	}
	// Previewing leaves stock untouched.
	if q := tk.db.BatchQuantity(t, tk.older.ID); q != "2" {
		t.Errorf("expected preview to leave the batch at 2, got %s", q)
	}

	press(t, app, keyMsg("y"))

	if app.useForm != nil {
		t.Error("expected form closed after use")
	}
	if q := tk.db.BatchQuantity(t, tk.older.ID); q != "0" {
		t.Errorf("expected older batch drained, got %s", q)
	}
	if q := tk.db.BatchQuantity(t, tk.newer.ID); q != "2" {
		t.Errorf("expected newer batch at 2, got %s", q)
	}
	if len(app.alerts) == 0 || app.alerts[0].Message != "Used 3 kg of Tomatoes from 2 batch(es)" {
		t.Errorf("expected use alert, got %v", app.alerts)
	}
	tk.db.AssertRowCount(t, "usage_logs", 2)

	press(t, app, specialKeyMsg(tea.KeyF5))
	if !strings.Contains(app.View(), "used directly") {
		t.Error("expected the use in history")
	}
}

func TestApp_UseFlow_ConvertsUnits(t *testing.T) {
	app, tk := newTestApp(t)
	openUse(t, app)
	submitUse(t, app, "500", "g")

	if app.preview == nil {
		t.Fatal("expected a preview")
	}
	if got := app.preview.Items[0].Requested; !got.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("expected 0.5 kg requested, got %s", got)
	}

	press(t, app, specialKeyMsg(tea.KeyEnter))
	if q := tk.db.BatchQuantity(t, tk.older.ID); q != "1.5" {
		t.Errorf("expected older batch at 1.5, got %s", q)
	}
}

func TestApp_UseFlow_Insufficient(t *testing.T) {
	app, tk := newTestApp(t)
	openUse(t, app)
	submitUse(t, app, "10", "")

	if app.preview != nil {
		t.Fatal("expected no preview for a shortage")
	}
	if !strings.Contains(app.View(), "Not enough Tomatoes: need 10, have 5") {
		t.Error("expected shortage error in form")
	}
	if q := tk.db.BatchQuantity(t, tk.older.ID); q != "2" {
		t.Errorf("expected stock untouched, got %s", q)
	}

	// The form can be corrected and resubmitted.
	press(t, app, specialKeyMsg(tea.KeyBackspace))
	press(t, app, specialKeyMsg(tea.KeyBackspace))
	submitUse(t, app, "1", "")
	if app.preview == nil {
		t.Error("expected a preview after correcting the quantity")
	}
}

func TestApp_UseFlow_InvalidInput(t *testing.T) {
	app, _ := newTestApp(t)
	openUse(t, app)

	submitUse(t, app, "lots", "")
	if !strings.Contains(app.View(), "quantity must be a number") {
		t.Error("expected number error")
	}
	if app.pending != nil {
		t.Error("expected no pending request")
	}
}

func TestApp_UseFlow_UnknownUnit(t *testing.T) {
	app, _ := newTestApp(t)
	openUse(t, app)
	submitUse(t, app, "2", "cups")

	if app.preview != nil {
		t.Fatal("expected no preview for an incompatible unit")
	}
	if app.useForm == nil || app.useForm.IsSubmitted() {
		t.Error("expected the form reopened with an error")
	}
}

func TestApp_UseFlow_Cancel(t *testing.T) {
	app, tk := newTestApp(t)
	openUse(t, app)
	submitUse(t, app, "1", "")

	// n returns to the form, Esc leaves it.
	press(t, app, keyMsg("n"))
	if app.preview != nil || app.useForm == nil {
		t.Fatal("expected to be back at the form")
	}
	press(t, app, specialKeyMsg(tea.KeyEscape))
	if app.useForm != nil {
		t.Error("expected form closed")
	}
	tk.db.AssertRowCount(t, "usage_logs", 0)
}

func TestApp_UseFromDetail(t *testing.T) {
	app, tk := newTestApp(t)
	press(t, app, specialKeyMsg(tea.KeyF3))
	press(t, app, keyMsg("j"))
	press(t, app, specialKeyMsg(tea.KeyEnter))
	press(t, app, keyMsg("u"))

	if app.useItem == nil || app.useItem.ID != tk.milk.ID {
		t.Fatalf("expected the detail item, got %v", app.useItem)
	}
}

func TestApp_Expiring(t *testing.T) {
	app, tk := newTestApp(t)
	press(t, app, specialKeyMsg(tea.KeyF4))

	if b := app.expiringView.SelectedBatch(); b == nil || b.ID != tk.older.ID {
		t.Fatalf("expected only the soon-expiring batch, got %v", b)
	}
	press(t, app, keyMsg("j"))
	if b := app.expiringView.SelectedBatch(); b.ID != tk.older.ID {
		t.Error("expected a single expiring batch")
	}
}

func TestApp_AlertManagement(t *testing.T) {
	app, _ := newTestApp(t)

	app.AddAlert(AlertInfo, "Test info")
	app.AddAlert(AlertWarning, "Test warning")
	app.AddAlert(AlertCritical, "Test critical")

	if app.alerts[0].Message != "Test critical" {
		t.Errorf("expected newest alert first, got %q", app.alerts[0].Message)
	}
	if !strings.Contains(app.View(), "ERROR: Test critical") {
		t.Error("expected critical alert in view output")
	}

	for i := 0; i < 15; i++ {
		app.AddAlert(AlertInfo, fmt.Sprintf("Alert %d", i))
	}
	if len(app.alerts) != 10 {
		t.Errorf("expected max 10 alerts, got %d", len(app.alerts))
	}

	app.ClearAlerts()
	if !strings.Contains(app.renderAlertBar(), "Pantry in order") {
		t.Error("expected idle message with no alerts")
	}
}

func TestApp_AlertRotation(t *testing.T) {
	app, _ := newTestApp(t)
	app.AddAlert(AlertInfo, "First")
	app.AddAlert(AlertInfo, "Second")

	for i := 0; i < 3; i++ {
		_, cmd := app.Update(tickMsg(time.Now()))
		if cmd == nil {
			t.Fatal("expected tick to schedule the next tick")
		}
	}

	if app.alertIndex != 1 {
		t.Errorf("expected alert to rotate after 3 ticks, got index %d", app.alertIndex)
	}
}

func TestApp_ResponsiveHeader(t *testing.T) {
	app, _ := newTestApp(t)

	app.width = 50
	if !strings.Contains(app.renderHeader(), "PANTRY") || strings.Contains(app.renderHeader(), "PANTRYMIND") {
		t.Error("expected compact header on narrow terminal")
	}

	app.width = 120
	if !strings.Contains(app.renderHeader(), "PANTRYMIND") {
		t.Error("expected full header on wide terminal")
	}
}

func TestDescribeError(t *testing.T) {
	short := &consumption.InsufficientStockError{
		ItemName:  "Butter",
		Requested: decimal.NewFromInt(300),
		Available: decimal.NewFromInt(250),
	}
	if got := describeError(fmt.Errorf("planning: %w", short)); got != "Not enough Butter: need 300, have 250" {
		t.Errorf("unexpected message %q", got)
	}
	if got := describeError(errors.New("boom")); got != "boom" {
		t.Errorf("unexpected message %q", got)
	}
}
