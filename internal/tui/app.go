package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/config"
	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/services/consumption"
	"github.com/pantrymind/pantrymind/internal/services/pantry"
	"github.com/pantrymind/pantrymind/internal/tui/components"
	pantryviews "github.com/pantrymind/pantrymind/internal/tui/views/pantry"
	"github.com/pantrymind/pantrymind/internal/util"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 120

// chromeLines is the height taken by header, alert bar and footer.
const chromeLines = 6

// Module represents a view module in the application.
type Module string

const (
	ModuleDashboard Module = "dashboard"
	ModulePantry    Module = "pantry"
	ModuleExpiring  Module = "expiring"
	ModuleHistory   Module = "history"
	ModuleHelp      Module = "help"
)

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	pantry    *pantry.Service
	engine    *consumption.Coordinator
	config    *config.Config
	clock     util.Clock
	kitchenID string
	userID    string

	// Views
	inventoryView *pantryviews.InventoryView
	expiringView  *pantryviews.ExpiringView
	historyView   *pantryviews.HistoryView

	// UI state
	theme       *Theme
	keys        KeyMap
	width       int
	height      int
	ready       bool
	quitting    bool
	showConfirm bool

	// Current view
	currentModule  Module
	previousModule Module
	showDetail     bool
	detail         *models.ConsumptionInfo

	// Use-stock flow: the form collects a quantity, preview holds the
	// planned draw-down awaiting confirmation.
	useForm *components.Form
	useItem *models.InventoryItem
	pending *consumption.ManualRequest
	preview *consumption.Result

	// Dashboard
	kitchenName string
	stats       *pantry.Stats

	// Alerts
	alerts     []Alert
	alertIndex int
	ticks      int
}

// Alert is a transient status message.
type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

// AlertLevel indicates the severity of an alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

// tickMsg is sent periodically to update the UI.
type tickMsg time.Time

type statsLoadedMsg struct {
	kitchen *models.Kitchen
	stats   *pantry.Stats
	err     error
}

type inventoryLoadedMsg struct {
	err error
}

type expiringLoadedMsg struct {
	err error
}

type historyLoadedMsg struct {
	err error
}

type detailLoadedMsg struct {
	info *models.ConsumptionInfo
	err  error
}

type previewMsg struct {
	result *consumption.Result
	err    error
}

type consumedMsg struct {
	result *consumption.Result
	err    error
}

// New creates a new App for one kitchen.
func New(svc *pantry.Service, engine *consumption.Coordinator, cfg *config.Config, clock util.Clock, kitchenID string) *App {
	if clock == nil {
		clock = util.SystemClock{Location: cfg.Kitchen.Location()}
	}
	theme := NewTheme(cfg.Display.ColorScheme)
	styles := theme.ViewStyles()
	now := clock.Now()

	inventoryView := pantryviews.NewInventoryView(svc)
	inventoryView.SetStyles(styles)
	inventoryView.SetDateFormat(cfg.Display.DateFormat)
	inventoryView.SetNow(now)

	expiringView := pantryviews.NewExpiringView(svc, cfg.Display.ExpiryWarnDays)
	expiringView.SetStyles(styles)
	expiringView.SetDateFormat(cfg.Display.DateFormat)
	expiringView.SetNow(now)

	historyView := pantryviews.NewHistoryView(svc)
	historyView.SetStyles(styles)
	historyView.SetTimeLayout(dateTimeLayout(cfg.Display))

	return &App{
		pantry:        svc,
		engine:        engine,
		config:        cfg,
		clock:         clock,
		kitchenID:     kitchenID,
		userID:        cfg.Kitchen.DefaultUserID,
		inventoryView: inventoryView,
		expiringView:  expiringView,
		historyView:   historyView,
		theme:         theme,
		keys:          DefaultKeyMap(),
		currentModule: ModuleDashboard,
		alerts:        []Alert{},
	}
}

func dateTimeLayout(d config.DisplayConfig) string {
	if d.DateFormat == "" || d.TimeFormat == "" {
		return util.DateTimeFormat
	}
	return d.DateFormat + " " + d.TimeFormat
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		a.loadStats(),
	)
}

// tickCmd returns a command that sends tick messages.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ============================================================================
// LOADERS
// ============================================================================

func (a *App) loadStats() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		kitchen, err := a.pantry.GetKitchen(ctx, a.kitchenID)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		stats, err := a.pantry.Stats(ctx, a.kitchenID, a.config.Display.ExpiryWarnDays)
		return statsLoadedMsg{kitchen: kitchen, stats: stats, err: err}
	}
}

func (a *App) loadInventory() tea.Cmd {
	return func() tea.Msg {
		return inventoryLoadedMsg{err: a.inventoryView.Load(context.Background(), a.kitchenID)}
	}
}

func (a *App) loadExpiring() tea.Cmd {
	return func() tea.Msg {
		return expiringLoadedMsg{err: a.expiringView.Load(context.Background(), a.kitchenID)}
	}
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{err: a.historyView.Load(context.Background(), a.kitchenID)}
	}
}

func (a *App) loadDetail(itemID string) tea.Cmd {
	return func() tea.Msg {
		info, err := a.pantry.GetConsumptionInfo(context.Background(), itemID)
		return detailLoadedMsg{info: info, err: err}
	}
}

func (a *App) previewCmd(req consumption.ManualRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := a.engine.PreviewManual(context.Background(), req)
		return previewMsg{result: result, err: err}
	}
}

func (a *App) consumeCmd(req consumption.ManualRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := a.engine.ConsumeManual(context.Background(), req)
		return consumedMsg{result: result, err: err}
	}
}

// ============================================================================
// UPDATE
// ============================================================================

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.updateViewDimensions()
		return a, nil

	case tickMsg:
		now := a.clock.Now()
		a.inventoryView.SetNow(now)
		a.expiringView.SetNow(now)
		a.ticks++
		if a.ticks%3 == 0 && len(a.alerts) > 1 {
			a.alertIndex = (a.alertIndex + 1) % len(a.alerts)
		}
		return a, tickCmd()

	case statsLoadedMsg:
		if msg.err != nil {
			a.AddAlert(AlertWarning, "Failed to load kitchen: "+msg.err.Error())
			return a, nil
		}
		a.kitchenName = msg.kitchen.Name
		a.stats = msg.stats
		if msg.stats.Expired > 0 {
			a.AddAlert(AlertWarning, fmt.Sprintf("%d batches have expired", msg.stats.Expired))
		}
		return a, nil

	case inventoryLoadedMsg:
		if msg.err != nil {
			a.AddAlert(AlertWarning, "Failed to load inventory: "+msg.err.Error())
		}
		return a, nil

	case expiringLoadedMsg:
		if msg.err != nil {
			a.AddAlert(AlertWarning, "Failed to load expiring batches: "+msg.err.Error())
		}
		return a, nil

	case historyLoadedMsg:
		if msg.err != nil {
			a.AddAlert(AlertWarning, "Failed to load history: "+msg.err.Error())
		}
		return a, nil

	case detailLoadedMsg:
		if msg.err != nil {
			a.showDetail = false
			a.AddAlert(AlertWarning, "Failed to load batches: "+msg.err.Error())
			return a, nil
		}
		a.detail = msg.info
		return a, nil

	case previewMsg:
		if a.useForm == nil {
			return a, nil
		}
		if msg.err != nil {
			a.pending = nil
			a.useForm.SetError(describeError(msg.err))
			a.useForm.Reopen()
			return a, nil
		}
		a.preview = msg.result
		return a, nil

	case consumedMsg:
		if msg.err != nil {
			a.preview = nil
			a.pending = nil
			if a.useForm != nil {
				a.useForm.SetError(describeError(msg.err))
				a.useForm.Reopen()
			} else {
				a.AddAlert(AlertWarning, describeError(msg.err))
			}
			return a, nil
		}
		a.AddAlert(AlertInfo, summarize(msg.result))
		a.closeUseForm()
		cmds := []tea.Cmd{a.loadStats(), a.loadInventory()}
		if a.showDetail && a.detail != nil {
			cmds = append(cmds, a.loadDetail(a.detail.Item.ID))
		}
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

// updateViewDimensions sizes the tables to the terminal.
func (a *App) updateViewDimensions() {
	rows := ContentHeight(a.height, chromeLines+8)
	a.inventoryView.SetVisibleRows(rows)
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal dialogs take priority
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			a.quitting = true
			return a, tea.Quit
		case "n", "N", "esc":
			a.showConfirm = false
		}
		return a, nil
	}

	// The use form needs all input
	if a.useForm != nil {
		return a.handleUseKeys(msg)
	}

	if a.keys.IsQuit(msg) {
		a.showConfirm = true
		return a, nil
	}

	if a.keys.IsFunctionKey(msg) {
		return a.switchModule(a.keys.GetFunctionKeyModule(msg))
	}

	if a.keys.Back.Matches(msg) {
		if a.showDetail {
			a.showDetail = false
			a.detail = nil
			return a, nil
		}
		if a.currentModule == ModuleHelp && a.previousModule != "" {
			a.currentModule = a.previousModule
			a.previousModule = ""
		}
		return a, nil
	}

	switch a.currentModule {
	case ModuleDashboard:
		if a.keys.Refresh.Matches(msg) {
			return a, a.loadStats()
		}
	case ModulePantry:
		return a.handlePantryKeys(msg)
	case ModuleExpiring:
		switch {
		case a.keys.Up.Matches(msg):
			a.expiringView.MoveUp()
		case a.keys.Down.Matches(msg):
			a.expiringView.MoveDown()
		case a.keys.Refresh.Matches(msg):
			return a, a.loadExpiring()
		}
	case ModuleHistory:
		switch {
		case a.keys.Up.Matches(msg):
			a.historyView.MoveUp()
		case a.keys.Down.Matches(msg):
			a.historyView.MoveDown()
		case a.keys.PageDown.Matches(msg):
			a.historyView.NextPage()
			return a, a.loadHistory()
		case a.keys.PageUp.Matches(msg):
			a.historyView.PrevPage()
			return a, a.loadHistory()
		case a.keys.Refresh.Matches(msg):
			return a, a.loadHistory()
		}
	}

	return a, nil
}

func (a *App) switchModule(m Module) (tea.Model, tea.Cmd) {
	switch m {
	case ModuleHelp:
		if a.currentModule != ModuleHelp {
			a.previousModule = a.currentModule
		}
		a.currentModule = ModuleHelp
		return a, nil
	case "":
		return a, nil
	}

	a.currentModule = m
	a.showDetail = false
	a.detail = nil

	switch m {
	case ModuleDashboard:
		return a, a.loadStats()
	case ModulePantry:
		return a, a.loadInventory()
	case ModuleExpiring:
		return a, a.loadExpiring()
	case ModuleHistory:
		return a, a.loadHistory()
	}
	return a, nil
}

// handlePantryKeys handles the inventory list and batch detail.
func (a *App) handlePantryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.keys.Consume.Matches(msg) {
		item := a.inventoryView.SelectedItem()
		if a.showDetail && a.detail != nil {
			item = a.detail.Item
		}
		if item == nil {
			return a, nil
		}
		a.openUseForm(item)
		return a, nil
	}

	if a.showDetail {
		return a, nil
	}

	switch {
	case a.keys.Up.Matches(msg):
		a.inventoryView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.inventoryView.MoveDown()
	case a.keys.PageDown.Matches(msg):
		a.inventoryView.NextPage()
		return a, a.loadInventory()
	case a.keys.PageUp.Matches(msg):
		a.inventoryView.PrevPage()
		return a, a.loadInventory()
	case a.keys.Refresh.Matches(msg):
		return a, a.loadInventory()
	case a.keys.Select.Matches(msg):
		item := a.inventoryView.SelectedItem()
		if item == nil {
			return a, nil
		}
		a.showDetail = true
		a.detail = a.inventoryView.SelectedStock()
		return a, a.loadDetail(item.ID)
	}
	return a, nil
}

func (a *App) openUseForm(item *models.InventoryItem) {
	unitHint := item.Unit
	if unitHint == "" {
		unitHint = "(unitless)"
	}

	a.useItem = item
	a.useForm = components.NewForm("USE " + strings.ToUpper(item.Name)).
		SetStyles(a.theme.ViewStyles()).
		AddField(components.NewInput("Quantity").SetRequired(true).SetMaxLength(16)).
		AddField(components.NewInput("Unit").SetPlaceholder(unitHint).SetMaxLength(16)).
		AddField(components.NewInput("Notes").SetMaxLength(80))
}

func (a *App) closeUseForm() {
	a.useForm = nil
	a.useItem = nil
	a.pending = nil
	a.preview = nil
}

// handleUseKeys drives the form, then the preview confirmation.
func (a *App) handleUseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.preview != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			req := *a.pending
			return a, a.consumeCmd(req)
		case "n", "N", "esc":
			a.preview = nil
			a.pending = nil
			a.useForm.Reopen()
		}
		return a, nil
	}

	// A preview is in flight.
	if a.pending != nil {
		return a, nil
	}

	a.useForm.HandleKey(msg.String())

	if a.useForm.IsCancelled() {
		a.closeUseForm()
		return a, nil
	}
	if !a.useForm.IsSubmitted() {
		return a, nil
	}

	qty, err := decimal.NewFromString(a.useForm.Field(0).Value())
	if err != nil {
		a.useForm.SetError("quantity must be a number")
		a.useForm.Reopen()
		return a, nil
	}
	a.useForm.SetError("")

	a.pending = &consumption.ManualRequest{
		ItemID:   a.useItem.ID,
		Quantity: qty,
		Unit:     a.useForm.Field(1).Value(),
		UserID:   a.userID,
		Notes:    a.useForm.Field(2).Value(),
	}
	return a, a.previewCmd(*a.pending)
}

// describeError turns engine errors into a one-line message.
func describeError(err error) string {
	var short *consumption.InsufficientStockError
	if errors.As(err, &short) {
		return fmt.Sprintf("Not enough %s: need %s, have %s", short.ItemName, short.Requested, short.Available)
	}
	return err.Error()
}

// summarize describes a committed consumption.
func summarize(r *consumption.Result) string {
	if r == nil || len(r.Items) == 0 {
		return "Nothing was used"
	}
	it := r.Items[0]
	return fmt.Sprintf("Used %s %s of %s from %d batch(es)", it.Requested, it.Unit, it.ItemName, len(it.Allocations))
}

// ============================================================================
// VIEW
// ============================================================================

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.quitting {
		return a.theme.Title.Render("PantryMind shutting down...")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderAlertBar())
	b.WriteString("\n")

	contentHeight := ContentHeight(a.height, chromeLines)
	if a.showConfirm {
		b.WriteString(a.renderConfirmDialog(contentHeight))
	} else {
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("PANTRYMIND v%s", Version)
	if GetBreakpoint(a.width) == BreakpointNarrow {
		title = "PANTRY"
	}

	kitchen := a.kitchenName
	if kitchen == "" {
		kitchen = a.kitchenID
	}
	info := Truncate(kitchen, max(a.width-lipgloss.Width(title)-4, 0))

	spacing := max(a.width-lipgloss.Width(title)-lipgloss.Width(info)-4, 1)

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(info)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderAlertBar renders the clock and the current alert.
func (a *App) renderAlertBar() string {
	timeStr := a.clock.Now().Format(dateTimeLayout(a.config.Display))

	var alertText string
	if len(a.alerts) > 0 {
		alert := a.alerts[a.alertIndex%len(a.alerts)]
		switch alert.Level {
		case AlertCritical:
			alertText = a.theme.AlertCrit.Render("ERROR: " + alert.Message)
		case AlertWarning:
			alertText = a.theme.AlertWarn.Render("WARNING: " + alert.Message)
		default:
			alertText = a.theme.Alert.Render(alert.Message)
		}
	} else {
		alertText = a.theme.Muted.Render("Pantry in order")
	}

	return a.theme.Value.Render(timeStr) + a.theme.StatusDivider.Render() + alertText
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	content := a.getModuleContent()

	contentWidth := ContentWidth(a.width, 0, MaxContentWidth)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	return style.Render(lipgloss.NewStyle().Width(contentWidth).Render(content))
}

// getModuleContent returns the content for the current module.
func (a *App) getModuleContent() string {
	if a.useForm != nil {
		return a.renderUse()
	}

	switch a.currentModule {
	case ModulePantry:
		if a.showDetail {
			return a.inventoryView.RenderDetail(a.detail)
		}
		return a.inventoryView.Render(a.width, a.height-chromeLines)
	case ModuleExpiring:
		return a.expiringView.Render(a.width, a.height-chromeLines)
	case ModuleHistory:
		return a.historyView.Render(a.width, a.height-chromeLines)
	case ModuleHelp:
		return a.renderHelp()
	default:
		return a.renderDashboard()
	}
}

// renderDashboard renders the kitchen overview.
func (a *App) renderDashboard() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ KITCHEN OVERVIEW ═══"))
	b.WriteString("\n\n")

	if a.stats == nil {
		b.WriteString(a.theme.Muted.Render("Loading..."))
		return b.String()
	}
	s := a.stats

	var stock strings.Builder
	stock.WriteString(a.theme.Subtitle.Render("STOCK"))
	stock.WriteString("\n")
	stock.WriteString(fmt.Sprintf("  Items:          %d\n", s.Items))
	stock.WriteString(fmt.Sprintf("  Active batches: %d\n", s.ActiveBatches))

	var fresh strings.Builder
	fresh.WriteString(a.theme.Subtitle.Render("FRESHNESS"))
	fresh.WriteString("\n")
	fresh.WriteString(fmt.Sprintf("  Use within %d days: ", a.config.Display.ExpiryWarnDays))
	fresh.WriteString(a.countStyle(s.ExpiringSoon, a.theme.Warning).Render(fmt.Sprint(s.ExpiringSoon)))
	fresh.WriteString("\n  Expired:            ")
	fresh.WriteString(a.countStyle(s.Expired, a.theme.Error).Render(fmt.Sprint(s.Expired)))
	fresh.WriteString("\n  ")
	fresh.WriteString(a.theme.Meter(s.ExpiringSoon+s.Expired, s.ActiveBatches, 24))
	fresh.WriteString("\n")

	b.WriteString(SideBySide(stock.String(), fresh.String(), ContentWidth(a.width, 0, MaxContentWidth), 4))
	b.WriteString("\n\n")
	b.WriteString(a.theme.Muted.Render("F3 to browse the pantry, F4 for what to use soon"))

	return b.String()
}

func (a *App) countStyle(n int, alert lipgloss.Style) lipgloss.Style {
	if n > 0 {
		return alert
	}
	return a.theme.Success
}

// renderUse renders the use form or its preview.
func (a *App) renderUse() string {
	if a.preview == nil {
		return a.useForm.Render()
	}

	var b strings.Builder
	b.WriteString(a.theme.Title.Render("═══ CONFIRM USE ═══"))
	b.WriteString("\n\n")

	for _, it := range a.preview.Items {
		b.WriteString(a.theme.Subtitle.Render(fmt.Sprintf("%s %s of %s", it.Requested, it.Unit, it.ItemName)))
		b.WriteString("\n")
		if it.UnitReview {
			b.WriteString(a.theme.Warning.Render("  Unit not recognised; check the amount before confirming"))
			b.WriteString("\n")
		}
		for _, alloc := range it.Allocations {
			line := fmt.Sprintf("  take %-10s from batch added by %-8s %-18s leaves %s",
				alloc.QuantityConsumed,
				alloc.AddedBy,
				"("+util.ExpiryLabel(alloc.ExpiryDate, a.clock.Now())+")",
				alloc.QuantityRemainingAfter,
			)
			b.WriteString(a.theme.Value.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Label.Render("[Y]es, use it  [N]o, edit"))
	return b.String()
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ HELP ═══"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		items [][2]string
	}{
		{"NAVIGATION", [][2]string{
			{"F1 / ?", "Help"},
			{"F2", "Dashboard"},
			{"F3", "Pantry inventory"},
			{"F4", "Use soon"},
			{"F5", "Usage history"},
			{"F10 / q", "Quit"},
		}},
		{"CONTROLS", [][2]string{
			{"Up/Down", "Navigate"},
			{"Enter", "Show batches"},
			{"c / u", "Use some of the selected item"},
			{"r", "Refresh"},
			{"Esc", "Back/Cancel"},
			{"PgUp/Dn", "Page navigation"},
		}},
	}

	for _, s := range sections {
		b.WriteString(a.theme.Subtitle.Render(s.title))
		b.WriteString("\n\n")
		for _, item := range s.items {
			b.WriteString(a.theme.Primary.Render(fmt.Sprintf("    %-8s  %s", item[0], item[1])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.theme.Muted.Render("Press Esc to return"))
	return b.String()
}

// renderConfirmDialog renders the quit confirmation dialog.
func (a *App) renderConfirmDialog(height int) string {
	dialog := a.theme.Box.Render(
		a.theme.Title.Render("CONFIRM EXIT") + "\n\n" +
			a.theme.Base.Render("Are you sure you want to exit?") + "\n\n" +
			a.theme.Label.Render("[Y]es  [N]o"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	return a.theme.DrawHorizontalLine(a.width) + "\n" + a.theme.Footer.Render(a.keys.StatusBarHelp(a.width))
}

// AddAlert adds a new alert to the display.
func (a *App) AddAlert(level AlertLevel, message string) {
	a.alerts = append([]Alert{{
		Level:   level,
		Message: message,
		Time:    a.clock.Now(),
	}}, a.alerts...)
	a.alertIndex = 0

	if len(a.alerts) > 10 {
		a.alerts = a.alerts[:10]
	}
}

// ClearAlerts removes all alerts.
func (a *App) ClearAlerts() {
	a.alerts = []Alert{}
	a.alertIndex = 0
}

// Run starts the TUI application.
func Run(ctx context.Context, svc *pantry.Service, engine *consumption.Coordinator, cfg *config.Config, clock util.Clock, kitchenID string) error {
	app := New(svc, engine, cfg, clock, kitchenID)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
