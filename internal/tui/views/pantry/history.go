package pantry

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/services/pantry"
	"github.com/pantrymind/pantrymind/internal/tui/components"
	"github.com/pantrymind/pantrymind/internal/util"
)

// HistoryView lists usage logs, newest first.
type HistoryView struct {
	service *pantry.Service
	table   *components.Table
	styles  components.Styles
	page    models.Pagination
	err     error

	timeLayout string
}

// NewHistoryView creates a new usage history view.
func NewHistoryView(service *pantry.Service) *HistoryView {
	table := components.NewTable([]components.Column{
		{Title: "When", Width: 16},
		{Title: "Item", Width: 18},
		{Title: "Quantity", Width: 10, Align: lipgloss.Right},
		{Title: "Unit", Width: 7},
		{Title: "Reason", Width: 18},
		{Title: "By", Width: 8},
	})
	table.SetVisibleRows(20)
	table.Focus(true)

	return &HistoryView{
		service:    service,
		table:      table,
		page:       models.Pagination{Page: 1, PageSize: 20},
		timeLayout: util.DateTimeFormat,
	}
}

// Load fetches one page of the kitchen's usage history.
func (v *HistoryView) Load(ctx context.Context, kitchenID string) error {
	v.err = nil

	list, err := v.service.UsageHistory(ctx, models.UsageFilter{KitchenID: kitchenID}, v.page)
	if err != nil {
		v.err = err
		return err
	}

	v.SetData(list.Logs)
	v.table.SetPagination(list.Page, list.TotalPages, list.Total)
	return nil
}

// SetData replaces the displayed logs.
func (v *HistoryView) SetData(logs []*models.UsageLog) {
	rows := make([][]string, len(logs))
	for i, l := range logs {
		reason := "used directly"
		if l.RecipeName != nil {
			reason = *l.RecipeName
		} else if l.UsageType == models.UsageTypeCooking {
			reason = "cooking"
		}
		name := l.ItemName
		if name == "" {
			name = l.ItemID
		}
		rows[i] = []string{
			l.UsedAt.Format(v.timeLayout),
			name,
			l.Quantity.String(),
			l.ItemUnit,
			reason,
			l.UserID,
		}
	}
	v.table.SetRows(rows)
}

// SetTimeLayout sets the layout used for timestamps.
func (v *HistoryView) SetTimeLayout(layout string) {
	if layout != "" {
		v.timeLayout = layout
	}
}

// SetStyles sets the view styles.
func (v *HistoryView) SetStyles(s components.Styles) {
	v.styles = s
	v.table.SetStyles(s)
}

// NextPage moves to the next page.
func (v *HistoryView) NextPage() {
	v.page.Page++
}

// PrevPage moves to the previous page.
func (v *HistoryView) PrevPage() {
	if v.page.Page > 1 {
		v.page.Page--
	}
}

// MoveUp moves the selection up.
func (v *HistoryView) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *HistoryView) MoveDown() {
	v.table.MoveDown()
}

// Render renders the history view.
func (v *HistoryView) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("=== USAGE HISTORY ==="))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.table.Empty() {
		b.WriteString(v.styles.Label.Render("Nothing has been used yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Label.Render("Up/Down:Select  PgUp/Dn:Page"))

	return b.String()
}
