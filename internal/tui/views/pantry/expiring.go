package pantry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/services/pantry"
	"github.com/pantrymind/pantrymind/internal/tui/components"
	"github.com/pantrymind/pantrymind/internal/util"
)

// ExpiringView lists batches that expire soon or already have.
type ExpiringView struct {
	service  *pantry.Service
	table    *components.Table
	styles   components.Styles
	batches  []*models.InventoryBatch
	names    map[string]string
	warnDays int
	err      error

	now        time.Time
	dateFormat string
}

// NewExpiringView creates a new expiring view.
func NewExpiringView(service *pantry.Service, warnDays int) *ExpiringView {
	table := components.NewTable([]components.Column{
		{Title: "Item", Width: 22},
		{Title: "Quantity", Width: 10, Align: lipgloss.Right},
		{Title: "Expires", Width: 12},
		{Title: "When", Width: 20},
		{Title: "Added By", Width: 10},
	})
	table.SetVisibleRows(20)
	table.Focus(true)

	return &ExpiringView{
		service:    service,
		table:      table,
		names:      map[string]string{},
		warnDays:   warnDays,
		dateFormat: util.DateFormat,
	}
}

// Load fetches the kitchen's expiring batches.
func (v *ExpiringView) Load(ctx context.Context, kitchenID string) error {
	v.err = nil

	batches, err := v.service.ExpiringBatches(ctx, kitchenID, v.warnDays)
	if err != nil {
		v.err = err
		return err
	}

	items, err := v.service.ListItems(ctx, kitchenID, "", models.Pagination{Page: 1, PageSize: 100})
	if err != nil {
		v.err = err
		return err
	}
	names := make(map[string]string, len(items.Items))
	for _, it := range items.Items {
		names[it.ID] = it.Name
	}

	v.SetData(batches, names)
	return nil
}

// SetData replaces the displayed batches. names maps item IDs to names.
func (v *ExpiringView) SetData(batches []*models.InventoryBatch, names map[string]string) {
	v.batches = batches
	v.names = names

	rows := make([][]string, len(batches))
	for i, b := range batches {
		name := names[b.ItemID]
		if name == "" {
			name = b.ItemID
		}
		expires := "-"
		if b.ExpiryDate != nil {
			expires = b.ExpiryDate.Format(v.dateFormat)
		}
		rows[i] = []string{
			name,
			b.Quantity.String(),
			expires,
			util.ExpiryLabel(b.ExpiryDate, v.now),
			b.AddedBy,
		}
	}
	v.table.SetRows(rows)
}

// SetNow sets the time expiry labels are relative to.
func (v *ExpiringView) SetNow(t time.Time) {
	v.now = t
}

// SetDateFormat sets the layout used for dates.
func (v *ExpiringView) SetDateFormat(layout string) {
	if layout != "" {
		v.dateFormat = layout
	}
}

// SetStyles sets the view styles.
func (v *ExpiringView) SetStyles(s components.Styles) {
	v.styles = s
	v.table.SetStyles(s)
}

// MoveUp moves the selection up.
func (v *ExpiringView) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *ExpiringView) MoveDown() {
	v.table.MoveDown()
}

// SelectedBatch returns the currently selected batch.
func (v *ExpiringView) SelectedBatch() *models.InventoryBatch {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.batches) {
		return v.batches[idx]
	}
	return nil
}

// Render renders the expiring view.
func (v *ExpiringView) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("=== USE SOON ==="))
	b.WriteString("\n")
	b.WriteString(v.styles.Label.Render(fmt.Sprintf("Batches expiring within %d days", v.warnDays)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.table.Empty() {
		b.WriteString(v.styles.Label.Render("Nothing is about to expire."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	return b.String()
}
