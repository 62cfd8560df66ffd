// Package pantry provides TUI views for kitchen stock.
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

// InventoryView lists a kitchen's items with their on-hand stock.
type InventoryView struct {
	service *pantry.Service
	table   *components.Table
	styles  components.Styles
	items   []*models.InventoryItem
	stock   map[string]*models.ConsumptionInfo
	page    models.Pagination
	loading bool
	err     error

	now        time.Time
	dateFormat string
}

// NewInventoryView creates a new inventory view.
func NewInventoryView(service *pantry.Service) *InventoryView {
	table := components.NewTable([]components.Column{
		{Title: "Item", Width: 22},
		{Title: "Category", Width: 10},
		{Title: "On Hand", Width: 10, Align: lipgloss.Right},
		{Title: "Unit", Width: 7},
		{Title: "Batches", Width: 7, Align: lipgloss.Right},
		{Title: "Next Expiry", Width: 18},
	})
	table.SetVisibleRows(20)
	table.Focus(true)

	return &InventoryView{
		service:    service,
		table:      table,
		stock:      map[string]*models.ConsumptionInfo{},
		page:       models.Pagination{Page: 1, PageSize: 20},
		dateFormat: util.DateFormat,
	}
}

// Load fetches one page of items and the consumable stock of each.
func (v *InventoryView) Load(ctx context.Context, kitchenID string) error {
	v.loading = true
	v.err = nil

	list, err := v.service.ListItems(ctx, kitchenID, "", v.page)
	if err != nil {
		v.loading = false
		v.err = err
		return err
	}

	stock := make(map[string]*models.ConsumptionInfo, len(list.Items))
	for _, item := range list.Items {
		info, err := v.service.GetConsumptionInfo(ctx, item.ID)
		if err != nil {
			v.loading = false
			v.err = err
			return err
		}
		stock[item.ID] = info
	}

	v.loading = false
	v.SetData(list.Items, stock)
	v.table.SetPagination(list.Page, list.TotalPages, list.Total)
	return nil
}

// SetData replaces the displayed items.
func (v *InventoryView) SetData(items []*models.InventoryItem, stock map[string]*models.ConsumptionInfo) {
	v.items = items
	v.stock = stock

	rows := make([][]string, len(items))
	for i, item := range items {
		cat := "-"
		if item.Category != nil {
			cat = item.Category.Code
		}
		unit := item.Unit
		if unit == "" {
			unit = "-"
		}

		onHand, batches, next := "0", "0", "-"
		if info := stock[item.ID]; info != nil {
			onHand = info.TotalAvailable.String()
			batches = fmt.Sprint(len(info.Batches))
			if len(info.Batches) > 0 {
				next = util.ExpiryLabel(info.Batches[0].ExpiryDate, v.now)
			}
		}

		rows[i] = []string{item.Name, cat, onHand, unit, batches, next}
	}
	v.table.SetRows(rows)
}

// SetNow sets the time expiry labels are relative to.
func (v *InventoryView) SetNow(t time.Time) {
	v.now = t
}

// SetDateFormat sets the layout used for dates.
func (v *InventoryView) SetDateFormat(layout string) {
	if layout != "" {
		v.dateFormat = layout
	}
}

// SetStyles sets the view styles.
func (v *InventoryView) SetStyles(s components.Styles) {
	v.styles = s
	v.table.SetStyles(s)
}

// SetVisibleRows sets the table height.
func (v *InventoryView) SetVisibleRows(n int) {
	v.table.SetVisibleRows(n)
}

// NextPage moves to the next page.
func (v *InventoryView) NextPage() {
	v.page.Page++
}

// PrevPage moves to the previous page.
func (v *InventoryView) PrevPage() {
	if v.page.Page > 1 {
		v.page.Page--
	}
}

// MoveUp moves the selection up.
func (v *InventoryView) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *InventoryView) MoveDown() {
	v.table.MoveDown()
}

// SelectedItem returns the currently selected item.
func (v *InventoryView) SelectedItem() *models.InventoryItem {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.items) {
		return v.items[idx]
	}
	return nil
}

// SelectedStock returns the consumable stock of the selected item.
func (v *InventoryView) SelectedStock() *models.ConsumptionInfo {
	if item := v.SelectedItem(); item != nil {
		return v.stock[item.ID]
	}
	return nil
}

// Render renders the inventory view.
func (v *InventoryView) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("=== PANTRY INVENTORY ==="))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Label.Render("Loading..."))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.styles.Label.Render("No items in this kitchen."))
		b.WriteString("\n")
	default:
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	if width < 60 {
		b.WriteString(v.styles.Label.Render("Enter:Batches c:Use"))
	} else {
		b.WriteString(v.styles.Label.Render("Up/Down:Select  Enter:Batches  c:Use  PgUp/Dn:Page"))
	}

	return b.String()
}

// RenderDetail renders an item's batches in the order they are drawn from.
func (v *InventoryView) RenderDetail(info *models.ConsumptionInfo) string {
	if info == nil || info.Item == nil {
		return v.styles.Label.Render("No item selected")
	}

	label := v.styles.Label.Width(16)
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("=== " + strings.ToUpper(info.Item.Name) + " ==="))
	b.WriteString("\n\n")

	unit := info.Item.Unit
	if unit == "" {
		unit = "(unitless)"
	}
	b.WriteString(label.Render("Code:") + " " + v.styles.Value.Render(info.Item.Code) + "\n")
	b.WriteString(label.Render("Unit:") + " " + v.styles.Value.Render(unit) + "\n")
	b.WriteString(label.Render("On hand:") + " " + v.styles.Value.Render(info.TotalAvailable.String()) + "\n")
	b.WriteString("\n")

	b.WriteString(v.styles.Section.Render("BATCHES (used in this order)"))
	b.WriteString("\n")
	if len(info.Batches) == 0 {
		b.WriteString(v.styles.Muted.Render("  none"))
		b.WriteString("\n")
	}
	for i, batch := range info.Batches {
		expiry := "no expiry"
		if batch.ExpiryDate != nil {
			expiry = batch.ExpiryDate.Format(v.dateFormat)
		}
		line := fmt.Sprintf("  %d. %-10s %-12s %-20s added %s by %s",
			i+1,
			batch.Quantity.String(),
			expiry,
			"("+util.ExpiryLabel(batch.ExpiryDate, v.now)+")",
			batch.AddedAt.Format(v.dateFormat),
			batch.AddedBy,
		)
		b.WriteString(v.expiryStyle(batch).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Label.Render("Esc:Back  c:Use"))

	return b.String()
}

func (v *InventoryView) expiryStyle(b *models.InventoryBatch) lipgloss.Style {
	if b.ExpiryDate == nil {
		return v.styles.Value
	}
	switch days := util.DaysUntil(v.now, *b.ExpiryDate); {
	case days < 0:
		return v.styles.Error
	case days <= 3:
		return v.styles.Warning
	default:
		return v.styles.Value
	}
}
