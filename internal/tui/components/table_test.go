package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTable_SetRows(t *testing.T) {
	table := NewTable([]Column{{Title: "Item", Width: 12}, {Title: "Qty", Width: 6}})
	if !table.Empty() {
		t.Error("New table should be empty")
	}

	table.SetRows([][]string{{"Tomatoes", "2"}, {"Milk", "1"}, {"Eggs", "12"}})
	if table.RowCount() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.RowCount())
	}
}

func TestTable_Navigation(t *testing.T) {
	table := NewTable([]Column{{Title: "ID", Width: 5}})
	table.SetRows([][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}})

	table.MoveDown()
	if table.Selected() != 1 {
		t.Errorf("Expected selected=1, got %d", table.Selected())
	}

	table.MoveUp()
	table.MoveUp()
	if table.Selected() != 0 {
		t.Errorf("Expected selected=0, got %d", table.Selected())
	}

	table.GoToBottom()
	table.MoveDown()
	if table.Selected() != 4 {
		t.Errorf("Expected selected=4, got %d", table.Selected())
	}

	table.GoToTop()
	if table.Selected() != 0 {
		t.Errorf("Expected selected=0, got %d", table.Selected())
	}
}

func TestTable_SetRows_ClampsSelection(t *testing.T) {
	table := NewTable([]Column{{Title: "ID", Width: 5}})
	table.SetRows([][]string{{"1"}, {"2"}, {"3"}})
	table.GoToBottom()

	table.SetRows([][]string{{"1"}})
	if table.Selected() != 0 {
		t.Errorf("Expected selection clamped to 0, got %d", table.Selected())
	}
	if row := table.SelectedRow(); row == nil || row[0] != "1" {
		t.Errorf("Expected row [1], got %v", row)
	}

	table.SetRows(nil)
	if table.SelectedRow() != nil {
		t.Error("Expected nil selected row for an empty table")
	}
}

func TestTable_Scrolling(t *testing.T) {
	table := NewTable([]Column{{Title: "ID", Width: 5}})
	table.SetVisibleRows(2)
	table.SetRows([][]string{{"r1"}, {"r2"}, {"r3"}, {"r4"}})

	table.MoveDown()
	table.MoveDown()

	output := table.Render()
	if strings.Contains(output, "r1") {
		t.Error("Expected first row scrolled out of view")
	}
	if !strings.Contains(output, "r3") {
		t.Error("Expected selected row in view")
	}
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]Column{
		{Title: "Item", Width: 8},
		{Title: "Qty", Width: 6, Align: lipgloss.Right},
	})
	table.SetRows([][]string{{"Cheddar Cheese", "250"}})
	table.SetPagination(1, 3, 42)

	output := table.Render()
	if !strings.Contains(output, "Item") || !strings.Contains(output, "Qty") {
		t.Error("Expected headers in output")
	}
	if !strings.Contains(output, "Cheddar…") {
		t.Errorf("Expected truncated cell, got %q", output)
	}
	if !strings.Contains(output, "   250") {
		t.Error("Expected right-aligned quantity")
	}
	if !strings.Contains(output, "Page 1/3 | 42 total") {
		t.Error("Expected pagination footer")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"basil", 10, "basil"},
		{"basil", 5, "basil"},
		{"jalapeño peppers", 9, "jalapeño…"},
		{"salt", 1, "s"},
		{"salt", 0, ""},
	}

	for _, tt := range tests {
		if got := fit(tt.input, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}
