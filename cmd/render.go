package cmd

import (
	"sort"

	"github.com/EO-DataHub/eodhp-record-services/internal/importer"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// renderRecords lays out records as a table, marking the selected ones.
func renderRecords(records []models.Record, selected func(id string) bool) string {
	t := newTable("", "ID", "Name", "Position", "Level")
	for _, record := range records {
		mark := ""
		if selected != nil && selected(record.ID.Hex()) {
			mark = "x"
		}
		t.Row(mark, record.ID.Hex(), record.Name, record.Position, string(record.Level))
	}
	return t.String()
}

// renderRows lays out imported rows with the record columns first.
func renderRows(rows []importer.Row) string {
	columns := rowColumns(rows)
	t := newTable(columns...)
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, column := range columns {
			cells[i] = row[column]
		}
		t.Row(cells...)
	}
	return t.String()
}

func rowColumns(rows []importer.Row) []string {
	known := []string{"name", "position", "level"}
	seen := map[string]bool{}
	var extra []string
	for _, row := range rows {
		for column := range row {
			if seen[column] {
				continue
			}
			seen[column] = true
			if column != "name" && column != "position" && column != "level" {
				extra = append(extra, column)
			}
		}
	}
	sort.Strings(extra)

	columns := []string{}
	for _, column := range known {
		if seen[column] {
			columns = append(columns, column)
		}
	}
	return append(columns, extra...)
}
