package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned for a workbook without any worksheet.
var ErrNoSheet = errors.New("workbook has no sheets")

// Row maps a column header to the cell value in that column.
type Row map[string]string

// Payload converts the row into a record payload using the name, position
// and level columns. Headers match regardless of case and surrounding spaces.
func (r Row) Payload() models.RecordPayload {
	return models.RecordPayload{
		Name:     r.Get("name"),
		Position: r.Get("position"),
		Level:    models.Level(r.Get("level")),
	}
}

// Get returns the value of the column named header. An exact match wins over
// a case-insensitive one.
func (r Row) Get(header string) string {
	if value, ok := r[header]; ok {
		return value
	}
	for column, value := range r {
		if strings.EqualFold(strings.TrimSpace(column), header) {
			return value
		}
	}
	return ""
}

// Parse reads the first worksheet of an xlsx workbook. The first row holds
// the column headers and every following non-empty row becomes a Row.
func Parse(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	rows := []Row{}
	if len(cells) == 0 {
		return rows, nil
	}

	headers := cells[0]
	for _, line := range cells[1:] {
		if isBlank(line) {
			continue
		}

		row := make(Row, len(headers))
		for i, header := range headers {
			if strings.TrimSpace(header) == "" {
				continue
			}
			value := ""
			if i < len(line) {
				value = line[i]
			}
			row[header] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r Row) clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	c := make([]Row, len(rows))
	for i, row := range rows {
		c[i] = row.clone()
	}
	return c
}

// Preview returns at most n leading rows.
func Preview(rows []Row, n int) []Row {
	if n < 0 {
		n = 0
	}
	if len(rows) < n {
		n = len(rows)
	}
	return rows[:n]
}

func isBlank(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
