package gridlog

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is a header-indexed view over raw rows. Header names are trimmed;
// the first occurrence of a duplicated name wins.
type table struct {
	cols map[string]int
	rows [][]string
}

func newTable(raw [][]string) *table {
	t := &table{cols: map[string]int{}}
	if len(raw) == 0 {
		return t
	}
	for i, name := range raw[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		if _, ok := t.cols[name]; !ok {
			t.cols[name] = i
		}
	}
	for _, row := range raw[1:] {
		if blankRow(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func (t *table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t *table) missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !t.has(c) {
			out = append(out, c)
		}
	}
	return out
}

// get returns the trimmed cell, or "" when the column is absent or the row
// is short (excelize drops trailing empty cells).
func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	return rows, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty sheet")
	}
	return rows, nil
}
