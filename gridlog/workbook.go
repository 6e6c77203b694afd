package gridlog

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const workbookInput = "SUMMARY workbook"

// IsLegSheet reports whether a sheet name marks a legs sheet.
func IsLegSheet(name string) bool {
	return strings.Contains(strings.ToLower(name), "legs")
}

// LoadWorkbook reads the SUMMARY workbook from disk.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unreadable(workbookInput, filepath.Base(path), err)
	}
	defer f.Close()

	return ReadWorkbook(filepath.Base(path), f)
}

// ReadWorkbook parses every legs sheet of the workbook in r. Sheets that
// lack some leg columns are still returned; callers check
// CanDetectSquareOff / CanDetectCompletion.
func ReadWorkbook(name string, r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, unreadable(workbookInput, name, err)
	}
	defer f.Close()

	wb := &Workbook{Name: name, Sheets: f.GetSheetList()}
	for _, sheet := range wb.Sheets {
		if !IsLegSheet(sheet) {
			continue
		}
		raw, err := f.GetRows(sheet)
		if err != nil {
			return nil, unreadable(workbookInput, name+"/"+sheet, err)
		}
		wb.Legs = append(wb.Legs, parseLegSheet(sheet, raw))
	}
	return wb, nil
}

func parseLegSheet(name string, raw [][]string) LegSheet {
	t := newTable(raw)
	s := LegSheet{
		Name: name,
		Columns: LegColumns{
			PortfolioName: t.has(ColPortfolioName),
			Status:        t.has(ColStatus),
			ExitType:      t.has(ColExitType),
			ExitTime:      t.has(ColExitTime),
		},
		Records: make([]LegRecord, 0, len(t.rows)),
	}
	for _, row := range t.rows {
		s.Records = append(s.Records, LegRecord{
			PortfolioName: t.get(row, ColPortfolioName),
			Status:        t.get(row, ColStatus),
			ExitType:      t.get(row, ColExitType),
			ExitTime:      t.get(row, ColExitTime),
		})
	}
	return s
}
