package input

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wildtel/collarcsv/internal/core"
)

// loadWorkbook reads the first sheet of an XLSX workbook into a RawTable.
// Cell values arrive as excelize formats them for display, so a date cell
// yields the same text a user sees in the spreadsheet. No delimiter
// sniffing applies.
func loadWorkbook(path, source string) (*core.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("empty file: workbook %s has no sheets", source)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return tableFromRecords(rows, source)
}
