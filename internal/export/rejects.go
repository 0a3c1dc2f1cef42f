package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wildtel/collarcsv/internal/core"
)

// WriteRejects writes every diagnosed row back out with its original cells,
// prefixed by the source line number and the reason the row was not emitted.
// The file is plain comma-delimited CSV meant for manual cleanup and
// re-conversion.
func WriteRejects(w io.Writer, table *core.RawTable, diags []core.RowDiagnostic) error {
	cw := csv.NewWriter(w)

	header := append([]string{"_line", "_error"}, table.Headers...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, d := range diags {
		if d.Row < 0 || d.Row >= len(table.Rows) {
			continue
		}
		// _line is 1-based in the source file, counting the header row.
		record := append([]string{
			strconv.Itoa(d.Row + 2),
			rejectReason(d),
		}, table.Rows[d.Row]...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRejectsFile writes the rejects CSV to path, creating or truncating it.
func WriteRejectsFile(path string, table *core.RawTable, diags []core.RowDiagnostic) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create rejects file: %w", err)
	}
	if err := WriteRejects(f, table, diags); err != nil {
		f.Close()
		return fmt.Errorf("write rejects file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close rejects file: %w", err)
	}
	return nil
}

// rejectReason renders one diagnostic as a single cell.
func rejectReason(d core.RowDiagnostic) string {
	m := core.MessageFor(d.Reason)
	return fmt.Sprintf("[%s] %s (%s=%q)", m.Code, m.Message, d.Field, d.Value)
}
