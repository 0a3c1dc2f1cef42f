// Package export writes conversion results back to disk: the normalized
// fix CSV and the rejects file for rows that did not make it through.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wildtel/collarcsv/internal/core"
)

// Columns is the output header, in order. Downstream tooling keys on these
// exact names.
var Columns = []string{"serialnumber", "time", "latitude", "longitude"}

// WriteCSV writes rows to w in the normalized output format: semicolon
// delimited, every field double-quoted, LF line endings. encoding/csv only
// quotes when a value demands it, so the quoting here is done by hand.
func WriteCSV(w io.Writer, rows []core.NormalizedRow) error {
	bw := bufio.NewWriter(w)
	writeRecord(bw, Columns)
	for _, r := range rows {
		writeRecord(bw, []string{
			r.Serial,
			r.Time.Format(core.OutputTimeLayout),
			formatCoordinate(r.Lat),
			formatCoordinate(r.Lon),
		})
	}
	return bw.Flush()
}

// WriteFile writes rows to path, creating or truncating it.
func WriteFile(path string, rows []core.NormalizedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// formatCoordinate renders a coordinate with exactly seven decimal places.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', core.CoordinatePrecision, 64)
}

// writeRecord writes one fully quoted record. Embedded quotes are doubled.
// Write errors stick to the bufio.Writer and surface at Flush.
func writeRecord(bw *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteByte(';')
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(f, `"`, `""`))
		bw.WriteByte('"')
	}
	bw.WriteByte('\n')
}
