package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Normalize converts a raw table into output rows under the given mapping,
// filters, and options. Configuration problems (unmapped fields) return an
// error and produce nothing; row-level problems never abort, they become
// diagnostics on the result. Emitted rows keep the input's order.
//
// Each data row passes through four steps:
//
//  1. Timestamp parse (exact layout when configured, fallback chain
//     otherwise).
//  2. Start-date filter: fixes before the collar's effective start are
//     excluded with FilteredByStartDate.
//  3. Coordinate parse, range check, and rounding to 7 fractional digits.
//  4. With dedupe enabled, a fix that does not advance its collar's clock
//     is pushed forward one second at a time until it does.
//
// The filter runs before the coordinate parse: a pre-start row with garbage
// coordinates records only the exclusion. Fully empty rows are passed over
// without a diagnostic.
func Normalize(table *RawTable, mapping FieldMapping, filters FilterConfig, opts Options) (*ConversionResult, error) {
	start := time.Now()

	if missing := mapping.Missing(); len(missing) > 0 {
		return nil, &UnmappedFieldError{Missing: missing}
	}

	result := &ConversionResult{
		ConversionID: uuid.New().String(),
		Source:       table.Source,
		TotalRows:    len(table.Rows),
		Rows:         make([]NormalizedRow, 0, len(table.Rows)),
	}

	// Last emitted timestamp per collar, for duplicate adjustment.
	var lastEmitted map[string]time.Time
	if opts.Dedupe {
		lastEmitted = make(map[string]time.Time)
	}

	for i, row := range table.Rows {
		if isEmptyRow(row) {
			continue
		}

		serial := CleanCell(cell(row, mapping.Serial))

		rawTime := CleanCell(cell(row, mapping.Time))
		t, reason := ParseTimestamp(rawTime, opts.TimestampFormat)
		if reason != "" {
			result.Diagnostics = append(result.Diagnostics, RowDiagnostic{
				Row: i, Field: FieldTime, Reason: reason, Value: rawTime,
			})
			continue
		}

		if cutoff := filters.StartFor(serial); !cutoff.IsZero() && t.Before(cutoff) {
			result.Diagnostics = append(result.Diagnostics, RowDiagnostic{
				Row: i, Field: FieldTime, Reason: FilteredByStartDate, Value: rawTime,
			})
			continue
		}

		rawLat := CleanCell(cell(row, mapping.Lat))
		lat, reason := ParseCoordinate(rawLat, LatMin, LatMax)
		if reason != "" {
			result.Diagnostics = append(result.Diagnostics, RowDiagnostic{
				Row: i, Field: FieldLat, Reason: reason, Value: rawLat,
			})
			continue
		}

		rawLon := CleanCell(cell(row, mapping.Lon))
		lon, reason := ParseCoordinate(rawLon, LonMin, LonMax)
		if reason != "" {
			result.Diagnostics = append(result.Diagnostics, RowDiagnostic{
				Row: i, Field: FieldLon, Reason: reason, Value: rawLon,
			})
			continue
		}

		if opts.Dedupe {
			if last, ok := lastEmitted[serial]; ok {
				adjusted := t
				for !adjusted.After(last) {
					adjusted = adjusted.Add(time.Second)
				}
				if !adjusted.Equal(t) {
					result.Nudged++
					t = adjusted
				}
			}
			lastEmitted[serial] = t
		}

		result.Rows = append(result.Rows, NormalizedRow{
			Serial: serial,
			Time:   t,
			Lat:    lat,
			Lon:    lon,
		})
	}

	result.Duration = time.Since(start)
	return result, nil
}

// cell returns row[idx], or "" when the row is too short. Ragged rows are
// common in hand-edited exports; a missing cell fails its field's parse with
// the normal reason code instead of panicking.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// isEmptyRow reports whether every cell is empty after trimming.
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
