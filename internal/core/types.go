// Package core provides the conversion logic for GPS collar telemetry.
// This package has no I/O or UI dependencies and can be used by any frontend.
package core

import (
	"time"
)

// TargetField identifies one of the four output columns every conversion
// produces. The values double as the output CSV header names.
type TargetField string

const (
	FieldSerial TargetField = "serialnumber"
	FieldTime   TargetField = "time"
	FieldLat    TargetField = "latitude"
	FieldLon    TargetField = "longitude"
)

// TargetFields lists all output fields in output column order.
var TargetFields = []TargetField{FieldSerial, FieldTime, FieldLat, FieldLon}

// RawTable is a parsed input file: one header row plus data rows.
// Rows are kept exactly as parsed; cell cleaning happens during conversion.
type RawTable struct {
	Source  string     // File name, for diagnostics and logging only
	Headers []string   // First row of the file
	Rows    [][]string // Data rows in file order; may be ragged
}

// Prefix returns a view of the table limited to the first n data rows.
// Headers and row slices are shared with the receiver. There is no separate
// preview pipeline; previews run a prefix through the same Normalize call.
func (t *RawTable) Prefix(n int) *RawTable {
	if n < 0 || n >= len(t.Rows) {
		return t
	}
	return &RawTable{
		Source:  t.Source,
		Headers: t.Headers,
		Rows:    t.Rows[:n],
	}
}

// HeaderIndex maps cleaned, lowercased column names to their position in the
// header row.
type HeaderIndex map[string]int

// Unset marks a target field with no column assigned.
const Unset = -1

// FieldMapping assigns a column index to each target field.
// All four fields must be assigned before a conversion can run; suggestion
// code leaves unrecognized fields at Unset and never guesses a default.
type FieldMapping struct {
	Serial int
	Time   int
	Lat    int
	Lon    int
}

// NewFieldMapping returns a mapping with every field unset.
func NewFieldMapping() FieldMapping {
	return FieldMapping{Serial: Unset, Time: Unset, Lat: Unset, Lon: Unset}
}

// Index returns the column index assigned to a target field.
func (m FieldMapping) Index(f TargetField) int {
	switch f {
	case FieldSerial:
		return m.Serial
	case FieldTime:
		return m.Time
	case FieldLat:
		return m.Lat
	case FieldLon:
		return m.Lon
	}
	return Unset
}

// Set assigns a column index to a target field.
func (m *FieldMapping) Set(f TargetField, idx int) {
	switch f {
	case FieldSerial:
		m.Serial = idx
	case FieldTime:
		m.Time = idx
	case FieldLat:
		m.Lat = idx
	case FieldLon:
		m.Lon = idx
	}
}

// Missing returns the target fields with no column assigned, in output
// column order.
func (m FieldMapping) Missing() []TargetField {
	var missing []TargetField
	for _, f := range TargetFields {
		if m.Index(f) == Unset {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every target field has a column assigned.
func (m FieldMapping) Complete() bool {
	return len(m.Missing()) == 0
}

// FilterConfig restricts output to fixes at or after a start instant.
// The zero value applies no filtering.
type FilterConfig struct {
	Start     time.Time            // Global start; zero means no global filter
	PerSerial map[string]time.Time // Per-collar overrides, keyed by serial
}

// StartFor returns the effective start instant for a serial: the per-collar
// override when present, otherwise the global start. A zero return means no
// filter applies to this serial.
func (f FilterConfig) StartFor(serial string) time.Time {
	if t, ok := f.PerSerial[serial]; ok {
		return t
	}
	return f.Start
}

// Empty reports whether the config filters nothing.
func (f FilterConfig) Empty() bool {
	return f.Start.IsZero() && len(f.PerSerial) == 0
}

// Options controls optional conversion behavior.
type Options struct {
	// Dedupe enables per-collar duplicate timestamp adjustment: a fix whose
	// timestamp does not advance its collar's clock is pushed forward in
	// one-second steps until it does.
	Dedupe bool

	// TimestampFormat, when non-empty, is the exact Go layout every
	// timestamp cell must match. When empty the fallback chain applies.
	TimestampFormat string
}

// NormalizedRow is one converted GPS fix.
type NormalizedRow struct {
	Serial string
	Time   time.Time // Second precision, no zone
	Lat    float64   // Decimal degrees, rounded to 7 fractional digits
	Lon    float64   // Decimal degrees, rounded to 7 fractional digits
}

// RowDiagnostic records why a data row was skipped or excluded.
type RowDiagnostic struct {
	Row    int         // Zero-based index into RawTable.Rows
	Field  TargetField // Field that triggered the diagnostic
	Reason ReasonCode  // Machine-readable classification
	Value  string      // Offending raw cell content
}

// ConversionResult is the complete outcome of one Normalize call.
type ConversionResult struct {
	ConversionID string          // Unique ID for this run, also used in logs
	Source       string          // Input file name, copied from the table
	TotalRows    int             // Data rows in the input table
	Rows         []NormalizedRow // Emitted fixes, in input order
	Diagnostics  []RowDiagnostic // Skips and exclusions, in input order
	Nudged       int             // Fixes pushed forward by dedupe
	Duration     time.Duration
}

// Summary holds aggregate counts for a conversion, for display and logging.
type Summary struct {
	TotalRows int
	Emitted   int
	Filtered  int // Start-date exclusions
	Skipped   int // Rows dropped with a hard error
	Blank     int // Fully empty rows, passed over silently
	Nudged    int
	ByReason  map[ReasonCode]int
}

// Summarize derives aggregate counts from the emitted rows and diagnostics.
func (r *ConversionResult) Summarize() Summary {
	s := Summary{
		TotalRows: r.TotalRows,
		Emitted:   len(r.Rows),
		Nudged:    r.Nudged,
		ByReason:  make(map[ReasonCode]int),
	}
	for _, d := range r.Diagnostics {
		s.ByReason[d.Reason]++
		if d.Reason.IsExclusion() {
			s.Filtered++
		} else {
			s.Skipped++
		}
	}
	s.Blank = s.TotalRows - s.Emitted - s.Filtered - s.Skipped
	return s
}
