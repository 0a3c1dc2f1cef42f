// Package core provides the conversion logic for GPS collar telemetry.
//
// This package is the heart of the converter, containing all domain logic
// independent of file I/O and the CLI. It can be used by command-line tools,
// batch scripts, or tests without modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - RawTable: a parsed input file (header plus data rows), produced by
//     whatever reader the caller uses.
//   - Schema detection: delimiter sniffing and header-to-field mapping
//     suggestions ([SniffDelimiter], [SuggestMapping]).
//   - Normalize: the single conversion entry point, turning a RawTable into
//     a ConversionResult under a FieldMapping, FilterConfig, and Options.
//
// # Conversion Pipeline
//
// [Normalize] walks data rows in input order and never reorders output:
//
//  1. The timestamp cell is parsed, with an exact layout when one is
//     configured and the fallback chain otherwise.
//  2. Start-date filters exclude fixes before a collar's effective start.
//  3. Coordinates are parsed, range-checked, and rounded to 7 fractional
//     digits.
//  4. With dedupe enabled, a fix that does not advance its collar's clock
//     is pushed forward one second at a time until it does.
//
// Rows that fail a step are recorded as diagnostics with a [ReasonCode] and
// the offending cell; conversion always continues with the next row.
//
// # Error Handling
//
// Configuration problems (ambiguous delimiter, unmapped fields) are returned
// as errors and abort before any output is produced. Row-level problems
// never abort. User-facing messages with support codes are produced by
// [MapError] and [MessageFor]; see the error codes reference in errors.go.
package core
