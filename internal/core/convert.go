package core

// convert.go provides cell-level conversions for collar telemetry data.
//
// These functions handle the messy reality of vendor exports:
//   - Coordinates with decimal commas (European locales)
//   - Scientific notation in numeric columns
//   - Excel formula prefixes (="value")
//   - Common CSV artifacts (stray quotes, padding)
//
// All conversions are pure; invalid input is reported via a ReasonCode,
// never defaulted.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Coordinate bounds in decimal degrees.
const (
	LatMin = -90.0
	LatMax = 90.0
	LonMin = -180.0
	LonMax = 180.0
)

// CoordinatePrecision is the number of fractional digits every emitted
// coordinate carries.
const CoordinatePrecision = 7

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return s
}

// ParseCoordinate converts a cleaned cell to a decimal-degree value within
// [min, max]. A cell using a decimal comma is retried with the comma swapped
// for a dot when that is unambiguous (exactly one comma, no dot). The
// returned reason is empty on success; on failure the value is zero.
func ParseCoordinate(value string, min, max float64) (float64, ReasonCode) {
	s := value
	if !numericRegex.MatchString(s) {
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		if !numericRegex.MatchString(s) {
			return 0, CoordinateUnparseable
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, CoordinateUnparseable
	}

	if v < min || v > max {
		return 0, CoordinateOutOfRange
	}

	return Round7(v), ""
}

// Round7 rounds to CoordinatePrecision fractional digits, halves away from
// zero. The export format prints exactly this many digits, so rounding here
// keeps in-memory values identical to their serialized form.
func Round7(v float64) float64 {
	return math.Round(v*1e7) / 1e7
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are cleaned and lowercased for case-insensitive lookups; when a name
// appears twice the leftmost column wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}
