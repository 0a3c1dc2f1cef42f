package core

// timestamp.go parses the acquisition time column. Collar exports disagree
// on timestamp formats, sometimes within a single file, so parsing tries an
// ordered chain of layouts per cell unless an exact format is configured.

import (
	"time"
)

// OutputTimeLayout is the layout every emitted timestamp is formatted with.
const OutputTimeLayout = "2006-01-02 15:04:05"

// timestampLayouts is the fallback chain, tried in order per cell. Mixed
// format columns are handled by selecting the layout per row, so two rows of
// the same file may legitimately parse under different layouts. Layouts with
// a seconds component also accept fractional seconds.
var timestampLayouts = []string{
	time.RFC3339,          // Zoned ISO; normalized to UTC, then zone dropped
	"2006-01-02T15:04:05", // ISO without zone
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05", // US
	"02/01/2006 15:04:05", // EU; only reached when the US layout rejects
	"2006-01-02",          // Date only, midnight
	"01/02/2006",
	"02/01/2006",
}

// ParseTimestamp converts a cleaned cell to a timestamp. When format is
// non-empty it is the only layout tried and a failure reports
// TimestampFormatMismatch; otherwise the fallback chain applies and
// exhausting it reports TimestampUnparseable. The returned reason is empty
// on success.
//
// Output timestamps are naive: zoned inputs are normalized to UTC and the
// zone is dropped. Sub-second precision is truncated away.
func ParseTimestamp(value, format string) (time.Time, ReasonCode) {
	if format != "" {
		t, err := time.Parse(format, value)
		if err != nil {
			return time.Time{}, TimestampFormatMismatch
		}
		return flatten(t), ""
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return flatten(t), ""
		}
	}
	return time.Time{}, TimestampUnparseable
}

// flatten reduces a parsed time to naive second precision: the zone is
// applied (UTC) and discarded, fractional seconds are dropped.
func flatten(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
