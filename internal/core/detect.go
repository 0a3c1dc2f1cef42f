package core

// detect.go implements input schema detection: delimiter sniffing and
// header-to-field mapping suggestions. Detection is best-effort and always
// overridable; nothing here guesses past ambiguity.

import (
	"bytes"
	"strings"
)

// DelimiterCandidates are the delimiters tried by SniffDelimiter, in
// preference order for tie-breaking.
var DelimiterCandidates = []byte{',', ';', '\t', '|'}

// DefaultSniffLines is how many leading non-empty lines SniffDelimiter
// samples when the caller passes a non-positive count.
const DefaultSniffLines = 5

// SniffDelimiter picks the column delimiter for raw file data. Each
// candidate splits the first few non-empty lines; a candidate qualifies only
// when every sampled line yields the same column count and that count is
// greater than one. Ties go to the candidate producing more columns, then to
// candidate order. Quoting is ignored while sniffing.
//
// When no candidate qualifies the result is ErrDelimiterAmbiguous and the
// caller must supply the delimiter explicitly. Guessing a delimiter that
// merges columns would corrupt coordinates silently, so ambiguity is fatal.
func SniffDelimiter(data []byte, maxLines int) (byte, error) {
	if maxLines <= 0 {
		maxLines = DefaultSniffLines
	}

	lines := sampleLines(data, maxLines)
	if len(lines) == 0 {
		return 0, ErrEmptyFile
	}

	var best byte
	bestCols := 1
	for _, cand := range DelimiterCandidates {
		cols := strings.Count(lines[0], string(cand)) + 1
		if cols <= 1 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand))+1 != cols {
				consistent = false
				break
			}
		}
		if consistent && cols > bestCols {
			best = cand
			bestCols = cols
		}
	}

	if best == 0 {
		return 0, ErrDelimiterAmbiguous
	}
	return best, nil
}

// sampleLines returns up to maxLines leading non-empty lines, with line
// endings stripped.
func sampleLines(data []byte, maxLines int) []string {
	var lines []string
	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := strings.TrimRight(string(raw), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLines {
			break
		}
	}
	return lines
}

// fieldSynonyms lists recognized header names per target field, in priority
// order: the first synonym with a matching column wins, and for one synonym
// the leftmost matching column wins. Matching is case-insensitive on cleaned
// headers. The lists merge the header vocabularies of the collar vendors we
// see in the field (Vectronic, Lotek, Followit, generic GIS exports).
var fieldSynonyms = map[TargetField][]string{
	FieldSerial: {
		"collar id", "serialnumber", "serial", "device_id", "deviceid",
		"id", "collar", "collarid", "animal id", "animalid", "tag_id", "tag-id",
	},
	FieldTime: {
		"acq. time [utc]", "acq. time", "timestamp", "time", "datetime",
		"date_time", "fix_time", "gps_date", "acquisitiontime", "date",
	},
	FieldLat: {
		"latitude [deg]", "latitude", "lat", "y",
	},
	FieldLon: {
		"longitude [deg]", "longitude", "lon", "lng", "long", "x",
	},
}

// SuggestMapping guesses a column mapping from header names alone. Fields
// with no recognized header stay unset; the caller decides whether to ask
// the user or fail. Suggestions never override an explicit mapping.
func SuggestMapping(headers []string) FieldMapping {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.ToLower(CleanCell(h))
	}

	m := NewFieldMapping()
	for _, field := range TargetFields {
		for _, syn := range fieldSynonyms[field] {
			if idx := indexOf(cleaned, syn); idx != Unset {
				m.Set(field, idx)
				break
			}
		}
	}
	return m
}

// indexOf returns the first position of want in values, or Unset.
func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return Unset
}
