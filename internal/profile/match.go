package profile

import (
	"sort"
	"strings"

	"github.com/wildtel/collarcsv/internal/core"
)

// MatchThreshold is the minimum share of a profile's expected headers that
// must appear in a file before the profile is suggested.
const MatchThreshold = 0.7

// Match pairs a profile with how well a file's headers fit it.
type Match struct {
	Profile Profile
	Score   float64
}

// MatchHeaders scores every registered profile against the given file
// headers and returns those at or above MatchThreshold, best first.
func MatchHeaders(headers []string) []Match {
	var matches []Match
	for _, p := range All() {
		score := headerScore(headers, p.Headers)
		if score >= MatchThreshold {
			matches = append(matches, Match{Profile: p, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Profile.Name < matches[j].Profile.Name
	})

	return matches
}

// headerScore calculates how well file headers cover a profile's headers.
func headerScore(fileHeaders, profileHeaders []string) float64 {
	if len(profileHeaders) == 0 {
		return 0
	}

	fileSet := make(map[string]bool)
	for _, h := range fileHeaders {
		fileSet[normalizeHeader(h)] = true
	}

	matched := 0
	for _, h := range profileHeaders {
		if fileSet[normalizeHeader(h)] {
			matched++
		}
	}

	return float64(matched) / float64(len(profileHeaders))
}

func normalizeHeader(h string) string {
	return strings.ToLower(core.CleanCell(h))
}
