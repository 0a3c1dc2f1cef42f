package core

import (
	"testing"
	"time"
)

func TestParseTimestampFallbackChain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // expected result in OutputTimeLayout, "" for failure
	}{
		{
			name:  "iso with seconds",
			input: "2024-01-15T10:00:00",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "iso without seconds",
			input: "2024-01-15T10:00",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "iso with milliseconds truncates",
			input: "2024-01-15T10:00:00.457",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "iso zulu",
			input: "2024-01-15T10:00:00Z",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "zoned iso normalizes to utc",
			input: "2024-01-15T10:00:00+02:00",
			want:  "2024-01-15 08:00:00",
		},
		{
			name:  "space separated datetime",
			input: "2024-01-15 10:00:00",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "space separated without seconds",
			input: "2024-01-15 10:00",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "space separated with fraction",
			input: "2024-01-15 10:00:00.5",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "us datetime",
			input: "01/15/2024 10:00:00",
			want:  "2024-01-15 10:00:00",
		},
		{
			name:  "eu datetime when day exceeds twelve",
			input: "25/12/2024 10:00:00",
			want:  "2024-12-25 10:00:00",
		},
		{
			name: "ambiguous slash date reads as us",
			// Both layouts accept it; the US layout comes first in the chain.
			input: "03/04/2024 10:00:00",
			want:  "2024-03-04 10:00:00",
		},
		{
			name:  "date only is midnight",
			input: "2024-01-15",
			want:  "2024-01-15 00:00:00",
		},
		{
			name:  "us date only",
			input: "01/15/2024",
			want:  "2024-01-15 00:00:00",
		},
		{
			name:  "eu date only",
			input: "25/12/2024",
			want:  "2024-12-25 00:00:00",
		},
		{
			name:  "unparseable text",
			input: "next tuesday",
			want:  "",
		},
		{
			name:  "empty cell",
			input: "",
			want:  "",
		},
		{
			name:  "epoch seconds are not supported",
			input: "1705312800",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ParseTimestamp(tt.input, "")
			if tt.want == "" {
				if reason != TimestampUnparseable {
					t.Fatalf("ParseTimestamp(%q) reason = %q, want %q", tt.input, reason, TimestampUnparseable)
				}
				return
			}
			if reason != "" {
				t.Fatalf("ParseTimestamp(%q) unexpected reason %q", tt.input, reason)
			}
			if got.Format(OutputTimeLayout) != tt.want {
				t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.input, got.Format(OutputTimeLayout), tt.want)
			}
		})
	}
}

func TestParseTimestampMixedFormatsInOneColumn(t *testing.T) {
	// Format selection is per cell, not per file: a column mixing vendor
	// formats still converts row by row.
	inputs := []string{
		"2024-01-15T10:00:00",
		"2024-01-15 11:00:00",
		"01/15/2024 12:00:00",
		"2024-01-16",
	}
	wants := []string{
		"2024-01-15 10:00:00",
		"2024-01-15 11:00:00",
		"2024-01-15 12:00:00",
		"2024-01-16 00:00:00",
	}

	for i, in := range inputs {
		got, reason := ParseTimestamp(in, "")
		if reason != "" {
			t.Fatalf("ParseTimestamp(%q) unexpected reason %q", in, reason)
		}
		if got.Format(OutputTimeLayout) != wants[i] {
			t.Errorf("ParseTimestamp(%q) = %s, want %s", in, got.Format(OutputTimeLayout), wants[i])
		}
	}
}

func TestParseTimestampExplicitFormat(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		format     string
		want       string
		wantReason ReasonCode
	}{
		{
			name:   "matching format",
			input:  "15.01.2024 10:00:00",
			format: "02.01.2006 15:04:05",
			want:   "2024-01-15 10:00:00",
		},
		{
			name:       "mismatch is not retried against the chain",
			input:      "2024-01-15 10:00:00",
			format:     "02.01.2006 15:04:05",
			wantReason: TimestampFormatMismatch,
		},
		{
			name:       "empty cell mismatches",
			input:      "",
			format:     "2006-01-02 15:04:05",
			wantReason: TimestampFormatMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ParseTimestamp(tt.input, tt.format)
			if reason != tt.wantReason {
				t.Fatalf("ParseTimestamp(%q, %q) reason = %q, want %q", tt.input, tt.format, reason, tt.wantReason)
			}
			if tt.wantReason == "" && got.Format(OutputTimeLayout) != tt.want {
				t.Errorf("ParseTimestamp(%q, %q) = %s, want %s", tt.input, tt.format, got.Format(OutputTimeLayout), tt.want)
			}
		})
	}
}

func TestFlattenNormalizesToNaiveUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2024, 1, 15, 10, 30, 15, 500_000_000, loc)

	got := flatten(in)

	want := time.Date(2024, 1, 15, 9, 30, 15, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("flatten() = %v, want %v", got, want)
	}
	if got.Nanosecond() != 0 {
		t.Errorf("flatten() kept sub-second precision: %d", got.Nanosecond())
	}
	if got.Location() != time.UTC {
		t.Errorf("flatten() location = %v, want UTC", got.Location())
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkParseTimestamp_FirstLayout(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseTimestamp("2024-01-15T10:00:00Z", "")
	}
}

func BenchmarkParseTimestamp_LastLayout(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseTimestamp("25/12/2024", "")
	}
}

func BenchmarkParseTimestamp_Explicit(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseTimestamp("2024-01-15 10:00:00", "2006-01-02 15:04:05")
	}
}
