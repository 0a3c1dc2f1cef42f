package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wildtel/collarcsv/internal/config"
	"github.com/wildtel/collarcsv/internal/core"
)

const fixtureCSV = "CollarID;Timestamp;Latitude;Longitude\n" +
	"12345;2024-01-15 10:00:00;63.43051899;10.39513499\n" +
	"12345;2024-01-15 11:00:00;63.43100000;10.39600000\n" +
	"98765;2024-01-10 08:00:00;59.90000000;10.75000000\n"

func testConfig() *config.Config {
	return &config.Config{
		Input:   config.InputConfig{MaxFileSize: 1 << 20, SniffLines: 5},
		Convert: config.ConvertConfig{PreviewRows: 500, Dedupe: true},
	}
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

// ============================================================================
// Conversion Runs
// ============================================================================

func TestRunConvertsFile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "fixes_converted.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"serialnumber";"time";"latitude";"longitude"`) {
		t.Errorf("output missing header:\n%s", out)
	}
	if !strings.Contains(out, `"12345";"2024-01-15 10:00:00";"63.4305190";"10.3951350"`) {
		t.Errorf("output missing normalized row:\n%s", out)
	}
	if !strings.Contains(stderr.String(), "Converted 3 of 3 rows") {
		t.Errorf("summary not printed, stderr: %s", stderr.String())
	}
}

func TestRunExplicitOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)
	out := filepath.Join(dir, "custom.csv")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-o", out, in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output at %s: %v", out, err)
	}
}

func TestRunStartFilter(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-start", "2024-01-12", in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "Converted 2 of 3 rows") {
		t.Errorf("expected one filtered row, stderr: %s", stderr.String())
	}
	data, _ := os.ReadFile(filepath.Join(dir, "fixes_converted.csv"))
	if strings.Contains(string(data), "98765") {
		t.Errorf("filtered collar leaked into output:\n%s", data)
	}
}

func TestRunMapOverrides(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "skjema.csv",
		"Halsband;Tidspunkt;Bredde;Lengde\n"+
			"A-1;2024-01-15 10:00:00;63.4;10.4\n")

	args := []string{
		"-map", "serialnumber=Halsband",
		"-map", "time=Tidspunkt",
		"-map", "latitude=Bredde",
		"-map", "longitude=Lengde",
		in,
	}
	var stdout, stderr bytes.Buffer
	if code := run(args, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	data, _ := os.ReadFile(filepath.Join(dir, "skjema_converted.csv"))
	if !strings.Contains(string(data), `"A-1"`) {
		t.Errorf("override mapping not applied:\n%s", data)
	}
}

func TestRunUnmappedColumn(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv",
		"CollarID;Timestamp;Latitude\n"+
			"12345;2024-01-15 10:00:00;63.4\n")

	var stdout, stderr bytes.Buffer
	if code := run([]string{in}, testConfig(), &stdout, &stderr); code != 1 {
		t.Fatalf("run returned %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "CFG002") {
		t.Errorf("expected CFG002 in stderr: %s", stderr.String())
	}
}

func TestRunRejectsExport(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv",
		"CollarID;Timestamp;Latitude;Longitude\n"+
			"12345;2024-01-15 10:00:00;63.4;10.4\n"+
			"12345;2024-01-15 11:00:00;200.0;10.4\n")
	rejects := filepath.Join(dir, "rejects.csv")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-rejects", rejects, in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	data, err := os.ReadFile(rejects)
	if err != nil {
		t.Fatalf("read rejects: %v", err)
	}
	if !strings.Contains(string(data), "_error") || !strings.Contains(string(data), "GEO002") {
		t.Errorf("rejects file missing diagnostic:\n%s", data)
	}
}

func TestRunStats(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-stats", in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "SERIAL") || !strings.Contains(out, "12345") {
		t.Errorf("stats table not printed:\n%s", out)
	}
}

// ============================================================================
// Preview and Profile Modes
// ============================================================================

func TestRunPreviewWritesNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-preview", in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "Field mapping:") {
		t.Errorf("preview missing mapping:\n%s", out)
	}
	if !strings.Contains(out, `"serialnumber";"time";"latitude";"longitude"`) {
		t.Errorf("preview missing sample rows:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "fixes_converted.csv")); !os.IsNotExist(err) {
		t.Errorf("preview wrote an output file, stat err = %v", err)
	}
}

func TestRunEmitProfile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-emit-profile", in}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "name: fixes") {
		t.Errorf("emitted profile missing name:\n%s", out)
	}
	if !strings.Contains(out, "serialnumber: CollarID") {
		t.Errorf("emitted profile missing mapping:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "fixes_converted.csv")); !os.IsNotExist(err) {
		t.Errorf("emit-profile wrote an output file, stat err = %v", err)
	}
}

func TestRunProfileFromDirectory(t *testing.T) {
	dir := t.TempDir()
	profDir := filepath.Join(dir, "profiles")
	if err := os.Mkdir(profDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeInput(t, profDir, "halsband.yaml",
		"name: test-halsband\n"+
			"vendor: Test\n"+
			"headers:\n"+
			"  - Halsband\n"+
			"  - Tidspunkt\n"+
			"  - Bredde\n"+
			"  - Lengde\n"+
			"mapping:\n"+
			"  serialnumber: Halsband\n"+
			"  time: Tidspunkt\n"+
			"  latitude: Bredde\n"+
			"  longitude: Lengde\n")
	in := writeInput(t, dir, "skjema.csv",
		"Halsband;Tidspunkt;Bredde;Lengde\n"+
			"A-1;2024-01-15 10:00:00;63.4;10.4\n")

	args := []string{"-profiles", profDir, "-profile", "test-halsband", in}
	var stdout, stderr bytes.Buffer
	if code := run(args, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	data, _ := os.ReadFile(filepath.Join(dir, "skjema_converted.csv"))
	if !strings.Contains(string(data), `"A-1"`) {
		t.Errorf("profile mapping not applied:\n%s", data)
	}
}

func TestRunListProfiles(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-list-profiles"}, testConfig(), &stdout, &stderr); code != 0 {
		t.Fatalf("run returned %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "vectronic-gps-plus") || !strings.Contains(out, "Vectronic") {
		t.Errorf("stock profiles not listed:\n%s", out)
	}
}

func TestRunUnknownProfile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-profile", "no-such-profile", in}, testConfig(), &stdout, &stderr); code != 1 {
		t.Fatalf("run returned %d, want 1", code)
	}
}

// ============================================================================
// Usage Errors
// ============================================================================

func TestRunMissingInputArg(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, testConfig(), &stdout, &stderr); code != 2 {
		t.Fatalf("run returned %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "expected exactly one input") {
		t.Errorf("usage hint missing: %s", stderr.String())
	}
}

func TestRunBadDelimiterFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "fixes.csv", fixtureCSV)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-delimiter", "ab", in}, testConfig(), &stdout, &stderr); code != 2 {
		t.Fatalf("run returned %d, want 2", code)
	}
}

func TestRunBadMapFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-map", "elevation=Alt", "in.csv"}, testConfig(), &stdout, &stderr); code != 2 {
		t.Fatalf("run returned %d, want 2", code)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    byte
		wantErr bool
	}{
		{name: "empty means sniff", input: "", want: 0},
		{name: "tab keyword", input: "tab", want: '\t'},
		{name: "escaped tab", input: `\t`, want: '\t'},
		{name: "semicolon", input: ";", want: ';'},
		{name: "comma", input: ",", want: ','},
		{name: "multi-character", input: "ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDelimiter(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseDelimiter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "-", want: "converted.csv"},
		{input: "fixes.csv", want: "fixes_converted.csv"},
		{input: "data/fixes.xlsx", want: "data/fixes_converted.csv"},
		{input: "noext", want: "noext_converted.csv"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.input); got != tt.want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMergeFilters(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	base := core.FilterConfig{
		Start:     jan,
		PerSerial: map[string]time.Time{"111": jan},
	}
	override := core.FilterConfig{
		Start:     feb,
		PerSerial: map[string]time.Time{"222": feb},
	}

	merged := mergeFilters(base, override)
	if !merged.Start.Equal(feb) {
		t.Errorf("Start = %v, want %v", merged.Start, feb)
	}
	if len(merged.PerSerial) != 2 {
		t.Fatalf("PerSerial has %d entries, want 2", len(merged.PerSerial))
	}
	if len(base.PerSerial) != 1 {
		t.Errorf("merge mutated the base map: %v", base.PerSerial)
	}

	unchanged := mergeFilters(base, core.FilterConfig{})
	if !unchanged.Start.Equal(jan) || len(unchanged.PerSerial) != 1 {
		t.Errorf("empty override changed the base: %+v", unchanged)
	}
}
