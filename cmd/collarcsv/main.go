// Command collarcsv converts GPS collar export files into the normalized
// semicolon CSV layout (serialnumber, time, latitude, longitude).
//
// Usage:
//
//	collarcsv [flags] <input.csv|input.xlsx|->
//
// The input may be a delimited text file, an Excel workbook, or - for stdin.
// Column mapping is resolved from a vendor profile (-profile), from header
// synonyms, or from explicit -map overrides, in that order of precedence.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/wildtel/collarcsv/internal/config"
	"github.com/wildtel/collarcsv/internal/core"
	"github.com/wildtel/collarcsv/internal/export"
	"github.com/wildtel/collarcsv/internal/input"
	"github.com/wildtel/collarcsv/internal/logging"
	"github.com/wildtel/collarcsv/internal/profile"
	_ "github.com/wildtel/collarcsv/internal/profile/builtin" // Register stock profiles
	"github.com/wildtel/collarcsv/internal/report"
)

// previewSampleRows caps how many normalized rows -preview prints.
const previewSampleRows = 10

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars).
	// The outcome is logged after Setup so it honors the configured level.
	envErr := godotenv.Overload()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}

	slog.Debug("configuration loaded",
		"max_file_size", cfg.Input.MaxFileSize,
		"preview_rows", cfg.Convert.PreviewRows,
		"dedupe", cfg.Convert.Dedupe,
	)

	// Log registered profiles
	slog.Debug("profiles registered",
		"count", profile.Count(),
		"vendors", len(profile.Vendors()),
	)
	for _, vendor := range profile.Vendors() {
		slog.Debug("profile vendor", "vendor", vendor, "profiles", len(profile.ByVendor(vendor)))
	}

	os.Exit(run(os.Args[1:], cfg, os.Stdout, os.Stderr))
}

// run drives one conversion. It is separated from main so tests can call it
// with their own arguments and streams; the return value is the exit code.
func run(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("collarcsv", flag.ContinueOnError)
	fs.SetOutput(stderr)

	outPath := fs.String("o", "", "output path (default: input name with _converted.csv suffix)")
	profileName := fs.String("profile", "", "vendor profile to apply (see -list-profiles)")
	profilesDir := fs.String("profiles", "", "directory of additional profile YAML files")
	delimFlag := fs.String("delimiter", "", "field delimiter override: a single character or 'tab'")
	timeFormatFlag := fs.String("time-format", "", "Go layout tried before the built-in timestamp formats")
	startFlag := fs.String("start", "", "drop fixes before this date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)")
	filtersPath := fs.String("filters", "", "YAML file with global and per-collar start dates")
	dedupeFlag := fs.Bool("dedupe", cfg.Convert.Dedupe, "nudge duplicate timestamps per collar by one second")
	preview := fs.Bool("preview", false, "normalize a row prefix and print the mapping and sample rows without writing output")
	emitProfile := fs.Bool("emit-profile", false, "print the resolved mapping as a reusable profile YAML and skip the output file")
	statsFlag := fs.Bool("stats", false, "print per-collar fix counts and interval statistics")
	rejectsPath := fs.String("rejects", "", "write rows that were skipped or filtered to this CSV file")
	listProfiles := fs.Bool("list-profiles", false, "list registered profiles and exit")

	var overrides map[core.TargetField]string
	fs.Func("map", "field=header column override, repeatable; field is one of serialnumber, time, latitude, longitude", func(s string) error {
		field, header, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("want field=header, got %q", s)
		}
		f := core.TargetField(strings.ToLower(strings.TrimSpace(field)))
		if !validTargetField(f) {
			return fmt.Errorf("unknown field %q", field)
		}
		if overrides == nil {
			overrides = make(map[core.TargetField]string)
		}
		overrides[f] = strings.TrimSpace(header)
		return nil
	})

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: collarcsv [flags] <input.csv|input.xlsx|->\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	// User profiles join the stock registry before listing or matching.
	profileDir := *profilesDir
	if profileDir == "" {
		profileDir = cfg.Profiles.Dir
	}
	if profileDir != "" {
		n, err := profile.LoadDir(profileDir)
		if err != nil {
			return fail(stderr, err)
		}
		slog.Debug("profiles loaded", "dir", profileDir, "count", n)
	}

	if *listProfiles {
		printProfiles(stdout)
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one input file (or - for stdin)")
		fs.Usage()
		return 2
	}

	delim, err := parseDelimiter(*delimFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	table, err := input.Load(fs.Arg(0), input.Options{
		Delimiter:  delim,
		SniffLines: cfg.Input.SniffLines,
		MaxSize:    cfg.Input.MaxFileSize,
	})
	if err != nil {
		return fail(stderr, err)
	}

	var prof *profile.Profile
	if *profileName != "" {
		p, ok := profile.Get(*profileName)
		if !ok {
			return fail(stderr, fmt.Errorf("unknown profile %q (use -list-profiles to see what is registered)", *profileName))
		}
		prof = &p
	}

	mapping := core.NewFieldMapping()
	if prof != nil {
		m, err := prof.Resolve(table.Headers)
		if err != nil {
			return fail(stderr, err)
		}
		mapping = m
	} else if matches := profile.MatchHeaders(table.Headers); len(matches) > 0 {
		best := matches[0]
		slog.Debug("profile match", "profile", best.Profile.Name, "score", best.Score)
		fmt.Fprintf(stderr, "Headers match profile %q; pass -profile %s to apply it.\n",
			best.Profile.Name, best.Profile.Name)
	}

	// Header synonyms fill whatever the profile left unset.
	suggested := core.SuggestMapping(table.Headers)
	for _, f := range core.TargetFields {
		if mapping.Index(f) == core.Unset {
			mapping.Set(f, suggested.Index(f))
		}
	}

	// Explicit -map flags override both.
	if len(overrides) > 0 {
		hidx := core.MakeHeaderIndex(table.Headers)
		for f, header := range overrides {
			idx, ok := hidx[strings.ToLower(core.CleanCell(header))]
			if !ok {
				return fail(stderr, fmt.Errorf("column %q not found in %s", header, table.Source))
			}
			mapping.Set(f, idx)
		}
	}

	if !mapping.Complete() {
		if *preview {
			printMapping(stdout, table.Headers, mapping)
		}
		return fail(stderr, &core.UnmappedFieldError{Missing: mapping.Missing()})
	}

	filters := core.FilterConfig{}
	if prof != nil {
		filters = prof.FilterConfig()
	}
	if *filtersPath != "" {
		fromFile, err := profile.LoadFilters(*filtersPath)
		if err != nil {
			return fail(stderr, err)
		}
		filters = mergeFilters(filters, fromFile)
	}
	if *startFlag != "" {
		start, err := profile.ParseTime(*startFlag)
		if err != nil {
			return fail(stderr, err)
		}
		filters.Start = start
	}

	dedupe := cfg.Convert.Dedupe
	if prof != nil && prof.Dedupe != nil {
		dedupe = *prof.Dedupe
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "dedupe" {
			dedupe = *dedupeFlag
		}
	})

	timeFormat := *timeFormatFlag
	if timeFormat == "" && prof != nil {
		timeFormat = prof.TimestampFormat
	}

	if *preview {
		table = table.Prefix(cfg.Convert.PreviewRows)
	}

	opts := core.Options{Dedupe: dedupe, TimestampFormat: timeFormat}
	result, err := core.Normalize(table, mapping, filters, opts)
	if err != nil {
		return fail(stderr, err)
	}

	ctx := logging.WithConversionID(context.Background(), result.ConversionID)
	s := result.Summarize()
	logging.FromContext(ctx).Debug("conversion completed",
		"source", table.Source,
		"total_rows", s.TotalRows,
		"emitted", s.Emitted,
		"filtered", s.Filtered,
		"skipped", s.Skipped,
		"nudged", s.Nudged,
		"duration", result.Duration,
	)

	report.WriteSummary(stderr, result)

	if *statsFlag {
		report.WriteCollars(stdout, report.Collars(result.Rows))
	}

	if *rejectsPath != "" {
		if err := export.WriteRejectsFile(*rejectsPath, table, result.Diagnostics); err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stderr, "Wrote %d rejected rows to %s\n", len(result.Diagnostics), *rejectsPath)
	}

	if *emitProfile {
		p := buildProfile(table, mapping, opts)
		data, err := p.Emit()
		if err != nil {
			return fail(stderr, err)
		}
		stdout.Write(data)
		return 0
	}

	if *preview {
		printMapping(stdout, table.Headers, mapping)
		sample := result.Rows
		if len(sample) > previewSampleRows {
			sample = sample[:previewSampleRows]
		}
		fmt.Fprintf(stdout, "\nFirst %d normalized rows:\n", len(sample))
		if err := export.WriteCSV(stdout, sample); err != nil {
			return fail(stderr, err)
		}
		return 0
	}

	out := *outPath
	if out == "" {
		out = defaultOutputPath(fs.Arg(0))
	}
	if err := export.WriteFile(out, result.Rows); err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stderr, "Wrote %d rows to %s\n", len(result.Rows), out)
	return 0
}

// fail logs the technical error and prints the user-facing message.
func fail(stderr io.Writer, err error) int {
	ue := core.NewUserError(err)
	slog.Error("conversion failed", "error", err, "code", ue.User.Code)
	fmt.Fprintln(stderr, core.FormatUserError(err))
	return 1
}

func validTargetField(f core.TargetField) bool {
	for _, t := range core.TargetFields {
		if f == t {
			return true
		}
	}
	return false
}

// parseDelimiter turns the -delimiter flag value into a byte. Empty means
// sniff; "tab" and the escaped form both mean a tab.
func parseDelimiter(s string) (byte, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character or 'tab', got %q", s)
	}
	return s[0], nil
}

// mergeFilters overlays o onto base without mutating either: a set start
// wins, per-serial entries merge with o taking precedence.
func mergeFilters(base, o core.FilterConfig) core.FilterConfig {
	out := base
	if !o.Start.IsZero() {
		out.Start = o.Start
	}
	if len(o.PerSerial) > 0 {
		merged := make(map[string]time.Time, len(base.PerSerial)+len(o.PerSerial))
		for k, v := range base.PerSerial {
			merged[k] = v
		}
		for k, v := range o.PerSerial {
			merged[k] = v
		}
		out.PerSerial = merged
	}
	return out
}

// buildProfile captures the resolved mapping as a reusable profile. Filters
// are left out: a start date belongs to one conversion run, not to the file
// layout the profile describes.
func buildProfile(table *core.RawTable, mapping core.FieldMapping, opts core.Options) profile.Profile {
	m := make(map[string]string, len(core.TargetFields))
	for _, f := range core.TargetFields {
		if idx := mapping.Index(f); idx != core.Unset {
			m[string(f)] = core.CleanCell(table.Headers[idx])
		}
	}
	headers := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		headers[i] = core.CleanCell(h)
	}
	dedupe := opts.Dedupe
	return profile.Profile{
		Name:            profileNameFor(table.Source),
		Headers:         headers,
		Mapping:         m,
		TimestampFormat: opts.TimestampFormat,
		Dedupe:          &dedupe,
	}
}

func profileNameFor(source string) string {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	if name == "" {
		return "custom"
	}
	return name
}

func defaultOutputPath(in string) string {
	if in == "-" {
		return "converted.csv"
	}
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_converted.csv"
}

func printMapping(w io.Writer, headers []string, mapping core.FieldMapping) {
	fmt.Fprintln(w, "Field mapping:")
	for _, f := range core.TargetFields {
		idx := mapping.Index(f)
		if idx == core.Unset {
			fmt.Fprintf(w, "  %-12s -> (unmapped)\n", f)
			continue
		}
		fmt.Fprintf(w, "  %-12s -> column %d (%s)\n", f, idx+1, core.CleanCell(headers[idx]))
	}
}

func printProfiles(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVENDOR\tHEADERS")
	for _, p := range profile.All() {
		vendor := p.Vendor
		if vendor == "" {
			vendor = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", p.Name, vendor, len(p.Headers))
	}
	tw.Flush()
}
