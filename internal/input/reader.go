// Package input loads collar telemetry exports from disk into the tabular
// form the converter works on. It handles delimited text (CSV, TSV) and
// Excel workbooks, and cleans up the encoding artifacts field software
// leaves behind: UTF-8 BOMs, Latin-1 bytes, ragged rows, stray quotes.
package input

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wildtel/collarcsv/internal/core"
)

// DefaultMaxFileSize caps input reads at 100 MB. A season of collar fixes is
// a few MB; anything larger is almost certainly the wrong file.
const DefaultMaxFileSize int64 = 100 << 20

// sniffBufferSize is how much of the stream the delimiter sniffer may see.
const sniffBufferSize = 64 << 10

// Options controls how an input file is read.
type Options struct {
	// Delimiter forces the field separator. Zero means sniff it from the
	// first lines of the file.
	Delimiter byte

	// SniffLines is how many sample lines the sniffer checks for a
	// consistent split. Zero means core.DefaultSniffLines.
	SniffLines int

	// MaxSize is the input size cap in bytes. Zero means DefaultMaxFileSize.
	MaxSize int64
}

func (o Options) maxSize() int64 {
	if o.MaxSize > 0 {
		return o.MaxSize
	}
	return DefaultMaxFileSize
}

// Load reads the file at path into a RawTable. The extension picks the
// loader: delimited text or an Excel workbook. A path of "-" reads delimited
// text from stdin.
func Load(path string, opts Options) (*core.RawTable, error) {
	if path == "-" {
		return ParseStream(os.Stdin, "stdin", opts)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if info.Size() > opts.maxSize() {
		return nil, fmt.Errorf("file too large: %d bytes exceeds %d byte limit", info.Size(), opts.maxSize())
	}

	source := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return ParseStream(f, source, opts)
	case ".xlsx":
		return loadWorkbook(path, source)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ParseText parses delimited text held in memory.
func ParseText(data []byte, source string, opts Options) (*core.RawTable, error) {
	return ParseStream(bytes.NewReader(data), source, opts)
}

// ParseStream parses delimited text from r. The stream is capped at the
// configured size, stripped of a leading BOM, and sanitized to valid UTF-8
// before the CSV reader sees it. When no delimiter is forced, the sniffer
// runs on a buffered prefix of the stream.
func ParseStream(r io.Reader, source string, opts Options) (*core.RawTable, error) {
	br := bufio.NewReaderSize(&capReader{r: r, limit: opts.maxSize()}, sniffBufferSize)
	skipBOM(br)

	delim := opts.Delimiter
	if delim == 0 {
		sample, err := br.Peek(sniffBufferSize)
		if len(sample) == 0 && err != nil && err != io.EOF {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		delim, err = core.SniffDelimiter(sample, opts.SniffLines)
		if err != nil {
			return nil, fmt.Errorf("sniff %s: %w", source, err)
		}
	}

	cr := csv.NewReader(newUTF8Sanitizer(br))
	cr.Comma = rune(delim)
	cr.FieldsPerRecord = -1 // hand-edited exports have ragged rows; keep them
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return tableFromRecords(records, source)
}

// tableFromRecords shapes parsed records into a RawTable. The first record
// is the header row by contract.
func tableFromRecords(records [][]string, source string) (*core.RawTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", source, core.ErrEmptyFile)
	}
	return &core.RawTable{
		Source:  source,
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}
