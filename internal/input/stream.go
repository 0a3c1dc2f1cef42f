package input

// stream.go provides the reader pipeline behind the text loader. The wrappers
// fix up common export artifacts without materializing the whole file first:
//
//   - capReader fails the stream once it exceeds the configured size limit,
//     the only enforcement available for unseekable inputs such as stdin
//   - skipBOM drops the UTF-8 byte order mark Windows tools prepend
//   - utf8Sanitizer replaces invalid byte sequences with U+FFFD so the CSV
//     parser never sees broken encoding from legacy Latin-1 exports

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var (
	utf8BOM     = []byte{0xEF, 0xBB, 0xBF}
	replacement = []byte("�")
)

// capReader fails the stream after limit bytes. The file loader stats ahead
// where it can; this guards inputs that cannot be statted.
type capReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.limit > 0 && c.read > c.limit {
		return n, fmt.Errorf("file too large: input exceeds %d byte limit", c.limit)
	}
	return n, err
}

// skipBOM discards a leading UTF-8 byte order mark, if present.
func skipBOM(br *bufio.Reader) {
	lead, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
}

// utf8Sanitizer wraps a reader and replaces invalid UTF-8 sequences with
// U+FFFD as bytes flow through. A multi-byte rune split across two source
// reads is carried over to the next chunk rather than mangled.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte // scratch for source reads
	out     []byte // sanitized bytes not yet handed out
	pending []byte // possible split sequence held for the next fill
	err     error  // source error, delivered once out drains
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, buf: make([]byte, 4096)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads one chunk from the source and sanitizes it into s.out.
func (s *utf8Sanitizer) fill() {
	n, err := s.r.Read(s.buf)

	chunk := s.buf[:n]
	if len(s.pending) > 0 {
		chunk = append(s.pending, chunk...)
		s.pending = nil
	}

	if err != nil {
		// Flush everything: a sequence still split at stream end is invalid.
		s.err = err
		s.out = bytes.ToValidUTF8(chunk, replacement)
		return
	}

	if hold := incompleteTrailing(chunk); hold > 0 {
		s.pending = append([]byte(nil), chunk[len(chunk)-hold:]...)
		chunk = chunk[:len(chunk)-hold]
	}

	if utf8.Valid(chunk) {
		s.out = chunk
		return
	}
	s.out = bytes.ToValidUTF8(chunk, replacement)
}

// incompleteTrailing reports how many bytes at the end of data form the start
// of a multi-byte UTF-8 sequence whose remainder has not arrived yet.
func incompleteTrailing(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		switch {
		case b >= 0xC0: // lead byte of a multi-byte sequence
			if seqLen(b) > i {
				return i
			}
			return 0
		case b&0xC0 != 0x80: // ASCII byte, so nothing is split
			return 0
		}
	}
	return 0
}

// seqLen returns the declared length of the sequence a lead byte opens.
func seqLen(lead byte) int {
	switch {
	case lead < 0xE0:
		return 2
	case lead < 0xF0:
		return 3
	default:
		return 4
	}
}
