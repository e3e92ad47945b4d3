// Package catalogparser loads a medication catalog from tab-separated files.
package catalogparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/giygas/polypill-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// maxLineSize bounds a single TSV line
const maxLineSize = 64 * 1024

// skipStats counts lines dropped while reading a file
type skipStats struct {
	lines          int
	comments       int
	emptyLines     int
	missingColumns int
	formatErrors   int
}

func (s skipStats) skipped() int {
	return s.missingColumns + s.formatErrors
}

func (s skipStats) log(file string, parsed int) {
	if s.skipped() == 0 {
		return
	}
	logging.Info(file+" skip statistics",
		"empty_lines", s.emptyLines,
		"comments", s.comments,
		"missing_columns", s.missingColumns,
		"format_errors", s.formatErrors,
		"total_lines", s.lines,
		"records_parsed", parsed)
}

// openDecoded reads a whole file and returns a UTF-8 reader over it.
// Files that are not valid UTF-8 are decoded from ISO-8859-1.
func openDecoded(path string) (io.Reader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}

	logging.Debug("Decoding catalog file as ISO-8859-1", "path", path)
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw)), nil
}

// scanRows calls fn with the fields of every data line, skipping blank lines
// and '#' comments. fn returns false when a line is malformed.
func scanRows(r io.Reader, minColumns int, fn func(fields []string) bool) (skipStats, error) {
	var stats skipStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		stats.lines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			stats.emptyLines++
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			stats.comments++
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minColumns {
			stats.missingColumns++
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if !fn(fields) {
			stats.formatErrors++
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scanner error: %w", err)
	}
	return stats, nil
}
