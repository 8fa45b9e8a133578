// Package jsonl streams line-delimited JSON record files.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"countyscan/internal/domain"
)

// County feeds contain the occasional very long legal-description line.
const maxLineBytes = 4 * 1024 * 1024

// Scan decodes one record per line from r, calling fn for each. Blank lines
// are ignored; malformed lines are logged with their line number, counted,
// and skipped. Only a read failure on the underlying stream is an error.
func Scan(r io.Reader, fn func(domain.Record)) (total, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("jsonl skipped malformed line=%d err=%v", line, err)
			skipped++
			continue
		}
		total++
		fn(rec)
	}
	if err := scanner.Err(); err != nil {
		return total, skipped, fmt.Errorf("reading input: %w", err)
	}
	return total, skipped, nil
}

// ScanFile is Scan over a file path.
func ScanFile(path string, fn func(domain.Record)) (total, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Scan(f, fn)
}
