// Package tabular reads and writes the CSV files the sales console exchanges
// with the outside world: the purchase export and the seed catalogs.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RowError reports a problem with one data row. Line is the file line the
// record starts on, counting the header as 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// header maps lower-cased column names to their index.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		c = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))
		if _, dup := h[c]; !dup {
			h[c] = i
		}
	}
	return h
}

func (h header) has(names ...string) bool {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return false
		}
	}
	return true
}

// get returns the trimmed value of the first present column among names.
func (h header) get(rec []string, names ...string) string {
	for _, n := range names {
		if i, ok := h[n]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
	}
	return ""
}

// readAll reads the header and every record, calling fn per data row with
// the line the record starts on. Row errors are collected so a caller sees
// every bad line at once.
func readAll(r io.Reader, check func(h header) error, fn func(h header, rec []string, line int) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	cols, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("file is empty")
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	h := newHeader(cols)
	if err := check(h); err != nil {
		return err
	}

	var errs []error
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return fmt.Errorf("read record: %w", err)
			}
			errs = append(errs, &RowError{Line: pe.StartLine, Err: pe.Err})
			continue
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if err := fn(h, rec, line); err != nil {
			errs = append(errs, &RowError{Line: line, Err: err})
		}
	}
	return errors.Join(errs...)
}

// requireColumns checks that every named column is present.
func requireColumns(names ...string) func(header) error {
	return func(h header) error {
		if !h.has(names...) {
			return fmt.Errorf("header must contain columns %s", strings.Join(names, ","))
		}
		return nil
	}
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
