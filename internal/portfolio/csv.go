package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	techstackColumn = "Techstack"
	linksColumn     = "Links"
)

// ReadCSV parses a portfolio CSV with a header row containing the Techstack
// and Links columns. Column order does not matter and extra columns are
// ignored. Empty cells are kept; Load decides what to do with them.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv has no header row", ErrConfiguration)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	techIdx, linkIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case techstackColumn:
			techIdx = i
		case linksColumn:
			linkIdx = i
		}
	}
	if techIdx < 0 || linkIdx < 0 {
		return nil, fmt.Errorf("%w: csv needs %q and %q columns, got %v",
			ErrConfiguration, techstackColumn, linksColumn, header)
	}

	entries := []Entry{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		entries = append(entries, Entry{
			Techstack: field(rec, techIdx),
			Links:     field(rec, linkIdx),
		})
	}
	return entries, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
