// Package portfolio maps skill clusters to portfolio links and looks the
// links up by semantic similarity to a job's required skills.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/muhammadolammi/outreachworker/internal/vectorindex"
)

const (
	// DefaultCollection is the collection name used when none is given.
	DefaultCollection = "portfolio"
	// DefaultResults is the number of neighbours fetched per skill.
	DefaultResults = 2
	// LinkKey is the metadata key holding an entry's link.
	LinkKey = "link"
)

// Entry is one ingestible portfolio row.
type Entry struct {
	Techstack string `json:"Techstack"`
	Links     string `json:"Links"`
}

func (e Entry) valid() bool {
	return strings.TrimSpace(e.Techstack) != "" && strings.TrimSpace(e.Links) != ""
}

// Config describes where a Store gets its rows and its collection from.
// Data takes precedence over FilePath when both are set.
type Config struct {
	Data           []Entry
	FilePath       string
	CollectionName string
	Open           vectorindex.Opener
}

// LoadResult reports what a Load call did.
type LoadResult struct {
	Inserted int
	Skipped  int
	// AlreadyPopulated is true when the collection held entries before the
	// call, in which case nothing was inserted.
	AlreadyPopulated bool
}

// Store owns one open collection for its whole lifetime.
//
// A collection is populated once. Load is a no-op on a collection that
// already holds entries, so updated source data is only picked up after
// Reset.
type Store struct {
	data []Entry
	coll vectorindex.Collection
}

// New validates cfg, reads the CSV if one was given, and opens the collection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var data []Entry
	switch {
	case cfg.Data != nil:
		data = cfg.Data
	case cfg.FilePath != "":
		rows, err := readFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		data = rows
	default:
		return nil, fmt.Errorf("%w: either data or a file path must be provided", ErrConfiguration)
	}
	if cfg.Open == nil {
		return nil, fmt.Errorf("%w: no index opener", ErrConfiguration)
	}

	name := cfg.CollectionName
	if name == "" {
		name = DefaultCollection
	}
	coll, err := cfg.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: open collection %s: %w", ErrStoreUnavailable, name, err)
	}
	return &Store{data: data, coll: coll}, nil
}

func readFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s, create it with your portfolio data", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Collection returns the name of the underlying collection.
func (s *Store) Collection() string {
	return s.coll.Name()
}

// Count returns the number of entries in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.coll.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return n, nil
}

// Load ingests the store's rows if the collection is empty. Rows with an
// empty Techstack or Links are skipped and counted.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	var res LoadResult

	n, err := s.Count(ctx)
	if err != nil {
		return res, err
	}
	if n > 0 {
		res.AlreadyPopulated = true
		return res, nil
	}

	docs := make([]vectorindex.Document, 0, len(s.data))
	for _, e := range s.data {
		if !e.valid() {
			res.Skipped++
			continue
		}
		docs = append(docs, vectorindex.Document{
			ID:       uuid.NewString(),
			Content:  strings.TrimSpace(e.Techstack),
			Metadata: map[string]string{LinkKey: strings.TrimSpace(e.Links)},
		})
	}
	if res.Skipped > 0 {
		log.Printf("portfolio %s: skipped %d rows with missing Techstack or Links", s.coll.Name(), res.Skipped)
	}

	if err := s.coll.Add(ctx, docs); err != nil {
		return res, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	res.Inserted = len(docs)
	return res, nil
}

// QueryLinks runs one similarity query per skill and returns the links of
// up to n neighbours each, in encounter order. A link matching several
// skills appears once per skill. Neighbours without a link are skipped.
// n < 1 means DefaultResults.
func (s *Store) QueryLinks(ctx context.Context, skills []string, n int) ([]string, error) {
	if len(skills) == 0 {
		return nil, nil
	}
	if n < 1 {
		n = DefaultResults
	}

	var links []string
	for _, skill := range skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		results, err := s.coll.Query(ctx, skill, n)
		if err != nil {
			return nil, fmt.Errorf("%w: query %q: %w", ErrStoreUnavailable, skill, err)
		}
		for _, r := range results {
			if link, ok := r.Metadata[LinkKey]; ok {
				links = append(links, link)
			}
		}
	}
	return links, nil
}

// Reset empties the collection so the next Load ingests the current rows.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.coll.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the collection handle.
func (s *Store) Close() error {
	return s.coll.Close()
}
