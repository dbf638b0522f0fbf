// Package vectorindex stores text documents with their embeddings in named,
// durable collections and answers nearest-neighbour queries over them.
package vectorindex

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
)

// Document is a single entry in a collection. Content is what gets embedded.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Result is a query hit, ordered by descending Similarity.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// Collection is an open handle on one named collection. A handle is owned by
// whoever opened it and must be closed by them.
type Collection interface {
	Name() string
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, docs []Document) error
	// Query returns at most n documents most similar to text. Fewer are
	// returned when the collection holds fewer than n documents.
	Query(ctx context.Context, text string, n int) ([]Result, error)
	// Clear drops every document, leaving an empty collection behind.
	Clear(ctx context.Context) error
	Close() error
}

// Opener opens the named collection, creating it if it does not exist yet.
// Opening an existing collection reattaches to its contents.
type Opener func(ctx context.Context, name string) (Collection, error)

var (
	ErrEmptyName  = errors.New("vectorindex: empty collection name")
	ErrEmptyQuery = errors.New("vectorindex: empty query text")
)

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, errors.New("vectorindex: corrupt embedding blob")
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
