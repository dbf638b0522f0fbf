// Package embed turns text into vectors for the portfolio index.
package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Func embeds a single piece of text.
type Func func(ctx context.Context, text string) ([]float32, error)

// DefaultHashingDims is the vector size used by Hashing when dims <= 0.
const DefaultHashingDims = 512

// Hashing returns a deterministic lexical embedder. Each token is hashed into
// one of dims buckets and the resulting count vector is L2-normalised, so
// texts sharing skill names end up close to each other. It needs no network
// and is what tests and offline runs use.
func Hashing(dims int) Func {
	if dims <= 0 {
		dims = DefaultHashingDims
	}
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, dims)
		for _, tok := range Tokenize(text) {
			h := fnv.New32a()
			h.Write([]byte(tok))
			vec[h.Sum32()%uint32(dims)]++
		}
		return Normalize(vec), nil
	}
}

// Tokenize lowercases text and splits it on anything that cannot be part of
// a skill name. '+', '#' and inner dots are kept so "C++", "C#" and "Node.js"
// survive as single tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.')
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Normalize scales v to unit length in place. A zero vector is returned as is.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
