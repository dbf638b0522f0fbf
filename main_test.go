package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/outreachworker/internal/database"
	"github.com/muhammadolammi/outreachworker/internal/embed"
	"github.com/muhammadolammi/outreachworker/internal/outreach"
)

func TestToFiles(t *testing.T) {
	files := toFiles([]database.PortfolioFile{
		{ObjectKey: "u/1/cv.pdf", Mime: "application/pdf", OriginalFilename: "cv.pdf"},
		{ObjectKey: "u/1/p.csv", Mime: "text/csv", OriginalFilename: "p.csv"},
	})
	assert.Equal(t, []outreach.File{
		{ObjectKey: "u/1/cv.pdf", Mime: "application/pdf", Filename: "cv.pdf"},
		{ObjectKey: "u/1/p.csv", Mime: "text/csv", Filename: "p.csv"},
	}, files)
}

func TestFailureMessage(t *testing.T) {
	invalid := fmt.Errorf("%w: name and job url are required", outreach.ErrInvalidRequest)
	assert.Equal(t, invalid.Error(), failureMessage(invalid))
	assert.Equal(t, outreach.ErrNoPortfolio.Error(), failureMessage(outreach.ErrNoPortfolio))
	assert.Equal(t, "email generation failed", failureMessage(errors.New("pq: connection refused")))
}

func TestNewOpener(t *testing.T) {
	t.Setenv("VECTOR_BACKEND", "sqlite")
	t.Setenv("VECTORSTORE_DIR", t.TempDir())
	embedder, err := newEmbedderFor(t, "hashing")
	require.NoError(t, err)

	open, err := newOpener(embedder)
	require.NoError(t, err)
	coll, err := open(context.Background(), "portfolio")
	require.NoError(t, err)
	assert.Equal(t, "portfolio", coll.Name())
	require.NoError(t, coll.Close())

	t.Setenv("VECTOR_BACKEND", "chroma")
	_, err = newOpener(embedder)
	assert.ErrorContains(t, err, "unknown VECTOR_BACKEND")
}

func TestNewEmbedder_Unknown(t *testing.T) {
	_, err := newEmbedderFor(t, "word2vec")
	assert.ErrorContains(t, err, "unknown EMBEDDER")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("WORKER_COUNT", "")
	assert.Equal(t, 3, envInt("WORKER_COUNT", 3))
	t.Setenv("WORKER_COUNT", "5")
	assert.Equal(t, 5, envInt("WORKER_COUNT", 3))

	t.Setenv("SCRAPE_RPS", "0.5")
	assert.Equal(t, 0.5, envFloat("SCRAPE_RPS", 1))

	t.Setenv("LLM_MODEL", "")
	assert.Equal(t, "fallback", envOr("LLM_MODEL", "fallback"))
}

func newEmbedderFor(t *testing.T, name string) (embed.Func, error) {
	t.Helper()
	t.Setenv("EMBEDDER", name)
	return newEmbedder(context.Background(), "")
}
