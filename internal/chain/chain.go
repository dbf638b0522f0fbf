// Package chain turns scraped and uploaded text into structured records and
// writes outreach emails, using a language model for both.
package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/muhammadolammi/outreachworker/internal/portfolio"
)

// ErrParse is returned when model output cannot be decoded as JSON. The
// usual cause is truncated output from an oversized input.
var ErrParse = errors.New("context too big")

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chain holds the prompts and the model used for every step.
type Chain struct {
	gen Generator
}

func New(gen Generator) *Chain {
	return &Chain{gen: gen}
}

// Profile is the sender's information used in emails.
type Profile struct {
	Name     string `json:"name"`
	College  string `json:"college,omitempty"`
	Study    string `json:"study,omitempty"`
	Position string `json:"position,omitempty"`
}

func (p Profile) withDefaults() Profile {
	if strings.TrimSpace(p.College) == "" {
		p.College = "N/A"
	}
	if strings.TrimSpace(p.Study) == "" {
		p.Study = "N/A"
	}
	if strings.TrimSpace(p.Position) == "" {
		p.Position = "N/A"
	}
	return p
}

// ExtractJobs pulls job postings out of cleaned page text.
func (c *Chain) ExtractJobs(ctx context.Context, pageText string) ([]Job, error) {
	out, err := c.gen.Generate(ctx, extractJobsPrompt(pageText))
	if err != nil {
		return nil, fmt.Errorf("extract jobs: %w", err)
	}
	jobs, err := decodeOneOrMany[Job](out)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse jobs: %w", ErrParse, err)
	}
	return jobs, nil
}

// ExtractPortfolio pulls Techstack/Links pairs out of CV text.
func (c *Chain) ExtractPortfolio(ctx context.Context, cvText string) ([]portfolio.Entry, error) {
	out, err := c.gen.Generate(ctx, extractPortfolioPrompt(cvText))
	if err != nil {
		return nil, fmt.Errorf("extract portfolio: %w", err)
	}
	entries, err := decodeOneOrMany[portfolio.Entry](out)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse portfolio data from CV: %w", ErrParse, err)
	}
	return entries, nil
}

// WriteMail writes an email for job, citing links. Empty optional profile
// fields are sent as "N/A".
func (c *Chain) WriteMail(ctx context.Context, job Job, links []string, p Profile) (string, error) {
	desc, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}
	out, err := c.gen.Generate(ctx, writeMailPrompt(string(desc), links, p.withDefaults()))
	if err != nil {
		return "", fmt.Errorf("write mail: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CleanJSON strips a surrounding markdown code fence from model output.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return strings.TrimSpace(clean)
}

// decodeOneOrMany decodes a JSON array of T, or a single T wrapped into a
// one-element slice.
func decodeOneOrMany[T any](raw string) ([]T, error) {
	clean := CleanJSON(raw)
	if clean == "" {
		return nil, errors.New("empty output")
	}
	if clean[0] == '[' {
		var many []T
		if err := json.Unmarshal([]byte(clean), &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal([]byte(clean), &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}
