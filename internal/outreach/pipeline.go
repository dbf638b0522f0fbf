// Package outreach wires the document, portfolio, scraping and language
// model steps into one run per request.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/muhammadolammi/outreachworker/internal/chain"
	"github.com/muhammadolammi/outreachworker/internal/document"
	"github.com/muhammadolammi/outreachworker/internal/portfolio"
	"github.com/muhammadolammi/outreachworker/internal/retry"
	"github.com/muhammadolammi/outreachworker/internal/vectorindex"
)

var (
	// ErrInvalidRequest is returned for requests missing required fields.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoPortfolio is returned when no portfolio entries could be stored.
	ErrNoPortfolio = errors.New("no portfolio entries")
)

const (
	downloadAttempts = 3
	generateAttempts = 2
)

// Composer is the language-model side of the pipeline.
type Composer interface {
	ExtractJobs(ctx context.Context, pageText string) ([]chain.Job, error)
	ExtractPortfolio(ctx context.Context, cvText string) ([]portfolio.Entry, error)
	WriteMail(ctx context.Context, job chain.Job, links []string, p chain.Profile) (string, error)
}

// PageFetcher returns the cleaned text of a web page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ObjectStore downloads uploaded files.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Pipeline runs requests. It is safe for concurrent use; portfolio
// collections are only ever touched by one run at a time.
type Pipeline struct {
	composer Composer
	pages    PageFetcher
	objects  ObjectStore
	open     vectorindex.Opener
	results  int

	locks keyedMutex
}

func NewPipeline(composer Composer, pages PageFetcher, objects ObjectStore, open vectorindex.Opener, linksPerSkill int) *Pipeline {
	return &Pipeline{
		composer: composer,
		pages:    pages,
		objects:  objects,
		open:     open,
		results:  linksPerSkill,
	}
}

// CollectionName is the portfolio collection owned by a user.
func CollectionName(req Request) string {
	return "portfolio-" + req.UserID.String()
}

// Run processes one request end to end.
func (p *Pipeline) Run(ctx context.Context, req Request, files []File) (*Result, error) {
	if strings.TrimSpace(req.Profile.Name) == "" || strings.TrimSpace(req.JobURL) == "" {
		return nil, fmt.Errorf("%w: name and job url are required", ErrInvalidRequest)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: upload a CV or portfolio CSV", ErrInvalidRequest)
	}

	entries, fileErr := p.portfolioEntries(ctx, files)

	pageText, err := p.pages.Fetch(ctx, req.JobURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape job page: %w", err)
	}
	jobs, err := generate(ctx, func() ([]chain.Job, error) {
		return p.composer.ExtractJobs(ctx, pageText)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{RequestID: req.ID}
	links, err := p.lookupLinks(ctx, req, entries, jobs, result)
	if err != nil {
		if errors.Is(err, ErrNoPortfolio) && fileErr != nil {
			return nil, fmt.Errorf("%w: %w", err, fileErr)
		}
		return nil, err
	}

	for i, job := range jobs {
		email, err := generate(ctx, func() (string, error) {
			return p.composer.WriteMail(ctx, job, links[i], req.Profile)
		})
		if err != nil {
			log.Printf("request %s: failed to write email for %q: %v", req.ID, job.Role, err)
			result.Emails = append(result.Emails, GeneratedEmail{
				Role:          roleOf(job),
				Links:         links[i],
				IsErrorResult: true,
				Error:         fmt.Sprintf("write mail error: %v", err),
			})
			continue
		}
		result.Emails = append(result.Emails, GeneratedEmail{
			Role:  roleOf(job),
			Links: links[i],
			Email: email,
		})
	}
	return result, nil
}

// lookupLinks loads the user's collection and queries it for every job
// while holding the collection lock.
func (p *Pipeline) lookupLinks(ctx context.Context, req Request, entries []portfolio.Entry, jobs []chain.Job, result *Result) ([][]string, error) {
	name := CollectionName(req)
	unlock := p.locks.Lock(name)
	defer unlock()

	store, err := portfolio.New(ctx, portfolio.Config{
		Data:           entries,
		CollectionName: name,
		Open:           p.open,
	})
	if err != nil {
		return nil, err
	}
	defer store.Close()

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	result.Inserted, result.Skipped = loaded.Inserted, loaded.Skipped
	if loaded.AlreadyPopulated {
		log.Printf("request %s: collection %s already populated, reusing it", req.ID, name)
	}

	count, err := store.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoPortfolio
	}

	links := make([][]string, len(jobs))
	for i, job := range jobs {
		links[i], err = store.QueryLinks(ctx, job.Skills, p.results)
		if err != nil {
			return nil, err
		}
	}
	return links, nil
}

// portfolioEntries downloads every file and turns it into rows. Files that
// fail are logged and skipped; their errors are joined and returned.
func (p *Pipeline) portfolioEntries(ctx context.Context, files []File) ([]portfolio.Entry, error) {
	entries := []portfolio.Entry{}
	var errs []error
	for _, f := range files {
		rows, err := p.fileEntries(ctx, f)
		if err != nil {
			log.Printf("portfolio file %s: %v", f.ObjectKey, err)
			errs = append(errs, fmt.Errorf("%s: %w", f.Filename, err))
			continue
		}
		entries = append(entries, rows...)
	}
	return entries, errors.Join(errs...)
}

func (p *Pipeline) fileEntries(ctx context.Context, f File) ([]portfolio.Entry, error) {
	kind := document.DetectKind(f.Mime, f.Filename)
	if kind == document.Unsupported {
		return nil, fmt.Errorf("%w: %s, please use PDF, DOCX, text or CSV", document.ErrUnsupported, f.Mime)
	}

	data, err := retry.Do(ctx, downloadAttempts, func() ([]byte, error) {
		return p.objects.Download(ctx, f.ObjectKey)
	})
	if err != nil {
		return nil, fmt.Errorf("file download error: %w", err)
	}

	if kind == document.CSV {
		return portfolio.ReadCSV(strings.NewReader(string(data)))
	}

	text, err := document.Extract(kind, data)
	if err != nil {
		return nil, fmt.Errorf("text extraction error: %w", err)
	}
	return generate(ctx, func() ([]portfolio.Entry, error) {
		return p.composer.ExtractPortfolio(ctx, text)
	})
}

// generate retries model calls. Parse failures are returned at once.
func generate[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	return retry.Do(ctx, generateAttempts, func() (T, error) {
		v, err := fn()
		if errors.Is(err, chain.ErrParse) {
			return v, retry.Permanent(err)
		}
		return v, err
	})
}

func roleOf(job chain.Job) string {
	if job.Role == "" {
		return "Job Posting"
	}
	return job.Role
}
