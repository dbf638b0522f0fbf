package outreach

import (
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/outreachworker/internal/chain"
)

// Request is one "write emails for this job page" job taken off the queue.
type Request struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UserID    uuid.UUID     `json:"user_id"`
	Status    string        `json:"status"`
	JobURL    string        `json:"job_url"`
	Profile   chain.Profile `json:"profile"`
}

// File is an uploaded portfolio document.
type File struct {
	ObjectKey string
	Mime      string
	Filename  string
}

// GeneratedEmail is the outcome for one job posting. Failed jobs are kept
// as error entries so one bad posting does not sink the whole request.
type GeneratedEmail struct {
	Role  string   `json:"role"`
	Links []string `json:"links"`
	Email string   `json:"email,omitempty"`
	// Error result entry
	IsErrorResult bool   `json:"is_error_result"`
	Error         string `json:"error,omitempty"`
}

// Result is everything produced for a request.
type Result struct {
	RequestID uuid.UUID        `json:"request_id"`
	Emails    []GeneratedEmail `json:"emails"`
	Inserted  int              `json:"inserted"`
	Skipped   int              `json:"skipped"`
}
