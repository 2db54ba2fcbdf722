package shortener

import (
	"context"
	"errors"
	"iter"
	"time"
)

// Code is a short reference standing in for a URL.
type Code string

var (
	// ErrDuplicateKey is returned by Store.Put when the code is already taken.
	ErrDuplicateKey = errors.New("code already mapped")
	// ErrDuplicateValue is returned by Store.Put when the URL already has a code.
	ErrDuplicateValue = errors.New("url already mapped")
	// ErrNotFound is returned by Store lookups for absent entries.
	ErrNotFound = errors.New("not found")

	// ErrNotExists is returned by Resolver.Resolve for unknown codes.
	ErrNotExists = errors.New("no such short code")
	// ErrCodespaceExhausted is returned by Allocator.Shorten when no free code
	// was found within the attempt budget.
	ErrCodespaceExhausted = errors.New("no free code found")
	// ErrEmptyURL is returned by Allocator.Shorten for an empty URL.
	ErrEmptyURL = errors.New("url must not be empty")
)

// Store persists a bijective mapping between codes and URLs.
//
// Put must fail with ErrDuplicateKey if code is taken and with
// ErrDuplicateValue if url is taken, and must make both directions visible
// atomically on success. Get and KeyFor fail with ErrNotFound.
type Store interface {
	Put(ctx context.Context, code Code, url string) error
	Get(ctx context.Context, code Code) (string, error)
	KeyFor(ctx context.Context, url string) (Code, error)
}

// CandidateSource yields candidate codes. Each call to Candidates starts a
// new, possibly infinite, sequence.
type CandidateSource interface {
	Candidates() iter.Seq[string]
}

// Access describes one resolution of a code.
type Access struct {
	ID        string    `json:"id"`
	Code      Code      `json:"code"`
	At        time.Time `json:"at"`
	Referrer  string    `json:"referrer"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// Tracker records access events. Implementations are best-effort.
type Tracker interface {
	Record(ctx context.Context, code Code, access Access) error
}

// AccessLog is a Tracker that can also list what it recorded.
type AccessLog interface {
	Tracker
	// Accesses returns the events for code in recording order. Unknown codes
	// yield an empty slice.
	Accesses(ctx context.Context, code Code) ([]Access, error)
}
