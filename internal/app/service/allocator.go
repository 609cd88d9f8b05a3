package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/neoqrc/internal/shortcode"
	"github.com/atinyakov/neoqrc/internal/storage"
)

// DefaultMaxAttempts bounds the number of candidates tried per allocation.
const DefaultMaxAttempts = 100

// CodeChecker reports whether a short code is already taken.
type CodeChecker interface {
	ShortCodeInUse(ctx context.Context, code string) (bool, error)
}

// CodeSet is an in-memory CodeChecker over a fixed list of taken codes.
type CodeSet map[string]struct{}

func NewCodeSet(codes ...string) CodeSet {
	set := make(CodeSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func (s CodeSet) ShortCodeInUse(_ context.Context, code string) (bool, error) {
	_, ok := s[code]
	return ok, nil
}

// Allocator draws random short codes until it finds one that is not in use.
type Allocator struct {
	checker     CodeChecker
	maxAttempts int
	generate    func() string
}

// NewAllocator returns an Allocator checking candidates against checker.
// A non-positive maxAttempts selects DefaultMaxAttempts. checker may be nil
// for allocators that only Issue.
func NewAllocator(checker CodeChecker, maxAttempts int) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	return &Allocator{
		checker:     checker,
		maxAttempts: maxAttempts,
		generate:    shortcode.Generate,
	}
}

// MaxAttempts returns the attempt budget.
func (a *Allocator) MaxAttempts() int {
	return a.maxAttempts
}

// Allocate returns the first generated candidate the checker reports as
// unused. It performs at most MaxAttempts checks.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	if a.checker == nil {
		return "", errors.New("allocator has no code checker")
	}

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := a.generate()
		inUse, err := a.checker.ShortCodeInUse(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check short code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}

	return "", ErrExhaustedAttempts
}

// Issue allocates a code and persists it through insert. The store's unique
// constraint is authoritative: storage.ErrShortCodeConflict from insert
// consumes an attempt and a new candidate is drawn. Any other error, other
// conflicts included, aborts. When a checker is set, candidates it
// reports as taken are skipped without calling insert.
func (a *Allocator) Issue(ctx context.Context, insert func(ctx context.Context, code string) error) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := a.generate()

		if a.checker != nil {
			inUse, err := a.checker.ShortCodeInUse(ctx, code)
			if err != nil {
				return "", fmt.Errorf("check short code: %w", err)
			}
			if inUse {
				continue
			}
		}

		err := insert(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, storage.ErrShortCodeConflict) {
			return "", fmt.Errorf("insert short code: %w", err)
		}
	}

	return "", ErrExhaustedAttempts
}
