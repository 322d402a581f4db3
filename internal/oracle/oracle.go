// Package oracle talks to the external naming authority that decides whether
// a handle is already taken. Two interchangeable backends exist: an
// authenticated protocol client and a public profile-page prober. The
// resolution engine only ever sees the unified Checker capability.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
)

// Checker is the unified availability capability both backends implement.
type Checker interface {
	Check(ctx context.Context, handle string) (domain.Outcome, error)
}

var (
	// ErrInvalidHandle means the authority rejected the handle string itself.
	ErrInvalidHandle = errors.New("oracle: invalid handle")
	// ErrAuthMismatch means the primary backend's session is authenticated as
	// the wrong principal type and must not be used again this process.
	ErrAuthMismatch = errors.New("oracle: session authenticated as wrong principal type")
	// ErrTransient covers failures where neither outcome could be determined.
	ErrTransient = errors.New("oracle: transient failure")
)

// RateLimitedError signals the authority asked us to back off.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("oracle: rate limited, retry after %s", e.RetryAfter)
}

// State is the backend-selection state shared by every resolution run in the
// process. One run tripping the primary-disable flag degrades all concurrent
// and future runs; the flag never recovers within a process lifetime.
type State struct {
	primaryDisabled atomic.Bool
}

func NewState() *State {
	return &State{}
}

// DisablePrimary marks the primary backend unusable for the rest of the process.
func (s *State) DisablePrimary() {
	s.primaryDisabled.Store(true)
}

// PrimaryDisabled reports whether the primary backend has been switched off.
func (s *State) PrimaryDisabled() bool {
	return s.primaryDisabled.Load()
}
