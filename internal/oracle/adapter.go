package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
	"github.com/ndelvaux/handleforge/internal/logger"
)

// SleepFunc waits for d or until ctx is done. Injected so tests can skip
// the rate-limit wait.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Adapter unifies the primary and fallback backends behind the Checker
// contract. Backend selection happens here, re-evaluated on every call:
// primary whenever it is configured and not disabled, fallback otherwise.
type Adapter struct {
	primary  Checker // nil when credentials are missing or placeholders
	fallback Checker
	state    *State
	log      logger.Logger
	sleep    SleepFunc
}

func NewAdapter(primary, fallback Checker, state *State, log logger.Logger) *Adapter {
	a := &Adapter{
		primary:  primary,
		fallback: fallback,
		state:    state,
		log:      log,
		sleep:    Sleep,
	}
	if primary == nil {
		// Exactly one operator-visible warning: the service runs on the
		// less accurate probe until credentials are configured.
		log.Warn("oracle credentials not configured, running in fallback-only mode")
	}
	return a
}

// Check resolves one candidate to a definite outcome or a transient error.
// Per-candidate policy:
//   - rate limit from the primary: wait the signalled duration, retry exactly
//     once, then demote to transient
//   - invalid handle: terminal Invalid outcome, never retried
//   - auth mismatch: disable the primary for the whole process, fall back
//   - any other primary failure: fall back for this candidate only
func (a *Adapter) Check(ctx context.Context, handle string) (domain.Outcome, error) {
	if !a.primaryUsable() {
		return a.fallback.Check(ctx, handle)
	}

	outcome, err := a.primary.Check(ctx, handle)

	var rl *RateLimitedError
	if errors.As(err, &rl) {
		a.log.Warn("rate limited by authority",
			logger.String("handle", handle),
			logger.Duration("retry_after", rl.RetryAfter))
		if sleepErr := a.sleep(ctx, rl.RetryAfter); sleepErr != nil {
			return domain.OutcomeTaken, sleepErr
		}
		outcome, err = a.primary.Check(ctx, handle)
		if errors.As(err, &rl) {
			err = ErrTransient
		}
	}

	switch {
	case err == nil:
		return outcome, nil

	case errors.Is(err, ErrInvalidHandle):
		return domain.OutcomeInvalid, nil

	case errors.Is(err, ErrAuthMismatch):
		a.state.DisablePrimary()
		a.log.Error("primary oracle session belongs to the wrong principal type, disabling it for this process")
		return a.fallback.Check(ctx, handle)

	case ctx.Err() != nil:
		return domain.OutcomeTaken, ctx.Err()

	default:
		a.log.Debug("primary oracle check failed, using fallback for this candidate",
			logger.String("handle", handle),
			logger.Error(err))
		return a.fallback.Check(ctx, handle)
	}
}

func (a *Adapter) primaryUsable() bool {
	return a.primary != nil && !a.state.PrimaryDisabled()
}

// FallbackOnly reports whether every check goes through the probe backend.
func (a *Adapter) FallbackOnly() bool {
	return !a.primaryUsable()
}
