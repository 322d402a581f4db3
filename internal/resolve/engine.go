// Package resolve drives candidate handles through the availability oracle
// under a throughput governor: fixed inter-call pacing, a batch rest rule and
// a consecutive-error backoff, all tuned to stay under the authority's
// implicit rate ceiling.
package resolve

import (
	"context"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
	"github.com/ndelvaux/handleforge/internal/logger"
	"github.com/ndelvaux/handleforge/internal/oracle"
)

// Cache is the availability memo consulted before every oracle call.
// Store failures degrade to a miss at the call site, never abort a run.
type Cache interface {
	Get(ctx context.Context, handle string, maxAge time.Duration) (available bool, ok bool, err error)
	Put(ctx context.Context, handle string, available bool) error
}

// Config holds the governor knobs. Zero values take the defaults below.
type Config struct {
	CacheMaxAge    time.Duration // cached verdicts older than this read as absent
	PacingDelay    time.Duration // wait after every candidate
	BatchSize      int           // oracle calls per batch window
	BatchWindow    time.Duration // a batch finishing faster than this triggers a rest
	BatchRest      time.Duration // rest after a too-fast batch
	ErrorThreshold int           // consecutive failures before the long rest
	ErrorRest      time.Duration // rest after hitting the threshold
	ErrorCooldown  time.Duration // wait after a sub-threshold failure, replaces pacing
}

const (
	DefaultCacheMaxAge    = 24 * time.Hour
	DefaultPacingDelay    = 2 * time.Second
	DefaultBatchSize      = 50
	DefaultBatchWindow    = 120 * time.Second
	DefaultBatchRest      = 60 * time.Second
	DefaultErrorThreshold = 5
	DefaultErrorRest      = 120 * time.Second
	DefaultErrorCooldown  = 5 * time.Second
)

func (c Config) withDefaults() Config {
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = DefaultCacheMaxAge
	}
	if c.PacingDelay <= 0 {
		c.PacingDelay = DefaultPacingDelay
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchWindow <= 0 {
		c.BatchWindow = DefaultBatchWindow
	}
	if c.BatchRest <= 0 {
		c.BatchRest = DefaultBatchRest
	}
	if c.ErrorThreshold <= 0 {
		c.ErrorThreshold = DefaultErrorThreshold
	}
	if c.ErrorRest <= 0 {
		c.ErrorRest = DefaultErrorRest
	}
	if c.ErrorCooldown <= 0 {
		c.ErrorCooldown = DefaultErrorCooldown
	}
	return c
}

// Report summarizes one completed (or cancelled) resolution run.
type Report struct {
	Available []string // available subset, input order preserved
	Checked   int      // candidates processed
	CacheHits int      // verdicts served without an oracle call
	Errors    int      // per-candidate failures that were absorbed
}

// Engine resolves candidate sequences. One Engine is shared by all runs in
// the process; each Resolve call is an independent strictly sequential loop.
type Engine struct {
	oracle oracle.Checker
	cache  Cache
	cfg    Config
	log    logger.Logger
	sleep  oracle.SleepFunc
	now    func() time.Time
}

func NewEngine(checker oracle.Checker, cache Cache, cfg Config, log logger.Logger) *Engine {
	return &Engine{
		oracle: checker,
		cache:  cache,
		cfg:    cfg.withDefaults(),
		log:    log,
		sleep:  oracle.Sleep,
		now:    time.Now,
	}
}

// Resolve walks every candidate in order and returns the available subset in
// the same relative order. The engine deliberately checks the whole input
// instead of stopping at a target count; callers wanting the first N results
// consume onFound and cancel ctx when satisfied. Cancellation is honored at
// every timed wait and between candidates, returning the partial report with
// ctx's error.
func (e *Engine) Resolve(ctx context.Context, candidates []string, onFound func(handle string)) (*Report, error) {
	report := &Report{Available: make([]string, 0, 16)}

	e.log.Info("starting availability resolution",
		logger.Int("candidates", len(candidates)))

	consecutiveErrors := 0
	batchCalls := 0
	batchStart := e.now()

	for _, handle := range candidates {
		if err := ctx.Err(); err != nil {
			e.finish(report, "cancelled")
			return report, err
		}

		outcome, live, err := e.checkOne(ctx, handle)
		report.Checked++
		if !live && err == nil {
			report.CacheHits++
		}

		if err != nil {
			if ctx.Err() != nil {
				e.finish(report, "cancelled")
				return report, ctx.Err()
			}

			report.Errors++
			consecutiveErrors++
			e.log.Warn("availability check failed",
				logger.String("handle", handle),
				logger.Int("consecutive_errors", consecutiveErrors),
				logger.Error(err))

			if consecutiveErrors >= e.cfg.ErrorThreshold {
				e.log.Warn("too many consecutive failures, resting",
					logger.Duration("rest", e.cfg.ErrorRest))
				if serr := e.sleep(ctx, e.cfg.ErrorRest); serr != nil {
					e.finish(report, "cancelled")
					return report, serr
				}
				consecutiveErrors = 0
			} else if serr := e.sleep(ctx, e.cfg.ErrorCooldown); serr != nil {
				e.finish(report, "cancelled")
				return report, serr
			}
			continue
		}

		consecutiveErrors = 0

		if outcome.Claimable() {
			report.Available = append(report.Available, handle)
			e.log.Info("found available handle",
				logger.String("handle", handle),
				logger.Int("total_found", len(report.Available)))
			if onFound != nil {
				onFound(handle)
			}
		}

		if live {
			batchCalls++
			if batchCalls >= e.cfg.BatchSize {
				elapsed := e.now().Sub(batchStart)
				if elapsed < e.cfg.BatchWindow {
					e.log.Info("batch finished under the rate window, resting",
						logger.Int("batch_calls", batchCalls),
						logger.Duration("elapsed", elapsed),
						logger.Duration("rest", e.cfg.BatchRest))
					if serr := e.sleep(ctx, e.cfg.BatchRest); serr != nil {
						e.finish(report, "cancelled")
						return report, serr
					}
				}
				batchCalls = 0
				// The rest does not count toward the next batch's window.
				batchStart = e.now()
			}
		}

		if serr := e.sleep(ctx, e.cfg.PacingDelay); serr != nil {
			e.finish(report, "cancelled")
			return report, serr
		}
	}

	e.finish(report, "done")
	return report, nil
}

// checkOne resolves a single candidate: cache first, oracle on a miss, cache
// write-back on a live verdict. live reports whether the oracle was invoked.
func (e *Engine) checkOne(ctx context.Context, handle string) (outcome domain.Outcome, live bool, err error) {
	if available, ok, cerr := e.cache.Get(ctx, handle, e.cfg.CacheMaxAge); cerr != nil {
		// Cache trouble is never fatal; treat as a miss.
		e.log.Debug("availability cache read failed, treating as miss",
			logger.String("handle", handle),
			logger.Error(cerr))
	} else if ok {
		if available {
			return domain.OutcomeAvailable, false, nil
		}
		return domain.OutcomeTaken, false, nil
	}

	outcome, err = e.oracle.Check(ctx, handle)
	if err != nil {
		return outcome, true, err
	}

	// Invalid handles are cached as unavailable: they can never be claimed.
	if cerr := e.cache.Put(ctx, handle, outcome.Claimable()); cerr != nil {
		e.log.Debug("availability cache write failed",
			logger.String("handle", handle),
			logger.Error(cerr))
	}
	return outcome, true, nil
}

func (e *Engine) finish(report *Report, status string) {
	e.log.Info("resolution "+status,
		logger.Int("found", len(report.Available)),
		logger.Int("checked", report.Checked),
		logger.Int("cache_hits", report.CacheHits),
		logger.Int("errors", report.Errors))
}
