package resolve

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
	"github.com/ndelvaux/handleforge/internal/logger"
)

type fakeChecker struct {
	outcomes map[string]domain.Outcome
	errs     map[string]error
	calls    []string
}

func (f *fakeChecker) Check(_ context.Context, handle string) (domain.Outcome, error) {
	f.calls = append(f.calls, handle)
	if err, ok := f.errs[handle]; ok {
		return domain.OutcomeTaken, err
	}
	if out, ok := f.outcomes[handle]; ok {
		return out, nil
	}
	return domain.OutcomeTaken, nil
}

type fakeCache struct {
	entries map[string]bool
	getErr  error
	putErr  error
	puts    map[string]bool
}

func (f *fakeCache) Get(_ context.Context, handle string, _ time.Duration) (bool, bool, error) {
	if f.getErr != nil {
		return false, false, f.getErr
	}
	available, ok := f.entries[handle]
	return available, ok, nil
}

func (f *fakeCache) Put(_ context.Context, handle string, available bool) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = make(map[string]bool)
	}
	f.puts[handle] = available
	return nil
}

// newTestEngine wires an engine whose waits are recorded instead of slept and
// whose clock is frozen, so batch windows always read as instantaneous.
func newTestEngine(checker *fakeChecker, cache *fakeCache, cfg Config) (*Engine, *[]time.Duration) {
	e := NewEngine(checker, cache, cfg, logger.New("error", false))

	slept := &[]time.Duration{}
	e.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		*slept = append(*slept, d)
		return nil
	}
	e.now = func() time.Time { return time.Unix(1000, 0) }
	return e, slept
}

func TestResolveCacheFlow(t *testing.T) {
	checker := &fakeChecker{outcomes: map[string]domain.Outcome{
		"fresh_one": domain.OutcomeAvailable,
	}}
	cache := &fakeCache{entries: map[string]bool{
		"taken_one": false,
		"freed_one": true,
	}}
	e, _ := newTestEngine(checker, cache, Config{})

	report, err := e.Resolve(context.Background(), []string{"taken_one", "freed_one", "fresh_one"}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}

	if !reflect.DeepEqual(checker.calls, []string{"fresh_one"}) {
		t.Errorf("oracle calls = %v, want only the cache miss", checker.calls)
	}
	if report.Checked != 3 || report.CacheHits != 2 || report.Errors != 0 {
		t.Errorf("report = %+v, want Checked=3 CacheHits=2 Errors=0", report)
	}
	if !reflect.DeepEqual(report.Available, []string{"freed_one", "fresh_one"}) {
		t.Errorf("Available = %v, want cached and live verdicts in input order", report.Available)
	}
	if got, ok := cache.puts["fresh_one"]; !ok || !got {
		t.Errorf("cache write-back for fresh_one = %v/%v, want true", got, ok)
	}
}

func TestResolveInvalidCachedAsUnavailable(t *testing.T) {
	checker := &fakeChecker{outcomes: map[string]domain.Outcome{
		"bad_one": domain.OutcomeInvalid,
	}}
	cache := &fakeCache{}
	e, _ := newTestEngine(checker, cache, Config{})

	report, err := e.Resolve(context.Background(), []string{"bad_one"}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if len(report.Available) != 0 {
		t.Errorf("Available = %v, want none for an invalid handle", report.Available)
	}
	if got, ok := cache.puts["bad_one"]; !ok || got {
		t.Errorf("cache write-back for bad_one = %v/%v, want unavailable", got, ok)
	}
}

func TestResolveErrorBackoff(t *testing.T) {
	candidates := []string{"e_one", "e_two", "e_three", "e_four", "e_five", "e_six"}
	errs := make(map[string]error, len(candidates))
	for _, h := range candidates {
		errs[h] = errors.New("boom")
	}
	checker := &fakeChecker{errs: errs}
	cfg := Config{
		PacingDelay:    2 * time.Second,
		ErrorThreshold: 5,
		ErrorRest:      120 * time.Second,
		ErrorCooldown:  5 * time.Second,
	}
	e, slept := newTestEngine(checker, &fakeCache{}, cfg)

	report, err := e.Resolve(context.Background(), candidates, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if report.Errors != 6 || report.Checked != 6 {
		t.Errorf("report = %+v, want Errors=6 Checked=6", report)
	}

	// Four cooldowns, the threshold rest, then the counter restarts and the
	// sixth failure gets a cooldown again. Failures skip pacing entirely.
	expected := []time.Duration{
		cfg.ErrorCooldown, cfg.ErrorCooldown, cfg.ErrorCooldown, cfg.ErrorCooldown,
		cfg.ErrorRest,
		cfg.ErrorCooldown,
	}
	if !reflect.DeepEqual(*slept, expected) {
		t.Errorf("sleeps = %v, want %v", *slept, expected)
	}
}

func TestResolveBatchRest(t *testing.T) {
	checker := &fakeChecker{}
	cfg := Config{
		PacingDelay: 2 * time.Second,
		BatchSize:   2,
		BatchWindow: 120 * time.Second,
		BatchRest:   60 * time.Second,
	}
	e, slept := newTestEngine(checker, &fakeCache{}, cfg)

	candidates := []string{"b_one", "b_two", "b_three", "b_four", "b_five"}
	if _, err := e.Resolve(context.Background(), candidates, nil); err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}

	// The frozen clock makes every batch finish instantly, so each full batch
	// of live calls rests before the pacing wait of its closing candidate.
	expected := []time.Duration{
		cfg.PacingDelay,
		cfg.BatchRest, cfg.PacingDelay,
		cfg.PacingDelay,
		cfg.BatchRest, cfg.PacingDelay,
		cfg.PacingDelay,
	}
	if !reflect.DeepEqual(*slept, expected) {
		t.Errorf("sleeps = %v, want %v", *slept, expected)
	}
}

func TestResolveCacheHitsSkipBatchGovernor(t *testing.T) {
	cache := &fakeCache{entries: map[string]bool{
		"c_one": true, "c_two": true, "c_three": true, "c_four": true,
	}}
	cfg := Config{
		PacingDelay: 2 * time.Second,
		BatchSize:   2,
		BatchRest:   60 * time.Second,
	}
	e, slept := newTestEngine(&fakeChecker{}, cache, cfg)

	if _, err := e.Resolve(context.Background(), []string{"c_one", "c_two", "c_three", "c_four"}, nil); err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}

	for _, d := range *slept {
		if d == cfg.BatchRest {
			t.Fatalf("batch rest triggered by cache hits alone: sleeps = %v", *slept)
		}
	}
}

func TestResolveCancelledAfterEnoughResults(t *testing.T) {
	checker := &fakeChecker{outcomes: map[string]domain.Outcome{
		"f_one": domain.OutcomeAvailable, "f_two": domain.OutcomeAvailable, "f_three": domain.OutcomeAvailable,
	}}
	e, _ := newTestEngine(checker, &fakeCache{}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report, err := e.Resolve(ctx, []string{"f_one", "f_two", "f_three"}, func(string) {
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Resolve() error = %v, want context.Canceled", err)
	}
	if !reflect.DeepEqual(report.Available, []string{"f_one"}) {
		t.Errorf("Available = %v, want the single result found before cancellation", report.Available)
	}
}

func TestResolveCacheTroubleDegradesToMiss(t *testing.T) {
	checker := &fakeChecker{outcomes: map[string]domain.Outcome{
		"m_one": domain.OutcomeAvailable,
	}}
	cache := &fakeCache{getErr: errors.New("redis down"), putErr: errors.New("redis down")}
	e, _ := newTestEngine(checker, cache, Config{})

	report, err := e.Resolve(context.Background(), []string{"m_one"}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if report.CacheHits != 0 || report.Errors != 0 {
		t.Errorf("report = %+v, want CacheHits=0 Errors=0", report)
	}
	if !reflect.DeepEqual(report.Available, []string{"m_one"}) {
		t.Errorf("Available = %v, want the live verdict despite cache trouble", report.Available)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.CacheMaxAge != DefaultCacheMaxAge ||
		cfg.PacingDelay != DefaultPacingDelay ||
		cfg.BatchSize != DefaultBatchSize ||
		cfg.ErrorThreshold != DefaultErrorThreshold {
		t.Errorf("withDefaults() = %+v, want documented defaults", cfg)
	}

	set := Config{PacingDelay: time.Millisecond}.withDefaults()
	if set.PacingDelay != time.Millisecond {
		t.Errorf("withDefaults() overwrote an explicit pacing delay: %v", set.PacingDelay)
	}
}
