package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
)

// ProberConfig holds the HTTP existence-probe settings.
type ProberConfig struct {
	// BaseURL is the authority's public profile surface, ex: "https://t.example".
	BaseURL string
	Timeout time.Duration
	// FailOpen controls what a transport failure means. True (the historical
	// behavior) reports Available so a network blip never hides a candidate;
	// false reports a transient error instead, trading recall for accuracy.
	FailOpen bool
}

// Prober checks availability by probing the authority's public profile page:
// a 404 means nobody owns the handle. It never needs credentials.
type Prober struct {
	cfg    ProberConfig
	client *http.Client
}

func NewProber(cfg ProberConfig) *Prober {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Prober{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			// A live profile may redirect (e.g. to an app deep link); any
			// response other than 404 still means the handle exists.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (p *Prober) Check(ctx context.Context, handle string) (domain.Outcome, error) {
	endpoint := fmt.Sprintf("%s/%s", p.cfg.BaseURL, url.PathEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.OutcomeTaken, fmt.Errorf("%w: building probe request: %v", ErrTransient, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if p.cfg.FailOpen {
			return domain.OutcomeAvailable, nil
		}
		return domain.OutcomeTaken, fmt.Errorf("%w: probe failed: %v", ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.OutcomeAvailable, nil
	}
	return domain.OutcomeTaken, nil
}
