package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ndelvaux/handleforge/internal/domain"
)

const defaultRetryAfter = 60 * time.Second

// PrimaryConfig holds the authenticated protocol client settings.
type PrimaryConfig struct {
	BaseURL      string // authority API base, ex: "https://api.authority.example"
	CredentialID string
	Secret       string
	SessionToken string
	Timeout      time.Duration
}

// Primary is the authenticated availability client. It requires a session
// belonging to a regular user principal; bot sessions are rejected by the
// authority for this call and surface as ErrAuthMismatch.
type Primary struct {
	cfg    PrimaryConfig
	client *http.Client

	identityMu  sync.Mutex
	verified    bool
	identityErr error // only ErrAuthMismatch is stored; transient failures retry
}

func NewPrimary(cfg PrimaryConfig) *Primary {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Primary{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type sessionInfo struct {
	ID  string `json:"id"`
	Bot bool   `json:"bot"`
}

type checkResponse struct {
	Available bool   `json:"available"`
	Code      string `json:"code,omitempty"`
}

// Check resolves a handle through the authenticated API.
// Error translation: 429 -> *RateLimitedError, handle-invalid code ->
// ErrInvalidHandle, bot session -> ErrAuthMismatch, everything else ->
// wrapped ErrTransient.
func (p *Primary) Check(ctx context.Context, handle string) (domain.Outcome, error) {
	if err := p.verifyIdentity(ctx); err != nil {
		return domain.OutcomeTaken, err
	}

	endpoint := fmt.Sprintf("%s/v1/handles/%s", p.cfg.BaseURL, url.PathEscape(handle))
	resp, err := p.do(ctx, endpoint)
	if err != nil {
		return domain.OutcomeTaken, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var body checkResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return domain.OutcomeTaken, fmt.Errorf("%w: decoding check response: %v", ErrTransient, err)
		}
		if body.Available {
			return domain.OutcomeAvailable, nil
		}
		return domain.OutcomeTaken, nil

	case http.StatusBadRequest:
		var body checkResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Code == "HANDLE_INVALID" {
			return domain.OutcomeInvalid, ErrInvalidHandle
		}
		return domain.OutcomeTaken, fmt.Errorf("%w: unexpected bad request (code=%s)", ErrTransient, body.Code)

	case http.StatusTooManyRequests:
		return domain.OutcomeTaken, &RateLimitedError{RetryAfter: retryAfter(resp)}

	default:
		return domain.OutcomeTaken, fmt.Errorf("%w: unexpected status %d", ErrTransient, resp.StatusCode)
	}
}

// verifyIdentity confirms that the session belongs to a user principal, not
// a bot. Only two results latch: success (never re-probed) and a bot session
// (sticky ErrAuthMismatch so the adapter can disable us). A transient failure
// leaves the question open and the next call probes again.
func (p *Primary) verifyIdentity(ctx context.Context) error {
	p.identityMu.Lock()
	defer p.identityMu.Unlock()

	if p.verified {
		return nil
	}
	if p.identityErr != nil {
		return p.identityErr
	}

	resp, err := p.do(ctx, p.cfg.BaseURL+"/v1/session/me")
	if err != nil {
		return fmt.Errorf("%w: verifying session: %v", ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: session lookup status %d", ErrTransient, resp.StatusCode)
	}

	var me sessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return fmt.Errorf("%w: decoding session info: %v", ErrTransient, err)
	}
	if me.Bot {
		p.identityErr = ErrAuthMismatch
		return p.identityErr
	}

	p.verified = true
	return nil
}

func (p *Primary) do(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SessionToken)
	req.Header.Set("X-Credential-Id", p.cfg.CredentialID)
	req.Header.Set("X-Credential-Secret", p.cfg.Secret)
	return p.client.Do(req)
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}
