package source

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Prober answers whether the primary service is reachable. The first probe's
// answer is kept for the lifetime of the Prober: a failed probe is never
// retried, so an unreachable primary costs one timeout per process rather than
// one per request. This is not a circuit breaker; there is no recovery.
//
// Concurrent callers that arrive before the first probe completes share it.
type Prober struct {
	client    *http.Client
	healthURL string
	timeout   time.Duration
	log       *slog.Logger

	mu        sync.Mutex
	checked   bool
	available bool
	inflight  singleflight.Group
}

// NewProber constructs a Prober for the primary service at baseURL.
// An empty baseURL yields a Prober that always reports unavailable.
func NewProber(client *http.Client, baseURL string, timeout time.Duration, log *slog.Logger) *Prober {
	p := &Prober{
		client:  client,
		timeout: timeout,
		log:     log,
	}
	if baseURL == "" {
		p.checked = true
	} else {
		p.healthURL = strings.TrimRight(baseURL, "/") + "/health"
	}
	return p
}

// IsAvailable reports whether the primary service answered its health probe
// with a success status within the probe timeout.
func (p *Prober) IsAvailable(ctx context.Context) bool {
	if available, ok := p.cached(); ok {
		return available
	}

	v, _, _ := p.inflight.Do("probe", func() (any, error) {
		if available, ok := p.cached(); ok {
			return available, nil
		}
		available := p.probe(ctx)

		p.mu.Lock()
		p.checked, p.available = true, available
		p.mu.Unlock()

		p.log.Info("primary availability probed", "url", p.healthURL, "available", available)
		return available, nil
	})
	return v.(bool)
}

// Reset forgets the cached answer so the next call probes again.
func (p *Prober) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = p.healthURL == ""
	p.available = false
}

func (p *Prober) cached() (available, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available, p.checked
}

// probe runs detached from the caller's cancellation: its result is shared
// with every other waiting caller, so one caller giving up must not decide it.
func (p *Prober) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.healthURL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug("health probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
