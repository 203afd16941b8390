package weather

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

// ErrLocationNotFound is returned when the provider does not recognize the
// requested location identifier.
var ErrLocationNotFound = errors.New("location not found")

// Provider supplies a current snapshot and a bounded forecast series for a
// location identifier (US ZIP code). A provider may return a valid snapshot
// together with an empty series when only the forecast call failed; the
// caller is expected to synthesize a fallback series in that case.
type Provider interface {
	Fetch(ctx context.Context, zip string) (Snapshot, Series, error)
	Name() string
}

// RateLimited wraps a Provider with a token-bucket rate limiter so upstream
// API quotas are respected across concurrent requests.
type RateLimited struct {
	provider Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimited wraps provider allowing rps requests per second with the
// given burst. Fractional rps values are valid for sub-1/s quotas.
func NewRateLimited(provider Provider, rps float64, burst int) *RateLimited {
	return &RateLimited{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [rate limited]", provider.Name()),
	}
}

func (r *RateLimited) Fetch(ctx context.Context, zip string) (Snapshot, Series, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Snapshot{}, nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.Fetch(ctx, zip)
}

func (r *RateLimited) Name() string {
	return r.name
}

var _ Provider = (*RateLimited)(nil)
