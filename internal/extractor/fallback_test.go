package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/port"
)

type stubExtractor struct {
	out   *port.ExtractOutput
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func input() port.ExtractInput {
	return port.ExtractInput{
		FileBytes:   []byte("dummy"),
		ContentType: "application/pdf",
		Filename:    "aadhaar.pdf",
	}
}

func TestFallbackFirstSucceeds(t *testing.T) {
	primary := &stubExtractor{out: &port.ExtractOutput{ProviderUsed: "primary"}}
	secondary := &stubExtractor{out: &port.ExtractOutput{ProviderUsed: "secondary"}}
	f := NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"})

	out, err := f.Extract(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "primary", out.ProviderUsed)
	assert.Zero(t, secondary.calls)
}

func TestFallbackTriesNextOnError(t *testing.T) {
	primary := &stubExtractor{err: errors.New("connection refused")}
	secondary := &stubExtractor{out: &port.ExtractOutput{ProviderUsed: "secondary"}}
	f := NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"})

	out, err := f.Extract(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ProviderUsed)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackAllFail(t *testing.T) {
	primary := &stubExtractor{err: errors.New("boom")}
	secondary := &stubExtractor{err: errors.New("worse")}
	f := NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"})

	_, err := f.Extract(context.Background(), input())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all extractors failed")
	assert.Contains(t, err.Error(), "worse")
}

func TestFallbackOpensCircuitOnRateLimit(t *testing.T) {
	primary := &stubExtractor{err: NewRateLimitError("primary", errors.New("429"), 300)}
	secondary := &stubExtractor{out: &port.ExtractOutput{ProviderUsed: "secondary"}}
	f := NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"})

	out, err := f.Extract(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ProviderUsed)
	assert.Equal(t, 1, primary.calls)

	// Rate-limited provider is skipped while its circuit is open.
	out, err = f.Extract(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ProviderUsed)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackAllRateLimited(t *testing.T) {
	primary := &stubExtractor{err: NewRateLimitError("primary", errors.New("429"), 60)}
	secondary := &stubExtractor{err: NewRateLimitError("secondary", errors.New("429"), 120)}
	f := NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"})

	_, err := f.Extract(context.Background(), input())
	require.Error(t, err)

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
	// Retry hint points at the earliest circuit reset.
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), 60.0)
}

func TestRateLimitErrorDefaults(t *testing.T) {
	e := NewRateLimitError("remote", errors.New("429"), 0)
	assert.Equal(t, 60.0, e.RetryAfter.Seconds())
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
}
