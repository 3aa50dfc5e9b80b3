package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	out   string
	err   error
	calls int
	wait  time.Duration
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.calls++
	if p.wait > 0 {
		select {
		case <-time.After(p.wait):
		case <-ctx.Done():
			return "", newTransportError(p.Name(), ctx.Err())
		}
	}
	return p.out, p.err
}

func TestAnalyzeReturnsParsedSummary(t *testing.T) {
	p := &stubProvider{out: validSummary}
	svc, err := NewAnalysisService(p, time.Second)
	require.NoError(t, err)

	s, err := svc.Analyze(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 82, s.OverallScore)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "stub", svc.ProviderName())
}

func TestAnalyzeMalformedOutput(t *testing.T) {
	p := &stubProvider{out: "Sure, here's your analysis: ..."}
	svc, err := NewAnalysisService(p, time.Second)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAnalysisFailed))
	assert.Equal(t, 1, p.calls)
}

func TestAnalyzeDoesNotRetryProviderFailure(t *testing.T) {
	p := &stubProvider{err: &ProviderError{Provider: "stub", StatusCode: 503, Retryable: true, Err: errors.New("unavailable")}}
	svc, err := NewAnalysisService(p, time.Second)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAnalysisFailed))
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 1, p.calls)
}

func TestAnalyzeTimesOut(t *testing.T) {
	p := &stubProvider{out: validSummary, wait: time.Second}
	svc, err := NewAnalysisService(p, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAnalysisFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, IsRetryable(err))
}
