// Package backend sends composed prompts to a text-generation service.
// The Anthropic client is the primary backend; OpenAI and Gemini providers
// can be layered in as flag-gated fallbacks behind the Manager.
package backend

import (
	"context"
	"math/rand"
	"time"
)

// ProviderResult carries the raw text and the model that produced it.
type ProviderResult struct {
	Text  string
	Model string
}

// Provider is one text-generation backend. Invoke is a single non-streaming
// call; retry and fallback policy live in the Manager, not here.
type Provider interface {
	Name() string
	Invoke(ctx context.Context, system, user string) (ProviderResult, error)
	Ping(ctx context.Context) bool
}

// RetryPolicy bounds how often the Manager re-runs a failed backend call.
// The zero value (or MaxAttempts <= 1) means a single attempt, which keeps
// stubs in tests retry-free.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(attempt)
	if p.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return delay
}
