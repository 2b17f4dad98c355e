package backend

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/snsgen-go/internal/constants"
	"github.com/kapu/snsgen-go/internal/util"
	"github.com/kapu/snsgen-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// InvokeResult is what a successful generation call hands back to the
// orchestrator: the raw model text plus which provider and model produced it.
type InvokeResult struct {
	Text         string
	Provider     string
	Model        string
	UsedFallback bool
}

// Manager routes generation calls to the primary provider, falls back through
// the configured chain on failure, and guards the whole set with a circuit
// breaker. Retries are bounded; only service-level failures (5xx, 429,
// timeouts) count against the breaker.
type Manager struct {
	primary   Provider
	fallbacks []Provider
	retry     RetryPolicy
	breaker   *util.CircuitBreaker
	logger    *zap.Logger
}

func NewManager(primary Provider, fallbacks []Provider, retry RetryPolicy, logger *zap.Logger) *Manager {
	m := &Manager{
		primary:   primary,
		fallbacks: fallbacks,
		retry:     retry,
		logger:    logger,
	}

	m.breaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		m.healthCheckPing,
		logger,
	)

	return m
}

func (m *Manager) providers() []Provider {
	all := make([]Provider, 0, 1+len(m.fallbacks))
	all = append(all, m.primary)
	all = append(all, m.fallbacks...)
	return all
}

// Invoke runs one generation request through the provider chain. Each retry
// attempt walks the full chain before backing off.
func (m *Manager) Invoke(ctx context.Context, system, user string) (*InvokeResult, error) {
	if !m.breaker.CanExecute() {
		status := m.breaker.GetStatus()
		m.logger.Error("Generation backends unavailable (circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return nil, errors.NewBackendError("generation backends temporarily unavailable", "manager", 0, "")
	}

	var lastErr error

	for attempt := 1; attempt <= m.retry.attempts(); attempt++ {
		for i, p := range m.providers() {
			res, err := p.Invoke(ctx, system, user)
			if err == nil {
				m.breaker.RecordSuccess()
				return &InvokeResult{
					Text:         res.Text,
					Provider:     p.Name(),
					Model:        res.Model,
					UsedFallback: i > 0,
				}, nil
			}

			lastErr = err
			m.logger.Warn("Provider call failed",
				zap.String("provider", p.Name()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)

			if ctx.Err() != nil {
				return nil, m.finalError(ctx.Err(), p.Name())
			}
		}

		if attempt < m.retry.attempts() {
			delay := m.retry.backoff(attempt)
			m.logger.Debug("Retrying generation", zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, m.finalError(ctx.Err(), "manager")
			case <-time.After(delay):
			}
		}
	}

	if m.isServiceFailure(lastErr) {
		timeout := constants.CircuitBreakerConfig.ResetTimeout
		if m.isRateLimitError(lastErr) {
			timeout = constants.CircuitBreakerConfig.RateLimitTimeout
		}
		m.breaker.RecordFailure(timeout)
	}

	return nil, m.finalError(lastErr, "manager")
}

// finalError guarantees the caller sees a typed backend error even when a
// fallback provider returned a plain one.
func (m *Manager) finalError(err error, provider string) error {
	var be *errors.BackendError
	if errors.As(err, &be) {
		return err
	}
	wrapped := errors.NewBackendError("all generation backends failed", provider, 0, "")
	wrapped.Cause = err
	return wrapped
}

// Ping reports whether at least one provider answers, probing all of them in
// parallel.
func (m *Manager) Ping(ctx context.Context) bool {
	providers := m.providers()
	results := make([]bool, len(providers))

	p := pool.New().WithMaxGoroutines(len(providers))
	for i, prov := range providers {
		p.Go(func() {
			results[i] = prov.Ping(ctx)
		})
	}
	p.Wait()

	for _, ok := range results {
		if ok {
			return true
		}
	}
	return false
}

func (m *Manager) healthCheckPing() bool {
	m.logger.Info("Health check: testing generation backends...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	healthy := m.Ping(ctx)
	m.logger.Info("Health check: result", zap.Bool("healthy", healthy))
	return healthy
}

func (m *Manager) CircuitStatus() util.CircuitBreakerStatus {
	return m.breaker.GetStatus()
}

func (m *Manager) ResetCircuit() {
	m.breaker.Reset()
}

func (m *Manager) isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	var be *errors.BackendError
	if errors.As(err, &be) {
		return be.UpstreamStatus == 0 || be.UpstreamStatus == 429 || be.UpstreamStatus >= 500
	}

	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return true
	}
	if m.isRateLimitError(err) {
		return true
	}

	statusRegex := regexp.MustCompile(`\b(5\d{2})\b`)
	if statusRegex.MatchString(msg) {
		return true
	}

	codeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := codeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func (m *Manager) isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var be *errors.BackendError
	if errors.As(err, &be) {
		return be.UpstreamStatus == 429
	}

	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota")
}
