package constants

import "time"

var APIConfig = struct {
	AnthropicBaseURL string
	AnthropicVersion string
	RequestTimeout   time.Duration
}{
	AnthropicBaseURL: "https://api.anthropic.com",
	AnthropicVersion: "2023-06-01",
	RequestTimeout:   120 * time.Second,
}

var GenerationConfig = struct {
	MaxOutputTokens int
	Temperature     float64
	PingMaxTokens   int
}{
	MaxOutputTokens: 20000, // large enough that a truncated multi-variant JSON reply is not the normal case
	Temperature:     0.7,
	PingMaxTokens:   10,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour, // 429s get the long pause
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var CacheTTL = struct {
	BrandProfile  time.Duration
	RecentRequest time.Duration
	UsageCounter  time.Duration
}{
	BrandProfile:  10 * time.Minute,
	RecentRequest: 5 * time.Minute,
	UsageCounter:  35 * 24 * time.Hour, // monthly counters linger past month end
}

var InputLimits = struct {
	MaxGoalLength     int
	MaxBaseTextLength int
	LogPreviewLength  int
}{
	MaxGoalLength:     2000,
	MaxBaseTextLength: 10000,
	LogPreviewLength:  100,
}
