package reconcile

import (
	"time"

	"class-sync/core/httpx"
)

// Config holds the run settings.
type Config struct {
	// Workers bounds concurrent entity processing within one course.
	Workers int `mapstructure:"workers" default:"1"`
	// RequestTimeoutSeconds bounds every outbound HTTP request.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"30"`
	// MaxAttempts is the attempt budget per outbound request. 1 disables retries.
	MaxAttempts int `mapstructure:"max_attempts" default:"1"`
	// DryRun makes every run plan without writing.
	DryRun bool `mapstructure:"dry_run" default:"false"`
}

// RequestTimeout returns the outbound request timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Retry returns the send policy of outbound LMS requests.
func (c Config) Retry() httpx.Policy {
	return httpx.Attempts(c.MaxAttempts)
}

// Options returns the run options, with dryRun forcing a dry run.
func (c Config) Options(dryRun bool) Options {
	return Options{DryRun: c.DryRun || dryRun, Workers: c.Workers}
}
