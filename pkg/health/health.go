// Package health aggregates named dependency checks behind an HTTP
// endpoint. Checks run concurrently with a per-check timeout.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hilacarreon/vecinito/pkg/logger"
)

// Check represents a single health check that can succeed or fail.
type Check interface {
	// Name returns the human-readable name of this check
	Name() string

	// Check returns nil if healthy, an error otherwise
	Check(ctx context.Context) error
}

// CheckFunc adapts a plain function into a Check.
type CheckFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckFunc creates a new CheckFunc with the given name and function.
func NewCheckFunc(name string, fn func(context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

// Name returns the name of this check.
func (c *CheckFunc) Name() string { return c.name }

// Check executes the check function.
func (c *CheckFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// Result represents the outcome of a single check execution.
type Result struct {
	Name    string
	Healthy bool
	Error   string
	Latency time.Duration
}

// Status represents the aggregated outcome of all checks.
type Status struct {
	Healthy bool
	Checks  []Result
}

// Checker manages and executes health checks.
type Checker struct {
	mu      sync.RWMutex
	checks  []Check
	timeout time.Duration
	log     logger.Logger
}

// Option is a functional option for configuring Checker.
type Option func(*Checker)

// WithTimeout sets the timeout for individual checks. Default is 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithLogger sets the logger for check execution.
func WithLogger(l logger.Logger) Option {
	return func(c *Checker) { c.log = l }
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add registers a check.
func (c *Checker) Add(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Run executes all registered checks concurrently and aggregates the
// results. With no checks configured the service is considered healthy.
func (c *Checker) Run(ctx context.Context) (*Status, error) {
	c.mu.RLock()
	checks := make([]Check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	if len(checks) == 0 {
		return &Status{Healthy: true, Checks: []Result{}}, nil
	}

	results := make([]Result, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(idx int, chk Check) {
			defer wg.Done()
			results[idx] = c.runOne(ctx, chk)
		}(i, check)
	}
	wg.Wait()

	status := &Status{Healthy: true, Checks: results}
	var failed []string
	for _, r := range results {
		if !r.Healthy {
			status.Healthy = false
			failed = append(failed, r.Name)
		}
	}
	if !status.Healthy {
		return status, fmt.Errorf("health checks failed: %v", failed)
	}
	return status, nil
}

func (c *Checker) runOne(parent context.Context, check Check) Result {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	start := time.Now()
	err := check.Check(ctx)
	latency := time.Since(start)

	result := Result{Name: check.Name(), Latency: latency, Healthy: err == nil}
	if err != nil {
		result.Error = err.Error()
		if c.log != nil {
			c.log.Warn("Health check failed",
				logger.StringField("check", check.Name()),
				logger.ErrorField(err),
				logger.DurationField("latency", latency),
			)
		}
	}
	return result
}
