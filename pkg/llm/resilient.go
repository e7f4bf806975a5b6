package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/lab-analysis-server/internal/domain"
)

// ResilientGenerator wraps a domain.Generator with a circuit breaker and a
// client-side rate limiter, keeping a flapping or saturated model endpoint
// from taking analysis requests down with it.
type ResilientGenerator struct {
	inner   domain.Generator
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewResilientGenerator wraps inner. requestsPerMinute bounds the sustained
// call rate; non-positive disables the limiter.
func NewResilientGenerator(inner domain.Generator, requestsPerMinute int, logger *logrus.Logger) *ResilientGenerator {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ResilientGenerator{
		inner:   inner,
		breaker: breaker,
		limiter: limiter,
		log:     logger,
	}
}

// Generate applies the rate limit, then runs the call through the breaker.
func (g *ResilientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.Generate(ctx, prompt)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return "", fmt.Errorf("model endpoint unavailable (circuit breaker open)")
		}
		return "", err
	}

	return result.(string), nil
}

// State exposes the breaker state for health reporting.
func (g *ResilientGenerator) State() gobreaker.State {
	return g.breaker.State()
}
