// Package engine drives the arena: it owns the authoritative match
// state, fans tick messages out to every agent actor, enforces the
// per-tick barrier, and resolves bullet lifetimes arena-wide.
package engine

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/logging"
)

// newAgentBreaker builds the circuit breaker guarding one agent's
// response path. The protocol has no in-band way to detect a dead
// script, so consecutive response timeouts trip the breaker and the
// engine retires the agent instead of stalling the barrier forever.
func newAgentBreaker(name string, envConfig *config.EnvironmentConfig, logger *logging.Logger) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:     name,
		Interval: envConfig.BreakerInterval,
		Timeout:  envConfig.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(envConfig.BreakerMaxConsecutiveFails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "agent breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// awaitThroughBreaker runs the await operation through the agent's
// breaker, translating an open breaker into a retirement decision.
func awaitThroughBreaker(breaker *gobreaker.CircuitBreaker, operation func() error) (tripped bool, err error) {
	_, err = breaker.Execute(func() (interface{}, error) {
		return nil, operation()
	})
	if err == nil {
		return false, nil
	}
	if breaker.State() == gobreaker.StateOpen {
		return true, fmt.Errorf("agent breaker open: %w", err)
	}
	return false, err
}
