// Package validation provides input validation for match setup: spawn
// parameters, agent names, and diagnostic output limits.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// Limits for match setup.
const (
	MaxAgentNameLen   = 32
	MaxAgentsPerMatch = 64

	// Diagnostic log lines an agent may emit per second before further
	// lines are dropped.
	MaxLogLinesPerSec = 50
)

// validAgentNameChars allows alphanumerics plus a few separators, enough
// for readable bot names without control characters.
var validAgentNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.]+$`)

// ValidateAgentName checks a display name for a scripted agent.
func ValidateAgentName(name string) error {
	if name == "" {
		return fmt.Errorf("agent name cannot be empty")
	}
	if len(name) > MaxAgentNameLen {
		return fmt.Errorf("agent name too long: %d characters (max %d)", len(name), MaxAgentNameLen)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("agent name contains invalid UTF-8")
	}
	if !validAgentNameChars.MatchString(name) {
		return fmt.Errorf("agent name contains invalid characters")
	}
	return nil
}

// ValidateSpawn checks the caller-supplied spawn parameters of an agent
// against the match rules.
func ValidateSpawn(mass float64, position physics.Vector2D, rules *config.Rules) error {
	if mass <= 0 {
		return fmt.Errorf("spawn mass must be positive, got %v", mass)
	}

	half := rules.WorldSize / 2
	arena := physics.Rect{Width: rules.WorldSize, Height: rules.WorldSize}
	if !arena.Contains(position) {
		return fmt.Errorf("spawn position %v outside arena bounds ±%v", position, half)
	}
	return nil
}
