// pkg/config/rules.go
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Rules contains the immutable physical constants of a match. A single
// Rules value is shared read-only by every agent for the match duration.
type Rules struct {
	// DriveFriction and TurnFriction are multiplicative damping factors
	// in (0,1] applied per integration step. 1.0 means no damping.
	DriveFriction float64 `json:"driveFriction"`
	TurnFriction  float64 `json:"turnFriction"`

	BulletSpeed float64 `json:"bulletSpeed"`
	GunOffset   float64 `json:"gunOffset"` // muzzle distance from agent center

	AgentWidth  float64 `json:"agentWidth"` // bounding rectangle, along heading
	AgentHeight float64 `json:"agentHeight"`

	RadarFOV   float64 `json:"radarFOV"` // total cone angle, radians
	RadarRange float64 `json:"radarRange"`

	WorldSize float64 `json:"worldSize"` // square arena side length
}

// DefaultRules returns the rules used when no rules file is given.
func DefaultRules() *Rules {
	return &Rules{
		DriveFriction: 0.95,
		TurnFriction:  0.9,
		BulletSpeed:   400,
		GunOffset:     22,
		AgentWidth:    36,
		AgentHeight:   24,
		RadarFOV:      math.Pi / 3,
		RadarRange:    600,
		WorldSize:     2000,
	}
}

// LoadRules reads a Rules value from a JSON file and validates it.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	return &rules, nil
}

// SaveRules writes a Rules value to a JSON file.
func SaveRules(rules *Rules, path string) error {
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	return nil
}

// Validate checks that every rule is inside its legal range. Malformed
// rules are a caller error and are rejected before a match starts.
func (r *Rules) Validate() error {
	if r.DriveFriction <= 0 || r.DriveFriction > 1 {
		return fmt.Errorf("driveFriction %v outside (0,1]", r.DriveFriction)
	}
	if r.TurnFriction <= 0 || r.TurnFriction > 1 {
		return fmt.Errorf("turnFriction %v outside (0,1]", r.TurnFriction)
	}
	if r.BulletSpeed <= 0 {
		return fmt.Errorf("bulletSpeed must be positive, got %v", r.BulletSpeed)
	}
	if r.GunOffset < 0 {
		return fmt.Errorf("gunOffset must be non-negative, got %v", r.GunOffset)
	}
	if r.AgentWidth <= 0 || r.AgentHeight <= 0 {
		return fmt.Errorf("agent size must be positive, got %vx%v", r.AgentWidth, r.AgentHeight)
	}
	if r.RadarFOV <= 0 || r.RadarFOV > 2*math.Pi {
		return fmt.Errorf("radarFOV %v outside (0, 2π]", r.RadarFOV)
	}
	if r.RadarRange <= 0 {
		return fmt.Errorf("radarRange must be positive, got %v", r.RadarRange)
	}
	if r.WorldSize <= 0 {
		return fmt.Errorf("worldSize must be positive, got %v", r.WorldSize)
	}
	return nil
}
