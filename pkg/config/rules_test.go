// pkg/config/rules_test.go
package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultRules_Valid(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
}

func TestRules_Validate_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rules)
		wantErr bool
	}{
		{"default", func(r *Rules) {}, false},
		{"no damping allowed", func(r *Rules) { r.DriveFriction = 1.0 }, false},
		{"zero drive friction", func(r *Rules) { r.DriveFriction = 0 }, true},
		{"drive friction above one", func(r *Rules) { r.DriveFriction = 1.1 }, true},
		{"negative turn friction", func(r *Rules) { r.TurnFriction = -0.5 }, true},
		{"zero bullet speed", func(r *Rules) { r.BulletSpeed = 0 }, true},
		{"negative gun offset", func(r *Rules) { r.GunOffset = -1 }, true},
		{"zero gun offset ok", func(r *Rules) { r.GunOffset = 0 }, false},
		{"zero agent width", func(r *Rules) { r.AgentWidth = 0 }, true},
		{"fov too wide", func(r *Rules) { r.RadarFOV = 3 * math.Pi }, true},
		{"full circle fov ok", func(r *Rules) { r.RadarFOV = 2 * math.Pi }, false},
		{"zero radar range", func(r *Rules) { r.RadarRange = 0 }, true},
		{"zero world size", func(r *Rules) { r.WorldSize = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := DefaultRules()
			tc.mutate(rules)
			err := rules.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadRules_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	original := DefaultRules()
	original.BulletSpeed = 123

	if err := SaveRules(original, path); err != nil {
		t.Fatalf("SaveRules: %v", err)
	}
	loaded, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if *loaded != *original {
		t.Errorf("round trip mismatch: %+v != %+v", loaded, original)
	}
}

func TestLoadRules_Errors(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	bad := DefaultRules()
	bad.DriveFriction = 2
	if err := SaveRules(bad, path); err != nil {
		t.Fatalf("SaveRules: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("expected error for invalid rules")
	}
}
