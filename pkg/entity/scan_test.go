// pkg/entity/scan_test.go
package entity

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

func scanRules() *config.Rules {
	rules := config.DefaultRules()
	rules.RadarFOV = math.Pi / 2
	rules.RadarRange = 500
	return rules
}

func agentAt(x, y float64) AgentState {
	state, _ := NewAgentState(GenerateID(), 1, physics.Vector2D{X: x, Y: y})
	return state
}

func TestTryScan_EmptySnapshot(t *testing.T) {
	self := agentAt(0, 0)
	if _, found := TryScan(&self, nil, scanRules()); found {
		t.Error("scan of empty snapshot reported a target")
	}
	if _, found := TryScan(&self, []AgentState{self}, scanRules()); found {
		t.Error("scan of self-only snapshot reported a target")
	}
}

func TestTryScan_NeverReturnsSelf(t *testing.T) {
	rules := scanRules()
	rules.RadarFOV = 2 * math.Pi
	self := agentAt(0, 0)
	snapshot := []AgentState{self, agentAt(100, 0)}

	scan, found := TryScan(&self, snapshot, rules)
	if !found {
		t.Fatal("expected the other agent to be found")
	}
	if !almostEqual(scan.Distance, 100) {
		t.Errorf("distance = %v, want 100 (self would be 0)", scan.Distance)
	}
}

func TestTryScan_EastTargetScenario(t *testing.T) {
	// B directly east of A, inside A's cone and range: A sees B at the
	// separation distance with bearing 0. B faces east too, so A sits
	// behind B's cone and B sees nothing.
	rules := scanRules()
	a := agentAt(0, 0)
	b := agentAt(300, 0)
	snapshot := []AgentState{a, b}

	scan, found := TryScan(&a, snapshot, rules)
	if !found {
		t.Fatal("A should detect B")
	}
	if !almostEqual(scan.Distance, 300) {
		t.Errorf("distance = %v, want 300", scan.Distance)
	}
	if !almostEqual(scan.Angle, 0) {
		t.Errorf("angle = %v, want 0", scan.Angle)
	}

	if _, found := TryScan(&b, snapshot, rules); found {
		t.Error("B should not detect A behind its cone")
	}
}

func TestTryScan_RangeAndConeFiltering(t *testing.T) {
	rules := scanRules()
	self := agentAt(0, 0)

	tests := []struct {
		name   string
		target AgentState
		want   bool
	}{
		{"in cone in range", agentAt(200, 50), true},
		{"in cone out of range", agentAt(600, 0), false},
		{"in range outside cone", agentAt(0, 200), false},
		{"behind", agentAt(-100, 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, found := TryScan(&self, []AgentState{self, tc.target}, rules)
			if found != tc.want {
				t.Errorf("found = %v, want %v", found, tc.want)
			}
		})
	}
}

func TestTryScan_ConeWraparound(t *testing.T) {
	// Radar pointed across the ±π seam must still see targets there.
	rules := scanRules()
	self := agentAt(0, 0)
	self.Heading = math.Pi
	target := agentAt(-200, -10)

	scan, found := TryScan(&self, []AgentState{self, target}, rules)
	if !found {
		t.Fatal("target across the angle seam not detected")
	}
	wantAngle := physics.Vector2D{X: -200, Y: -10}.Angle()
	if !almostEqual(scan.Angle, wantAngle) {
		t.Errorf("angle = %v, want %v", scan.Angle, wantAngle)
	}
}

func TestTryScan_NearestWins_StableTieBreak(t *testing.T) {
	rules := scanRules()
	self := agentAt(0, 0)
	near := agentAt(100, 10)
	far := agentAt(400, -20)
	tieTwin := agentAt(100, -10) // same distance as near

	scan, found := TryScan(&self, []AgentState{self, far, near, tieTwin}, rules)
	if !found {
		t.Fatal("expected a target")
	}
	wantBearing := physics.Vector2D{X: 100, Y: 10}.Angle()
	if !almostEqual(scan.Angle, wantBearing) {
		t.Errorf("tie broken against input order: angle = %v, want %v", scan.Angle, wantBearing)
	}
}

// bruteForceScan is an independent reference: filter every candidate,
// then take the minimum distance in input order.
func bruteForceScan(self *AgentState, snapshot []AgentState, rules *config.Rules) (ScanData, bool) {
	facing := physics.NormalizeAngle(self.Heading + self.Radar.Heading)
	var best ScanData
	found := false
	for _, other := range snapshot {
		if other.ID == self.ID {
			continue
		}
		offset := other.Position.Sub(self.Position)
		d := offset.Length()
		diff := math.Abs(physics.AngleDiff(facing, offset.Angle()))
		if d > rules.RadarRange || diff > rules.RadarFOV/2 {
			continue
		}
		if !found || d < best.Distance {
			best = ScanData{Distance: d, Angle: offset.Angle()}
			found = true
		}
	}
	return best, found
}

func TestTryScan_MatchesBruteForceReference(t *testing.T) {
	rules := scanRules()
	rng := rand.New(rand.NewPCG(7, 13))

	for trial := 0; trial < 100; trial++ {
		self := agentAt(rng.Float64()*400-200, rng.Float64()*400-200)
		self.Heading = rng.Float64()*2*math.Pi - math.Pi
		self.Radar.Heading = rng.Float64()*2*math.Pi - math.Pi

		snapshot := []AgentState{self}
		for i := 0; i < 40; i++ {
			snapshot = append(snapshot, agentAt(rng.Float64()*1600-800, rng.Float64()*1600-800))
		}

		got, gotFound := TryScan(&self, snapshot, rules)
		want, wantFound := bruteForceScan(&self, snapshot, rules)

		if gotFound != wantFound {
			t.Fatalf("trial %d: found = %v, reference = %v", trial, gotFound, wantFound)
		}
		if gotFound && (!almostEqual(got.Distance, want.Distance) || !almostEqual(got.Angle, want.Angle)) {
			t.Fatalf("trial %d: scan %+v, reference %+v", trial, got, want)
		}
	}
}
