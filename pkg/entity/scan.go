// pkg/entity/scan.go
package entity

import (
	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// ScanData is the result of a successful radar sweep: the distance to
// the detected agent and the absolute bearing from the scanning agent.
// Absence of a target is reported by TryScan's second return value, not
// by a zero ScanData.
type ScanData struct {
	Distance float64
	Angle    float64
}

// TryScan sweeps the radar cone of self against a world snapshot and
// returns the nearest qualifying agent. The snapshot reflects the arena
// as of the start of the tick, so results lag the freshest positions by
// one tick. The scan is stateless and recomputed from scratch per call.
//
// A candidate qualifies when it is not self, lies within the radar
// range, and its bearing falls inside the field-of-view cone centered
// on the combined body and radar heading. Among qualifiers the nearest
// wins; exact distance ties keep the first candidate in snapshot order.
func TryScan(self *AgentState, snapshot []AgentState, rules *config.Rules) (ScanData, bool) {
	facing := physics.NormalizeAngle(self.Heading + self.Radar.Heading)
	halfSpread := rules.RadarFOV / 2

	var best ScanData
	found := false

	for i := range snapshot {
		other := &snapshot[i]
		if other.ID == self.ID {
			continue
		}

		offset := other.Position.Sub(self.Position)
		distance := offset.Length()
		if distance > rules.RadarRange {
			continue
		}
		bearing := offset.Angle()
		if !physics.WithinArc(facing, halfSpread, bearing) {
			continue
		}

		if !found || distance < best.Distance {
			best = ScanData{Distance: distance, Angle: bearing}
			found = true
		}
	}

	return best, found
}
