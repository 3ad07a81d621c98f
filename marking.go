package match

// MarkState is the MarkingManager's per-defender bookkeeping (§3).
type MarkState struct {
	PrimaryMark       PitchSlot // -1 (NoSlot) if none
	IsEmergencyPresser bool
	IsCover           bool
	LastReassignTick  int
}

// MarkingManager owns every defender's MarkState for one team, with
// hysteresis to avoid thrashing reassignment every tick (§4.8).
type MarkingManager struct {
	states map[PitchSlot]*MarkState
	// ReassignCooldownTicks is the minimum gap between reassignments for
	// the same defender, the hysteresis mechanism named in §3/§4.8.
	ReassignCooldownTicks int
	EmergencyThreshold    float64
}

func NewMarkingManager() *MarkingManager {
	return &MarkingManager{
		states:                make(map[PitchSlot]*MarkState),
		ReassignCooldownTicks: 20,
		EmergencyThreshold:    0.62,
	}
}

func (m *MarkingManager) stateFor(d PitchSlot) *MarkState {
	s, ok := m.states[d]
	if !ok {
		s = &MarkState{PrimaryMark: NoSlot, LastReassignTick: -1000}
		m.states[d] = s
	}
	return s
}

// AssignmentCost is the distance-based cost used to pick the nearest
// eligible attacker for a defender, the same "score candidate pairs,
// pick lowest cost" shape used throughout the decision pipeline.
func AssignmentCost(defenderPos, attackerPos Vec2) float64 {
	return defenderPos.Dist(attackerPos)
}

// Reassign implements the hysteresis rule: only reassign a defender's
// primary mark if the cooldown has elapsed AND the new candidate is
// materially closer (at least 1.5m) than the current mark, preventing
// per-tick flapping between two similarly-placed attackers.
func (m *MarkingManager) Reassign(defender PitchSlot, candidates map[PitchSlot]Vec2, defenderPos Vec2, tick int) {
	s := m.stateFor(defender)
	var bestSlot PitchSlot = NoSlot
	bestCost := 1e9
	for slot, pos := range candidates {
		c := AssignmentCost(defenderPos, pos)
		if c < bestCost {
			bestCost = c
			bestSlot = slot
		}
	}
	if bestSlot == NoSlot {
		return
	}
	if s.PrimaryMark == NoSlot {
		s.PrimaryMark = bestSlot
		s.LastReassignTick = tick
		return
	}
	if tick-s.LastReassignTick < m.ReassignCooldownTicks {
		return
	}
	currentCost, ok := candidates[s.PrimaryMark]
	if !ok || AssignmentCost(defenderPos, currentCost)-bestCost > 1.5 {
		s.PrimaryMark = bestSlot
		s.LastReassignTick = tick
	}
}

// CarrierFreeScore estimates how unmarked the ball carrier currently is
// (0 = tightly marked, 1 = completely free), from the nearest
// defender's distance to the carrier.
func CarrierFreeScore(nearestDefenderDist float64) float64 {
	return clampF(nearestDefenderDist/8.0, 0, 1)
}

// CheckEmergencyPress marks a defender as an emergency presser when the
// carrier-free score exceeds the configured threshold (default 0.62,
// §4.8).
func (m *MarkingManager) CheckEmergencyPress(defender PitchSlot, carrierFreeScore float64) bool {
	s := m.stateFor(defender)
	s.IsEmergencyPresser = carrierFreeScore > m.EmergencyThreshold
	return s.IsEmergencyPresser
}

func (m *MarkingManager) Get(defender PitchSlot) MarkState {
	return *m.stateFor(defender)
}
