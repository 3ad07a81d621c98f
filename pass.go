package match

// PassOutcomeKind enumerates §4.5's resolve outcomes.
type PassOutcomeKind int

const (
	PassSuccess PassOutcomeKind = iota
	PassDeflected
	PassIntercepted
	PassOut
)

// LaneBlockHint is the two-stage interception-risk lookup of §4.5: a
// cheap grid-hint sampling from the FieldBoard, validated by a raycast
// against the nearest opponents only when the hint crosses a threshold.
type LaneBlockHint struct {
	GridRisk float64 // O(k) FieldBoard sample
}

const laneBlockRaycastThreshold = 0.35

// RaycastLaneBlocked checks whether any of the n nearest opponents sit
// close enough to the pass lane to intercept it, used only when
// GridRisk exceeds the threshold (§4.5).
func RaycastLaneBlocked(from, to Vec2, opponents []Vec2, corridorM float64) bool {
	dir := to.Sub(from)
	length := dir.Length()
	if length < 1e-6 {
		return false
	}
	dirN := dir.Normalized()
	for _, o := range opponents {
		rel := o.Sub(from)
		proj := rel.X*dirN.X + rel.Y*dirN.Y
		if proj < 0 || proj > length {
			continue
		}
		closest := from.Add(dirN.Scale(proj))
		if closest.Dist(o) < corridorM {
			return true
		}
	}
	return false
}

// InterceptionRisk implements the two-stage LaneBlock system: the grid
// hint is used directly unless it crosses the threshold, in which case
// the nearest N opponents (2-4) are raycast-validated. SubsystemUnavailable
// is signalled by hint.GridRisk < 0 when the FieldBoard is absent,
// falling back to a flat legacy 3-point estimate (§7).
func InterceptionRisk(hint LaneBlockHint, from, to Vec2, nearestOpponents []Vec2) (float64, bool) {
	if hint.GridRisk < 0 {
		return 0.12, true // SubsystemUnavailable fallback, legacy flat risk
	}
	if hint.GridRisk < laneBlockRaycastThreshold {
		return hint.GridRisk, false
	}
	n := nearestOpponents
	if len(n) > 4 {
		n = n[:4]
	}
	if RaycastLaneBlocked(from, to, n, 1.2) {
		return clampF(hint.GridRisk*1.6, 0, 0.95), false
	}
	return hint.GridRisk, false
}

// PassDistanceFactor and PassSkillFactor implement §4.5's success
// probability components.
func PassDistanceFactor(distM float64, passing, vision float64) float64 {
	base := 1.0 - distM/120.0
	return clampF(base+0.15*vision, 0, 1) * (0.8 + 0.2*passing)
}

func PassSkillFactor(passing, technique float64) float64 {
	return 0.6 + 0.4*(passing+technique)/2
}

func PressurePenalty(localPressure, composure, decisions float64) float64 {
	return localPressure * (0.25 - 0.1*(composure+decisions)/2)
}

// PassSuccessProbability combines §4.5's formula, clamped to [0.10, 0.95].
func PassSuccessProbability(distM float64, passing, vision, technique, localPressure, composure, decisions float64, interceptionRisk float64) float64 {
	p := PassDistanceFactor(distM, passing, vision) * PassSkillFactor(passing, technique)
	p -= PressurePenalty(localPressure, composure, decisions)
	p -= interceptionRisk
	return clampF(p, 0.10, 0.95)
}

// ResolvePass draws the deterministic outcome for a pass attempt using
// an actor-seeded roll (§4.5, §5).
func ResolvePass(pSuccess float64, baseSeed uint64, tick int, passer PitchSlot) PassOutcomeKind {
	actor := ActorRNG(baseSeed, tick, passer, StagePass)
	r := actor.Float64()
	if r < pSuccess {
		return PassSuccess
	}
	remaining := r - pSuccess
	switch {
	case remaining < 0.4*(1-pSuccess):
		return PassIntercepted
	case remaining < 0.75*(1-pSuccess):
		return PassDeflected
	default:
		return PassOut
	}
}

// ArrivalTick computes the discretised tick at which an in-flight pass
// reaches its target, from distance and a type-dependent flight speed
// (§4.5).
func ArrivalTick(launchTick int, distM float64, passType PassType) int {
	speed := 18.0 // m/s, short/through default
	switch passType {
	case PassLong, PassLob:
		speed = 22.0
	case PassCross:
		speed = 20.0
	case PassClear:
		speed = 24.0
	}
	ticksFloat := distM / speed / 0.25
	ticks := int(ticksFloat + 0.999)
	if ticks < 1 {
		ticks = 1
	}
	return launchTick + ticks
}

// ForwardPassAudit records the progress_m and max_forward option data
// §4.5 asks PassStarted to carry.
type ForwardPassAudit struct {
	ProgressM        float64
	MaxForwardOption float64
}

func ComputeForwardPassAudit(fromTeamView, toTeamView Vec2, teammateOptions []Vec2) ForwardPassAudit {
	progress := toTeamView.X - fromTeamView.X
	maxFwd := progress
	for _, opt := range teammateOptions {
		if d := opt.X - fromTeamView.X; d > maxFwd {
			maxFwd = d
		}
	}
	return ForwardPassAudit{ProgressM: progress, MaxForwardOption: maxFwd}
}
