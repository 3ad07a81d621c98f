package match

// Role is the off-ball positioning role assigned per slot (§4.8).
type Role int

const (
	RoleMarker Role = iota
	RolePresser
	RoleCover
	RoleSupport
	RolePenetrate
	RoleStretch
	RoleGoalkeeper
)

// PositionIntent is the Phase-1 snapshot-read output for one player:
// a computed target position, collected before any writes happen
// (§4.8's "single biggest correctness requirement").
type PositionIntent struct {
	Slot   PitchSlot
	Role   Role
	Target Vec2
}

// PlayerSnapshot is the read-only per-player state the positioning
// engine snapshots at stage start (§4.8, §9 two-phase helper).
type PlayerSnapshot struct {
	Slot         PitchSlot
	Position     Vec2
	FormationPos Vec2
	IsHome       bool
}

// TeamSnapshot bundles everything PositioningEngine needs read-only.
type TeamSnapshot struct {
	Players      []PlayerSnapshot
	BallPos      Vec2
	Phase        TeamPhase
	AttacksRight bool
	DefLineX     float64 // world x
}

// AssignRoles implements the PositioningEngine's per-team role
// assignment (§4.8) from formation slot, ball and phase.
func AssignRoles(team TeamSnapshot) map[PitchSlot]Role {
	roles := make(map[PitchSlot]Role, len(team.Players))
	// nearest-to-ball-among-outfield becomes presser/support depending on phase.
	var nearest PitchSlot = NoSlot
	var nearestDist = 1e9
	for _, p := range team.Players {
		if p.Slot.IsGK() {
			roles[p.Slot] = RoleGoalkeeper
			continue
		}
		d := p.Position.Dist(team.BallPos)
		if d < nearestDist {
			nearestDist = d
			nearest = p.Slot
		}
	}
	for _, p := range team.Players {
		if p.Slot.IsGK() {
			continue
		}
		switch {
		case p.Slot == nearest && team.Phase == PhaseDefense:
			roles[p.Slot] = RolePresser
		case p.Slot == nearest && team.Phase == PhaseAttack:
			roles[p.Slot] = RoleSupport
		case team.Phase == PhaseDefense:
			roles[p.Slot] = RoleMarker
		case p.FormationPos.X > team.BallPos.X && team.AttacksRight:
			roles[p.Slot] = RolePenetrate
		case !team.AttacksRight && p.FormationPos.X < team.BallPos.X:
			roles[p.Slot] = RolePenetrate
		default:
			roles[p.Slot] = RoleStretch
		}
	}
	_ = RoleCover // never assigned: neither AssignRoles nor MarkingManager (marking.go) sets it
	return roles
}

// ComputeTargetPosition derives a target from the role, formation slot,
// ball position and known cross-landing zones (§4.8 PositioningEngine).
func ComputeTargetPosition(p PlayerSnapshot, role Role, ball Vec2, crossLandingZone *Vec2) Vec2 {
	switch role {
	case RoleGoalkeeper:
		return gkSweepTarget(p, ball)
	case RolePresser:
		dir := ball.Sub(p.Position).Normalized()
		return p.Position.Add(dir.Scale(minF(p.Position.Dist(ball)-1.0, 4.0))).ClampPitch()
	case RoleSupport:
		lead := ball.Add(Vec2{X: 4 * sign(p.FormationPos.X - ball.X)})
		return Vec2{Lerp(p.FormationPos.X, lead.X, 0.4), Lerp(p.FormationPos.Y, lead.Y, 0.4)}.ClampPitch()
	case RolePenetrate:
		if crossLandingZone != nil {
			return Vec2{Lerp(p.FormationPos.X, crossLandingZone.X, 0.5), Lerp(p.FormationPos.Y, crossLandingZone.Y, 0.5)}.ClampPitch()
		}
		return p.FormationPos
	default:
		return p.FormationPos
	}
}

func gkSweepTarget(p PlayerSnapshot, ball Vec2) Vec2 {
	// Sweeps out along the goal-to-ball line but never leaves the box.
	goalX := 2.0
	if p.FormationPos.X > PitchLength/2 {
		goalX = PitchLength - 2.0
	}
	dir := ball.Sub(Vec2{goalX, PitchWidth / 2}).Normalized()
	sweep := Vec2{goalX, PitchWidth / 2}.Add(dir.Scale(3.0))
	return sweep.ClampPitch()
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
