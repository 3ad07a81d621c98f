package match

// BallStateKind tags the exactly-one-at-a-time ball state (§3).
type BallStateKind int

const (
	BallControlled BallStateKind = iota
	BallInFlight
	BallLoose
	BallOutOfPlay
)

type RestartType int

const (
	RestartKickoff RestartType = iota
	RestartThrowIn
	RestartGoalKick
	RestartCorner
	RestartDirectFreeKick
	RestartIndirectFreeKick
	RestartPenalty
	RestartDropBall
)

// BallState is the tagged variant described in §3. Only one of the
// payload fields is meaningful, selected by Kind; this mirrors §9's
// "tagged variant, not dynamic dispatch" guidance for polymorphic
// action types, applied here to ball state.
type BallState struct {
	Kind BallStateKind

	// Controlled
	Owner PitchSlot

	// InFlight
	From         Vec2
	To           Vec2
	HeightPeak   float64
	ArrivalTick  int
	LaunchTick   int

	// Loose
	LoosePos Vec2
	LooseVel Vec2

	// OutOfPlay
	Restart         RestartType
	RestartPos      Vec2
	HomeTeamReceives bool
}

func NewBallStateControlled(owner PitchSlot) BallState {
	return BallState{Kind: BallControlled, Owner: owner}
}

// Ball physics constants (§4.7), open-question constants per §9: fixed
// here as the reference's stated ranges; an implementer calibrating
// against a reference run may retune.
const (
	BallGravity       = 9.81
	BallGroundFriction = 1.8 // m/s^2 deceleration while Loose
	BallMaxHeight     = 2.0
	WoodworkTolerance = 0.06 // metres, ball-radius equivalent at the frame
)

// AdvanceInFlight steps an InFlight ball toward its arrival tick. height
// follows a parabolic profile peaking at HeightPeak halfway through the
// flight, matching §4.7's "height profile" requirement without a full
// rigid-body integrator (explicit non-goal, §1).
func (b *Ball) AdvanceInFlight(s *BallState, tick int) {
	total := s.ArrivalTick - s.LaunchTick
	if total <= 0 {
		total = 1
	}
	elapsed := tick - s.LaunchTick
	t := float64(elapsed) / float64(total)
	t = clampF(t, 0, 1)
	b.Position = Vec2{
		X: Lerp(s.From.X, s.To.X, t),
		Y: Lerp(s.From.Y, s.To.Y, t),
	}
	// parabola: 0 at t=0 and t=1, HeightPeak at t=0.5
	b.Height = s.HeightPeak * 4 * t * (1 - t)
	b.IsInFlight = true
}

// AdvanceLoose integrates a Loose ball with simple ground friction
// damping, clamping to pitch bounds (§4.7).
func (b *Ball) AdvanceLoose(dtSeconds float64) {
	speed := b.Velocity.Length()
	if speed > 0 {
		drop := BallGroundFriction * dtSeconds
		newSpeed := speed - drop
		if newSpeed < 0 {
			newSpeed = 0
		}
		dir := b.Velocity.Normalized()
		b.Velocity = dir.Scale(newSpeed)
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dtSeconds)).ClampPitch()
	if b.Height > 0 {
		b.Height -= BallGravity * dtSeconds * dtSeconds
		if b.Height < 0 {
			b.Height = 0
		}
	}
	b.IsInFlight = false
}

// WoodworkHit reports whether an in-flight segment toward a goal mouth
// clips the post/crossbar frame (§4.7). Tick stage 10 only counts a hit
// in Telemetry.FallbackCount; no action is cancelled because of it.
func WoodworkHit(arrival Vec2, height float64, attacksRight bool) bool {
	goalX := 0.0
	if attacksRight {
		goalX = PitchLength
	}
	if clampF(arrival.X, goalX-WoodworkTolerance, goalX+WoodworkTolerance) != arrival.X {
		return false
	}
	yMin := PitchWidth/2 - GoalWidth/2
	yMax := PitchWidth/2 + GoalWidth/2
	inMouth := arrival.Y >= yMin && arrival.Y <= yMax && height <= GoalHeight
	return !inMouth
}

// OutOfPlayResult names the restart produced when the ball leaves the
// field of play (§4.7).
type OutOfPlayResult struct {
	Restart         RestartType
	Position        Vec2
	HomeTeamReceives bool
}

// DetectOutOfPlay maps a ball position outside the pitch bounds to the
// correct restart type and snapped position. lastTouchHome identifies
// which side touched the ball last, needed to award throw-ins/corners/
// goal-kicks to the correct side. homeAttacksRight must be the current
// tick's AttacksRight(true, half): which end a goal-line exit sits
// behind flips with it, since the defending side at x>PitchLength is
// away before half-time and home after (pitch.go's AttacksRight).
func DetectOutOfPlay(pos Vec2, lastTouchHome bool, homeAttacksRight bool) (OutOfPlayResult, bool) {
	if pos.X >= 0 && pos.X <= PitchLength && pos.Y >= 0 && pos.Y <= PitchWidth {
		return OutOfPlayResult{}, false
	}
	snapped := pos.ClampPitch()
	switch {
	case pos.Y < 0 || pos.Y > PitchWidth:
		snapped.Y = clampF(snapped.Y, 0, PitchWidth)
		return OutOfPlayResult{Restart: RestartThrowIn, Position: snapped, HomeTeamReceives: !lastTouchHome}, true
	case pos.X < 0:
		// x<0 is the left end: home's own goal line while home attacks
		// right, away's while home attacks left.
		return outOfPlayGoalLine(snapped, homeAttacksRight, lastTouchHome), true
	default: // pos.X > PitchLength
		return outOfPlayGoalLine(snapped, !homeAttacksRight, lastTouchHome), true
	}
}

// outOfPlayGoalLine resolves a dead-ball-behind-the-line restart.
// defendingIsHome is true when the goal line the ball exited behind
// belongs to the home side. If the defending side touched it last, it
// is a corner for the attacking side; otherwise a goal kick for the
// defending side.
func outOfPlayGoalLine(snapped Vec2, defendingIsHome bool, lastTouchHome bool) OutOfPlayResult {
	defenderTouchedLast := lastTouchHome == defendingIsHome
	if defenderTouchedLast {
		return OutOfPlayResult{Restart: RestartCorner, Position: snapped, HomeTeamReceives: !defendingIsHome}
	}
	return OutOfPlayResult{Restart: RestartGoalKick, Position: snapped, HomeTeamReceives: defendingIsHome}
}

// IsGoal reports whether an arrival fully inside the goal mouth (ball
// radius included) at the goal line counts as a goal (§8 boundary
// behaviour: fully inside the posts scores, any part outside does not).
func IsGoal(pos Vec2, height float64, ballRadius float64, attacksRight bool) bool {
	goalX := 0.0
	if attacksRight {
		goalX = PitchLength
	}
	if pos.X < goalX-ballRadius || pos.X > goalX+ballRadius {
		return false
	}
	yMin := PitchWidth/2 - GoalWidth/2 + ballRadius
	yMax := PitchWidth/2 + GoalWidth/2 - ballRadius
	if pos.Y < yMin || pos.Y > yMax {
		return false
	}
	return height <= GoalHeight-ballRadius
}
