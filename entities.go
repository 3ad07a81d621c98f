package match

// PitchSlot is the stable 0-21 index used as the canonical track_id for
// replay and telemetry (§3). Slots 0 and 11 are the home/away GKs.
type PitchSlot int

const (
	NumSlots   = 22
	HomeGKSlot = PitchSlot(0)
	AwayGKSlot = PitchSlot(11)
)

func (s PitchSlot) IsHome() bool { return s < 11 }
func (s PitchSlot) IsGK() bool   { return s == HomeGKSlot || s == AwayGKSlot }

// BallOwnership mirrors Ball.current_owner: -1 means no owner.
const NoSlot = PitchSlot(-1)

// Ball is the single ball entity. Position/velocity are stored in
// metres/ (m/s) at runtime; the 0.1 m/0.1 m/s boundary units in §3 are a
// serialisation detail applied by round1 at the edges (position
// recording, team-view conversion).
type Ball struct {
	Position      Vec2
	Velocity      Vec2
	Height        float64
	CurrentOwner  PitchSlot
	PreviousOwner PitchSlot
	IsInFlight    bool

	// PendingReceiver is the intended recipient of an in-flight pass, if
	// any; consulted once the flight's ArrivalTick is reached to decide
	// between a clean reception and a loose ball (§4.5).
	PendingReceiver PitchSlot
}

func NewBall() *Ball {
	return &Ball{
		Position:        Vec2{PitchLength / 2, PitchWidth / 2},
		CurrentOwner:    NoSlot,
		PreviousOwner:   NoSlot,
		PendingReceiver: NoSlot,
	}
}

// PlayerFSMState is the per-player activity FSM (§3).
type PlayerFSMState int

const (
	StateIdle PlayerFSMState = iota
	StateMoving
	StateInAction
	StateRecovering
	StateStaggered
	StateSentOff
)

func (s PlayerFSMState) CanStartAction() bool {
	return s == StateIdle || s == StateMoving
}

// PlayerPhysicsState is the per-slot kinematic state (§3): an
// accel/turn-rate/friction/clamp movement model over a pitch-bounded
// runner with stamina-scaled motion parameters.
type PlayerPhysicsState struct {
	Position       Vec2
	Velocity       Vec2
	Speed          float64
	BodyDir        Vec2 // unit vector, facing
	Stamina        float64
	Sprinting      bool
	Resting        bool
	RunningTicks   int
	TackleCooldown int

	FSM              PlayerFSMState
	RecoverTicks     int
	StaggerTicks     int
}

// MotionParams are the derived per-player kinematic limits used by the
// inertia-movement sub-stepper (§4.8).
type MotionParams struct {
	MaxSpeed   float64 // m/s
	Accel      float64 // m/s^2
	Decel      float64 // m/s^2
	TurnPenalty float64 // radians/s cap on body-direction change
}

// DeriveMotionParams maps tactical attributes onto concrete motion
// parameters. Pace/acceleration/agility drive the limits; stamina and
// resting state scale them at use time in inertia.go, not here, so that
// MotionParams stays a pure function of attributes (cacheable per slot).
func DeriveMotionParams(a PlayerAttributes) MotionParams {
	return MotionParams{
		MaxSpeed:    5.0 + a.N(func(a PlayerAttributes) int { return a.Pace })*3.5,
		Accel:       3.0 + a.N(func(a PlayerAttributes) int { return a.Acceleration })*4.0,
		Decel:       6.0 + a.N(func(a PlayerAttributes) int { return a.Agility })*3.0,
		TurnPenalty: 4.0 + a.N(func(a PlayerAttributes) int { return a.Agility }) * 4.0,
	}
}

func NewPlayerPhysicsState(pos Vec2) PlayerPhysicsState {
	return PlayerPhysicsState{
		Position: pos,
		BodyDir:  Vec2{1, 0},
		Stamina:  1.0,
		FSM:      StateIdle,
	}
}

func (p *PlayerPhysicsState) TickRecovery() {
	switch {
	case p.FSM == StateRecovering:
		p.RecoverTicks--
		if p.RecoverTicks <= 0 {
			p.FSM = StateIdle
		}
	case p.FSM == StateStaggered:
		p.StaggerTicks--
		if p.StaggerTicks <= 0 {
			p.FSM = StateIdle
		}
	}
	if p.TackleCooldown > 0 {
		p.TackleCooldown--
	}
}

func (p *PlayerPhysicsState) EnterRecovering(ticks int) {
	p.FSM = StateRecovering
	p.RecoverTicks = ticks
}

func (p *PlayerPhysicsState) EnterStaggered(ticks int) {
	p.FSM = StateStaggered
	p.StaggerTicks = ticks
}
