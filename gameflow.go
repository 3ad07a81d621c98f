package match

// GameFlowState is the match-level FSM (§3): a phase switch generalised
// to the richer restart-setup vocabulary of §3.
type GameFlowState int

const (
	FlowInPlay GameFlowState = iota
	FlowKickoffReady
	FlowHalfTime
	FlowGoalCelebration
	FlowThrowInSetup
	FlowGoalKickSetup
	FlowCornerSetup
	FlowFreeKickSetup
	FlowDeadBall
)

// flow state durations, in ticks (250ms), using a countdown-with-tick-
// counter pattern.
var flowDuration = map[GameFlowState]int{
	FlowKickoffReady:    8,
	FlowHalfTime:        4, // "finalises" quickly; real-world quarter-hour break is out of tick scope
	FlowGoalCelebration: 12,
	FlowThrowInSetup:    4,
	FlowGoalKickSetup:   6,
	FlowCornerSetup:     6,
	FlowFreeKickSetup:   6,
	FlowDeadBall:        4,
}

// GameFlow carries the FSM state plus its "ticks in this state" counter
// (§3).
type GameFlow struct {
	State     GameFlowState
	TicksIn   int
}

func NewGameFlow() *GameFlow {
	return &GameFlow{State: FlowKickoffReady}
}

// Update advances the flow state based on elapsed ticks and ball state
// (§4.1 stage 2). Restart-setup states resume to InPlay once the ball
// has actually been put back into play (ballInPlay) or the state's
// timeout elapses, whichever is first: a timeout+explicit-trigger dual
// exit.
func (f *GameFlow) Update(ballInPlay bool) {
	f.TicksIn++
	if f.State == FlowInPlay {
		return
	}
	dur, ok := flowDuration[f.State]
	if !ok {
		dur = 1
	}
	if ballInPlay && f.State != FlowHalfTime && f.State != FlowGoalCelebration {
		f.enterInPlay()
		return
	}
	if f.TicksIn >= dur {
		f.enterInPlay()
	}
}

func (f *GameFlow) enterInPlay() {
	f.State = FlowInPlay
	f.TicksIn = 0
}

// EnterRestart transitions to the setup state matching a restart type,
// used by the tick orchestrator right after an out-of-play/goal/foul
// decision is applied.
func (f *GameFlow) EnterRestart(r RestartType) {
	switch r {
	case RestartThrowIn:
		f.State = FlowThrowInSetup
	case RestartGoalKick:
		f.State = FlowGoalKickSetup
	case RestartCorner:
		f.State = FlowCornerSetup
	case RestartDirectFreeKick, RestartIndirectFreeKick, RestartPenalty:
		f.State = FlowFreeKickSetup
	case RestartKickoff, RestartDropBall:
		f.State = FlowKickoffReady
	}
	f.TicksIn = 0
}

func (f *GameFlow) EnterGoalCelebration() {
	f.State = FlowGoalCelebration
	f.TicksIn = 0
}

func (f *GameFlow) EnterHalfTime() {
	f.State = FlowHalfTime
	f.TicksIn = 0
}

// TeamPhase is the per-team possession phase (§3).
type TeamPhase int

const (
	PhaseAttack TeamPhase = iota
	PhaseDefense
	PhaseTransitionAttack
	PhaseTransitionDefense
)

// AttackSubPhase is the possessing team's sub-phase (§3), used to scale
// decision-pipeline biases (§4.3 Gate B).
type AttackSubPhase int

const (
	SubPhaseCirculation AttackSubPhase = iota
	SubPhaseProgression
	SubPhaseFinalization
	SubPhaseTransition
)

// AttackPhase distinguishes the team-shape classification in tick stage
// 7, separate from the possession-driven AttackSubPhase of stage 6.
type AttackPhase int

const (
	AttackPhaseCirculation AttackPhase = iota
	AttackPhasePositional
	AttackPhaseTransition
)

// TeamPhases bundles both teams' TeamPhase/AttackSubPhase/AttackPhase so
// the orchestrator can update them in one stage (§4.1 stages 6-7).
type TeamPhases struct {
	Home TeamPhase
	Away TeamPhase

	PossessingSubPhase AttackSubPhase
	PossessingAttack   AttackPhase
}

// UpdateTeamPhase recomputes TeamPhase for both sides from "stable
// possession" (§3 invariant: prefer current owner, fall back to
// previous owner, else keep last phase — no flicker during
// InFlight/Loose).
func (p *TeamPhases) UpdateTeamPhase(ball *Ball) {
	var possHome *bool
	if ball.CurrentOwner != NoSlot {
		h := ball.CurrentOwner.IsHome()
		possHome = &h
	} else if ball.PreviousOwner != NoSlot {
		h := ball.PreviousOwner.IsHome()
		possHome = &h
	}
	if possHome == nil {
		return // keep last phase, no flicker
	}
	if *possHome {
		p.Home, p.Away = PhaseAttack, PhaseDefense
	} else {
		p.Home, p.Away = PhaseDefense, PhaseAttack
	}
}

// UpdateAttackSubPhase derives the possessing team's circulation/
// progression/finalization/transition sub-phase from pressure, forward
// pass options and distance to goal (§4.1 stage 6, §4.3 Gate B scaling).
func (p *TeamPhases) UpdateAttackSubPhase(localPressure float64, forwardOptions int, distToGoal float64, justTransitioned bool) {
	switch {
	case justTransitioned:
		p.PossessingSubPhase = SubPhaseTransition
	case distToGoal < PenaltyAreaLength*1.5:
		p.PossessingSubPhase = SubPhaseFinalization
	case forwardOptions >= 2 && localPressure < 0.5:
		p.PossessingSubPhase = SubPhaseProgression
	default:
		p.PossessingSubPhase = SubPhaseCirculation
	}
}

// UpdateAttackPhase derives the team-shape classification of stage 7
// from line length, pressure, the counts of attackers and defenders
// ahead of the ball and whether the forward zone is open.
func (p *TeamPhases) UpdateAttackPhase(lineLength float64, pressure float64, attackersAhead, defendersAhead int, forwardZoneOpen bool) {
	switch {
	case pressure > 0.75 && attackersAhead < defendersAhead:
		p.PossessingAttack = AttackPhaseTransition
	case forwardZoneOpen && lineLength < 30:
		p.PossessingAttack = AttackPhasePositional
	default:
		p.PossessingAttack = AttackPhaseCirculation
	}
}

// ProgressiveBias returns the multiplicative scale the decision pipeline
// applies to the "progressive pass" utility weight for the given
// sub-phase (§4.3: 0.25x Circulation, 1.1x Progression, 0.8x
// Finalization).
func (s AttackSubPhase) ProgressiveBias() float64 {
	switch s {
	case SubPhaseCirculation:
		return 0.25
	case SubPhaseProgression:
		return 1.1
	case SubPhaseFinalization:
		return 0.8
	default:
		return 1.0
	}
}
