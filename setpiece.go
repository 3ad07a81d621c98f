package match

// SetPieceKind tags which restart spawned the sub-FSM (§4.9).
type SetPieceKind int

const (
	SetPieceCorner SetPieceKind = iota
	SetPieceFreeKickDirect
	SetPieceFreeKickIndirect
	SetPiecePenalty
)

// SetPiecePhase is the small FSM each set-piece runs through (§4.9):
// Setup -> Delivery -> AerialContest or Shot -> Resolved. A
// cooldown/active-timer state pattern, generalised into a one-shot
// phase timer that never re-arms.
type SetPiecePhase int

const (
	SPPhaseSetup SetPiecePhase = iota
	SPPhaseDelivery
	SPPhaseAerialContest
	SPPhaseShot
	SPPhaseResolved
)

// SetPieceTactic is the taker's chosen delivery (§4.9).
type SetPieceTactic int

const (
	TacticInswing SetPieceTactic = iota
	TacticOutswing
	TacticDirectShot
	TacticCross
	TacticShortPass
	TacticPenaltyLeft
	TacticPenaltyCentre
	TacticPenaltyRight
)

// SetPieceResultKind is the exactly-one result a sub-FSM resolves into
// (§4.9).
type SetPieceResultKind int

const (
	SPGoal SetPieceResultKind = iota
	SPShotOnTarget
	SPShotOffTarget
	SPSave
	SPCleared
	SPAttackRetain
	SPDefenseWin
	SPOutOfPlay
)

var setupTicksByKind = map[SetPieceKind]int{
	SetPieceCorner:           8,
	SetPieceFreeKickDirect:   8,
	SetPieceFreeKickIndirect: 6,
	SetPiecePenalty:          12,
}

// SetPiece is one live sub-FSM instance, owned by the Match's SetPieces
// slice and addressed by its own id rather than by back-reference
// (§9: stable index, no cyclic ownership).
type SetPiece struct {
	ID         int
	Kind       SetPieceKind
	Phase      SetPiecePhase
	Taker      PitchSlot
	Position   Vec2
	Tactic     SetPieceTactic
	TicksInPhase int
	AttackingHome bool
}

func NewSetPiece(id int, kind SetPieceKind, taker PitchSlot, pos Vec2, tactic SetPieceTactic, attackingHome bool) *SetPiece {
	return &SetPiece{ID: id, Kind: kind, Phase: SPPhaseSetup, Taker: taker, Position: pos, Tactic: tactic, AttackingHome: attackingHome}
}

// Update ticks the sub-FSM forward one step (§4.9 per-tick update
// function). Resolution happens via ResolveSetPiece once Phase reaches
// AerialContest/Shot; Update only advances the timing of Setup ->
// Delivery -> Shot/AerialContest.
func (sp *SetPiece) Update() {
	if sp.Phase == SPPhaseResolved {
		return
	}
	sp.TicksInPhase++
	switch sp.Phase {
	case SPPhaseSetup:
		if sp.TicksInPhase >= setupTicksByKind[sp.Kind] {
			sp.Phase = SPPhaseDelivery
			sp.TicksInPhase = 0
		}
	case SPPhaseDelivery:
		if sp.TicksInPhase >= 2 {
			if sp.Kind == SetPiecePenalty || sp.Tactic == TacticDirectShot {
				sp.Phase = SPPhaseShot
			} else {
				sp.Phase = SPPhaseAerialContest
			}
			sp.TicksInPhase = 0
		}
	}
}

// ResolveSetPiece implements §4.9's resolution with a deterministic
// actor-seeded roll. A Shot phase uses the taker's penalty_taking,
// free_kicks or finishing (by kind) and the GK's save probability; an
// AerialContest uses the attacker's heading and jumping against the
// defender's heading. Corners, crossing and strength are not read.
func ResolveSetPiece(sp *SetPiece, taker, bestAerialAttacker, bestAerialDefender PlayerAttributes, gk GKAttributes, baseSeed uint64, tick int) SetPieceResultKind {
	actor := ActorRNG(baseSeed, tick, sp.Taker, StageResolve^uint64(sp.ID))

	switch sp.Phase {
	case SPPhaseShot:
		skill := takerShotSkill(sp.Kind, taker)
		xg := 0.1 + 0.25*skill
		savep := GKSaveProbability(gk, 22, xg)
		r := actor.Float64()
		switch {
		case r < xg*(1-savep):
			sp.Phase = SPPhaseResolved
			return SPGoal
		case r < xg:
			sp.Phase = SPPhaseResolved
			return SPSave
		default:
			sp.Phase = SPPhaseResolved
			return SPShotOffTarget
		}
	default: // AerialContest
		heading := 0.4 + 0.3*bestAerialAttacker.N(func(a PlayerAttributes) int { return a.Heading })
		jumping := 0.3 * bestAerialAttacker.N(func(a PlayerAttributes) int { return a.Jumping })
		defHeading := 0.4 + 0.3*bestAerialDefender.N(func(a PlayerAttributes) int { return a.Heading })
		winChance := clampF(heading+jumping-defHeading*0.5, 0.15, 0.85)
		sp.Phase = SPPhaseResolved
		if actor.Bool(winChance) {
			if actor.Bool(0.3) {
				return SPShotOnTarget
			}
			return SPAttackRetain
		}
		if actor.Bool(0.5) {
			return SPDefenseWin
		}
		return SPCleared
	}
}

func takerShotSkill(kind SetPieceKind, taker PlayerAttributes) float64 {
	switch kind {
	case SetPiecePenalty:
		return taker.N(func(a PlayerAttributes) int { return a.PenaltyTaking })
	case SetPieceFreeKickDirect:
		return taker.N(func(a PlayerAttributes) int { return a.FreeKicks })
	default:
		return taker.N(func(a PlayerAttributes) int { return a.Finishing })
	}
}
