package match

// Mindset classifies the on-ball player's tactical intent class (§4.3,
// glossary).
type Mindset int

const (
	MindsetAttackScore Mindset = iota
	MindsetAttackProtect
	MindsetTransitionCounter
	MindsetAttackProgress
)

// DecisionContext bundles everything Gate A reads to pick a Mindset and
// generate candidates (§4.3). Built fresh each decision from a snapshot
// of Match state; never mutated in place so the pure/actor-seed variant
// can build it off a read-only snapshot (§5).
type DecisionContext struct {
	PlayerSlot        PitchSlot
	PositionTeamView  Vec2
	XGAtPosition      float64
	LocalPressure     float64 // [0,1]
	ImmediatePressure int     // opponents within 2m
	XGZoneLevel       float64
	NearestTeammate   float64
	NearestOpponent   float64
	PassOptionsCount  int
	InPenaltyBox      bool
	NearTouchline     bool
	CounterAttack     bool
	BuildupPhase      AttackSubPhase
	StickyAction      *ActionType
	ShotBudgetLeft    int
}

// ElaborationContext supplies the concrete candidate-target geometry
// Gate A needs once a Mindset is chosen (§4.3).
type ElaborationContext struct {
	OwnGoal         Vec2
	DefendingGoal   Vec2
	PassTargets     []PassTarget
	ShotZones       []Vec2
	NearbyOpponents []PitchSlot
	LastPasser      PitchSlot
}

type PassTarget struct {
	Slot        PitchSlot
	Pos         Vec2
	IsForward   bool
	IsOffside   bool
	Teammate    bool
}

// CandidateKeyKind tags a Gate A candidate (§4.3).
type CandidateKeyKind int

const (
	CandShot CandidateKeyKind = iota
	CandPass
	CandDribble
	CandTackle
	CandCross
	CandClearance
	CandHold
	CandHeader
)

// CandidateKey is one scoreable candidate surfaced by Gate A.
type CandidateKey struct {
	Kind   CandidateKeyKind
	Target ActionTarget
	// PassRef is set for CandPass/CandCross so Gate B can look up the
	// full PassTarget geometry without re-deriving it.
	PassRef PassTarget
}

// ChooseMindset implements §4.3 Gate A's first step.
func ChooseMindset(ctx DecisionContext) Mindset {
	switch {
	case ctx.XGAtPosition > 0.08:
		return MindsetAttackScore
	case ctx.LocalPressure > 0.7:
		return MindsetAttackProtect
	case ctx.CounterAttack:
		return MindsetTransitionCounter
	default:
		return MindsetAttackProgress
	}
}

// GenerateCandidates builds the small candidate set for the chosen
// mindset, excluding offside-positioned forward targets (§4.3).
func GenerateCandidates(ctx DecisionContext, el ElaborationContext, mindset Mindset) []CandidateKey {
	var cands []CandidateKey

	if ctx.XGAtPosition > 0.01 {
		cands = append(cands, CandidateKey{Kind: CandShot, Target: ActionTarget{Kind: TargetGoalMouth, Point: el.DefendingGoal}})
	}

	for _, pt := range el.PassTargets {
		if pt.IsForward && pt.IsOffside {
			continue // excluded per §4.3
		}
		kind := CandPass
		if ctx.NearTouchline && pt.IsForward {
			kind = CandCross
		}
		cands = append(cands, CandidateKey{
			Kind:    kind,
			Target:  ActionTarget{Kind: TargetPlayer, Player: pt.Slot, Point: pt.Pos},
			PassRef: pt,
		})
	}

	if mindset != MindsetAttackProtect || ctx.LocalPressure < 0.9 {
		cands = append(cands, CandidateKey{Kind: CandDribble})
	}

	if mindset == MindsetAttackProtect && ctx.InPenaltyBox {
		cands = append(cands, CandidateKey{Kind: CandClearance})
	}

	cands = append(cands, CandidateKey{Kind: CandHold})

	return cands
}
