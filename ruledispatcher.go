package match

// DispatcherMode selects how RuleDispatcher decisions affect play
// (§4.10).
type DispatcherMode int

const (
	ModeStatisticsOnly DispatcherMode = iota
	ModeLegacyWithTracking
	ModeDispatcherPrimary
)

// RuleEventKind names the events the dispatcher is invoked for.
type RuleEventKind int

const (
	RuleEventPass RuleEventKind = iota
	RuleEventPotentialGoal
	RuleEventPotentialFoul
	RuleEventPotentialHandball
	RuleEventPotentialOutOfPlay
)

// RuleDecisionKind tags the RuleDecision variant (§4.10).
type RuleDecisionKind int

const (
	RuleContinue RuleDecisionKind = iota
	RuleGoal
	RuleOutOfPlay
	RuleOffside
	RuleFoul
	RuleHandball
)

type FoulSeverity int

const (
	FoulNone FoulSeverity = iota
	FoulYellow
	FoulRed
)

// RuleDecision is the tagged-variant output of one dispatcher call.
type RuleDecision struct {
	Kind RuleDecisionKind

	Scorer         PitchSlot
	Restart        RestartType
	Position       Vec2
	LastTouchHome  bool
	Receiver       PitchSlot
	FoulOn         PitchSlot
	FoulBy         PitchSlot
	Severity       FoulSeverity
	HandballDirect bool // true: direct free kick, false: indirect free kick
}

// RuleEvent is the input to one dispatcher call.
type RuleEvent struct {
	Kind          RuleEventKind
	BallPos       Vec2
	BallHeight    float64
	LastTouchHome bool
	AttacksRightHome bool

	// Used by RuleEventPass: the receiver's and the defending line's x
	// (team view, attacking side's frame) at the moment the pass left
	// the passer's foot, and the receiver's world position for the
	// resulting restart.
	Receiver         PitchSlot
	ReceiverX        float64
	LastDefenderX    float64
	ReceiverWorldPos Vec2
}

// RuleDispatcher operates in three modes (§4.10). It is owned
// exclusively by the Match (§5). Evaluate is called from tick stage 3
// and from the pass/shot resolve and tackle code in tick_helpers.go; the
// A/B counters change only in LegacyWithTracking mode.
type RuleDispatcher struct {
	Mode DispatcherMode

	// A/B counters: how often dispatcher and legacy agreed/disagreed in
	// LegacyWithTracking mode (§8 "rule dispatcher agreement").
	Agreements    int
	Disagreements int
}

func NewRuleDispatcher(mode DispatcherMode) *RuleDispatcher {
	return &RuleDispatcher{Mode: mode}
}

// Evaluate runs the dispatcher for one event using a deterministic RNG
// roll (actor-seeded by the caller) and returns the decisions. The tick
// orchestrator only applies them immediately when Mode ==
// DispatcherPrimary (§4.1 stage 3); in the other two modes evaluation
// still runs (for StatisticsOnly/LegacyWithTracking counters) but never
// changes outcomes on its own.
func (d *RuleDispatcher) Evaluate(ev RuleEvent, legacyDecision *RuleDecision, rng *xorshift64) []RuleDecision {
	decisions := d.evaluateInternal(ev, rng)
	if d.Mode == ModeLegacyWithTracking && legacyDecision != nil {
		d.trackAgreement(decisions, *legacyDecision)
	}
	return decisions
}

func (d *RuleDispatcher) trackAgreement(decisions []RuleDecision, legacy RuleDecision) {
	agree := len(decisions) > 0 && decisions[0].Kind == legacy.Kind
	if agree {
		d.Agreements++
	} else {
		d.Disagreements++
	}
}

func (d *RuleDispatcher) evaluateInternal(ev RuleEvent, rng *xorshift64) []RuleDecision {
	switch ev.Kind {
	case RuleEventPotentialGoal:
		if IsGoal(ev.BallPos, ev.BallHeight, 0.11, ev.AttacksRightHome) {
			return []RuleDecision{{Kind: RuleGoal}}
		}
		return []RuleDecision{{Kind: RuleContinue}}
	case RuleEventPotentialOutOfPlay:
		res, out := DetectOutOfPlay(ev.BallPos, ev.LastTouchHome, ev.AttacksRightHome)
		if !out {
			return []RuleDecision{{Kind: RuleContinue}}
		}
		return []RuleDecision{{
			Kind: RuleOutOfPlay, Restart: res.Restart, Position: res.Position,
			LastTouchHome: res.HomeTeamReceives,
		}}
	case RuleEventPotentialFoul:
		// Foul probability is resolved upstream by the tackle protocol
		// (§4.4); the dispatcher only classifies severity here using a
		// single deterministic roll so StatisticsOnly mode can still be
		// exercised without affecting outcomes.
		roll := rng.Float64()
		severity := FoulNone
		if roll < 0.04 {
			severity = FoulRed
		} else if roll < 0.18 {
			severity = FoulYellow
		}
		return []RuleDecision{{Kind: RuleFoul, Severity: severity}}
	case RuleEventPotentialHandball:
		direct := rng.Bool(0.3)
		return []RuleDecision{{Kind: RuleHandball, HandballDirect: direct}}
	case RuleEventPass:
		// ReceiverX and LastDefenderX are team view, where +X always
		// points at the goal being attacked.
		if EvaluateOffside(ev.ReceiverX, ev.LastDefenderX, true) {
			return []RuleDecision{{
				Kind: RuleOffside, Receiver: ev.Receiver, Position: ev.ReceiverWorldPos,
				LastTouchHome: !ev.LastTouchHome,
			}}
		}
		return []RuleDecision{{Kind: RuleContinue}}
	default:
		return []RuleDecision{{Kind: RuleContinue}}
	}
}

// EvaluateOffside implements §8's offside-symmetry property: the check
// must use the defender line at the moment the pass left the passer's
// foot (passTickLine), not at arrival.
func EvaluateOffside(receiverX float64, passTickLastDefenderX float64, attacksRight bool) bool {
	if attacksRight {
		return receiverX > passTickLastDefenderX
	}
	return receiverX < passTickLastDefenderX
}
