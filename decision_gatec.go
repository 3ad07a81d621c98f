package match

// PlayerAction is the exactly-one-of-five output of the decision
// pipeline (§4.3).
type PlayerAction int

const (
	ActionKindShoot PlayerAction = iota
	ActionKindPass
	ActionKindDribble
	ActionKindTakeOn
	ActionKindHold
)

// DecisionTelemetry accumulates the Gate C counters named in §4.3:
// shot-gate checks/allowed/rejected, clear-shot checks/blocked, and the
// safe-pass sequence counter.
type DecisionTelemetry struct {
	ShotGateChecks    int
	ShotGateAllowed   int
	ShotGateRejected  int
	ClearShotChecks   int
	ClearShotBlocked  int
	SafePassSequence  int
}

// ShotGate enforces "has clear shot" and "good shooting angle" (§4.3
// Gate C). Rejections fall back to the next best non-shot intent.
func ShotGate(ctx DecisionContext, angleDeg float64, tel *DecisionTelemetry) bool {
	tel.ShotGateChecks++
	tel.ClearShotChecks++
	hasClearShot := ctx.ImmediatePressure == 0 && ctx.LocalPressure < 0.6
	goodAngle := angleDeg >= 20 && angleDeg <= 160
	if !hasClearShot {
		tel.ClearShotBlocked++
	}
	ok := hasClearShot && goodAngle
	if ok {
		tel.ShotGateAllowed++
	} else {
		tel.ShotGateRejected++
	}
	return ok
}

// FinalizeAction runs Gate C: translate the softmax-selected candidate
// into a concrete (PlayerAction, ActionDetail), enforcing the shot gate
// and falling back to the next best candidate when it rejects a shot
// (§4.3).
func FinalizeAction(selected CandidateKey, ranked []ScoredCandidate, ctx DecisionContext, angleDeg float64, tel *DecisionTelemetry) (PlayerAction, ActionDetail) {
	if selected.Kind == CandShot {
		if ShotGate(ctx, angleDeg, tel) {
			return ActionKindShoot, ActionDetail{
				Target: selected.Target, Power: 0.8, ShotType: ShotNormal,
			}
		}
		// fallback: next best non-shot candidate, by descending utility.
		best := bestNonShot(ranked)
		if best != nil {
			return translateNonShot(*best, tel)
		}
		return ActionKindHold, ActionDetail{FallbackUsed: true}
	}
	return translateNonShot(selected, tel)
}

func bestNonShot(ranked []ScoredCandidate) *CandidateKey {
	var best *ScoredCandidate
	for i := range ranked {
		if ranked[i].Candidate.Kind == CandShot {
			continue
		}
		if best == nil || ranked[i].Utility > best.Utility {
			best = &ranked[i]
		}
	}
	if best == nil {
		return nil
	}
	return &best.Candidate
}

func translateNonShot(c CandidateKey, tel *DecisionTelemetry) (PlayerAction, ActionDetail) {
	switch c.Kind {
	case CandPass:
		if !c.PassRef.IsForward {
			tel.SafePassSequence++
		} else {
			tel.SafePassSequence = 0
		}
		return ActionKindPass, ActionDetail{Target: c.Target, Power: 0.6, PassType: choosePassType(c.PassRef)}
	case CandCross:
		return ActionKindPass, ActionDetail{Target: c.Target, Power: 0.7, PassType: PassCross}
	case CandDribble:
		return ActionKindDribble, ActionDetail{Dribble: DribbleSafe}
	case CandTackle:
		return ActionKindTakeOn, ActionDetail{Dribble: DribbleTakeOn}
	case CandClearance:
		return ActionKindPass, ActionDetail{Target: c.Target, Power: 1.0, PassType: PassClear}
	case CandHeader:
		return ActionKindShoot, ActionDetail{Target: c.Target, Power: 0.7, ShotType: ShotHeader}
	default:
		return ActionKindHold, ActionDetail{}
	}
}

func choosePassType(pt PassTarget) PassType {
	if pt.IsForward {
		return PassThrough
	}
	return PassShort
}

// RunDecisionPipelineMutable is the mutable-self pipeline variant
// (§4.3): consumes the Match RNG directly. Must not be called
// concurrently with other uses of the same rng.
func RunDecisionPipelineMutable(ctx DecisionContext, el ElaborationContext, a PlayerAttributes,
	knobs TeamTacticsKnobs, cal CalibrationBiases, subPhase AttackSubPhase, angleDeg float64,
	rng *MatchRNG, tel *DecisionTelemetry) (PlayerAction, ActionDetail) {

	mindset := ChooseMindset(ctx)
	cands := GenerateCandidates(ctx, el, mindset)
	bias := DeriveCognitiveBias(a)
	scored := ScoreCandidates(cands, ctx, a, knobs, bias, cal, subPhase)
	temp := SoftmaxTemperature(a)
	selected := SelectSoftmax(scored, temp, rng.gen)
	return FinalizeAction(selected, scored, ctx, angleDeg, tel)
}

// RunDecisionPipelineSnapshot is the pure snapshot variant (§4.3, §5):
// builds an independent actor-seeded PRNG so it can run inside a
// parallel region over read-only Match state.
func RunDecisionPipelineSnapshot(ctx DecisionContext, el ElaborationContext, a PlayerAttributes,
	knobs TeamTacticsKnobs, cal CalibrationBiases, subPhase AttackSubPhase, angleDeg float64,
	baseSeed uint64, tick int, tel *DecisionTelemetry) (PlayerAction, ActionDetail) {

	actor := ActorRNG(baseSeed, tick, ctx.PlayerSlot, StageDecision)
	mindset := ChooseMindset(ctx)
	cands := GenerateCandidates(ctx, el, mindset)
	bias := DeriveCognitiveBias(a)
	scored := ScoreCandidates(cands, ctx, a, knobs, bias, cal, subPhase)
	temp := SoftmaxTemperature(a)
	selected := SelectSoftmax(scored, temp, actor)
	return FinalizeAction(selected, scored, ctx, angleDeg, tel)
}

// RunDecisionPipelineUAE is the optional A/B experiment pipeline (§4.3):
// same inputs/outputs contract, enabled by a flag, distinguished here by
// a slightly different softmax temperature curve to make the A/B
// comparison measurable without changing the candidate/utility model.
func RunDecisionPipelineUAE(ctx DecisionContext, el ElaborationContext, a PlayerAttributes,
	knobs TeamTacticsKnobs, cal CalibrationBiases, subPhase AttackSubPhase, angleDeg float64,
	baseSeed uint64, tick int, tel *DecisionTelemetry) (PlayerAction, ActionDetail) {

	actor := ActorRNG(baseSeed, tick, ctx.PlayerSlot, StageDecision^0x55)
	mindset := ChooseMindset(ctx)
	cands := GenerateCandidates(ctx, el, mindset)
	bias := DeriveCognitiveBias(a)
	scored := ScoreCandidates(cands, ctx, a, knobs, bias, cal, subPhase)
	temp := SoftmaxTemperature(a) * 0.85 // UAE variant exploits slightly more
	selected := SelectSoftmax(scored, temp, actor)
	return FinalizeAction(selected, scored, ctx, angleDeg, tel)
}
