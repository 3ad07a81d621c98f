package match

import "math"

// GoalReward and the loss-cost base are the open-question constants of
// §9 (exact numeric values left unpinned); a goal is worth ~1.0
// normalised reward, a possession loss near the own goal costs far
// less than one deep in the opponent half.
const (
	GoalReward        = 1.0
	BaseLossCost      = 0.05
	BasePassFailCost  = 0.08
	BaseDribbleFailCost = 0.10
)

// TeamTacticsKnobs are the per-team tactical scale factors the decision
// pipeline consults (§4.3 Gate B, §6 TeamInstructions).
type TeamTacticsKnobs struct {
	PressingFactor float64 // 0.6..1.6, derived from pressing_intensity
	Tempo          float64 // 0.7..1.4, derived from tempo
	WidthBias      float64 // -1..1, derived from width
	RiskBias       float64 // -1..1, derived from mentality
	BuildUpShort   float64 // 0..1 weight favouring short buildup
}

// CalibrationBiases are the per-team multiplicative weights applied to
// each intent category, persisted/adjusted by the calibration snapshot
// (§3 CalibrationSnapshot, §4.3). Values start at 1.0 (neutral).
type CalibrationBiases struct {
	Progressive float64
	Safe        float64
	Long        float64
	Cross       float64
	Shot        float64
	Dribble     float64
	Through     float64
}

func DefaultCalibrationBiases() CalibrationBiases {
	return CalibrationBiases{1, 1, 1, 1, 1, 1, 1}
}

// CognitiveBias bundles the per-player bias vector derived from
// composure/flair/bravery/aggression/decisions/teamwork/concentration
// (§4.3 Gate B).
type CognitiveBias struct {
	RiskTolerance float64 // from bravery, aggression
	Flamboyance   float64 // from flair
	Patience      float64 // from composure, decisions
	Selfishness   float64 // inverse of teamwork
}

func DeriveCognitiveBias(a PlayerAttributes) CognitiveBias {
	bravery := a.N(func(a PlayerAttributes) int { return a.Bravery })
	aggression := a.N(func(a PlayerAttributes) int { return a.Aggression })
	flair := a.N(func(a PlayerAttributes) int { return a.Flair })
	composure := a.N(func(a PlayerAttributes) int { return a.Composure })
	decisions := a.N(func(a PlayerAttributes) int { return a.Decisions })
	teamwork := a.N(func(a PlayerAttributes) int { return a.Teamwork })
	return CognitiveBias{
		RiskTolerance: (bravery + aggression) / 2,
		Flamboyance:   flair,
		Patience:      (composure + decisions) / 2,
		Selfishness:   1 - teamwork,
	}
}

// ShotEV implements §4.3's shot expected-value formula: xG * reward -
// (1-xG) * loss_cost, where loss_cost increases in the opponent half to
// reflect counter risk: loss_cost = BaseLossCost * (1 +
// own_goal_distance/pitch_length), from 1x at the own goal line to 2x at
// the opponent's.
func ShotEV(xg float64, ownGoalDistance float64) float64 {
	lossCost := BaseLossCost * (1 + ownGoalDistance/PitchLength)
	return xg*GoalReward - (1-xg)*lossCost
}

// PassEV implements §4.3's pass expected-value formula.
func PassEV(pSuccess, futureThreat float64) float64 {
	return pSuccess*futureThreat - (1-pSuccess)*BasePassFailCost
}

// DribbleEV mirrors the pass/shot EV shape for take-ons (§4.3).
func DribbleEV(pSuccess, futureThreat float64) float64 {
	return pSuccess*futureThreat - (1-pSuccess)*BaseDribbleFailCost
}

// ScoredCandidate pairs a CandidateKey with its Gate B utility.
type ScoredCandidate struct {
	Candidate CandidateKey
	Utility   float64
}

// ScoreCandidates computes the combined utility for every candidate
// (§4.3 Gate B): context*ability, EV, cognitive bias, tactics knobs and
// calibration biases (sub-phase scaled).
func ScoreCandidates(cands []CandidateKey, ctx DecisionContext, ability PlayerAttributes,
	knobs TeamTacticsKnobs, bias CognitiveBias, cal CalibrationBiases, subPhase AttackSubPhase) []ScoredCandidate {

	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		u := scoreOne(c, ctx, ability, knobs, bias, cal, subPhase)
		scored = append(scored, ScoredCandidate{Candidate: c, Utility: u})
	}
	return scored
}

func scoreOne(c CandidateKey, ctx DecisionContext, a PlayerAttributes, knobs TeamTacticsKnobs,
	bias CognitiveBias, cal CalibrationBiases, subPhase AttackSubPhase) float64 {

	switch c.Kind {
	case CandShot:
		finishing := a.N(func(a PlayerAttributes) int { return a.Finishing })
		ability := 0.4 + 0.6*finishing
		ev := ShotEV(ctx.XGAtPosition, ctx.PositionTeamView.X)
		u := ability*ctx.XGAtPosition + ev
		u *= cal.Shot
		u += bias.RiskTolerance * 0.1
		return u

	case CandPass, CandCross:
		passing := a.N(func(a PlayerAttributes) int { return a.Passing })
		vision := a.N(func(a PlayerAttributes) int { return a.Vision })
		pSucc := 0.5 + 0.3*passing + 0.2*vision - 0.2*ctx.LocalPressure
		pSucc = clampF(pSucc, 0.1, 0.95)
		futureThreat := 0.3
		if c.PassRef.IsForward {
			futureThreat += 0.3 * cal.Progressive * subPhase.ProgressiveBias()
		} else {
			futureThreat += 0.15 * cal.Safe
		}
		if c.Kind == CandCross {
			futureThreat *= cal.Cross
		}
		ev := PassEV(pSucc, futureThreat)
		u := pSucc*0.3 + ev
		u += knobs.RiskBias * 0.1
		return u

	case CandDribble:
		dribbling := a.N(func(a PlayerAttributes) int { return a.Dribbling })
		agility := a.N(func(a PlayerAttributes) int { return a.Agility })
		pSucc := clampF(0.4+0.3*dribbling+0.2*agility-0.3*ctx.LocalPressure, 0.1, 0.9)
		ev := DribbleEV(pSucc, 0.25)
		u := ev * cal.Dribble
		u += bias.Flamboyance * 0.15
		return u

	case CandClearance:
		return 0.2 + 0.3*ctx.LocalPressure

	case CandHold:
		return 0.1 + bias.Patience*0.1

	default:
		return 0.0
	}
}

// SoftmaxTemperature computes the selection temperature from flair,
// decisions and concentration (§4.3): higher flair explores more;
// higher decisions/concentration exploit more. Constants are an open
// question (§9); chosen here to keep temperature in a sane (0.15, 0.9)
// band across the full attribute range.
func SoftmaxTemperature(a PlayerAttributes) float64 {
	flair := a.N(func(a PlayerAttributes) int { return a.Flair })
	decisions := a.N(func(a PlayerAttributes) int { return a.Decisions })
	concentration := a.N(func(a PlayerAttributes) int { return a.Concentration })
	t := 0.5 + 0.4*flair - 0.3*decisions - 0.2*concentration
	return clampF(t, 0.15, 0.9)
}

// SelectSoftmax performs the utility softmax selection (§4.3 Gate B)
// using an actor/tick-seeded generator so the pure pipeline variant
// stays decorrelated from iteration order.
func SelectSoftmax(scored []ScoredCandidate, temperature float64, rng *xorshift64) CandidateKey {
	if len(scored) == 0 {
		return CandidateKey{Kind: CandHold}
	}
	if len(scored) == 1 {
		return scored[0].Candidate
	}
	weights := make([]float64, len(scored))
	var sum float64
	maxU := scored[0].Utility
	for _, s := range scored {
		if s.Utility > maxU {
			maxU = s.Utility
		}
	}
	for i, s := range scored {
		w := math.Exp((s.Utility - maxU) / temperature)
		weights[i] = w
		sum += w
	}
	r := rng.Float64() * sum
	var acc float64
	for i, w := range weights {
		acc += w
		if r <= acc {
			return scored[i].Candidate
		}
	}
	return scored[len(scored)-1].Candidate
}
