package match

import "math"

// ShotOutcomeKind enumerates §4.6's resolve outcomes.
type ShotOutcomeKind int

const (
	ShotGoalScored ShotOutcomeKind = iota
	ShotSaveMade
	ShotMissedOutcome
	ShotGKHandlingViolation
)

// ShotAngleDeg computes the angle the goal mouth subtends at the shooter,
// in degrees (0 = on the goal line outside the posts, about 37 from the
// penalty spot, 180 only on the goal line between the posts),
// used by both Gate C's angle gate and xG.
func ShotAngleDeg(shooterPos, goalPos Vec2) float64 {
	postA := Vec2{goalPos.X, goalPos.Y - GoalWidth/2}
	postB := Vec2{goalPos.X, goalPos.Y + GoalWidth/2}
	va := postA.Sub(shooterPos)
	vb := postB.Sub(shooterPos)
	dot := va.X*vb.X + va.Y*vb.Y
	la, lb := va.Length(), vb.Length()
	if la < 1e-6 || lb < 1e-6 {
		return 0
	}
	cosTheta := clampF(dot/(la*lb), -1, 1)
	return math.Acos(cosTheta) * 180 / math.Pi
}

// ComputeXG implements §4.6: distance (direction-aware via team view),
// angle, finishing/technique/composure, a long-shot correction, a
// clear-shot bonus and an attacking-third bonus.
func ComputeXG(shooterTeamView Vec2, finishing, technique, composure, longShots, shotPower float64,
	localPressure float64, attackingThird bool) float64 {

	goal := Vec2{PitchLength, PitchWidth / 2}
	distM := shooterTeamView.Dist(goal)
	angleDeg := ShotAngleDeg(shooterTeamView, goal)

	distComponent := math.Exp(-distM / 50.0)
	angleComponent := clampF(angleDeg/90.0, 0.05, 1.0)

	base := distComponent * angleComponent

	skill := 0.5 + 0.3*finishing + 0.1*technique + 0.1*composure
	xg := base * skill

	if distM > 25 {
		// Long-range attempts still trend toward low xG (the distance
		// decay above already does most of that work); a below-average
		// long-shot taker loses a little more, an elite one a little
		// less, but this never more than halves or doubles xg.
		longShotCorrection := 0.85 + 0.3*longShots + 0.1*shotPower
		xg *= longShotCorrection
	}

	if localPressure < 0.3 && distM >= 8 && distM <= 20 {
		xg *= 1.15 // clear-shot bonus
	}

	if attackingThird {
		xg += 0.01
	}

	return clampF(xg, 0.005, 0.95)
}

// GKSaveProbability combines reflexes/handling/positioning against shot
// speed (§4.6).
func GKSaveProbability(gk GKAttributes, shotSpeed float64, xg float64) float64 {
	reflexes := norm(gk.Reflexes)
	handling := norm(gk.Handling)
	positioning := norm(gk.Positioning)
	skill := 0.3*reflexes + 0.3*handling + 0.2*positioning
	speedPenalty := clampF(shotSpeed/30.0, 0, 0.4)
	p := 1 - xg*1.3 + skill*0.5 - speedPenalty
	return clampF(p, 0.02, 0.9)
}

// ResolveShot draws the deterministic outcome (§4.6) using an
// actor-seeded roll.
func ResolveShot(xg float64, saveProb float64, baseSeed uint64, tick int, shooter PitchSlot) ShotOutcomeKind {
	actor := ActorRNG(baseSeed, tick, shooter, StageShot)
	r := actor.Float64()
	if r < xg {
		// shot is on target and dangerous; GK gets a save roll.
		if actor.Bool(saveProb) {
			if actor.Bool(0.02) {
				return ShotGKHandlingViolation
			}
			return ShotSaveMade
		}
		return ShotGoalScored
	}
	return ShotMissedOutcome
}
