package match

// OffsideRisk classifies a forward attacker's offside exposure (§4.8).
type OffsideRisk int

const (
	RiskSafe OffsideRisk = iota
	RiskMarginal
	RiskRisky
)

// EvaluateOffsideRisk derives risk from the attacker's x relative to the
// current offside line in team view, scaled by anticipation/off_the_ball
// (the Safe margin behind the line is 2 m plus up to 3 m more as
// anticipation/off_the_ball rise, so higher values classify as Safe only
// further back from the line).
func EvaluateOffsideRisk(attackerXTeamView, offsideLineXTeamView float64, anticipation, offTheBall float64) OffsideRisk {
	margin := 2.0 + 3.0*(anticipation+offTheBall)/2
	d := attackerXTeamView - offsideLineXTeamView
	switch {
	case d < -margin:
		return RiskSafe
	case d < 0:
		return RiskMarginal
	default:
		return RiskRisky
	}
}

// SafeRetreatX computes the x (team view) a risky/marginal attacker
// should retreat to when the ball carrier is not looking forward, or
// when the attacker is Risky (§4.8).
func SafeRetreatX(offsideLineXTeamView float64, anticipation float64) float64 {
	return offsideLineXTeamView - 1.0 - anticipation*2
}

// ShouldRetreat implements §4.8: retreat if the passer isn't looking
// forward, or the attacker's own risk is Risky.
func ShouldRetreat(passerLookingForward bool, risk OffsideRisk) bool {
	return !passerLookingForward || risk == RiskRisky
}

// OffsideLineX computes the defending team's offside line: the x
// (team view, from the attacking team's perspective) of the second-to-
// last defender (the last outfield defender when the GK is deepest). With
// a single defender its x is returned.
func OffsideLineX(defenderXsTeamView []float64) float64 {
	if len(defenderXsTeamView) == 0 {
		return 0
	}
	if len(defenderXsTeamView) == 1 {
		return defenderXsTeamView[0]
	}
	// defenderXsTeamView is in the attacking side's frame, so larger x is
	// closer to the defending goal: take the second-largest value.
	first, second := -1e9, -1e9
	for _, x := range defenderXsTeamView {
		if x > first {
			first, second = x, first
		} else if x > second {
			second = x
		}
	}
	return second
}
