package match

// SteeringMode selects between Seek, Arrive and Pursuit behaviours
// before motion is applied (§4.8): turn-rate-clamped seek steering with
// an Arrive deceleration radius and a Pursuit lead term.
type SteeringMode int

const (
	SteerSeek SteeringMode = iota
	SteerArrive
	SteerPursuit
)

const arriveRadiusM = 2.5

// ChooseSteeringMode implements §4.8: Seek by default, Arrive when near
// the target (to avoid oscillation), Pursuit when tracking a moving
// ball.
func ChooseSteeringMode(currentPos, target Vec2, trackingMovingBall bool) SteeringMode {
	if trackingMovingBall {
		return SteerPursuit
	}
	if currentPos.Dist(target) < arriveRadiusM {
		return SteerArrive
	}
	return SteerSeek
}

// SteerDesiredVelocity computes the desired velocity for the chosen
// mode, to be fed into the inertia sub-stepper.
func SteerDesiredVelocity(mode SteeringMode, pos, target Vec2, maxSpeed float64, ballVel Vec2) Vec2 {
	switch mode {
	case SteerArrive:
		toTarget := target.Sub(pos)
		dist := toTarget.Length()
		speed := maxSpeed * clampF(dist/arriveRadiusM, 0, 1)
		if dist < 1e-6 {
			return Vec2{}
		}
		return toTarget.Normalized().Scale(speed)
	case SteerPursuit:
		lead := PursuitLead(pos, target, ballVel, maxSpeed)
		return lead.Sub(pos).Normalized().Scale(maxSpeed)
	default: // Seek
		return target.Sub(pos).Normalized().Scale(maxSpeed)
	}
}

// PursuitLead anticipates a moving target's future position (§4.8:
// "anticipate moving-ball interception"), a partial-velocity-inheritance
// lead-point prediction.
func PursuitLead(pos, targetPos Vec2, targetVel Vec2, pursuerSpeed float64) Vec2 {
	dist := pos.Dist(targetPos)
	if pursuerSpeed < 1e-6 {
		return targetPos
	}
	etaSeconds := dist / pursuerSpeed
	etaSeconds = clampF(etaSeconds, 0, 2.0)
	return targetPos.Add(targetVel.Scale(etaSeconds))
}
