package match

import "math"

// InertiaSubSteps and InertiaSubStepSeconds implement §4.8's "five 50ms
// sub-steps" requirement for one 250ms tick.
const (
	InertiaSubSteps       = 5
	InertiaSubStepSeconds = 0.05
)

// InertiaInput bundles one player's per-tick inputs to the sub-stepper.
type InertiaInput struct {
	Params       MotionParams
	Stamina      float64
	Resting      bool
	StickySprint bool
	DesiredVel   Vec2
}

// StepInertia integrates position/velocity/body-direction for one
// player across the five sub-steps, clamping to pitch bounds: an
// accel/turn-rate/friction/speed-clamp movement model over a fixed
// 5-substep pitch-bounded walk/run.
func StepInertia(ps *PlayerPhysicsState, in InertiaInput) {
	staminaScale := 0.5 + 0.5*ps.Stamina
	if in.Resting {
		staminaScale *= 0.7
	}
	maxSpeed := in.Params.MaxSpeed * staminaScale
	if in.StickySprint {
		maxSpeed *= 1.08
	}

	for i := 0; i < InertiaSubSteps; i++ {
		desired := in.DesiredVel
		if desired.Length() > maxSpeed {
			desired = desired.Normalized().Scale(maxSpeed)
		}
		diff := desired.Sub(ps.Velocity)
		accelRate := in.Params.Accel
		if desired.Length() < ps.Velocity.Length() {
			accelRate = in.Params.Decel
		}
		maxDelta := accelRate * InertiaSubStepSeconds
		if diff.Length() > maxDelta {
			diff = diff.Normalized().Scale(maxDelta)
		}
		ps.Velocity = ps.Velocity.Add(diff)
		ps.Position = ps.Position.Add(ps.Velocity.Scale(InertiaSubStepSeconds)).ClampPitch()

		if ps.Velocity.Length() > 0.1 {
			targetDir := ps.Velocity.Normalized()
			ps.BodyDir = turnToward(ps.BodyDir, targetDir, in.Params.TurnPenalty*InertiaSubStepSeconds)
		}
	}
	ps.Speed = ps.Velocity.Length()
}

// turnToward rotates dir toward target by at most maxDelta (a unit
// vector slerp approximation adequate at this precision).
func turnToward(dir, target Vec2, maxDelta float64) Vec2 {
	dot := clampF(dir.X*target.X+dir.Y*target.Y, -1, 1)
	cross := dir.X*target.Y - dir.Y*target.X
	angle := math.Acos(dot)
	if angle < 1e-6 {
		return target
	}
	if angle > maxDelta {
		angle = maxDelta
	}
	if cross < 0 {
		angle = -angle
	}
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	return Vec2{
		X: dir.X*cosA - dir.Y*sinA,
		Y: dir.X*sinA + dir.Y*cosA,
	}.Normalized()
}
