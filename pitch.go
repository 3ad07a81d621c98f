package match

import "math"

// Pitch dimensions in whole metres. Internal state stores positions as
// float64 metres (see Vec2); team-view conversion rounds to 0.1 m (see
// round1).
const (
	PitchLength = 105.0
	PitchWidth  = 68.0

	// GoalWidth and GoalHeight bound the scoring mouth at x=0 and x=PitchLength.
	GoalWidth  = 7.32
	GoalHeight = 2.44

	// PenaltyAreaLength/Width describe the box at each end, used for
	// in-penalty-box checks and clear-shot bonuses.
	PenaltyAreaLength = 16.5
	PenaltyAreaWidth  = 40.32
)

// Vec2 is a world-space position or velocity in metres.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Length()
}

func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l < 1e-9 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) Clamp(minX, minY, maxX, maxY float64) Vec2 {
	return Vec2{clampF(v.X, minX, maxX), clampF(v.Y, minY, maxY)}
}

func (v Vec2) ClampPitch() Vec2 {
	return v.Clamp(0, 0, PitchLength, PitchWidth)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimetre (0.1 m), the precision used throughout
// the core so that round-trips are exact across the team-view conversion.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ToTeamView converts a world-space position into the attacking team's
// frame, where +X always points at the opponent's goal. attacksRight is
// true when the team currently attacks toward +X in world coordinates.
func ToTeamView(p Vec2, attacksRight bool) Vec2 {
	if attacksRight {
		return p
	}
	return Vec2{round1(PitchLength - p.X), round1(PitchWidth - p.Y)}
}

// ToWorld is the inverse of ToTeamView.
func ToWorld(p Vec2, attacksRight bool) Vec2 {
	if attacksRight {
		return p
	}
	return Vec2{round1(PitchLength - p.X), round1(PitchWidth - p.Y)}
}

// AttacksRight reports whether home/away attacks toward +X in the given
// half. Home attacks right in the first half by convention; both teams
// flip at half-time.
func AttacksRight(isHome bool, half int) bool {
	rightInFirstHalf := isHome
	if half%2 == 1 {
		return rightInFirstHalf
	}
	return !rightInFirstHalf
}

// OwnGoal and OpponentGoal return the team-view-independent world
// position of the goal a team defends/attacks in the current half.
func OwnGoal(attacksRight bool) Vec2 {
	if attacksRight {
		return Vec2{0, PitchWidth / 2}
	}
	return Vec2{PitchLength, PitchWidth / 2}
}

func OpponentGoal(attacksRight bool) Vec2 {
	if attacksRight {
		return Vec2{PitchLength, PitchWidth / 2}
	}
	return Vec2{0, PitchWidth / 2}
}

// InPenaltyBox reports whether a world position lies in the penalty
// area at the right-hand end (x near PitchLength) when boxAtRightEnd is
// true, else the one at the left-hand end. Passing the attacking team's
// AttacksRight selects the box that team shoots into.
func InPenaltyBox(p Vec2, boxAtRightEnd bool) bool {
	yMin := (PitchWidth - PenaltyAreaWidth) / 2
	yMax := yMin + PenaltyAreaWidth
	if p.Y < yMin || p.Y > yMax {
		return false
	}
	if boxAtRightEnd {
		return p.X >= PitchLength-PenaltyAreaLength
	}
	return p.X <= PenaltyAreaLength
}

// NearTouchline reports whether a position is within marginM of either
// sideline.
func NearTouchline(p Vec2, marginM float64) bool {
	return p.Y < marginM || p.Y > PitchWidth-marginM
}

// NormalizeAngle wraps an angle in radians to (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates between two angles taking the shortest path.
func LerpAngle(a, b, t float64) float64 {
	diff := NormalizeAngle(b - a)
	return NormalizeAngle(a + diff*t)
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func Distance(a, b Vec2) float64 {
	return a.Dist(b)
}
