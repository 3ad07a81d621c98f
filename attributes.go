package match

// PlayerAttributes holds the tactical-model skills used throughout the
// decision pipeline and kinematics derivation. Values are 1-20 as
// supplied by the data model (§3); the core never mutates them.
type PlayerAttributes struct {
	Passing      int
	FirstTouch   int
	Dribbling    int
	Finishing    int
	LongShots    int
	Crossing     int
	Heading      int
	Jumping      int
	Tackling     int
	Marking      int
	Positioning  int
	Anticipation int
	Vision       int
	Technique    int
	Decisions    int
	Composure    int
	Concentration int
	Pace         int
	Acceleration int
	Agility      int
	Balance      int
	Strength     int
	Stamina      int
	Bravery      int
	Aggression   int
	Teamwork     int
	WorkRate     int
	Flair        int
	OffTheBall   int

	// Set-piece specific.
	Corners        int
	FreeKicks      int
	PenaltyTaking  int

	// Goalkeeper-only. Zero for outfield players.
	GK GKAttributes
}

// GKAttributes are the goalkeeper-only skills (§4.9, open question on the
// attribute SSOT). Reflexes/Handling/OneOnOnes may be partly derived from
// outfield skills when a roster doesn't supply them explicitly; derive
// once in DefaultGKAttributes and never re-derive mid-match, per the open
// question's guidance to mirror a single source of truth.
type GKAttributes struct {
	Reflexes    int
	Handling    int
	OneOnOnes   int
	Positioning int
}

// norm maps a 1-20 attribute to [0, 1].
func norm(v int) float64 {
	if v < 1 {
		v = 1
	}
	if v > 20 {
		v = 20
	}
	return float64(v-1) / 19.0
}

func (a PlayerAttributes) N(pick func(PlayerAttributes) int) float64 {
	return norm(pick(a))
}

// DefaultGKAttributes derives GK motion/shot-stopping parameters from the
// outfield-adjacent skills when a roster doesn't specify GK attributes,
// so every keeper has a well-defined Reflexes/Handling/OneOnOnes/Positioning
// even if the data model only populated the shared fields.
func DefaultGKAttributes(a PlayerAttributes) GKAttributes {
	if a.GK.Reflexes != 0 || a.GK.Handling != 0 {
		return a.GK
	}
	return GKAttributes{
		Reflexes:    avgInt(a.Agility, a.Anticipation),
		Handling:    avgInt(a.Technique, a.Balance),
		OneOnOnes:   avgInt(a.Composure, a.Anticipation),
		Positioning: avgInt(a.Positioning, a.Decisions),
	}
}

func avgInt(a, b int) int {
	return (a + b) / 2
}
