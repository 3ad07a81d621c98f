package match

// TackleCandidate is the phase-1 intent-collection output (§4.4).
type TackleCandidate struct {
	Defender    PitchSlot
	Distance    float64
	Probability float64
}

const (
	TackleInitiateBase = 3.0 // metres
	TackleInitiateMin  = 2.0
	TackleInitiateMax  = 4.4
)

// TackleInitiateDistance scales the base distance by the defending
// team's pressing factor, clamped to the reference's quoted 2.0-4.4 m
// range (§4.4).
func TackleInitiateDistance(pressingFactor float64) float64 {
	d := TackleInitiateBase * pressingFactor
	return clampF(d, TackleInitiateMin, TackleInitiateMax)
}

// CollectTackleIntents implements §4.4 Phase 1: for each defender of the
// carrier's opponent team, skip ineligible defenders and those beyond
// the initiate distance, and compute a tackle probability.
func CollectTackleIntents(defenders []PitchSlot, phys map[PitchSlot]*PlayerPhysicsState,
	carrierPos Vec2, pressingFactor float64) []TackleCandidate {

	maxDist := TackleInitiateDistance(pressingFactor)
	var cands []TackleCandidate
	for _, d := range defenders {
		ps, ok := phys[d]
		if !ok {
			continue
		}
		if ps.TackleCooldown > 0 || !ps.FSM.CanStartAction() {
			continue
		}
		dist := ps.Position.Dist(carrierPos)
		if dist > maxDist {
			continue
		}
		prob := (1 - dist/maxDist) * 0.025
		cands = append(cands, TackleCandidate{Defender: d, Distance: dist, Probability: prob})
	}
	return cands
}

// RollTackleAttempts implements §4.4 Phase 2: each candidate gets an
// independent Bernoulli draw from an actor-seeded PRNG keyed on
// (base_seed, tick, defender_idx, "TAC") so ordering cannot bias the
// result.
func RollTackleAttempts(cands []TackleCandidate, baseSeed uint64, tick int) []PitchSlot {
	var successes []PitchSlot
	for _, c := range cands {
		actor := ActorRNG(baseSeed, tick, c.Defender, StageTackle)
		if actor.Bool(c.Probability) {
			successes = append(successes, c.Defender)
		}
	}
	return successes
}

// CommitTackle implements §4.4 Phase 3: if more than one tackler
// succeeded, pick one with a tick-seeded PRNG; otherwise the sole
// success (if any) is committed.
func CommitTackle(successes []PitchSlot, baseSeed uint64, tick int) (PitchSlot, bool) {
	if len(successes) == 0 {
		return NoSlot, false
	}
	if len(successes) == 1 {
		return successes[0], true
	}
	r := TickRNG(baseSeed, tick, StageTackle^0xC0)
	idx := r.Intn(len(successes))
	return successes[idx], true
}

// TackleOutcomeKind enumerates the resolve-time outcomes of §4.4.
type TackleOutcomeKind int

const (
	TackleCleanWin TackleOutcomeKind = iota
	TackleFoul
	TackleYellow
	TackleRed
	TackleMiss
	TackleDeflection
)

// ResolveTackle decides the tackle's outcome from the tackler's tackling
// attribute and the carrier's balance/strength, using an actor-seeded
// roll so the resolve order inside the shuffled resolve set (§4.2) does
// not bias it.
func ResolveTackle(tackler, carrier PlayerAttributes, baseSeed uint64, tick int, tacklerSlot PitchSlot) TackleOutcomeKind {
	actor := ActorRNG(baseSeed, tick, tacklerSlot, StageResolve)
	skill := 0.5 + 0.4*tackler.N(func(a PlayerAttributes) int { return a.Tackling })
	resist := 0.3*carrier.N(func(a PlayerAttributes) int { return a.Balance }) + 0.2*carrier.N(func(a PlayerAttributes) int { return a.Strength })
	winChance := clampF(skill-resist, 0.15, 0.85)

	aggression := tackler.N(func(a PlayerAttributes) int { return a.Aggression })
	foulChance := 0.05 + 0.15*aggression

	r := actor.Float64()
	switch {
	case r < winChance*(1-foulChance):
		return TackleCleanWin
	case r < winChance:
		return TackleDeflection
	case r < winChance+foulChance*0.85:
		return TackleFoul
	case r < winChance+foulChance*0.97:
		return TackleYellow
	case r < winChance+foulChance:
		return TackleRed
	default:
		return TackleMiss
	}
}
