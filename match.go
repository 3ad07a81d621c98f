package match

import "github.com/google/uuid"

// Tempo, PressingIntensity, DefensiveLine, BuildUpStyle, Width and
// Mentality are the recognised TeamInstructions options (§6).
type Tempo int

const (
	TempoVerySlow Tempo = iota
	TempoSlow
	TempoNormal
	TempoFast
	TempoVeryFast
)

type PressingIntensity int

const (
	PressVeryLow PressingIntensity = iota
	PressLow
	PressMedium
	PressHigh
	PressVeryHigh
)

type DefensiveLine int

const (
	LineVeryDeep DefensiveLine = iota
	LineDeep
	LineNormal
	LineHigh
	LineVeryHigh
)

type BuildUpStyle int

const (
	BuildUpShortStyle BuildUpStyle = iota
	BuildUpMixed
	BuildUpDirect
)

type Width int

const (
	WidthNarrow Width = iota
	WidthNormal
	WidthWide
)

type Mentality int

const (
	MentalityVeryDefensive Mentality = iota
	MentalityDefensive
	MentalityBalanced
	MentalityAttacking
	MentalityVeryAttacking
)

// TeamInstructions is the per-side tactical configuration supplied by
// the (out-of-scope) tactics editor (§1, §6).
type TeamInstructions struct {
	Tempo             Tempo
	PressingIntensity PressingIntensity
	DefensiveLine     DefensiveLine
	BuildUpStyle      BuildUpStyle
	Width             Width
	Mentality         Mentality
}

func DefaultTeamInstructions() TeamInstructions {
	return TeamInstructions{
		Tempo: TempoNormal, PressingIntensity: PressMedium, DefensiveLine: LineNormal,
		BuildUpStyle: BuildUpMixed, Width: WidthNormal, Mentality: MentalityBalanced,
	}
}

// ToKnobs maps the enumerated instructions onto the continuous knobs
// the decision pipeline and tackle protocol consult (§4.3, §4.4).
func (ti TeamInstructions) ToKnobs() TeamTacticsKnobs {
	pressing := [...]float64{0.6, 0.8, 1.0, 1.25, 1.6}[ti.PressingIntensity]
	tempo := [...]float64{0.7, 0.85, 1.0, 1.2, 1.4}[ti.Tempo]
	width := [...]float64{-1, 0, 1}[ti.Width]
	mentality := [...]float64{-1, -0.5, 0, 0.5, 1}[ti.Mentality]
	buildUp := map[BuildUpStyle]float64{BuildUpShortStyle: 0.8, BuildUpMixed: 0.5, BuildUpDirect: 0.15}[ti.BuildUpStyle]
	return TeamTacticsKnobs{
		PressingFactor: pressing, Tempo: tempo, WidthBias: width, RiskBias: mentality, BuildUpShort: buildUp,
	}
}

// StaminaDrainRate scales per-tick stamina decay by tempo (§6: "tempo
// modifies stamina drain").
func (ti TeamInstructions) StaminaDrainRate() float64 {
	return [...]float64{0.0006, 0.0008, 0.001, 0.0013, 0.0017}[ti.Tempo]
}

// TeamMatchModifiers are additive, clamped per-side match modifiers
// (§3, §4.1 stage 5).
type TeamMatchModifiers struct {
	Momentum        float64 // [-1, 1]
	AdditionalPress float64
	AdditionalRisk  float64
}

func (m TeamMatchModifiers) Clamped() TeamMatchModifiers {
	return TeamMatchModifiers{
		Momentum:        clampF(m.Momentum, -1, 1),
		AdditionalPress: clampF(m.AdditionalPress, -0.5, 0.5),
		AdditionalRisk:  clampF(m.AdditionalRisk, -0.5, 0.5),
	}
}

// RosterPlayer is one immutable input roster entry (§1, §3).
type RosterPlayer struct {
	Name       string
	Attributes PlayerAttributes
	Overall    int
	Condition  float64 // [0,1]
	FormationX float64
	FormationY float64
}

// TeamPlan is one side's half of the MatchPlan (§6).
type TeamPlan struct {
	Name         string
	Roster       []RosterPlayer // first 11 start
	Instructions TeamInstructions
	Modifiers    TeamMatchModifiers
}

// MatchPlan is the immutable input to a match (§6).
type MatchPlan struct {
	Home       TeamPlan
	Away       TeamPlan
	Seed       uint64
	UserPlayer *PitchSlot
	DPQEnabled bool
	UAEEnabled bool
	Dispatcher DispatcherMode
	// RecordPositions opts into the 4 Hz position buffer consumed by
	// Result().PositionData (§4.1 stage 28, §6); left off, no per-tick
	// samples are kept.
	RecordPositions bool
}

// Team bundles one side's mutable roster-derived state.
type Team struct {
	Name         string
	IsHome       bool
	Players      [11]PitchSlot
	Attributes   map[PitchSlot]PlayerAttributes
	Physics      map[PitchSlot]*PlayerPhysicsState
	Instructions TeamInstructions
	Modifiers    TeamMatchModifiers
	Marking      *MarkingManager

	RedCards      int
	ShotsThisHalf int
	Score         int
}

// Match owns every entity described in §3 and is destroyed at match end.
type Match struct {
	ID uuid.UUID

	Home      *Team
	Away      *Team
	Ball      *Ball
	BallState BallState

	Half   int
	Tick   int
	Minute int

	RegulationEndMinute int
	AddedTimeMinutes    int

	Seed uint64
	RNG  *MatchRNG

	Flow       *GameFlow
	Phases     TeamPhases
	Dispatcher *RuleDispatcher
	Queue      *ActionQueue
	Board      *FieldBoard
	Telemetry  *TelemetryCounters
	DecTel     DecisionTelemetry
	CalibHome  CalibrationSnapshot
	CalibAway  CalibrationSnapshot
	CalHome    CalibrationBiases
	CalAway    CalibrationBiases
	SetPieces  []*SetPiece

	AssistLedger []AssistCandidate

	LastTouchHome bool
	LastTouchSlot PitchSlot

	DPQEnabled bool
	UAEEnabled bool

	Recorder ReplayRecorder
	Events   []MatchEvent
	Stats    MatchStatistics

	RecordPositions bool
	PositionFrames  []PositionFrame

	finished bool
}

// NewMatch constructs a Match from a MatchPlan (§6). Seed drives every
// random draw for the lifetime of the match (§5, §8 determinism).
func NewMatch(plan MatchPlan, recorder ReplayRecorder) *Match {
	m := &Match{
		ID:                  uuid.New(),
		Ball:                NewBall(),
		Seed:                plan.Seed,
		RNG:                 NewMatchRNG(plan.Seed),
		Flow:                NewGameFlow(),
		Dispatcher:          NewRuleDispatcher(plan.Dispatcher),
		Queue:               NewActionQueue(),
		Board:               NewFieldBoard(),
		Telemetry:           NewTelemetryCounters(),
		CalHome:             DefaultCalibrationBiases(),
		CalAway:             DefaultCalibrationBiases(),
		RegulationEndMinute: 90,
		DPQEnabled:          plan.DPQEnabled,
		UAEEnabled:          plan.UAEEnabled,
		Recorder:            recorder,
		Half:                1,
		LastTouchSlot:       NoSlot,
		RecordPositions:     plan.RecordPositions,
	}
	m.BallState = NewBallStateControlled(NoSlot)
	m.Home = newTeam(plan.Home, true)
	m.Away = newTeam(plan.Away, false)
	m.Ball.Position = Vec2{PitchLength / 2, PitchWidth / 2}
	return m
}

func newTeam(plan TeamPlan, isHome bool) *Team {
	t := &Team{
		Name:         plan.Name,
		IsHome:       isHome,
		Attributes:   make(map[PitchSlot]PlayerAttributes),
		Physics:      make(map[PitchSlot]*PlayerPhysicsState),
		Instructions: plan.Instructions,
		Modifiers:    plan.Modifiers.Clamped(),
		Marking:      NewMarkingManager(),
	}
	base := 0
	if !isHome {
		base = 11
	}
	for i := 0; i < 11 && i < len(plan.Roster); i++ {
		slot := PitchSlot(base + i)
		t.Players[i] = slot
		t.Attributes[slot] = plan.Roster[i].Attributes
		pos := Vec2{plan.Roster[i].FormationX, plan.Roster[i].FormationY}
		ps := NewPlayerPhysicsState(pos)
		t.Physics[slot] = &ps
	}
	return t
}

// Slots returns every live (non-sent-off) slot on the pitch for the
// team, in ascending order, satisfying §9's "iterate over a sorted
// slice of slot indices" determinism guidance.
func (t *Team) Slots() []PitchSlot {
	out := make([]PitchSlot, 0, 11)
	for _, s := range t.Players {
		if ps, ok := t.Physics[s]; ok && ps.FSM != StateSentOff {
			out = append(out, s)
		}
	}
	return out
}

func (m *Match) TeamOf(slot PitchSlot) *Team {
	if slot.IsHome() {
		return m.Home
	}
	return m.Away
}

// Finished reports whether the match has reached full time (§7, §8
// boundary: "no further events are produced").
func (m *Match) Finished() bool {
	return m.finished
}

// Result snapshots the match into the final MatchResult (§6). Safe to
// call mid-match for progressive reporting; PositionData is nil unless
// the originating MatchPlan set RecordPositions.
func (m *Match) Result() MatchResult {
	events := make([]MatchEvent, len(m.Events))
	copy(events, m.Events)

	var positions []PositionFrame
	if m.RecordPositions {
		positions = make([]PositionFrame, len(m.PositionFrames))
		copy(positions, m.PositionFrames)
	}

	return MatchResult{
		FinalScoreHome: m.Home.Score,
		FinalScoreAway: m.Away.Score,
		Events:         events,
		Statistics:     m.Stats,
		CalibHome:      m.CalibHome,
		CalibAway:      m.CalibAway,
		PositionData:   positions,
	}
}

// AssistCandidate is a completed pass waiting to be consumed as an
// assist if its receiver scores within AssistValidityTicks.
type AssistCandidate struct {
	Passer   PitchSlot
	Receiver PitchSlot
	Home     bool
	Tick     int
}

// AssistValidityTicks bounds how long a completed pass stays eligible
// to be credited as an assist (~10s at 4Hz).
const AssistValidityTicks = 40

// RecordAssistCandidate appends a completed pass to the ledger and
// prunes anything that has already expired.
func (m *Match) RecordAssistCandidate(passer, receiver PitchSlot, home bool) {
	m.AssistLedger = append(m.AssistLedger, AssistCandidate{
		Passer: passer, Receiver: receiver, Home: home, Tick: m.Tick,
	})
	m.pruneAssistLedger()
}

func (m *Match) pruneAssistLedger() {
	live := m.AssistLedger[:0]
	for _, c := range m.AssistLedger {
		if m.Tick-c.Tick <= AssistValidityTicks {
			live = append(live, c)
		}
	}
	m.AssistLedger = live
}

// ConsumeAssist finds and removes the most recent candidate whose
// receiver matches the scorer, returning NoSlot if none is eligible.
// A candidate is consumed at most once per goal (§6).
func (m *Match) ConsumeAssist(scorer PitchSlot) PitchSlot {
	m.pruneAssistLedger()
	for i := len(m.AssistLedger) - 1; i >= 0; i-- {
		c := m.AssistLedger[i]
		if c.Receiver == scorer {
			m.AssistLedger = append(m.AssistLedger[:i], m.AssistLedger[i+1:]...)
			return c.Passer
		}
	}
	return NoSlot
}
