package match

// TelemetryCounters is the deterministic, append-only-within-a-tick
// counter set of §3/§5: an in-process counter set read back
// synchronously by the orchestrator at tick end. The core has no I/O
// (§5), so there is no background writer goroutine here, only a
// non-blocking recording discipline: a full or unavailable sink drops
// the sample rather than blocking the tick.
type TelemetryCounters struct {
	// RNG consumption histogram per player x category (slot -> stage
	// marker -> count).
	RNGConsumption map[PitchSlot]map[uint64]int

	// Detail completeness: how often ActionDetail had to fall back
	// (§9), and how many retries a subsystem needed.
	FallbackCount int
	RetryCount    int

	ShotOpportunities int
	ShotGateOutcomes  DecisionTelemetry

	// DecisionIntents is cleared at the start of each tick and drained
	// into the bounded log below after (§5).
	decisionIntents []DecisionIntentLog
	IntentLog       []DecisionIntentLog

	MaxIntentLogLen int
}

type DecisionIntentLog struct {
	Tick   int
	Slot   PitchSlot
	Action PlayerAction
}

func NewTelemetryCounters() *TelemetryCounters {
	return &TelemetryCounters{
		RNGConsumption:  make(map[PitchSlot]map[uint64]int),
		MaxIntentLogLen: 4096,
	}
}

// RecordRNGDraw is called by any stage that consumes an actor-seeded
// draw, building the per-player x category histogram.
func (t *TelemetryCounters) RecordRNGDraw(slot PitchSlot, stageMarker uint64) {
	m, ok := t.RNGConsumption[slot]
	if !ok {
		m = make(map[uint64]int)
		t.RNGConsumption[slot] = m
	}
	m[stageMarker]++
}

// ResetTickPulse clears the per-tick decision-intent log at the start
// of a tick (§4.1 stage 1, §5).
func (t *TelemetryCounters) ResetTickPulse() {
	t.decisionIntents = t.decisionIntents[:0]
}

// RecordIntent appends to the cleared-this-tick log; never blocks.
func (t *TelemetryCounters) RecordIntent(tick int, slot PitchSlot, action PlayerAction) {
	t.decisionIntents = append(t.decisionIntents, DecisionIntentLog{Tick: tick, Slot: slot, Action: action})
}

// DrainIntentsToLog moves this tick's intents into the bounded overall
// log (§5: "decision-intent log is cleared at the start of each tick
// and drained to telemetry after"), dropping the oldest entries instead
// of growing without bound: a non-blocking drop-on-full discipline.
func (t *TelemetryCounters) DrainIntentsToLog() {
	t.IntentLog = append(t.IntentLog, t.decisionIntents...)
	if over := len(t.IntentLog) - t.MaxIntentLogLen; over > 0 {
		t.IntentLog = t.IntentLog[over:]
	}
}
