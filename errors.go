package match

// ErrorKind enumerates the value-based failure modes of §7. None of
// these are Go errors returned up a call stack; they are data carried
// on ActionResult/RuleDecision so that a tick never aborts.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrActionCancelled
	ErrActionFailed
	ErrRuleViolation
	ErrSubsystemUnavailable
)

// CancelReason explains an ActionCancelled outcome.
type CancelReason int

const (
	CancelNone CancelReason = iota
	CancelActionNotFound
	CancelPlayerSentOff
	CancelBallStateIncompatible
	CancelWoodworkHit
	CancelInsufficientPreconditions
)

// FailureOutcome explains an ActionFailed outcome (§7: modelled as a
// value, not an error).
type FailureOutcome int

const (
	FailureNone FailureOutcome = iota
	FailureTrapFailed
	FailureDribbleTackled
	FailureShotMissed
	FailureSaveMade
	FailureDeflection
	FailurePassIntercepted
	FailurePassOut
	FailurePassOffside
)

// Subsystem names the component that fell back when
// ErrSubsystemUnavailable is reported. Never fatal; the core does not
// log it (the pass resolver's FieldBoard fallback is counted in
// TelemetryCounters.FallbackCount).
type Subsystem int

const (
	SubsystemFieldBoard Subsystem = iota
	SubsystemDecisionUAE
)
