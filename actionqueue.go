package match

// ActionType is the tagged-variant action kind (§9: tagged variant, not
// dynamic dispatch).
type ActionType int

const (
	ActionPass ActionType = iota
	ActionShot
	ActionTackle
	ActionDribble
	ActionTrap
	ActionIntercept
	ActionMove
	ActionHeader
	ActionSave
)

// TargetKind tags ActionDetail.Target (§3).
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPlayer
	TargetPoint
	TargetSpace
	TargetGoalMouth
)

type ActionTarget struct {
	Kind    TargetKind
	Player  PitchSlot
	Point   Vec2
	Lead    Vec2 // for TargetSpace: anticipated lead point
}

type PassType int

const (
	PassShort PassType = iota
	PassLong
	PassThrough
	PassCross
	PassClear
	PassLob
)

type ShotType int

const (
	ShotNormal ShotType = iota
	ShotPlaced
	ShotPower
	ShotChip
	ShotHeader
)

type DribbleStyle int

const (
	DribbleSafe DribbleStyle = iota
	DribbleTakeOn
)

// ActionDetail carries the structured parameters (§3). Optional fields
// are left at their zero value when not applicable to the action type,
// matching §9's "V1 struct with optional fields" guidance; FallbackUsed
// records when a field had to be defaulted so tests can assert
// completeness (§9).
type ActionDetail struct {
	Target   ActionTarget
	Power    float64 // [0, 1]
	Curve    float64
	PassType PassType
	ShotType ShotType
	Dribble  DribbleStyle
	Sprint   bool

	FallbackUsed bool
}

// ActionPhase is the lifecycle stage of an Active action (§4.2).
type ActionPhase int

const (
	PhaseStartup ActionPhase = iota
	PhaseExecute
	PhaseResolve
	PhaseRecover
)

// startupTicks and recoverTicks give the fixed per-type duration of the
// Startup and Recover phases, in ticks (250 ms each). Execute duration is
// type-specific and computed in executeDuration.
var startupTicks = map[ActionType]int{
	ActionPass:      1,
	ActionShot:      1,
	ActionTackle:    1,
	ActionDribble:   0,
	ActionTrap:      0,
	ActionIntercept: 0,
	ActionMove:      0,
	ActionHeader:    1,
	ActionSave:      0,
}

var recoverTicks = map[ActionType]int{
	ActionPass:      2,
	ActionShot:      4,
	ActionTackle:    6,
	ActionDribble:   1,
	ActionTrap:      1,
	ActionIntercept: 2,
	ActionMove:      0,
	ActionHeader:    3,
	ActionSave:      5,
}

func executeDuration(t ActionType) int {
	switch t {
	case ActionPass, ActionShot, ActionHeader:
		return 1
	case ActionTackle:
		return 2
	default:
		return 1
	}
}

// ActionID is a stable entry identifier, never reused while the entry is
// live, satisfying §9's "no cyclic ownership, addressed by stable index".
type ActionID int

type actionEntryState int

const (
	entryPending actionEntryState = iota
	entryActive
	entryFinished
)

// ActionEntry is one ActionQueue row. Pending/Active/Finished fields
// overlap the same struct rather than three separate containers so the
// id stays stable across the whole lifecycle.
type ActionEntry struct {
	ID       ActionID
	State    actionEntryState
	AtTick   int
	Type     ActionType
	Player   PitchSlot
	Priority int
	Detail   ActionDetail

	Phase          ActionPhase
	RemainingTicks int
	Result         ActionResult
}

// ActionResult is what a resolve executor produces; always a value,
// never an error (§7).
type ActionResult struct {
	Cancelled   bool
	CancelWhy   CancelReason
	Failure     FailureOutcome
	Succeeded   bool
	Detail      string
}

// ActionQueue owns every in-flight action for the match. Only the Match
// holds a pointer to it (§3 ownership).
type ActionQueue struct {
	entries []ActionEntry
	nextID  ActionID
}

func NewActionQueue() *ActionQueue {
	return &ActionQueue{}
}

// ScheduleNew enters a new Pending entry and returns its id (§4.2).
func (q *ActionQueue) ScheduleNew(atTick int, t ActionType, player PitchSlot, priority int, detail ActionDetail) ActionID {
	id := q.nextID
	q.nextID++
	q.entries = append(q.entries, ActionEntry{
		ID: id, State: entryPending, AtTick: atTick, Type: t,
		Player: player, Priority: priority, Detail: detail,
	})
	return id
}

// HasActiveOrPending reports whether the player already has a live
// entry, enforcing the "at most one active action per player" invariant
// (§3, §8) at the scheduling boundary.
func (q *ActionQueue) HasActiveOrPending(player PitchSlot) bool {
	for i := range q.entries {
		e := &q.entries[i]
		if e.Player == player && e.State != entryFinished {
			return true
		}
	}
	return false
}

// ActivatePendingActions moves Pending entries whose tick has arrived
// and whose gating predicate holds into Active/Startup. canStart
// receives the player slot and action type; deterministic iteration
// order is by ascending ActionID (§9: no unordered-container iteration).
func (q *ActionQueue) ActivatePendingActions(tick int, canStart func(PitchSlot, ActionType) bool) []ActionID {
	var activated []ActionID
	for i := range q.entries {
		e := &q.entries[i]
		if e.State != entryPending || e.AtTick > tick {
			continue
		}
		if !canStart(e.Player, e.Type) {
			continue
		}
		e.State = entryActive
		e.Phase = PhaseStartup
		e.RemainingTicks = startupTicks[e.Type]
		activated = append(activated, e.ID)
	}
	return activated
}

// TickActiveActions advances phase timers for every Active entry and
// returns the ids entering Resolve this tick (§4.2).
func (q *ActionQueue) TickActiveActions(tick int) []ActionID {
	var enteringResolve []ActionID
	for i := range q.entries {
		e := &q.entries[i]
		if e.State != entryActive {
			continue
		}
		if e.RemainingTicks > 0 {
			e.RemainingTicks--
			continue
		}
		switch e.Phase {
		case PhaseStartup:
			e.Phase = PhaseExecute
			e.RemainingTicks = executeDuration(e.Type) - 1
			if e.RemainingTicks < 0 {
				e.RemainingTicks = 0
			}
			if e.RemainingTicks == 0 {
				e.Phase = PhaseResolve
				enteringResolve = append(enteringResolve, e.ID)
			}
		case PhaseExecute:
			e.Phase = PhaseResolve
			enteringResolve = append(enteringResolve, e.ID)
		case PhaseResolve:
			// resolved this same tick by the orchestrator below; move on.
		case PhaseRecover:
			e.State = entryFinished
		}
	}
	return enteringResolve
}

// FinishRecover transitions an entry from Resolve to Recover with the
// type-specific recovery duration, called right after its resolve
// executor ran.
func (q *ActionQueue) FinishRecover(id ActionID, result ActionResult) {
	e := q.find(id)
	if e == nil {
		return
	}
	e.Result = result
	e.Phase = PhaseRecover
	e.RemainingTicks = recoverTicks[e.Type]
	if e.RemainingTicks == 0 {
		e.State = entryFinished
	}
}

func (q *ActionQueue) find(id ActionID) *ActionEntry {
	for i := range q.entries {
		if q.entries[i].ID == id {
			return &q.entries[i]
		}
	}
	return nil
}

func (q *ActionQueue) Get(id ActionID) (ActionEntry, bool) {
	e := q.find(id)
	if e == nil {
		return ActionEntry{}, false
	}
	return *e, true
}

// ActiveFor returns the single Active entry for a player, if any,
// enforcing the one-active-action-per-player read side of the
// invariant.
func (q *ActionQueue) ActiveFor(player PitchSlot) (ActionEntry, bool) {
	for i := range q.entries {
		e := &q.entries[i]
		if e.Player == player && e.State == entryActive {
			return *e, true
		}
	}
	return ActionEntry{}, false
}

// Compact drops finished entries older than the current tick minus a
// small retention window, so the slice does not grow without bound over
// a 90-minute match.
func (q *ActionQueue) Compact(tick, retentionTicks int) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.State == entryFinished && tick-e.AtTick > retentionTicks {
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
}
