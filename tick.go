package match

// Step runs exactly one 250ms decision tick in the fixed 29-stage order
// of §4.1. A tick is always executed end-to-end; there is no partial
// tick. Step is a no-op once the match has finished (§7, §8 boundary).
func (m *Match) Step(homeStrength, awayStrength, possessionRatio float64) {
	if m.finished {
		return
	}

	// Stage 1: reset per-tick pulses.
	m.Telemetry.ResetTickPulse()
	goalScoredThisTick := false
	possessionChangedThisTick := false
	var restartThisTick *OutOfPlayResult

	// Stage 2: game-flow update.
	ballInPlay := m.BallState.Kind != BallOutOfPlay
	m.Flow.Update(ballInPlay)

	// Stage 3: rule dispatcher, only when InPlay.
	if m.Flow.State == FlowInPlay {
		attacksRightHome := AttacksRight(true, m.Half)
		ruleRNG := ActorRNG(m.Seed, m.Tick, NoSlot, StageResolve^0x01)
		homeGoalDecisions := m.Dispatcher.Evaluate(RuleEvent{
			Kind: RuleEventPotentialGoal, BallPos: m.Ball.Position, BallHeight: m.Ball.Height,
			LastTouchHome: m.LastTouchHome, AttacksRightHome: attacksRightHome,
		}, nil, ruleRNG)
		awayGoalDecisions := m.Dispatcher.Evaluate(RuleEvent{
			Kind: RuleEventPotentialGoal, BallPos: m.Ball.Position, BallHeight: m.Ball.Height,
			LastTouchHome: m.LastTouchHome, AttacksRightHome: !attacksRightHome,
		}, nil, ruleRNG)
		if m.Dispatcher.Mode == ModeDispatcherPrimary {
			for _, d := range homeGoalDecisions {
				if d.Kind == RuleGoal {
					m.applyGoal(true)
					goalScoredThisTick = true
				}
			}
			for _, d := range awayGoalDecisions {
				if d.Kind == RuleGoal {
					m.applyGoal(false)
					goalScoredThisTick = true
				}
			}
			oopDecisions := m.Dispatcher.Evaluate(RuleEvent{
				Kind: RuleEventPotentialOutOfPlay, BallPos: m.Ball.Position, LastTouchHome: m.LastTouchHome,
				AttacksRightHome: attacksRightHome,
			}, nil, ruleRNG)
			for _, d := range oopDecisions {
				if d.Kind == RuleOutOfPlay {
					m.applyRestart(d.Restart, d.Position, d.LastTouchHome)
					restartThisTick = &OutOfPlayResult{Restart: d.Restart, Position: d.Position, HomeTeamReceives: d.LastTouchHome}
				}
			}
		}
	}

	// Stage 4-5: AI tactics / team instructions -> modifiers. The caller's
	// (home_strength, away_strength, possession_ratio) advisories fold in
	// here as small additive nudges on top of whatever the match has
	// already accumulated; they never replace TeamMatchModifiers outright
	// (§4.1 "advisories", not authoritative state).
	strengthDelta := clampF(homeStrength-awayStrength, -1, 1) * 0.1
	m.Home.Modifiers.AdditionalRisk += strengthDelta
	m.Away.Modifiers.AdditionalRisk -= strengthDelta
	possessionDelta := clampF(possessionRatio-0.5, -0.5, 0.5) * 0.1
	m.Home.Modifiers.AdditionalPress -= possessionDelta
	m.Away.Modifiers.AdditionalPress += possessionDelta
	m.Home.Modifiers = m.Home.Modifiers.Clamped()
	m.Away.Modifiers = m.Away.Modifiers.Clamped()

	// Stage 6: TeamPhase + AttackSubPhase.
	m.Phases.UpdateTeamPhase(m.Ball)
	localPressure := m.estimateLocalPressureAtBall()
	forwardOptions := m.countForwardOptions()
	distToGoal := m.Ball.Position.Dist(OpponentGoal(m.possessorAttacksRight()))
	m.Phases.UpdateAttackSubPhase(localPressure, forwardOptions, distToGoal, possessionChangedThisTick)

	// Stage 7: AttackPhase.
	m.Phases.UpdateAttackPhase(m.lineLength(), localPressure, m.attackersAhead(), m.defendersAhead(), distToGoal < 40)

	// Stage 8: tick down recovery/stagger/cooldown.
	for _, ps := range m.Home.Physics {
		ps.TickRecovery()
	}
	for _, ps := range m.Away.Physics {
		ps.TickRecovery()
	}

	// Stage 9: PlayerObjective assignment (folded into AssignRoles /
	// ComputeTargetPosition at stage 20 for off-ball players).

	// Stage 10: sync ball -> action queue; woodwork pre-check.
	if m.BallState.Kind == BallInFlight {
		attacksRight := m.possessorAttacksRight()
		if WoodworkHit(m.BallState.To, m.BallState.HeightPeak, attacksRight) {
			m.Telemetry.FallbackCount++
		}
	}

	// Stage 11: activate pending, tick active, collect resolve set.
	activated := m.Queue.ActivatePendingActions(m.Tick, func(p PitchSlot, t ActionType) bool {
		return m.canStartAction(p, t)
	})
	for _, id := range activated {
		_ = id
	}
	resolving := m.Queue.TickActiveActions(m.Tick)

	// Stage 12: shuffle resolve set with a tick-seeded PRNG, execute.
	shuffled := shuffleIDs(resolving, m.Seed, m.Tick)
	for _, id := range shuffled {
		m.resolveAction(id)
	}

	// Stage 13: decision pipeline for the on-ball player.
	if owner := m.Ball.CurrentOwner; owner != NoSlot && !m.Queue.HasActiveOrPending(owner) {
		if m.dueForDecision(owner) {
			m.runDecisionFor(owner)
		}
	}

	// Stage 14: set-piece sub-FSMs.
	var liveSetPieces []*SetPiece
	for _, sp := range m.SetPieces {
		sp.Update()
		if sp.Phase == SPPhaseAerialContest || sp.Phase == SPPhaseShot {
			m.resolveSetPieceInPlace(sp)
		}
		if sp.Phase != SPPhaseResolved {
			liveSetPieces = append(liveSetPieces, sp)
		}
	}
	m.SetPieces = liveSetPieces

	// Stage 15: tackle decisions.
	if owner := m.Ball.CurrentOwner; owner != NoSlot {
		m.runTackleProtocol(owner)
	}

	// Stage 16: advance ball post-action.
	m.advanceBall()

	// Stage 17: detect out-of-play (unless DispatcherPrimary already did).
	if m.Dispatcher.Mode != ModeDispatcherPrimary && restartThisTick == nil {
		if res, out := DetectOutOfPlay(m.Ball.Position, m.LastTouchHome, AttacksRight(true, m.Half)); out {
			m.applyRestart(res.Restart, res.Position, res.HomeTeamReceives)
			restartThisTick = &res
		}
	}

	// Stage 18: possession clock / per-tick telemetry.
	m.Telemetry.DrainIntentsToLog()

	// Stage 19-24: off-ball decisions, positioning, elastic band,
	// inertia, pep-grid, defensive positioning.
	m.updateOffBall()

	// Stage 25: loose ball contest.
	if m.BallState.Kind == BallLoose {
		m.contestLooseBall()
	}

	// Stage 26: goal check (unless DispatcherPrimary already did).
	if m.Dispatcher.Mode != ModeDispatcherPrimary && !goalScoredThisTick {
		attacksRightHome := AttacksRight(true, m.Half)
		if IsGoal(m.Ball.Position, m.Ball.Height, 0.11, attacksRightHome) {
			m.applyGoal(true)
			goalScoredThisTick = true
		} else if IsGoal(m.Ball.Position, m.Ball.Height, 0.11, !attacksRightHome) {
			m.applyGoal(false)
			goalScoredThisTick = true
		}
	}

	// Stage 27: field board update.
	positions := m.allPlayerPositions()
	m.Board.UpdateOccupancy(positions)
	homePos, awayPos := m.teamPositions(m.Home), m.teamPositions(m.Away)
	m.Board.UpdatePressure(m.Tick, homePos, awayPos)
	m.Board.UpdateXGZones(m.Tick)

	// Stage 28: record position sample.
	m.recordPositionFrame()

	// Stage 29: sprint flags, stamina decay, momentum decay.
	m.decayStaminaAndMomentum()

	m.Queue.Compact(m.Tick, 2400)

	m.Tick++
	m.Minute = m.Tick / 240
	if m.Minute >= m.RegulationEndMinute+m.AddedTimeMinutes && m.Half >= 2 {
		m.finished = true
	}
	if m.Minute >= 45 && m.Half == 1 {
		m.Half = 2
		m.Flow.EnterHalfTime()
		m.Home.ShotsThisHalf = 0
		m.Away.ShotsThisHalf = 0
	}
}

func shuffleIDs(ids []ActionID, seed uint64, tick int) []ActionID {
	out := append([]ActionID(nil), ids...)
	r := TickRNG(seed, tick, StageResolve)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (m *Match) canStartAction(p PitchSlot, t ActionType) bool {
	ps := m.TeamOf(p).Physics[p]
	if ps == nil {
		return false
	}
	if !ps.FSM.CanStartAction() {
		return false
	}
	if t == ActionTackle && ps.TackleCooldown > 0 {
		return false
	}
	return true
}

func (m *Match) applyGoal(scoringHome bool) {
	if scoringHome {
		m.Home.Score++
	} else {
		m.Away.Score++
	}
	scorer := m.LastTouchSlot
	assist := NoSlot
	if scorer != NoSlot && scorer.IsHome() == scoringHome {
		assist = m.ConsumeAssist(scorer)
	}
	m.Events = append(m.Events, MatchEvent{
		Kind: EvtGoal, TimestampMS: m.Tick * 250, IsHomeTeam: scoringHome,
		Slot: scorer, Slot2: assist, Position: m.Ball.Position,
	})
	m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
	m.Flow.EnterGoalCelebration()
	m.Ball.Position = Vec2{PitchLength / 2, PitchWidth / 2}
	m.Ball.Velocity = Vec2{}
	m.BallState = NewBallStateControlled(NoSlot)
}

// applyOffside implements §8 scenario 3: the pass never reaches the
// receiver, an Offside event is emitted, and the defending team
// restarts with an indirect free kick at the receiver's position.
func (m *Match) applyOffside(team *Team, entry ActionEntry, receiver PitchSlot, pos Vec2) {
	m.Events = append(m.Events, MatchEvent{
		Kind: EvtOffside, TimestampMS: m.Tick * 250, IsHomeTeam: team.IsHome,
		Slot: receiver, Position: pos,
	})
	m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
	if team.IsHome {
		m.Stats.OffsidesHome++
	} else {
		m.Stats.OffsidesAway++
	}
	m.Ball.PreviousOwner = entry.Player
	m.Ball.CurrentOwner = NoSlot
	m.LastTouchHome = team.IsHome
	m.LastTouchSlot = entry.Player
	m.applyRestart(RestartIndirectFreeKick, pos, !team.IsHome)
	m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailurePassOffside})
}

func (m *Match) applyRestart(r RestartType, pos Vec2, homeReceives bool) {
	m.BallState = BallState{Kind: BallOutOfPlay, Restart: r, RestartPos: pos, HomeTeamReceives: homeReceives}
	m.Ball.Position = pos
	m.Ball.Velocity = Vec2{}
	m.Ball.CurrentOwner = NoSlot
	m.Flow.EnterRestart(r)
	switch r {
	case RestartCorner:
		m.SetPieces = append(m.SetPieces, NewSetPiece(len(m.SetPieces), SetPieceCorner, m.pickTaker(homeReceives), pos, TacticInswing, homeReceives))
	case RestartPenalty:
		m.SetPieces = append(m.SetPieces, NewSetPiece(len(m.SetPieces), SetPiecePenalty, m.pickTaker(homeReceives), pos, TacticPenaltyCentre, homeReceives))
	case RestartDirectFreeKick:
		m.SetPieces = append(m.SetPieces, NewSetPiece(len(m.SetPieces), SetPieceFreeKickDirect, m.pickTaker(homeReceives), pos, TacticDirectShot, homeReceives))
	case RestartIndirectFreeKick:
		m.SetPieces = append(m.SetPieces, NewSetPiece(len(m.SetPieces), SetPieceFreeKickIndirect, m.pickTaker(homeReceives), pos, TacticShortPass, homeReceives))
	}
}

func (m *Match) pickTaker(homeTeam bool) PitchSlot {
	t := m.Away
	if homeTeam {
		t = m.Home
	}
	for _, s := range t.Slots() {
		if !s.IsGK() {
			return s
		}
	}
	return NoSlot
}

func (m *Match) resolveSetPieceInPlace(sp *SetPiece) {
	taker := m.TeamOf(sp.Taker).Attributes[sp.Taker]
	defTeam := m.Home
	if sp.AttackingHome {
		defTeam = m.Away
	}
	var bestDef PlayerAttributes
	for _, s := range defTeam.Slots() {
		bestDef = defTeam.Attributes[s]
		break
	}
	gkSlot := AwayGKSlot
	if !sp.AttackingHome {
		gkSlot = HomeGKSlot
	}
	gk := DefaultGKAttributes(defTeam.Attributes[gkSlot])
	result := ResolveSetPiece(sp, taker, taker, bestDef, gk, m.Seed, m.Tick)
	ev := MatchEventKind(EvtCorner)
	switch result {
	case SPGoal:
		ev = EvtGoal
		if sp.AttackingHome {
			m.Home.Score++
		} else {
			m.Away.Score++
		}
	case SPSave:
		ev = EvtSave
	}
	m.Events = append(m.Events, MatchEvent{Kind: ev, TimestampMS: m.Tick * 250, IsHomeTeam: sp.AttackingHome, Position: sp.Position})
	m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
	m.BallState = BallState{Kind: BallLoose, LoosePos: sp.Position}
}

func (m *Match) estimateLocalPressureAtBall() float64 {
	owner := m.Ball.CurrentOwner
	if owner == NoSlot {
		return 0
	}
	opp := m.Away
	if !owner.IsHome() {
		opp = m.Home
	}
	ownerPos := m.TeamOf(owner).Physics[owner].Position
	count := 0
	for _, s := range opp.Slots() {
		if opp.Physics[s].Position.Dist(ownerPos) < 5 {
			count++
		}
	}
	return clampF(float64(count)/3.0, 0, 1)
}

func (m *Match) countForwardOptions() int {
	owner := m.Ball.CurrentOwner
	if owner == NoSlot {
		return 0
	}
	team := m.TeamOf(owner)
	ownerPos := team.Physics[owner].Position
	right := m.possessorAttacksRight()
	n := 0
	for _, s := range team.Slots() {
		if s == owner {
			continue
		}
		p := team.Physics[s].Position
		if (right && p.X > ownerPos.X) || (!right && p.X < ownerPos.X) {
			n++
		}
	}
	return n
}

func (m *Match) possessorAttacksRight() bool {
	if m.Ball.CurrentOwner != NoSlot {
		return AttacksRight(m.Ball.CurrentOwner.IsHome(), m.Half)
	}
	return AttacksRight(true, m.Half)
}

func (m *Match) lineLength() float64 {
	minX, maxX := 1e9, -1e9
	for _, s := range m.Home.Slots() {
		x := m.Home.Physics[s].Position.X
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}
	return maxX - minX
}

func (m *Match) attackersAhead() int {
	return m.countForwardOptions()
}

func (m *Match) defendersAhead() int {
	owner := m.Ball.CurrentOwner
	if owner == NoSlot {
		return 0
	}
	opp := m.Away
	if !owner.IsHome() {
		opp = m.Home
	}
	ownerPos := m.TeamOf(owner).Physics[owner].Position
	right := m.possessorAttacksRight()
	n := 0
	for _, s := range opp.Slots() {
		p := opp.Physics[s].Position
		if (right && p.X > ownerPos.X) || (!right && p.X < ownerPos.X) {
			n++
		}
	}
	return n
}

func (m *Match) allPlayerPositions() []Vec2 {
	var out []Vec2
	for _, s := range m.Home.Slots() {
		out = append(out, m.Home.Physics[s].Position)
	}
	for _, s := range m.Away.Slots() {
		out = append(out, m.Away.Physics[s].Position)
	}
	return out
}

func (m *Match) teamPositions(t *Team) []Vec2 {
	var out []Vec2
	for _, s := range t.Slots() {
		out = append(out, t.Physics[s].Position)
	}
	return out
}

// recordPositionFrame implements §4.1 stage 28: one 4 Hz sample of the
// ball and all 22 players, kept only when the plan opted in via
// RecordPositions (§6: position_data is "optional; nil if not
// requested").
func (m *Match) recordPositionFrame() {
	if !m.RecordPositions {
		return
	}
	frame := PositionFrame{
		TimestampMS: m.Tick * 250,
		BallPos:     m.Ball.Position,
		BallHeight:  m.Ball.Height,
	}
	for _, s := range m.Home.Players {
		if ps, ok := m.Home.Physics[s]; ok {
			frame.Players[s] = ps.Position
			frame.PlayerState[s] = ps.FSM
		}
	}
	for _, s := range m.Away.Players {
		if ps, ok := m.Away.Physics[s]; ok {
			frame.Players[s] = ps.Position
			frame.PlayerState[s] = ps.FSM
		}
	}
	m.PositionFrames = append(m.PositionFrames, frame)
}

func (m *Match) decayStaminaAndMomentum() {
	drainHome := m.Home.Instructions.StaminaDrainRate()
	drainAway := m.Away.Instructions.StaminaDrainRate()
	for _, ps := range m.Home.Physics {
		decayStamina(ps, drainHome)
	}
	for _, ps := range m.Away.Physics {
		decayStamina(ps, drainAway)
	}
	m.Home.Modifiers.Momentum = decayMomentum(m.Home.Modifiers.Momentum)
	m.Away.Modifiers.Momentum = decayMomentum(m.Away.Modifiers.Momentum)
}

func decayStamina(ps *PlayerPhysicsState, drain float64) {
	cost := drain
	if ps.Sprinting {
		cost *= 2.5
	}
	ps.Stamina = clampF(ps.Stamina-cost, 0, 1)
	if ps.Speed < 0.3 {
		ps.RunningTicks = 0
		ps.Resting = ps.Stamina < 0.95
	} else {
		ps.RunningTicks++
		ps.Resting = false
	}
}

// decayMomentum drifts momentum toward 0 by a bounded per-tick amount,
// keeping |momentum| <= 1 (§8 Momentum bounds).
func decayMomentum(v float64) float64 {
	const decay = 0.002
	if v > 0 {
		v -= decay
		if v < 0 {
			v = 0
		}
	} else if v < 0 {
		v += decay
		if v > 0 {
			v = 0
		}
	}
	return clampF(v, -1, 1)
}
