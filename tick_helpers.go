package match

// dueForDecision gates whether the on-ball player re-runs the decision
// pipeline this tick: it does so whenever the player's FSM can start an
// action (§4.3: the pipeline runs whenever no pending/active action
// already claims the player). There is no separate cadence: an idle
// on-ball player re-evaluates every tick, including while holding.
func (m *Match) dueForDecision(slot PitchSlot) bool {
	team := m.TeamOf(slot)
	ps, ok := team.Physics[slot]
	if !ok {
		return false
	}
	return ps.FSM.CanStartAction()
}

// runDecisionFor builds a DecisionContext/ElaborationContext snapshot
// for the on-ball player and runs the appropriate pipeline variant,
// scheduling the resulting action onto the queue (§4.1 stage 13, §4.3).
func (m *Match) runDecisionFor(slot PitchSlot) {
	team := m.TeamOf(slot)
	opp := m.Away
	if !team.IsHome {
		opp = m.Home
	}
	attrs := team.Attributes[slot]
	ps := team.Physics[slot]
	attacksRight := AttacksRight(team.IsHome, m.Half)
	posTV := ToTeamView(ps.Position, attacksRight)

	localPressure := m.estimateLocalPressureAtBall()
	immediate := 0
	for _, s := range opp.Slots() {
		if opp.Physics[s].Position.Dist(ps.Position) < 2.0 {
			immediate++
		}
	}

	xg := ComputeXG(posTV,
		attrs.N(func(a PlayerAttributes) int { return a.Finishing }),
		attrs.N(func(a PlayerAttributes) int { return a.Technique }),
		attrs.N(func(a PlayerAttributes) int { return a.Composure }),
		attrs.N(func(a PlayerAttributes) int { return a.LongShots }),
		0.7, localPressure, posTV.X > PitchLength*0.66)

	nearestTeammate, nearestOpponent := 1e9, 1e9
	for _, s := range team.Slots() {
		if s == slot {
			continue
		}
		if d := team.Physics[s].Position.Dist(ps.Position); d < nearestTeammate {
			nearestTeammate = d
		}
	}
	var opponentXsTV []float64
	var nearbyOpponents []PitchSlot
	for _, s := range opp.Slots() {
		d := opp.Physics[s].Position.Dist(ps.Position)
		if d < nearestOpponent {
			nearestOpponent = d
		}
		if d < 10 {
			nearbyOpponents = append(nearbyOpponents, s)
		}
		opponentXsTV = append(opponentXsTV, ToTeamView(opp.Physics[s].Position, attacksRight).X)
	}
	offsideLine := OffsideLineX(opponentXsTV)

	var passTargets []PassTarget
	for _, s := range team.Slots() {
		if s == slot {
			continue
		}
		tPos := team.Physics[s].Position
		tTV := ToTeamView(tPos, attacksRight)
		forward := tTV.X > posTV.X
		offside := forward && tTV.X > offsideLine
		passTargets = append(passTargets, PassTarget{Slot: s, Pos: tPos, IsForward: forward, IsOffside: offside, Teammate: true})
	}

	inBox := InPenaltyBox(ps.Position, attacksRight)
	nearTouch := NearTouchline(ps.Position, 5)
	shotBudget := 20 - team.ShotsThisHalf

	ctx := DecisionContext{
		PlayerSlot: slot, PositionTeamView: posTV, XGAtPosition: xg,
		LocalPressure: localPressure, ImmediatePressure: immediate,
		XGZoneLevel: m.Board.XGZoneLevel(posTV),
		NearestTeammate: nearestTeammate, NearestOpponent: nearestOpponent,
		PassOptionsCount: len(passTargets), InPenaltyBox: inBox, NearTouchline: nearTouch,
		CounterAttack: m.Phases.PossessingSubPhase == SubPhaseTransition,
		BuildupPhase:  m.Phases.PossessingSubPhase, ShotBudgetLeft: shotBudget,
	}
	el := ElaborationContext{
		OwnGoal: OwnGoal(attacksRight), DefendingGoal: OpponentGoal(attacksRight),
		PassTargets: passTargets, NearbyOpponents: nearbyOpponents, LastPasser: m.Ball.PreviousOwner,
	}
	angleDeg := ShotAngleDeg(posTV, Vec2{PitchLength, PitchWidth / 2})
	knobs := team.Instructions.ToKnobs()
	knobs.RiskBias += team.Modifiers.AdditionalRisk
	knobs.PressingFactor += team.Modifiers.AdditionalPress
	cal := m.CalHome
	if !team.IsHome {
		cal = m.CalAway
	}

	var action PlayerAction
	var detail ActionDetail
	if team.IsHome {
		if m.UAEEnabled {
			action, detail = RunDecisionPipelineUAE(ctx, el, attrs, knobs, cal, m.Phases.PossessingSubPhase, angleDeg, m.Seed, m.Tick, &m.DecTel)
		} else {
			action, detail = RunDecisionPipelineSnapshot(ctx, el, attrs, knobs, cal, m.Phases.PossessingSubPhase, angleDeg, m.Seed, m.Tick, &m.DecTel)
		}
	} else {
		action, detail = RunDecisionPipelineSnapshot(ctx, el, attrs, knobs, cal, m.Phases.PossessingSubPhase, angleDeg, m.Seed, m.Tick, &m.DecTel)
	}

	m.Telemetry.RecordRNGDraw(slot, StageDecision)
	m.Telemetry.RecordIntent(m.Tick, slot, action)
	m.Recorder.RecordDecision(m.Tick, slot, action)

	switch action {
	case ActionKindShoot:
		team.ShotsThisHalf++
		m.Queue.ScheduleNew(m.Tick, ActionShot, slot, 1, detail)
	case ActionKindPass:
		m.Queue.ScheduleNew(m.Tick, ActionPass, slot, 1, detail)
	case ActionKindDribble, ActionKindTakeOn:
		m.Queue.ScheduleNew(m.Tick, ActionDribble, slot, 0, detail)
	default:
		// Hold: no action scheduled; player keeps the ball under close
		// control until next tick's re-evaluation.
	}
}

// resolveAction executes the concrete outcome for one action id entering
// Resolve this tick, then transitions it into Recover (§4.1 stage 12).
func (m *Match) resolveAction(id ActionID) {
	entry, ok := m.Queue.Get(id)
	if !ok {
		return
	}
	team := m.TeamOf(entry.Player)
	ps := team.Physics[entry.Player]
	if ps == nil {
		m.Queue.FinishRecover(id, ActionResult{Cancelled: true, CancelWhy: CancelActionNotFound})
		return
	}
	ps.FSM = StateInAction

	switch entry.Type {
	case ActionPass:
		m.resolvePassAction(entry, team, ps)
	case ActionShot:
		m.resolveShotAction(entry, team, ps)
	case ActionDribble:
		m.resolveDribbleAction(entry, team, ps)
	default:
		m.Queue.FinishRecover(id, ActionResult{Succeeded: true})
	}
	ps.EnterRecovering(recoverTicks[entry.Type])
}

func (m *Match) resolvePassAction(entry ActionEntry, team *Team, ps *PlayerPhysicsState) {
	attrs := team.Attributes[entry.Player]
	attacksRight := AttacksRight(team.IsHome, m.Half)
	var targetPos Vec2
	var targetSlot PitchSlot = NoSlot
	if entry.Detail.Target.Kind == TargetPlayer {
		targetSlot = entry.Detail.Target.Player
		targetPos = entry.Detail.Target.Point
	} else {
		targetPos = entry.Detail.Target.Point
	}
	dist := ps.Position.Dist(targetPos)

	opp := m.Away
	if !team.IsHome {
		opp = m.Home
	}
	hint := LaneBlockHint{GridRisk: m.Board.LaneHint(ps.Position.Add(targetPos).Scale(0.5), team.IsHome)}
	var oppPos []Vec2
	for _, s := range opp.Slots() {
		oppPos = append(oppPos, opp.Physics[s].Position)
	}
	risk, unavailable := InterceptionRisk(hint, ps.Position, targetPos, oppPos)
	if unavailable {
		m.Telemetry.FallbackCount++
	}

	pSucc := PassSuccessProbability(dist,
		attrs.N(func(a PlayerAttributes) int { return a.Passing }),
		attrs.N(func(a PlayerAttributes) int { return a.Vision }),
		attrs.N(func(a PlayerAttributes) int { return a.Technique }),
		m.estimateLocalPressureAtBall(),
		attrs.N(func(a PlayerAttributes) int { return a.Composure }),
		attrs.N(func(a PlayerAttributes) int { return a.Decisions }),
		risk)

	outcome := ResolvePass(pSucc, m.Seed, m.Tick, entry.Player)
	fromTV := ToTeamView(ps.Position, attacksRight)
	toTV := ToTeamView(targetPos, attacksRight)
	audit := ComputeForwardPassAudit(fromTV, toTV, nil)
	_ = audit

	offside := false
	if outcome == PassSuccess && targetSlot != NoSlot {
		var oppXsTV []float64
		for _, p := range oppPos {
			oppXsTV = append(oppXsTV, ToTeamView(p, attacksRight).X)
		}
		offsideRNG := ActorRNG(m.Seed, m.Tick, entry.Player, StageResolve^0x4F)
		offsideDecisions := m.Dispatcher.Evaluate(RuleEvent{
			Kind: RuleEventPass, Receiver: targetSlot, ReceiverX: toTV.X,
			LastDefenderX: OffsideLineX(oppXsTV), AttacksRightHome: attacksRight,
			ReceiverWorldPos: targetPos, LastTouchHome: team.IsHome,
		}, nil, offsideRNG)
		for _, d := range offsideDecisions {
			if d.Kind == RuleOffside {
				offside = true
			}
		}
	}

	cal := &m.CalibHome
	if !team.IsHome {
		cal = &m.CalibAway
	}
	cal.RecordPass(ps.Position, targetPos, entry.Detail.PassType, outcome == PassSuccess && !offside)

	if offside {
		m.applyOffside(team, entry, targetSlot, targetPos)
		return
	}

	launch := m.Tick
	arrival := ArrivalTick(launch, dist, entry.Detail.PassType)
	switch outcome {
	case PassSuccess:
		m.BallState = BallState{Kind: BallInFlight, From: ps.Position, To: targetPos, HeightPeak: flightPeakFor(entry.Detail.PassType), LaunchTick: launch, ArrivalTick: arrival}
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.Ball.PendingReceiver = targetSlot
		m.LastTouchHome = team.IsHome
		m.LastTouchSlot = entry.Player
		m.RecordAssistCandidate(entry.Player, targetSlot, team.IsHome)
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: true})
	case PassIntercepted:
		m.BallState = BallState{Kind: BallLoose, LoosePos: targetPos}
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = team.IsHome
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailurePassIntercepted})
	case PassDeflected:
		deflected := targetPos.Add(Vec2{X: 1, Y: -1})
		m.BallState = BallState{Kind: BallLoose, LoosePos: deflected.ClampPitch()}
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = team.IsHome
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailureDeflection})
	default: // PassOut
		m.BallState = BallState{Kind: BallOutOfPlay}
		m.Ball.Position = targetPos.ClampPitch()
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = team.IsHome
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailurePassOut})
	}
}

func flightPeakFor(pt PassType) float64 {
	switch pt {
	case PassLob, PassCross:
		return 4.0
	case PassLong:
		return 2.0
	default:
		return 0.3
	}
}

func (m *Match) resolveShotAction(entry ActionEntry, team *Team, ps *PlayerPhysicsState) {
	attrs := team.Attributes[entry.Player]
	attacksRight := AttacksRight(team.IsHome, m.Half)
	posTV := ToTeamView(ps.Position, attacksRight)
	localPressure := m.estimateLocalPressureAtBall()
	xg := ComputeXG(posTV,
		attrs.N(func(a PlayerAttributes) int { return a.Finishing }),
		attrs.N(func(a PlayerAttributes) int { return a.Technique }),
		attrs.N(func(a PlayerAttributes) int { return a.Composure }),
		attrs.N(func(a PlayerAttributes) int { return a.LongShots }),
		entry.Detail.Power, localPressure, posTV.X > PitchLength*0.66)

	gkTeam := m.Away
	if !team.IsHome {
		gkTeam = m.Home
	}
	gkSlot := AwayGKSlot
	if !team.IsHome {
		gkSlot = HomeGKSlot
	}
	gk := DefaultGKAttributes(gkTeam.Attributes[gkSlot])
	shotSpeed := 18 + 12*entry.Detail.Power
	saveProb := GKSaveProbability(gk, shotSpeed, xg)
	outcome := ResolveShot(xg, saveProb, m.Seed, m.Tick, entry.Player)

	cal := &m.CalibHome
	if !team.IsHome {
		cal = &m.CalibAway
	}
	onTarget := outcome == ShotGoalScored || outcome == ShotSaveMade
	cal.RecordShot(ps.Position, xg, onTarget, outcome == ShotGoalScored)

	goalPos := OpponentGoal(attacksRight)
	m.Events = append(m.Events, MatchEvent{Kind: EvtShot, TimestampMS: m.Tick * 250, IsHomeTeam: team.IsHome, Slot: entry.Player, Position: ps.Position})
	m.Recorder.RecordEvent(m.Events[len(m.Events)-1])

	switch outcome {
	case ShotGoalScored:
		m.BallState = BallState{Kind: BallInFlight, From: ps.Position, To: goalPos, HeightPeak: 1.0, LaunchTick: m.Tick, ArrivalTick: m.Tick + 2}
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = team.IsHome
		m.LastTouchSlot = entry.Player
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: true})
	case ShotSaveMade:
		m.Events = append(m.Events, MatchEvent{Kind: EvtSave, TimestampMS: m.Tick * 250, IsHomeTeam: !team.IsHome, Slot: gkSlot, Position: goalPos})
		m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
		m.BallState = BallState{Kind: BallLoose, LoosePos: goalPos.Add(Vec2{X: sign(goalPos.X-ps.Position.X) * -3})}
		m.Ball.PreviousOwner = gkSlot
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = gkSlot.IsHome()
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailureSaveMade})
	case ShotGKHandlingViolation:
		handballRNG := ActorRNG(m.Seed, m.Tick, gkSlot, StageResolve^0x48)
		decisions := m.Dispatcher.Evaluate(RuleEvent{Kind: RuleEventPotentialHandball}, nil, handballRNG)
		direct := true
		if len(decisions) > 0 {
			direct = decisions[0].HandballDirect
		}

		m.Events = append(m.Events, MatchEvent{
			Kind: EvtFoul, TimestampMS: m.Tick * 250, IsHomeTeam: !team.IsHome,
			Slot: gkSlot, Slot2: entry.Player, Position: goalPos, Detail: "handball",
		})
		m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
		if gkTeam.IsHome {
			m.Stats.HandballsHome++
		} else {
			m.Stats.HandballsAway++
		}

		m.Ball.PreviousOwner = gkSlot
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = gkSlot.IsHome()
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailureSaveMade})

		restart := RestartIndirectFreeKick
		if direct {
			restart = RestartDirectFreeKick
		}
		m.applyRestart(restart, goalPos, team.IsHome)
	default: // ShotMissedOutcome
		m.BallState = BallState{Kind: BallOutOfPlay}
		m.Ball.Position = goalPos
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = team.IsHome
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailureShotMissed})
	}
}

func (m *Match) resolveDribbleAction(entry ActionEntry, team *Team, ps *PlayerPhysicsState) {
	attrs := team.Attributes[entry.Player]
	dribbling := attrs.N(func(a PlayerAttributes) int { return a.Dribbling })
	agility := attrs.N(func(a PlayerAttributes) int { return a.Agility })
	localPressure := m.estimateLocalPressureAtBall()
	pSucc := clampF(0.4+0.3*dribbling+0.2*agility-0.3*localPressure, 0.1, 0.9)
	actor := ActorRNG(m.Seed, m.Tick, entry.Player, StageResolve^0x44)
	attacksRight := AttacksRight(team.IsHome, m.Half)
	advance := Vec2{X: 2.5 * boolSign(attacksRight), Y: 0}
	if actor.Bool(pSucc) {
		ps.Position = ps.Position.Add(advance).ClampPitch()
		m.Ball.Position = ps.Position
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: true})
	} else {
		m.BallState = BallState{Kind: BallLoose, LoosePos: ps.Position.Add(advance.Scale(0.5)).ClampPitch()}
		m.Ball.PreviousOwner = entry.Player
		m.Ball.CurrentOwner = NoSlot
		m.LastTouchHome = team.IsHome
		m.Queue.FinishRecover(entry.ID, ActionResult{Succeeded: false, Failure: FailureDribbleTackled})
	}
}

func boolSign(b bool) float64 {
	if b {
		return 1
	}
	return -1
}

// runTackleProtocol implements §4.4's three-phase tackle decision for
// the defending team against the current ball carrier.
func (m *Match) runTackleProtocol(carrier PitchSlot) {
	carrierTeam := m.TeamOf(carrier)
	defTeam := m.Away
	if !carrierTeam.IsHome {
		defTeam = m.Home
	}
	carrierPos := carrierTeam.Physics[carrier].Position
	pressing := defTeam.Instructions.ToKnobs().PressingFactor + defTeam.Modifiers.AdditionalPress

	cands := CollectTackleIntents(defTeam.Slots(), defTeam.Physics, carrierPos, pressing)
	if len(cands) == 0 {
		return
	}
	successes := RollTackleAttempts(cands, m.Seed, m.Tick)
	winner, ok := CommitTackle(successes, m.Seed, m.Tick)
	if !ok {
		return
	}
	tacklerAttrs := defTeam.Attributes[winner]
	carrierAttrs := carrierTeam.Attributes[carrier]
	outcome := ResolveTackle(tacklerAttrs, carrierAttrs, m.Seed, m.Tick, winner)

	defCal := &m.CalibHome
	if !defTeam.IsHome {
		defCal = &m.CalibAway
	}
	defCal.RecordTackle()
	defTeam.Physics[winner].TackleCooldown = 8

	switch outcome {
	case TackleCleanWin, TackleDeflection:
		m.Ball.PreviousOwner = carrier
		m.Ball.CurrentOwner = NoSlot
		m.BallState = BallState{Kind: BallLoose, LoosePos: carrierPos}
		m.LastTouchHome = defTeam.IsHome
		m.Events = append(m.Events, MatchEvent{Kind: EvtTackle, TimestampMS: m.Tick * 250, IsHomeTeam: defTeam.IsHome, Slot: winner, Slot2: carrier, Position: carrierPos})
		m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
	case TackleFoul, TackleYellow, TackleRed:
		legacySeverity := FoulNone
		if outcome == TackleYellow {
			legacySeverity = FoulYellow
		} else if outcome == TackleRed {
			legacySeverity = FoulRed
		}
		foulRNG := ActorRNG(m.Seed, m.Tick, winner, StageResolve^0x46)
		decisions := m.Dispatcher.Evaluate(RuleEvent{Kind: RuleEventPotentialFoul},
			&RuleDecision{Kind: RuleFoul, Severity: legacySeverity}, foulRNG)
		severity := legacySeverity
		if m.Dispatcher.Mode == ModeDispatcherPrimary && len(decisions) > 0 {
			severity = decisions[0].Severity
		}

		m.Events = append(m.Events, MatchEvent{Kind: EvtFoul, TimestampMS: m.Tick * 250, IsHomeTeam: defTeam.IsHome, Slot: winner, Slot2: carrier, Position: carrierPos})
		m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
		if severity == FoulYellow || severity == FoulRed {
			m.Events = append(m.Events, MatchEvent{Kind: EvtCard, TimestampMS: m.Tick * 250, IsHomeTeam: defTeam.IsHome, Slot: winner, Position: carrierPos})
			m.Recorder.RecordEvent(m.Events[len(m.Events)-1])
			if severity == FoulRed {
				defTeam.Physics[winner].FSM = StateSentOff
				defTeam.RedCards++
			}
		}
		if defTeam.IsHome {
			m.Stats.FoulsHome++
		} else {
			m.Stats.FoulsAway++
		}
		inBox := InPenaltyBox(carrierPos, AttacksRight(carrierTeam.IsHome, m.Half))
		restart := RestartDirectFreeKick
		if inBox {
			restart = RestartPenalty
		}
		m.applyRestart(restart, carrierPos, carrierTeam.IsHome)
	case TackleMiss:
		// nothing changes; carrier retains the ball.
	}
}

// advanceBall steps the ball's physics for the tick depending on its
// current state (§4.1 stage 16, §4.7).
func (m *Match) advanceBall() {
	switch m.BallState.Kind {
	case BallControlled:
		owner := m.BallState.Owner
		if owner == NoSlot {
			owner = m.Ball.CurrentOwner
		}
		if owner != NoSlot {
			team := m.TeamOf(owner)
			if ps, ok := team.Physics[owner]; ok {
				m.Ball.Position = ps.Position
				m.Ball.CurrentOwner = owner
			}
		}
	case BallInFlight:
		m.Ball.AdvanceInFlight(&m.BallState, m.Tick)
		if m.Tick >= m.BallState.ArrivalTick {
			m.settleInFlightArrival()
		}
	case BallLoose:
		m.Ball.Position = m.BallState.LoosePos
		m.Ball.AdvanceLoose(0.25)
		m.BallState.LoosePos = m.Ball.Position
	case BallOutOfPlay:
		// frozen until the restart's set-piece sub-FSM or kickoff resumes it.
	}
}

func (m *Match) settleInFlightArrival() {
	receiver := m.Ball.PendingReceiver
	m.Ball.PendingReceiver = NoSlot
	m.Ball.Position = m.BallState.To
	if receiver != NoSlot {
		team := m.TeamOf(receiver)
		if ps, ok := team.Physics[receiver]; ok && ps.Position.Dist(m.BallState.To) < 3.0 {
			m.BallState = NewBallStateControlled(receiver)
			m.Ball.CurrentOwner = receiver
			m.Ball.PreviousOwner = NoSlot
			cal := &m.CalibHome
			if !team.IsHome {
				cal = &m.CalibAway
			}
			cal.RecordTouch()
			return
		}
	}
	m.BallState = BallState{Kind: BallLoose, LoosePos: m.BallState.To}
}

// updateOffBall implements tick stages 19-24: positioning, elastic-band
// shape, offside awareness and inertia movement for every off-ball
// player on both sides.
func (m *Match) updateOffBall() {
	m.updateOffBallTeam(m.Home)
	m.updateOffBallTeam(m.Away)
}

func (m *Match) updateOffBallTeam(team *Team) {
	attacksRight := AttacksRight(team.IsHome, m.Half)
	phase := m.Phases.Home
	if !team.IsHome {
		phase = m.Phases.Away
	}
	lineX := DefensiveLineX(team.Instructions.DefensiveLine, attacksRight)

	var snap TeamSnapshot
	for _, s := range team.Slots() {
		ps := team.Physics[s]
		snap.Players = append(snap.Players, PlayerSnapshot{Slot: s, Position: ps.Position, FormationPos: ps.Position, IsHome: team.IsHome})
	}
	snap.BallPos = m.Ball.Position
	snap.Phase = phase
	snap.AttacksRight = attacksRight
	snap.DefLineX = lineX

	roles := AssignRoles(snap)

	opp := m.Away
	if !team.IsHome {
		opp = m.Home
	}
	oppPositions := make(map[PitchSlot]Vec2, len(opp.Slots()))
	for _, s := range opp.Slots() {
		oppPositions[s] = opp.Physics[s].Position
	}

	intents := make([]PositionIntent, 0, len(snap.Players))
	for _, p := range snap.Players {
		if p.Slot == m.Ball.CurrentOwner {
			continue
		}
		role := roles[p.Slot]
		target := ComputeTargetPosition(p, role, m.Ball.Position, nil)
		blend := RoleBlendWeight(role)
		target = ApplyElasticBand(target, lineX, m.Ball.Position.Y, blend)
		intents = append(intents, PositionIntent{Slot: p.Slot, Role: role, Target: target})
	}

	if phase == PhaseDefense {
		for _, p := range snap.Players {
			if p.Slot.IsGK() {
				continue
			}
			team.Marking.Reassign(p.Slot, oppPositions, p.Position, m.Tick)
		}
		var nearestDefDist = 1e9
		for _, s := range team.Slots() {
			if d := team.Physics[s].Position.Dist(m.Ball.Position); d < nearestDefDist {
				nearestDefDist = d
			}
		}
		free := CarrierFreeScore(nearestDefDist)
		for _, s := range team.Slots() {
			team.Marking.CheckEmergencyPress(s, free)
		}
	}

	for _, in := range intents {
		ps := team.Physics[in.Slot]
		if ps.FSM == StateInAction || ps.FSM == StateStaggered {
			continue
		}
		attrs := team.Attributes[in.Slot]
		params := DeriveMotionParams(attrs)
		mode := ChooseSteeringMode(ps.Position, in.Target, false)
		desired := SteerDesiredVelocity(mode, ps.Position, in.Target, params.MaxSpeed, Vec2{})
		ps.Sprinting = desired.Length() > params.MaxSpeed*0.7
		StepInertia(ps, InertiaInput{Params: params, Stamina: ps.Stamina, Resting: ps.Resting, StickySprint: ps.Sprinting, DesiredVel: desired})
		if ps.FSM == StateIdle && ps.Speed > 0.2 {
			ps.FSM = StateMoving
		} else if ps.FSM == StateMoving && ps.Speed <= 0.2 {
			ps.FSM = StateIdle
		}
	}
}

// contestLooseBall implements stage 25: the nearest eligible player from
// either side within capture range takes possession.
func (m *Match) contestLooseBall() {
	const captureRadius = 1.2
	loosePos := m.BallState.LoosePos
	best := NoSlot
	bestDist := captureRadius
	for _, s := range m.Home.Slots() {
		if d := m.Home.Physics[s].Position.Dist(loosePos); d < bestDist {
			bestDist, best = d, s
		}
	}
	for _, s := range m.Away.Slots() {
		if d := m.Away.Physics[s].Position.Dist(loosePos); d < bestDist {
			bestDist, best = d, s
		}
	}
	if best == NoSlot {
		return
	}
	team := m.TeamOf(best)
	m.BallState = NewBallStateControlled(best)
	m.Ball.CurrentOwner = best
	m.Ball.PreviousOwner = NoSlot
	m.Ball.Position = team.Physics[best].Position
	cal := &m.CalibHome
	if !team.IsHome {
		cal = &m.CalibAway
	}
	cal.RecordTouch()
}
