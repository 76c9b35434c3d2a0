package game

import (
	"github.com/gobuffalo/nulls"
	"github.com/google/uuid"
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/messages"
)

// Snapshot returns the outward state representation of the match. While a
// frozen final snapshot is cached after a match end, that one is served instead
// of the live state so spectators keep viewing the final state across the
// post-match reset.
func (m *Match) Snapshot() messages.CourtState {
	m.m.Lock()
	defer m.m.Unlock()
	if m.finalState != nil {
		return *m.finalState
	}
	return m.snapshotLocked()
}

func (m *Match) snapshotLocked() messages.CourtState {
	state := messages.CourtState{
		Status:       string(m.status),
		LeftScore:    m.leftScore,
		RightScore:   m.rightScore,
		BallX:        m.ball.X,
		BallY:        m.ball.Y,
		BallVX:       m.ball.VX,
		BallVY:       m.ball.VY,
		LeftPaddleY:  CourtHeight / 2,
		RightPaddleY: CourtHeight / 2,
		Winner:       m.winner,
		IsWalkover:   m.isWalkover,
	}
	if p := m.playerOnSide(SideLeft); p != nil {
		state.LeftPaddleY = p.PaddleY
		state.LeftPlayer = nulls.NewString(p.Name)
		state.LeftReady = p.IsReady
	}
	if p := m.playerOnSide(SideRight); p != nil {
		state.RightPaddleY = p.PaddleY
		state.RightPlayer = nulls.NewString(p.Name)
		state.RightReady = p.IsReady
	}
	return state
}

// Summary returns the lobby view of the court.
func (m *Match) Summary() messages.CourtSummary {
	m.m.Lock()
	defer m.m.Unlock()
	summary := messages.CourtSummary{
		CourtID:        m.id,
		Status:         string(m.status),
		SpectatorCount: len(m.spectators),
		VisualSeed:     m.visualSeed,
		LeftScore:      m.leftScore,
		RightScore:     m.rightScore,
	}
	if p := m.playerOnSide(SideLeft); p != nil {
		summary.LeftPlayer = nulls.NewString(p.Name)
		summary.LeftReady = p.IsReady
	}
	if p := m.playerOnSide(SideRight); p != nil {
		summary.RightPlayer = nulls.NewString(p.Name)
		summary.RightReady = p.IsReady
	}
	return summary
}

// Recipients returns the connection handles of everybody currently attached to
// the court. Used for per-court notifications.
func (m *Match) Recipients() []*client.Client {
	m.m.Lock()
	defer m.m.Unlock()
	recipients := make([]*client.Client, 0, len(m.players)+len(m.spectators))
	for _, p := range m.players {
		if p.Client != nil {
			recipients = append(recipients, p.Client)
		}
	}
	for _, c := range m.spectators {
		recipients = append(recipients, c)
	}
	return recipients
}

// MatchEndOutcome is the result of Match.BeginMatchEnd.
type MatchEndOutcome struct {
	// Result is the final summary to broadcast.
	Result messages.MatchResult
	// Epoch is the reset epoch to attach to the grace-period timer.
	Epoch uint64
	// Recipients are the connection handles attached at the time the match ended.
	Recipients []*client.Client
}

// BeginMatchEnd commits the match outcome once. It marks all remaining players
// finished, caches the frozen final snapshot and returns the final result.
// False is returned when the match is not finished or the end was already
// handled, so a near-simultaneous walkover and score-finish cannot double-fire.
func (m *Match) BeginMatchEnd() (MatchEndOutcome, bool) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.status != StatusFinished || m.matchEndHandled {
		return MatchEndOutcome{}, false
	}
	m.matchEndHandled = true
	result := messages.MatchResult{
		Winner:     m.winner.String,
		IsWalkover: m.isWalkover,
		LeftScore:  m.leftScore,
		RightScore: m.rightScore,
	}
	recipients := make([]*client.Client, 0, len(m.players)+len(m.spectators))
	for _, p := range m.players {
		p.Finished = true
		if p.Client != nil {
			recipients = append(recipients, p.Client)
		}
		if p.Side == SideLeft {
			result.LeftPlayer = nulls.NewString(p.Name)
		} else {
			result.RightPlayer = nulls.NewString(p.Name)
		}
	}
	for _, c := range m.spectators {
		recipients = append(recipients, c)
	}
	finalState := m.snapshotLocked()
	m.finalState = &finalState
	return MatchEndOutcome{
		Result:     result,
		Epoch:      m.epoch,
		Recipients: recipients,
	}, true
}

// GraceOutcome is the result of Match.FinishGracePeriod and Match.ForceReset.
type GraceOutcome struct {
	// ClosedClients are the player connections that were still attached and must be
	// force-disconnected by the transport layer.
	ClosedClients []*client.Client
	// RemovedPlayers are the ids of all players that were removed from the roster.
	RemovedPlayers []uuid.UUID
}

// FinishGracePeriod performs the delayed post-match reset. It re-validates the
// current state first: a stale epoch or an already reset match makes the timer
// a safe no-op. On success the roster is cleared, the match returns to
// StatusWaiting with fresh state and the epoch advances. The frozen final
// snapshot stays cached for spectators until a new player joins.
func (m *Match) FinishGracePeriod(epoch uint64) (GraceOutcome, bool) {
	m.m.Lock()
	defer m.m.Unlock()
	if epoch != m.epoch || !m.matchEndHandled {
		return GraceOutcome{}, false
	}
	outcome := m.clearRosterLocked()
	m.resetStateLocked()
	m.matchEndHandled = false
	m.epoch++
	return outcome, true
}

// ForceReset unconditionally resets the match to an empty waiting court. Any
// pending grace-period timer is superseded by the epoch advance. Spectators
// stay attached; the frozen final snapshot is dropped.
func (m *Match) ForceReset() GraceOutcome {
	m.m.Lock()
	defer m.m.Unlock()
	outcome := m.clearRosterLocked()
	m.resetStateLocked()
	m.matchEndHandled = false
	m.finalState = nil
	m.epoch++
	return outcome
}

func (m *Match) clearRosterLocked() GraceOutcome {
	outcome := GraceOutcome{
		ClosedClients:  make([]*client.Client, 0, len(m.players)),
		RemovedPlayers: make([]uuid.UUID, 0, len(m.players)),
	}
	for id, p := range m.players {
		outcome.RemovedPlayers = append(outcome.RemovedPlayers, id)
		if p.Client != nil {
			outcome.ClosedClients = append(outcome.ClosedClients, p.Client)
		}
	}
	m.players = make(map[uuid.UUID]*Player)
	return outcome
}
