package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/google/uuid"
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/pitchpong/pitchpong-server/messages"
)

// Match is one independent two-player contest instance with its own state,
// roster and spectators. All exported methods serialize on the per-match mutex
// so concurrent mutations and the periodic tick never interleave.
type Match struct {
	// id is the court id. Stable for process lifetime.
	id int
	// visualSeed is the cosmetic per-court seed. Passed through unchanged.
	visualSeed int64
	// m locks everything below.
	m sync.Mutex
	// rng is the per-match source for serve randomization.
	rng        *rand.Rand
	status     Status
	players    map[uuid.UUID]*Player
	spectators map[uuid.UUID]*client.Client
	leftScore  int
	rightScore int
	ball       Ball
	winner     nulls.String
	isWalkover bool
	// matchEndHandled guards the end-of-match handling so a near-simultaneous
	// walkover and score-finish cannot double-fire.
	matchEndHandled bool
	// epoch is incremented on every reset. A grace-period timer captures the epoch
	// at schedule time and is a no-op when it no longer matches.
	epoch uint64
	// finalState is the frozen snapshot served to spectators between match end and
	// the next player join.
	finalState *messages.CourtState
}

// NewMatch creates a new Match in StatusWaiting with the given court id.
func NewMatch(id int) *Match {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	return &Match{
		id:         id,
		visualSeed: rng.Int63(),
		rng:        rng,
		status:     StatusWaiting,
		players:    make(map[uuid.UUID]*Player),
		spectators: make(map[uuid.UUID]*client.Client),
		ball:       Ball{X: CourtWidth / 2, Y: CourtHeight / 2},
	}
}

// ID returns the court id.
func (m *Match) ID() int {
	return m.id
}

// VisualSeed returns the cosmetic per-court seed.
func (m *Match) VisualSeed() int64 {
	return m.visualSeed
}

// Status returns the current match status.
func (m *Match) Status() Status {
	m.m.Lock()
	defer m.m.Unlock()
	return m.status
}

// Epoch returns the current reset epoch.
func (m *Match) Epoch() uint64 {
	m.m.Lock()
	defer m.m.Unlock()
	return m.epoch
}

// Join adds a player with the given display name on the given side. It fails
// with kind errors.KindMatchClosed while the court awaits its post-match reset
// and with errors.KindSideTaken when the side is occupied. On success a copy of
// the created Player is returned.
func (m *Match) Join(name string, side Side, c *client.Client) (Player, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.status == StatusFinished {
		return Player{}, errors.NewMatchClosedError(m.id)
	}
	if m.playerOnSide(side) != nil {
		return Player{}, errors.NewSideTakenError(m.id, string(side))
	}
	p := &Player{
		ID:      uuid.New(),
		Name:    name,
		Side:    side,
		Client:  c,
		Input:   InputOff,
		PaddleY: CourtHeight / 2,
	}
	m.players[p.ID] = p
	// New players end the frozen post-match view for spectators.
	m.finalState = nil
	if len(m.players) == 2 && m.status == StatusWaiting {
		m.status = StatusReadyCheck
	}
	return *p, nil
}

// ReadyOutcome is the result of Match.SetReady.
type ReadyOutcome struct {
	// Known describes whether the player id was known. Unknown ids are a no-op.
	Known bool
	// Player is a copy of the player after the update.
	Player Player
	// Started describes whether the match just transitioned to StatusPlaying.
	Started bool
}

// SetReady marks the player with the given id as ready. When both players are
// present and ready, the match transitions to StatusPlaying and the ball is
// served toward a random side.
func (m *Match) SetReady(playerID uuid.UUID) ReadyOutcome {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return ReadyOutcome{}
	}
	p.IsReady = true
	outcome := ReadyOutcome{Known: true, Player: *p}
	if m.status != StatusReadyCheck || len(m.players) != 2 {
		return outcome
	}
	for _, other := range m.players {
		if !other.IsReady {
			return outcome
		}
	}
	m.status = StatusPlaying
	dir := 1.0
	if m.rng.Intn(2) == 0 {
		dir = -1.0
	}
	m.serveLocked(dir)
	outcome.Started = true
	return outcome
}

// SetInput updates the discretized input state of the player with the given id.
// Unknown ids are a no-op.
func (m *Match) SetInput(playerID uuid.UUID, state InputState) {
	m.m.Lock()
	defer m.m.Unlock()
	if p, ok := m.players[playerID]; ok {
		p.Input = state
	}
}

// AddSpectator attaches the given connection as spectator and returns its
// generated id.
func (m *Match) AddSpectator(c *client.Client) uuid.UUID {
	m.m.Lock()
	defer m.m.Unlock()
	id := uuid.New()
	m.spectators[id] = c
	return id
}

// RemoveSpectator detaches the spectator with the given id. Unknown ids are a
// no-op.
func (m *Match) RemoveSpectator(id uuid.UUID) {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.spectators, id)
}

// LeaveOutcome is the result of Match.Leave.
type LeaveOutcome struct {
	// Known describes whether the player id was known. Unknown ids are a no-op.
	Known bool
	// Player is a copy of the removed player.
	Player Player
	// WalkoverFinish describes whether the match just finished because the
	// remaining player wins by walkover.
	WalkoverFinish bool
}

// Leave removes the player with the given id from the roster. A player already
// marked finished is removed without side effects. Otherwise, if the match was
// playing and a player remains, the remaining player wins by walkover; if
// nobody remains, the court becomes an empty match again.
func (m *Match) Leave(playerID uuid.UUID) LeaveOutcome {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return LeaveOutcome{}
	}
	delete(m.players, playerID)
	outcome := LeaveOutcome{Known: true, Player: *p}
	if p.Finished {
		// Orderly post-game disconnect.
		return outcome
	}
	wasPlaying := m.status == StatusPlaying
	if wasPlaying {
		if remaining := m.anyPlayer(); remaining != nil {
			m.status = StatusFinished
			m.winner = nulls.NewString(remaining.Name)
			m.isWalkover = true
			outcome.WalkoverFinish = true
		} else {
			m.resetStateLocked()
		}
		return outcome
	}
	if m.status == StatusReadyCheck {
		m.status = StatusWaiting
		for _, other := range m.players {
			other.IsReady = false
		}
	}
	return outcome
}

// TickOutcome is the result of Match.Tick.
type TickOutcome struct {
	// Finished describes whether the match just transitioned to StatusFinished.
	Finished bool
}

// Tick advances the simulation by one frame. It is a no-op unless the match is
// in StatusPlaying.
func (m *Match) Tick() TickOutcome {
	m.m.Lock()
	defer m.m.Unlock()
	if m.status != StatusPlaying {
		return TickOutcome{}
	}
	// Paddle update.
	for _, p := range m.players {
		m.movePaddleLocked(p)
	}
	// Ball integration. Simple Euler step without substepping.
	m.ball.X += m.ball.VX
	m.ball.Y += m.ball.VY
	m.reflectWallsLocked()
	m.reflectPaddlesLocked()
	m.clampBallSpeedLocked()
	return m.scoreLocked()
}

// movePaddleLocked moves the paddle of the given player in the direction
// implied by its input state and clamps it to stay fully on the court.
func (m *Match) movePaddleLocked(p *Player) {
	switch p.Input {
	case InputHigh:
		p.PaddleY -= PaddleSpeed
	case InputLow:
		p.PaddleY += PaddleSpeed
	}
	if p.PaddleY < PaddleHeight/2 {
		p.PaddleY = PaddleHeight / 2
	} else if p.PaddleY > CourtHeight-PaddleHeight/2 {
		p.PaddleY = CourtHeight - PaddleHeight/2
	}
}

// reflectWallsLocked reflects the ball off the top and bottom court edges and
// clamps the position back inside bounds.
func (m *Match) reflectWallsLocked() {
	if m.ball.Y-BallRadius < 0 {
		m.ball.Y = BallRadius
		m.ball.VY = -m.ball.VY
	} else if m.ball.Y+BallRadius > CourtHeight {
		m.ball.Y = CourtHeight - BallRadius
		m.ball.VY = -m.ball.VY
	}
}

// reflectPaddlesLocked reflects the ball off a paddle when its leading edge
// overlaps the paddle rectangle while moving toward it. The horizontal speed is
// amplified on every hit and the vertical speed derives from the hit offset
// relative to paddle center. The ball is clamped just outside the paddle to
// avoid re-collision in the same frame.
func (m *Match) reflectPaddlesLocked() {
	if m.ball.VX < 0 {
		p := m.playerOnSide(SideLeft)
		if p == nil {
			return
		}
		face := PaddleOffsetX + PaddleWidth
		if m.ball.X-BallRadius <= face && m.ball.X+BallRadius >= PaddleOffsetX &&
			m.ball.Y >= p.PaddleY-PaddleHeight/2-BallRadius && m.ball.Y <= p.PaddleY+PaddleHeight/2+BallRadius {
			m.ball.VX = -m.ball.VX * BallSpeedUp
			m.ball.VY = (m.ball.Y - p.PaddleY) / (PaddleHeight / 2) * BounceMaxVY
			m.ball.X = face + BallRadius
		}
		return
	}
	if m.ball.VX > 0 {
		p := m.playerOnSide(SideRight)
		if p == nil {
			return
		}
		face := CourtWidth - PaddleOffsetX - PaddleWidth
		if m.ball.X+BallRadius >= face && m.ball.X-BallRadius <= CourtWidth-PaddleOffsetX &&
			m.ball.Y >= p.PaddleY-PaddleHeight/2-BallRadius && m.ball.Y <= p.PaddleY+PaddleHeight/2+BallRadius {
			m.ball.VX = -m.ball.VX * BallSpeedUp
			m.ball.VY = (m.ball.Y - p.PaddleY) / (PaddleHeight / 2) * BounceMaxVY
			m.ball.X = face - BallRadius
		}
	}
}

// clampBallSpeedLocked clamps |vx| and |vy| independently to MaxBallSpeed.
func (m *Match) clampBallSpeedLocked() {
	if m.ball.VX > MaxBallSpeed {
		m.ball.VX = MaxBallSpeed
	} else if m.ball.VX < -MaxBallSpeed {
		m.ball.VX = -MaxBallSpeed
	}
	if m.ball.VY > MaxBallSpeed {
		m.ball.VY = MaxBallSpeed
	} else if m.ball.VY < -MaxBallSpeed {
		m.ball.VY = -MaxBallSpeed
	}
}

// scoreLocked checks whether the ball crossed the far left or right boundary,
// increments the opposing side's score and either finishes the match or
// re-serves the ball toward the side that conceded.
func (m *Match) scoreLocked() TickOutcome {
	var scoringSide Side
	var serveDir float64
	if m.ball.X < 0 {
		scoringSide = SideRight
		serveDir = -1
		m.rightScore++
	} else if m.ball.X > CourtWidth {
		scoringSide = SideLeft
		serveDir = 1
		m.leftScore++
	} else {
		return TickOutcome{}
	}
	score := m.leftScore
	if scoringSide == SideRight {
		score = m.rightScore
	}
	if score >= WinningScore {
		m.status = StatusFinished
		m.isWalkover = false
		if p := m.playerOnSide(scoringSide); p != nil {
			m.winner = nulls.NewString(p.Name)
		} else {
			m.winner = nulls.NewString(string(scoringSide))
		}
		return TickOutcome{Finished: true}
	}
	m.serveLocked(serveDir)
	return TickOutcome{}
}

// serveLocked resets the ball to court center with the horizontal direction
// given by dir and a randomized vertical speed.
func (m *Match) serveLocked(dir float64) {
	m.ball = Ball{
		X:  CourtWidth / 2,
		Y:  CourtHeight / 2,
		VX: dir * ServeSpeedX,
		VY: (m.rng.Float64()*2 - 1) * ServeMaxVY,
	}
}

// playerOnSide returns the player on the given side or nil.
func (m *Match) playerOnSide(side Side) *Player {
	for _, p := range m.players {
		if p.Side == side {
			return p
		}
	}
	return nil
}

// anyPlayer returns some player from the roster or nil.
func (m *Match) anyPlayer() *Player {
	for _, p := range m.players {
		return p
	}
	return nil
}

// resetStateLocked resets the game state to an empty waiting match. The roster
// and spectators are not touched.
func (m *Match) resetStateLocked() {
	m.status = StatusWaiting
	m.leftScore = 0
	m.rightScore = 0
	m.ball = Ball{X: CourtWidth / 2, Y: CourtHeight / 2}
	m.winner = nulls.String{}
	m.isWalkover = false
}
