// Package courts provides cross-match orchestration: it owns the fixed court
// pool, binds connections to matches, routes inbound actions, drives the
// periodic tick and manages the delayed post-match lifecycle.
package courts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/pitchpong/pitchpong-server/game"
	"github.com/pitchpong/pitchpong-server/logging"
	"github.com/pitchpong/pitchpong-server/messages"
	"github.com/pitchpong/pitchpong-server/scheduling"
	"go.uber.org/zap"
)

// Observer receives outward notifications. Implemented by the transport layer
// and passed in at wiring time. All methods are fire-and-forget: they must not
// block on delivery.
type Observer interface {
	// NotifyCourtState is called every frame with the current state snapshot of a
	// court.
	NotifyCourtState(recipients []*client.Client, courtID int, state messages.CourtState)
	// NotifyPlayerJoined is called when a player joined a court.
	NotifyPlayerJoined(recipients []*client.Client, courtID int, player messages.PlayerInfo)
	// NotifyPlayerLeft is called when a player left a court.
	NotifyPlayerLeft(recipients []*client.Client, courtID int, player messages.PlayerInfo)
	// NotifyPlayerReady is called when a player reported being ready.
	NotifyPlayerReady(recipients []*client.Client, courtID int, player messages.PlayerInfo)
	// NotifyMatchFinished is called exactly once per finished match with the final
	// result.
	NotifyMatchFinished(recipients []*client.Client, courtID int, result messages.MatchResult)
	// NotifyCourtSummaries is called with the lobby view whenever it changed.
	NotifyCourtSummaries(summaries []messages.CourtSummary)
	// CloseClients directs the transport layer to forcibly sever the given
	// connections.
	CloseClients(clients []*client.Client)
}

// Config is the configuration for an Orchestrator.
type Config struct {
	// CourtCount is the fixed number of courts in the pool.
	CourtCount int
	// TickRate is the simulation rate in frames per second.
	TickRate int
	// GracePeriod is the delay between a match finishing and the forced
	// clear/disconnect/reset.
	GracePeriod time.Duration
}

type role string

const (
	rolePlayer    role = "player"
	roleSpectator role = "spectator"
)

// assignment binds a connection to its court. Exactly one assignment exists per
// connection at any time.
type assignment struct {
	courtID int
	role    role
	// partyID is the player or spectator id on the court.
	partyID uuid.UUID
}

// Orchestrator owns the fixed court pool and the connection assignments.
// Construct it once at startup with NewOrchestrator and start it with
// Orchestrator.Run.
type Orchestrator struct {
	config   Config
	observer Observer
	// scheduler fires the grace-period transitions.
	scheduler *scheduling.Scheduler
	// courts is the fixed pool. Never mutated after construction, so courts are
	// addressed without any lock. Each Match serializes its own mutations.
	courts []*game.Match
	// m locks assignments.
	m sync.Mutex
	// assignments maps connection ids to their court binding.
	assignments map[uuid.UUID]assignment
}

// NewOrchestrator creates a new Orchestrator with the given config that reports
// to the given Observer. Run it with Orchestrator.Run.
func NewOrchestrator(config Config, observer Observer) *Orchestrator {
	o := &Orchestrator{
		config:      config,
		observer:    observer,
		courts:      make([]*game.Match, 0, config.CourtCount),
		assignments: make(map[uuid.UUID]assignment),
	}
	for id := 0; id < config.CourtCount; id++ {
		o.courts = append(o.courts, game.NewMatch(id))
	}
	o.scheduler = scheduling.NewScheduler(o.HandleGraceExpiry)
	return o
}

// Run starts the scheduler and the fixed-rate tick driver. It blocks until the
// given context is done.
func (o *Orchestrator) Run(ctx context.Context) {
	go o.scheduler.Run(ctx)
	ticker := time.NewTicker(time.Second / time.Duration(o.config.TickRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Tick()
		}
	}
}

// court returns the court with the given id.
func (o *Orchestrator) court(courtID int) (*game.Match, error) {
	if courtID < 0 || courtID >= len(o.courts) {
		return nil, errors.NewCourtNotFoundError(courtID)
	}
	return o.courts[courtID], nil
}

// Summaries returns the lobby view of all courts. Each court is read with its
// own lock; no single lock is held for the whole sweep.
func (o *Orchestrator) Summaries() []messages.CourtSummary {
	summaries := make([]messages.CourtSummary, 0, len(o.courts))
	for _, court := range o.courts {
		summaries = append(summaries, court.Summary())
	}
	return summaries
}

// CourtVisualSeed returns the cosmetic seed of the given court.
func (o *Orchestrator) CourtVisualSeed(courtID int) (int64, error) {
	court, err := o.court(courtID)
	if err != nil {
		return 0, err
	}
	return court.VisualSeed(), nil
}

// JoinCourt adds the given connection as player on the given court and side.
// The connection must not be assigned to any court yet.
func (o *Orchestrator) JoinCourt(c *client.Client, courtID int, name string, side game.Side) (game.Player, error) {
	court, err := o.court(courtID)
	if err != nil {
		return game.Player{}, err
	}
	// Reserve the assignment slot before mutating the court so a connection can
	// never hold two assignments.
	if err := o.reserveAssignment(c, courtID, rolePlayer); err != nil {
		return game.Player{}, err
	}
	player, err := court.Join(name, side, c)
	if err != nil {
		o.dropAssignment(c.ID)
		return game.Player{}, errors.Wrap(err, "join court", nil)
	}
	o.completeAssignment(c.ID, player.ID)
	logging.CourtsLogger.Info("player joined",
		zap.Int("court_id", courtID),
		zap.String("player_name", player.Name),
		zap.String("side", string(player.Side)))
	o.observer.NotifyPlayerJoined(court.Recipients(), courtID, playerInfo(player))
	o.observer.NotifyCourtSummaries(o.Summaries())
	return player, nil
}

// AddSpectator attaches the given connection as spectator to the given court
// and returns the generated spectator id.
func (o *Orchestrator) AddSpectator(c *client.Client, courtID int) (uuid.UUID, error) {
	court, err := o.court(courtID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if err := o.reserveAssignment(c, courtID, roleSpectator); err != nil {
		return uuid.UUID{}, err
	}
	spectatorID := court.AddSpectator(c)
	o.completeAssignment(c.ID, spectatorID)
	o.observer.NotifyCourtSummaries(o.Summaries())
	return spectatorID, nil
}

// RemoveSpectator detaches the spectator with the given id from the given
// court. Unknown ids are a no-op.
func (o *Orchestrator) RemoveSpectator(courtID int, spectatorID uuid.UUID) {
	court, err := o.court(courtID)
	if err != nil {
		return
	}
	court.RemoveSpectator(spectatorID)
	o.m.Lock()
	for clientID, a := range o.assignments {
		if a.role == roleSpectator && a.partyID == spectatorID {
			delete(o.assignments, clientID)
			break
		}
	}
	o.m.Unlock()
	o.observer.NotifyCourtSummaries(o.Summaries())
}

// SetReady marks the player with the given id on the given court as ready.
// Unknown courts or players are a no-op.
func (o *Orchestrator) SetReady(courtID int, playerID uuid.UUID) {
	court, err := o.court(courtID)
	if err != nil {
		return
	}
	outcome := court.SetReady(playerID)
	if !outcome.Known {
		return
	}
	o.observer.NotifyPlayerReady(court.Recipients(), courtID, playerInfo(outcome.Player))
	if outcome.Started {
		logging.CourtsLogger.Info("match started", zap.Int("court_id", courtID))
	}
	o.observer.NotifyCourtSummaries(o.Summaries())
}

// SetInput updates the discretized input state of the player with the given id
// on the given court. Unknown courts or players are a no-op.
func (o *Orchestrator) SetInput(courtID int, playerID uuid.UUID, state game.InputState) {
	court, err := o.court(courtID)
	if err != nil {
		return
	}
	court.SetInput(playerID, state)
}

// HandleDisconnect handles a closed connection. Unassigned connections are a
// no-op. A departing player may resolve the match by walkover.
func (o *Orchestrator) HandleDisconnect(c *client.Client) {
	o.m.Lock()
	a, ok := o.assignments[c.ID]
	if ok {
		delete(o.assignments, c.ID)
	}
	o.m.Unlock()
	if !ok {
		return
	}
	court, err := o.court(a.courtID)
	if err != nil {
		return
	}
	if a.role == roleSpectator {
		court.RemoveSpectator(a.partyID)
		o.observer.NotifyCourtSummaries(o.Summaries())
		return
	}
	outcome := court.Leave(a.partyID)
	if !outcome.Known {
		return
	}
	logging.CourtsLogger.Info("player left",
		zap.Int("court_id", a.courtID),
		zap.String("player_name", outcome.Player.Name),
		zap.Bool("walkover", outcome.WalkoverFinish))
	o.observer.NotifyPlayerLeft(court.Recipients(), a.courtID, playerInfo(outcome.Player))
	if outcome.WalkoverFinish {
		o.finishMatch(court)
	}
	o.observer.NotifyCourtSummaries(o.Summaries())
}

// Tick advances all courts by one frame and broadcasts the resulting state
// snapshots. Invoked by the fixed-rate driver in Run.
func (o *Orchestrator) Tick() {
	summariesChanged := false
	for _, court := range o.courts {
		outcome := court.Tick()
		if outcome.Finished {
			o.finishMatch(court)
			summariesChanged = true
		}
		// The snapshot is taken after match-end handling so no stale mid-game state
		// follows a match-end broadcast.
		o.observer.NotifyCourtState(court.Recipients(), court.ID(), court.Snapshot())
	}
	if summariesChanged {
		o.observer.NotifyCourtSummaries(o.Summaries())
	}
}

// ResetCourt unconditionally resets the given court, severing any attached
// player connections.
func (o *Orchestrator) ResetCourt(courtID int) error {
	court, err := o.court(courtID)
	if err != nil {
		return err
	}
	outcome := court.ForceReset()
	o.cleanupAfterReset(courtID, outcome)
	logging.CourtsLogger.Info("court reset", zap.Int("court_id", courtID))
	return nil
}

// finishMatch performs the idempotent end-of-match handling: broadcast the
// final result and schedule the grace-period transition. The Match's own
// matchEndHandled guard makes a second call a no-op.
func (o *Orchestrator) finishMatch(court *game.Match) {
	outcome, ok := court.BeginMatchEnd()
	if !ok {
		return
	}
	logging.CourtsLogger.Info("match finished",
		zap.Int("court_id", court.ID()),
		zap.String("winner", outcome.Result.Winner),
		zap.Bool("walkover", outcome.Result.IsWalkover))
	o.observer.NotifyMatchFinished(outcome.Recipients, court.ID(), outcome.Result)
	o.scheduler.ScheduleIn(o.config.GracePeriod, court.ID(), outcome.Epoch)
}

// HandleGraceExpiry handles a due grace-period entry. The Match re-validates
// the entry's epoch under its own lock, so a stale or superseded timer is a
// safe no-op.
func (o *Orchestrator) HandleGraceExpiry(entry scheduling.Entry) {
	court, err := o.court(entry.CourtID)
	if err != nil {
		return
	}
	outcome, ok := court.FinishGracePeriod(entry.Epoch)
	if !ok {
		logging.CourtsLogger.Debug("stale grace-period timer",
			zap.Int("court_id", entry.CourtID),
			zap.Uint64("epoch", entry.Epoch))
		return
	}
	o.cleanupAfterReset(entry.CourtID, outcome)
	logging.CourtsLogger.Info("court returned to waiting", zap.Int("court_id", entry.CourtID))
}

// cleanupAfterReset severs leftover player connections and clears their
// assignments, then broadcasts the updated lobby view.
func (o *Orchestrator) cleanupAfterReset(courtID int, outcome game.GraceOutcome) {
	if len(outcome.ClosedClients) > 0 {
		o.observer.CloseClients(outcome.ClosedClients)
	}
	o.m.Lock()
	for clientID, a := range o.assignments {
		if a.courtID != courtID || a.role != rolePlayer {
			continue
		}
		for _, removed := range outcome.RemovedPlayers {
			if a.partyID == removed {
				delete(o.assignments, clientID)
				break
			}
		}
	}
	o.m.Unlock()
	o.observer.NotifyCourtSummaries(o.Summaries())
}

// reserveAssignment inserts an assignment slot for the given connection. It
// fails when the connection is already assigned to a court.
func (o *Orchestrator) reserveAssignment(c *client.Client, courtID int, r role) error {
	o.m.Lock()
	defer o.m.Unlock()
	if existing, ok := o.assignments[c.ID]; ok {
		return errors.NewAlreadyJoinedError("connection already assigned to a court",
			errors.Details{
				"client_id":         c.ID.String(),
				"assigned_court_id": existing.courtID,
			})
	}
	o.assignments[c.ID] = assignment{courtID: courtID, role: r}
	return nil
}

// completeAssignment fills in the party id of a reserved assignment.
func (o *Orchestrator) completeAssignment(clientID uuid.UUID, partyID uuid.UUID) {
	o.m.Lock()
	defer o.m.Unlock()
	a := o.assignments[clientID]
	a.partyID = partyID
	o.assignments[clientID] = a
}

// dropAssignment removes the assignment of the given connection.
func (o *Orchestrator) dropAssignment(clientID uuid.UUID) {
	o.m.Lock()
	defer o.m.Unlock()
	delete(o.assignments, clientID)
}

func playerInfo(p game.Player) messages.PlayerInfo {
	return messages.PlayerInfo{
		PlayerID: messages.PlayerID(p.ID.String()),
		Name:     p.Name,
		Side:     string(p.Side),
		IsReady:  p.IsReady,
	}
}
