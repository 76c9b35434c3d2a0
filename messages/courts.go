package messages

import "github.com/gobuffalo/nulls"

// MessageJoinCourt is used with MessageTypeJoinCourt.
type MessageJoinCourt struct {
	// CourtID is the id of the court to join.
	CourtID int `json:"court_id"`
	// Name is the display name to use for the player.
	Name string `json:"name"`
	// Side is the court side to play on. One of "left" and "right".
	Side string `json:"side"`
}

// MessageCourtJoined is used with MessageTypeCourtJoined.
type MessageCourtJoined struct {
	CourtID int `json:"court_id"`
	// PlayerID is the generated id for the joined player. It is needed for
	// MessageSetReady and MessageSetInput.
	PlayerID PlayerID `json:"player_id"`
	Side     string   `json:"side"`
	// VisualSeed is the cosmetic per-court seed. Passed through unchanged.
	VisualSeed int64 `json:"visual_seed"`
}

// MessageSpectateCourt is used with MessageTypeSpectateCourt.
type MessageSpectateCourt struct {
	CourtID int `json:"court_id"`
}

// MessageSpectating is used with MessageTypeSpectating.
type MessageSpectating struct {
	CourtID     int         `json:"court_id"`
	SpectatorID SpectatorID `json:"spectator_id"`
	VisualSeed  int64       `json:"visual_seed"`
}

// MessageStopSpectating is used with MessageTypeStopSpectating.
type MessageStopSpectating struct {
	CourtID     int         `json:"court_id"`
	SpectatorID SpectatorID `json:"spectator_id"`
}

// MessageSetReady is used with MessageTypeSetReady.
type MessageSetReady struct {
	CourtID  int      `json:"court_id"`
	PlayerID PlayerID `json:"player_id"`
}

// MessageSetInput is used with MessageTypeSetInput.
type MessageSetInput struct {
	CourtID  int      `json:"court_id"`
	PlayerID PlayerID `json:"player_id"`
	// Input is the discretized input state. One of "high", "medium", "low" and
	// "off".
	Input string `json:"input"`
}

// MessageGetCourts is used with MessageTypeGetCourts.
type MessageGetCourts struct {
}

// MessageResetCourt is used with MessageTypeResetCourt.
type MessageResetCourt struct {
	CourtID int `json:"court_id"`
}

// CourtState is the outward read-only representation of a court's match state.
// It is sent to everybody attached to the court every frame.
type CourtState struct {
	Status     string  `json:"status"`
	LeftScore  int     `json:"left_score"`
	RightScore int     `json:"right_score"`
	BallX      float64 `json:"ball_x"`
	BallY      float64 `json:"ball_y"`
	BallVX     float64 `json:"ball_vx"`
	BallVY     float64 `json:"ball_vy"`
	// LeftPaddleY is the vertical center of the left paddle.
	LeftPaddleY  float64 `json:"left_paddle_y"`
	RightPaddleY float64 `json:"right_paddle_y"`
	// LeftPlayer is the display name of the left player if present.
	LeftPlayer  nulls.String `json:"left_player"`
	RightPlayer nulls.String `json:"right_player"`
	LeftReady   bool         `json:"left_ready"`
	RightReady  bool         `json:"right_ready"`
	// Winner is the display name of the winner once the match finished.
	Winner nulls.String `json:"winner"`
	// IsWalkover describes whether the match was won because the opponent
	// disconnected mid-match.
	IsWalkover bool `json:"is_walkover"`
}

// MessageCourtState is used with MessageTypeCourtState.
type MessageCourtState struct {
	CourtID int        `json:"court_id"`
	State   CourtState `json:"state"`
}

// PlayerInfo describes a player for join, leave and ready notifications.
type PlayerInfo struct {
	PlayerID PlayerID `json:"player_id"`
	Name     string   `json:"name"`
	Side     string   `json:"side"`
	IsReady  bool     `json:"is_ready"`
}

// MessagePlayerUpdate is used with MessageTypePlayerJoined,
// MessageTypePlayerLeft and MessageTypePlayerReady.
type MessagePlayerUpdate struct {
	CourtID int        `json:"court_id"`
	Player  PlayerInfo `json:"player"`
}

// MatchResult is the final summary of a finished match.
type MatchResult struct {
	// Winner is the display name of the winning player. If the winning side's
	// player already left, a side placeholder is used.
	Winner      string       `json:"winner"`
	IsWalkover  bool         `json:"is_walkover"`
	LeftScore   int          `json:"left_score"`
	RightScore  int          `json:"right_score"`
	LeftPlayer  nulls.String `json:"left_player"`
	RightPlayer nulls.String `json:"right_player"`
}

// MessageMatchFinished is used with MessageTypeMatchFinished.
type MessageMatchFinished struct {
	CourtID int    `json:"court_id"`
	Winner  string `json:"winner"`
}

// MessageMatchResult is used with MessageTypeMatchResult.
type MessageMatchResult struct {
	CourtID int         `json:"court_id"`
	Result  MatchResult `json:"result"`
}

// CourtSummary is the lobby view of a single court.
type CourtSummary struct {
	CourtID        int          `json:"court_id"`
	Status         string       `json:"status"`
	LeftPlayer     nulls.String `json:"left_player"`
	RightPlayer    nulls.String `json:"right_player"`
	LeftReady      bool         `json:"left_ready"`
	RightReady     bool         `json:"right_ready"`
	SpectatorCount int          `json:"spectator_count"`
	VisualSeed     int64        `json:"visual_seed"`
	LeftScore      int          `json:"left_score"`
	RightScore     int          `json:"right_score"`
}

// MessageCourtSummaries is used with MessageTypeCourtSummaries.
type MessageCourtSummaries struct {
	Courts []CourtSummary `json:"courts"`
}
