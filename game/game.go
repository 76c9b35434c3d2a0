// Package game provides the per-court match simulation. A Match owns its
// complete state and knows nothing about other matches or the transport layer.
package game

import (
	"github.com/google/uuid"
	"github.com/pitchpong/pitchpong-server/client"
)

// Status is the fixed lifecycle state of a Match.
type Status string

const (
	// StatusWaiting is used while the court has fewer than two players. It is also
	// the state a Match is reset into.
	StatusWaiting Status = "waiting"
	// StatusReadyCheck is used when two players are present but not everybody
	// reported being ready.
	StatusReadyCheck Status = "ready-check"
	// StatusPlaying is used while the simulation is active.
	StatusPlaying Status = "playing"
	// StatusPaused is reserved in the data model. The current lifecycle never
	// transitions into it.
	StatusPaused Status = "paused"
	// StatusFinished is terminal until the post-match reset fires.
	StatusFinished Status = "finished"
)

// Side is the court side a player plays on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ValidSide checks whether the given string names a known Side.
func ValidSide(s string) bool {
	return Side(s) == SideLeft || Side(s) == SideRight
}

// InputState is the discretized control signal driving a player's paddle. It is
// sourced externally and opaque to the simulation apart from the implied paddle
// direction.
type InputState string

const (
	// InputHigh moves the paddle up.
	InputHigh InputState = "high"
	// InputMedium holds the paddle in place.
	InputMedium InputState = "medium"
	// InputLow moves the paddle down.
	InputLow InputState = "low"
	// InputOff holds the paddle in place. Used when no signal is detected.
	InputOff InputState = "off"
)

// ValidInputState checks whether the given string names a known InputState.
func ValidInputState(s string) bool {
	switch InputState(s) {
	case InputHigh, InputMedium, InputLow, InputOff:
		return true
	}
	return false
}

// Ball is the ball position and velocity in court coordinates.
type Ball struct {
	X  float64
	Y  float64
	VX float64
	VY float64
}

// Player is a participant on a court side.
type Player struct {
	// ID is the generated id. Unique for process lifetime.
	ID uuid.UUID
	// Name is the display name.
	Name string
	// Side is the court side the player plays on.
	Side Side
	// Client is the attached connection handle. Nil after disconnect.
	Client *client.Client
	// IsReady describes whether the player reported being ready for match start.
	IsReady bool
	// Input is the current discretized input state.
	Input InputState
	// PaddleY is the vertical center of the player's paddle.
	PaddleY float64
	// Finished is set once the match outcome has been committed. It distinguishes
	// an orderly post-game disconnect from an in-match walkover.
	Finished bool
}
