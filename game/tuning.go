package game

// Court dimensions and simulation tuning. All values are per frame at the
// fixed tick rate.
const (
	// CourtWidth is the horizontal extent of the logical court space.
	CourtWidth = 800.0
	// CourtHeight is the vertical extent of the logical court space.
	CourtHeight = 500.0
	// BallRadius is the ball radius used for wall and paddle collision.
	BallRadius = 8.0
	// PaddleWidth is the horizontal extent of a paddle.
	PaddleWidth = 12.0
	// PaddleHeight is the vertical extent of a paddle.
	PaddleHeight = 80.0
	// PaddleOffsetX is the distance between a court edge and its paddle.
	PaddleOffsetX = 24.0
	// PaddleSpeed is the paddle movement per frame.
	PaddleSpeed = 6.0
	// ServeSpeedX is the horizontal ball speed right after a serve.
	ServeSpeedX = 5.0
	// ServeMaxVY bounds the randomized vertical speed of a serve.
	ServeMaxVY = 2.5
	// BallSpeedUp is the horizontal speed amplification on every paddle hit.
	BallSpeedUp = 1.05
	// BounceMaxVY is the vertical speed for a hit at the outermost paddle edge.
	// The vertical speed scales linearly with the hit offset from paddle center.
	BounceMaxVY = 8.0
	// MaxBallSpeed bounds |vx| and |vy| independently.
	MaxBallSpeed = 12.0
	// WinningScore is the score that ends the match.
	WinningScore = 11
)
