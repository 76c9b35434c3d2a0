package game

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/stretchr/testify/suite"
)

func newTestClient() *client.Client {
	return &client.Client{
		ID:      uuid.New(),
		Send:    make(chan []byte, 16),
		Receive: make(chan []byte, 16),
	}
}

type MatchLifecycleTestSuite struct {
	suite.Suite
	match *Match
}

func (suite *MatchLifecycleTestSuite) SetupTest() {
	suite.match = NewMatch(0)
}

func (suite *MatchLifecycleTestSuite) TestJoin() {
	p, err := suite.match.Join("ann", SideLeft, newTestClient())
	suite.Require().Nilf(err, "join should not fail but got: %s", errors.Prettify(err))
	suite.Assert().Equal("ann", p.Name, "should keep display name")
	suite.Assert().Equal(SideLeft, p.Side, "should keep side")
	suite.Assert().Equal(StatusWaiting, suite.match.Status(), "single player should not start ready-check")
}

func (suite *MatchLifecycleTestSuite) TestJoinSideTaken() {
	_, err := suite.match.Join("ann", SideLeft, newTestClient())
	suite.Require().Nil(err, "first join should not fail")
	_, err = suite.match.Join("ben", SideLeft, newTestClient())
	suite.Require().NotNil(err, "join on taken side should fail")
	suite.Assert().True(errors.Is(err, errors.KindSideTaken), "should fail with side taken")
}

func (suite *MatchLifecycleTestSuite) TestJoinWhileClosed() {
	suite.match.status = StatusFinished
	_, err := suite.match.Join("ann", SideLeft, newTestClient())
	suite.Require().NotNil(err, "join on closed court should fail")
	suite.Assert().True(errors.Is(err, errors.KindMatchClosed), "should fail with match closed")
}

func (suite *MatchLifecycleTestSuite) TestReadyCheckOnSecondJoin() {
	_, err := suite.match.Join("ann", SideLeft, newTestClient())
	suite.Require().Nil(err, "first join should not fail")
	_, err = suite.match.Join("ben", SideRight, newTestClient())
	suite.Require().Nil(err, "second join should not fail")
	suite.Assert().Equal(StatusReadyCheck, suite.match.Status(), "full court should enter ready-check")
}

func (suite *MatchLifecycleTestSuite) TestStartOnBothReady() {
	ann, _ := suite.match.Join("ann", SideLeft, newTestClient())
	ben, _ := suite.match.Join("ben", SideRight, newTestClient())
	outcome := suite.match.SetReady(ann.ID)
	suite.Require().True(outcome.Known, "player should be known")
	suite.Assert().False(outcome.Started, "match should not start with one ready player")
	suite.Assert().Equal(StatusReadyCheck, suite.match.Status(), "should still be in ready-check")
	outcome = suite.match.SetReady(ben.ID)
	suite.Require().True(outcome.Known, "player should be known")
	suite.Assert().True(outcome.Started, "match should start once both are ready")
	suite.Assert().Equal(StatusPlaying, suite.match.Status(), "should be playing")
	suite.Assert().InDelta(ServeSpeedX, math.Abs(suite.match.ball.VX), 0.001,
		"serve should move the ball horizontally")
	suite.Assert().LessOrEqual(math.Abs(suite.match.ball.VY), ServeMaxVY,
		"serve vertical speed should stay in bounds")
}

func (suite *MatchLifecycleTestSuite) TestSetReadyUnknownPlayer() {
	outcome := suite.match.SetReady(newTestClient().ID)
	suite.Assert().False(outcome.Known, "unknown player should be a no-op")
}

func (suite *MatchLifecycleTestSuite) TestLeaveDuringReadyCheck() {
	ann, _ := suite.match.Join("ann", SideLeft, newTestClient())
	ben, _ := suite.match.Join("ben", SideRight, newTestClient())
	suite.match.SetReady(ben.ID)
	outcome := suite.match.Leave(ann.ID)
	suite.Require().True(outcome.Known, "player should be known")
	suite.Assert().False(outcome.WalkoverFinish, "leave before start should not finish the match")
	suite.Assert().Equal(StatusWaiting, suite.match.Status(), "should return to waiting")
	suite.Assert().False(suite.match.players[ben.ID].IsReady, "remaining player should be unready again")
}

func (suite *MatchLifecycleTestSuite) TestWalkoverOnLeaveWhilePlaying() {
	ann, _ := suite.match.Join("ann", SideLeft, newTestClient())
	ben, _ := suite.match.Join("ben", SideRight, newTestClient())
	suite.match.SetReady(ann.ID)
	suite.match.SetReady(ben.ID)
	outcome := suite.match.Leave(ann.ID)
	suite.Require().True(outcome.Known, "player should be known")
	suite.Assert().True(outcome.WalkoverFinish, "leave mid-match should finish by walkover")
	suite.Assert().Equal(StatusFinished, suite.match.Status(), "should be finished")
	suite.Assert().Equal("ben", suite.match.winner.String, "remaining player should win")
	suite.Assert().True(suite.match.isWalkover, "should be marked as walkover")
}

func (suite *MatchLifecycleTestSuite) TestLeaveLastPlayerWhilePlaying() {
	ann, _ := suite.match.Join("ann", SideLeft, newTestClient())
	suite.match.status = StatusPlaying
	outcome := suite.match.Leave(ann.ID)
	suite.Require().True(outcome.Known, "player should be known")
	suite.Assert().False(outcome.WalkoverFinish, "empty court cannot finish by walkover")
	suite.Assert().Equal(StatusWaiting, suite.match.Status(), "empty court should return to waiting")
}

func (suite *MatchLifecycleTestSuite) TestOrderlyLeaveAfterMatchEnd() {
	ann, _ := suite.match.Join("ann", SideLeft, newTestClient())
	ben, _ := suite.match.Join("ben", SideRight, newTestClient())
	suite.match.SetReady(ann.ID)
	suite.match.SetReady(ben.ID)
	suite.match.Leave(ann.ID)
	_, ok := suite.match.BeginMatchEnd()
	suite.Require().True(ok, "match end should be committed")
	outcome := suite.match.Leave(ben.ID)
	suite.Require().True(outcome.Known, "player should be known")
	suite.Assert().False(outcome.WalkoverFinish, "finished player leaving must have no side effects")
	suite.Assert().Equal(StatusFinished, suite.match.Status(), "status should stay finished until reset")
}

func TestMatchLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(MatchLifecycleTestSuite))
}

type MatchEndTestSuite struct {
	suite.Suite
	match *Match
	ann   Player
	ben   Player
}

func (suite *MatchEndTestSuite) SetupTest() {
	suite.match = NewMatch(0)
	suite.ann, _ = suite.match.Join("ann", SideLeft, newTestClient())
	suite.ben, _ = suite.match.Join("ben", SideRight, newTestClient())
	suite.match.SetReady(suite.ann.ID)
	suite.match.SetReady(suite.ben.ID)
	// Resolve by walkover so the end handling can be exercised.
	suite.match.Leave(suite.ann.ID)
}

func (suite *MatchEndTestSuite) TestBeginMatchEndOnce() {
	outcome, ok := suite.match.BeginMatchEnd()
	suite.Require().True(ok, "first commit should succeed")
	suite.Assert().Equal("ben", outcome.Result.Winner, "winner should be carried into the result")
	suite.Assert().True(outcome.Result.IsWalkover, "walkover flag should be carried into the result")
	_, ok = suite.match.BeginMatchEnd()
	suite.Assert().False(ok, "second commit must be a no-op")
}

func (suite *MatchEndTestSuite) TestBeginMatchEndRequiresFinished() {
	m := NewMatch(1)
	_, ok := m.BeginMatchEnd()
	suite.Assert().False(ok, "unfinished match must not commit an end")
}

func (suite *MatchEndTestSuite) TestFinishGracePeriod() {
	outcome, ok := suite.match.BeginMatchEnd()
	suite.Require().True(ok, "commit should succeed")
	graceOutcome, ok := suite.match.FinishGracePeriod(outcome.Epoch)
	suite.Require().True(ok, "grace period with matching epoch should reset")
	suite.Assert().Len(graceOutcome.RemovedPlayers, 1, "remaining roster should be cleared")
	suite.Assert().Len(graceOutcome.ClosedClients, 1, "attached player connections should be severed")
	suite.Assert().Equal(StatusWaiting, suite.match.Status(), "should return to waiting")
	suite.Assert().Empty(suite.match.players, "roster should be empty")
	suite.Assert().Equal(outcome.Epoch+1, suite.match.Epoch(), "epoch should advance on reset")
	suite.Assert().Zero(suite.match.leftScore, "scores should be cleared")
	suite.Assert().Zero(suite.match.rightScore, "scores should be cleared")
}

func (suite *MatchEndTestSuite) TestFinishGracePeriodStaleEpoch() {
	outcome, ok := suite.match.BeginMatchEnd()
	suite.Require().True(ok, "commit should succeed")
	_, ok = suite.match.FinishGracePeriod(outcome.Epoch + 1)
	suite.Assert().False(ok, "stale epoch must be a no-op")
	suite.Assert().Equal(StatusFinished, suite.match.Status(), "status must not change on stale timer")
}

func (suite *MatchEndTestSuite) TestFinishGracePeriodWithoutCommit() {
	m := NewMatch(1)
	_, ok := m.FinishGracePeriod(m.Epoch())
	suite.Assert().False(ok, "timer without committed end must be a no-op")
}

func (suite *MatchEndTestSuite) TestFrozenSnapshotSurvivesReset() {
	outcome, _ := suite.match.BeginMatchEnd()
	_, ok := suite.match.FinishGracePeriod(outcome.Epoch)
	suite.Require().True(ok, "grace period should reset")
	state := suite.match.Snapshot()
	suite.Assert().Equal(string(StatusFinished), state.Status,
		"spectators should keep viewing the final state after the reset")
	suite.Assert().Equal("ben", state.Winner.String, "final winner should stay visible")
}

func (suite *MatchEndTestSuite) TestFrozenSnapshotEndsOnJoin() {
	outcome, _ := suite.match.BeginMatchEnd()
	_, ok := suite.match.FinishGracePeriod(outcome.Epoch)
	suite.Require().True(ok, "grace period should reset")
	_, err := suite.match.Join("cleo", SideLeft, newTestClient())
	suite.Require().Nilf(err, "join after reset should not fail but got: %s", errors.Prettify(err))
	state := suite.match.Snapshot()
	suite.Assert().Equal(string(StatusWaiting), state.Status, "new player should end the frozen view")
}

func (suite *MatchEndTestSuite) TestForceReset() {
	epochBefore := suite.match.Epoch()
	outcome := suite.match.ForceReset()
	suite.Assert().Len(outcome.RemovedPlayers, 1, "roster should be cleared")
	suite.Assert().Equal(StatusWaiting, suite.match.Status(), "should return to waiting")
	suite.Assert().Equal(epochBefore+1, suite.match.Epoch(), "epoch should advance so pending timers expire")
	state := suite.match.Snapshot()
	suite.Assert().Equal(string(StatusWaiting), state.Status, "force reset should drop the frozen view")
}

func TestMatchEndTestSuite(t *testing.T) {
	suite.Run(t, new(MatchEndTestSuite))
}

type MatchSimulationTestSuite struct {
	suite.Suite
	match *Match
	ann   Player
	ben   Player
}

func (suite *MatchSimulationTestSuite) SetupTest() {
	suite.match = NewMatch(0)
	suite.ann, _ = suite.match.Join("ann", SideLeft, newTestClient())
	suite.ben, _ = suite.match.Join("ben", SideRight, newTestClient())
	suite.match.SetReady(suite.ann.ID)
	suite.match.SetReady(suite.ben.ID)
	// Park the ball so each test sets up its own situation.
	suite.match.ball = Ball{X: CourtWidth / 2, Y: CourtHeight / 2}
}

func (suite *MatchSimulationTestSuite) TestTickOnlyWhilePlaying() {
	m := NewMatch(1)
	m.ball.VX = 5
	outcome := m.Tick()
	suite.Assert().False(outcome.Finished, "waiting match should not finish")
	suite.Assert().InDelta(CourtWidth/2, m.ball.X, 0.001, "waiting match should not move the ball")
}

func (suite *MatchSimulationTestSuite) TestPaddleMovesAndClamps() {
	suite.match.SetInput(suite.ann.ID, InputHigh)
	for i := 0; i < 100; i++ {
		suite.match.Tick()
	}
	suite.Assert().InDelta(PaddleHeight/2, suite.match.players[suite.ann.ID].PaddleY, 0.001,
		"paddle should stop at the top edge")
	suite.match.SetInput(suite.ann.ID, InputLow)
	for i := 0; i < 200; i++ {
		suite.match.Tick()
	}
	suite.Assert().InDelta(CourtHeight-PaddleHeight/2, suite.match.players[suite.ann.ID].PaddleY, 0.001,
		"paddle should stop at the bottom edge")
}

func (suite *MatchSimulationTestSuite) TestNeutralInputHoldsPaddle() {
	suite.match.SetInput(suite.ann.ID, InputMedium)
	suite.match.SetInput(suite.ben.ID, InputOff)
	suite.match.Tick()
	suite.Assert().InDelta(CourtHeight/2, suite.match.players[suite.ann.ID].PaddleY, 0.001,
		"medium input should hold the paddle")
	suite.Assert().InDelta(CourtHeight/2, suite.match.players[suite.ben.ID].PaddleY, 0.001,
		"off input should hold the paddle")
}

func (suite *MatchSimulationTestSuite) TestWallReflection() {
	suite.match.ball = Ball{X: CourtWidth / 2, Y: BallRadius + 1, VX: 0, VY: -4}
	suite.match.Tick()
	suite.Assert().InDelta(BallRadius, suite.match.ball.Y, 0.001, "ball should be clamped to the top wall")
	suite.Assert().InDelta(4, suite.match.ball.VY, 0.001, "vertical speed should be reflected")
}

func (suite *MatchSimulationTestSuite) TestPaddleReflectionSpeedsUp() {
	face := PaddleOffsetX + PaddleWidth
	suite.match.ball = Ball{X: face + BallRadius + 2, Y: CourtHeight / 2, VX: -4, VY: 0}
	suite.match.Tick()
	suite.Assert().InDelta(4*BallSpeedUp, suite.match.ball.VX, 0.001,
		"horizontal speed should be reflected and amplified")
	suite.Assert().InDelta(face+BallRadius, suite.match.ball.X, 0.001,
		"ball should be clamped just outside the paddle")
	suite.Assert().InDelta(0, suite.match.ball.VY, 0.001,
		"center hit should not add vertical speed")
}

func (suite *MatchSimulationTestSuite) TestPaddleReflectionAddsSpin() {
	p := suite.match.players[suite.ann.ID]
	face := PaddleOffsetX + PaddleWidth
	suite.match.ball = Ball{X: face + BallRadius + 2, Y: p.PaddleY + PaddleHeight/4, VX: -4, VY: 0}
	suite.match.Tick()
	suite.Assert().InDelta(BounceMaxVY/2, suite.match.ball.VY, 0.001,
		"hit offset should scale the vertical speed linearly")
}

func (suite *MatchSimulationTestSuite) TestBallSpeedClamp() {
	suite.match.ball = Ball{X: CourtWidth / 2, Y: CourtHeight / 2, VX: 20, VY: -20}
	suite.match.Tick()
	suite.Assert().InDelta(MaxBallSpeed, suite.match.ball.VX, 0.001, "|vx| should be clamped")
	suite.Assert().InDelta(-MaxBallSpeed, suite.match.ball.VY, 0.001, "|vy| should be clamped")
}

func (suite *MatchSimulationTestSuite) TestScoreServesTowardConceder() {
	suite.match.ball = Ball{X: 2, Y: CourtHeight / 2, VX: -5, VY: 0}
	outcome := suite.match.Tick()
	suite.Assert().False(outcome.Finished, "single point should not finish the match")
	suite.Assert().Equal(1, suite.match.rightScore, "right side should score")
	suite.Assert().Zero(suite.match.leftScore, "left score should be untouched")
	suite.Assert().InDelta(CourtWidth/2, suite.match.ball.X, 0.001, "serve should start at center")
	suite.Assert().InDelta(-ServeSpeedX, suite.match.ball.VX, 0.001,
		"serve should move toward the side that conceded")
}

func (suite *MatchSimulationTestSuite) TestFinishAtWinningScore() {
	suite.match.leftScore = WinningScore - 1
	suite.match.ball = Ball{X: CourtWidth - 2, Y: CourtHeight / 2, VX: 5, VY: 0}
	outcome := suite.match.Tick()
	suite.Assert().True(outcome.Finished, "reaching the winning score should finish the match")
	suite.Assert().Equal(StatusFinished, suite.match.Status(), "should be finished")
	suite.Assert().Equal(WinningScore, suite.match.leftScore, "final point should be counted")
	suite.Assert().Equal("ann", suite.match.winner.String, "scoring player should win")
	suite.Assert().False(suite.match.isWalkover, "score finish is not a walkover")
}

func (suite *MatchSimulationTestSuite) TestWinnerPlaceholderWhenSideEmpty() {
	suite.match.leftScore = WinningScore - 1
	delete(suite.match.players, suite.ann.ID)
	suite.match.ball = Ball{X: CourtWidth - 2, Y: CourtHeight / 2, VX: 5, VY: 0}
	outcome := suite.match.Tick()
	suite.Require().True(outcome.Finished, "match should finish")
	suite.Assert().Equal(string(SideLeft), suite.match.winner.String,
		"empty winning side should fall back to the side placeholder")
}

func TestMatchSimulationTestSuite(t *testing.T) {
	suite.Run(t, new(MatchSimulationTestSuite))
}
