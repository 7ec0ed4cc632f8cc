package tetris

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Action string

const (
	MoveLeft    Action = "left"      // Moves the piece one step to the left.
	MoveRight   Action = "right"     // Moves the piece one step to the right.
	MoveDown    Action = "down"      // Moves the piece one step down.
	DropDown    Action = "drop"      // Drops the piece down the stack.
	RotateRight Action = "rotatecw"  // Rotates the piece clockwise.
	RotateLeft  Action = "rotateccw" // Rotates the piece counter-clockwise.
)

// ParseAction validates an action received from outside the process.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case MoveLeft, MoveRight, MoveDown, DropDown, RotateRight, RotateLeft:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// FrameRate is how often the game loop polls the gravity timer.
const FrameRate = 16 * time.Millisecond

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

// NewTicker returns a Ticker backed by a time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return newWrappedTicker(d)
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game drives a State from its own goroutine: it applies actions, polls
// the gravity timer once per frame and publishes a Snapshot after every
// change. The State is only ever touched by that goroutine.
type Game struct {
	updateCh chan *Snapshot
	actionCh chan Action
	doneCh   chan struct{}
	stopOnce sync.Once

	state  *State
	ticker Ticker
	frame  time.Duration
	logger *slog.Logger
}

func NewGame(l *slog.Logger, opts ...Option) *Game {
	return NewConfigurableGame(newWrappedTicker(FrameRate), FrameRate, NewState(opts...), l)
}

func NewConfigurableGame(ticker Ticker, frame time.Duration, s *State, l *slog.Logger) *Game {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Game{
		updateCh: make(chan *Snapshot),
		actionCh: make(chan Action),
		doneCh:   make(chan struct{}),
		state:    s,
		ticker:   ticker,
		frame:    frame,
		logger:   l,
	}
}

// Start runs the game loop. The first update is the initial board.
func (g *Game) Start() {
	go g.listen()
}

// Stop ends the game loop. It is safe to call more than once.
func (g *Game) Stop() {
	g.stopOnce.Do(func() {
		g.ticker.Stop()
		close(g.doneCh)
	})
}

// Action queues a for the game loop. It is dropped once the game is over.
func (g *Game) Action(a Action) {
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

// GetUpdate returns the snapshots channel. It is closed when the game ends.
func (g *Game) GetUpdate() <-chan *Snapshot {
	return g.updateCh
}

func (g *Game) listen() {
	defer close(g.updateCh)
	g.state.Timer().Reset()
	g.ticker.Reset(g.frame)
	if !g.publish() {
		return
	}
	for {
		select {
		case <-g.ticker.C():
			if !g.state.Timer().IsUp() {
				continue
			}
			g.gravity()
		case a := <-g.actionCh:
			g.apply(a)
		case <-g.doneCh:
			return
		}
		if !g.publish() {
			return
		}
		if g.state.IsGameOver() {
			g.logger.Debug("game over",
				slog.Uint64("score", g.state.Score()),
				slog.Int("lines", g.state.Lines()))
			g.Stop()
			return
		}
	}
}

func (g *Game) publish() bool {
	select {
	case g.updateCh <- g.state.Snapshot():
		return true
	case <-g.doneCh:
		return false
	}
}

func (g *Game) apply(a Action) {
	switch a {
	case MoveLeft:
		g.state.MovePiece(Left)
	case MoveRight:
		g.state.MovePiece(Right)
	case MoveDown:
		g.state.MovePiece(Down)
	case DropDown:
		// the piece locks on the next gravity tick.
		g.state.HardDrop()
	case RotateRight:
		g.state.RotatePiece()
	case RotateLeft:
		g.state.RotatePieceLeft()
	default:
		g.logger.Warn("ignoring unknown action", slog.String("action", string(a)))
	}
}

// gravity moves the piece one row down. When it can't fall any further it
// is locked in, complete rows are removed and the next piece spawns.
func (g *Game) gravity() {
	if g.state.MovePiece(Down) {
		return
	}
	if n := g.state.CollapseRows(); n > 0 {
		g.logger.Debug("rows cleared",
			slog.Int("rows", n),
			slog.Uint64("score", g.state.Score()),
			slog.Duration("gravity", g.state.Gravity()))
	}
	g.state.SpawnPiece()
}
