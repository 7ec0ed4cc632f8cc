package tetris

import (
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// FakeClock is a Clock that only moves when told to.
type FakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestState creates a State whose active piece is a Blue piece of
// the given kind at the spawn position. The queue is seeded so it is
// the same on every run.
func NewTestState(k Kind, opts ...Option) *State {
	s := NewState(append([]Option{WithSeed(1)}, opts...)...)
	s.drawPiece(Empty)
	s.piece = Piece{Template: NewTemplate(k), Pos: SpawnPos, Color: Blue}
	s.drawPiece(s.piece.Color)
	return s
}

// NewTestGame creates a game around s and returns it with a manual ticker.
func NewTestGame(s *State) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	return NewConfigurableGame(ticker, FrameRate, s, nil), ticker
}
