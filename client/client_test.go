package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"blockdrop/tetris"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type mockGame struct {
	updateCh  chan *tetris.Snapshot
	closeOnce sync.Once
	started   bool
	stopped   bool
	actions   []tetris.Action
	mu        sync.Mutex
}

func newMockGame() *mockGame { return &mockGame{updateCh: make(chan *tetris.Snapshot)} }

func (m *mockGame) GetUpdate() <-chan *tetris.Snapshot { return m.updateCh }

func (m *mockGame) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *mockGame) Action(a tetris.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, a)
}

func (m *mockGame) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
	m.closeOnce.Do(func() { close(m.updateCh) })
}

func (m *mockGame) sendGameOver(score uint64) {
	m.updateCh <- &tetris.Snapshot{GameOver: true, Score: score}
	m.closeOnce.Do(func() { close(m.updateCh) })
}

func (m *mockGame) isStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *mockGame) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *mockGame) lastAction() tetris.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.actions) == 0 {
		return ""
	}
	return m.actions[len(m.actions)-1]
}

type mockRender struct {
	games     int
	lastLobby message
	mu        sync.Mutex
}

func (m *mockRender) reset() {}

func (m *mockRender) game(*tetris.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games++
}

func (m *mockRender) lobby(msg message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLobby = msg
}

func (m *mockRender) gameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.games
}

func (m *mockRender) showing(msg message) func() bool {
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return assert.ObjectsAreEqual(msg, m.lastLobby)
	}
}

func testClient(local tetrisGame, online func(context.Context) (tetrisGame, error)) (*Client, *mockRender, chan keyboard.KeyEvent) {
	render := &mockRender{}
	kbCh := make(chan keyboard.KeyEvent)
	return &Client{
		localGame:  func() tetrisGame { return local },
		remoteGame: online,
		render:     render,
		options:    &Options{Name: "test"},
		logger:     slog.New(slog.DiscardHandler),
		kbCh:       kbCh,
		state:      &state{current: lobby},
	}, render, kbCh
}

// run starts the client and returns a channel closed when Start returns.
func run(c *Client) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		c.Start()
		close(done)
	}()
	return done
}

func TestClientLocalGame(t *testing.T) {
	game := newMockGame()
	cl, render, kbCh := testClient(game, nil)
	done := run(cl)
	require.Eventually(t, render.showing(defaultLobby()), waitFor, tick)

	kbCh <- keyboard.KeyEvent{Rune: 'p'}
	require.Eventually(t, game.isStarted, waitFor, tick)
	assert.Equal(t, playing, cl.state.get())

	game.updateCh <- &tetris.Snapshot{}
	assert.Eventually(t, func() bool { return render.gameCount() == 1 }, waitFor, tick)

	actions := []struct {
		key    keyboard.KeyEvent
		action tetris.Action
	}{
		{key: keyboard.KeyEvent{Rune: 's'}, action: tetris.MoveDown},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, action: tetris.MoveLeft},
		{key: keyboard.KeyEvent{Rune: 'd'}, action: tetris.MoveRight},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, action: tetris.RotateRight},
		{key: keyboard.KeyEvent{Rune: 'q'}, action: tetris.RotateLeft},
		{key: keyboard.KeyEvent{Key: keyboard.KeySpace}, action: tetris.DropDown},
	}
	for _, a := range actions {
		t.Run(fmt.Sprintf("key %v", a.key), func(t *testing.T) {
			kbCh <- a.key
			assert.Eventually(t, func() bool { return game.lastAction() == a.action }, waitFor, tick)
		})
	}

	game.sendGameOver(40)
	require.Eventually(t, render.showing(gameOver(40)), waitFor, tick)
	assert.Equal(t, lobby, cl.state.get())
	assert.Equal(t, 2, render.gameCount())

	kbCh <- keyboard.KeyEvent{Rune: 'q'}
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("client didn't quit")
	}
}

func TestClientEscapeStopsGame(t *testing.T) {
	game := newMockGame()
	cl, render, kbCh := testClient(game, nil)
	done := run(cl)

	kbCh <- keyboard.KeyEvent{Rune: 'p'}
	require.Eventually(t, game.isStarted, waitFor, tick)

	kbCh <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	require.Eventually(t, game.isStopped, waitFor, tick)
	assert.Eventually(t, render.showing(defaultLobby()), waitFor, tick)
	assert.Eventually(t, func() bool { return cl.state.get() == lobby }, waitFor, tick)

	kbCh <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}
	<-done
}

func TestClientOnlineGame(t *testing.T) {
	game := newMockGame()
	cl, render, kbCh := testClient(nil, func(context.Context) (tetrisGame, error) { return game, nil })
	done := run(cl)

	kbCh <- keyboard.KeyEvent{Rune: 'o'}
	require.Eventually(t, game.isStarted, waitFor, tick)
	assert.Equal(t, playing, cl.state.get())

	kbCh <- keyboard.KeyEvent{Rune: 'a'}
	assert.Eventually(t, func() bool { return game.lastAction() == tetris.MoveLeft }, waitFor, tick)

	game.sendGameOver(100)
	assert.Eventually(t, render.showing(gameOver(100)), waitFor, tick)

	kbCh <- keyboard.KeyEvent{Rune: 'q'}
	<-done
}

func TestClientOnlineError(t *testing.T) {
	cl, render, kbCh := testClient(nil, func(context.Context) (tetrisGame, error) {
		return nil, errors.New("connection refused")
	})
	done := run(cl)

	kbCh <- keyboard.KeyEvent{Rune: 'o'}
	assert.Eventually(t, render.showing(connectionError()), waitFor, tick)
	assert.Eventually(t, func() bool { return cl.state.get() == lobby }, waitFor, tick)

	kbCh <- keyboard.KeyEvent{Rune: 'q'}
	<-done
}

func TestClientOnlineCancel(t *testing.T) {
	dialing := make(chan struct{})
	cancelled := make(chan struct{})
	cl, render, kbCh := testClient(nil, func(ctx context.Context) (tetrisGame, error) {
		close(dialing)
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	})
	done := run(cl)

	kbCh <- keyboard.KeyEvent{Rune: 'o'}
	<-dialing
	assert.Equal(t, waiting, cl.state.get())
	assert.True(t, render.showing(connecting())())

	kbCh <- keyboard.KeyEvent{Rune: 'c'}
	select {
	case <-cancelled:
	case <-time.After(waitFor):
		t.Fatal("dial wasn't cancelled")
	}
	assert.Eventually(t, render.showing(defaultLobby()), waitFor, tick)
	assert.Equal(t, lobby, cl.state.get())

	kbCh <- keyboard.KeyEvent{Rune: 'q'}
	<-done
}

func TestClientOnlineRetryAfterCancel(t *testing.T) {
	stale, fresh := newMockGame(), newMockGame()
	dialing := make(chan struct{})
	release := make(chan struct{})
	var attempts atomic.Int32
	cl, _, kbCh := testClient(nil, func(context.Context) (tetrisGame, error) {
		if attempts.Add(1) == 1 {
			close(dialing)
			<-release
			return stale, nil
		}
		return fresh, nil
	})
	done := run(cl)

	kbCh <- keyboard.KeyEvent{Rune: 'o'}
	<-dialing
	kbCh <- keyboard.KeyEvent{Rune: 'c'}
	kbCh <- keyboard.KeyEvent{Rune: 'o'}
	require.Eventually(t, fresh.isStarted, waitFor, tick)

	close(release)
	assert.Eventually(t, stale.isStopped, waitFor, tick)
	assert.False(t, stale.isStarted())
	assert.Equal(t, tetrisGame(fresh), cl.game())
	assert.Equal(t, playing, cl.state.get())

	kbCh <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}
	<-done
	assert.True(t, fresh.isStopped())
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  keyboard.KeyEvent
		want tetris.Action
		ok   bool
	}{
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, want: tetris.MoveDown, ok: true},
		{key: keyboard.KeyEvent{Rune: 'a'}, want: tetris.MoveLeft, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, want: tetris.MoveRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'e'}, want: tetris.RotateRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'q'}, want: tetris.RotateLeft, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeySpace}, want: tetris.DropDown, ok: true},
		{key: keyboard.KeyEvent{Rune: 'x'}},
	}
	for _, test := range tests {
		got, ok := keyAction(test.key)
		if ok != test.ok || got != test.want {
			t.Errorf("key %v: wanted %q %t, got %q %t", test.key, test.want, test.ok, got, ok)
		}
	}
}
