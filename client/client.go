package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"blockdrop/tetris"

	"github.com/eiannone/keyboard"
)

type clientState int

const (
	lobby clientState = iota
	waiting
	playing
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

// tetrisGame is a running game, local or hosted by a server.
type tetrisGame interface {
	Start()
	GetUpdate() <-chan *tetris.Snapshot
	Action(tetris.Action)
	Stop()
}

type renderer interface {
	game(*tetris.Snapshot)
	lobby(message)
	reset()
}

type Client struct {
	localGame  func() tetrisGame
	remoteGame func(context.Context) (tetrisGame, error)
	render     renderer
	options    *Options
	logger     *slog.Logger
	kbCh       <-chan keyboard.KeyEvent
	state      *state

	current tetrisGame
	cancel  context.CancelFunc
	mu      sync.Mutex
}

type Options struct {
	Address string
	Name    string
	// Seed fixes the piece sequence of local games. Zero means random.
	Seed uint64
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	r, err := newRender(l, o.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		localGame: func() tetrisGame {
			var opts []tetris.Option
			if o.Seed != 0 {
				opts = append(opts, tetris.WithSeed(o.Seed))
			}
			return tetris.NewGame(l, opts...)
		},
		remoteGame: func(ctx context.Context) (tetrisGame, error) {
			g, err := dialGame(ctx, o.Address, l)
			if err != nil {
				return nil, err
			}
			return g, nil
		},
		render:  r,
		options: o,
		logger:  l,
		kbCh:    kb,
		state:   &state{current: lobby},
	}, nil
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.reset()
	c.render.lobby(defaultLobby())
	var wg sync.WaitGroup
	wg.Add(1)
	go c.listenKB(&wg)
	wg.Wait()
	c.stopGame()
}

func (c *Client) listenKB(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.play(c.localGame())
			case 'o':
				c.state.set(waiting)
				c.render.lobby(connecting())
				go c.playOnline()
			case 'q':
				return
			}
		case waiting:
			if event.Rune == 'c' || event.Key == keyboard.KeyEsc {
				c.stopGame()
				c.state.set(lobby)
				c.render.lobby(defaultLobby())
			}
		case playing:
			if event.Key == keyboard.KeyEsc {
				c.stopGame()
				continue
			}
			if a, ok := keyAction(event); ok {
				if g := c.game(); g != nil {
					g.Action(a)
				}
			}
		}
	}
}

func keyAction(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'e':
		return tetris.RotateRight, true
	case event.Rune == 'q':
		return tetris.RotateLeft, true
	case event.Key == keyboard.KeySpace:
		return tetris.DropDown, true
	}
	return "", false
}

// play starts g and renders its updates until it ends.
func (c *Client) play(g tetrisGame) {
	c.mu.Lock()
	c.current = g
	c.mu.Unlock()
	c.state.set(playing)

	c.render.reset()
	g.Start()
	go func() {
		var last *tetris.Snapshot
		for u := range g.GetUpdate() {
			last = u
			c.render.game(u)
		}
		c.state.set(lobby)
		if last != nil && last.GameOver {
			c.logger.Info("game over", slog.Uint64("score", last.Score), slog.Int("lines", last.Lines))
			c.render.lobby(gameOver(last.Score))
			return
		}
		c.render.lobby(defaultLobby())
	}()
}

func (c *Client) playOnline() {
	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	g, err := c.remoteGame(ctx)
	if ctx.Err() != nil {
		// the player cancelled this attempt while it was connecting.
		if err == nil {
			g.Stop()
		}
		return
	}
	if err != nil {
		cancel()
		c.logger.Error("unable to start online game", slog.String("error", err.Error()))
		c.state.set(lobby)
		c.render.lobby(connectionError())
		return
	}
	c.play(g)
}

func (c *Client) game() tetrisGame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Client) stopGame() {
	c.mu.Lock()
	g, cancel := c.current, c.cancel
	c.current, c.cancel = nil, nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if g != nil {
		g.Stop()
	}
}
