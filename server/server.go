package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"blockdrop/remote"
	"blockdrop/tetris"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type Options struct {
	Logger *slog.Logger
	// Frame is how often each session polls its gravity timer.
	Frame time.Duration
	// Seed fixes the piece sequence of every session. Zero means random.
	Seed uint64
}

// session is a single player game hosted by the server.
type session struct {
	game    *tetris.Game
	started time.Time
}

// Server hosts single player sessions. Each Play stream owns its own game.
type Server struct {
	sessions map[string]*session
	logger   *slog.Logger
	frame    time.Duration
	seed     uint64
	mu       sync.Mutex
}

func New(o *Options) *Server {
	l := o.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	frame := o.Frame
	if frame <= 0 {
		frame = tetris.FrameRate
	}
	return &Server{
		sessions: make(map[string]*session),
		logger:   l,
		frame:    frame,
		seed:     o.Seed,
	}
}

// Sessions returns the number of games being played.
func (t *Server) Sessions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

func (t *Server) Play(stream remote.PlayServer) error {
	id := uuid.New().String()
	l := t.logger.With(slog.String("session", id))
	if err := stream.SendHeader(metadata.Pairs(remote.SessionHeader, id)); err != nil {
		return fmt.Errorf("failed to send session header: %w", err)
	}

	var opts []tetris.Option
	if t.seed != 0 {
		opts = append(opts, tetris.WithSeed(t.seed))
	}
	game := tetris.NewConfigurableGame(tetris.NewTicker(t.frame), t.frame, tetris.NewState(opts...), l)
	t.add(id, game)
	defer t.remove(id)
	game.Start()
	defer game.Stop()
	l.Info("session started")

	errCh := make(chan error, 1)
	go func() {
		for {
			rcv, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					errCh <- nil
					return
				}
				errCh <- fmt.Errorf("failed to receive action: %w", err)
				return
			}
			a, err := remote.DecodeAction(rcv)
			if err != nil {
				errCh <- status.Error(codes.InvalidArgument, err.Error())
				return
			}
			game.Action(a)
		}
	}()

	for {
		select {
		case u, ok := <-game.GetUpdate():
			if !ok {
				return nil
			}
			msg, err := remote.EncodeSnapshot(u)
			if err != nil {
				return status.Errorf(codes.Internal, "unable to encode snapshot: %v", err)
			}
			if err := stream.Send(msg); err != nil {
				return fmt.Errorf("failed to send snapshot: %w", err)
			}
			if u.GameOver {
				l.Info("game over", slog.Uint64("score", u.Score), slog.Int("lines", u.Lines))
				return nil
			}
		case err := <-errCh:
			if err != nil {
				l.Error("session aborted", slog.String("error", err.Error()))
				return err
			}
			l.Info("player left")
			return nil
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

// Close ends every running game. Their streams finish once the last
// snapshot is sent.
func (t *Server) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.sessions {
		s.game.Stop()
	}
}

func (t *Server) add(id string, g *tetris.Game) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[id] = &session{game: g, started: time.Now()}
}

func (t *Server) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.sessions[id]; ok {
		t.logger.Debug("session closed",
			slog.String("session", id),
			slog.Duration("played", time.Since(s.started)))
		delete(t.sessions, id)
	}
}
