package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"blockdrop/remote"
	"blockdrop/tetris"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// remoteGame is a game hosted by a server. It satisfies the same
// interface as a local tetris.Game so the client renders both alike.
type remoteGame struct {
	conn     *grpc.ClientConn
	stream   remote.PlayClient
	cancel   context.CancelFunc
	updateCh chan *tetris.Snapshot
	session  string
	logger   *slog.Logger
	stopOnce sync.Once
}

func dialGame(ctx context.Context, addr string, l *slog.Logger) (*remoteGame, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	return newRemoteGame(ctx, conn, l)
}

// newRemoteGame opens a session on conn and waits for the server to
// accept it. conn is owned by the game from then on.
func newRemoteGame(ctx context.Context, conn *grpc.ClientConn, l *slog.Logger) (*remoteGame, error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := remote.Play(ctx, conn)
	if err != nil {
		cancel()
		conn.Close() //nolint: errcheck
		return nil, fmt.Errorf("unable to open game session: %w", err)
	}
	md, err := stream.Header()
	if err != nil {
		cancel()
		conn.Close() //nolint: errcheck
		return nil, fmt.Errorf("unable to receive session header: %w", err)
	}
	var session string
	if ids := md.Get(remote.SessionHeader); len(ids) > 0 {
		session = ids[0]
	}
	return &remoteGame{
		conn:     conn,
		stream:   stream,
		cancel:   cancel,
		updateCh: make(chan *tetris.Snapshot),
		session:  session,
		logger:   l.With(slog.String("session", session)),
	}, nil
}

func (r *remoteGame) Start() {
	r.logger.Info("online game started")
	go r.receive()
}

func (r *remoteGame) GetUpdate() <-chan *tetris.Snapshot { return r.updateCh }

func (r *remoteGame) Action(a tetris.Action) {
	if err := r.stream.Send(remote.EncodeAction(a)); err != nil {
		r.logger.Debug("unable to send action", slog.String("action", string(a)), slog.String("error", err.Error()))
	}
}

func (r *remoteGame) Stop() {
	r.stopOnce.Do(func() {
		r.stream.CloseSend() //nolint: errcheck
		r.cancel()
		if err := r.conn.Close(); err != nil {
			r.logger.Debug("error closing connection", slog.String("error", err.Error()))
		}
	})
}

func (r *remoteGame) receive() {
	defer close(r.updateCh)
	ctx := r.stream.Context()
	for {
		msg, err := r.stream.Recv()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				r.logger.Info("online game finished")
			case status.Code(err) == codes.Canceled:
				r.logger.Debug("online game cancelled")
			default:
				r.logger.Error("unable to receive snapshot", slog.String("error", err.Error()))
			}
			return
		}
		s, err := remote.DecodeSnapshot(msg)
		if err != nil {
			r.logger.Error("unable to decode snapshot", slog.String("error", err.Error()))
			r.Stop()
			return
		}
		select {
		case r.updateCh <- s:
		case <-ctx.Done():
			return
		}
	}
}
