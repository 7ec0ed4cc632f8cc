package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"blockdrop/config"
	"blockdrop/remote"
	"blockdrop/server"

	"google.golang.org/grpc"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("unable to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Error("failed to listen", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer lis.Close()

	srv := server.New(&server.Options{Logger: logger, Frame: cfg.Frame, Seed: cfg.Seed})
	s := grpc.NewServer()
	remote.RegisterTetrisServiceServer(s, srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down", slog.Int("sessions", srv.Sessions()))
		srv.Close()
		s.GracefulStop()
	}()

	logger.Info("starting server", slog.String("addr", cfg.Addr))
	if err := s.Serve(lis); err != nil {
		logger.Error("failed to serve", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
