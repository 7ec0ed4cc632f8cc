package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"blockdrop/client"
	"blockdrop/config"

	"github.com/eiannone/keyboard"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[26;0H\n\r\033[?25h"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel()}))

	c, err := client.New(logger, &client.Options{
		Address: cfg.ServerAddr,
		Name:    cfg.Name,
		Seed:    cfg.Seed,
	})
	if err != nil {
		log.Fatalf("unable to start client: %v", err)
	}
	defer keyboard.Close() //nolint: errcheck

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)
	c.Start()
}
