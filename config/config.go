// Package config loads the server and client settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures cmd/server.
type Server struct {
	Addr     string        `env:"TETRIS_ADDR"      envDefault:":9000"`
	Frame    time.Duration `env:"TETRIS_FRAME"     envDefault:"16ms"`
	Seed     uint64        `env:"TETRIS_SEED"`
	LogLevel slog.Level    `env:"TETRIS_LOG_LEVEL" envDefault:"info"`
}

// Client configures the terminal game.
type Client struct {
	ServerAddr string `env:"TETRIS_SERVER_ADDR" envDefault:"localhost:9000"`
	Name       string `env:"TETRIS_NAME"        envDefault:"player"`
	LogFile    string `env:"TETRIS_LOG_FILE"    envDefault:"tetris.log"`
	Debug      bool   `env:"TETRIS_DEBUG"`
	// Seed fixes the local piece sequence. Zero means random.
	Seed uint64 `env:"TETRIS_SEED"`
}

func LoadServer() (*Server, error) {
	var c Server
	if err := parseEnv(&c); err != nil {
		return nil, err
	}
	if c.Frame <= 0 {
		return nil, fmt.Errorf("TETRIS_FRAME must be positive, got %v", c.Frame)
	}
	return &c, nil
}

func LoadClient() (*Client, error) {
	var c Client
	if err := parseEnv(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LogLevel returns the level the client logs at.
func (c *Client) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
