package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

const (
	defaultTickRate           = 5
	defaultIdleTimeoutSeconds = 600
)

// GameConfig holds tunables for solitaire matches.
type GameConfig struct {
	// TickRate is the match loop frequency in ticks per second (Nakama allows 1..60).
	TickRate int `json:"tick_rate"`
	// IdleTimeoutSeconds terminates a match after this long without an accepted message. Zero disables it.
	IdleTimeoutSeconds int `json:"idle_timeout_seconds"`
	// AutoReveal flips the card exposed by a tableau move without waiting for the client.
	AutoReveal bool `json:"auto_reveal"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// ReadGameConfig parses a game configuration file.
func ReadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}

	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.TickRate < 0 || c.TickRate > 60 {
		return nil, fmt.Errorf("tick_rate %d out of range 0..60 (0 = default)", c.TickRate)
	}
	if c.IdleTimeoutSeconds < 0 {
		return nil, fmt.Errorf("idle_timeout_seconds must not be negative")
	}
	return &c, nil
}

// LoadGameConfig loads the game configuration from the given path once per process.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		cfg, loadErr = ReadGameConfig(path)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when none is loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetTickRate returns the configured tick rate or the default.
func (c *GameConfig) GetTickRate() int {
	if c == nil || c.TickRate == 0 {
		return defaultTickRate
	}
	return c.TickRate
}

// IdleTimeoutTicks converts the idle timeout into match ticks.
func (c *GameConfig) IdleTimeoutTicks() int64 {
	seconds := defaultIdleTimeoutSeconds
	if c != nil {
		seconds = c.IdleTimeoutSeconds
	}
	return int64(seconds) * int64(c.GetTickRate())
}

// GetAutoReveal reports whether auto-reveal is on. A nil config leaves it off.
func (c *GameConfig) GetAutoReveal() bool {
	return c != nil && c.AutoReveal
}
