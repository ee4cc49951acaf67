package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are read from the Nakama runtime environment (runtime.env in the server config).
type Settings struct {
	ConfigPath       string        `env:"KLONDIKE_CONFIG_PATH" envDefault:"data/klondike_config.json"`
	DealTicketSecret string        `env:"KLONDIKE_DEAL_TICKET_SECRET"`
	DealTicketIssuer string        `env:"KLONDIKE_DEAL_TICKET_ISSUER" envDefault:"klondike"`
	DealTicketTTL    time.Duration `env:"KLONDIKE_DEAL_TICKET_TTL" envDefault:"24h"`
}

// ParseSettings loads Settings from vars instead of the process environment.
func ParseSettings(vars map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars}); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
