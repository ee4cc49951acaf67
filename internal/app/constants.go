package app

import "time"

const (
	// DefaultDealTicketIssuer is the iss claim used when none is configured.
	DefaultDealTicketIssuer = "klondike"
	// DefaultDealTicketTTL bounds how long a deal can be replayed.
	DefaultDealTicketTTL = 24 * time.Hour
)
