package nakama

import (
	"context"
	"database/sql"

	"klondike/internal/app"
	"klondike/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// dealTickets signs replayable deals. It stays nil when no secret is configured.
var dealTickets *app.DealTicketService

// InitModule wires RPCs, hooks and the match handler for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	vars, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	settings, err := config.ParseSettings(vars)
	if err != nil {
		return err
	}

	if err := config.LoadGameConfig(settings.ConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	if settings.DealTicketSecret != "" {
		dealTickets = app.NewDealTicketService(settings.DealTicketSecret, settings.DealTicketIssuer, settings.DealTicketTTL)
	} else {
		logger.Warn("InitModule: KLONDIKE_DEAL_TICKET_SECRET not set, deal replay disabled.")
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameKlondike, NewMatch); err != nil {
		return err
	}

	logger.Info("Klondike Go module loaded.")
	return nil
}
