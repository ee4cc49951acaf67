package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"klondike/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NewMatchRequest is the optional payload of RpcNewMatch.
type NewMatchRequest struct {
	DealTicket string `json:"deal_ticket,omitempty"`
}

// NewMatchResponse is the payload returned to clients after creating a match.
type NewMatchResponse struct {
	MatchID string `json:"match_id"`
	Replay  bool   `json:"replay"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcNewMatch, rpcNewMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcResumeMatch, rpcResumeMatch)
}

func rpcNewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
	}

	params, replay, err := newMatchParams(userID, payload, dealTickets)
	if err != nil {
		logger.Warn("rpcNewMatch [User:%s]: %v", userID, err)
		return "", err
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameKlondike, params)
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}
	logger.Info("rpcNewMatch [User:%s]: Created match %s (replay=%t)", userID, matchID, replay)

	b, _ := json.Marshal(NewMatchResponse{MatchID: matchID, Replay: replay})
	return string(b), nil
}

// newMatchParams builds the MatchCreate params for userID, resolving an optional deal ticket.
func newMatchParams(userID, payload string, tickets *app.DealTicketService) (map[string]interface{}, bool, error) {
	var req NewMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return nil, false, runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}

	params := map[string]interface{}{matchParamOwner: userID}
	if req.DealTicket == "" {
		return params, false, nil
	}

	deal, err := tickets.Verify(req.DealTicket)
	if err != nil {
		return nil, false, runtime.NewError("invalid deal ticket", 3)
	}
	if deal.UserID != userID {
		return nil, false, runtime.NewError("deal ticket belongs to another user", 7) // PERMISSION_DENIED
	}
	params[matchParamSeed] = strconv.FormatInt(deal.Seed, 10)
	return params, true, nil
}
