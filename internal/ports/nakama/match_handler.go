package nakama

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"klondike/internal/app"
	"klondike/internal/config"
	"klondike/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// Match params set by RpcNewMatch.
	matchParamOwner = "owner"
	matchParamSeed  = "seed"

	phaseWaiting = "waiting"
)

// MatchState holds the authoritative runtime state for one player's solitaire match.
type MatchState struct {
	OwnerUserID      string                      `json:"owner_user_id"`      // Only this user may join and act
	Seed             int64                       `json:"seed"`               // Seed for the first deal when HasSeed is set
	HasSeed          bool                        `json:"has_seed"`           // Whether the first deal replays Seed
	Tick             int64                       `json:"tick"`               // Current tick of the match
	LastActionTick   int64                       `json:"last_action_tick"`   // Tick of the last join or message from the owner
	IdleTimeoutTicks int64                       `json:"idle_timeout_ticks"` // Terminate after this many idle ticks; 0 disables
	AutoReveal       bool                        `json:"auto_reveal"`        // Flip cards exposed by tableau moves automatically
	Presences        map[string]runtime.Presence `json:"-"`                  // Map UserId -> Presence
	App              *app.Service                `json:"-"`                  // Solitaire app service
	Game             *domain.Game                `json:"-"`                  // Current game (nil before the first join)
	PreviousGame     *domain.Game                `json:"-"`                  // Game replaced by the latest deal, if any
}

// canJoin decides whether userID may enter the match. The first user to arrive claims an unowned match.
func (ms *MatchState) canJoin(userID string) (bool, string) {
	if userID == "" {
		return false, "missing user"
	}
	if ms.OwnerUserID != "" && ms.OwnerUserID != userID {
		return false, "match is private"
	}
	return true, ""
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing solitaire match.")

	cfg := config.GetGameConfig()
	state := &MatchState{
		IdleTimeoutTicks: cfg.IdleTimeoutTicks(),
		AutoReveal:       cfg.GetAutoReveal(),
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
	}

	if owner, ok := params[matchParamOwner].(string); ok {
		state.OwnerUserID = owner
	}
	if raw, ok := params[matchParamSeed].(string); ok && raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logger.Warn("MatchInit: Ignoring invalid seed param %q: %v", raw, err)
		} else {
			state.Seed = seed
			state.HasSeed = true
		}
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, cfg.GetTickRate(), label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	allowed, reason := matchState.canJoin(presence.GetUserId())
	if !allowed {
		logger.Info("MatchJoinAttempt: Rejected %s: %s", presence.GetUserId(), reason)
	}
	return state, allowed, reason
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		mh.join(ctx, matchState, dispatcher, logger, tick, p.GetUserId())
	}
	return matchState
}

// join claims ownership if needed, deals the first game and sends the board to the joiner.
func (mh *matchHandler) join(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, tick int64, userID string) {
	if state.OwnerUserID == "" {
		state.OwnerUserID = userID
		logger.Debug("MatchJoin: Owner set to %s.", userID)
	}
	state.LastActionTick = tick

	if state.Game == nil {
		seed := state.Seed
		if !state.HasSeed {
			seed = state.App.NewSeed()
		}
		mh.startGame(ctx, state, dispatcher, logger, seed)
		return
	}

	mh.sendSnapshot(state, dispatcher, logger)
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
	}
	if _, present := matchState.Presences[matchState.OwnerUserID]; !present {
		logger.Info("MatchLeave: Owner %s left, terminating match.", matchState.OwnerUserID)
		return nil
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg.GetUserId(), msg.GetOpCode(), msg.GetData())
	}

	if matchState.idle() {
		logger.Info("MatchLoop: No activity for %d ticks, terminating match.", matchState.Tick-matchState.LastActionTick)
		return nil
	}
	return matchState
}

func (ms *MatchState) idle() bool {
	return ms.IdleTimeoutTicks > 0 && ms.Tick-ms.LastActionTick >= ms.IdleTimeoutTicks
}

// handleMessage validates the sender, applies one client action and publishes the result.
func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, opCode int64, data []byte) {
	if senderID != state.OwnerUserID {
		logger.Warn("handleMessage: User %s is not the owner of this match", senderID)
		mh.sendError(dispatcher, logger, codeForbidden, "not the match owner")
		return
	}
	state.LastActionTick = state.Tick

	request, err := decodeRequest(data)
	if err != nil {
		logger.Warn("handleMessage: Invalid payload for opcode %d from %s: %v", opCode, senderID, err)
		mh.sendError(dispatcher, logger, codeBadRequest, err.Error())
		return
	}

	var events []app.Event
	switch opCode {
	case OpNewGame:
		mh.handleNewGame(ctx, state, dispatcher, logger, stringField(request, "deal_ticket"))
		return
	case OpRequestState:
		mh.sendSnapshot(state, dispatcher, logger)
		return
	case OpDrawCard:
		events, err = state.App.DrawCard(state.Game)
	case OpRecycleDiscard:
		events, err = state.App.RecycleDiscardPile(state.Game)
	case OpDiscardToFoundation:
		events, err = state.App.PlayDiscardToFoundation(state.Game)
	case OpDiscardToTableau:
		var target int
		if target, err = intField(request, "target"); err == nil {
			events, err = state.App.PlayDiscardToTableau(state.Game, target)
		}
	case OpFlipTableau:
		var pile int
		if pile, err = intField(request, "pile"); err == nil {
			events, err = state.App.FlipTableauCard(state.Game, pile)
		}
	case OpMoveTableau:
		events, err = mh.moveTableau(state, request)
	case OpTableauToFoundation:
		var pile int
		if pile, err = intField(request, "pile"); err == nil {
			events, err = state.App.MoveTableauToFoundation(state.Game, pile)
		}
	default:
		logger.Warn("handleMessage: Unknown opcode received: %d", opCode)
		mh.sendError(dispatcher, logger, codeBadRequest, "unknown opcode")
		return
	}

	if err != nil {
		logger.Debug("handleMessage: Opcode %d rejected for %s: %v", opCode, senderID, err)
		mh.sendError(dispatcher, logger, errorCode(err), err.Error())
		return
	}

	if state.AutoReveal {
		events = mh.autoReveal(state, events)
	}
	mh.publish(state, dispatcher, logger, events)
}

func (mh *matchHandler) moveTableau(state *MatchState, request *structpb.Struct) ([]app.Event, error) {
	source, err := intField(request, "source")
	if err != nil {
		return nil, err
	}
	card, err := intField(request, "card")
	if err != nil {
		return nil, err
	}
	target, err := intField(request, "target")
	if err != nil {
		return nil, err
	}
	return state.App.MoveTableauCards(state.Game, source, card, target)
}

// handleNewGame redeals. A valid deal ticket belonging to the owner replays that deal.
func (mh *matchHandler) handleNewGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ticket string) {
	seed := state.App.NewSeed()
	if ticket != "" {
		deal, err := dealTickets.Verify(ticket)
		if err != nil {
			logger.Warn("handleNewGame: Rejected deal ticket from %s: %v", state.OwnerUserID, err)
			mh.sendError(dispatcher, logger, codeUnprocessable, err.Error())
			return
		}
		if deal.UserID != state.OwnerUserID {
			logger.Warn("handleNewGame: Deal ticket for %s presented by %s", deal.UserID, state.OwnerUserID)
			mh.sendError(dispatcher, logger, codeForbidden, "deal ticket belongs to another user")
			return
		}
		seed = deal.Seed
	}
	mh.startGame(ctx, state, dispatcher, logger, seed)
}

func (mh *matchHandler) startGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seed int64) {
	game, events := state.App.StartGame(seed)
	state.PreviousGame = state.Game
	state.Game = game
	logger.Info("StartGame: Dealt game for %s (seed=%d).", state.OwnerUserID, seed)

	mh.updateLabel(state, dispatcher, logger)
	mh.publish(state, dispatcher, logger, events)
}

// autoReveal flips the card left on top of any tableau pile a move came from.
func (mh *matchHandler) autoReveal(state *MatchState, events []app.Event) []app.Event {
	for _, ev := range events {
		p, ok := ev.Payload.(app.CardsMovedPayload)
		if !ok || p.From.Kind != app.LocationTableau {
			continue
		}
		if revealed, err := state.App.FlipTableauCard(state.Game, p.From.Index); err == nil {
			events = append(events, revealed...)
		}
	}
	return events
}

// publish sends each event followed by a fresh snapshot so the client can resync.
func (mh *matchHandler) publish(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, fields, err := eventMessage(ev)
		if err != nil {
			logger.Warn("publish: %v", err)
			continue
		}
		switch ev.Kind {
		case app.EventGameStarted:
			// A running deal's ticket would expose its hidden cards.
			if prev := state.PreviousGame; prev != nil && prev.Phase == domain.PhasePlaying {
				mh.attachDealTicket(state, logger, fields, "previous_deal_ticket", prev.Seed)
			}
		case app.EventGameWon:
			logger.Info("publish: %s won game with seed %d.", state.OwnerUserID, state.Game.Seed)
			mh.attachDealTicket(state, logger, fields, "deal_ticket", state.Game.Seed)
			mh.updateLabel(state, dispatcher, logger)
		}
		mh.send(dispatcher, logger, opCode, fields)
	}
	mh.sendSnapshot(state, dispatcher, logger)
}

func (mh *matchHandler) attachDealTicket(state *MatchState, logger runtime.Logger, fields map[string]any, key string, seed int64) {
	if dealTickets == nil {
		return
	}
	ticket, err := dealTickets.Issue(state.OwnerUserID, seed)
	if err != nil {
		logger.Warn("publish: Failed to issue deal ticket: %v", err)
		return
	}
	fields[key] = ticket
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.send(dispatcher, logger, OpStateSnapshot, snapshotFields(state.Game))
}

// sendError reports a rejected action. Only the owner is ever present, so it goes to everyone in the match.
func (mh *matchHandler) sendError(dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(dispatcher, logger, OpActionRejected, map[string]any{"code": code, "message": message})
}

func (mh *matchHandler) send(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, fields map[string]any) {
	payload, err := encodeFields(fields)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, payload, nil, nil, true); err != nil {
		logger.Error("Failed to send message %d: %v", opCode, err)
	}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrIllegalMove):
		return codeUnprocessable
	case errors.Is(err, app.ErrNoGame), errors.Is(err, app.ErrGameOver):
		return codeConflict
	default:
		return codeBadRequest
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
