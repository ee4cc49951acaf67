package app

import "klondike/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventGameStarted     EventKind = "game_started"
	EventCardDrawn       EventKind = "card_drawn"
	EventDiscardRecycled EventKind = "discard_recycled"
	EventCardsMoved      EventKind = "cards_moved"
	EventCardRevealed    EventKind = "card_revealed"
	EventGameWon         EventKind = "game_won"
)

// Event is a domain/app event produced by a successful action.
type Event struct {
	Kind    EventKind
	Payload any
}

// LocationKind names a place a card can sit.
type LocationKind string

const (
	LocationDraw       LocationKind = "draw"
	LocationDiscard    LocationKind = "discard"
	LocationTableau    LocationKind = "tableau"
	LocationFoundation LocationKind = "foundation"
)

// Location is a pile on the board. Index is the tableau pile for LocationTableau
// and the suit for LocationFoundation; it is zero otherwise.
type Location struct {
	Kind  LocationKind
	Index int
}

type GameStartedPayload struct {
	Seed int64
}

type CardDrawnPayload struct {
	Card domain.Card
}

type DiscardRecycledPayload struct {
	Count int
}

type CardsMovedPayload struct {
	From  Location
	To    Location
	Cards []domain.Card
}

type CardRevealedPayload struct {
	Pile int
	Card domain.Card
}

type GameWonPayload struct {
	Seed int64
}
