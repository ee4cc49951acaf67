package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"klondike/internal/domain"
)

// Service contains solitaire use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
// The rng only picks deal seeds; each game shuffles from its own seeded source.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNoGame      = errors.New("no game in progress")
	ErrGameOver    = errors.New("game already won")
	ErrIllegalMove = errors.New("illegal move")
)

// NewSeed picks a seed for a fresh deal.
func (s *Service) NewSeed() int64 {
	return s.rng.Int63()
}

// StartGame deals a new game whose shuffle is fully determined by seed.
func (s *Service) StartGame(seed int64) (*domain.Game, []Event) {
	board := domain.NewSolitaire(rand.New(rand.NewSource(seed)))
	board.NewGame()

	game := &domain.Game{
		Phase: domain.PhasePlaying,
		Seed:  seed,
		Board: board,
	}
	return game, []Event{{Kind: EventGameStarted, Payload: GameStartedPayload{Seed: seed}}}
}

// DrawCard turns the next draw pile card onto the discard pile.
func (s *Service) DrawCard(game *domain.Game) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	if !game.Board.DrawCard() {
		return nil, fmt.Errorf("%w: draw pile is empty", ErrIllegalMove)
	}
	c, _ := top(game.Board.DiscardPile())
	return []Event{{Kind: EventCardDrawn, Payload: CardDrawnPayload{Card: c}}}, nil
}

// RecycleDiscardPile moves the discard pile back to the empty draw pile.
func (s *Service) RecycleDiscardPile(game *domain.Game) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	count := len(game.Board.DiscardPile())
	if !game.Board.ShuffleDiscardPile() {
		return nil, fmt.Errorf("%w: draw pile is not empty", ErrIllegalMove)
	}
	return []Event{{Kind: EventDiscardRecycled, Payload: DiscardRecycledPayload{Count: count}}}, nil
}

// PlayDiscardToFoundation plays the top discard onto its foundation.
func (s *Service) PlayDiscardToFoundation(game *domain.Game) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	c, ok := top(game.Board.DiscardPile())
	if !ok || !game.Board.PlayDiscardPileCardToFoundation() {
		return nil, fmt.Errorf("%w: discard to foundation", ErrIllegalMove)
	}
	events := []Event{moved(Location{Kind: LocationDiscard}, foundationOf(c), c)}
	return s.checkWon(game, events), nil
}

// PlayDiscardToTableau places the top discard on tableau pile target.
func (s *Service) PlayDiscardToTableau(game *domain.Game, target int) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	c, ok := top(game.Board.DiscardPile())
	if !ok || !game.Board.PlayDiscardPileCardToTableau(target) {
		return nil, fmt.Errorf("%w: discard to tableau %d", ErrIllegalMove, target)
	}
	return []Event{moved(Location{Kind: LocationDiscard}, Location{Kind: LocationTableau, Index: target}, c)}, nil
}

// FlipTableauCard reveals the face-down top card of a tableau pile.
func (s *Service) FlipTableauCard(game *domain.Game, pile int) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	if !game.Board.FlipTopTableauCard(pile) {
		return nil, fmt.Errorf("%w: flip tableau %d", ErrIllegalMove, pile)
	}
	c, _ := top(game.Board.TableauPile(pile))
	return []Event{{Kind: EventCardRevealed, Payload: CardRevealedPayload{Pile: pile, Card: c}}}, nil
}

// MoveTableauCards moves the run starting at card of pile src onto pile dst.
func (s *Service) MoveTableauCards(game *domain.Game, src, card, dst int) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	var run []domain.Card
	if card >= 0 && card < len(game.Board.TableauPile(src)) {
		run = snapshot(game.Board.TableauPile(src)[card:])
	}
	if !game.Board.MoveTableauCardsToAnotherTableau(src, card, dst) {
		return nil, fmt.Errorf("%w: tableau %d card %d to tableau %d", ErrIllegalMove, src, card, dst)
	}
	return []Event{moved(Location{Kind: LocationTableau, Index: src}, Location{Kind: LocationTableau, Index: dst}, run...)}, nil
}

// MoveTableauToFoundation plays the top card of a tableau pile onto its foundation.
func (s *Service) MoveTableauToFoundation(game *domain.Game, pile int) ([]Event, error) {
	if err := playable(game); err != nil {
		return nil, err
	}
	c, ok := top(game.Board.TableauPile(pile))
	if !ok || !game.Board.MoveTableauCardToFoundation(pile) {
		return nil, fmt.Errorf("%w: tableau %d to foundation", ErrIllegalMove, pile)
	}
	events := []Event{moved(Location{Kind: LocationTableau, Index: pile}, foundationOf(c), c)}
	return s.checkWon(game, events), nil
}

func (s *Service) checkWon(game *domain.Game, events []Event) []Event {
	if !game.Board.WonGame() {
		return events
	}
	game.Phase = domain.PhaseWon
	return append(events, Event{Kind: EventGameWon, Payload: GameWonPayload{Seed: game.Seed}})
}

func playable(game *domain.Game) error {
	if game == nil || game.Board == nil {
		return ErrNoGame
	}
	if game.Phase == domain.PhaseWon {
		return ErrGameOver
	}
	return nil
}

func top(pile []*domain.Card) (domain.Card, bool) {
	if len(pile) == 0 {
		return domain.Card{}, false
	}
	return *pile[len(pile)-1], true
}

func snapshot(cards []*domain.Card) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = *c
	}
	return out
}

func foundationOf(c domain.Card) Location {
	return Location{Kind: LocationFoundation, Index: int(c.Suit())}
}

func moved(from, to Location, cards ...domain.Card) Event {
	return Event{Kind: EventCardsMoved, Payload: CardsMovedPayload{From: from, To: to, Cards: cards}}
}
