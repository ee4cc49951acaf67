package domain

import (
	"fmt"
	"math/rand"
)

// TableauPileCount is the number of tableau piles in Klondike.
const TableauPileCount = 7

// Solitaire is the Klondike board: a deck, one foundation per suit and seven tableau piles.
// Every action validates first and returns false without touching state when the move is illegal.
// It is not safe for concurrent use.
type Solitaire struct {
	deck        *Deck
	foundations [len(Suits)]*FoundationPile
	tableau     [TableauPileCount][]*Card
}

// NewSolitaire builds an undealt board whose shuffles draw from rng. Call NewGame to deal.
func NewSolitaire(rng *rand.Rand) *Solitaire {
	s := &Solitaire{deck: NewDeck(rng)}
	for i, suit := range Suits {
		s.foundations[i] = NewFoundationPile(suit)
	}
	return s
}

// NewGame resets the deck and foundations and deals the tableau.
// Pile p ends with p+1 cards, only the top one face up; 24 cards stay in the draw pile.
func (s *Solitaire) NewGame() {
	s.deck.Reset()
	for _, f := range s.foundations {
		f.Reset()
	}
	for i := range s.tableau {
		s.tableau[i] = make([]*Card, 0, TableauPileCount+int(RankKing))
	}

	for round := 0; round < TableauPileCount; round++ {
		for p := round; p < TableauPileCount; p++ {
			c, ok := s.deck.Draw()
			if !ok {
				panic("domain: deck exhausted while dealing")
			}
			if p == round {
				c.Flip()
			}
			s.tableau[p] = append(s.tableau[p], c)
		}
	}
}

// DrawCard turns the front of the draw pile face up onto the discard pile.
func (s *Solitaire) DrawCard() bool {
	c, ok := s.deck.Draw()
	if !ok {
		return false
	}
	c.faceUp = true
	s.deck.pushDiscard(c)
	return true
}

// ShuffleDiscardPile recycles the discard pile into the draw pile once the draw pile is empty.
func (s *Solitaire) ShuffleDiscardPile() bool {
	if len(s.deck.drawPile) > 0 {
		return false
	}
	s.deck.ShuffleInDiscardPile()
	return true
}

// PlayDiscardPileCardToFoundation plays the top discard onto its suit's foundation.
func (s *Solitaire) PlayDiscardPileCardToFoundation() bool {
	c, ok := s.deck.topDiscard()
	if !ok {
		return false
	}
	f := s.Foundation(c.suit)
	if !canPlayOnFoundation(c, f) {
		return false
	}
	f.AddCard()
	s.deck.popDiscard()
	return true
}

// PlayDiscardPileCardToTableau places the top discard on tableau pile target.
func (s *Solitaire) PlayDiscardPileCardToTableau(target int) bool {
	if !validTableauIndex(target) {
		return false
	}
	c, ok := s.deck.topDiscard()
	if !ok || !canPlayOnTableau(c, s.tableau[target]) {
		return false
	}
	s.tableau[target] = append(s.tableau[target], c)
	s.deck.popDiscard()
	return true
}

// FlipTopTableauCard reveals the face-down top card of a tableau pile.
func (s *Solitaire) FlipTopTableauCard(index int) bool {
	if !validTableauIndex(index) {
		return false
	}
	c, ok := topCard(s.tableau[index])
	if !ok || c.faceUp {
		return false
	}
	c.Flip()
	return true
}

// MoveTableauCardsToAnotherTableau moves the card at cardIndex of pile src, together with
// everything stacked on it, onto pile dst. Only the moved card is checked against dst's top;
// the run above it is already ordered.
func (s *Solitaire) MoveTableauCardsToAnotherTableau(src, cardIndex, dst int) bool {
	if !validTableauIndex(src) || !validTableauIndex(dst) || src == dst {
		return false
	}
	from := s.tableau[src]
	if cardIndex < 0 || cardIndex >= len(from) {
		return false
	}
	c := from[cardIndex]
	if !c.faceUp || !canPlayOnTableau(c, s.tableau[dst]) {
		return false
	}
	s.tableau[dst] = append(s.tableau[dst], from[cardIndex:]...)
	clear(from[cardIndex:])
	s.tableau[src] = from[:cardIndex]
	return true
}

// MoveTableauCardToFoundation plays the top card of a tableau pile onto its foundation.
func (s *Solitaire) MoveTableauCardToFoundation(index int) bool {
	if !validTableauIndex(index) {
		return false
	}
	pile := s.tableau[index]
	c, ok := topCard(pile)
	if !ok {
		return false
	}
	f := s.Foundation(c.suit)
	if !canPlayOnFoundation(c, f) {
		return false
	}
	f.AddCard()
	pile[len(pile)-1] = nil
	s.tableau[index] = pile[:len(pile)-1]
	return true
}

// WonGame reports whether every foundation holds its King.
func (s *Solitaire) WonGame() bool {
	for _, f := range s.foundations {
		if !f.Complete() {
			return false
		}
	}
	return true
}

func (s *Solitaire) DrawPile() []*Card    { return s.deck.DrawPile() }
func (s *Solitaire) DiscardPile() []*Card { return s.deck.DiscardPile() }

// TableauPiles returns the seven piles, bottom card first. The slices are shared with the board.
func (s *Solitaire) TableauPiles() [TableauPileCount][]*Card { return s.tableau }

// TableauPile returns pile i, or nil for an out-of-range index.
func (s *Solitaire) TableauPile(i int) []*Card {
	if !validTableauIndex(i) {
		return nil
	}
	return s.tableau[i]
}

func (s *Solitaire) FoundationPiles() [len(Suits)]*FoundationPile { return s.foundations }

// Foundation returns the foundation for suit. An unknown suit is a programming error.
func (s *Solitaire) Foundation(suit Suit) *FoundationPile {
	switch suit {
	case SuitSpade:
		return s.foundations[0]
	case SuitClub:
		return s.foundations[1]
	case SuitHeart:
		return s.foundations[2]
	case SuitDiamond:
		return s.foundations[3]
	}
	panic(fmt.Sprintf("domain: no foundation for suit %d", int(suit)))
}
