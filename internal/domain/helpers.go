package domain

import "math/rand"

// shuffleCards permutes cards in place. rand.Shuffle walks from the last index down,
// swapping each position with a partner drawn from [0, i].
func shuffleCards(cards []*Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// topCard returns the last card of pile.
func topCard(pile []*Card) (*Card, bool) {
	if len(pile) == 0 {
		return nil, false
	}
	return pile[len(pile)-1], true
}

func validTableauIndex(i int) bool {
	return i >= 0 && i < TableauPileCount
}

// CardCount returns how many cards the board accounts for: both deck piles, every
// tableau pile, and the cards implied by the foundation values. It is DeckSize
// throughout a dealt game.
func CardCount(s *Solitaire) int {
	n := len(s.deck.drawPile) + len(s.deck.discardPile)
	for _, pile := range s.tableau {
		n += len(pile)
	}
	for _, f := range s.foundations {
		n += f.value
	}
	return n
}
