package domain

import (
	"math/rand"
	"time"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck owns the 52 cards of a game and splits them into a draw pile and a discard pile.
// The draw pile is consumed from the front; the discard pile is a stack.
type Deck struct {
	cards       []*Card
	drawPile    []*Card
	discardPile []*Card
	rng         *rand.Rand
}

// NewDeck creates the 52 cards once. A nil rng falls back to a time-seeded source.
// Call Reset before dealing.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cards := make([]*Card, 0, DeckSize)
	for _, s := range Suits {
		for r := RankAce; r <= RankKing; r++ {
			cards = append(cards, NewCard(s, r))
		}
	}
	return &Deck{cards: cards, rng: rng}
}

// Reset empties the discard pile, returns every card face down to the draw pile and shuffles it.
func (d *Deck) Reset() {
	d.discardPile = d.discardPile[:0]
	d.drawPile = make([]*Card, 0, DeckSize)
	for _, c := range d.cards {
		c.faceUp = false
		d.drawPile = append(d.drawPile, c)
	}
	d.Shuffle()
}

// Shuffle permutes the draw pile in place with a Fisher-Yates pass.
func (d *Deck) Shuffle() {
	shuffleCards(d.drawPile, d.rng)
}

// Draw removes and returns the front of the draw pile. It reports false when the pile is empty.
// The card's face is left as it was.
func (d *Deck) Draw() (*Card, bool) {
	if len(d.drawPile) == 0 {
		return nil, false
	}
	c := d.drawPile[0]
	d.drawPile = d.drawPile[1:]
	return c, true
}

// ShuffleInDiscardPile moves the discard pile, face down and in stack order, to the end of the draw pile.
// Despite the name no randomisation happens.
func (d *Deck) ShuffleInDiscardPile() {
	for _, c := range d.discardPile {
		c.faceUp = false
		d.drawPile = append(d.drawPile, c)
	}
	d.discardPile = d.discardPile[:0]
}

// DrawPile returns the draw pile, front first. Callers must not modify it.
func (d *Deck) DrawPile() []*Card { return d.drawPile }

// DiscardPile returns the discard pile, bottom first. Callers must not modify it.
func (d *Deck) DiscardPile() []*Card { return d.discardPile }

func (d *Deck) pushDiscard(c *Card) {
	d.discardPile = append(d.discardPile, c)
}

func (d *Deck) topDiscard() (*Card, bool) {
	return topCard(d.discardPile)
}

func (d *Deck) popDiscard() {
	if n := len(d.discardPile); n > 0 {
		d.discardPile[n-1] = nil
		d.discardPile = d.discardPile[:n-1]
	}
}
