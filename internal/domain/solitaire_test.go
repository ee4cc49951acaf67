package domain

import (
	"math/rand"
	"testing"
)

func newTestGame(seed int64) *Solitaire {
	s := NewSolitaire(rand.New(rand.NewSource(seed)))
	s.NewGame()
	return s
}

// emptyBoard returns a dealt board with every pile emptied so tests can lay out cards by hand.
func emptyBoard() *Solitaire {
	s := newTestGame(1)
	s.deck.drawPile = nil
	s.deck.discardPile = nil
	for i := range s.tableau {
		s.tableau[i] = nil
	}
	return s
}

func up(suit Suit, rank Rank) *Card   { return &Card{suit: suit, rank: rank, faceUp: true} }
func down(suit Suit, rank Rank) *Card { return &Card{suit: suit, rank: rank} }

func assertConserved(t *testing.T, s *Solitaire) {
	t.Helper()
	if n := CardCount(s); n != DeckSize {
		t.Fatalf("CardCount() = %d, want %d", n, DeckSize)
	}

	seen := make(map[cardKey]bool)
	add := func(c *Card) {
		if seen[keyOf(c)] {
			t.Fatalf("card %v present twice", c)
		}
		seen[keyOf(c)] = true
	}
	for _, c := range s.DrawPile() {
		add(c)
	}
	for _, c := range s.DiscardPile() {
		add(c)
	}
	for _, pile := range s.TableauPiles() {
		for _, c := range pile {
			add(c)
		}
	}
	for _, f := range s.FoundationPiles() {
		for r := 1; r <= f.Value(); r++ {
			add(&Card{suit: f.Suit(), rank: Rank(r)})
		}
	}
	if len(seen) != DeckSize {
		t.Fatalf("distinct cards = %d, want %d", len(seen), DeckSize)
	}
}

func TestNewGameDealsTriangle(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s := newTestGame(seed)

		total := 0
		for p, pile := range s.TableauPiles() {
			if len(pile) != p+1 {
				t.Fatalf("seed %d: pile %d has %d cards, want %d", seed, p, len(pile), p+1)
			}
			for i, c := range pile {
				wantUp := i == len(pile)-1
				if c.FaceUp() != wantUp {
					t.Fatalf("seed %d: pile %d card %d faceUp = %t", seed, p, i, c.FaceUp())
				}
			}
			total += len(pile)
		}
		if total != 28 {
			t.Fatalf("dealt %d cards, want 28", total)
		}
		if len(s.DrawPile()) != 24 {
			t.Fatalf("draw pile = %d, want 24", len(s.DrawPile()))
		}
		if len(s.DiscardPile()) != 0 {
			t.Fatalf("discard pile = %d, want 0", len(s.DiscardPile()))
		}
		for _, f := range s.FoundationPiles() {
			if f.Value() != 0 {
				t.Fatalf("foundation %s = %d, want 0", f.Suit(), f.Value())
			}
		}
		if s.WonGame() {
			t.Fatalf("fresh game must not be won")
		}
		assertConserved(t, s)
	}
}

func TestNewGameResetsPreviousGame(t *testing.T) {
	s := newTestGame(7)
	for s.DrawCard() {
	}
	s.Foundation(SuitHeart).value = 5

	s.NewGame()
	if len(s.DrawPile()) != 24 || len(s.DiscardPile()) != 0 {
		t.Fatalf("piles = %d/%d", len(s.DrawPile()), len(s.DiscardPile()))
	}
	if s.Foundation(SuitHeart).Value() != 0 {
		t.Fatalf("foundation not reset")
	}
	assertConserved(t, s)
}

func TestDrawCard(t *testing.T) {
	s := newTestGame(2)
	front := s.DrawPile()[0]

	if !s.DrawCard() {
		t.Fatalf("DrawCard() = false with cards available")
	}
	discard := s.DiscardPile()
	if len(discard) != 1 || discard[0] != front {
		t.Fatalf("discard top = %v, want %v", discard, front)
	}
	if !front.FaceUp() {
		t.Fatalf("drawn card should be face up")
	}
	if len(s.DrawPile()) != 23 {
		t.Fatalf("draw pile = %d, want 23", len(s.DrawPile()))
	}
	assertConserved(t, s)

	for s.DrawCard() {
	}
	if len(s.DrawPile()) != 0 || len(s.DiscardPile()) != 24 {
		t.Fatalf("piles = %d/%d", len(s.DrawPile()), len(s.DiscardPile()))
	}
	if s.DrawCard() {
		t.Fatalf("DrawCard() = true on empty draw pile")
	}
}

func TestShuffleDiscardPile(t *testing.T) {
	s := newTestGame(3)
	for len(s.DrawPile()) > 0 {
		if s.ShuffleDiscardPile() {
			t.Fatalf("recycled with %d cards in draw pile", len(s.DrawPile()))
		}
		s.DrawCard()
	}

	order := append([]*Card(nil), s.DiscardPile()...)
	if !s.ShuffleDiscardPile() {
		t.Fatalf("ShuffleDiscardPile() = false with empty draw pile")
	}
	if len(s.DiscardPile()) != 0 {
		t.Fatalf("discard pile should be empty")
	}
	for i, c := range s.DrawPile() {
		if c != order[i] || c.FaceUp() {
			t.Fatalf("draw pile[%d] = %v (up=%t), want %v face down", i, c, c.FaceUp(), order[i])
		}
	}
	assertConserved(t, s)

	// Recycling an empty discard pile is allowed and changes nothing.
	s = emptyBoard()
	if !s.ShuffleDiscardPile() {
		t.Fatalf("ShuffleDiscardPile() on empty piles = false")
	}
}

func TestFoundationRule(t *testing.T) {
	tests := []struct {
		name  string
		value int
		rank  Rank
		want  bool
	}{
		{name: "ace on empty", value: 0, rank: RankAce, want: true},
		{name: "two on empty", value: 0, rank: 2, want: false},
		{name: "two on ace", value: 1, rank: 2, want: true},
		{name: "three on ace", value: 1, rank: 3, want: false},
		{name: "ace on ace", value: 1, rank: RankAce, want: false},
		{name: "king on queen", value: 12, rank: RankKing, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &FoundationPile{suit: SuitClub, value: tt.value}
			if got := canPlayOnFoundation(up(SuitClub, tt.rank), f); got != tt.want {
				t.Fatalf("canPlayOnFoundation() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestTableauRule(t *testing.T) {
	tests := []struct {
		name string
		pile []*Card
		card *Card
		want bool
	}{
		{name: "black seven on red eight", pile: []*Card{up(SuitHeart, 8)}, card: up(SuitSpade, 7), want: true},
		{name: "red eight on red eight", pile: []*Card{up(SuitHeart, 8)}, card: up(SuitDiamond, 8), want: false},
		{name: "black six on red eight", pile: []*Card{up(SuitHeart, 8)}, card: up(SuitClub, 6), want: false},
		{name: "red seven on red eight", pile: []*Card{up(SuitDiamond, 8)}, card: up(SuitHeart, 7), want: false},
		{name: "black nine on red eight", pile: []*Card{up(SuitHeart, 8)}, card: up(SuitClub, 9), want: false},
		{name: "king on empty", pile: nil, card: up(SuitSpade, RankKing), want: true},
		{name: "queen on empty", pile: nil, card: up(SuitHeart, RankQueen), want: false},
		{name: "ace on empty", pile: nil, card: up(SuitHeart, RankAce), want: false},
		{name: "anything on ace", pile: []*Card{up(SuitHeart, RankAce)}, card: up(SuitSpade, RankKing), want: false},
		{name: "red queen on black king", pile: []*Card{down(SuitHeart, 3), up(SuitClub, RankKing)}, card: up(SuitDiamond, RankQueen), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canPlayOnTableau(tt.card, tt.pile); got != tt.want {
				t.Fatalf("canPlayOnTableau() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestPlayDiscardPileCardToFoundation(t *testing.T) {
	s := emptyBoard()
	if s.PlayDiscardPileCardToFoundation() {
		t.Fatalf("played from empty discard pile")
	}

	s.deck.discardPile = []*Card{up(SuitHeart, RankAce), up(SuitSpade, 2)}
	if s.PlayDiscardPileCardToFoundation() {
		t.Fatalf("played a two onto an empty foundation")
	}
	if len(s.DiscardPile()) != 2 || s.Foundation(SuitSpade).Value() != 0 {
		t.Fatalf("failed move mutated state")
	}

	s.deck.discardPile = []*Card{up(SuitSpade, 2), up(SuitSpade, RankAce)}
	if !s.PlayDiscardPileCardToFoundation() {
		t.Fatalf("ace rejected")
	}
	if !s.PlayDiscardPileCardToFoundation() {
		t.Fatalf("two after ace rejected")
	}
	if s.Foundation(SuitSpade).Value() != 2 || len(s.DiscardPile()) != 0 {
		t.Fatalf("foundation = %d discard = %d", s.Foundation(SuitSpade).Value(), len(s.DiscardPile()))
	}
}

func TestPlayDiscardPileCardToTableau(t *testing.T) {
	s := emptyBoard()
	s.tableau[2] = []*Card{down(SuitClub, 4), up(SuitHeart, 8)}
	s.deck.discardPile = []*Card{up(SuitSpade, 7)}

	for _, target := range []int{-1, 7, 0} {
		if s.PlayDiscardPileCardToTableau(target) {
			t.Fatalf("target %d accepted", target)
		}
	}
	if !s.PlayDiscardPileCardToTableau(2) {
		t.Fatalf("black seven on red eight rejected")
	}
	if len(s.tableau[2]) != 3 || s.tableau[2][2].Rank() != 7 || len(s.DiscardPile()) != 0 {
		t.Fatalf("unexpected state after move: %v / %v", s.tableau[2], s.DiscardPile())
	}
	if s.PlayDiscardPileCardToTableau(2) {
		t.Fatalf("move from empty discard pile accepted")
	}

	s.deck.discardPile = []*Card{up(SuitHeart, RankKing)}
	if !s.PlayDiscardPileCardToTableau(0) {
		t.Fatalf("king onto empty pile rejected")
	}
}

func TestFlipTopTableauCard(t *testing.T) {
	s := emptyBoard()
	s.tableau[0] = []*Card{down(SuitClub, 4)}
	s.tableau[1] = []*Card{up(SuitClub, 5)}

	tests := []struct {
		name  string
		index int
		want  bool
	}{
		{name: "negative index", index: -1, want: false},
		{name: "index past end", index: TableauPileCount, want: false},
		{name: "empty pile", index: 3, want: false},
		{name: "already face up", index: 1, want: false},
		{name: "face down top", index: 0, want: true},
		{name: "second flip", index: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.FlipTopTableauCard(tt.index); got != tt.want {
				t.Fatalf("FlipTopTableauCard(%d) = %t, want %t", tt.index, got, tt.want)
			}
		})
	}
	if !s.tableau[0][0].FaceUp() {
		t.Fatalf("card not revealed")
	}
}

func TestMoveTableauCardsToAnotherTableau(t *testing.T) {
	s := emptyBoard()
	s.tableau[0] = []*Card{down(SuitClub, 2), up(SuitHeart, 9), up(SuitSpade, 8), up(SuitDiamond, 7)}
	s.tableau[1] = []*Card{down(SuitDiamond, 3), up(SuitClub, 10)}
	s.tableau[2] = []*Card{up(SuitSpade, 9)}

	rejected := []struct {
		name                string
		src, cardIndex, dst int
	}{
		{name: "bad source", src: -1, cardIndex: 0, dst: 1},
		{name: "bad destination", src: 0, cardIndex: 1, dst: 8},
		{name: "same pile", src: 0, cardIndex: 1, dst: 0},
		{name: "card index past end", src: 0, cardIndex: 4, dst: 1},
		{name: "negative card index", src: 0, cardIndex: -1, dst: 1},
		{name: "face down card", src: 0, cardIndex: 0, dst: 1},
		{name: "face down card onto empty", src: 0, cardIndex: 0, dst: 5},
		{name: "wrong rank", src: 0, cardIndex: 2, dst: 1},
		{name: "same colour", src: 2, cardIndex: 0, dst: 1},
		{name: "non-king onto empty", src: 0, cardIndex: 1, dst: 4},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			if s.MoveTableauCardsToAnotherTableau(tt.src, tt.cardIndex, tt.dst) {
				t.Fatalf("move accepted")
			}
			if len(s.tableau[0]) != 4 || len(s.tableau[1]) != 2 || len(s.tableau[2]) != 1 {
				t.Fatalf("rejected move mutated piles")
			}
		})
	}

	// red nine, black eight, red seven onto the black ten
	if !s.MoveTableauCardsToAnotherTableau(0, 1, 1) {
		t.Fatalf("run move rejected")
	}
	if len(s.tableau[0]) != 1 {
		t.Fatalf("source pile = %d, want 1", len(s.tableau[0]))
	}
	want := []Rank{3, 10, 9, 8, 7}
	if len(s.tableau[1]) != len(want) {
		t.Fatalf("destination pile = %d, want %d", len(s.tableau[1]), len(want))
	}
	for i, r := range want {
		if s.tableau[1][i].Rank() != r {
			t.Fatalf("destination[%d] = %v, want rank %d", i, s.tableau[1][i], r)
		}
	}

	// the single top card can move too
	s.tableau[3] = []*Card{up(SuitClub, 8)}
	if !s.MoveTableauCardsToAnotherTableau(1, 4, 3) {
		t.Fatalf("single card move rejected")
	}
	if len(s.tableau[1]) != 4 || len(s.tableau[3]) != 2 {
		t.Fatalf("piles after single move = %d/%d", len(s.tableau[1]), len(s.tableau[3]))
	}
}

func TestMoveKingRunToEmptyPile(t *testing.T) {
	s := emptyBoard()
	s.tableau[6] = []*Card{down(SuitClub, 2), up(SuitHeart, RankKing), up(SuitSpade, RankQueen)}

	if !s.MoveTableauCardsToAnotherTableau(6, 1, 0) {
		t.Fatalf("king run onto empty pile rejected")
	}
	if len(s.tableau[0]) != 2 || len(s.tableau[6]) != 1 {
		t.Fatalf("piles = %d/%d", len(s.tableau[0]), len(s.tableau[6]))
	}
	if !s.FlipTopTableauCard(6) {
		t.Fatalf("exposed card could not be flipped")
	}
}

func TestMoveTableauCardToFoundation(t *testing.T) {
	s := emptyBoard()
	s.tableau[0] = []*Card{down(SuitClub, 5), up(SuitHeart, RankAce)}
	s.tableau[1] = []*Card{up(SuitHeart, 3)}

	for _, idx := range []int{-1, 7, 2, 1} {
		if s.MoveTableauCardToFoundation(idx) {
			t.Fatalf("index %d accepted", idx)
		}
	}
	if !s.MoveTableauCardToFoundation(0) {
		t.Fatalf("ace rejected")
	}
	if s.Foundation(SuitHeart).Value() != 1 || len(s.tableau[0]) != 1 {
		t.Fatalf("foundation %d pile %d", s.Foundation(SuitHeart).Value(), len(s.tableau[0]))
	}
	if s.MoveTableauCardToFoundation(0) {
		t.Fatalf("five of clubs accepted onto empty foundation")
	}
}

func TestWonGame(t *testing.T) {
	s := emptyBoard()
	for _, f := range s.FoundationPiles() {
		f.value = int(RankKing)
	}
	if !s.WonGame() {
		t.Fatalf("WonGame() = false with every foundation at King")
	}
	assertConserved(t, s)

	s.Foundation(SuitDiamond).value = 12
	if s.WonGame() {
		t.Fatalf("WonGame() = true with an incomplete foundation")
	}
}

func TestFoundationLookupPanicsOnUnknownSuit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewSolitaire(nil).Foundation(Suit(4))
}

// TestRandomPlayConservesCards drives a game with random legal-or-not actions and checks
// the board never gains, loses or duplicates a card.
func TestRandomPlayConservesCards(t *testing.T) {
	s := newTestGame(21)
	rng := rand.New(rand.NewSource(21))
	for step := 0; step < 5000; step++ {
		switch rng.Intn(7) {
		case 0:
			s.DrawCard()
		case 1:
			s.ShuffleDiscardPile()
		case 2:
			s.PlayDiscardPileCardToFoundation()
		case 3:
			s.PlayDiscardPileCardToTableau(rng.Intn(TableauPileCount))
		case 4:
			s.FlipTopTableauCard(rng.Intn(TableauPileCount))
		case 5:
			src := rng.Intn(TableauPileCount)
			s.MoveTableauCardsToAnotherTableau(src, rng.Intn(len(s.TableauPile(src))+1), rng.Intn(TableauPileCount))
		case 6:
			s.MoveTableauCardToFoundation(rng.Intn(TableauPileCount))
		}
		assertConserved(t, s)
		assertTableauOrdered(t, s)
	}
}

func assertTableauOrdered(t *testing.T, s *Solitaire) {
	t.Helper()
	for p, pile := range s.TableauPiles() {
		seenUp := false
		for i, c := range pile {
			if !c.FaceUp() {
				if seenUp {
					t.Fatalf("pile %d: face-down card above face-up run at %d", p, i)
				}
				continue
			}
			if seenUp {
				below := pile[i-1]
				if below.Rank() != c.Rank()+1 || below.Color() == c.Color() {
					t.Fatalf("pile %d: %v does not follow %v", p, c, below)
				}
			}
			seenUp = true
		}
	}
}
