package domain

// FoundationPile tracks the highest rank played onto a suit's foundation. Zero means empty.
type FoundationPile struct {
	suit  Suit
	value int
}

// NewFoundationPile returns an empty foundation for suit.
func NewFoundationPile(suit Suit) *FoundationPile {
	return &FoundationPile{suit: suit}
}

func (f *FoundationPile) Suit() Suit { return f.suit }

// Value is the rank of the top card, 0 when empty.
func (f *FoundationPile) Value() int { return f.value }

// Complete reports whether the King has been played.
func (f *FoundationPile) Complete() bool { return f.value == int(RankKing) }

// AddCard raises the value by one, stopping at King. Suit and order are checked by the caller.
func (f *FoundationPile) AddCard() {
	if f.value < int(RankKing) {
		f.value++
	}
}

func (f *FoundationPile) Reset() {
	f.value = 0
}
