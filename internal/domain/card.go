package domain

import (
	"fmt"
	"strconv"
)

// Suit is one of the four French suits.
type Suit int

const (
	SuitSpade Suit = iota
	SuitClub
	SuitHeart
	SuitDiamond
)

// Suits lists every suit in foundation order.
var Suits = [...]Suit{SuitSpade, SuitClub, SuitHeart, SuitDiamond}

// Color is the colour printed on a suit.
type Color int

const (
	ColorBlack Color = iota
	ColorRed
)

// Color returns the fixed colour of the suit. An unknown suit is a programming error.
func (s Suit) Color() Color {
	switch s {
	case SuitSpade, SuitClub:
		return ColorBlack
	case SuitHeart, SuitDiamond:
		return ColorRed
	}
	panic(fmt.Sprintf("domain: unknown suit %d", int(s)))
}

func (s Suit) String() string {
	switch s {
	case SuitSpade:
		return "spade"
	case SuitClub:
		return "club"
	case SuitHeart:
		return "heart"
	case SuitDiamond:
		return "diamond"
	default:
		return "?"
	}
}

func (c Color) String() string {
	if c == ColorRed {
		return "red"
	}
	return "black"
}

// Rank is a card value from Ace (1) to King (13).
type Rank int

const (
	RankAce   Rank = 1
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// Valid reports whether r is within Ace..King.
func (r Rank) Valid() bool {
	return r >= RankAce && r <= RankKing
}

func (r Rank) String() string {
	switch r {
	case RankAce:
		return "A"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	}
	if r.Valid() {
		return strconv.Itoa(int(r))
	}
	return "?"
}

// Card is a playing card. Its suit and rank never change; only the face-up flag does.
type Card struct {
	suit   Suit
	rank   Rank
	faceUp bool
}

// NewCard returns a face-down card. It panics on a rank outside Ace..King.
func NewCard(suit Suit, rank Rank) *Card {
	if !rank.Valid() {
		panic(fmt.Sprintf("domain: invalid rank %d", int(rank)))
	}
	return &Card{suit: suit, rank: rank}
}

func (c *Card) Suit() Suit   { return c.suit }
func (c *Card) Rank() Rank   { return c.rank }
func (c *Card) FaceUp() bool { return c.faceUp }
func (c *Card) Color() Color { return c.suit.Color() }

// Flip turns the card over.
func (c *Card) Flip() {
	c.faceUp = !c.faceUp
}

func (c *Card) String() string {
	return c.rank.String() + " of " + c.suit.String()
}
