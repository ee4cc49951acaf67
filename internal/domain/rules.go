package domain

// canPlayOnFoundation reports whether card is the next rank for its suit's foundation.
// Foundations are built strictly upward starting from the Ace.
func canPlayOnFoundation(card *Card, f *FoundationPile) bool {
	return int(card.rank) == f.value+1
}

// canPlayOnTableau reports whether card may be placed on top of pile.
// Only a King may start an empty pile; otherwise colours alternate and ranks descend by one.
func canPlayOnTableau(card *Card, pile []*Card) bool {
	top, ok := topCard(pile)
	if !ok {
		return card.rank == RankKing
	}
	if top.rank == RankAce {
		return false
	}
	if top.Color() == card.Color() {
		return false
	}
	return top.rank == card.rank+1
}
