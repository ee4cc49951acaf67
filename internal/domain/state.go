package domain

// Phase represents the lifecycle stage of a solitaire game.
type Phase string

const (
	// PhasePlaying is the state while moves are accepted.
	PhasePlaying Phase = "playing"
	// PhaseWon is the state after every foundation is complete.
	PhaseWon Phase = "won"
)

// Game is one dealt solitaire game.
type Game struct {
	Phase Phase
	Seed  int64 // source of the shuffle; the same seed deals the same layout
	Board *Solitaire
}
