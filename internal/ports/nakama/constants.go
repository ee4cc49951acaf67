package nakama

const (
	// RpcNewMatch is the Nakama RPC id clients call to open a private solitaire match.
	RpcNewMatch = "klondike_new_match"
	// RpcResumeMatch finds the caller's running match, if any.
	RpcResumeMatch = "klondike_resume_match"

	// MatchNameKlondike is the authoritative match handler name registered with Nakama.
	MatchNameKlondike = "klondike_match"

	// MatchLabelGame is the value of the "game" key in every match label.
	MatchLabelGame = "klondike"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpNewGame             int64 = 1
	OpDrawCard            int64 = 2
	OpRecycleDiscard      int64 = 3
	OpDiscardToFoundation int64 = 4
	OpDiscardToTableau    int64 = 5
	OpFlipTableau         int64 = 6
	OpMoveTableau         int64 = 7
	OpTableauToFoundation int64 = 8
	OpRequestState        int64 = 9

	// Server -> Client events
	OpStateSnapshot   int64 = 100
	OpGameStarted     int64 = 101
	OpCardDrawn       int64 = 102
	OpDiscardRecycled int64 = 103
	OpCardsMoved      int64 = 104
	OpCardRevealed    int64 = 105
	OpGameWon         int64 = 106
	OpActionRejected  int64 = 110
)

// Error codes carried by OpActionRejected.
const (
	codeBadRequest    = 400
	codeForbidden     = 403
	codeConflict      = 409
	codeUnprocessable = 422
)
