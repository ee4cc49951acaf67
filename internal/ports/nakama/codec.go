package nakama

import (
	"fmt"
	"math"
	"strconv"

	"klondike/internal/app"
	"klondike/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Every payload on the socket is a google.protobuf.Struct in binary wire format.

func encodeFields(fields map[string]any) ([]byte, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return proto.Marshal(st)
}

// decodeRequest parses a client payload. An empty payload is an empty request.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	st := &structpb.Struct{}
	if len(data) == 0 {
		return st, nil
	}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return st, nil
}

// intField reads a whole number from a request.
func intField(st *structpb.Struct, key string) (int, error) {
	v, ok := st.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("field %q is not an integer", key)
	}
	return int(f), nil
}

func stringField(st *structpb.Struct, key string) string {
	return st.GetFields()[key].GetStringValue()
}

// cardFields hides the identity of face-down cards.
func cardFields(c domain.Card) map[string]any {
	if !c.FaceUp() {
		return map[string]any{"face_up": false}
	}
	return map[string]any{
		"face_up": true,
		"suit":    c.Suit().String(),
		"rank":    int(c.Rank()),
		"color":   c.Color().String(),
	}
}

func cardList(cards []*domain.Card) []any {
	out := make([]any, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardFields(*c))
	}
	return out
}

func locationFields(l app.Location) map[string]any {
	return map[string]any{"kind": string(l.Kind), "index": l.Index}
}

// snapshotFields renders the public board. The draw pile is face down, so only its size is sent.
func snapshotFields(game *domain.Game) map[string]any {
	if game == nil {
		return map[string]any{"phase": phaseWaiting}
	}
	board := game.Board

	tableau := make([]any, 0, domain.TableauPileCount)
	for _, pile := range board.TableauPiles() {
		tableau = append(tableau, cardList(pile))
	}
	foundations := make([]any, 0, len(domain.Suits))
	for _, f := range board.FoundationPiles() {
		foundations = append(foundations, map[string]any{"suit": f.Suit().String(), "value": f.Value()})
	}

	fields := map[string]any{
		"phase":       string(game.Phase),
		"draw_count":  len(board.DrawPile()),
		"discard":     cardList(board.DiscardPile()),
		"tableau":     tableau,
		"foundations": foundations,
		"won":         board.WonGame(),
	}
	// The seed regenerates the whole deal; it is only public once nothing is hidden.
	if game.Phase == domain.PhaseWon {
		fields["seed"] = strconv.FormatInt(game.Seed, 10)
	}
	return fields
}

// eventMessage maps an app event to its op code and payload.
func eventMessage(ev app.Event) (int64, map[string]any, error) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return OpGameStarted, map[string]any{}, nil
	case app.CardDrawnPayload:
		return OpCardDrawn, map[string]any{"card": cardFields(p.Card)}, nil
	case app.DiscardRecycledPayload:
		return OpDiscardRecycled, map[string]any{"count": p.Count}, nil
	case app.CardsMovedPayload:
		cards := make([]any, 0, len(p.Cards))
		for _, c := range p.Cards {
			cards = append(cards, cardFields(c))
		}
		return OpCardsMoved, map[string]any{
			"from":  locationFields(p.From),
			"to":    locationFields(p.To),
			"cards": cards,
		}, nil
	case app.CardRevealedPayload:
		return OpCardRevealed, map[string]any{"pile": p.Pile, "card": cardFields(p.Card)}, nil
	case app.GameWonPayload:
		return OpGameWon, map[string]any{"seed": strconv.FormatInt(p.Seed, 10)}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event kind: %v", ev.Kind)
	}
}

// matchLabel renders the label Nakama indexes for match listing.
func matchLabel(state *MatchState) (string, error) {
	phase := phaseWaiting
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	label, err := structpb.NewStruct(map[string]any{
		"game":  MatchLabelGame,
		"owner": state.OwnerUserID,
		"phase": phase,
	})
	if err != nil {
		return "", err
	}
	b, err := protojson.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
