package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ResumeMatchResponse carries the caller's running match, or an empty id when there is none.
type ResumeMatchResponse struct {
	MatchID string `json:"match_id"`
}

// rpcResumeMatch searches for a live match owned by the caller so a reconnecting
// client can rejoin its game instead of dealing a new one.
func rpcResumeMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	limit := 1
	authoritative := true
	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, resumeQuery(userID))
	if err != nil {
		logger.Error("rpcResumeMatch [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	resp := ResumeMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
		logger.Info("rpcResumeMatch [User:%s]: Found match %s", userID, resp.MatchID)
	}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

// resumeQuery matches labels written by matchLabel for the given owner.
func resumeQuery(userID string) string {
	return fmt.Sprintf("+label.game:%s +label.owner:%q", MatchLabelGame, userID)
}
