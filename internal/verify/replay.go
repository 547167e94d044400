// Package verify re-simulates transcripts and checks them against an expected
// match identifier, one at a time or across a worker pool.
package verify

import (
	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/engine"
	"github.com/MJE43/triad-replay-go/internal/match"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// Report is the audit outcome of one transcript. OK is false on a matchId
// mismatch; simulation failures are returned as errors instead.
type Report struct {
	OK          bool           `json:"ok"`
	MatchID     engine.Hash    `json:"matchId"`
	Expected    engine.Hash    `json:"expected"`
	Winner      uint8          `json:"winner"`
	FirstPlayer uint8          `json:"firstPlayer"`
	Tiles       [2]int         `json:"tiles"`
	TieBreak    match.TieBreak `json:"tieBreak"`
}

// Replay simulates t and compares the recomputed matchId with expected.
func Replay(t transcript.Transcript, p cards.Provider, expected engine.Hash, r rules.Ruleset) (Report, error) {
	res, err := match.Simulate(t, p, r)
	if err != nil {
		return Report{}, err
	}
	return Report{
		OK:          res.MatchID == expected,
		MatchID:     res.MatchID,
		Expected:    expected,
		Winner:      res.Winner,
		FirstPlayer: t.Header.FirstPlayer,
		Tiles:       res.Tiles,
		TieBreak:    res.TieBreak,
	}, nil
}
