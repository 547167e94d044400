package match

import (
	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/engine"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// TieBreak names the rule that decided the winner.
type TieBreak string

const (
	TieBreakNone          TieBreak = "none"
	TieBreakCombatStatSum TieBreak = "combatStatSum"
	TieBreakFirstPlayer   TieBreak = "firstPlayer"
)

// TurnSummary is the per-turn log entry.
type TurnSummary struct {
	Turn              int           `json:"turn"`
	Player            uint8         `json:"player"`
	Cell              uint8         `json:"cell"`
	CardIndex         uint8         `json:"cardIndex"`
	DeclaredCardIndex uint8         `json:"declaredCardIndex"`
	Forced            bool          `json:"forced,omitempty"`
	TokenID           cards.TokenID `json:"tokenId"`
	Card              cards.Card    `json:"card"`
	Modifiers         []Modifier    `json:"modifiers,omitempty"`
	TriadPlus         uint8         `json:"triadPlus,omitempty"`
	WarningDebuffed   bool          `json:"warningDebuffed,omitempty"`
	WarningMarkCell   uint8         `json:"warningMarkCell"`
	Flips             int           `json:"flips"`
	Captures          []Trace       `json:"captures,omitempty"`
	ShieldsBroken     []int         `json:"shieldsBroken,omitempty"`
	// CapReached is set when the chain cap blocked a comparison. The blocked
	// comparison is never evaluated, so it may not have won.
	CapReached        bool          `json:"capReached,omitempty"`
	ComboCount        int           `json:"comboCount"`
	ComboEffect       ComboEffect   `json:"comboEffect"`
}

// Result is the outcome of a fully replayed transcript.
type Result struct {
	// Winner is 0 or 1; the first-player fallback makes a draw impossible.
	Winner          uint8                                 `json:"winner"`
	Tiles           [2]int                                `json:"tiles"`
	TieBreak        TieBreak                              `json:"tieBreak"`
	Board           Board                                 `json:"board"`
	MatchID         engine.Hash                           `json:"matchId"`
	Decks           [2][transcript.DeckSize]cards.TokenID `json:"decks"`
	OpenCards       [2][transcript.DeckSize]bool          `json:"openCards"`
	UsedCardIndices [2][]uint8                            `json:"usedCardIndices"`
	Turns           []TurnSummary                         `json:"turns"`
	// History holds the empty board followed by the board after each turn, when requested.
	History []Board `json:"history,omitempty"`
}

// decide applies the tile count, then combatStatSum of owned cards, then firstPlayer.
func decide(b Board, catalog map[cards.TokenID]cards.Card, firstPlayer uint8) (uint8, [2]int, TieBreak) {
	tiles := b.Count()
	if tiles[0] != tiles[1] {
		if tiles[0] > tiles[1] {
			return 0, tiles, TieBreakNone
		}
		return 1, tiles, TieBreakNone
	}

	var stats [2]uint64
	for _, s := range b {
		if s.Occupied {
			stats[s.Owner] += uint64(catalog[s.Card.TokenID].CombatStatSum)
		}
	}
	if stats[0] != stats[1] {
		if stats[0] > stats[1] {
			return 0, tiles, TieBreakCombatStatSum
		}
		return 1, tiles, TieBreakCombatStatSum
	}
	return firstPlayer, tiles, TieBreakFirstPlayer
}
