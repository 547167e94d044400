package transcript

import (
	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
)

// Validate checks every structural invariant of t without consulting a ruleset:
// turn count, field ranges, distinct cells, per-player distinct card indices and
// warning mark targets that are still empty and unmarked.
func Validate(t Transcript) error {
	if err := ValidateHeader(t.Header); err != nil {
		return err
	}
	h := t.Header

	if len(t.Turns) != TurnCount {
		return Malformedf(HeaderTurn, "turns", "want exactly %d turns, got %d", TurnCount, len(t.Turns))
	}

	var occupied [BoardCells]bool
	var marked [BoardCells]bool
	var used [2][DeckSize]bool
	for i, turn := range t.Turns {
		if err := validateRanges(i, turn); err != nil {
			return err
		}
		if occupied[turn.Cell] {
			return Malformedf(i, "cell", "cell %d already used", turn.Cell)
		}
		occupied[turn.Cell] = true
		marked[turn.Cell] = false

		actor := h.Actor(i)
		if used[actor][turn.CardIndex] {
			return Malformedf(i, "cardIndex", "player %d already played card %d", actor, turn.CardIndex)
		}
		used[actor][turn.CardIndex] = true

		if turn.HasWarningMark() {
			m := turn.WarningMarkCell
			if occupied[m] {
				return Malformedf(i, "warningMarkCell", "cell %d is occupied", m)
			}
			if marked[m] {
				return Malformedf(i, "warningMarkCell", "cell %d is already marked", m)
			}
			marked[m] = true
		}
	}
	return nil
}

// ValidateHeader checks the header fields that need no ruleset.
func ValidateHeader(h Header) error {
	if h.Version != ProtocolVersion {
		return Malformedf(HeaderTurn, "version", "unsupported protocol version %d", h.Version)
	}
	if h.FirstPlayer > 1 {
		return Malformedf(HeaderTurn, "firstPlayer", "must be 0 or 1, got %d", h.FirstPlayer)
	}
	for p := uint8(0); p < 2; p++ {
		seen := make(map[cards.TokenID]bool, DeckSize)
		for _, id := range h.Deck(p) {
			if seen[id] {
				return Malformedf(HeaderTurn, deckField(p), "token %d listed twice", id)
			}
			seen[id] = true
		}
	}

	return nil
}

// ValidateTurn checks the ranges of a single turn.
func ValidateTurn(i int, turn Turn) error {
	return validateRanges(i, turn)
}

func validateRanges(i int, turn Turn) error {
	if turn.Cell >= BoardCells {
		return Malformedf(i, "cell", "%d outside 0..%d", turn.Cell, BoardCells-1)
	}
	if turn.CardIndex >= DeckSize {
		return Malformedf(i, "cardIndex", "%d outside 0..%d", turn.CardIndex, DeckSize-1)
	}
	if turn.WarningMarkCell != None && turn.WarningMarkCell >= BoardCells {
		return Malformedf(i, "warningMarkCell", "%d is neither a cell nor none", turn.WarningMarkCell)
	}
	if turn.EarthBoostEdge != None && turn.EarthBoostEdge > uint8(cards.Left) {
		return Malformedf(i, "earthBoostEdge", "%d is neither an edge nor none", turn.EarthBoostEdge)
	}
	return nil
}

func deckField(p uint8) string {
	if p == 0 {
		return "deckA"
	}
	return "deckB"
}

// CheckRuleset verifies that t only uses features r enables and that the header
// names r. Run Validate first.
func CheckRuleset(t Transcript, r rules.Ruleset) error {
	if err := CheckHeader(t.Header, r); err != nil {
		return err
	}

	wm := r.Tactics.WarningMark
	var marks [2]int
	for i, turn := range t.Turns {
		if err := CheckTurn(i, turn, r); err != nil {
			return err
		}
		if turn.HasWarningMark() {
			actor := t.Header.Actor(i)
			marks[actor]++
			if marks[actor] > int(wm.UsesPerPlayer) {
				return Violationf(i, "player %d exceeds %d warning marks", actor, wm.UsesPerPlayer)
			}
		}
	}
	return nil
}

// CheckHeader verifies that the header names r by its rulesetId.
func CheckHeader(h Header, r rules.Ruleset) error {
	id, err := rules.ComputeID(r)
	if err != nil {
		return err
	}
	if id != h.RulesetID {
		return Violationf(HeaderTurn, "header rulesetId %s does not match ruleset %s", h.RulesetID, id)
	}
	return nil
}

// CheckTurn reports a per-turn feature that r does not enable.
func CheckTurn(i int, turn Turn, r rules.Ruleset) error {
	if turn.HasWarningMark() && !r.Tactics.WarningMark.Enabled {
		return Violationf(i, "warning marks are disabled")
	}
	if turn.HasEarthBoost() && !r.Synergy.TraitEffects.Has(cards.TraitEarth) {
		return Violationf(i, "earth boost is not part of this ruleset")
	}
	return nil
}
