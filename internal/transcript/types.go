// Package transcript defines the match header and turn record shared with the
// on-chain verifier, together with its validation, codec and match identifier.
package transcript

import (
	"encoding/json"
	"fmt"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/engine"
)

const (
	BoardCells = 9
	DeckSize   = 5
	TurnCount  = BoardCells

	// None marks an absent warning mark cell or earth boost edge.
	None uint8 = 255

	// ProtocolVersion is the header version this engine produces.
	ProtocolVersion uint16 = 1
)

// Header is immutable once a match begins.
type Header struct {
	Version     uint16                  `json:"version"`
	RulesetID   engine.Hash             `json:"rulesetId"`
	SeasonID    uint32                  `json:"seasonId"`
	PlayerA     engine.Address          `json:"playerA"`
	PlayerB     engine.Address          `json:"playerB"`
	DeckA       [DeckSize]cards.TokenID `json:"deckA"`
	DeckB       [DeckSize]cards.TokenID `json:"deckB"`
	FirstPlayer uint8                   `json:"firstPlayer"`
	Deadline    uint64                  `json:"deadline"`
	Salt        engine.Hash             `json:"salt"`
}

// Deck returns the declared deck of player 0 (A) or 1 (B).
func (h Header) Deck(player uint8) [DeckSize]cards.TokenID {
	if player == 0 {
		return h.DeckA
	}
	return h.DeckB
}

// Player returns the address of player 0 (A) or 1 (B).
func (h Header) Player(player uint8) engine.Address {
	if player == 0 {
		return h.PlayerA
	}
	return h.PlayerB
}

// TokenIDs lists both decks, A first.
func (h Header) TokenIDs() []cards.TokenID {
	out := make([]cards.TokenID, 0, 2*DeckSize)
	out = append(out, h.DeckA[:]...)
	return append(out, h.DeckB[:]...)
}

// Turn is one placement. WarningMarkCell and EarthBoostEdge use None when absent.
type Turn struct {
	Cell            uint8
	CardIndex       uint8
	WarningMarkCell uint8
	EarthBoostEdge  uint8
}

// Place is a turn without tactics.
func Place(cell, cardIndex uint8) Turn {
	return Turn{Cell: cell, CardIndex: cardIndex, WarningMarkCell: None, EarthBoostEdge: None}
}

// WithMark returns t marking cell.
func (t Turn) WithMark(cell uint8) Turn {
	t.WarningMarkCell = cell
	return t
}

// WithEarthBoost returns t boosting edge.
func (t Turn) WithEarthBoost(edge cards.Direction) Turn {
	t.EarthBoostEdge = uint8(edge)
	return t
}

// HasWarningMark reports whether the turn places a mark.
func (t Turn) HasWarningMark() bool { return t.WarningMarkCell != None }

// HasEarthBoost reports whether the turn declares an earth boost edge.
func (t Turn) HasEarthBoost() bool { return t.EarthBoostEdge != None }

func (t Turn) String() string {
	s := fmt.Sprintf("cell=%d card=%d", t.Cell, t.CardIndex)
	if t.HasWarningMark() {
		s += fmt.Sprintf(" mark=%d", t.WarningMarkCell)
	}
	if t.HasEarthBoost() {
		s += fmt.Sprintf(" earth=%s", cards.Direction(t.EarthBoostEdge))
	}
	return s
}

type turnJSON struct {
	Cell            uint8  `json:"cell"`
	CardIndex       uint8  `json:"cardIndex"`
	WarningMarkCell *uint8 `json:"warningMarkCell,omitempty"`
	EarthBoostEdge  *uint8 `json:"earthBoostEdge,omitempty"`
}

func optional(v uint8) *uint8 {
	if v == None {
		return nil
	}
	return &v
}

func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal(turnJSON{
		Cell:            t.Cell,
		CardIndex:       t.CardIndex,
		WarningMarkCell: optional(t.WarningMarkCell),
		EarthBoostEdge:  optional(t.EarthBoostEdge),
	})
}

func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw turnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Place(raw.Cell, raw.CardIndex)
	if raw.WarningMarkCell != nil {
		t.WarningMarkCell = *raw.WarningMarkCell
	}
	if raw.EarthBoostEdge != nil {
		t.EarthBoostEdge = *raw.EarthBoostEdge
	}
	return nil
}

// Transcript is a header plus the full turn sequence.
type Transcript struct {
	Header Header `json:"header"`
	Turns  []Turn `json:"turns"`
}

// Actor returns the player acting on turn i.
func (h Header) Actor(i int) uint8 {
	return (h.FirstPlayer + uint8(i%2)) % 2
}

// ParseTranscript decodes a transcript document without validating it.
func ParseTranscript(data []byte) (Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return Transcript{}, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return t, nil
}
