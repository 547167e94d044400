// Package match replays placements on the 3x3 board: capture comparison, chaining,
// the tactics layer and trait synergy.
package match

import (
	"encoding/json"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

const boardSide = 3

// Slot is one board cell. Card is the effective card as placed, after modifiers.
type Slot struct {
	Occupied bool
	Owner    uint8
	Card     cards.Card
	// Shielded is true while a Forest card still holds its one-time shield.
	Shielded bool
}

type slotJSON struct {
	Owner    uint8      `json:"owner"`
	Card     cards.Card `json:"card"`
	Shielded bool       `json:"shielded,omitempty"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.Occupied {
		return []byte("null"), nil
	}
	return json.Marshal(slotJSON{Owner: s.Owner, Card: s.Card, Shielded: s.Shielded})
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Slot{}
		return nil
	}
	var raw slotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Slot{Occupied: true, Owner: raw.Owner, Card: raw.Card, Shielded: raw.Shielded}
	return nil
}

// Board is a value type; copying it takes a snapshot.
type Board [transcript.BoardCells]Slot

// Count returns the tiles owned by each player.
func (b Board) Count() [2]int {
	var n [2]int
	for _, s := range b {
		if s.Occupied {
			n[s.Owner]++
		}
	}
	return n
}

// Empty lists unoccupied cells in ascending order.
func (b Board) Empty() []uint8 {
	var out []uint8
	for i, s := range b {
		if !s.Occupied {
			out = append(out, uint8(i))
		}
	}
	return out
}

// neighbor returns the cell adjacent to cell in direction d.
func neighbor(cell int, d cards.Direction) (int, bool) {
	row, col := cell/boardSide, cell%boardSide
	switch d {
	case cards.Up:
		row--
	case cards.Right:
		col++
	case cards.Down:
		row++
	case cards.Left:
		col--
	}
	if row < 0 || row >= boardSide || col < 0 || col >= boardSide {
		return 0, false
	}
	return row*boardSide + col, true
}

// corner pairs the two edges that meet at a diagonal.
type corner struct {
	vertical, horizontal cards.Direction
}

// diagonals in comparison order: up-right, down-right, down-left, up-left.
var diagonals = [4]corner{
	{cards.Up, cards.Right},
	{cards.Down, cards.Right},
	{cards.Down, cards.Left},
	{cards.Up, cards.Left},
}

func (c corner) cell(from int) (int, bool) {
	mid, ok := neighbor(from, c.vertical)
	if !ok {
		return 0, false
	}
	return neighbor(mid, c.horizontal)
}

// strength is the sum of the two edges of card pointing into corner c.
func (c corner) strength(card cards.Card) uint8 {
	return card.Edge(c.vertical) + card.Edge(c.horizontal)
}

func (c corner) opposite() corner {
	return corner{c.vertical.Opposite(), c.horizontal.Opposite()}
}

func isCorner(cell int) bool {
	return cell == 0 || cell == 2 || cell == 6 || cell == 8
}
