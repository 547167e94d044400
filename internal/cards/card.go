package cards

import (
	"fmt"
	"strings"
)

// TokenID is the opaque on-chain identity of a card.
type TokenID uint64

// Direction indexes a card edge. The numbering is part of the hash contract.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists the edges in comparison order.
var Directions = [4]Direction{Up, Right, Down, Left}

// Opposite returns the facing edge of a neighbour in direction d.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// JankenHand is the rock-paper-scissors tie-break hand.
type JankenHand uint8

const (
	Rock JankenHand = iota
	Paper
	Scissors
)

var handNames = [...]string{"rock", "paper", "scissors"}

// Beats reports whether h wins the janken cycle against other.
// Paper beats Rock, Scissors beats Paper, Rock beats Scissors.
func (h JankenHand) Beats(other JankenHand) bool {
	return (uint8(h)+2)%3 == uint8(other)
}

// Valid reports whether h is Rock, Paper or Scissors.
func (h JankenHand) Valid() bool { return h <= Scissors }

func (h JankenHand) String() string {
	if h.Valid() {
		return handNames[h]
	}
	return fmt.Sprintf("hand(%d)", uint8(h))
}

func (h JankenHand) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("invalid janken hand %d", uint8(h))
	}
	return []byte(handNames[h]), nil
}

func (h *JankenHand) UnmarshalText(text []byte) error {
	for i, name := range handNames {
		if strings.EqualFold(string(text), name) {
			*h = JankenHand(i)
			return nil
		}
	}
	return fmt.Errorf("unknown janken hand %q", text)
}

// Card is a catalog entry, or the effective card sitting on the board after modifiers.
type Card struct {
	TokenID       TokenID    `json:"tokenId"`
	Edges         [4]uint8   `json:"edges"`
	Hand          JankenHand `json:"jankenHand"`
	CombatStatSum uint32     `json:"combatStatSum"`
	Trait         Trait      `json:"trait"`
}

// Edge returns the value facing direction d.
func (c Card) Edge(d Direction) uint8 { return c.Edges[d] }

// Shift returns a copy with delta added to every edge, floored at 0.
func (c Card) Shift(delta int) Card {
	for i := range c.Edges {
		c.Edges[i] = clampEdge(int(c.Edges[i]) + delta)
	}
	return c
}

// ShiftEdge returns a copy with delta added to edge d, floored at 0.
func (c Card) ShiftEdge(d Direction, delta int) Card {
	c.Edges[d] = clampEdge(int(c.Edges[d]) + delta)
	return c
}

func clampEdge(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Validate checks catalog invariants: edges 0..9, known hand and trait.
func (c Card) Validate() error {
	for i, e := range c.Edges {
		if e > 9 {
			return fmt.Errorf("card %d: edge %s is %d, want 0..9", c.TokenID, Direction(i), e)
		}
	}
	if !c.Hand.Valid() {
		return fmt.Errorf("card %d: invalid janken hand %d", c.TokenID, uint8(c.Hand))
	}
	if !c.Trait.Valid() {
		return fmt.Errorf("card %d: invalid trait %d", c.TokenID, uint8(c.Trait))
	}
	return nil
}
