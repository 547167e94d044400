package scripting

import (
	"github.com/dop251/goja"
	"github.com/samber/lo"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/match"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// injectConstants exposes edge directions and the "none" sentinel to scripts.
func injectConstants(vm *goja.Runtime) {
	vm.Set("UP", int(cards.Up))
	vm.Set("RIGHT", int(cards.Right))
	vm.Set("DOWN", int(cards.Down))
	vm.Set("LEFT", int(cards.Left))
	vm.Set("NONE", int(transcript.None))
}

// CardView describes a card in a hand.
type CardView struct {
	Slot    uint8         `json:"slot"`
	TokenID cards.TokenID `json:"tokenId"`
	Edges   [4]uint8      `json:"edges"`
	Hand    string        `json:"hand"`
	Trait   string        `json:"trait"`
}

// CellView describes one board cell. Owner is -1 and the card fields are empty
// when the cell is free.
type CellView struct {
	Cell     uint8    `json:"cell"`
	Owner    int      `json:"owner"`
	Edges    [4]uint8 `json:"edges"`
	Hand     string   `json:"hand"`
	Trait    string   `json:"trait"`
	Shielded bool     `json:"shielded"`
	MarkedBy int      `json:"markedBy"`
}

// View is what a bot sees at its turn: its own remaining cards, the opponent's
// open cards and the board.
type View struct {
	Turn         int        `json:"turn"`
	Player       uint8      `json:"player"`
	Board        []CellView `json:"board"`
	EmptyCells   []int      `json:"emptyCells"`
	Hand         []CardView `json:"hand"`
	OpponentOpen []CardView `json:"opponentOpen"`
	Forced       int        `json:"forcedCardIndex"`
	MarksLeft    int        `json:"marksLeft"`
	EarthBoost   bool       `json:"earthBoost"`
	Tiles        [2]int     `json:"tiles"`
}

func cardView(slot uint8, c cards.Card) CardView {
	return CardView{Slot: slot, TokenID: c.TokenID, Edges: c.Edges, Hand: c.Hand.String(), Trait: c.Trait.String()}
}

// NewView snapshots g for the player about to act.
func NewView(g *match.Game) View {
	actor := g.Actor()
	opp := 1 - actor
	board := g.Board()

	v := View{
		Turn:       g.Turn(),
		Player:     actor,
		Board:      make([]CellView, 0, transcript.BoardCells),
		EmptyCells: lo.Map(board.Empty(), func(c uint8, _ int) int { return int(c) }),
		Forced:     -1,
		MarksLeft:  g.MarksLeft(actor),
		EarthBoost: g.Rules().Synergy.TraitEffects.Has(cards.TraitEarth),
		Tiles:      board.Count(),
	}
	for i, s := range board {
		cv := CellView{Cell: uint8(i), Owner: -1, MarkedBy: -1}
		if owner := g.MarkOwner(uint8(i)); owner != transcript.None {
			cv.MarkedBy = int(owner)
		}
		if s.Occupied {
			cv.Owner = int(s.Owner)
			cv.Edges = s.Card.Edges
			cv.Hand = s.Card.Hand.String()
			cv.Trait = s.Card.Trait.String()
			cv.Shielded = s.Shielded
		}
		v.Board = append(v.Board, cv)
	}
	for _, slot := range g.Remaining(actor) {
		v.Hand = append(v.Hand, cardView(slot, g.Card(actor, slot)))
	}
	open := g.OpenCards(opp)
	for _, slot := range g.Remaining(opp) {
		if open[slot] {
			v.OpponentOpen = append(v.OpponentOpen, cardView(slot, g.Card(opp, slot)))
		}
	}
	if slot, ok := g.ForcedCardIndex(); ok {
		v.Forced = int(slot)
	}
	return v
}
