package match

import (
	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// Modifier names an adjustment applied to a placed card.
type Modifier string

const (
	ModTriadPlus   Modifier = "triadPlus"
	ModEarthBoost  Modifier = "earthBoost"
	ModCosmic      Modifier = "cosmicCorner"
	ModLight       Modifier = "lightAlly"
	ModTypeAscend  Modifier = "typeAscend"
	ModTypeDescend Modifier = "typeDescend"
	ModWarning     Modifier = "warningDebuff"
)

// placement carries everything that shapes a card before it lands.
type placement struct {
	card      cards.Card
	cell      int
	actor     uint8
	earthEdge uint8
	applied   []Modifier
}

func (p *placement) shift(delta int, m Modifier) {
	if delta == 0 {
		return
	}
	p.card = p.card.Shift(delta)
	p.applied = append(p.applied, m)
}

// synergy applies trait effects that depend on the placing turn and board.
func (p *placement) synergy(te rules.TraitEffects, b *Board) {
	trait := p.card.Trait
	if !te.Has(trait) {
		return
	}
	switch trait {
	case cards.TraitEarth:
		if p.earthEdge != transcript.None {
			edge := cards.Direction(p.earthEdge)
			p.card = p.card.ShiftEdge(edge, int(te.EarthBoost)).ShiftEdge(edge.Opposite(), -1)
			p.applied = append(p.applied, ModEarthBoost)
		}
	case cards.TraitCosmic:
		if isCorner(p.cell) {
			p.shift(1, ModCosmic)
		}
	case cards.TraitLight:
		for _, d := range cards.Directions {
			if n, ok := neighbor(p.cell, d); ok && b[n].Occupied && b[n].Owner == p.actor {
				p.shift(1, ModLight)
				break
			}
		}
	}
}

// typeShift applies classic type ascend/descend: one step per card of the same
// trait already on the board, of either owner.
func (p *placement) typeShift(c rules.Classic, b *Board) {
	if (!c.TypeAscend && !c.TypeDescend) || p.card.Trait == cards.TraitNone {
		return
	}
	n := 0
	for _, s := range b {
		if s.Occupied && s.Card.Trait == p.card.Trait {
			n++
		}
	}
	if c.TypeAscend {
		p.shift(n, ModTypeAscend)
	} else {
		p.shift(-n, ModTypeDescend)
	}
}

// warningImmune reports whether the placed card ignores warning debuffs.
func warningImmune(te rules.TraitEffects, card cards.Card, pending bonus) bool {
	return pending.ignoreWarning || (te.Has(cards.TraitShadow) && card.Trait == cards.TraitShadow)
}
