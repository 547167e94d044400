package match

import (
	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
)

// CaptureKind names the comparison that produced a flip.
type CaptureKind string

const (
	CaptureEdge      CaptureKind = "edge"
	CaptureAceKiller CaptureKind = "aceKiller"
	CaptureSame      CaptureKind = "same"
	CapturePlus      CaptureKind = "plus"
	CaptureDiagonal  CaptureKind = "diagonal"
)

// Trace records one flip.
type Trace struct {
	From          int         `json:"from"`
	To            int         `json:"to"`
	Kind          CaptureKind `json:"kind"`
	AttackerValue int         `json:"attackerValue"`
	DefenderValue int         `json:"defenderValue"`
	Chain         bool        `json:"chain"`
	Janken        bool        `json:"janken"`
}

const (
	aceLow  = 1
	aceHigh = 9
)

// compare decides whether attacker's value a beats defender's facing value d.
// An exact tie falls to janken; identical hands never capture.
func compare(c rules.Classic, attacker, defender cards.Card, a, d uint8, allowAce bool) (win, janken bool, kind CaptureKind) {
	if allowAce && c.AceKiller {
		low, high := uint8(aceLow), uint8(aceHigh)
		if c.Reverse {
			low, high = high, low
		}
		if a == low && d == high {
			return true, false, CaptureAceKiller
		}
		if a == high && d == low {
			return false, false, ""
		}
	}
	if a != d {
		if c.Reverse {
			return a < d, false, CaptureEdge
		}
		return a > d, false, CaptureEdge
	}
	if attacker.Hand.Beats(defender.Hand) {
		return true, true, CaptureEdge
	}
	return false, false, ""
}

// wave resolves all captures of one placement. The chain cap is checked before
// every comparison: once it is reached nothing further is computed.
type wave struct {
	board   *Board
	actor   uint8
	classic rules.Classic
	effects rules.TraitEffects
	cap     rules.ChainCap

	flips   int
	traces  []Trace
	shields []int
	queue   []int
	capped  bool
}

func (w *wave) full() bool {
	if !w.cap.Allows(w.flips) {
		w.capped = true
		return true
	}
	return false
}

func (w *wave) isTarget(cell int) bool {
	s := w.board[cell]
	return s.Occupied && s.Owner != w.actor
}

// flip applies a successful comparison. A shielded card absorbs it instead.
func (w *wave) flip(t Trace) {
	target := &w.board[t.To]
	if target.Shielded {
		target.Shielded = false
		w.shields = append(w.shields, t.To)
		return
	}
	target.Owner = w.actor
	w.flips++
	w.traces = append(w.traces, t)
	w.queue = append(w.queue, t.To)

	if !t.Chain && w.effects.Has(cards.TraitThunder) && w.board[t.From].Card.Trait == cards.TraitThunder {
		target.Card = target.Card.Shift(-1)
	}
}

// resolve runs the initial wave from cell, then the chain cascade.
func (w *wave) resolve(cell int) {
	w.sameAndPlus(cell)
	w.orthogonal(cell, false)
	if w.effects.Has(cards.TraitWind) && w.board[cell].Card.Trait == cards.TraitWind {
		w.diagonal(cell)
	}
	for len(w.queue) > 0 && !w.capped {
		next := w.queue[0]
		w.queue = w.queue[1:]
		w.orthogonal(next, true)
	}
}

func (w *wave) orthogonal(cell int, chain bool) {
	attacker := w.board[cell].Card
	for _, d := range cards.Directions {
		n, ok := neighbor(cell, d)
		if !ok || !w.isTarget(n) {
			continue
		}
		defender := w.board[n].Card
		if chain && w.effects.Has(cards.TraitMetal) && defender.Trait == cards.TraitMetal {
			continue
		}
		if w.full() {
			return
		}
		a, dv := attacker.Edge(d), defender.Edge(d.Opposite())
		win, janken, kind := compare(w.classic, attacker, defender, a, dv, true)
		if !win {
			continue
		}
		w.flip(Trace{From: cell, To: n, Kind: kind, AttackerValue: int(a), DefenderValue: int(dv), Chain: chain, Janken: janken})
	}
}

func (w *wave) diagonal(cell int) {
	attacker := w.board[cell].Card
	for _, c := range diagonals {
		n, ok := c.cell(cell)
		if !ok || !w.isTarget(n) {
			continue
		}
		if w.full() {
			return
		}
		defender := w.board[n].Card
		a, dv := c.strength(attacker), c.opposite().strength(defender)
		win, janken, _ := compare(w.classic, attacker, defender, a, dv, false)
		if !win {
			continue
		}
		w.flip(Trace{From: cell, To: n, Kind: CaptureDiagonal, AttackerValue: int(a), DefenderValue: int(dv), Janken: janken})
	}
}

type contact struct {
	cell     int
	a, d     uint8
	opponent bool
}

// sameAndPlus applies the classic same and plus rules. Each needs at least two
// occupied neighbours (of either owner) to match; only opponent cards flip.
func (w *wave) sameAndPlus(cell int) {
	if !w.classic.Same && !w.classic.Plus {
		return
	}
	placed := w.board[cell].Card
	var contacts []contact
	for _, d := range cards.Directions {
		n, ok := neighbor(cell, d)
		if !ok || !w.board[n].Occupied {
			continue
		}
		contacts = append(contacts, contact{
			cell:     n,
			a:        placed.Edge(d),
			d:        w.board[n].Card.Edge(d.Opposite()),
			opponent: w.board[n].Owner != w.actor,
		})
	}

	if w.classic.Same {
		var matched []contact
		for _, c := range contacts {
			if c.a == c.d {
				matched = append(matched, c)
			}
		}
		if len(matched) >= 2 {
			w.flipContacts(cell, matched, CaptureSame)
		}
	}

	if w.classic.Plus {
		sums := make(map[int]int, len(contacts))
		for _, c := range contacts {
			sums[int(c.a)+int(c.d)]++
		}
		var matched []contact
		for _, c := range contacts {
			if sums[int(c.a)+int(c.d)] >= 2 {
				matched = append(matched, c)
			}
		}
		w.flipContacts(cell, matched, CapturePlus)
	}
}

func (w *wave) flipContacts(from int, matched []contact, kind CaptureKind) {
	for _, c := range matched {
		if !c.opponent || !w.isTarget(c.cell) {
			continue
		}
		if w.full() {
			return
		}
		w.flip(Trace{From: from, To: c.cell, Kind: kind, AttackerValue: int(c.a), DefenderValue: int(c.d)})
	}
}
