// Package classic resolves the seeded classic rule variants: forced card order,
// deck swap and open-hand visibility.
package classic

import (
	"slices"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/engine"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// Purpose tags mixed into each draw.
const (
	TagSwap      = "classic:swap"
	TagChaos     = "classic:chaos"
	TagThreeOpen = "classic:three-open"
)

const openCount = 3

// Resolver answers every classic question for one match. It is immutable and safe
// for concurrent use.
type Resolver struct {
	rules rules.Classic
	seed  engine.Seed
}

// New derives seed0 from the header's salt, players and rulesetId.
func New(h transcript.Header, c rules.Classic) *Resolver {
	return &Resolver{
		rules: c,
		seed:  engine.DeriveSeed0(h.Salt, h.PlayerA, h.PlayerB, h.RulesetID),
	}
}

// Seed exposes seed0.
func (r *Resolver) Seed() engine.Seed { return r.seed }

// Rules returns the classic toggles in effect.
func (r *Resolver) Rules() rules.Classic { return r.rules }

// SwapSlots returns the deck slot of A and the deck slot of B that trade places.
// ok is false when swap is off.
func (r *Resolver) SwapSlots() (slotA, slotB int, ok bool) {
	if !r.rules.Swap {
		return 0, 0, false
	}
	slotA = int(r.seed.Draw(TagSwap, transcript.DeckSize, 0))
	slotB = int(r.seed.Draw(TagSwap, transcript.DeckSize, 1))
	return slotA, slotB, true
}

// Decks returns the starting decks after any swap.
func (r *Resolver) Decks(h transcript.Header) [2][transcript.DeckSize]cards.TokenID {
	decks := [2][transcript.DeckSize]cards.TokenID{h.DeckA, h.DeckB}
	if a, b, ok := r.SwapSlots(); ok {
		decks[0][a], decks[1][b] = decks[1][b], decks[0][a]
	}
	return decks
}

// Forced returns the card index the acting player must play on turn, chosen from
// remaining. ok is false when neither order nor chaos applies.
func (r *Resolver) Forced(turn int, player uint8, remaining []uint8) (uint8, bool) {
	if len(remaining) == 0 || !(r.rules.Order || r.rules.Chaos) {
		return 0, false
	}
	sorted := slices.Clone(remaining)
	slices.Sort(sorted)
	if r.rules.Order {
		return sorted[0], true
	}
	idx := r.seed.Draw(TagChaos, uint64(len(sorted)), uint64(turn), uint64(player))
	return sorted[idx], true
}

// OpenCards reports which of player's deck slots are visible to the opponent.
func (r *Resolver) OpenCards(player uint8) [transcript.DeckSize]bool {
	var open [transcript.DeckSize]bool
	switch {
	case r.rules.AllOpen:
		for i := range open {
			open[i] = true
		}
	case r.rules.ThreeOpen:
		for _, slot := range r.seed.Sample(TagThreeOpen, transcript.DeckSize, openCount, uint64(player)) {
			open[slot] = true
		}
	}
	return open
}
