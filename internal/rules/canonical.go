package rules

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/engine"
)

// uncappedCode stands in for an unset chain cap in the encoding.
const uncappedCode = 255

func domainFor(version uint8) string {
	return fmt.Sprintf("TRIAD_RULESET_V%d", version)
}

// Canonicalize returns the normal form of r: parameters of disabled blocks are reset
// to zero and trait sets are de-duplicated and sorted by code. Two rulesets that play
// identically canonicalize identically.
func Canonicalize(r Ruleset) Ruleset {
	out := r.Clone()

	if !out.Tactics.WarningMark.Enabled {
		out.Tactics.WarningMark = WarningMark{}
	}
	if !out.Tactics.ComboBonus.Enabled {
		out.Tactics.ComboBonus = ComboBonus{}
	}

	te := &out.Synergy.TraitEffects
	if !te.Enabled {
		*te = TraitEffects{}
	} else {
		traits := lo.Uniq(lo.Filter(te.Traits, func(t cards.Trait, _ int) bool { return t != cards.TraitNone }))
		slices.Sort(traits)
		te.Traits = traits
		if !slices.Contains(traits, cards.TraitEarth) {
			te.EarthBoost = 0
		}
	}
	if te.Traits == nil {
		te.Traits = []cards.Trait{}
	}

	if out.Version < V2 {
		out.Classic = Classic{}
	}
	return out
}

// TraitMask packs an enabled trait set; bit n is trait code n.
func TraitMask(te TraitEffects) uint64 {
	if !te.Enabled {
		return 0
	}
	var m uint64
	for _, t := range te.Traits {
		if t != cards.TraitNone {
			m |= 1 << uint(t)
		}
	}
	return m
}

// Encode returns the fixed-shape word encoding of the canonical form of r.
func Encode(r Ruleset) []byte {
	c := Canonicalize(r)

	chainCap := uint64(uncappedCode)
	if c.Meta.ChainCapPerTurn.IsCapped() {
		chainCap = uint64(c.Meta.ChainCapPerTurn)
	}
	wm := c.Tactics.WarningMark
	cb := c.Tactics.ComboBonus
	te := c.Synergy.TraitEffects

	w := engine.NewWords(16).
		Domain(domainFor(c.Version)).
		Uint(uint64(c.Version)).
		Uint(chainCap).
		Bool(wm.Enabled).
		Uint(uint64(wm.UsesPerPlayer)).
		Uint(uint64(wm.Debuff)).
		Bool(cb.Enabled).
		Uint(uint64(cb.MomentumAt)).
		Uint(uint64(cb.DominationAt)).
		Uint(uint64(cb.FeverAt)).
		Uint(uint64(cb.MomentumTriadPlus)).
		Uint(uint64(cb.DominationTriadPlus)).
		Bool(te.Enabled).
		Uint(TraitMask(te)).
		Uint(uint64(te.EarthBoost))
	if c.Version >= V2 {
		w.Uint(c.Classic.Mask())
	}
	return w.Bytes()
}

// ComputeID validates r and returns its rulesetId.
func ComputeID(r Ruleset) (engine.Hash, error) {
	if err := Validate(r); err != nil {
		return engine.Hash{}, err
	}
	return engine.Keccak256(Encode(r)), nil
}

// MustID is ComputeID for rulesets known to be valid, such as presets.
func MustID(r Ruleset) engine.Hash {
	id, err := ComputeID(r)
	if err != nil {
		panic(err)
	}
	return id
}

// Equivalent reports whether a and b share a canonical form.
func Equivalent(a, b Ruleset) bool {
	return slices.Equal(Encode(a), Encode(b))
}
