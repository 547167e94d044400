package rules

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalidRuleset is wrapped by every ruleset validation failure.
var ErrInvalidRuleset = errors.New("invalid ruleset")

const maxWarningUses = 4

// Validate reports every problem with r at once. The returned error wraps
// ErrInvalidRuleset; multierr.Errors splits it into individual problems.
func Validate(r Ruleset) error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidRuleset}, args...)...))
	}

	if r.Version != V1 && r.Version != V2 {
		add("unsupported version %d", r.Version)
	}

	if c := r.Meta.ChainCapPerTurn; c != Uncapped && (c < 0 || c > MaxChainCap) {
		add("meta.chainCapPerTurn %d outside 0..%d", c, MaxChainCap)
	}

	if wm := r.Tactics.WarningMark; wm.Enabled {
		if wm.UsesPerPlayer > maxWarningUses {
			add("tactics.warningMark.usesPerPlayer %d exceeds %d", wm.UsesPerPlayer, maxWarningUses)
		}
		if wm.Debuff > 9 {
			add("tactics.warningMark.debuff %d exceeds 9", wm.Debuff)
		}
	}

	if cb := r.Tactics.ComboBonus; cb.Enabled {
		if cb.MomentumAt < 1 || cb.MomentumAt > cb.DominationAt || cb.DominationAt > cb.FeverAt || cb.FeverAt > 9 {
			add("tactics.comboBonus thresholds must satisfy 1 <= momentumAt <= dominationAt <= feverAt <= 9, got %d/%d/%d",
				cb.MomentumAt, cb.DominationAt, cb.FeverAt)
		}
		if cb.MomentumTriadPlus > 9 || cb.DominationTriadPlus > 9 {
			add("tactics.comboBonus triadPlus values must be at most 9")
		}
	}

	if te := r.Synergy.TraitEffects; te.Enabled {
		for _, t := range te.Traits {
			if !t.Valid() {
				add("synergy.traitEffects lists unknown trait code %d", uint8(t))
			}
		}
		if te.EarthBoost > 9 {
			add("synergy.traitEffects.earthBoost %d exceeds 9", te.EarthBoost)
		}
	}

	c := r.Classic
	if r.Version == V1 && c.Any() {
		add("classic variants require version %d", V2)
	}
	if c.Order && c.Chaos {
		add("classic.order and classic.chaos are mutually exclusive")
	}
	if c.TypeAscend && c.TypeDescend {
		add("classic.typeAscend and classic.typeDescend are mutually exclusive")
	}
	if c.AllOpen && c.ThreeOpen {
		add("classic.allOpen and classic.threeOpen are mutually exclusive")
	}

	return errs
}
