// Package rules models versioned ruleset configuration and its canonical identity.
package rules

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/invopop/jsonschema"

	"github.com/MJE43/triad-replay-go/internal/cards"
)

// Ruleset versions.
const (
	V1 uint8 = 1 // core + tactics + synergy
	V2 uint8 = 2 // v1 plus the classic variant block
)

// MaxChainCap is the largest meaningful per-turn flip cap on a 3x3 board.
const MaxChainCap = 8

// ChainCap bounds the flips applied in one turn. Uncapped removes the bound.
type ChainCap int8

// Uncapped is the "unset" chain cap.
const Uncapped ChainCap = -1

// Capped returns a cap of n flips.
func Capped(n uint8) ChainCap { return ChainCap(n) }

// IsCapped reports whether the cap bounds flips at all.
func (c ChainCap) IsCapped() bool { return c >= 0 }

// Allows reports whether one more flip fits under the cap after flips so far.
func (c ChainCap) Allows(flips int) bool {
	return !c.IsCapped() || flips < int(c)
}

// MarshalJSON writes Uncapped as null.
func (c ChainCap) MarshalJSON() ([]byte, error) {
	if !c.IsCapped() {
		return []byte("null"), nil
	}
	return json.Marshal(int(c))
}

// UnmarshalJSON reads null as Uncapped.
func (c *ChainCap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Uncapped
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chainCapPerTurn: %w", err)
	}
	if n < 0 || n > 127 {
		return fmt.Errorf("chainCapPerTurn %d out of range", n)
	}
	*c = ChainCap(n)
	return nil
}

// JSONSchema matches MarshalJSON: a flip count up to MaxChainCap, or null.
func (ChainCap) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
		{Type: "integer", Minimum: json.Number("0"), Maximum: json.Number(strconv.Itoa(MaxChainCap))},
		{Type: "null"},
	}}
}

// Meta holds board-wide limits.
type Meta struct {
	ChainCapPerTurn ChainCap `json:"chainCapPerTurn" jsonschema:"description=Flips allowed per turn; null or absent for uncapped"`
}

// WarningMark configures the cell debuff each player may place after a move.
type WarningMark struct {
	Enabled       bool  `json:"enabled"`
	UsesPerPlayer uint8 `json:"usesPerPlayer" jsonschema:"maximum=4"`
	Debuff        uint8 `json:"debuff" jsonschema:"maximum=9,description=Subtracted from every edge of an opponent card placed on the mark"`
}

// ComboBonus configures the flip-count thresholds and the bonus they grant the next placement.
// Threshold ordering is checked by Validate, and only while the block is enabled.
type ComboBonus struct {
	Enabled             bool  `json:"enabled"`
	MomentumAt          uint8 `json:"momentumAt" jsonschema:"maximum=9"`
	DominationAt        uint8 `json:"dominationAt" jsonschema:"maximum=9"`
	FeverAt             uint8 `json:"feverAt" jsonschema:"maximum=9"`
	MomentumTriadPlus   uint8 `json:"momentumTriadPlus" jsonschema:"maximum=9"`
	DominationTriadPlus uint8 `json:"dominationTriadPlus" jsonschema:"maximum=9"`
}

// Tactics groups the optional tactical layers.
type Tactics struct {
	WarningMark WarningMark `json:"warningMark"`
	ComboBonus  ComboBonus  `json:"comboBonus"`
}

// TraitEffects selects which trait synergies apply.
type TraitEffects struct {
	Enabled bool `json:"enabled"`
	// Traits is a set; order and duplicates carry no meaning.
	Traits     []cards.Trait `json:"traits,omitempty" jsonschema:"uniqueItems=true"`
	EarthBoost uint8         `json:"earthBoost" jsonschema:"maximum=9"`
}

// Has reports whether trait t has its effect switched on.
func (te TraitEffects) Has(t cards.Trait) bool {
	return te.Enabled && t != cards.TraitNone && slices.Contains(te.Traits, t)
}

// Synergy wraps the trait effect block.
type Synergy struct {
	TraitEffects TraitEffects `json:"traitEffects"`
}

// Classic holds the independent classic variant toggles (v2 only).
type Classic struct {
	Order       bool `json:"order"`
	Chaos       bool `json:"chaos"`
	Swap        bool `json:"swap"`
	Reverse     bool `json:"reverse"`
	AceKiller   bool `json:"aceKiller"`
	Plus        bool `json:"plus"`
	Same        bool `json:"same"`
	TypeAscend  bool `json:"typeAscend"`
	TypeDescend bool `json:"typeDescend"`
	AllOpen     bool `json:"allOpen"`
	ThreeOpen   bool `json:"threeOpen"`
}

// Any reports whether at least one classic toggle is on.
func (c Classic) Any() bool { return c != Classic{} }

// Mask packs the toggles into their fixed bit positions.
func (c Classic) Mask() uint64 {
	flags := [...]bool{
		c.Order, c.Chaos, c.Swap, c.Reverse, c.AceKiller, c.Plus,
		c.Same, c.TypeAscend, c.TypeDescend, c.AllOpen, c.ThreeOpen,
	}
	var m uint64
	for i, on := range flags {
		if on {
			m |= 1 << i
		}
	}
	return m
}

// NeedsSeed reports whether any toggle draws from the match seed.
func (c Classic) NeedsSeed() bool { return c.Chaos || c.Swap || c.ThreeOpen }

// Ruleset is a value type; use the With* methods to derive modified copies.
type Ruleset struct {
	Version uint8   `json:"version" jsonschema:"required,enum=1,enum=2"`
	Meta    Meta    `json:"meta"`
	Tactics Tactics `json:"tactics"`
	Synergy Synergy `json:"synergy"`
	Classic Classic `json:"classic"`
}

// Clone returns a deep copy.
func (r Ruleset) Clone() Ruleset {
	r.Synergy.TraitEffects.Traits = slices.Clone(r.Synergy.TraitEffects.Traits)
	return r
}

// WithChainCap returns a copy capped at n flips per turn.
func (r Ruleset) WithChainCap(n uint8) Ruleset {
	out := r.Clone()
	out.Meta.ChainCapPerTurn = Capped(n)
	return out
}

// WithoutChainCap returns an uncapped copy.
func (r Ruleset) WithoutChainCap() Ruleset {
	out := r.Clone()
	out.Meta.ChainCapPerTurn = Uncapped
	return out
}

// WithTactics returns a copy with t replacing the tactics block.
func (r Ruleset) WithTactics(t Tactics) Ruleset {
	out := r.Clone()
	out.Tactics = t
	return out
}

// WithSynergy returns a copy with s replacing the synergy block.
func (r Ruleset) WithSynergy(s Synergy) Ruleset {
	out := r.Clone()
	out.Synergy = Synergy{TraitEffects: TraitEffects{
		Enabled:    s.TraitEffects.Enabled,
		Traits:     slices.Clone(s.TraitEffects.Traits),
		EarthBoost: s.TraitEffects.EarthBoost,
	}}
	return out
}

// WithClassic returns a v2 copy with the given classic toggles.
func (r Ruleset) WithClassic(c Classic) Ruleset {
	out := r.Clone()
	out.Version = V2
	out.Classic = c
	return out
}

// DefaultV1 is the standard v1 ruleset with every tactic and trait effect enabled.
func DefaultV1() Ruleset {
	return Ruleset{
		Version: V1,
		Meta:    Meta{ChainCapPerTurn: Uncapped},
		Tactics: Tactics{
			WarningMark: WarningMark{Enabled: true, UsesPerPlayer: 3, Debuff: 1},
			ComboBonus: ComboBonus{
				Enabled:             true,
				MomentumAt:          3,
				DominationAt:        4,
				FeverAt:             5,
				MomentumTriadPlus:   1,
				DominationTriadPlus: 2,
			},
		},
		Synergy: Synergy{TraitEffects: TraitEffects{
			Enabled: true,
			Traits: []cards.Trait{
				cards.TraitCosmic, cards.TraitLight, cards.TraitShadow, cards.TraitForest,
				cards.TraitMetal, cards.TraitThunder, cards.TraitWind, cards.TraitEarth,
			},
			EarthBoost: 1,
		}},
	}
}

// OnchainCoreTactics is the subset the settlement contract can verify: core rules
// and tactics, with trait synergy switched off.
func OnchainCoreTactics() Ruleset {
	r := DefaultV1()
	r.Synergy.TraitEffects.Enabled = false
	return r
}

// ClassicV2 layers classic toggles over the on-chain core+tactics subset.
func ClassicV2(c Classic) Ruleset {
	return OnchainCoreTactics().WithClassic(c)
}

// ParseRuleset decodes a ruleset document. Missing fields take their zero value;
// an absent chain cap means uncapped.
func ParseRuleset(data []byte) (Ruleset, error) {
	r := Ruleset{Meta: Meta{ChainCapPerTurn: Uncapped}}
	if err := json.Unmarshal(data, &r); err != nil {
		return Ruleset{}, fmt.Errorf("failed to unmarshal ruleset: %w", err)
	}
	return r, nil
}
