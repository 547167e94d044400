package cards

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Trait is a card's element tag. Codes are hashed into ruleset identifiers and must
// never be renumbered; a new trait takes the next free code.
type Trait uint8

const (
	TraitNone Trait = iota
	TraitCosmic
	TraitLight
	TraitShadow
	TraitForest
	TraitMetal
	TraitFlame
	TraitAqua
	TraitThunder
	TraitWind
	TraitEarth

	traitCount
)

var traitNames = [traitCount]string{
	"none", "cosmic", "light", "shadow", "forest", "metal",
	"flame", "aqua", "thunder", "wind", "earth",
}

// AllTraits lists every element tag except TraitNone, in code order.
func AllTraits() []Trait {
	out := make([]Trait, 0, traitCount-1)
	for t := TraitCosmic; t < traitCount; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is a known code.
func (t Trait) Valid() bool { return t < traitCount }

func (t Trait) String() string {
	if t.Valid() {
		return traitNames[t]
	}
	return fmt.Sprintf("trait(%d)", uint8(t))
}

// MarshalText writes the trait name.
func (t Trait) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid trait %d", uint8(t))
	}
	return []byte(traitNames[t]), nil
}

// UnmarshalText accepts any name ParseTrait does.
func (t *Trait) UnmarshalText(text []byte) error {
	p, err := ParseTrait(string(text))
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// JSONSchema matches MarshalText: one of the trait names.
func (Trait) JSONSchema() *jsonschema.Schema {
	names := make([]any, len(traitNames))
	for i, n := range traitNames {
		names[i] = n
	}
	return &jsonschema.Schema{Type: "string", Enum: names}
}

// ParseTrait resolves a trait by name, case-insensitively. The empty string is TraitNone.
func ParseTrait(name string) (Trait, error) {
	if name == "" {
		return TraitNone, nil
	}
	for i, n := range traitNames {
		if strings.EqualFold(name, n) {
			return Trait(i), nil
		}
	}
	return TraitNone, fmt.Errorf("unknown trait %q", name)
}
