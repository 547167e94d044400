package rules

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/MJE43/triad-replay-go/internal/engine"
)

// Preset is a named ruleset known by its identifier.
type Preset struct {
	Name    string      `json:"name"`
	ID      engine.Hash `json:"rulesetId"`
	Ruleset Ruleset     `json:"ruleset"`
}

var (
	presetsMu sync.RWMutex
	presets   = make(map[engine.Hash]Preset)
)

// RegisterPreset adds a ruleset under name and returns its preset entry.
// Registering an equivalent ruleset again replaces the name.
func RegisterPreset(name string, r Ruleset) (Preset, error) {
	id, err := ComputeID(r)
	if err != nil {
		return Preset{}, err
	}
	p := Preset{Name: name, ID: id, Ruleset: Canonicalize(r)}

	presetsMu.Lock()
	presets[id] = p
	presetsMu.Unlock()
	return p, nil
}

// LookupPreset maps a rulesetId back to a known preset. Unknown ids are not an
// error: callers fall back to their own configuration.
func LookupPreset(id engine.Hash) (Preset, bool) {
	presetsMu.RLock()
	defer presetsMu.RUnlock()
	p, ok := presets[id]
	if ok {
		p.Ruleset = p.Ruleset.Clone()
	}
	return p, ok
}

// ListPresets returns every registered preset ordered by name.
func ListPresets() []Preset {
	presetsMu.RLock()
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		p.Ruleset = p.Ruleset.Clone()
		out = append(out, p)
	}
	presetsMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PresetByName finds a registered preset by its name.
func PresetByName(name string) (Preset, bool) {
	return lo.Find(ListPresets(), func(p Preset) bool { return p.Name == name })
}

func init() {
	mustRegister("v1-default", DefaultV1())
	mustRegister("onchain-core-tactics", OnchainCoreTactics())
	mustRegister("classic-plus-same", ClassicV2(Classic{Plus: true, Same: true}))
	mustRegister("classic-order-swap", ClassicV2(Classic{Order: true, Swap: true}))
	mustRegister("classic-chaos-three-open", ClassicV2(Classic{Chaos: true, ThreeOpen: true}))
	mustRegister("classic-reverse-ace-killer", ClassicV2(Classic{Reverse: true, AceKiller: true}))
}

func mustRegister(name string, r Ruleset) {
	if _, err := RegisterPreset(name, r); err != nil {
		panic(err)
	}
}
