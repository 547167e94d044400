package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/triad-replay-go/internal/engine"
)

func TestPresetRegistry(t *testing.T) {
	golden := loadGoldenRulesets(t)

	p, ok := LookupPreset(golden["v1-default"])
	require.True(t, ok)
	assert.Equal(t, "v1-default", p.Name)
	assert.Equal(t, golden["v1-default"], MustID(p.Ruleset), "stored ruleset hashes to its key")

	_, ok = LookupPreset(engine.Keccak256([]byte("unknown")))
	assert.False(t, ok, "unknown ids degrade to a miss")

	byName, ok := PresetByName("onchain-core-tactics")
	require.True(t, ok)
	assert.Equal(t, golden["onchain-core-tactics"], byName.ID)

	list := ListPresets()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}

	custom, err := RegisterPreset("test-capped", DefaultV1().WithChainCap(1))
	require.NoError(t, err)
	got, ok := LookupPreset(custom.ID)
	require.True(t, ok)
	assert.Equal(t, "test-capped", got.Name)

	_, err = RegisterPreset("broken", Ruleset{})
	assert.ErrorIs(t, err, ErrInvalidRuleset)
}

func TestParseRuleset(t *testing.T) {
	doc := `{
		"version": 2,
		"meta": {"chainCapPerTurn": 2},
		"tactics": {"warningMark": {"enabled": true, "usesPerPlayer": 2, "debuff": 1}},
		"synergy": {"traitEffects": {"enabled": true, "traits": ["wind", "metal"], "earthBoost": 0}},
		"classic": {"reverse": true}
	}`
	r, err := ParseRuleset([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, V2, r.Version)
	assert.Equal(t, Capped(2), r.Meta.ChainCapPerTurn)
	assert.True(t, r.Classic.Reverse)
	require.NoError(t, Validate(r))

	r, err = ParseRuleset([]byte(`{"version": 1}`))
	require.NoError(t, err)
	assert.Equal(t, Uncapped, r.Meta.ChainCapPerTurn, "absent chain cap means uncapped")

	data, err := json.Marshal(DefaultV1())
	require.NoError(t, err)
	back, err := ParseRuleset(data)
	require.NoError(t, err)
	assert.Equal(t, MustID(DefaultV1()), MustID(back))

	_, err = ParseRuleset([]byte(`{"meta": {"chainCapPerTurn": -4}}`))
	assert.Error(t, err)
}
