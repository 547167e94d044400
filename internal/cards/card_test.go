package cards

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJankenCycle(t *testing.T) {
	assert.True(t, Paper.Beats(Rock))
	assert.True(t, Scissors.Beats(Paper))
	assert.True(t, Rock.Beats(Scissors))

	assert.False(t, Rock.Beats(Paper))
	assert.False(t, Paper.Beats(Scissors))
	assert.False(t, Scissors.Beats(Rock))
	for _, h := range []JankenHand{Rock, Paper, Scissors} {
		assert.False(t, h.Beats(h), "%s must not beat itself", h)
	}
}

func TestFixedCodes(t *testing.T) {
	// These codes are hashed; renumbering them breaks every published identifier.
	assert.Equal(t, []uint8{0, 1, 2}, []uint8{uint8(Rock), uint8(Paper), uint8(Scissors)})
	assert.Equal(t, []uint8{0, 1, 2, 3}, []uint8{uint8(Up), uint8(Right), uint8(Down), uint8(Left)})
	assert.Equal(t, uint8(0), uint8(TraitNone))
	assert.Equal(t, uint8(1), uint8(TraitCosmic))
	assert.Equal(t, uint8(5), uint8(TraitMetal))
	assert.Equal(t, uint8(8), uint8(TraitThunder))
	assert.Equal(t, uint8(10), uint8(TraitEarth))
	assert.Len(t, AllTraits(), 10)
}

func TestShiftFloorsAtZero(t *testing.T) {
	c := Card{Edges: [4]uint8{0, 1, 5, 9}}
	assert.Equal(t, [4]uint8{0, 0, 4, 8}, c.Shift(-1).Edges)
	assert.Equal(t, [4]uint8{0, 0, 0, 0}, c.Shift(-20).Edges)
	assert.Equal(t, [4]uint8{2, 3, 7, 11}, c.Shift(2).Edges)
	assert.Equal(t, [4]uint8{0, 1, 5, 0}, c.ShiftEdge(Left, -10).Edges)
	assert.Equal(t, [4]uint8{0, 1, 5, 9}, c.Edges, "shifts return copies")
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, Down, Up.Opposite())
	assert.Equal(t, Left, Right.Opposite())
	assert.Equal(t, Up, Down.Opposite())
	assert.Equal(t, Right, Left.Opposite())
}

func TestCardValidate(t *testing.T) {
	assert.NoError(t, Card{TokenID: 1, Edges: [4]uint8{9, 0, 5, 1}, Trait: TraitWind}.Validate())
	assert.Error(t, Card{TokenID: 1, Edges: [4]uint8{10, 0, 0, 0}}.Validate())
	assert.Error(t, Card{TokenID: 1, Hand: JankenHand(3)}.Validate())
	assert.Error(t, Card{TokenID: 1, Trait: Trait(11)}.Validate())
}

func TestCardJSON(t *testing.T) {
	in := `{"tokenId":7,"edges":[1,2,3,4],"jankenHand":"Paper","combatStatSum":10,"trait":"earth"}`
	var c Card
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	assert.Equal(t, Card{TokenID: 7, Edges: [4]uint8{1, 2, 3, 4}, Hand: Paper, CombatStatSum: 10, Trait: TraitEarth}, c)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tokenId":7,"edges":[1,2,3,4],"jankenHand":"paper","combatStatSum":10,"trait":"earth"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"jankenHand":"lizard"}`), &c))
	_, err = ParseTrait("plasma")
	assert.Error(t, err)
	tr, err := ParseTrait("")
	require.NoError(t, err)
	assert.Equal(t, TraitNone, tr)
}
