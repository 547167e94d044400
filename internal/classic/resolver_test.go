package classic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// goldenHeader carries the inputs the seed vectors in testdata/golden.json were
// generated from.
func goldenHeader(t *testing.T) transcript.Header {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "transcript_v1.json"))
	require.NoError(t, err)
	tr, err := transcript.ParseTranscript(data)
	require.NoError(t, err)
	return tr.Header
}

func TestSwapGolden(t *testing.T) {
	h := goldenHeader(t)
	r := New(h, rules.Classic{Swap: true})

	a, b, ok := r.SwapSlots()
	require.True(t, ok)
	assert.Equal(t, 2, a)
	assert.Equal(t, 4, b)

	decks := r.Decks(h)
	assert.Equal(t, [transcript.DeckSize]cards.TokenID{101, 102, 205, 104, 105}, decks[0])
	assert.Equal(t, [transcript.DeckSize]cards.TokenID{201, 202, 203, 204, 103}, decks[1])
}

func TestSwapOff(t *testing.T) {
	h := goldenHeader(t)
	r := New(h, rules.Classic{})
	_, _, ok := r.SwapSlots()
	assert.False(t, ok)

	decks := r.Decks(h)
	assert.Equal(t, h.DeckA, decks[0])
	assert.Equal(t, h.DeckB, decks[1])
}

func TestForcedOrderPicksLowestRemaining(t *testing.T) {
	r := New(goldenHeader(t), rules.Classic{Order: true})

	idx, ok := r.Forced(3, 1, []uint8{4, 2, 3})
	require.True(t, ok)
	assert.Equal(t, uint8(2), idx)

	_, ok = r.Forced(9, 0, nil)
	assert.False(t, ok)
}

func TestForcedChaosGolden(t *testing.T) {
	r := New(goldenHeader(t), rules.Classic{Chaos: true})

	idx, ok := r.Forced(0, 0, []uint8{0, 1, 2, 3, 4})
	require.True(t, ok)
	assert.Equal(t, uint8(1), idx)

	idx, _ = r.Forced(1, 1, []uint8{4, 3, 2, 1, 0})
	assert.Equal(t, uint8(3), idx, "remaining slots are sorted before indexing")

	idx, _ = r.Forced(2, 0, []uint8{0, 2, 3, 4})
	assert.Equal(t, uint8(2), idx)
}

func TestNoForcedCardWithoutVariant(t *testing.T) {
	r := New(goldenHeader(t), rules.Classic{Swap: true, AllOpen: true})
	_, ok := r.Forced(0, 0, []uint8{0, 1, 2, 3, 4})
	assert.False(t, ok)
}

func TestOpenCards(t *testing.T) {
	h := goldenHeader(t)

	t.Run("hidden", func(t *testing.T) {
		r := New(h, rules.Classic{})
		assert.Equal(t, [transcript.DeckSize]bool{}, r.OpenCards(0))
	})

	t.Run("all open", func(t *testing.T) {
		r := New(h, rules.Classic{AllOpen: true})
		all := [transcript.DeckSize]bool{true, true, true, true, true}
		assert.Equal(t, all, r.OpenCards(0))
		assert.Equal(t, all, r.OpenCards(1))
	})

	t.Run("three open", func(t *testing.T) {
		r := New(h, rules.Classic{ThreeOpen: true})
		want := [transcript.DeckSize]bool{false, true, true, true, false}
		assert.Equal(t, want, r.OpenCards(0))
		assert.Equal(t, want, r.OpenCards(1))
	})
}

func TestResolverIsStable(t *testing.T) {
	h := goldenHeader(t)
	c := rules.Classic{Chaos: true, Swap: true, ThreeOpen: true}
	first, second := New(h, c), New(h, c)
	assert.Equal(t, first.Seed().Hash(), second.Seed().Hash())
	assert.Equal(t, first.Decks(h), second.Decks(h))
	assert.Equal(t, first.OpenCards(1), second.OpenCards(1))
	assert.Equal(t, c, first.Rules())

	h.Salt[31] ^= 0xff
	assert.NotEqual(t, first.Seed().Hash(), New(h, c).Seed().Hash())
}
