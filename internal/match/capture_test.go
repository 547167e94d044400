package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

func TestCompare(t *testing.T) {
	rock, paper := card(5, 5, 5, 5), withHand(card(5, 5, 5, 5), cards.Paper)
	cases := []struct {
		name     string
		classic  rules.Classic
		a, d     uint8
		allowAce bool
		win      bool
		kind     CaptureKind
	}{
		{"higher wins", rules.Classic{}, 6, 5, true, true, CaptureEdge},
		{"lower loses", rules.Classic{}, 4, 5, true, false, CaptureEdge},
		{"reverse lower wins", rules.Classic{Reverse: true}, 4, 5, true, true, CaptureEdge},
		{"reverse higher loses", rules.Classic{Reverse: true}, 6, 5, true, false, CaptureEdge},
		{"ace kills nine", rules.Classic{AceKiller: true}, 1, 9, true, true, CaptureAceKiller},
		{"nine never beats ace", rules.Classic{AceKiller: true}, 9, 1, true, false, ""},
		{"reversed ace", rules.Classic{AceKiller: true, Reverse: true}, 9, 1, true, true, CaptureAceKiller},
		{"reversed ace guard", rules.Classic{AceKiller: true, Reverse: true}, 1, 9, true, false, ""},
		{"diagonals ignore ace", rules.Classic{AceKiller: true}, 1, 9, false, false, CaptureEdge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			win, janken, kind := compare(tc.classic, rock, rock, tc.a, tc.d, tc.allowAce)
			assert.Equal(t, tc.win, win)
			assert.False(t, janken)
			assert.Equal(t, tc.kind, kind)
		})
	}

	t.Run("tie falls to janken", func(t *testing.T) {
		win, janken, kind := compare(rules.Classic{}, paper, rock, 5, 5, true)
		assert.True(t, win)
		assert.True(t, janken)
		assert.Equal(t, CaptureEdge, kind)

		win, _, _ = compare(rules.Classic{}, rock, paper, 5, 5, true)
		assert.False(t, win)
		win, _, _ = compare(rules.Classic{}, rock, rock, 5, 5, true)
		assert.False(t, win, "identical hands never capture")
	})
}

func TestJankenCapture(t *testing.T) {
	cases := []struct {
		defender, attacker cards.JankenHand
		captured           bool
	}{
		{cards.Rock, cards.Paper, true},
		{cards.Paper, cards.Scissors, true},
		{cards.Scissors, cards.Rock, true},
		{cards.Paper, cards.Rock, false},
		{cards.Rock, cards.Rock, false},
	}
	for _, tc := range cases {
		t.Run(tc.attacker.String()+"-vs-"+tc.defender.String(), func(t *testing.T) {
			g := newGame(t, rules.OnchainCoreTactics(),
				hand(withHand(card(5, 5, 5, 5), tc.defender)),
				hand(withHand(card(5, 5, 5, 5), tc.attacker)))
			s := play(t, g, transcript.Place(4, 0), transcript.Place(5, 0))[1]

			if !tc.captured {
				assert.Zero(t, s.Flips)
				assert.Equal(t, uint8(0), g.Board()[4].Owner)
				return
			}
			require.Len(t, s.Captures, 1)
			assert.True(t, s.Captures[0].Janken)
			assert.Equal(t, Trace{From: 5, To: 4, Kind: CaptureEdge, AttackerValue: 5, DefenderValue: 5, Janken: true}, s.Captures[0])
			assert.Equal(t, uint8(1), g.Board()[4].Owner)
		})
	}
}

// chainTurns lets A take cell 1 from cell 0; the captured card's right edge then
// chains into B's card on cell 2.
var chainTurns = []transcript.Turn{
	transcript.Place(8, 0),
	transcript.Place(1, 0),
	transcript.Place(6, 1),
	transcript.Place(2, 1),
	transcript.Place(0, 2),
}

func chainGame(t *testing.T, r rules.Ruleset, cellTwo cards.Card) *Game {
	return newGame(t, r,
		hand(filler, filler, card(9, 9, 9, 9)),
		hand(card(1, 9, 1, 1), cellTwo))
}

func TestChainCapture(t *testing.T) {
	t.Run("cascade", func(t *testing.T) {
		g := chainGame(t, rules.OnchainCoreTactics(), filler)
		s := play(t, g, chainTurns...)[4]
		require.Len(t, s.Captures, 2)
		assert.False(t, s.Captures[0].Chain)
		assert.Equal(t, Trace{From: 1, To: 2, Kind: CaptureEdge, AttackerValue: 9, DefenderValue: 1, Chain: true}, s.Captures[1])
		assert.Equal(t, 3, s.ComboCount)
		assert.Equal(t, ComboMomentum, s.ComboEffect)
	})

	t.Run("cap", func(t *testing.T) {
		g := chainGame(t, rules.OnchainCoreTactics().WithChainCap(1), filler)
		s := play(t, g, chainTurns...)[4]
		assert.Equal(t, 1, s.Flips)
		assert.True(t, s.CapReached)
		assert.Equal(t, uint8(1), g.Board()[2].Owner)
	})

	t.Run("metal resists chains", func(t *testing.T) {
		g := chainGame(t, rules.DefaultV1(), withTrait(filler, cards.TraitMetal))
		s := play(t, g, chainTurns...)[4]
		assert.Equal(t, 1, s.Flips)
		assert.False(t, s.CapReached)
		assert.Equal(t, uint8(1), g.Board()[2].Owner)
	})

	t.Run("metal without trait effects", func(t *testing.T) {
		g := chainGame(t, rules.OnchainCoreTactics(), withTrait(filler, cards.TraitMetal))
		s := play(t, g, chainTurns...)[4]
		assert.Equal(t, 2, s.Flips)
	})
}

func TestForestShield(t *testing.T) {
	g := newGame(t, rules.DefaultV1(),
		hand(card(9, 9, 9, 9), card(9, 9, 9, 9)),
		hand(withTrait(filler, cards.TraitForest)))

	play(t, g, transcript.Place(8, 2), transcript.Place(1, 0))
	require.True(t, g.Board()[1].Shielded)

	s := play(t, g, transcript.Place(0, 0))[0]
	assert.Zero(t, s.Flips)
	assert.Equal(t, []int{1}, s.ShieldsBroken)
	assert.Equal(t, uint8(1), g.Board()[1].Owner)
	assert.False(t, g.Board()[1].Shielded)

	summaries := play(t, g, transcript.Place(5, 1), transcript.Place(2, 1))
	assert.Equal(t, []int{5, 1}, toCells(summaries[1].Captures))
	assert.Equal(t, uint8(0), g.Board()[1].Owner)
}

func TestThunderWeakensCaptured(t *testing.T) {
	g := newGame(t, rules.DefaultV1(),
		hand(withTrait(card(9, 9, 9, 9), cards.TraitThunder)),
		hand(card(5, 5, 5, 5)))
	play(t, g, transcript.Place(8, 1), transcript.Place(1, 0), transcript.Place(0, 0))

	captured := g.Board()[1]
	assert.Equal(t, uint8(0), captured.Owner)
	assert.Equal(t, [4]uint8{4, 4, 4, 4}, captured.Card.Edges)
}

func TestWindDiagonal(t *testing.T) {
	turns := []transcript.Turn{transcript.Place(6, 1), transcript.Place(2, 0), transcript.Place(4, 0)}
	wind := withTrait(card(3, 3, 1, 1), cards.TraitWind)

	g := newGame(t, rules.DefaultV1(), hand(wind), hand())
	s := play(t, g, turns...)[2]
	require.Len(t, s.Captures, 1)
	assert.Equal(t, Trace{From: 4, To: 2, Kind: CaptureDiagonal, AttackerValue: 6, DefenderValue: 2}, s.Captures[0])

	g = newGame(t, rules.OnchainCoreTactics(), hand(wind), hand())
	s = play(t, g, turns...)[2]
	assert.Zero(t, s.Flips)
}

// sameTurns brings B's cards on cells 1 and 3 into contact with A's card on 4.
var sameTurns = []transcript.Turn{
	transcript.Place(8, 0),
	transcript.Place(1, 0),
	transcript.Place(6, 1),
	transcript.Place(3, 1),
	transcript.Place(4, 2),
}

func TestSameAndPlus(t *testing.T) {
	t.Run("same", func(t *testing.T) {
		r := rules.ClassicV2(rules.Classic{Same: true})
		g := newGame(t, r, hand(filler, filler, card(3, 1, 1, 4)), hand(card(1, 1, 3, 1), card(1, 4, 1, 1)))
		s := play(t, g, sameTurns...)[4]
		require.Len(t, s.Captures, 2)
		assert.Equal(t, CaptureSame, s.Captures[0].Kind)
		assert.Equal(t, CaptureSame, s.Captures[1].Kind)
		assert.Equal(t, []int{1, 3}, toCells(s.Captures))
	})

	t.Run("plain ties do not capture", func(t *testing.T) {
		r := rules.ClassicV2(rules.Classic{})
		g := newGame(t, r, hand(filler, filler, card(3, 1, 1, 4)), hand(card(1, 1, 3, 1), card(1, 4, 1, 1)))
		s := play(t, g, sameTurns...)[4]
		assert.Zero(t, s.Flips)
	})

	t.Run("plus", func(t *testing.T) {
		r := rules.ClassicV2(rules.Classic{Plus: true})
		g := newGame(t, r, hand(filler, filler, card(2, 1, 1, 3)), hand(card(1, 1, 5, 1), card(1, 4, 1, 1)))
		s := play(t, g, sameTurns...)[4]
		assert.Equal(t, []int{1, 3}, toCells(s.Captures))
		assert.Equal(t, CapturePlus, s.Captures[0].Kind)
		assert.Equal(t, 7, s.Captures[0].AttackerValue+s.Captures[0].DefenderValue)
	})

	t.Run("plus needs two sums", func(t *testing.T) {
		r := rules.ClassicV2(rules.Classic{Plus: true})
		g := newGame(t, r, hand(filler, filler, card(2, 1, 1, 3)), hand(card(1, 1, 5, 1), card(1, 5, 1, 1)))
		s := play(t, g, sameTurns...)[4]
		assert.Zero(t, s.Flips)
	})
}

func TestSynergyModifiers(t *testing.T) {
	r := rules.DefaultV1()

	t.Run("cosmic corner", func(t *testing.T) {
		cosmic := withTrait(filler, cards.TraitCosmic)
		g := newGame(t, r, hand(cosmic, cosmic), hand())
		summaries := play(t, g, transcript.Place(0, 0), transcript.Place(8, 0), transcript.Place(4, 1))
		assert.Equal(t, []Modifier{ModCosmic}, summaries[0].Modifiers)
		assert.Equal(t, [4]uint8{2, 2, 2, 2}, summaries[0].Card.Edges)
		assert.Empty(t, summaries[2].Modifiers)
	})

	t.Run("light ally", func(t *testing.T) {
		light := withTrait(filler, cards.TraitLight)
		g := newGame(t, r, hand(filler, light, light), hand())
		summaries := play(t, g,
			transcript.Place(0, 0), transcript.Place(8, 0),
			transcript.Place(1, 1), transcript.Place(6, 1),
			transcript.Place(5, 2),
		)
		assert.Equal(t, []Modifier{ModLight}, summaries[2].Modifiers)
		assert.Empty(t, summaries[4].Modifiers, "cell 5 only touches the opponent on 8")
	})

	t.Run("earth boost", func(t *testing.T) {
		earth := withTrait(card(5, 5, 5, 5), cards.TraitEarth)
		g := newGame(t, r, hand(earth), hand())
		s := play(t, g, transcript.Place(4, 0).WithEarthBoost(cards.Up))[0]
		assert.Equal(t, []Modifier{ModEarthBoost}, s.Modifiers)
		assert.Equal(t, [4]uint8{6, 5, 4, 5}, s.Card.Edges)
	})

	t.Run("earth boost on another trait", func(t *testing.T) {
		g := newGame(t, r, hand(card(5, 5, 5, 5)), hand())
		s := play(t, g, transcript.Place(4, 0).WithEarthBoost(cards.Up))[0]
		assert.Empty(t, s.Modifiers)
		assert.Equal(t, [4]uint8{5, 5, 5, 5}, s.Card.Edges)
	})

	t.Run("earth boost outside the ruleset", func(t *testing.T) {
		g := newGame(t, rules.OnchainCoreTactics(), hand(withTrait(filler, cards.TraitEarth)), hand())
		_, err := g.Play(transcript.Place(4, 0).WithEarthBoost(cards.Up))
		assert.ErrorIs(t, err, transcript.ErrProtocolViolation)
	})
}

func TestTypeAscendDescend(t *testing.T) {
	metal := withTrait(card(3, 3, 3, 3), cards.TraitMetal)
	turns := []transcript.Turn{transcript.Place(0, 0), transcript.Place(8, 0), transcript.Place(4, 1)}

	g := newGame(t, rules.ClassicV2(rules.Classic{TypeAscend: true}), hand(metal, metal), hand(metal))
	s := play(t, g, turns...)
	assert.Empty(t, s[0].Modifiers)
	assert.Equal(t, [4]uint8{4, 4, 4, 4}, s[1].Card.Edges)
	assert.Equal(t, [4]uint8{5, 5, 5, 5}, s[2].Card.Edges)
	assert.Equal(t, []Modifier{ModTypeAscend}, s[2].Modifiers)

	g = newGame(t, rules.ClassicV2(rules.Classic{TypeDescend: true}), hand(metal, metal), hand(metal))
	s = play(t, g, turns...)
	assert.Equal(t, [4]uint8{1, 1, 1, 1}, s[2].Card.Edges)
	assert.Equal(t, []Modifier{ModTypeDescend}, s[2].Modifiers)
}

func TestComboThresholds(t *testing.T) {
	cb := rules.DefaultV1().Tactics.ComboBonus
	want := map[int]ComboEffect{1: ComboNone, 2: ComboNone, 3: ComboMomentum, 4: ComboDomination, 5: ComboFever, 9: ComboFever}
	for count, effect := range want {
		assert.Equal(t, effect, comboEffect(cb, count), "count %d", count)
	}
	assert.Equal(t, ComboNone, comboEffect(rules.ComboBonus{}, 9))

	assert.Equal(t, bonus{triadPlus: 1}, bonusFor(cb, ComboMomentum))
	assert.Equal(t, bonus{triadPlus: 2}, bonusFor(cb, ComboDomination))
	assert.Equal(t, bonus{ignoreWarning: true}, bonusFor(cb, ComboFever))
	assert.True(t, warningImmune(rules.TraitEffects{}, filler, bonusFor(cb, ComboFever)))
}
