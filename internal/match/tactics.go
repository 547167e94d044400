package match

import (
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// ComboEffect is the tag a turn's combo count unlocks.
type ComboEffect string

const (
	ComboNone       ComboEffect = "none"
	ComboMomentum   ComboEffect = "momentum"
	ComboDomination ComboEffect = "domination"
	ComboFever      ComboEffect = "fever"
)

// bonus is carried into a player's next placement and consumed there.
type bonus struct {
	triadPlus     uint8
	ignoreWarning bool
}

// comboCount counts the placement itself plus every flip it caused.
func comboCount(flips int) int { return 1 + flips }

func comboEffect(cb rules.ComboBonus, count int) ComboEffect {
	if !cb.Enabled {
		return ComboNone
	}
	switch {
	case count >= int(cb.FeverAt):
		return ComboFever
	case count >= int(cb.DominationAt):
		return ComboDomination
	case count >= int(cb.MomentumAt):
		return ComboMomentum
	}
	return ComboNone
}

func bonusFor(cb rules.ComboBonus, e ComboEffect) bonus {
	switch e {
	case ComboMomentum:
		return bonus{triadPlus: cb.MomentumTriadPlus}
	case ComboDomination:
		return bonus{triadPlus: cb.DominationTriadPlus}
	case ComboFever:
		return bonus{ignoreWarning: true}
	}
	return bonus{}
}

// marks tracks live warning marks: the marking player per cell, or None.
type marks [transcript.BoardCells]uint8

func newMarks() marks {
	var m marks
	for i := range m {
		m[i] = transcript.None
	}
	return m
}

// against reports whether cell carries a mark placed by actor's opponent.
func (m marks) against(cell int, actor uint8) bool {
	return m[cell] != transcript.None && m[cell] != actor
}
