// Package firstplayer decides who moves first before a transcript exists.
// Commitment mismatches are reported through Resolution.Valid, not as errors.
package firstplayer

import (
	"errors"
	"fmt"

	"github.com/MJE43/triad-replay-go/internal/engine"
)

// Mode names a first-player resolution protocol.
type Mode string

const (
	Manual                Mode = "manual"
	MutualChoice          Mode = "mutual-choice"
	CommittedMutualChoice Mode = "committed-mutual-choice"
	CommitReveal          Mode = "commit-reveal"
	SeedReveal            Mode = "seed"
)

// Modes lists every supported mode.
var Modes = []Mode{Manual, MutualChoice, CommittedMutualChoice, CommitReveal, SeedReveal}

var (
	ErrUnknownMode  = errors.New("unknown first-player mode")
	ErrInvalidInput = errors.New("invalid first-player input")
)

// ParseMode accepts any name listed in Modes.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ChoiceReveal opens one player's committed mutual choice.
type ChoiceReveal struct {
	Player engine.Address `json:"player"`
	Commit engine.Hash    `json:"commit"`
	Choice uint8          `json:"choice"`
	Nonce  engine.Hash    `json:"nonce"`
}

// SecretReveal opens one player's coin-toss secret.
type SecretReveal struct {
	Player engine.Address `json:"player"`
	Commit engine.Hash    `json:"commit"`
	Reveal engine.Hash    `json:"reveal"`
}

// Params carries the inputs of every mode; each mode reads only its own fields.
type Params struct {
	Salt engine.Hash `json:"salt"`

	// Manual
	Choice uint8 `json:"choice"`

	// MutualChoice
	ChoiceA uint8 `json:"choiceA"`
	ChoiceB uint8 `json:"choiceB"`

	// CommittedMutualChoice
	CommittedA ChoiceReveal `json:"committedA"`
	CommittedB ChoiceReveal `json:"committedB"`

	// CommitReveal
	SecretA SecretReveal `json:"secretA"`
	SecretB SecretReveal `json:"secretB"`

	// SeedReveal
	Seed       engine.Hash `json:"seed"`
	SeedCommit engine.Hash `json:"seedCommit"`
}

// Resolution is the outcome of a first-player protocol. When Valid is false the
// FirstPlayer value must not be used and Reason says why.
type Resolution struct {
	Mode        Mode   `json:"mode"`
	FirstPlayer uint8  `json:"firstPlayer"`
	Valid       bool   `json:"valid"`
	Reason      string `json:"reason,omitempty"`
}

func valid(m Mode, first uint8) Resolution {
	return Resolution{Mode: m, FirstPlayer: first, Valid: true}
}

func invalid(m Mode, reason string) Resolution {
	return Resolution{Mode: m, Reason: reason}
}

func checkBit(field string, v uint8) error {
	if v > 1 {
		return fmt.Errorf("%w: %s must be 0 or 1, got %d", ErrInvalidInput, field, v)
	}
	return nil
}

// Resolve runs mode over p. The error return is reserved for unknown modes and
// out-of-range choices.
func Resolve(mode Mode, p Params) (Resolution, error) {
	switch mode {
	case Manual:
		if err := checkBit("choice", p.Choice); err != nil {
			return Resolution{}, err
		}
		return valid(mode, p.Choice), nil

	case MutualChoice:
		if err := errors.Join(checkBit("choiceA", p.ChoiceA), checkBit("choiceB", p.ChoiceB)); err != nil {
			return Resolution{}, err
		}
		return agree(mode, p.ChoiceA, p.ChoiceB), nil

	case CommittedMutualChoice:
		a, b := p.CommittedA, p.CommittedB
		if err := errors.Join(checkBit("committedA.choice", a.Choice), checkBit("committedB.choice", b.Choice)); err != nil {
			return Resolution{}, err
		}
		if !VerifyChoiceCommit(a.Commit, p.Salt, a.Player, a.Choice, a.Nonce) {
			return invalid(mode, "player A commitment does not match reveal"), nil
		}
		if !VerifyChoiceCommit(b.Commit, p.Salt, b.Player, b.Choice, b.Nonce) {
			return invalid(mode, "player B commitment does not match reveal"), nil
		}
		return agree(mode, a.Choice, b.Choice), nil

	case CommitReveal:
		a, b := p.SecretA, p.SecretB
		if !VerifyRevealCommit(a.Commit, p.Salt, a.Player, a.Reveal) {
			return invalid(mode, "player A commitment does not match reveal"), nil
		}
		if !VerifyRevealCommit(b.Commit, p.Salt, b.Player, b.Reveal) {
			return invalid(mode, "player B commitment does not match reveal"), nil
		}
		return valid(mode, CoinToss(p.Salt, a.Reveal, b.Reveal)), nil

	case SeedReveal:
		if !VerifySeedCommit(p.SeedCommit, p.Seed) {
			return invalid(mode, "seed commitment does not match reveal"), nil
		}
		return valid(mode, SeedParity(p.Salt, p.Seed)), nil
	}
	return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func agree(mode Mode, a, b uint8) Resolution {
	if a != b {
		return invalid(mode, fmt.Sprintf("players disagree: A chose %d, B chose %d", a, b))
	}
	return valid(mode, a)
}
