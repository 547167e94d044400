package match

import (
	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// Simulate replays t under r with cards from p. It is a pure function of its
// inputs: the ruleset and the whole transcript are validated before the first
// placement, and every call owns its board.
func Simulate(t transcript.Transcript, p cards.Provider, r rules.Ruleset, opts ...Option) (*Result, error) {
	if err := rules.Validate(r); err != nil {
		return nil, err
	}
	if err := transcript.Validate(t); err != nil {
		return nil, err
	}
	if err := transcript.CheckRuleset(t, r); err != nil {
		return nil, err
	}

	g, err := NewGame(t.Header, p, r, opts...)
	if err != nil {
		return nil, err
	}
	for _, turn := range t.Turns {
		if _, err := g.Play(turn); err != nil {
			return nil, err
		}
	}
	return g.Finish()
}
