package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MJE43/triad-replay-go/internal/match"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// Bot picks the next move. g is a private clone the bot may play on freely.
type Bot interface {
	Name() string
	Choose(ctx context.Context, g *match.Game) (transcript.Turn, error)
}

// ScriptBot delegates to a JavaScript choose(state) function. It is not safe for
// concurrent use.
type ScriptBot struct {
	name string
	vm   *VM
}

// NewScriptBot executes source and requires it to define choose().
func NewScriptBot(ctx context.Context, name, source string, timeout time.Duration) (*ScriptBot, error) {
	vm := NewVM(timeout)
	if err := vm.Execute(ctx, source); err != nil {
		return nil, fmt.Errorf("bot %s: %w", name, err)
	}
	if !vm.HasChoose() {
		return nil, fmt.Errorf("bot %s: %w", name, ErrNoChoose)
	}
	return &ScriptBot{name: name, vm: vm}, nil
}

// LoadScriptBot reads a bot from a .js file, named after the file.
func LoadScriptBot(ctx context.Context, path string, timeout time.Duration) (*ScriptBot, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewScriptBot(ctx, name, string(src), timeout)
}

func (b *ScriptBot) Name() string { return b.name }

func (b *ScriptBot) Choose(ctx context.Context, g *match.Game) (transcript.Turn, error) {
	return b.vm.CallChoose(ctx, NewView(g))
}

// Logs returns what the script printed so far.
func (b *ScriptBot) Logs() []LogEntry { return b.vm.Logs() }

// FirstFitBot plays its lowest remaining card on the lowest empty cell.
type FirstFitBot struct{}

func (FirstFitBot) Name() string { return "first-fit" }

func (FirstFitBot) Choose(_ context.Context, g *match.Game) (transcript.Turn, error) {
	empty := g.Board().Empty()
	remaining := g.Remaining(g.Actor())
	if len(empty) == 0 || len(remaining) == 0 {
		return transcript.Turn{}, match.ErrMatchOver
	}
	slot := remaining[0]
	if forced, ok := g.ForcedCardIndex(); ok {
		slot = forced
	}
	return transcript.Place(empty[0], slot), nil
}

// GreedyBot tries every cell and card on a clone and keeps the move that leaves
// it with the most tiles. Ties keep the earliest cell, then the lowest card.
type GreedyBot struct{}

func (GreedyBot) Name() string { return "greedy" }

func (GreedyBot) Choose(ctx context.Context, g *match.Game) (transcript.Turn, error) {
	actor := g.Actor()
	slots := g.Remaining(actor)
	if forced, ok := g.ForcedCardIndex(); ok {
		slots = []uint8{forced}
	}

	var best transcript.Turn
	bestTiles := -1
	for _, cell := range g.Board().Empty() {
		for _, slot := range slots {
			if err := ctx.Err(); err != nil {
				return transcript.Turn{}, err
			}
			turn := transcript.Place(cell, slot)
			trial := g.Clone()
			if _, err := trial.Play(turn); err != nil {
				continue
			}
			if tiles := trial.Board().Count()[actor]; tiles > bestTiles {
				best, bestTiles = turn, tiles
			}
		}
	}
	if bestTiles < 0 {
		return transcript.Turn{}, match.ErrMatchOver
	}
	return best, nil
}
