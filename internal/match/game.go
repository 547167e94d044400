package match

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/classic"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

var (
	ErrMatchOver       = errors.New("match is over")
	ErrMatchInProgress = errors.New("match is not finished")
)

// Option configures a Game or Simulate call.
type Option func(*options)

type options struct {
	history bool
}

// WithHistory retains a board snapshot before the first turn and after every turn.
func WithHistory() Option {
	return func(o *options) { o.history = true }
}

// Game is the stateful engine for one match. It is not safe for concurrent use;
// independent matches need independent Games.
type Game struct {
	header   transcript.Header
	rules    rules.Ruleset
	resolver *classic.Resolver
	catalog  map[cards.TokenID]cards.Card

	decks [2][transcript.DeckSize]cards.TokenID
	open  [2][transcript.DeckSize]bool
	used  [2][transcript.DeckSize]bool

	board     Board
	marks     marks
	marksUsed [2]int
	pending   [2]bonus
	meter     [2]int

	turns     []transcript.Turn
	played    [2][]uint8
	summaries []TurnSummary
	history   []Board
	opts      options
}

// NewGame validates the ruleset and header, applies any classic swap and resolves
// both decks from p. Missing tokens surface as *cards.MissingCardsError.
func NewGame(h transcript.Header, p cards.Provider, r rules.Ruleset, opts ...Option) (*Game, error) {
	if err := rules.Validate(r); err != nil {
		return nil, err
	}
	if err := transcript.ValidateHeader(h); err != nil {
		return nil, err
	}
	if err := transcript.CheckHeader(h, r); err != nil {
		return nil, err
	}

	catalog, err := cards.Resolve(p, h.TokenIDs())
	if err != nil {
		return nil, err
	}
	for id, card := range catalog {
		card.TokenID = id
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry: %w", err)
		}
		catalog[id] = card
	}

	res := classic.New(h, r.Classic)
	g := &Game{
		header:   h,
		rules:    r.Clone(),
		resolver: res,
		catalog:  catalog,
		decks:    res.Decks(h),
		open:     [2][transcript.DeckSize]bool{res.OpenCards(0), res.OpenCards(1)},
		marks:    newMarks(),
		turns:    make([]transcript.Turn, 0, transcript.TurnCount),
	}
	for _, o := range opts {
		o(&g.opts)
	}
	if g.opts.history {
		g.history = append(make([]Board, 0, transcript.TurnCount+1), g.board)
	}
	return g, nil
}

// Header is the match header the game was created with.
func (g *Game) Header() transcript.Header { return g.header }

// Rules returns a copy of the ruleset in play.
func (g *Game) Rules() rules.Ruleset { return g.rules.Clone() }

// Turn is the index of the next turn to play.
func (g *Game) Turn() int { return len(g.turns) }

// Done reports whether all nine turns were played.
func (g *Game) Done() bool { return len(g.turns) >= transcript.TurnCount }

// Actor is the player who places next.
func (g *Game) Actor() uint8 { return g.header.Actor(len(g.turns)) }

// Board returns a snapshot of the board.
func (g *Game) Board() Board { return g.board }

// Deck returns player's starting deck after any classic swap.
func (g *Game) Deck(player uint8) [transcript.DeckSize]cards.TokenID { return g.decks[player] }

// Card returns the catalog card in player's deck slot.
func (g *Game) Card(player, slot uint8) cards.Card { return g.catalog[g.decks[player][slot]] }

// OpenCards reports which of player's slots the opponent may see.
func (g *Game) OpenCards(player uint8) [transcript.DeckSize]bool { return g.open[player] }

// Remaining lists player's unplayed deck slots in ascending order.
func (g *Game) Remaining(player uint8) []uint8 {
	out := make([]uint8, 0, transcript.DeckSize)
	for i, used := range g.used[player] {
		if !used {
			out = append(out, uint8(i))
		}
	}
	return out
}

// MarksLeft is the number of warning marks player may still place.
func (g *Game) MarksLeft(player uint8) int {
	wm := g.rules.Tactics.WarningMark
	if !wm.Enabled {
		return 0
	}
	return int(wm.UsesPerPlayer) - g.marksUsed[player]
}

// MarkOwner returns the player whose live mark sits on cell, or transcript.None.
func (g *Game) MarkOwner(cell uint8) uint8 { return g.marks[cell] }

// Meter returns player's most recent combo count.
func (g *Game) Meter(player uint8) int { return g.meter[player] }

// ForcedCardIndex returns the slot the next actor must play under order or chaos.
func (g *Game) ForcedCardIndex() (uint8, bool) {
	if g.Done() {
		return 0, false
	}
	actor := g.Actor()
	return g.resolver.Forced(len(g.turns), actor, g.Remaining(actor))
}

// Play applies the next turn. Every check runs before the board changes, so a
// rejected turn leaves the game untouched.
func (g *Game) Play(turn transcript.Turn) (TurnSummary, error) {
	i := len(g.turns)
	if i >= transcript.TurnCount {
		return TurnSummary{}, ErrMatchOver
	}
	if err := transcript.ValidateTurn(i, turn); err != nil {
		return TurnSummary{}, err
	}
	if err := transcript.CheckTurn(i, turn, g.rules); err != nil {
		return TurnSummary{}, err
	}

	cell := int(turn.Cell)
	if g.board[cell].Occupied {
		return TurnSummary{}, transcript.Malformedf(i, "cell", "cell %d already used", cell)
	}
	actor := g.Actor()
	slot, forced := g.ForcedCardIndex()
	if !forced {
		slot = turn.CardIndex
		if g.used[actor][slot] {
			return TurnSummary{}, transcript.Malformedf(i, "cardIndex", "player %d already played card %d", actor, slot)
		}
	}
	if turn.HasWarningMark() {
		m := turn.WarningMarkCell
		if int(m) == cell || g.board[m].Occupied {
			return TurnSummary{}, transcript.Malformedf(i, "warningMarkCell", "cell %d is occupied", m)
		}
		if g.marks[m] != transcript.None {
			return TurnSummary{}, transcript.Malformedf(i, "warningMarkCell", "cell %d is already marked", m)
		}
		if g.MarksLeft(actor) <= 0 {
			return TurnSummary{}, transcript.Violationf(i, "player %d exceeds %d warning marks", actor, g.rules.Tactics.WarningMark.UsesPerPlayer)
		}
	}

	te := g.rules.Synergy.TraitEffects
	cb := g.rules.Tactics.ComboBonus
	wm := g.rules.Tactics.WarningMark

	pending := g.pending[actor]
	g.pending[actor] = bonus{}

	base := g.catalog[g.decks[actor][slot]]
	p := placement{card: base, cell: cell, actor: actor, earthEdge: turn.EarthBoostEdge}
	p.shift(int(pending.triadPlus), ModTriadPlus)
	p.synergy(te, &g.board)
	p.typeShift(g.rules.Classic, &g.board)
	debuffed := false
	if g.marks.against(cell, actor) && !warningImmune(te, base, pending) && wm.Debuff > 0 {
		p.shift(-int(wm.Debuff), ModWarning)
		debuffed = true
	}

	g.marks[cell] = transcript.None
	g.used[actor][slot] = true
	g.played[actor] = append(g.played[actor], slot)
	g.board[cell] = Slot{
		Occupied: true,
		Owner:    actor,
		Card:     p.card,
		Shielded: te.Has(cards.TraitForest) && base.Trait == cards.TraitForest,
	}

	w := wave{
		board:   &g.board,
		actor:   actor,
		classic: g.rules.Classic,
		effects: te,
		cap:     g.rules.Meta.ChainCapPerTurn,
	}
	w.resolve(cell)

	count := comboCount(w.flips)
	effect := comboEffect(cb, count)
	g.meter[actor] = count
	g.pending[actor] = bonusFor(cb, effect)

	if turn.HasWarningMark() {
		g.marks[turn.WarningMarkCell] = actor
		g.marksUsed[actor]++
	}

	summary := TurnSummary{
		Turn:              i,
		Player:            actor,
		Cell:              turn.Cell,
		CardIndex:         slot,
		DeclaredCardIndex: turn.CardIndex,
		Forced:            forced,
		TokenID:           base.TokenID,
		Card:              p.card,
		Modifiers:         p.applied,
		TriadPlus:         pending.triadPlus,
		WarningDebuffed:   debuffed,
		WarningMarkCell:   turn.WarningMarkCell,
		Flips:             w.flips,
		Captures:          w.traces,
		ShieldsBroken:     w.shields,
		CapReached:        w.capped,
		ComboCount:        count,
		ComboEffect:       effect,
	}
	g.turns = append(g.turns, turn)
	g.summaries = append(g.summaries, summary)
	if g.opts.history {
		g.history = append(g.history, g.board)
	}
	return summary, nil
}

// Clone returns an independent copy; playing on it never touches g.
func (g *Game) Clone() *Game {
	c := *g
	c.rules = g.rules.Clone()
	c.turns = slices.Clone(g.turns)
	c.played = [2][]uint8{slices.Clone(g.played[0]), slices.Clone(g.played[1])}
	c.summaries = slices.Clone(g.summaries)
	c.history = slices.Clone(g.history)
	return &c
}

// Transcript returns the header with the declared turns played so far.
func (g *Game) Transcript() transcript.Transcript {
	return transcript.Transcript{Header: g.header, Turns: slices.Clone(g.turns)}
}

// Finish scores a completed match.
func (g *Game) Finish() (*Result, error) {
	if !g.Done() {
		return nil, fmt.Errorf("%w: %d of %d turns played", ErrMatchInProgress, len(g.turns), transcript.TurnCount)
	}
	winner, tiles, tieBreak := decide(g.board, g.catalog, g.header.FirstPlayer)
	res := &Result{
		Winner:          winner,
		Tiles:           tiles,
		TieBreak:        tieBreak,
		Board:           g.board,
		MatchID:         transcript.MatchID(g.Transcript()),
		Decks:           g.decks,
		OpenCards:       g.open,
		UsedCardIndices: [2][]uint8{slices.Clone(g.played[0]), slices.Clone(g.played[1])},
		Turns:           slices.Clone(g.summaries),
	}
	if g.opts.history {
		res.History = slices.Clone(g.history)
	}
	return res, nil
}
