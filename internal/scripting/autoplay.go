package scripting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/match"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// AutoplayOption configures Autoplay.
type AutoplayOption func(*autoplayConfig)

type autoplayConfig struct {
	log  *logrus.Entry
	game []match.Option
}

// WithLog routes per-turn logging to log.
func WithLog(log *logrus.Entry) AutoplayOption {
	return func(c *autoplayConfig) { c.log = log }
}

// WithGameOptions passes options through to the underlying match.Game.
func WithGameOptions(opts ...match.Option) AutoplayOption {
	return func(c *autoplayConfig) { c.game = append(c.game, opts...) }
}

// Autoplay plays bots[0] as player A and bots[1] as player B from header h to the
// end of the match. Under order or chaos the forced slot replaces whatever card
// the bot declared, so the returned transcript always replays to the same result.
func Autoplay(ctx context.Context, h transcript.Header, p cards.Provider, r rules.Ruleset, bots [2]Bot, opts ...AutoplayOption) (transcript.Transcript, *match.Result, error) {
	cfg := autoplayConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.log == nil {
		quiet := logrus.New()
		quiet.SetLevel(logrus.PanicLevel)
		cfg.log = logrus.NewEntry(quiet)
	}
	log := cfg.log.WithField("session_id", uuid.NewString())

	g, err := match.NewGame(h, p, r, cfg.game...)
	if err != nil {
		return transcript.Transcript{}, nil, err
	}

	for !g.Done() {
		if err := ctx.Err(); err != nil {
			return g.Transcript(), nil, err
		}
		i, actor := g.Turn(), g.Actor()
		bot := bots[actor]

		turn, err := bot.Choose(ctx, g.Clone())
		if err != nil {
			return g.Transcript(), nil, fmt.Errorf("turn %d: bot %s: %w", i, bot.Name(), err)
		}
		if forced, ok := g.ForcedCardIndex(); ok {
			turn.CardIndex = forced
		}
		summary, err := g.Play(turn)
		if err != nil {
			return g.Transcript(), nil, fmt.Errorf("turn %d: bot %s: %w", i, bot.Name(), err)
		}
		log.WithFields(logrus.Fields{
			"turn":   i,
			"player": actor,
			"bot":    bot.Name(),
			"move":   turn.String(),
			"flips":  summary.Flips,
			"combo":  summary.ComboEffect,
		}).Debug("turn played")
	}

	res, err := g.Finish()
	if err != nil {
		return g.Transcript(), nil, err
	}
	log.WithFields(logrus.Fields{
		"match_id": res.MatchID.Hex(),
		"winner":   res.Winner,
		"tiles":    res.Tiles,
	}).Info("autoplay finished")
	return g.Transcript(), res, nil
}
