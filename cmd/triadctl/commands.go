package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MJE43/triad-replay-go/internal/engine"
	"github.com/MJE43/triad-replay-go/internal/firstplayer"
	"github.com/MJE43/triad-replay-go/internal/match"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/scripting"
	"github.com/MJE43/triad-replay-go/internal/transcript"
	"github.com/MJE43/triad-replay-go/internal/verify"
)

func runSimulate(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	var rf rulesetFlags
	rf.bind(fs)
	tPath := fs.String("transcript", "", "transcript JSON file")
	catalog := fs.String("catalog", e.cfg.Catalog, "card catalog JSON file")
	history := fs.Bool("history", false, "include the board after every turn")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := rf.load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(*catalog)
	if err != nil {
		return err
	}
	t, err := loadTranscript(*tPath)
	if err != nil {
		return err
	}

	var opts []match.Option
	if *history {
		opts = append(opts, match.WithHistory())
	}
	res, err := match.Simulate(t, cat, r, opts...)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runVerify(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	var rf rulesetFlags
	rf.bind(fs)
	tPath := fs.String("transcript", "", "transcript JSON file")
	catalog := fs.String("catalog", e.cfg.Catalog, "card catalog JSON file")
	expected := fs.String("expected", "", "expected match id (0x-prefixed hex)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	want, err := engine.HashFromHex(*expected)
	if err != nil {
		return fmt.Errorf("-expected: %w", err)
	}
	r, err := rf.load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(*catalog)
	if err != nil {
		return err
	}
	t, err := loadTranscript(*tPath)
	if err != nil {
		return err
	}

	rep, err := verify.Replay(t, cat, want, r)
	if err != nil {
		return err
	}
	if err := printJSON(rep); err != nil {
		return err
	}
	if !rep.OK {
		return errMismatch
	}
	return nil
}

func runBatch(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	var rf rulesetFlags
	rf.bind(fs)
	jobsPath := fs.String("jobs", "", "JSON array of {id, transcript, expected, ruleset?}")
	catalog := fs.String("catalog", e.cfg.Catalog, "card catalog JSON file")
	workers := fs.Int("workers", e.cfg.Workers, "parallel workers")
	timeout := fs.Duration("timeout", 0, "overall deadline, 0 for none")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := rf.load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(*catalog)
	if err != nil {
		return err
	}
	var jobs []verify.Job
	if err := readJSON(*jobsPath, &jobs); err != nil {
		return err
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	v := verify.NewBatchVerifier(cat, r,
		verify.WithWorkers(*workers),
		verify.WithLogger(logrus.NewEntry(e.log)),
	)
	res, err := v.Run(ctx, jobs)
	if res != nil {
		if perr := printJSON(res); perr != nil {
			return perr
		}
	}
	return err
}

func runRulesetID(_ context.Context, _ *env, args []string) error {
	fs := flag.NewFlagSet("ruleset-id", flag.ContinueOnError)
	var rf rulesetFlags
	rf.bind(fs)
	list := fs.Bool("list", false, "list every registered preset")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		return printJSON(rules.ListPresets())
	}
	r, err := rf.load()
	if err != nil {
		return err
	}
	id, err := rules.ComputeID(r)
	if err != nil {
		return err
	}
	out := struct {
		RulesetID engine.Hash `json:"rulesetId"`
		Preset    string      `json:"preset,omitempty"`
	}{RulesetID: id}
	if p, ok := rules.LookupPreset(id); ok {
		out.Preset = p.Name
	}
	return printJSON(out)
}

func runSchema(_ context.Context, _ *env, args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	out := fs.String("out", "", "write the schema to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return writeJSON(*out, rules.Schema())
}

func runAutoplay(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("autoplay", flag.ContinueOnError)
	var rf rulesetFlags
	rf.bind(fs)
	headerPath := fs.String("header", "", "match header JSON file; a zero rulesetId is filled in")
	catalog := fs.String("catalog", e.cfg.Catalog, "card catalog JSON file")
	botA := fs.String("a", "greedy", "bot for player A: first-fit, greedy or a .js file")
	botB := fs.String("b", "first-fit", "bot for player B: first-fit, greedy or a .js file")
	timeout := fs.Duration("script-timeout", e.cfg.ScriptTimeout, "limit per choose() call")
	out := fs.String("out", "", "write the transcript to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := rf.load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(*catalog)
	if err != nil {
		return err
	}
	var h transcript.Header
	if err := readJSON(*headerPath, &h); err != nil {
		return err
	}
	if h.RulesetID.IsZero() {
		if h.RulesetID, err = rules.ComputeID(r); err != nil {
			return err
		}
	}

	var bots [2]scripting.Bot
	for i, name := range []string{*botA, *botB} {
		if bots[i], err = newBot(ctx, name, *timeout); err != nil {
			return err
		}
	}

	t, res, err := scripting.Autoplay(ctx, h, cat, r, bots, scripting.WithLog(logrus.NewEntry(e.log)))
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"match_id": res.MatchID.Hex(), "winner": res.Winner}).Info("match recorded")
	return writeJSON(*out, t)
}

func newBot(ctx context.Context, name string, timeout time.Duration) (scripting.Bot, error) {
	switch name {
	case "first-fit":
		return scripting.FirstFitBot{}, nil
	case "greedy":
		return scripting.GreedyBot{}, nil
	}
	return scripting.LoadScriptBot(ctx, name, timeout)
}

func runFirstPlayer(_ context.Context, _ *env, args []string) error {
	fs := flag.NewFlagSet("first-player", flag.ContinueOnError)
	mode := fs.String("mode", string(firstplayer.Manual), "manual, mutual-choice, committed-mutual-choice, commit-reveal or seed")
	paramsPath := fs.String("params", "", "protocol inputs JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := firstplayer.ParseMode(*mode)
	if err != nil {
		return err
	}
	var p firstplayer.Params
	if *paramsPath != "" {
		if err := readJSON(*paramsPath, &p); err != nil {
			return err
		}
	}
	res, err := firstplayer.Resolve(m, p)
	if err != nil {
		return err
	}
	return printJSON(res)
}
