// Command triadctl simulates, verifies and generates triad match transcripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/MJE43/triad-replay-go/internal/config"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

// env is shared by every subcommand.
type env struct {
	cfg config.Config
	log *logrus.Logger
}

// errMismatch makes verify exit non-zero without printing an extra error line.
var errMismatch = errors.New("match id mismatch")

var commands = map[string]command{}

func register(c command) { commands[c.name] = c }

func init() {
	register(command{"simulate", "replay a transcript and print the result", runSimulate})
	register(command{"verify", "check a transcript against an expected match id", runVerify})
	register(command{"batch", "verify many transcripts in parallel", runBatch})
	register(command{"ruleset-id", "print the identifier of a ruleset or list presets", runRulesetID})
	register(command{"schema", "print the ruleset JSON schema", runSchema})
	register(command{"autoplay", "play two bots and print the transcript", runAutoplay})
	register(command{"first-player", "resolve the first player from protocol inputs", runFirstPlayer})
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: triadctl <command> [flags]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-13s %s\n", name, commands[name].summary)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	e := &env{cfg: cfg, log: cfg.NewLogger(os.Stderr)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, e, os.Args[2:]); err != nil {
		if !errors.Is(err, errMismatch) {
			e.log.WithField("command", cmd.name).WithError(err).Error("command failed")
		}
		stop()
		os.Exit(1)
	}
}
