package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// rulesetFlags selects a ruleset from a JSON file or a registered preset.
type rulesetFlags struct {
	path   string
	preset string
}

func (f *rulesetFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.path, "ruleset", "", "ruleset JSON file")
	fs.StringVar(&f.preset, "preset", "v1-default", "registered preset name, used when -ruleset is empty")
}

func (f *rulesetFlags) load() (rules.Ruleset, error) {
	if f.path != "" {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return rules.Ruleset{}, err
		}
		return rules.ParseRuleset(data)
	}
	p, ok := rules.PresetByName(f.preset)
	if !ok {
		return rules.Ruleset{}, fmt.Errorf("unknown preset %q", f.preset)
	}
	return p.Ruleset, nil
}

func loadCatalog(path string) (cards.Catalog, error) {
	if path == "" {
		return nil, errors.New("no catalog: pass -catalog or set TRIAD_CATALOG")
	}
	return cards.LoadCatalog(path)
}

func loadTranscript(path string) (transcript.Transcript, error) {
	if path == "" {
		return transcript.Transcript{}, errors.New("-transcript is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return transcript.Transcript{}, err
	}
	return transcript.ParseTranscript(data)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSON writes v to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	if path == "" {
		return printJSON(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
