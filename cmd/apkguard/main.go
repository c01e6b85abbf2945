// Command apkguard scans a single mobile application bundle against a
// rule pack describing known-malicious API usage patterns, and prints or
// saves a report of what matched.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/config"
	"github.com/apkguard/apkguard/evaluate"
	"github.com/apkguard/apkguard/narrate"
	"github.com/apkguard/apkguard/report"
	"github.com/apkguard/apkguard/rule"
	"github.com/apkguard/apkguard/state"
)

const usageText = `
apkguard - mobile bundle behavior scanner

apkguard evaluates a rule pack describing known-malicious API usage
patterns against a bundle's call graph, sequence, and register evidence.

USAGE:

	# Scan a bundle against a rule pack directory
	$ apkguard -rules ./rules -bundle app.json

	# Write JSON instead of the colorized text summary
	$ apkguard -rules ./rules -bundle app.json -fmt json -out report.json

`

var (
	flagRulesDir    = flag.String("rules", "", "Path to a rule pack directory (*.yaml/*.yml)")
	flagConfig      = flag.String("conf", "", "Path to an optional apkguard.yaml config file")
	flagBundle      = flag.String("bundle", "", "Path to a bundle fixture (JSON-encoded apk.Fixture)")
	flagFormat      = flag.String("fmt", "text", "Output format: text or json")
	flagOutput      = flag.String("out", "", "Output file path; defaults to stdout")
	flagColor       = flag.Bool("color", true, "Colorize the text report")
	flagNarrate     = flag.Bool("narrate", false, "Ask a generative model to explain each matched crime")
	flagAIAPIKeyEnv = flag.String("ai-api-key-env", "APKGUARD_AI_API_KEY", "Environment variable holding the narration API key")
	flagVerbose     = flag.Bool("v", false, "Log progress to stderr")
)

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	fmt.Fprint(os.Stderr, "OPTIONS:\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if *flagVerbose {
		logger = log.New(os.Stderr, "[apkguard] ", log.LstdFlags)
	}

	if err := run(logger); err != nil {
		logger.Printf("error: %v", err)
		fmt.Fprintf(os.Stderr, "apkguard: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	if *flagBundle == "" {
		usage()
		return fmt.Errorf("-bundle is required")
	}

	cfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *flagRulesDir != "" {
		cfg.RulePackDir = *flagRulesDir
	}
	if cfg.RulePackDir == "" {
		return fmt.Errorf("no rule pack directory configured; pass -rules or set rule_pack_dir in -conf")
	}

	pack, err := rule.LoadDir(cfg.RulePackDir)
	if err != nil {
		return fmt.Errorf("loading rule pack: %w", err)
	}
	logger.Printf("loaded %d rules from %s", len(pack.Rules), cfg.RulePackDir)

	bundle, err := apk.LoadFixture(*flagBundle)
	if err != nil {
		return fmt.Errorf("loading bundle fixture: %w", err)
	}

	analysis := state.New(bundle)
	ev := evaluate.New(bundle)
	if cfg.MaxSearchLayer > 0 {
		ev.Search.MaxSearchLayer = cfg.MaxSearchLayer
	}
	for _, r := range pack.Rules {
		res, err := ev.Evaluate(r)
		if err != nil {
			return fmt.Errorf("evaluating rule %q: %w", r.Crime, err)
		}
		analysis.Add(r, res)
	}
	logger.Printf("evaluated %d rules, %d matched", len(pack.Rules), len(analysis.Matched()))

	if *flagNarrate || cfg.NarrateCrimes {
		apiKey := os.Getenv(*flagAIAPIKeyEnv)
		n := narrate.New(apiKey)
		if err := n.Narrate(context.Background(), analysis.MatchedPtrs()); err != nil {
			logger.Printf("narration failed: %v", err)
		}
	}

	rr, err := report.Build(bundle, analysis, uuid.New())
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	out := os.Stdout
	if *flagOutput != "" {
		f, err := os.Create(*flagOutput) // #nosec G304 -- operator-supplied output path
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch *flagFormat {
	case "json":
		return report.WriteJSON(out, rr)
	case "text":
		return report.WriteText(out, rr, *flagColor && cfg.EnableColor && *flagOutput == "")
	default:
		return fmt.Errorf("unknown -fmt %q: valid options are text or json", *flagFormat)
	}
}
