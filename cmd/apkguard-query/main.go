// Command apkguard-query runs a jq expression over an apkguard JSON
// report, for ad-hoc filtering ("which crimes scored above 0.8") without
// reaching for a general-purpose JSON tool.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: apkguard-query <report.json> <jq-expression>")
		os.Exit(1)
	}
	reportPath, expr := args[0], args[1]

	if err := run(reportPath, expr, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "apkguard-query: %v\n", err)
		os.Exit(1)
	}
}

func run(reportPath, expr string, out *os.File) error {
	data, err := os.ReadFile(reportPath) // #nosec G304 -- operator-supplied report path
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parsing report: %w", err)
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq evaluation: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	}
}
