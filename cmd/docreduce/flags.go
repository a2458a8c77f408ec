// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --token-max, --model, --question, --extract, --version

package main

import "flag"

type cliArgs struct {
	tokenMax    int
	model       string
	baseURL     string
	concurrency int
	length      string
	separator   string
	question    string
	extract     bool
	noProgress  bool
	verbose     bool
	version     bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.IntVar(&args.tokenMax, "token-max", 0, "Per-group budget (default 3000)")
	flag.StringVar(&args.model, "model", "", "Model to use (e.g., gpt-4o-mini)")
	flag.StringVar(&args.baseURL, "base-url", "", "OpenAI-compatible API base URL")
	flag.IntVar(&args.concurrency, "concurrency", 0, "Max concurrent collapse calls per round (0 = unbounded)")
	flag.StringVar(&args.length, "length", "", "Length measure: runes, graphemes, or tokens")
	flag.StringVar(&args.separator, "separator", "", "Separator between formatted documents")
	flag.StringVar(&args.question, "question", "", "Question to steer every combine toward")
	flag.BoolVar(&args.extract, "extract", false, "Offline extractive mode, no model calls")
	flag.BoolVar(&args.noProgress, "no-progress", false, "Disable the live progress view")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}

// remaining returns the non-flag command-line arguments: the input files.
func (a cliArgs) remaining() []string {
	return flag.Args()
}
