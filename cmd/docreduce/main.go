// ABOUTME: CLI entry point for docreduce
// ABOUTME: Parses flags, loads config and documents, runs the reduction

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/mauromedda/docreduce-go/internal/config"
	"github.com/mauromedda/docreduce-go/internal/llm"
	"github.com/mauromedda/docreduce-go/internal/loader"
	drlog "github.com/mauromedda/docreduce-go/internal/log"
	"github.com/mauromedda/docreduce-go/internal/ui"
	"github.com/mauromedda/docreduce-go/pkg/reduce"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultModel = "gpt-4o-mini"

	defaultCollapseInstruction = "Summarize the following documents into a single " +
		"concise summary. Preserve concrete facts, figures, and names."
	defaultFinalInstruction = "Write a final consolidated summary of the following " +
		"documents in markdown. Preserve concrete facts, figures, and names."
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("docreduce %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run performs the full sequence: config, documents, reducer, output.
func run(args cliArgs) error {
	if args.verbose {
		drlog.SetLevel(drlog.LevelDebug)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	for k, v := range cfg.Env {
		if os.Getenv(k) == "" {
			os.Setenv(k, v)
		}
	}

	paths := args.remaining()
	if len(paths) == 0 {
		return fmt.Errorf("no input files (usage: docreduce [flags] file...)")
	}
	docs, err := loader.Load(paths)
	if err != nil {
		return err
	}
	drlog.Info("loaded %d documents", len(docs))

	format := resolveFormatter(args, cfg)
	length, err := resolveLength(args, cfg)
	if err != nil {
		return err
	}

	reducer := &reduce.Reducer{
		Length:      length,
		Format:      format,
		TokenMax:    resolveTokenMax(args, cfg),
		Concurrency: resolveConcurrency(args, cfg),
		Trace:       reduce.NewTraceBus(),
	}

	var summarizer *llm.Summarizer
	if args.extract {
		reducer.Collapse = extractCombine
		reducer.Finalize = extractFinalize
	} else {
		client := llm.New(resolveBaseURL(args, cfg), "", resolveModel(args, cfg))
		summarizer = llm.NewSummarizer(client, resolveInstruction(cfg.CollapsePrompt, defaultCollapseInstruction), format)
		final := llm.NewSummarizer(client, resolveInstruction(cfg.FinalPrompt, defaultFinalInstruction), format)
		reducer.Collapse = summarizer.Combine
		reducer.Finalize = final.Finalize
	}

	var extra map[string]any
	if args.question != "" {
		extra = map[string]any{"question": args.question}
	}

	ctx := context.Background()
	output, aux, err := runWithProgress(ctx, args, reducer, docs, extra)
	if err != nil {
		return err
	}

	if summarizer != nil {
		drlog.Info("model calls used %d tokens", summarizer.UsedTokens())
	}
	for k, v := range aux {
		drlog.Debug("result %s=%v", k, v)
	}

	fmt.Println(renderOutput(output))
	return nil
}

// runWithProgress executes the reduction, showing the live view when stderr
// is a terminal.
func runWithProgress(ctx context.Context, args cliArgs, reducer *reduce.Reducer, docs []reduce.Document, extra map[string]any) (string, map[string]any, error) {
	showUI := !args.noProgress && term.IsTerminal(int(os.Stderr.Fd()))

	if !showUI {
		unsub := reducer.Trace.Subscribe(func(evt reduce.Event) {
			switch evt.Type {
			case reduce.EventRoundStart:
				drlog.Info("round %d: %d documents, cost %d", evt.Round+1, evt.Documents, evt.Cost)
			case reduce.EventRoundEnd:
				drlog.Info("round %d done: %d documents, cost %d", evt.Round+1, evt.Documents, evt.Cost)
			}
		})
		defer unsub()
		return reducer.Reduce(ctx, docs, extra)
	}

	// Display-only pump; drops events rather than blocking a collapse.
	events := make(chan reduce.Event, 256)
	unsub := reducer.Trace.Subscribe(func(evt reduce.Event) {
		select {
		case events <- evt:
		default:
		}
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		output string
		aux    map[string]any
		err    error
	}
	done := make(chan result, 1)
	go func() {
		output, aux, err := reducer.Reduce(ctx, docs, extra)
		unsub()
		close(events)
		done <- result{output, aux, err}
	}()

	p := tea.NewProgram(ui.New(events), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		drlog.Debug("progress view: %v", err)
	}

	// The view quitting early (ctrl+c) aborts the reduction.
	cancel()
	res := <-done
	return res.output, res.aux, res.err
}

// renderOutput styles markdown for terminals, raw text otherwise.
func renderOutput(output string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return output
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 120 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return output
	}
	rendered, err := renderer.Render(output)
	if err != nil {
		return output
	}
	return strings.TrimRight(rendered, "\n ")
}

// extractCombine is the offline collapse capability: it keeps the first line
// of each document, capped, so every round shrinks the text.
func extractCombine(_ context.Context, docs []reduce.Document, _ map[string]any) (string, error) {
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		lines = append(lines, firstLine(doc.Content, 120))
	}
	return strings.Join(lines, "\n"), nil
}

func extractFinalize(ctx context.Context, docs []reduce.Document, extra map[string]any) (string, map[string]any, error) {
	out, err := extractCombine(ctx, docs, extra)
	if err != nil {
		return "", nil, err
	}
	return out, map[string]any{"mode": "extract"}, nil
}

// firstLine returns the first non-empty line of s, truncated to limit runes.
func firstLine(s string, limit int) string {
	for line := range strings.Lines(s) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > limit {
			return string(runes[:limit]) + "…"
		}
		return line
	}
	return ""
}

// resolveTokenMax picks the budget from CLI flag, config, or default.
func resolveTokenMax(args cliArgs, cfg *config.Settings) int {
	if args.tokenMax > 0 {
		return args.tokenMax
	}
	if cfg.TokenMax > 0 {
		return cfg.TokenMax
	}
	return reduce.DefaultTokenMax
}

// resolveModel picks the model from CLI flag, config, or default.
func resolveModel(args cliArgs, cfg *config.Settings) string {
	if args.model != "" {
		return args.model
	}
	if cfg.Model != "" {
		return cfg.Model
	}
	return defaultModel
}

// resolveBaseURL picks the API base URL from CLI flag or config.
func resolveBaseURL(args cliArgs, cfg *config.Settings) string {
	if args.baseURL != "" {
		return args.baseURL
	}
	return cfg.BaseURL
}

func resolveConcurrency(args cliArgs, cfg *config.Settings) int {
	if args.concurrency > 0 {
		return args.concurrency
	}
	return cfg.Concurrency
}

// resolveFormatter builds the Formatter from CLI flags and config.
func resolveFormatter(args cliArgs, cfg *config.Settings) reduce.Formatter {
	f := reduce.Formatter{
		DocumentTemplate: cfg.DocumentTemplate,
		Separator:        cfg.Separator,
	}
	if args.separator != "" {
		f.Separator = args.separator
	}
	return f
}

// resolveLength maps the configured measure name to a LengthFunc.
func resolveLength(args cliArgs, cfg *config.Settings) (reduce.LengthFunc, error) {
	name := args.length
	if name == "" {
		name = cfg.Length
	}
	switch name {
	case "", "runes":
		return reduce.RuneLength, nil
	case "graphemes":
		return reduce.GraphemeLength, nil
	case "tokens":
		return reduce.TokenEstimate, nil
	}
	return nil, fmt.Errorf("unknown length measure %q (want runes, graphemes, or tokens)", name)
}

// resolveInstruction resolves a configured prompt. A value naming an existing
// file is loaded as a prompt file; anything else is the instruction itself.
func resolveInstruction(configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	if info, err := os.Stat(configured); err == nil && !info.IsDir() {
		p, err := config.LoadPrompt(configured)
		if err != nil {
			drlog.Warn("prompt file %s: %v", configured, err)
			return fallback
		}
		return p.Body
	}
	return configured
}
