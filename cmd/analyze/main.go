// Command analyze fetches a Diplomacy position from a Backstabbr-style
// game page, searches it with a coalition-aware MCTS, and prints the
// top recommended joint actions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FTWinston/Stabalyzer/internal/apperr"
	"github.com/FTWinston/Stabalyzer/internal/cliconfig"
	"github.com/FTWinston/Stabalyzer/internal/logging"
	"github.com/FTWinston/Stabalyzer/pkg/diplomacy"
	"github.com/FTWinston/Stabalyzer/pkg/scrape"
	"github.com/FTWinston/Stabalyzer/pkg/search"
)

func main() {
	if err := newAnalyzeCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a StabalyzerError's Kind to an exit code (§7): every
// configuration, scrape, adjudicator or worker failure exits 1. The CLI
// switches on the typed Kind rather than matching the error's message,
// so a future error Kind only needs a case added here.
func exitCodeFor(err error) int {
	var se apperr.StabalyzerError
	if !errors.As(err, &se) {
		return 1
	}
	switch se.Kind() {
	case apperr.KindConfig:
		return 1
	case apperr.KindScrape:
		return 1
	case apperr.KindAdjudicatorInternal, apperr.KindWorker:
		return 1
	default:
		return 1
	}
}

func newAnalyzeCmd() *cobra.Command {
	defaults := cliconfig.DefaultConfig()

	var (
		url          string
		coalitionStr string
		prioritySpec []string
		optimizeFor  string
		maxDepth     int
		searchTime   int
		threads      int
		seed         int64
		verbose      bool
		configPath   string
	)

	cmd := &cobra.Command{
		Use:           "analyze",
		Short:         "Recommend the best joint action for a coalition in a live Diplomacy position",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaults
			if configPath != "" {
				loaded, err := cliconfig.Load(configPath)
				if err != nil {
					return err // already a *cliconfig.ConfigError
				}
				cfg = loaded
			}
			applyFlagOverrides(&cfg, cmd, url, coalitionStr, prioritySpec, optimizeFor, maxDepth, searchTime, threads, seed, verbose)

			return runAnalyze(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "game page URL (required)")
	cmd.Flags().StringVar(&coalitionStr, "coalition", "", "coalition spec, e.g. France+England (required)")
	cmd.Flags().StringArrayVar(&prioritySpec, "priority", nil, "priority spec, e.g. \"deny germany mun\" (repeatable)")
	cmd.Flags().StringVar(&optimizeFor, "optimize-for", "", "power the coalition optimizes for (required)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "search depth in Movement phases (required)")
	cmd.Flags().IntVar(&searchTime, "search-time", defaults.SearchTime, "search budget in seconds")
	cmd.Flags().IntVar(&threads, "threads", defaults.Threads, "worker thread count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base PRNG seed (0 = derive from time)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "debug-level logging")
	cmd.Flags().StringVar(&configPath, "config", "", "optional TOML defaults file")

	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("coalition")
	cmd.MarkFlagRequired("optimize-for")
	cmd.MarkFlagRequired("max-depth")

	return cmd
}

// applyFlagOverrides layers only the flags the user actually passed over
// cfg, so a config file's values remain defaults rather than silent
// overrides of an explicit flag (SPEC_FULL.md §4.M).
func applyFlagOverrides(cfg *cliconfig.Config, cmd *cobra.Command, url, coalitionStr string, priorities []string, optimizeFor string, maxDepth, searchTime, threads int, seed int64, verbose bool) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = url
	}
	if flags.Changed("coalition") {
		cfg.Coalition = coalitionStr
	}
	if flags.Changed("priority") {
		cfg.Priorities = priorities
	}
	if flags.Changed("optimize-for") {
		cfg.OptimizeFor = optimizeFor
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("search-time") {
		cfg.SearchTime = searchTime
	}
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
}

func runAnalyze(ctx context.Context, cfg cliconfig.Config) error {
	logging.Init(cfg.Verbose)
	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.ForRun(ctx)

	coalition, err := parseCoalition(cfg.Coalition)
	if err != nil {
		return cliconfig.NewConfigError(err)
	}

	priorities, err := parsePriorities(cfg.Priorities)
	if err != nil {
		return cliconfig.NewConfigError(err)
	}

	optimizeFor, ok := diplomacy.ParsePower(cfg.OptimizeFor)
	if !ok {
		return cliconfig.NewConfigError(fmt.Errorf("unknown --optimize-for power %q", cfg.OptimizeFor))
	}
	if !coalition.Contains(optimizeFor) {
		return cliconfig.NewConfigError(fmt.Errorf("--optimize-for power %q is not a coalition member", cfg.OptimizeFor))
	}

	if cfg.MaxDepth <= 0 {
		return cliconfig.NewConfigError(fmt.Errorf("--max-depth must be positive"))
	}

	m := diplomacy.StandardMap()

	scraped, err := scrape.Fetch(ctx, cfg.URL)
	if err != nil {
		return err // already a *scrape.ScrapeError
	}

	root, err := diplomacy.FromScraped(scraped, m)
	if err != nil {
		return err // already a *scrape.ScrapeError (Op "parse")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("cancellation requested, collecting best partial result")
		cancel()
	}()

	result := search.Run(ctx, root, m, search.Config{
		Coalition:  coalition,
		Priorities: priorities,
		MaxDepth:   cfg.MaxDepth,
		Threads:    cfg.Threads,
		Seed:       seed,
		SearchTime: time.Duration(cfg.SearchTime) * time.Second,
		Logger:     logger,
	})
	for _, e := range result.Errors {
		var se apperr.StabalyzerError
		kind := "unknown"
		if errors.As(e, &se) {
			kind = se.Kind().String()
		}
		logger.Error().Str("kind", kind).Err(e).Msg("search worker reported a non-fatal error")
	}

	fmt.Println(formatResult(result, m))
	return nil
}

// parseCoalition parses "P1+P2[,P3+P4]..." per §6, rejecting unknown
// power names. Only the first comma-separated group is the coalition
// itself (the remaining groups, if any, are informational opponent
// groupings and are ignored by the core).
func parseCoalition(spec string) (diplomacy.Coalition, error) {
	if spec == "" {
		return diplomacy.Coalition{}, fmt.Errorf("--coalition is required")
	}
	groups := strings.Split(spec, ",")
	names := strings.Split(groups[0], "+")

	var powers []diplomacy.Power
	for _, name := range names {
		power, ok := diplomacy.ParsePower(name)
		if !ok {
			return diplomacy.Coalition{}, fmt.Errorf("unknown power %q", name)
		}
		powers = append(powers, power)
	}
	return diplomacy.Coalition{Name: groups[0], Powers: powers}, nil
}

// parsePriorities parses each "<deny|allow> <power> <region>" spec.
func parsePriorities(specs []string) ([]diplomacy.Priority, error) {
	var priorities []diplomacy.Priority
	m := diplomacy.StandardMap()

	for _, spec := range specs {
		fields := strings.Fields(spec)
		if len(fields) != 3 {
			return nil, fmt.Errorf("priority spec %q: expected \"<deny|allow> <power> <region>\"", spec)
		}

		var action diplomacy.PriorityAction
		switch strings.ToLower(fields[0]) {
		case "deny":
			action = diplomacy.PriorityDeny
		case "allow":
			action = diplomacy.PriorityAllow
		default:
			return nil, fmt.Errorf("priority spec %q: expected deny or allow", spec)
		}

		power, ok := diplomacy.ParsePower(fields[1])
		if !ok {
			return nil, fmt.Errorf("priority spec %q: unknown power %q", spec, fields[1])
		}

		region := strings.ToLower(fields[2])
		if _, ok := m.Provinces[region]; !ok {
			return nil, fmt.Errorf("priority spec %q: unknown region %q", spec, fields[2])
		}

		priorities = append(priorities, diplomacy.Priority{Action: action, Power: power, Region: region})
	}
	return priorities, nil
}

func formatResult(r search.Result, m *diplomacy.DiplomacyMap) string {
	var b strings.Builder
	for _, move := range r.Moves {
		fmt.Fprintf(&b, "#%d  expected value %.3f  (%s confidence, %d visits, stdev %.3f)\n",
			move.Rank, move.ExpectedValue, move.Confidence.Level, move.Confidence.Visits, move.Confidence.Stdev)
		for _, o := range move.CoalitionOrders {
			fmt.Fprintf(&b, "    %s\n", diplomacy.FormatOrder(o, m))
		}
		fmt.Fprintf(&b, "    score %d, supply centers %d, units %d\n", move.Fitness.Score, move.Fitness.SupplyCenters, move.Fitness.Units)
		for _, turn := range move.PredictedTurns {
			fmt.Fprintf(&b, "    -> %s %d %s\n", turn.Season, turn.Year, turn.Phase)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d simulations in %s\n", r.Simulations, r.Elapsed.Round(time.Millisecond))
	return b.String()
}
