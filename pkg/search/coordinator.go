package search

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/FTWinston/Stabalyzer/pkg/diplomacy"
)

// workerSeedStride is the per-worker seed offset, chosen (per §4.H) so
// worker PRNG streams stay well separated for any thread count.
const workerSeedStride = 7919

// Config bundles everything a coordinator run needs beyond the root
// state, mirroring §4.H's input list.
type Config struct {
	Coalition  diplomacy.Coalition
	Priorities []diplomacy.Priority
	MaxDepth   int
	Threads    int
	Seed       int64
	SearchTime time.Duration
	Logger     zerolog.Logger
}

// Result is the coordinator's merged output: the top three ranked moves
// plus totals across every worker that completed. Errors collects every
// non-fatal WorkerError/AdjudicatorInternalError encountered along the
// way; none of them prevent Moves from being populated by the workers
// that didn't fail.
type Result struct {
	Moves       []RankedMove
	Simulations int
	Elapsed     time.Duration
	Errors      []error
}

// Run fans out cfg.Threads independent workers (or runs a single MCTS in
// the current goroutine when Threads is 1; Threads < 1 means one worker
// per CPU), each searching root to
// cfg.SearchTime or until ctx is cancelled, then merges their ranked
// results. A worker's internal error is logged and that worker's
// contribution is dropped; the coordinator never aborts the others for
// one failure (§7 "Worker error").
func Run(ctx context.Context, root *diplomacy.GameState, m *diplomacy.DiplomacyMap, cfg Config) Result {
	start := time.Now()
	threads := cfg.Threads
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	deadline := start.Add(cfg.SearchTime)

	if threads == 1 {
		tree := NewTree(root, m, cfg.Coalition, cfg.Priorities, cfg.MaxDepth, cfg.Seed, DefaultTableCapacity)
		tree.Run(deadline, ctx.Done())
		return Result{
			Moves:       tree.ExtractResults(),
			Simulations: tree.Simulations(),
			Elapsed:     time.Since(start),
			Errors:      tree.Errors(),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	trees := make([]*Tree, threads)
	workerErrs := make([]*WorkerError, threads)

	for i := 0; i < threads; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					we := &WorkerError{Worker: i, Cause: r}
					cfg.Logger.Error().Err(we).Int("worker", i).Msg("search worker panicked")
					workerErrs[i] = we
					err = nil // never abort siblings; this worker just contributes nothing
				}
			}()
			seed := cfg.Seed + int64(i)*workerSeedStride
			tree := NewTree(root, m, cfg.Coalition, cfg.Priorities, cfg.MaxDepth, seed, DefaultTableCapacity)
			tree.Run(deadline, gctx.Done())
			trees[i] = tree
			return nil
		})
	}
	_ = g.Wait()

	result := mergeWorkerResults(trees, m, start)
	for _, we := range workerErrs {
		if we != nil {
			result.Errors = append(result.Errors, we)
		}
	}
	for _, tree := range trees {
		if tree != nil {
			result.Errors = append(result.Errors, tree.Errors()...)
		}
	}
	return result
}

// mergeWorkerResults implements §4.H's merge rule: fingerprint each
// worker's ranked moves by their canonical order string, sum visit
// counts for matching fingerprints across workers, take a visits-
// weighted mean of expected value, keep the max immediate score, average
// standard deviations, and re-label confidence from the merged visits.
func mergeWorkerResults(trees []*Tree, m *diplomacy.DiplomacyMap, start time.Time) Result {
	type merged struct {
		move       RankedMove
		weightSum  int
		evWeighted float64
		stdevSum   float64
		stdevCount int
	}

	byFingerprint := make(map[string]*merged)
	var order []string

	totalSims := 0
	for _, tree := range trees {
		if tree == nil {
			continue
		}
		totalSims += tree.Simulations()
		for _, move := range tree.ExtractResults() {
			fp := Fingerprint(move.CoalitionOrders, m)
			mg, ok := byFingerprint[fp]
			if !ok {
				mg = &merged{move: move}
				byFingerprint[fp] = mg
				order = append(order, fp)
			}

			mg.weightSum += move.Confidence.Visits
			mg.evWeighted += move.ExpectedValue * float64(move.Confidence.Visits)
			mg.stdevSum += move.Confidence.Stdev
			mg.stdevCount++

			if move.Fitness.Score > mg.move.Fitness.Score {
				mg.move.Fitness = move.Fitness
			}
			if len(move.PredictedTurns) > len(mg.move.PredictedTurns) {
				mg.move.PredictedTurns = move.PredictedTurns
			}
		}
	}

	results := make([]RankedMove, 0, len(order))
	for _, fp := range order {
		mg := byFingerprint[fp]
		ev := 0.0
		if mg.weightSum > 0 {
			ev = mg.evWeighted / float64(mg.weightSum)
		}
		avgStdev := 0.0
		if mg.stdevCount > 0 {
			avgStdev = mg.stdevSum / float64(mg.stdevCount)
		}
		results = append(results, RankedMove{
			CoalitionOrders: mg.move.CoalitionOrders,
			ExpectedValue:   ev,
			Fitness:         mg.move.Fitness,
			Confidence: Confidence{
				Level:  classifyConfidence(mg.weightSum, avgStdev),
				Visits: mg.weightSum,
				Stdev:  avgStdev,
			},
			PredictedTurns: mg.move.PredictedTurns,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ExpectedValue > results[j].ExpectedValue
	})
	if len(results) > 3 {
		results = results[:3]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return Result{Moves: results, Simulations: totalSims, Elapsed: time.Since(start)}
}
