package search

import (
	"sort"
	"strings"

	"github.com/FTWinston/Stabalyzer/pkg/diplomacy"
)

// ConfidenceLevel classifies how trustworthy a ranked move's expected
// value is, from visit count and standard deviation.
type ConfidenceLevel int

const (
	ConfidenceLow ConfidenceLevel = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceHigh:
		return "High"
	case ConfidenceMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Confidence bundles the visit/variance evidence behind a move's
// expected value alongside the derived label.
type Confidence struct {
	Level  ConfidenceLevel
	Visits int
	Stdev  float64
}

// classifyConfidence implements §4.F's confidence-label rule.
func classifyConfidence(visits int, stdev float64) ConfidenceLevel {
	switch {
	case visits > 1000 && stdev < 0.15:
		return ConfidenceHigh
	case visits > 500 || stdev < 0.25:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// PredictedTurn is one entry of a ranked candidate's predicted-turns
// trail: the state reached, and the orders given by every power that ply.
type PredictedTurn struct {
	Year             int
	Season           diplomacy.Season
	Phase            diplomacy.PhaseType
	State            *diplomacy.GameState
	CoalitionOrders  []diplomacy.Order
	OpponentOrders   []diplomacy.Order
}

// RankedMove is one of the top candidates extracted from a searched tree
// (or a coordinator merge of several).
type RankedMove struct {
	Rank            int
	CoalitionOrders []diplomacy.Order
	ExpectedValue   float64
	Fitness         diplomacy.Fitness
	Confidence      Confidence
	PredictedTurns  []PredictedTurn
}

// ExtractResults implements §4.F's result-extraction rule: rank root
// children with visits > 0 by mean value descending, return the top
// three, each carrying a predicted-turns trail built by following the
// most-visited child chain from that root child.
func (t *Tree) ExtractResults() []RankedMove {
	root := &t.nodes[0]

	type candidate struct {
		e     edge
		child *node
	}
	var candidates []candidate
	for _, e := range root.children {
		child := &t.nodes[e.child]
		if child.visits == 0 {
			continue
		}
		candidates = append(candidates, candidate{e, child})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].child.meanValue() > candidates[j].child.meanValue()
	})

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	results := make([]RankedMove, 0, len(candidates))
	for i, c := range candidates {
		stdev := c.child.stddev()
		results = append(results, RankedMove{
			Rank:            i + 1,
			CoalitionOrders: c.e.coalitionOrders,
			ExpectedValue:   c.child.meanValue(),
			Fitness:         diplomacy.Evaluate(c.child.state, t.coalition, t.priorities),
			Confidence: Confidence{
				Level:  classifyConfidence(c.child.visits, stdev),
				Visits: c.child.visits,
				Stdev:  stdev,
			},
			PredictedTurns: t.predictedTrail(c.e),
		})
	}
	return results
}

// predictedTrail follows the most-visited child chain starting at
// rootEdge down to a leaf, emitting one PredictedTurn per Movement node
// reached, each carrying the orders that produced it.
func (t *Tree) predictedTrail(rootEdge edge) []PredictedTurn {
	var trail []PredictedTurn
	idx := rootEdge.child
	curEdge := rootEdge

	for {
		n := &t.nodes[idx]
		if n.phase == diplomacy.PhaseMovement {
			trail = append(trail, PredictedTurn{
				Year: n.state.Year, Season: n.state.Season, Phase: n.state.Phase,
				State: n.state, CoalitionOrders: curEdge.coalitionOrders, OpponentOrders: curEdge.opponentOrders,
			})
		}

		if len(n.children) == 0 {
			break
		}
		best := n.children[0]
		for _, e := range n.children[1:] {
			if t.nodes[e.child].visits > t.nodes[best.child].visits {
				best = e
			}
		}
		if t.nodes[best.child].visits == 0 {
			break
		}
		idx = best.child
		curEdge = best
	}

	return trail
}

// Fingerprint produces the canonical string two moves from different
// workers are considered "the same" candidate by: one token per order,
// sorted, so that order list identity (not slice order) determines
// equality — used by the coordinator's merge step.
func Fingerprint(orders []diplomacy.Order, m *diplomacy.DiplomacyMap) string {
	tokens := make([]string, 0, len(orders))
	for _, o := range orders {
		tokens = append(tokens, diplomacy.FormatOrder(o, m))
	}
	sort.Strings(tokens)
	return strings.Join(tokens, "|")
}

// Simulations reports the number of MCTS iterations this tree has run.
func (t *Tree) Simulations() int {
	return t.simulations
}

// Table exposes the worker's transposition table. The coordinator does
// not read it.
func (t *Tree) Table() *Table {
	return t.table
}
