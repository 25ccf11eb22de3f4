package search

import (
	"math/rand"
	"time"

	"github.com/FTWinston/Stabalyzer/pkg/diplomacy"
)

// pendingPerNode is N from §4.F: the number of coalition joint-actions
// sampled into a Movement node's queue at creation time.
const pendingPerNode = 30

// rolloutSafetyCap bounds total phase-steps in a single rollout, as a
// backstop against a pathological Retreat/Build loop that never advances
// to the next Movement phase; real games never approach this.
const rolloutSafetyCap = 500

// Tree is one worker's independent MCTS search: its own arena, map
// reference, coalition, and PRNG. Nothing is shared across Trees.
type Tree struct {
	nodes []node

	m         *diplomacy.DiplomacyMap
	coalition diplomacy.Coalition
	priorities []diplomacy.Priority
	maxDepth  int
	rng       *rand.Rand
	table     *Table

	simulations int
	errs        []error
}

// NewTree creates a tree rooted at root (which is cloned; the caller's
// state is never mutated), ready to run iterations.
func NewTree(root *diplomacy.GameState, m *diplomacy.DiplomacyMap, coalition diplomacy.Coalition, priorities []diplomacy.Priority, maxDepth int, seed int64, tableCapacity int) *Tree {
	rng := rand.New(rand.NewSource(seed))
	t := &Tree{
		m:          m,
		coalition:  coalition,
		priorities: priorities,
		maxDepth:   maxDepth,
		rng:        rng,
		table:      NewTable(tableCapacity),
	}
	rootNode := newNode(root.Clone(), pendingPerNode, coalition, m, rng)
	t.nodes = append(t.nodes, *rootNode)
	return t
}

// Run executes iterations until deadline passes or cancel fires, checked
// once at the top of every iteration (§5 suspension-point contract).
// Returns the number of iterations completed.
func (t *Tree) Run(deadline time.Time, cancel <-chan struct{}) int {
	iterations := 0
	for {
		select {
		case <-cancel:
			return iterations
		default:
		}
		if !time.Now().Before(deadline) {
			return iterations
		}
		t.iterate()
		iterations++
	}
}

// iterate runs one full select/expand/simulate/backpropagate pass. A
// panic from the adjudicator (expandMovement/expandPassThrough/rollout
// all step legally-sampled orders that should never fail) is caught and
// recorded as an AdjudicatorInternalError rather than killing the whole
// worker: this one iteration contributes nothing, and the tree carries on.
func (t *Tree) iterate() {
	phase := t.nodes[0].state.Phase
	defer func() {
		if r := recover(); r != nil {
			t.errs = append(t.errs, &diplomacy.AdjudicatorInternalError{Phase: phase, Cause: r})
		}
	}()

	path := t.selectAndExpand()
	leaf := &t.nodes[path[len(path)-1]]
	value := t.rollout(leaf.state)
	t.backpropagate(path, value)
	t.simulations++
}

// Errors returns every AdjudicatorInternalError recovered from this
// tree's iterations, in the order they occurred.
func (t *Tree) Errors() []error { return t.errs }

// selectAndExpand descends from the root by UCT until it reaches a node
// with un-expanded pending actions (or a pass-through node with no child
// yet), expands exactly one child there, and returns the full path from
// root to the new (or terminal) leaf.
func (t *Tree) selectAndExpand() []int {
	path := []int{0}

	for {
		curIdx := path[len(path)-1]
		cur := &t.nodes[curIdx]

		if cur.terminal {
			return path
		}

		if cur.passThrough {
			if len(cur.children) == 0 {
				childIdx := t.expandPassThrough(curIdx)
				path = append(path, childIdx)
				return path
			}
			path = append(path, cur.children[0].child)
			continue
		}

		if len(cur.pending) > 0 {
			childIdx := t.expandMovement(curIdx)
			path = append(path, childIdx)
			return path
		}

		if len(cur.children) == 0 {
			return path
		}

		best := -1
		bestScore := -1.0
		for _, e := range cur.children {
			score := t.nodes[e.child].uct(cur.visits)
			if best == -1 || score > bestScore {
				best = e.child
				bestScore = score
			}
		}
		path = append(path, best)
	}
}

// expandMovement pops one pending coalition joint-action, samples
// opponent orders for the same ply, adjudicates, and appends the new
// child node.
func (t *Tree) expandMovement(parentIdx int) int {
	parent := &t.nodes[parentIdx]

	coalitionOrders := parent.pending[0]
	parent.pending = parent.pending[1:]

	opponentOrders := diplomacy.SampleOpponentMovementOrders(parent.state, t.m, t.coalition, t.rng)

	combined := make([]diplomacy.Order, 0, len(coalitionOrders)+len(opponentOrders))
	combined = append(combined, coalitionOrders...)
	combined = append(combined, opponentOrders...)

	next := parent.state.Clone()
	diplomacy.Step(next, combined, t.m)

	childNode := newNode(next, pendingPerNode, t.coalition, t.m, t.rng)
	childIdx := len(t.nodes)
	t.nodes = append(t.nodes, *childNode)

	parent.children = append(parent.children, edge{coalitionOrders: coalitionOrders, opponentOrders: opponentOrders, child: childIdx})
	return childIdx
}

// expandPassThrough auto-samples orders for every power and adjudicates,
// for a Retreat or Build node: these phases never branch the coalition's
// search, they only carry the trajectory forward (§4.F expansion rule).
func (t *Tree) expandPassThrough(parentIdx int) int {
	parent := &t.nodes[parentIdx]

	orders := diplomacy.SamplePhaseOrders(parent.state, t.m, t.coalition, t.rng)
	next := parent.state.Clone()
	diplomacy.Step(next, orders, t.m)

	childNode := newNode(next, pendingPerNode, t.coalition, t.m, t.rng)
	childIdx := len(t.nodes)
	t.nodes = append(t.nodes, *childNode)

	parent.children = append(parent.children, edge{coalitionOrders: nil, child: childIdx})
	return childIdx
}

// rollout runs up to maxDepth Movement-phase steps of coherent random
// play from state (cloned, never mutated), stopping early on a terminal
// win, and returns the normalized fitness of the final position.
func (t *Tree) rollout(state *diplomacy.GameState) float64 {
	cur := state.Clone()
	depth := 0
	steps := 0

	for depth < t.maxDepth && steps < rolloutSafetyCap {
		fitness := diplomacy.Evaluate(cur, t.coalition, t.priorities)
		if fitness.Win || fitness.LostTerminal || diplomacy.IsYearLimitReached(cur) {
			return diplomacy.NormalizedScore(fitness)
		}

		orders := diplomacy.SamplePhaseOrders(cur, t.m, t.coalition, t.rng)
		diplomacy.Step(cur, orders, t.m)
		steps++
		if cur.Phase == diplomacy.PhaseMovement {
			depth++
		}
	}

	return diplomacy.NormalizedScore(diplomacy.Evaluate(cur, t.coalition, t.priorities))
}

// backpropagate adds one visit/value/value² observation to every node on
// path, and merges the same observation into the worker's transposition
// table keyed by each node's state hash.
func (t *Tree) backpropagate(path []int, value float64) {
	for _, idx := range path {
		n := &t.nodes[idx]
		n.visits++
		n.value += value
		n.valueSq += value * value
		t.table.Put(n.state.Hash(t.m), 1, value, value*value)
	}
}
