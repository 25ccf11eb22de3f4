package search

import (
	"testing"
	"time"

	"github.com/FTWinston/Stabalyzer/pkg/diplomacy"
)

func newTestTree(seed int64, maxDepth int) *Tree {
	m := diplomacy.StandardMap()
	coalition := diplomacy.Coalition{Name: "france", Powers: []diplomacy.Power{diplomacy.France}}
	return NewTree(diplomacy.NewInitialState(), m, coalition, nil, maxDepth, seed, 1000)
}

func TestTree_NewTreeDoesNotMutateCallerState(t *testing.T) {
	m := diplomacy.StandardMap()
	coalition := diplomacy.Coalition{Name: "france", Powers: []diplomacy.Power{diplomacy.France}}
	root := diplomacy.NewInitialState()
	before := root.Hash(m)

	NewTree(root, m, coalition, nil, 2, 1, 1000)
	if root.Hash(m) != before {
		t.Error("NewTree must not mutate the caller's state")
	}
}

func TestTree_RunRespectsDeadline(t *testing.T) {
	tree := newTestTree(1, 2)
	deadline := time.Now().Add(20 * time.Millisecond)

	start := time.Now()
	iterations := tree.Run(deadline, nil)
	elapsed := time.Since(start)

	if iterations <= 0 {
		t.Error("expected at least one iteration to run")
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("Run overran its deadline by a wide margin: %s", elapsed)
	}
	if tree.Simulations() != iterations {
		t.Errorf("Simulations() should track iteration count: %d vs %d", tree.Simulations(), iterations)
	}
}

func TestTree_RunRespectsCancelChannel(t *testing.T) {
	tree := newTestTree(2, 2)
	cancel := make(chan struct{})
	close(cancel)

	iterations := tree.Run(time.Now().Add(time.Second), cancel)
	if iterations != 0 {
		t.Errorf("expected 0 iterations when cancel is already closed, got %d", iterations)
	}
}

func TestTree_IterateGrowsArenaAndRoot(t *testing.T) {
	tree := newTestTree(3, 2)
	before := len(tree.nodes)

	tree.iterate()

	if len(tree.nodes) <= before {
		t.Error("expected at least one new node after an iteration")
	}
	if tree.nodes[0].visits != 1 {
		t.Errorf("expected root to record one visit, got %d", tree.nodes[0].visits)
	}
}

func TestTree_SelectAndExpandAlwaysIncludesRoot(t *testing.T) {
	tree := newTestTree(4, 2)
	path := tree.selectAndExpand()
	if len(path) == 0 || path[0] != 0 {
		t.Fatalf("expected path to start at root (index 0), got %+v", path)
	}
}

func TestTree_RolloutReturnsNormalizedRange(t *testing.T) {
	tree := newTestTree(5, 3)
	value := tree.rollout(diplomacy.NewInitialState())
	if value < 0 || value > 1 {
		t.Errorf("rollout value must be normalized to [0,1], got %f", value)
	}
}

func TestTree_BackpropagateUpdatesEveryNodeOnPath(t *testing.T) {
	tree := newTestTree(6, 2)
	path := tree.selectAndExpand()
	tree.backpropagate(path, 0.75)

	for _, idx := range path {
		n := &tree.nodes[idx]
		if n.visits != 1 {
			t.Errorf("node %d: expected 1 visit after backpropagate, got %d", idx, n.visits)
		}
		if n.value != 0.75 {
			t.Errorf("node %d: expected value 0.75, got %f", idx, n.value)
		}
	}
}

// Seeded determinism: identical seed + identical inputs produce an
// identical sequence of rollout values (search property #5).
func TestTree_SeededRolloutsAreDeterministic(t *testing.T) {
	m := diplomacy.StandardMap()
	coalition := diplomacy.Coalition{Name: "france", Powers: []diplomacy.Power{diplomacy.France}}

	treeA := NewTree(diplomacy.NewInitialState(), m, coalition, nil, 3, 99, 1000)
	valueA := treeA.rollout(diplomacy.NewInitialState())

	treeB := NewTree(diplomacy.NewInitialState(), m, coalition, nil, 3, 99, 1000)
	valueB := treeB.rollout(diplomacy.NewInitialState())

	if valueA != valueB {
		t.Errorf("identical seed should produce identical rollout result: %f vs %f", valueA, valueB)
	}
}
