package search

import (
	"testing"

	"github.com/FTWinston/Stabalyzer/pkg/diplomacy"
)

func TestClassifyConfidence_HighRequiresManyVisitsAndLowStdev(t *testing.T) {
	if classifyConfidence(2000, 0.1) != ConfidenceHigh {
		t.Error("expected High confidence for many visits and low stdev")
	}
	if classifyConfidence(2000, 0.3) == ConfidenceHigh {
		t.Error("High confidence requires low stdev even with many visits")
	}
}

func TestClassifyConfidence_MediumFromEitherVisitsOrStdev(t *testing.T) {
	if classifyConfidence(600, 0.9) != ConfidenceMedium {
		t.Error("expected Medium confidence from visit count alone")
	}
	if classifyConfidence(10, 0.1) != ConfidenceMedium {
		t.Error("expected Medium confidence from low stdev alone")
	}
}

func TestClassifyConfidence_LowOtherwise(t *testing.T) {
	if classifyConfidence(10, 0.9) != ConfidenceLow {
		t.Error("expected Low confidence for few visits and high stdev")
	}
}

func TestConfidenceLevel_StringLabels(t *testing.T) {
	cases := map[ConfidenceLevel]string{
		ConfidenceHigh:   "High",
		ConfidenceMedium: "Medium",
		ConfidenceLow:    "Low",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestExtractResults_SkipsZeroVisitChildrenAndTruncatesToThree(t *testing.T) {
	tree := newTestTree(20, 2)
	for i := 0; i < 40; i++ {
		tree.iterate()
	}

	results := tree.ExtractResults()
	if len(results) > 3 {
		t.Fatalf("expected at most 3 ranked moves, got %d", len(results))
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, r.Rank)
		}
		if r.Confidence.Visits == 0 {
			t.Error("a ranked move must never come from a zero-visit child")
		}
	}
}

func TestExtractResults_SortedByExpectedValueDescending(t *testing.T) {
	tree := newTestTree(21, 2)
	for i := 0; i < 40; i++ {
		tree.iterate()
	}

	results := tree.ExtractResults()
	for i := 1; i < len(results); i++ {
		if results[i].ExpectedValue > results[i-1].ExpectedValue {
			t.Errorf("results not sorted descending by expected value at index %d", i)
		}
	}
}

func TestFingerprint_OrderIndependentOfSliceOrder(t *testing.T) {
	m := diplomacy.StandardMap()
	a := []diplomacy.Order{
		{UnitType: diplomacy.Army, Power: diplomacy.France, Location: "par", Type: diplomacy.OrderHold},
		{UnitType: diplomacy.Army, Power: diplomacy.France, Location: "mar", Type: diplomacy.OrderHold},
	}
	b := []diplomacy.Order{a[1], a[0]}

	if Fingerprint(a, m) != Fingerprint(b, m) {
		t.Error("Fingerprint must be independent of the input slice's order")
	}
}

func TestFingerprint_DifferentOrdersProduceDifferentFingerprints(t *testing.T) {
	m := diplomacy.StandardMap()
	a := []diplomacy.Order{{UnitType: diplomacy.Army, Power: diplomacy.France, Location: "par", Type: diplomacy.OrderHold}}
	b := []diplomacy.Order{{UnitType: diplomacy.Army, Power: diplomacy.France, Location: "par", Type: diplomacy.OrderMove, Target: "bur"}}

	if Fingerprint(a, m) == Fingerprint(b, m) {
		t.Error("a Hold and a Move fingerprint must not collide")
	}
}
