package diplomacy

import (
	"math/rand"
	"testing"
)

func TestStep_MovementAdvancesPhase(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, France, "par", NoCoast})
	orders := []Order{{UnitType: Army, Power: France, Location: "par", Type: OrderHold}}

	results := Step(gs, orders, m)
	if len(results) != 1 {
		t.Fatalf("expected 1 resolved order, got %d", len(results))
	}
	if gs.Season != Fall {
		t.Errorf("expected Spring Movement to advance to Fall, got %v", gs.Season)
	}
}

func TestStep_RetreatAdvancesToNextPhase(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, Germany, "ber", NoCoast})
	gs.Phase = PhaseRetreat
	gs.Dislodged = []DislodgedUnit{{
		Unit:          Unit{Army, Germany, "ber", NoCoast},
		DislodgedFrom: "ber",
		AttackerFrom:  "kie",
		LegalRetreats: []string{"sil"},
	}}
	orders := []Order{{UnitType: Army, Power: Germany, Location: "ber", Type: OrderDisband}}

	Step(gs, orders, m)
	if gs.Phase == PhaseRetreat {
		t.Error("expected phase to advance past Retreat")
	}
	if len(gs.Dislodged) != 0 {
		t.Error("expected Dislodged to be cleared once retreats resolve")
	}
}

func TestSamplePhaseOrders_CoversEveryLivingPower(t *testing.T) {
	m := StandardMap()
	gs := NewInitialState()
	coalition := Coalition{Name: "none"}
	rng := rand.New(rand.NewSource(11))

	orders := SamplePhaseOrders(gs, m, coalition, rng)

	units := 0
	for _, p := range AllPowers() {
		if gs.PowerIsAlive(p) {
			units += gs.UnitCount(p)
		}
	}
	if len(orders) != units {
		t.Fatalf("expected one order per living unit (%d), got %d", units, len(orders))
	}
}

func TestSampleCoalitionMovementOrders_OmitsNonCoalitionUnits(t *testing.T) {
	m := StandardMap()
	gs := NewInitialState()
	coalition := Coalition{Name: "france", Powers: []Power{France}}
	rng := rand.New(rand.NewSource(13))

	orders := SampleCoalitionMovementOrders(gs, m, coalition, rng)
	for _, o := range orders {
		if o.Power != France {
			t.Errorf("expected only France's orders, got one for %v", o.Power)
		}
	}
	if len(orders) != gs.UnitCount(France) {
		t.Fatalf("expected %d coalition orders, got %d", gs.UnitCount(France), len(orders))
	}
}

func TestSampleOpponentMovementOrders_ExcludesCoalition(t *testing.T) {
	m := StandardMap()
	gs := NewInitialState()
	coalition := Coalition{Name: "france", Powers: []Power{France}}
	rng := rand.New(rand.NewSource(17))

	orders := SampleOpponentMovementOrders(gs, m, coalition, rng)
	for _, o := range orders {
		if o.Power == France {
			t.Error("opponent sample must never include a coalition power's order")
		}
	}
}
