package diplomacy

import "testing"

func TestLegalMovementOrders_AlwaysIncludesHold(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, France, "par", NoCoast})

	options := LegalMovementOrders(France, gs, m)
	if len(options) != 1 {
		t.Fatalf("expected one unit's options, got %d", len(options))
	}

	hasHold := false
	for _, o := range options[0].Options {
		if o.Type == OrderHold {
			hasHold = true
		}
	}
	if !hasHold {
		t.Error("every unit's option list must include Hold")
	}
}

func TestLegalMovementOrders_FleetOnlyMovesToSeaOrCoast(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Fleet, England, "lon", NoCoast})

	options := LegalMovementOrders(England, gs, m)
	for _, o := range options[0].Options {
		if o.Type != OrderMove {
			continue
		}
		prov := m.Provinces[o.Target]
		if prov.Type == Land {
			t.Errorf("fleet move to inland province %s should never be legal", o.Target)
		}
	}
}

func TestLegalMovementOrders_BicoastalFleetFansOutCoasts(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Fleet, Russia, "stp", NorthCoast})

	options := LegalMovementOrders(Russia, gs, m)
	moveCount := 0
	for _, o := range options[0].Options {
		if o.Type == OrderMove {
			moveCount++
		}
	}
	if moveCount == 0 {
		t.Fatal("expected at least one legal move from St Petersburg (nc)")
	}
}

func TestLegalBuildOrders_PositiveDeltaOffersWaive(t *testing.T) {
	m := StandardMap()
	gs := stateWith()
	gs.SupplyCenters = map[string]Power{"par": France, "mar": France, "bre": France}

	opts := LegalBuildOrders(France, gs, m)
	if opts.Delta != 3 {
		t.Fatalf("expected delta 3 (three owned home centers, no units), got %d", opts.Delta)
	}
	if opts.WaiveOrder.Type != OrderWaive {
		t.Error("a power with a positive delta must be offered a Waive option")
	}
}

func TestLegalBuildOrders_NegativeDeltaOffersDisbands(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, France, "par", NoCoast},
		Unit{Army, France, "mar", NoCoast},
	)
	gs.SupplyCenters = map[string]Power{"par": France}

	opts := LegalBuildOrders(France, gs, m)
	if opts.Delta != -1 {
		t.Fatalf("expected delta -1 (one center, two units), got %d", opts.Delta)
	}
	if len(opts.DisbandOrders) != 2 {
		t.Fatalf("expected one disband option per unit, got %d", len(opts.DisbandOrders))
	}
}

func TestLegalRetreatOrders_OffersDisbandAndOneRetreatPerDestination(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, Germany, "ber", NoCoast})
	gs.Phase = PhaseRetreat
	gs.Dislodged = []DislodgedUnit{{
		Unit:          Unit{Army, Germany, "ber", NoCoast},
		DislodgedFrom: "ber",
		AttackerFrom:  "kie",
		LegalRetreats: []string{"sil", "pru"},
	}}

	options := LegalRetreatOrders(Germany, gs, m)
	if len(options) != 1 {
		t.Fatalf("expected one dislodged unit's options, got %d", len(options))
	}

	hasDisband := false
	moveCount := 0
	for _, o := range options[0].Options {
		switch o.Type {
		case OrderDisband:
			hasDisband = true
		case OrderRetreat:
			moveCount++
		}
	}
	if !hasDisband {
		t.Error("retreat options must always include Disband")
	}
	if moveCount != 2 {
		t.Errorf("expected 2 retreat destinations, got %d", moveCount)
	}
}
