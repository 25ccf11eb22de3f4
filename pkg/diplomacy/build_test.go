package diplomacy

import "testing"

func TestResolveBuildOrders_ExcessBuildRequestFails(t *testing.T) {
	m := StandardMap()
	gs := stateWith()
	gs.SupplyCenters = map[string]Power{"par": France, "mar": France}
	orders := []Order{
		{UnitType: Army, Power: France, Location: "par", Type: OrderBuild},
		{UnitType: Army, Power: France, Location: "mar", Type: OrderBuild},
		{UnitType: Army, Power: France, Location: "bre", Type: OrderBuild},
	}

	results := ResolveBuildOrders(orders, gs, m)
	succeeded := 0
	for _, r := range results {
		if r.Result == ResultSucceeded {
			succeeded++
		}
	}
	if succeeded != 2 {
		t.Fatalf("expected exactly 2 successful builds (delta 2), got %d", succeeded)
	}
}

func TestResolveBuildOrders_UnderOrderedDisbandsTriggerCivilDisorder(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Fleet, Germany, "kie", NoCoast},
		Unit{Army, Germany, "mun", NoCoast},
	)
	gs.SupplyCenters = map[string]Power{"ber": Germany}

	results := ResolveBuildOrders(nil, gs, m)
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 civil-disorder disband, got %d", len(results))
	}
	if results[0].Order.UnitType != Fleet {
		t.Errorf("civil disorder must disband the fleet before the army, got %v", results[0].Order.UnitType)
	}
}

// Round-trip: Build resolution feeds ApplyBuildOrders, producing the
// correct unit count.
func TestBuildRoundTrip_SuccessfulBuildAddsUnit(t *testing.T) {
	m := StandardMap()
	gs := stateWith()
	gs.SupplyCenters = map[string]Power{"par": France}
	orders := []Order{{UnitType: Army, Power: France, Location: "par", Type: OrderBuild}}

	results := ResolveBuildOrders(orders, gs, m)
	ApplyBuildOrders(gs, results)

	if len(gs.Units) != 1 || gs.Units[0].Province != "par" {
		t.Fatalf("expected one built unit at par, got %+v", gs.Units)
	}
}

func TestBuildRoundTrip_SuccessfulDisbandRemovesUnit(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, France, "par", NoCoast}, Unit{Army, France, "mar", NoCoast})
	gs.SupplyCenters = map[string]Power{"par": France}
	orders := []Order{{UnitType: Army, Power: France, Location: "mar", Type: OrderDisband}}

	results := ResolveBuildOrders(orders, gs, m)
	ApplyBuildOrders(gs, results)

	if len(gs.Units) != 1 || gs.Units[0].Province != "par" {
		t.Fatalf("expected only par unit remaining, got %+v", gs.Units)
	}
}
