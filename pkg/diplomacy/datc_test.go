package diplomacy

import "testing"

// DATC-style adjudication cases, adapted to this package's Order/Unit
// shape. Reference: http://web.inter.nl.net/users/L.B.Kruijswijk/

// Supported attack (2) beats a lone hold (1): the defender is dislodged.
func TestResolve_SupportedAttackBeatsHold(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, Italy, "ven", NoCoast},
		Unit{Army, Austria, "tyr", NoCoast},
		Unit{Army, Austria, "tri", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: Italy, Location: "ven", Type: OrderHold},
		{UnitType: Army, Power: Austria, Location: "tyr", Type: OrderSupport, AuxLoc: "tri", AuxTarget: "ven"},
		{UnitType: Army, Power: Austria, Location: "tri", Type: OrderMove, Target: "ven"},
	}

	results, _ := ResolveOrders(orders, gs, m)
	if r := resultFor(results, "tri"); r != ResultSucceeded {
		t.Errorf("tri->ven with support: want succeeded, got %v", r)
	}
	if r := resultFor(results, "ven"); r != ResultDislodged {
		t.Errorf("ven hold: want dislodged, got %v", r)
	}
}

// Two equal-strength moves into the same province both bounce.
func TestResolve_EqualStrengthMovesBounce(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, France, "par", NoCoast},
		Unit{Army, Germany, "bur", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: France, Location: "par", Type: OrderMove, Target: "pic"},
		{UnitType: Army, Power: Germany, Location: "bur", Type: OrderMove, Target: "pic"},
	}

	results, _ := ResolveOrders(orders, gs, m)
	if r := resultFor(results, "par"); r != ResultBounced {
		t.Errorf("par->pic: want bounced, got %v", r)
	}
	if r := resultFor(results, "bur"); r != ResultBounced {
		t.Errorf("bur->pic: want bounced, got %v", r)
	}
}

// Cutting a unit's support by attacking it (from outside the supported
// move's own target) removes its contribution to the attack's strength.
func TestResolve_SupportCutByAttack(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, Italy, "ven", NoCoast},
		Unit{Army, Austria, "tyr", NoCoast},
		Unit{Army, Austria, "tri", NoCoast},
		Unit{Army, Italy, "pie", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: Italy, Location: "ven", Type: OrderHold},
		{UnitType: Army, Power: Austria, Location: "tyr", Type: OrderSupport, AuxLoc: "tri", AuxTarget: "ven"},
		{UnitType: Army, Power: Austria, Location: "tri", Type: OrderMove, Target: "ven"},
		{UnitType: Army, Power: Italy, Location: "pie", Type: OrderMove, Target: "tyr"},
	}

	results, _ := ResolveOrders(orders, gs, m)
	if r := resultFor(results, "tyr"); r != ResultCut {
		t.Errorf("tyr support: want cut, got %v", r)
	}
	if r := resultFor(results, "tri"); r != ResultBounced {
		t.Errorf("tri->ven without support: want bounced (1 v 1 hold), got %v", r)
	}
	if r := resultFor(results, "ven"); r != ResultSucceeded {
		t.Errorf("ven hold: want succeeded, got %v", r)
	}
}

// DATC 6.C.1: three-army circular movement (Boh->Mun->Sil->Boh) all
// succeed together, with no head-to-head bounce along the cycle.
func TestResolve_ThreeArmyCircularMovement(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, Germany, "boh", NoCoast},
		Unit{Army, Germany, "mun", NoCoast},
		Unit{Army, Germany, "sil", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: Germany, Location: "boh", Type: OrderMove, Target: "mun"},
		{UnitType: Army, Power: Germany, Location: "mun", Type: OrderMove, Target: "sil"},
		{UnitType: Army, Power: Germany, Location: "sil", Type: OrderMove, Target: "boh"},
	}

	results, _ := ResolveOrders(orders, gs, m)
	for _, loc := range []string{"boh", "mun", "sil"} {
		if r := resultFor(results, loc); r != ResultSucceeded {
			t.Errorf("circular move from %s: want succeeded, got %v", loc, r)
		}
	}
}

// DATC 6.C.2: the same circular movement still succeeds once one leg is
// (redundantly) supported, since nothing in the cycle is ever attacked
// from outside it.
func TestResolve_ThreeArmyCircularMovementWithSupport(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, Germany, "boh", NoCoast},
		Unit{Army, Germany, "mun", NoCoast},
		Unit{Army, Germany, "sil", NoCoast},
		Unit{Army, Germany, "tyr", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: Germany, Location: "boh", Type: OrderMove, Target: "mun"},
		{UnitType: Army, Power: Germany, Location: "mun", Type: OrderMove, Target: "sil"},
		{UnitType: Army, Power: Germany, Location: "sil", Type: OrderMove, Target: "boh"},
		{UnitType: Army, Power: Germany, Location: "tyr", Type: OrderSupport, AuxLoc: "boh", AuxTarget: "mun", AuxUnitType: Army},
	}

	results, _ := ResolveOrders(orders, gs, m)
	for _, loc := range []string{"boh", "mun", "sil"} {
		if r := resultFor(results, loc); r != ResultSucceeded {
			t.Errorf("supported circular move from %s: want succeeded, got %v", loc, r)
		}
	}
}

// DATC 6.E.2: a supported head-to-head attack beats the unsupported
// counter-attack; the loser is dislodged rather than bouncing.
func TestResolve_SupportedHeadToHeadDislodges(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, Austria, "tri", NoCoast},
		Unit{Army, Austria, "tyr", NoCoast},
		Unit{Army, Italy, "ven", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: Austria, Location: "tri", Type: OrderSupport, AuxLoc: "tyr", AuxTarget: "ven", AuxUnitType: Army},
		{UnitType: Army, Power: Austria, Location: "tyr", Type: OrderMove, Target: "ven"},
		{UnitType: Army, Power: Italy, Location: "ven", Type: OrderMove, Target: "tyr"},
	}

	results, _ := ResolveOrders(orders, gs, m)
	if r := resultFor(results, "tyr"); r != ResultSucceeded {
		t.Errorf("tyr->ven with support in a head-to-head: want succeeded, got %v", r)
	}
	if r := resultFor(results, "ven"); r != ResultDislodged {
		t.Errorf("ven (losing the head-to-head): want dislodged, got %v", r)
	}
}

// DATC 6.F.1: a convoyed army move succeeds across a single sea province.
func TestResolve_SimpleConvoySucceeds(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, England, "lon", NoCoast},
		Unit{Fleet, England, "nth", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: England, Location: "lon", Type: OrderMove, Target: "nwy"},
		{UnitType: Fleet, Power: England, Location: "nth", Type: OrderConvoy, AuxLoc: "lon", AuxTarget: "nwy", AuxUnitType: Army},
	}

	results, _ := ResolveOrders(orders, gs, m)
	if r := resultFor(results, "lon"); r != ResultSucceeded {
		t.Errorf("convoyed lon->nwy: want succeeded, got %v", r)
	}
}

// DATC 6.F.2: dislodging the convoying fleet disrupts the convoy, so the
// convoyed army's move fails even though nothing attacked it directly.
func TestResolve_DisruptedConvoyFails(t *testing.T) {
	m := StandardMap()
	gs := stateWith(
		Unit{Army, England, "lon", NoCoast},
		Unit{Fleet, England, "nth", NoCoast},
		Unit{Fleet, France, "eng", NoCoast},
		Unit{Fleet, France, "bel", NoCoast},
	)
	orders := []Order{
		{UnitType: Army, Power: England, Location: "lon", Type: OrderMove, Target: "nwy"},
		{UnitType: Fleet, Power: England, Location: "nth", Type: OrderConvoy, AuxLoc: "lon", AuxTarget: "nwy", AuxUnitType: Army},
		{UnitType: Fleet, Power: France, Location: "eng", Type: OrderMove, Target: "nth"},
		{UnitType: Fleet, Power: France, Location: "bel", Type: OrderSupport, AuxLoc: "eng", AuxTarget: "nth", AuxUnitType: Fleet},
	}

	results, _ := ResolveOrders(orders, gs, m)
	if r := resultFor(results, "nth"); r != ResultDislodged {
		t.Errorf("convoying fleet nth: want dislodged (2 vs 1), got %v", r)
	}
	if r := resultFor(results, "lon"); r == ResultSucceeded {
		t.Error("lon->nwy should fail once its only convoying fleet is dislodged")
	}
}

// ValidateOrder rejects an army ordered onto a sea province.
func TestValidateOrder_ArmyCannotMoveToSea(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, England, "lvp", NoCoast})
	order := Order{UnitType: Army, Power: England, Location: "lvp", Type: OrderMove, Target: "iri"}

	if err := ValidateOrder(order, gs, m); err == nil {
		t.Error("army move onto a sea province should be invalid")
	}
}

// ValidateAndDefaultOrders replaces an invalid order with Hold and
// reports it as void, rather than dropping or fabricating an order.
func TestValidateAndDefaultOrders_VoidsIllegalMove(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Fleet, Germany, "kie", NoCoast})
	orders := []Order{
		{UnitType: Fleet, Power: Germany, Location: "kie", Type: OrderMove, Target: "mun"},
	}

	valid, voids := ValidateAndDefaultOrders(orders, gs, m)
	if len(voids) != 1 || voids[0].Result != ResultVoid {
		t.Fatalf("expected one void result, got %+v", voids)
	}
	if len(valid) != 1 || valid[0].Type != OrderHold {
		t.Fatalf("expected defaulted Hold order, got %+v", valid)
	}
}
