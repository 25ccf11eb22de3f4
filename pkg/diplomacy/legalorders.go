package diplomacy

// UnitOptions is the option list for a single unit: every legal order it
// could be given this phase. The sampler picks exactly one per unit.
type UnitOptions struct {
	Unit    Unit
	Options []Order
}

// LegalMovementOrders implements §4.B's Movement-phase contract: for each
// of power's units, the full option list of legal Hold/Move/Convoy/Support
// orders, one list per unit.
func LegalMovementOrders(power Power, gs *GameState, m *DiplomacyMap) []UnitOptions {
	var result []UnitOptions
	for _, u := range gs.Units {
		if u.Power != power {
			continue
		}
		result = append(result, UnitOptions{Unit: u, Options: legalOrdersForUnit(u, gs, m)})
	}
	return result
}

func legalOrdersForUnit(u Unit, gs *GameState, m *DiplomacyMap) []Order {
	isFleet := u.Type == Fleet
	orders := []Order{{
		UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
		Type: OrderHold,
	}}

	for _, target := range m.ProvincesAdjacentTo(u.Province, u.Coast, isFleet) {
		prov := m.Provinces[target]
		if prov == nil {
			continue
		}
		if isFleet && prov.Type == Land {
			continue
		}
		if !isFleet && prov.Type == Sea {
			continue
		}

		targetCoast := NoCoast
		if isFleet && m.HasCoasts(target) {
			coasts := m.FleetCoastsTo(u.Province, u.Coast, target)
			if len(coasts) == 0 {
				continue
			}
			if len(coasts) == 1 {
				targetCoast = coasts[0]
			} else {
				for _, c := range coasts {
					orders = append(orders, Order{
						UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
						Type: OrderMove, Target: target, TargetCoast: c,
					})
				}
				continue
			}
		}

		o := Order{
			UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
			Type: OrderMove, Target: target, TargetCoast: targetCoast,
		}
		if ValidateOrder(o, gs, m) == nil {
			orders = append(orders, o)
		}
	}

	// Army moves requiring a convoy: a reachable-by-sea destination that
	// isn't directly adjacent. Only offered when at least one friendly or
	// foreign fleet chain could plausibly carry it; legality is confirmed
	// at adjudication time via the dynamic convoy-order BFS, so here we
	// only need canBeConvoyed to gate the option.
	if !isFleet {
		for _, prov := range m.Provinces {
			if prov.Type == Sea || prov.ID == u.Province {
				continue
			}
			if m.Adjacent(u.Province, u.Coast, prov.ID, NoCoast, false) {
				continue
			}
			if canBeConvoyed(u.Province, prov.ID, gs, m) {
				orders = append(orders, Order{
					UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
					Type: OrderMove, Target: prov.ID, ViaConvoy: true,
				})
			}
		}
	}

	// Support: any adjacent unit that can itself reach a support destination.
	for _, other := range gs.Units {
		if other.Province == u.Province {
			continue
		}

		suppHold := Order{
			UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
			Type: OrderSupport, AuxLoc: other.Province, AuxUnitType: other.Type,
		}
		if ValidateOrder(suppHold, gs, m) == nil {
			orders = append(orders, suppHold)
		}

		otherIsFleet := other.Type == Fleet
		for _, target := range m.ProvincesAdjacentTo(other.Province, other.Coast, otherIsFleet) {
			if target == u.Province {
				continue
			}
			suppMove := Order{
				UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
				Type: OrderSupport, AuxLoc: other.Province, AuxTarget: target, AuxUnitType: other.Type,
			}
			if ValidateOrder(suppMove, gs, m) == nil {
				orders = append(orders, suppMove)
			}
		}
	}

	// Convoy: fleets in sea regions only.
	if isFleet {
		for _, army := range gs.Units {
			if army.Type != Army || army.Province == u.Province {
				continue
			}
			for _, target := range m.ProvincesAdjacentTo(army.Province, army.Coast, false) {
				convoyOrder := Order{
					UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
					Type: OrderConvoy, AuxLoc: army.Province, AuxTarget: target, AuxUnitType: Army,
				}
				if ValidateOrder(convoyOrder, gs, m) == nil {
					orders = append(orders, convoyOrder)
				}
			}
		}
	}

	return orders
}

// LegalRetreatOrders implements §4.B's Retreat-phase contract: for each
// dislodged unit of power, one retreat order per legal destination plus
// a disband.
func LegalRetreatOrders(power Power, gs *GameState, m *DiplomacyMap) []UnitOptions {
	var result []UnitOptions
	for _, d := range gs.Dislodged {
		if d.Unit.Power != power {
			continue
		}
		options := make([]Order, 0, len(d.LegalRetreats)+1)
		for _, dest := range d.LegalRetreats {
			targetCoast := NoCoast
			if d.Unit.Type == Fleet && m.HasCoasts(dest) {
				coasts := m.FleetCoastsTo(d.DislodgedFrom, d.Unit.Coast, dest)
				for _, c := range coasts {
					options = append(options, Order{
						UnitType: d.Unit.Type, Power: power, Location: d.DislodgedFrom, Coast: d.Unit.Coast,
						Type: OrderRetreat, Target: dest, TargetCoast: c,
					})
				}
				continue
			}
			options = append(options, Order{
				UnitType: d.Unit.Type, Power: power, Location: d.DislodgedFrom, Coast: d.Unit.Coast,
				Type: OrderRetreat, Target: dest, TargetCoast: targetCoast,
			})
		}
		options = append(options, Order{
			UnitType: d.Unit.Type, Power: power, Location: d.DislodgedFrom, Coast: d.Unit.Coast,
			Type: OrderDisband,
		})
		result = append(result, UnitOptions{Unit: d.Unit, Options: options})
	}
	return result
}

// BuildOptions is the single option list returned for a power's Build
// phase (§4.B): either every build choice if the power is short of units,
// or every disband choice if the power has a surplus. The sampler is
// responsible for selecting the right multiplicity.
type BuildOptions struct {
	Power       Power
	Delta       int // positive: builds available; negative: disbands required
	BuildOrders []Order
	WaiveOrder  Order
	DisbandOrders []Order
}

// LegalBuildOrders implements §4.B's Build-phase contract for power.
func LegalBuildOrders(power Power, gs *GameState, m *DiplomacyMap) BuildOptions {
	delta := gs.SupplyCenterCount(power) - gs.UnitCount(power)
	out := BuildOptions{Power: power, Delta: delta}

	if delta > 0 {
		out.WaiveOrder = Order{Power: power, Type: OrderWaive}
		for _, region := range HomeCenters(power) {
			if gs.SupplyCenters[region] != power || gs.UnitAt(region) != nil {
				continue
			}
			prov := m.Provinces[region]
			if prov == nil {
				continue
			}
			if prov.Type != Land {
				if len(prov.Coasts) > 0 {
					for _, c := range prov.Coasts {
						out.BuildOrders = append(out.BuildOrders, Order{
							Power: power, UnitType: Fleet, Location: region, Coast: c, Type: OrderBuild,
						})
					}
				} else {
					out.BuildOrders = append(out.BuildOrders, Order{
						Power: power, UnitType: Fleet, Location: region, Type: OrderBuild,
					})
				}
			}
			out.BuildOrders = append(out.BuildOrders, Order{
				Power: power, UnitType: Army, Location: region, Type: OrderBuild,
			})
		}
	} else if delta < 0 {
		for _, u := range gs.UnitsOf(power) {
			out.DisbandOrders = append(out.DisbandOrders, Order{
				UnitType: u.Type, Power: power, Location: u.Province, Coast: u.Coast, Type: OrderDisband,
			})
		}
	}

	return out
}
