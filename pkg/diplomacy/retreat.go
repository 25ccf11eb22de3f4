package diplomacy

// ResolveRetreats adjudicates Retreat-phase orders (OrderRetreat /
// OrderDisband only). Unordered dislodged units default to disband;
// multiple retreats into the same region annihilate all contestants
// (standoff).
func ResolveRetreats(orders []Order, gs *GameState, m *DiplomacyMap) []ResolvedOrder {
	var results []ResolvedOrder

	orderedUnits := make(map[string]bool)
	for _, o := range orders {
		orderedUnits[o.Location] = true
	}

	for _, d := range gs.Dislodged {
		if !orderedUnits[d.DislodgedFrom] {
			results = append(results, ResolvedOrder{
				Order: Order{
					UnitType: d.Unit.Type,
					Power:    d.Unit.Power,
					Location: d.DislodgedFrom,
					Coast:    d.Unit.Coast,
					Type:     OrderDisband,
				},
				Result: ResultSucceeded,
			})
		}
	}

	targetCounts := make(map[string]int)
	for _, o := range orders {
		if o.Type == OrderRetreat {
			targetCounts[o.Target]++
		}
	}

	for _, o := range orders {
		if o.Type == OrderDisband {
			results = append(results, ResolvedOrder{Order: o, Result: ResultSucceeded})
			continue
		}

		if err := ValidateOrder(o, gs, m); err != nil {
			results = append(results, ResolvedOrder{Order: o, Result: ResultVoid, Reason: err.Error()})
			continue
		}

		if targetCounts[o.Target] > 1 {
			results = append(results, ResolvedOrder{Order: o, Result: ResultBounced, Reason: "retreat standoff"})
		} else {
			results = append(results, ResolvedOrder{Order: o, Result: ResultSucceeded})
		}
	}

	return results
}

// ApplyRetreats mutates gs per the resolved retreat results: successful
// retreats add the unit back at its new region; disbanded/bounced/void
// units are not added back. Supply-center ownership is updated by the
// caller (AdvanceState) after a Fall retreat phase, per §3 invariant 4.
func ApplyRetreats(gs *GameState, results []ResolvedOrder, m *DiplomacyMap) {
	for _, r := range results {
		if r.Order.Type == OrderRetreat && r.Result == ResultSucceeded {
			coast := r.Order.TargetCoast
			if coast == NoCoast && m.HasCoasts(r.Order.Target) {
				coasts := m.FleetCoastsTo(r.Order.Location, r.Order.Coast, r.Order.Target)
				if len(coasts) == 1 {
					coast = coasts[0]
				}
			}
			gs.Units = append(gs.Units, Unit{
				Type:     r.Order.UnitType,
				Power:    r.Order.Power,
				Province: r.Order.Target,
				Coast:    coast,
			})
		}
	}

	gs.Dislodged = nil
}
