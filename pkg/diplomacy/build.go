package diplomacy

import "sort"

// ResolveBuildOrders adjudicates Build-phase orders (OrderBuild /
// OrderDisband / OrderWaive only) for every power. Builds beyond a
// power's delta are ignored; unused builds are implicitly waived.
// Insufficient disbands trigger civil disorder: the canonical rule is
// fleets before armies, then furthest from a home supply center, then
// alphabetical by region tag (Open Question #3).
func ResolveBuildOrders(orders []Order, gs *GameState, m *DiplomacyMap) []ResolvedOrder {
	var results []ResolvedOrder

	byPower := make(map[Power][]Order)
	for _, o := range orders {
		byPower[o.Power] = append(byPower[o.Power], o)
	}

	for _, power := range AllPowers() {
		scCount := gs.SupplyCenterCount(power)
		unitCount := gs.UnitCount(power)
		diff := scCount - unitCount

		submitted := byPower[power]

		switch {
		case diff > 0:
			built := 0
			for _, o := range submitted {
				if o.Type != OrderBuild && o.Type != OrderWaive {
					continue
				}
				if built >= diff {
					results = append(results, ResolvedOrder{Order: o, Result: ResultFailed, Reason: "no builds remaining"})
					continue
				}
				if o.Type == OrderWaive {
					results = append(results, ResolvedOrder{Order: o, Result: ResultSucceeded})
					built++
					continue
				}
				if err := ValidateOrder(o, gs, m); err != nil {
					results = append(results, ResolvedOrder{Order: o, Result: ResultVoid, Reason: err.Error()})
					continue
				}
				results = append(results, ResolvedOrder{Order: o, Result: ResultSucceeded})
				built++
			}
		case diff < 0:
			needed := -diff
			disbanded := 0
			for _, o := range submitted {
				if o.Type != OrderDisband {
					continue
				}
				if err := ValidateOrder(o, gs, m); err != nil {
					results = append(results, ResolvedOrder{Order: o, Result: ResultVoid, Reason: err.Error()})
					continue
				}
				if disbanded >= needed {
					results = append(results, ResolvedOrder{Order: o, Result: ResultFailed, Reason: "no disbands remaining"})
					continue
				}
				results = append(results, ResolvedOrder{Order: o, Result: ResultSucceeded})
				disbanded++
			}

			if disbanded < needed {
				results = append(results, civilDisorder(power, needed-disbanded, gs, m)...)
			}
		}
	}

	return results
}

// civilDisorder auto-disbands units when a power hasn't submitted enough
// disband orders: fleets before armies, then furthest from home by BFS
// distance, then alphabetical by region tag.
func civilDisorder(power Power, count int, gs *GameState, m *DiplomacyMap) []ResolvedOrder {
	units := gs.UnitsOf(power)
	if len(units) == 0 || count == 0 {
		return nil
	}

	homes := HomeCenters(power)

	type candidate struct {
		unit Unit
		dist int
	}
	candidates := make([]candidate, 0, len(units))
	for _, u := range units {
		candidates = append(candidates, candidate{u, minDistanceToHome(u.Province, homes, m)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.unit.Type != b.unit.Type {
			return a.unit.Type == Fleet // fleets sort first
		}
		if a.dist != b.dist {
			return a.dist > b.dist // furthest first
		}
		return a.unit.Province < b.unit.Province // alphabetical
	})

	if count > len(candidates) {
		count = len(candidates)
	}

	results := make([]ResolvedOrder, 0, count)
	for i := 0; i < count; i++ {
		u := candidates[i].unit
		results = append(results, ResolvedOrder{
			Order: Order{
				UnitType: u.Type,
				Power:    power,
				Location: u.Province,
				Coast:    u.Coast,
				Type:     OrderDisband,
			},
			Result: ResultSucceeded,
			Reason: "civil disorder",
		})
	}

	return results
}

// minDistanceToHome computes the minimum BFS distance from a region to any home SC.
func minDistanceToHome(from string, homes []string, m *DiplomacyMap) int {
	if len(homes) == 0 {
		return 999
	}

	homeSet := make(map[string]bool, len(homes))
	for _, h := range homes {
		homeSet[h] = true
	}
	if homeSet[from] {
		return 0
	}

	visited := map[string]bool{from: true}
	queue := []string{from}
	dist := 0

	for len(queue) > 0 {
		dist++
		var next []string
		for _, prov := range queue {
			for _, adj := range m.Adjacencies[prov] {
				if visited[adj.To] {
					continue
				}
				if homeSet[adj.To] {
					return dist
				}
				visited[adj.To] = true
				next = append(next, adj.To)
			}
		}
		queue = next
	}

	return 999
}

// ApplyBuildOrders mutates gs per the resolved build results.
func ApplyBuildOrders(gs *GameState, results []ResolvedOrder) {
	for _, r := range results {
		if r.Result != ResultSucceeded {
			continue
		}
		switch r.Order.Type {
		case OrderBuild:
			gs.Units = append(gs.Units, Unit{
				Type:     r.Order.UnitType,
				Power:    r.Order.Power,
				Province: r.Order.Location,
				Coast:    r.Order.Coast,
			})
		case OrderDisband:
			for i := range gs.Units {
				if gs.Units[i].Province == r.Order.Location && gs.Units[i].Power == r.Order.Power {
					gs.Units = append(gs.Units[:i], gs.Units[i+1:]...)
					break
				}
			}
		}
	}
}
