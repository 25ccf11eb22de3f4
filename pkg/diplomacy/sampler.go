package diplomacy

import (
	"math"
	"math/rand"
	"sort"
)

// scoredOrder pairs a candidate order with its heuristic weight.
type scoredOrder struct {
	order  Order
	weight float64
}

// SampleMovementOrders implements §4.E's two-phase joint-action sampler for
// a single power's Movement-phase options, using rng for every random
// choice so runs are reproducible from a seed.
//
// Phase 1 scores every unit's primary-action candidates (Hold/Move) with a
// soft-max heuristic and samples one per unit, resolving same-destination
// collisions by re-sampling from the non-colliding remainder. Phase 2
// upgrades a subset of units to Support/Convoy orders that back the
// phase-1 picks, so the joint action is internally coherent rather than a
// set of independently-sampled orders.
func SampleMovementOrders(power Power, gs *GameState, m *DiplomacyMap, coalition Coalition, rng *rand.Rand) []Order {
	units := gs.UnitsOf(power)
	if len(units) == 0 {
		return nil
	}

	perUnit := make([][]scoredOrder, len(units))
	for i, u := range units {
		perUnit[i] = scorePrimaryActions(u, gs, m, coalition)
	}

	picks := make([]Order, len(units))
	claimed := make(map[string]bool)
	for i, cands := range perUnit {
		picks[i] = samplePrimary(cands, claimed, rng)
		if picks[i].Type == OrderMove {
			claimed[picks[i].Target] = true
		}
	}

	fixSwaps(picks)
	upgradeWithSupportsAndConvoys(picks, units, gs, m, coalition, rng)

	return picks
}

// fixSwaps implements §4.E phase 1b: a pair of Move orders whose
// destinations are each other's source regions would necessarily bounce
// (unless convoyed), so the later order in the slice is demoted to a Hold.
func fixSwaps(picks []Order) {
	for i := range picks {
		if picks[i].Type != OrderMove || picks[i].ViaConvoy {
			continue
		}
		for j := i + 1; j < len(picks); j++ {
			if picks[j].Type != OrderMove || picks[j].ViaConvoy {
				continue
			}
			if picks[i].Target == picks[j].Location && picks[j].Target == picks[i].Location {
				picks[j] = Order{
					UnitType: picks[j].UnitType, Power: picks[j].Power,
					Location: picks[j].Location, Coast: picks[j].Coast, Type: OrderHold,
				}
			}
		}
	}
}

// scorePrimaryActions builds the weighted Hold/Move candidate list for a
// single unit, per §4.E's priority ordering: capturing an enemy-held supply
// center scores highest, then entering an unowned supply center, then
// ordinary movement, then holding an owned supply center, then any other
// hold.
func scorePrimaryActions(u Unit, gs *GameState, m *DiplomacyMap, coalition Coalition) []scoredOrder {
	isFleet := u.Type == Fleet
	var out []scoredOrder

	holdWeight := 1.0
	if prov := m.Provinces[u.Province]; prov != nil && prov.IsSupplyCenter {
		if gs.SupplyCenters[u.Province] == u.Power {
			holdWeight = 3.0
		}
	}
	out = append(out, scoredOrder{
		order:  Order{UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast, Type: OrderHold},
		weight: holdWeight,
	})

	for _, target := range m.ProvincesAdjacentTo(u.Province, u.Coast, isFleet) {
		prov := m.Provinces[target]
		if prov == nil || (isFleet && prov.Type == Land) || (!isFleet && prov.Type == Sea) {
			continue
		}

		targetCoast := NoCoast
		if isFleet && m.HasCoasts(target) {
			coasts := m.FleetCoastsTo(u.Province, u.Coast, target)
			if len(coasts) != 1 {
				continue
			}
			targetCoast = coasts[0]
		}

		o := Order{
			UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
			Type: OrderMove, Target: target, TargetCoast: targetCoast,
		}
		if ValidateOrder(o, gs, m) != nil {
			continue
		}

		weight := 5.0
		owner, held := gs.SupplyCenters[target]
		if prov.IsSupplyCenter {
			switch {
			case held && owner != Neutral && owner != u.Power && !coalition.Contains(owner):
				weight = 20.0
			case !held || owner != u.Power:
				weight = 12.0
			}
		}
		weight -= float64(ProvinceThreat(target, coalition, gs, m))
		if weight < 0.5 {
			weight = 0.5
		}
		out = append(out, scoredOrder{order: o, weight: weight})
	}

	return out
}

// samplePrimary draws one candidate by soft-max weight, skipping Move
// targets already claimed by an earlier unit in this sample. Falls back to
// Hold if every remaining Move candidate collides.
func samplePrimary(cands []scoredOrder, claimed map[string]bool, rng *rand.Rand) Order {
	filtered := make([]scoredOrder, 0, len(cands))
	for _, c := range cands {
		if c.order.Type == OrderMove && claimed[c.order.Target] {
			continue
		}
		filtered = append(filtered, c)
	}
	if len(filtered) == 0 {
		return cands[0].order // Hold is always candidate 0
	}
	return weightedSample(filtered, rng)
}

func weightedSample(cands []scoredOrder, rng *rand.Rand) Order {
	total := 0.0
	for _, c := range cands {
		total += c.weight
	}
	if total <= 0 {
		return cands[0].order
	}
	r := rng.Float64() * total
	acc := 0.0
	for _, c := range cands {
		acc += c.weight
		if r <= acc {
			return c.order
		}
	}
	return cands[len(cands)-1].order
}

// upgradeWithSupportsAndConvoys is phase 2: every unit whose phase-1 pick
// is a Hold and that has at least one Support or Convoy candidate backing
// another unit's phase-1 pick has its order replaced by a weighted draw
// over those candidates. Weights are fixed per kind: supporting a move
// into an enemy supply center 18, any other supported move 10, a support
// hold 4 plus the held province's threat, a convoy 2.
func upgradeWithSupportsAndConvoys(picks []Order, units []Unit, gs *GameState, m *DiplomacyMap, coalition Coalition, rng *rand.Rand) {
	locIndex := make(map[string]int, len(units))
	for i, u := range units {
		locIndex[u.Province] = i
	}

	for i, u := range units {
		candidates := supportOrConvoyCandidates(u, picks, units, locIndex, gs, m, coalition)
		if len(candidates) == 0 {
			continue
		}
		// Only units whose phase-1 pick was a Hold are upgraded; every
		// Move pick stays as is.
		if picks[i].Type == OrderMove {
			if prov := m.Provinces[picks[i].Target]; prov == nil || !prov.IsSupplyCenter {
				continue
			}
			continue
		}
		picks[i] = weightedSample(candidates, rng)
	}
}

func supportOrConvoyCandidates(u Unit, picks []Order, units []Unit, locIndex map[string]int, gs *GameState, m *DiplomacyMap, coalition Coalition) []scoredOrder {
	var out []scoredOrder
	isFleet := u.Type == Fleet

	for j, other := range units {
		if other.Province == u.Province {
			continue
		}
		pick := picks[j]

		if pick.Type == OrderMove {
			o := Order{
				UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
				Type: OrderSupport, AuxLoc: other.Province, AuxTarget: pick.Target, AuxUnitType: other.Type,
			}
			if ValidateOrder(o, gs, m) == nil {
				weight := 10.0
				if owner, held := gs.SupplyCenters[pick.Target]; held && owner != u.Power && !coalition.Contains(owner) {
					weight = 18.0
				}
				out = append(out, scoredOrder{order: o, weight: weight})
			}
			continue
		}

		o := Order{
			UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
			Type: OrderSupport, AuxLoc: other.Province, AuxUnitType: other.Type,
		}
		if ValidateOrder(o, gs, m) == nil {
			weight := 4.0 + float64(ProvinceThreat(other.Province, coalition, gs, m))
			out = append(out, scoredOrder{order: o, weight: weight})
		}
	}

	if isFleet {
		for j, other := range units {
			if other.Type != Army || picks[j].Type != OrderMove {
				continue
			}
			o := Order{
				UnitType: u.Type, Power: u.Power, Location: u.Province, Coast: u.Coast,
				Type: OrderConvoy, AuxLoc: other.Province, AuxTarget: picks[j].Target, AuxUnitType: Army,
			}
			if ValidateOrder(o, gs, m) == nil {
				out = append(out, scoredOrder{order: o, weight: 2.0})
			}
		}
	}

	return out
}

// SampleRetreatOrders samples one retreat (or disband, if no legal
// destination exists or the sampler picks it) per dislodged unit of power,
// uniformly at random per §4.E.
func SampleRetreatOrders(power Power, gs *GameState, m *DiplomacyMap, rng *rand.Rand) []Order {
	opts := LegalRetreatOrders(power, gs, m)
	picks := make([]Order, 0, len(opts))
	for _, uo := range opts {
		if len(uo.Options) == 0 {
			continue
		}
		picks = append(picks, uo.Options[rng.Intn(len(uo.Options))])
	}
	return picks
}

// SampleBuildOrders samples a coherent build/disband set for power per
// §4.E: builds go to distinct locations (each chosen uniformly among
// not-yet-used home centers), with an army preferred where one can be
// built; disbands are chosen uniformly at random among the power's units.
func SampleBuildOrders(power Power, gs *GameState, m *DiplomacyMap, rng *rand.Rand) []Order {
	opts := LegalBuildOrders(power, gs, m)

	if opts.Delta > 0 {
		byLocation := make(map[string][]Order)
		var locations []string
		for _, o := range opts.BuildOrders {
			if _, ok := byLocation[o.Location]; !ok {
				locations = append(locations, o.Location)
			}
			byLocation[o.Location] = append(byLocation[o.Location], o)
		}
		sort.Strings(locations)
		rng.Shuffle(len(locations), func(i, j int) { locations[i], locations[j] = locations[j], locations[i] })

		var picks []Order
		for i := 0; i < opts.Delta && i < len(locations); i++ {
			choices := byLocation[locations[i]]
			// Prefer an army unless the location is fleet-only.
			armyIdx := -1
			for k, o := range choices {
				if o.UnitType == Army {
					armyIdx = k
					break
				}
			}
			if armyIdx >= 0 && rng.Float64() < 0.6 {
				picks = append(picks, choices[armyIdx])
			} else {
				picks = append(picks, choices[rng.Intn(len(choices))])
			}
		}
		for i := len(locations); i < opts.Delta; i++ {
			picks = append(picks, opts.WaiveOrder)
		}
		return picks
	}

	if opts.Delta < 0 {
		needed := -opts.Delta
		if needed > len(opts.DisbandOrders) {
			needed = len(opts.DisbandOrders)
		}
		rng.Shuffle(len(opts.DisbandOrders), func(i, j int) {
			opts.DisbandOrders[i], opts.DisbandOrders[j] = opts.DisbandOrders[j], opts.DisbandOrders[i]
		})
		return opts.DisbandOrders[:needed]
	}

	return nil
}

// softmaxWeight is a small helper kept for callers that want to convert a
// raw heuristic score into a soft-max weight with temperature-scaled
// sharpness, matching the "soft-max heuristic scoring" phrasing of §4.E.
func softmaxWeight(score, temperature float64) float64 {
	if temperature <= 0 {
		temperature = 1
	}
	return math.Exp(score / temperature)
}
