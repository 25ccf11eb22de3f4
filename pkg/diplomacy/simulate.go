package diplomacy

import "math/rand"

// Step advances gs by exactly one phase in place, given a single joint
// order set covering every unit/power legal to order this phase. It
// dispatches on gs.Phase so callers (the search tree, the CLI) don't need
// to know which resolver to call.
func Step(gs *GameState, orders []Order, m *DiplomacyMap) []ResolvedOrder {
	switch gs.Phase {
	case PhaseMovement:
		results, dislodged := ResolveOrders(orders, gs, m)
		ApplyResolution(gs, m, results, dislodged)
		AdvanceState(gs, len(dislodged) > 0)
		return results
	case PhaseRetreat:
		results := ResolveRetreats(orders, gs, m)
		ApplyRetreats(gs, results, m)
		AdvanceState(gs, false)
		return results
	case PhaseBuild:
		results := ResolveBuildOrders(orders, gs, m)
		ApplyBuildOrders(gs, results)
		AdvanceState(gs, false)
		return results
	default:
		return nil
	}
}

// SamplePhaseOrders draws one joint, coherent order set for every power
// still alive, dispatching to the sampler appropriate to gs.Phase. Used by
// both MCTS expansion/rollout and any caller wanting a single plausible
// next move without running search.
func SamplePhaseOrders(gs *GameState, m *DiplomacyMap, coalition Coalition, rng *rand.Rand) []Order {
	var all []Order
	for _, power := range AllPowers() {
		if !gs.PowerIsAlive(power) {
			continue
		}
		switch gs.Phase {
		case PhaseMovement:
			all = append(all, SampleMovementOrders(power, gs, m, coalition, rng)...)
		case PhaseRetreat:
			hasDislodged := false
			for _, d := range gs.Dislodged {
				if d.Unit.Power == power {
					hasDislodged = true
					break
				}
			}
			if hasDislodged {
				all = append(all, SampleRetreatOrders(power, gs, m, rng)...)
			}
		case PhaseBuild:
			all = append(all, SampleBuildOrders(power, gs, m, rng)...)
		}
	}
	if gs.Phase == PhaseMovement {
		fixSwaps(all)
	}
	return all
}

// SampleCoalitionMovementOrders draws one joint action covering only the
// coalition's units, for seeding an MCTS node's pending-action queue
// (§4.F expansion): the tree only branches on the coalition's own
// decisions, never on opponents', so this omits every non-coalition power.
func SampleCoalitionMovementOrders(gs *GameState, m *DiplomacyMap, coalition Coalition, rng *rand.Rand) []Order {
	var all []Order
	for _, power := range coalition.Powers {
		if !gs.PowerIsAlive(power) {
			continue
		}
		all = append(all, SampleMovementOrders(power, gs, m, coalition, rng)...)
	}
	fixSwaps(all)
	return all
}

// SampleOpponentMovementOrders draws one joint action covering only the
// non-coalition powers still alive, used at MCTS expansion time to fill in
// the rest of the ply once a coalition joint action has been popped from
// a node's pending queue.
func SampleOpponentMovementOrders(gs *GameState, m *DiplomacyMap, coalition Coalition, rng *rand.Rand) []Order {
	var all []Order
	for _, power := range AllPowers() {
		if coalition.Contains(power) || !gs.PowerIsAlive(power) {
			continue
		}
		all = append(all, SampleMovementOrders(power, gs, m, coalition, rng)...)
	}
	fixSwaps(all)
	return all
}
