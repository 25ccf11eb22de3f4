package diplomacy

import "fmt"

// ValidationError describes why an order is structurally illegal.
type ValidationError struct {
	Order   Order
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order.Describe(), e.Message)
}

// ValidateOrder checks whether an order is legal given the current state
// and map, dispatching on the order's phase-appropriate Type. Returns nil
// if valid, or a *ValidationError describing the problem. Never panics:
// per §7, order-level failure is always a value, never a thrown error.
func ValidateOrder(order Order, gs *GameState, m *DiplomacyMap) error {
	switch order.Type {
	case OrderBuild:
		return validateBuild(order, gs, m)
	case OrderWaive:
		return nil
	case OrderRetreat:
		// A dislodged unit is no longer on the board; validateRetreat
		// looks it up in gs.Dislodged instead.
		return validateRetreat(order, gs, m)
	}

	unit := gs.UnitAt(order.Location)
	if unit == nil {
		return &ValidationError{order, "no unit at " + order.Location}
	}
	if unit.Power != order.Power {
		return &ValidationError{order, fmt.Sprintf("unit belongs to %s, not %s", unit.Power, order.Power)}
	}
	if unit.Type != order.UnitType {
		return &ValidationError{order, fmt.Sprintf("unit is %s, not %s", unit.Type, order.UnitType)}
	}

	switch order.Type {
	case OrderHold:
		return nil
	case OrderMove:
		return validateMove(order, gs, m)
	case OrderSupport:
		return validateSupport(order, gs, m)
	case OrderConvoy:
		return validateConvoy(order, gs, m)
	case OrderDisband:
		return nil
	default:
		return &ValidationError{order, "unknown order type"}
	}
}

func validateMove(order Order, gs *GameState, m *DiplomacyMap) error {
	isFleet := order.UnitType == Fleet
	target := m.Provinces[order.Target]
	if target == nil {
		return &ValidationError{order, "target region does not exist: " + order.Target}
	}

	if isFleet && target.Type == Land {
		return &ValidationError{order, "fleet cannot move to inland region"}
	}
	if !isFleet && target.Type == Sea {
		return &ValidationError{order, "army cannot move to sea region"}
	}

	if m.Adjacent(order.Location, order.Coast, order.Target, order.TargetCoast, isFleet) {
		if isFleet && m.HasCoasts(order.Target) {
			return validateFleetCoast(order.Location, order.Coast, order.Target, order.TargetCoast, order, m)
		}
		return nil
	}

	if !isFleet && canBeConvoyed(order.Location, order.Target, gs, m) {
		return nil
	}

	return &ValidationError{order, fmt.Sprintf("cannot move from %s to %s", order.Location, order.Target)}
}

// validateFleetCoast rejects an ambiguous or unreachable bicoastal coast
// specification at validation time rather than letting a "none" coast
// silently match whichever coast happens to resolve (Open Question #1).
func validateFleetCoast(from string, fromCoast Coast, to string, toCoast Coast, order Order, m *DiplomacyMap) error {
	coasts := m.FleetCoastsTo(from, fromCoast, to)
	if len(coasts) == 0 {
		return &ValidationError{order, "fleet cannot reach any coast of " + to}
	}
	if toCoast == NoCoast {
		if len(coasts) > 1 {
			return &ValidationError{order, "must specify coast for " + to}
		}
		return nil
	}
	for _, c := range coasts {
		if c == toCoast {
			return nil
		}
	}
	return &ValidationError{order, fmt.Sprintf("fleet cannot reach %s/%s from %s", to, toCoast, from)}
}

func validateSupport(order Order, gs *GameState, m *DiplomacyMap) error {
	supported := gs.UnitAt(order.AuxLoc)
	if supported == nil {
		return &ValidationError{order, "no unit at " + order.AuxLoc + " to support"}
	}

	isFleet := order.UnitType == Fleet

	if order.AuxTarget == "" {
		if !m.Adjacent(order.Location, order.Coast, order.AuxLoc, NoCoast, isFleet) {
			return &ValidationError{order, fmt.Sprintf("cannot support hold at %s from %s", order.AuxLoc, order.Location)}
		}
		return nil
	}

	if !m.Adjacent(order.Location, order.Coast, order.AuxTarget, NoCoast, isFleet) {
		return &ValidationError{order, fmt.Sprintf("cannot support move to %s from %s", order.AuxTarget, order.Location)}
	}

	supportedIsFleet := supported.Type == Fleet
	if !m.Adjacent(order.AuxLoc, supported.Coast, order.AuxTarget, NoCoast, supportedIsFleet) {
		if supported.Type == Army && canBeConvoyed(order.AuxLoc, order.AuxTarget, gs, m) {
			return nil
		}
		return &ValidationError{order, fmt.Sprintf("supported unit at %s cannot reach %s", order.AuxLoc, order.AuxTarget)}
	}

	return nil
}

func validateConvoy(order Order, gs *GameState, m *DiplomacyMap) error {
	if order.UnitType != Fleet {
		return &ValidationError{order, "only fleets can convoy"}
	}

	prov := m.Provinces[order.Location]
	if prov == nil || prov.Type != Sea {
		return &ValidationError{order, "fleet must be in a sea region to convoy"}
	}

	convoyed := gs.UnitAt(order.AuxLoc)
	if convoyed == nil {
		return &ValidationError{order, "no unit at " + order.AuxLoc + " to convoy"}
	}
	if convoyed.Type != Army {
		return &ValidationError{order, "only armies can be convoyed"}
	}

	return nil
}

func validateRetreat(order Order, gs *GameState, m *DiplomacyMap) error {
	var dislodged *DislodgedUnit
	for i := range gs.Dislodged {
		if gs.Dislodged[i].DislodgedFrom == order.Location && gs.Dislodged[i].Unit.Power == order.Power {
			dislodged = &gs.Dislodged[i]
			break
		}
	}
	if dislodged == nil {
		return &ValidationError{order, "no dislodged unit at " + order.Location}
	}

	if order.Target == dislodged.AttackerFrom {
		return &ValidationError{order, "cannot retreat to the attacker's region"}
	}

	isFleet := order.UnitType == Fleet
	if !m.Adjacent(order.Location, order.Coast, order.Target, order.TargetCoast, isFleet) {
		return &ValidationError{order, "retreat target not adjacent"}
	}
	if isFleet && m.HasCoasts(order.Target) {
		if err := validateFleetCoast(order.Location, order.Coast, order.Target, order.TargetCoast, order, m); err != nil {
			return err
		}
	}

	if gs.UnitAt(order.Target) != nil {
		return &ValidationError{order, "cannot retreat to occupied region"}
	}

	found := false
	for _, r := range dislodged.LegalRetreats {
		if r == order.Target {
			found = true
			break
		}
	}
	if !found && dislodged.LegalRetreats != nil {
		return &ValidationError{order, "region is not a legal retreat destination (standoff or contested)"}
	}

	return nil
}

func validateBuild(order Order, gs *GameState, m *DiplomacyMap) error {
	if gs.SupplyCenterCount(order.Power) <= gs.UnitCount(order.Power) {
		return &ValidationError{order, "no builds available (units >= supply centers)"}
	}

	prov := m.Provinces[order.Location]
	if prov == nil {
		return &ValidationError{order, "region does not exist"}
	}
	if !prov.IsSupplyCenter {
		return &ValidationError{order, "not a supply center"}
	}
	if prov.HomePower != order.Power {
		return &ValidationError{order, "not a home supply center"}
	}
	if gs.SupplyCenters[order.Location] != order.Power {
		return &ValidationError{order, "supply center not currently owned"}
	}
	if gs.UnitAt(order.Location) != nil {
		return &ValidationError{order, "region is occupied"}
	}
	if order.UnitType == Fleet && prov.Type == Land {
		return &ValidationError{order, "cannot build fleet in inland region"}
	}
	if order.UnitType == Fleet && len(prov.Coasts) > 0 && order.Coast == NoCoast {
		return &ValidationError{order, "must specify coast for fleet build"}
	}

	return nil
}

// canBeConvoyed reports whether there is a possible all-sea convoy chain
// from src to dst through fleets currently on the board, whatever their
// orders (used at validation time
// to admit army moves that aren't directly adjacent).
func canBeConvoyed(src, dst string, gs *GameState, m *DiplomacyMap) bool {
	srcProv := m.Provinces[src]
	dstProv := m.Provinces[dst]
	if srcProv == nil || dstProv == nil {
		return false
	}
	if srcProv.Type == Sea || dstProv.Type == Sea {
		return false
	}

	visited := make(map[string]bool)
	var queue []string

	for _, adj := range m.Adjacencies[src] {
		if !adj.FleetOK {
			continue
		}
		seaProv := m.Provinces[adj.To]
		if seaProv != nil && seaProv.Type == Sea {
			if u := gs.UnitAt(adj.To); u != nil && u.Type == Fleet && !visited[adj.To] {
				visited[adj.To] = true
				queue = append(queue, adj.To)
			}
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, adj := range m.Adjacencies[current] {
			if adj.To == dst && adj.FleetOK {
				return true
			}
		}

		for _, adj := range m.Adjacencies[current] {
			if !adj.FleetOK || visited[adj.To] {
				continue
			}
			seaProv := m.Provinces[adj.To]
			if seaProv != nil && seaProv.Type == Sea {
				if u := gs.UnitAt(adj.To); u != nil && u.Type == Fleet {
					visited[adj.To] = true
					queue = append(queue, adj.To)
				}
			}
		}
	}

	return false
}

// ValidateAndDefaultOrders takes submitted Movement-phase orders and
// returns a complete order set for every unit of every power: units
// without an order default to Hold, and illegal orders are replaced with
// Hold and reported as void resolution records.
func ValidateAndDefaultOrders(orders []Order, gs *GameState, m *DiplomacyMap) ([]Order, []ResolvedOrder) {
	ordered := make(map[string]bool)
	var valid []Order
	var voidResults []ResolvedOrder

	for _, o := range orders {
		if err := ValidateOrder(o, gs, m); err != nil {
			hold := Order{
				UnitType: o.UnitType,
				Power:    o.Power,
				Location: o.Location,
				Coast:    o.Coast,
				Type:     OrderHold,
			}
			valid = append(valid, hold)
			voidResults = append(voidResults, ResolvedOrder{Order: o, Result: ResultVoid, Reason: err.Error()})
			ordered[o.Location] = true
			continue
		}
		valid = append(valid, o)
		ordered[o.Location] = true
	}

	for _, unit := range gs.Units {
		if !ordered[unit.Province] {
			valid = append(valid, Order{
				UnitType: unit.Type,
				Power:    unit.Power,
				Location: unit.Province,
				Coast:    unit.Coast,
				Type:     OrderHold,
			})
		}
	}

	return valid, voidResults
}
