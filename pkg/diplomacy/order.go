package diplomacy

import "fmt"

// OrderType represents the kind of order issued to a unit or a power.
// Modeled as one closed tagged union (not an inheritance hierarchy) so a
// single resolver can switch on Type without type assertions.
type OrderType int

const (
	OrderHold    OrderType = iota // Unit holds position
	OrderMove                     // Unit moves to adjacent (or convoyed) region
	OrderSupport                  // Unit supports another unit's hold or move
	OrderConvoy                   // Fleet convoys an army across sea
	OrderRetreat                  // Dislodged unit retreats to an adjacent region
	OrderDisband                  // Unit (dislodged, or build-phase surplus) is removed
	OrderBuild                    // New unit is built at a home supply center
	OrderWaive                    // Power declines an available build
)

func (o OrderType) String() string {
	switch o {
	case OrderHold:
		return "hold"
	case OrderMove:
		return "move"
	case OrderSupport:
		return "support"
	case OrderConvoy:
		return "convoy"
	case OrderRetreat:
		return "retreat"
	case OrderDisband:
		return "disband"
	case OrderBuild:
		return "build"
	case OrderWaive:
		return "waive"
	default:
		return "unknown"
	}
}

// Order is a single tagged-union order. Field use by Type:
//
//   - Hold:    UnitType, Power, Location, Coast
//   - Move:    + Target, TargetCoast, ViaConvoy
//   - Support: + AuxLoc (supported unit), AuxTarget (its destination, empty
//     means support-hold), AuxUnitType
//   - Convoy:  + AuxLoc (convoyed army), AuxTarget (its destination)
//   - Retreat: + Target, TargetCoast
//   - Disband: Location only carries the dislodged or surplus unit's region
//   - Build:   Power, UnitType, Location, Coast (no unit exists yet)
//   - Waive:   Power only
type Order struct {
	UnitType UnitType
	Power    Power
	Location string
	Coast    Coast

	Type OrderType

	Target      string
	TargetCoast Coast
	ViaConvoy   bool

	AuxLoc      string
	AuxTarget   string
	AuxUnitType UnitType
}

// OrderResult describes the outcome of adjudicating an order.
type OrderResult int

const (
	ResultSucceeded OrderResult = iota // Order carried out
	ResultFailed                       // Convoy failed, or build/disband beyond the allowance
	ResultDislodged                    // Unit was dislodged
	ResultBounced                      // Move bounced against equal-or-greater strength
	ResultCut                          // Support was cut
	ResultVoid                         // Order was structurally invalid, treated as hold
)

func (r OrderResult) String() string {
	switch r {
	case ResultSucceeded:
		return "succeeded"
	case ResultFailed:
		return "failed"
	case ResultDislodged:
		return "dislodged"
	case ResultBounced:
		return "bounced"
	case ResultCut:
		return "cut"
	case ResultVoid:
		return "void"
	default:
		return "unknown"
	}
}

// ResolvedOrder pairs an order with its adjudication result and, for
// non-succeeding results, a short explanatory reason (§7 order-level
// failure semantics: never throws, always a record).
type ResolvedOrder struct {
	Order  Order
	Result OrderResult
	Reason string
}

// Describe returns a human-readable (non-canonical) description, used in
// error messages. Canonical textual rendering for the recommended-orders
// output lives in format.go.
func (o *Order) Describe() string {
	unitStr := "A"
	if o.UnitType == Fleet {
		unitStr = "F"
	}
	loc := o.Location
	if o.Coast != NoCoast {
		loc += "/" + string(o.Coast)
	}

	switch o.Type {
	case OrderHold:
		return fmt.Sprintf("%s %s Hold", unitStr, loc)
	case OrderMove:
		target := o.Target
		if o.TargetCoast != NoCoast {
			target += "/" + string(o.TargetCoast)
		}
		via := ""
		if o.ViaConvoy {
			via = " via convoy"
		}
		return fmt.Sprintf("%s %s -> %s%s", unitStr, loc, target, via)
	case OrderSupport:
		auxUnit := "A"
		if o.AuxUnitType == Fleet {
			auxUnit = "F"
		}
		if o.AuxTarget == "" {
			return fmt.Sprintf("%s %s S %s %s Hold", unitStr, loc, auxUnit, o.AuxLoc)
		}
		return fmt.Sprintf("%s %s S %s %s -> %s", unitStr, loc, auxUnit, o.AuxLoc, o.AuxTarget)
	case OrderConvoy:
		return fmt.Sprintf("%s %s C A %s -> %s", unitStr, loc, o.AuxLoc, o.AuxTarget)
	case OrderRetreat:
		return fmt.Sprintf("%s %s R %s", unitStr, loc, o.Target)
	case OrderDisband:
		return fmt.Sprintf("%s %s D", unitStr, loc)
	case OrderBuild:
		return fmt.Sprintf("Build %s %s", unitStr, loc)
	case OrderWaive:
		return fmt.Sprintf("%s Waive", o.Power)
	default:
		return fmt.Sprintf("%s %s ???", unitStr, loc)
	}
}
