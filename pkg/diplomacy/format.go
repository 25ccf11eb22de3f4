package diplomacy

import (
	"strings"
)

// displayRegion renders a region per §6's convention: sea regions
// UPPERCASE, land/coastal/bicoastal regions Title Case, with an optional
// lowercase coast suffix after a slash.
func displayRegion(m *DiplomacyMap, region string, coast Coast) string {
	name := region
	if p, ok := m.Provinces[region]; ok {
		name = p.Name
		if p.Type == Sea {
			name = strings.ToUpper(name)
		}
	}
	if coast != NoCoast {
		name += "/" + strings.ToLower(string(coast))
	}
	return name
}

func unitLetter(u UnitType) string {
	if u == Fleet {
		return "F"
	}
	return "A"
}

// FormatOrder renders an Order in the exact textual form of §6, one line
// per order, for the recommended-orders output.
func FormatOrder(o Order, m *DiplomacyMap) string {
	loc := displayRegion(m, o.Location, o.Coast)
	u := unitLetter(o.UnitType)

	switch o.Type {
	case OrderHold:
		return u + " " + loc + " H"
	case OrderMove:
		dest := displayRegion(m, o.Target, o.TargetCoast)
		line := u + " " + loc + " - " + dest
		if o.ViaConvoy {
			line += " via convoy"
		}
		return line
	case OrderSupport:
		supported := displayRegion(m, o.AuxLoc, NoCoast)
		if o.AuxTarget == "" {
			return u + " " + loc + " S " + supported
		}
		dest := displayRegion(m, o.AuxTarget, NoCoast)
		return u + " " + loc + " S " + supported + " - " + dest
	case OrderConvoy:
		army := displayRegion(m, o.AuxLoc, NoCoast)
		dest := displayRegion(m, o.AuxTarget, NoCoast)
		return "F " + loc + " C " + army + " - " + dest
	case OrderRetreat:
		dest := displayRegion(m, o.Target, o.TargetCoast)
		return u + " " + loc + " R " + dest
	case OrderDisband:
		return u + " " + loc + " D"
	case OrderBuild:
		return "Build " + u + " " + loc
	case OrderWaive:
		return string(o.Power) + " Waive"
	default:
		return u + " " + loc + " ???"
	}
}
