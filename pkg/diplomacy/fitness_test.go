package diplomacy

import (
	"sort"
	"testing"
)

func TestEvaluate_DominationByCoalitionMemberIsWin(t *testing.T) {
	gs := stateWith()
	gs.SupplyCenters = make(map[string]Power)
	for i := 0; i < 18; i++ {
		gs.SupplyCenters[homeLikeRegion(i)] = France
	}
	coalition := Coalition{Name: "france", Powers: []Power{France}}

	f := Evaluate(gs, coalition, nil)
	if !f.Win || f.WinKind != WinDomination || f.Score != terminalWinScore {
		t.Fatalf("expected coalition domination win, got %+v", f)
	}
}

func TestEvaluate_DominationByOutsiderIsTerminalLoss(t *testing.T) {
	gs := stateWith()
	gs.SupplyCenters = make(map[string]Power)
	for i := 0; i < 18; i++ {
		gs.SupplyCenters[homeLikeRegion(i)] = Germany
	}
	coalition := Coalition{Name: "france", Powers: []Power{France}}

	f := Evaluate(gs, coalition, nil)
	if f.Win || !f.LostTerminal || f.Score != 0 {
		t.Fatalf("expected terminal loss when an outsider dominates, got %+v", f)
	}
}

func TestEvaluate_EliminatingAllOutsidersIsWin(t *testing.T) {
	gs := stateWith(Unit{Army, France, "par", NoCoast})
	gs.SupplyCenters = map[string]Power{"par": France}
	coalition := Coalition{Name: "france", Powers: []Power{France}}

	f := Evaluate(gs, coalition, nil)
	if !f.Win || f.WinKind != WinElimination {
		t.Fatalf("expected elimination win when every non-coalition power is dead, got %+v", f)
	}
}

func TestEvaluate_PriorityDenyAndAllowAdjustScore(t *testing.T) {
	gs := stateWith(Unit{Army, Germany, "mun", NoCoast}, Unit{Army, England, "lon", NoCoast})
	gs.SupplyCenters = map[string]Power{}
	coalition := Coalition{Name: "germany", Powers: []Power{Germany}}

	base := Evaluate(gs, coalition, nil)
	denied := Evaluate(gs, coalition, []Priority{{Action: PriorityDeny, Power: Germany, Region: "mun"}})
	if denied.Score != base.Score-1000 {
		t.Errorf("expected Deny to subtract 1000, base %d denied %d", base.Score, denied.Score)
	}

	allowed := Evaluate(gs, coalition, []Priority{{Action: PriorityAllow, Power: Germany, Region: "mun"}})
	if allowed.Score != base.Score+1000 {
		t.Errorf("expected Allow to add 1000, base %d allowed %d", base.Score, allowed.Score)
	}
}

func TestEvaluate_PriorityIgnoredWhenRegionNotOccupiedByNamedPower(t *testing.T) {
	gs := stateWith(Unit{Army, Germany, "mun", NoCoast})
	gs.SupplyCenters = map[string]Power{}
	coalition := Coalition{Name: "germany", Powers: []Power{Germany}}

	base := Evaluate(gs, coalition, nil)
	adjusted := Evaluate(gs, coalition, []Priority{{Action: PriorityDeny, Power: England, Region: "mun"}})
	if adjusted.Score != base.Score {
		t.Errorf("priority for a power not occupying the region must not adjust score: base %d, got %d", base.Score, adjusted.Score)
	}
}

func TestNormalizedScore_ClampsToUnitInterval(t *testing.T) {
	if v := NormalizedScore(Fitness{Win: true}); v != 1 {
		t.Errorf("win should normalize to 1, got %f", v)
	}
	if v := NormalizedScore(Fitness{LostTerminal: true}); v != 0 {
		t.Errorf("terminal loss should normalize to 0, got %f", v)
	}
	if v := NormalizedScore(Fitness{Score: 34*1000 + 34}); v != 1 {
		t.Errorf("max non-terminal score should normalize to 1, got %f", v)
	}
	if v := NormalizedScore(Fitness{Score: 0}); v != 0 {
		t.Errorf("zero score should normalize to 0, got %f", v)
	}
}

// homeLikeRegion returns one of the 34 distinct supply-center province IDs
// on the standard map in a stable order, used to synthesize an 18-center
// ownership set without depending on any particular power's actual home
// territory or on map-iteration order.
func homeLikeRegion(i int) string {
	m := StandardMap()
	ids := make([]string, 0, len(m.Provinces))
	for id, p := range m.Provinces {
		if p.IsSupplyCenter {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids[i%len(ids)]
}
