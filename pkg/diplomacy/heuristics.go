package diplomacy

import "sync"

// distMatrix holds pre-computed shortest move distances between all
// province pairs, built once per map via BFS from each province.
type distMatrix struct {
	provIndex map[string]int
	provNames []string
	dist      []int16 // flat [i*n + j]; -1 = unreachable
	n         int
	scIndices []int
}

var (
	stdDistMatrix      *distMatrix
	distOnce           sync.Once
	stdFleetDistMatrix *distMatrix
	fleetDistOnce      sync.Once
)

func getDistMatrix(m *DiplomacyMap) *distMatrix {
	distOnce.Do(func() { stdDistMatrix = buildDistMatrix(m, false) })
	return stdDistMatrix
}

func getFleetDistMatrix(m *DiplomacyMap) *distMatrix {
	fleetDistOnce.Do(func() { stdFleetDistMatrix = buildDistMatrix(m, true) })
	return stdFleetDistMatrix
}

func buildDistMatrix(m *DiplomacyMap, isFleet bool) *distMatrix {
	idx := make(map[string]int, len(m.Provinces))
	names := make([]string, 0, len(m.Provinces))
	for id := range m.Provinces {
		idx[id] = len(names)
		names = append(names, id)
	}
	n := len(names)

	dist := make([]int16, n*n)
	for i := range dist {
		dist[i] = -1
	}
	for i := 0; i < n; i++ {
		dist[i*n+i] = 0
	}

	type item struct {
		idx  int
		dist int16
	}
	for src := 0; src < n; src++ {
		queue := []item{{src, 0}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, adj := range m.Adjacencies[names[cur.idx]] {
				ok := adj.ArmyOK
				if isFleet {
					ok = adj.FleetOK
				}
				if !ok {
					continue
				}
				di, found := idx[adj.To]
				if !found {
					continue
				}
				if dist[src*n+di] == -1 {
					dist[src*n+di] = cur.dist + 1
					queue = append(queue, item{di, cur.dist + 1})
				}
			}
		}
	}

	var scIdx []int
	for id, prov := range m.Provinces {
		if prov.IsSupplyCenter {
			scIdx = append(scIdx, idx[id])
		}
	}

	return &distMatrix{provIndex: idx, provNames: names, dist: dist, n: n, scIndices: scIdx}
}

func (dm *distMatrix) Distance(from, to string) int {
	fi, ok1 := dm.provIndex[from]
	ti, ok2 := dm.provIndex[to]
	if !ok1 || !ok2 {
		return -1
	}
	return int(dm.dist[fi*dm.n+ti])
}

// BFSDistance returns the shortest army-move path length between two provinces.
func BFSDistance(from, to string, m *DiplomacyMap) int {
	return getDistMatrix(m).Distance(from, to)
}

// FleetBFSDistance returns the shortest fleet-move path length between two provinces.
func FleetBFSDistance(from, to string, m *DiplomacyMap) int {
	return getFleetDistMatrix(m).Distance(from, to)
}

// UnitBFSDistance dispatches to the army or fleet distance matrix.
func UnitBFSDistance(from, to string, m *DiplomacyMap, isFleet bool) int {
	if isFleet {
		return FleetBFSDistance(from, to, m)
	}
	return BFSDistance(from, to, m)
}

// NearestUnownedSC finds the closest supply center power doesn't own, using
// the army or fleet distance matrix per isFleet.
func NearestUnownedSC(province string, power Power, gs *GameState, m *DiplomacyMap, isFleet bool) (string, int) {
	var dm *distMatrix
	if isFleet {
		dm = getFleetDistMatrix(m)
	} else {
		dm = getDistMatrix(m)
	}
	pi, ok := dm.provIndex[province]
	if !ok {
		return "", -1
	}

	bestDist := int16(-1)
	bestIdx := -1
	for _, sci := range dm.scIndices {
		if gs.SupplyCenters[dm.provNames[sci]] == power {
			continue
		}
		d := dm.dist[pi*dm.n+sci]
		if d < 0 {
			continue
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestIdx = sci
		}
	}
	if bestIdx < 0 {
		return "", -1
	}
	return dm.provNames[bestIdx], int(bestDist)
}

func unitCanReach(u Unit, target string, m *DiplomacyMap) bool {
	isFleet := u.Type == Fleet
	for _, adj := range m.Adjacencies[u.Province] {
		if adj.To != target {
			continue
		}
		if isFleet && !adj.FleetOK {
			continue
		}
		if !isFleet && !adj.ArmyOK {
			continue
		}
		if u.Coast != NoCoast && adj.FromCoast != NoCoast && adj.FromCoast != u.Coast {
			continue
		}
		return true
	}
	return false
}

// ProvinceThreat counts enemy units of the opposing coalition that can reach
// province in one move.
func ProvinceThreat(province string, coalition Coalition, gs *GameState, m *DiplomacyMap) int {
	count := 0
	for _, u := range gs.Units {
		if coalition.Contains(u.Power) {
			continue
		}
		if unitCanReach(u, province, m) {
			count++
		}
	}
	return count
}

// ProvinceDefense counts coalition units (other than one already there) that
// can reach province in one move.
func ProvinceDefense(province string, coalition Coalition, gs *GameState, m *DiplomacyMap) int {
	count := 0
	for _, u := range gs.Units {
		if !coalition.Contains(u.Power) || u.Province == province {
			continue
		}
		if unitCanReach(u, province, m) {
			count++
		}
	}
	return count
}

// ProvinceConnectivity returns the number of neighbors accessible to
// the given unit type.
func ProvinceConnectivity(province string, m *DiplomacyMap, isFleet bool) int {
	adjs := m.Adjacencies[province]
	count := 0
	for i, adj := range adjs {
		ok := (isFleet && adj.FleetOK) || (!isFleet && adj.ArmyOK)
		if !ok {
			continue
		}
		dup := false
		for j := 0; j < i; j++ {
			if adjs[j].To == adj.To {
				okJ := (isFleet && adjs[j].FleetOK) || (!isFleet && adjs[j].ArmyOK)
				if okJ {
					dup = true
					break
				}
			}
		}
		if !dup {
			count++
		}
	}
	return count
}
