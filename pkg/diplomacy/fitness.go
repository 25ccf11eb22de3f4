package diplomacy

// WinKind classifies how a terminal win was achieved.
type WinKind int

const (
	NoWin WinKind = iota
	WinDomination
	WinElimination
)

// Coalition is an ordered non-empty set of powers evaluated together,
// plus a display name for result printouts.
type Coalition struct {
	Name   string
	Powers []Power
}

// Contains reports whether power is a member of the coalition.
func (c Coalition) Contains(power Power) bool {
	for _, p := range c.Powers {
		if p == power {
			return true
		}
	}
	return false
}

// PriorityAction is one half of a user-supplied score adjustment.
type PriorityAction int

const (
	PriorityDeny PriorityAction = iota
	PriorityAllow
)

// Priority ties a fitness adjustment to a specific power occupying a
// specific region: Deny subtracts 1000 if that power occupies the
// region, Allow adds 1000.
type Priority struct {
	Action PriorityAction
	Power  Power
	Region string
}

// Fitness is the scalar evaluation of a state for a coalition.
type Fitness struct {
	SupplyCenters int
	Units         int
	Score         int
	Win           bool
	WinKind       WinKind
	LostTerminal  bool // a non-coalition power reached a terminal win
}

// terminalWinScore is the clamp applied to any terminal-win fitness.
const terminalWinScore = 999999

// soloVictoryThreshold is the supply-center count that ends the game.
const soloVictoryThreshold = 18

// Evaluate scores gs for coalition, applying the optional priority
// adjustments. Pure function: no mutation, no I/O.
func Evaluate(gs *GameState, coalition Coalition, priorities []Priority) Fitness {
	for _, power := range AllPowers() {
		if gs.SupplyCenterCount(power) >= soloVictoryThreshold {
			if coalition.Contains(power) {
				return Fitness{
					SupplyCenters: gs.SupplyCenterCount(power),
					Units:         gs.UnitCount(power),
					Score:         terminalWinScore,
					Win:           true,
					WinKind:       WinDomination,
				}
			}
			return Fitness{Score: 0, LostTerminal: true, WinKind: WinDomination}
		}
	}

	allEliminated := true
	for _, power := range AllPowers() {
		if coalition.Contains(power) {
			continue
		}
		if gs.PowerIsAlive(power) {
			allEliminated = false
			break
		}
	}
	if allEliminated {
		return Fitness{
			SupplyCenters: coalitionSupplyCenters(gs, coalition),
			Units:         coalitionUnits(gs, coalition),
			Score:         terminalWinScore,
			Win:           true,
			WinKind:       WinElimination,
		}
	}

	sc := coalitionSupplyCenters(gs, coalition)
	units := coalitionUnits(gs, coalition)
	score := sc*1000 + units

	for _, pr := range priorities {
		occupied := gs.UnitAt(pr.Region) != nil && gs.UnitAt(pr.Region).Power == pr.Power
		if !occupied {
			continue
		}
		switch pr.Action {
		case PriorityAllow:
			score += 1000
		case PriorityDeny:
			score -= 1000
		}
	}

	return Fitness{SupplyCenters: sc, Units: units, Score: score}
}

func coalitionSupplyCenters(gs *GameState, coalition Coalition) int {
	count := 0
	for _, p := range coalition.Powers {
		count += gs.SupplyCenterCount(p)
	}
	return count
}

func coalitionUnits(gs *GameState, coalition Coalition) int {
	count := 0
	for _, p := range coalition.Powers {
		count += gs.UnitCount(p)
	}
	return count
}

// NormalizedScore maps a raw score to [0, 1] for rollout backpropagation
// (§4.F simulation): the board holds at most 34 supply centers and 34
// units total, so 34*1000 + 34 is the maximum attainable non-terminal
// score. Terminal wins map to 1.
func NormalizedScore(f Fitness) float64 {
	if f.Win {
		return 1
	}
	if f.LostTerminal {
		return 0
	}
	const max = 34*1000 + 34
	v := float64(f.Score) / float64(max)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
