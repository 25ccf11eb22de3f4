package diplomacy

import "testing"

// Hash must not depend on unit slice order: it's an XOR accumulator.
func TestHash_OrderIndependent(t *testing.T) {
	m := StandardMap()
	a := stateWith(Unit{Army, France, "par", NoCoast}, Unit{Army, Germany, "mun", NoCoast})
	b := stateWith(Unit{Army, Germany, "mun", NoCoast}, Unit{Army, France, "par", NoCoast})

	if a.Hash(m) != b.Hash(m) {
		t.Error("hash must be independent of Units slice order")
	}
}

// Advancing the turn descriptor alone (same units/SCs) changes the hash.
func TestHash_SensitiveToTurnDescriptor(t *testing.T) {
	m := StandardMap()
	a := stateWith(Unit{Army, France, "par", NoCoast})
	b := stateWith(Unit{Army, France, "par", NoCoast})
	b.Season = Fall

	if a.Hash(m) == b.Hash(m) {
		t.Error("changing season should (almost certainly) change the hash")
	}
}

// Supply-center ownership is hashed independently of unit placement.
func TestHash_SensitiveToSupplyCenterOwnership(t *testing.T) {
	m := StandardMap()
	a := stateWith()
	a.SupplyCenters = map[string]Power{"par": France}
	b := stateWith()
	b.SupplyCenters = map[string]Power{"par": Germany}

	if a.Hash(m) == b.Hash(m) {
		t.Error("changing supply center ownership should (almost certainly) change the hash")
	}
}

// Hash is deterministic across repeated calls and process-stable via the
// fixed zobristSeed, per the seeded-determinism testable property.
func TestHash_DeterministicAcrossCalls(t *testing.T) {
	m := StandardMap()
	gs := stateWith(Unit{Army, England, "lon", NoCoast})

	first := gs.Hash(m)
	for i := 0; i < 5; i++ {
		if gs.Hash(m) != first {
			t.Fatal("Hash must return the same value on repeated calls for an unchanged state")
		}
	}
}
