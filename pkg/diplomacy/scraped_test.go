package diplomacy

import (
	"testing"

	"github.com/FTWinston/Stabalyzer/pkg/scrape"
)

func TestFromScraped_ParsesTurnOwnersAndUnits(t *testing.T) {
	m := StandardMap()
	scraped := &scrape.ScrapedState{
		GameID: "g1",
		Turn:   "Spring 1901 Movement",
		Owners: map[string]string{"par": "France", "mun": "Germany"},
		Units: map[string]map[string]scrape.UnitEntry{
			"France":  {"par": {Kind: "A"}},
			"England": {"lon": {Kind: "F", Coast: ""}},
		},
	}

	gs, err := FromScraped(scraped, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Year != 1901 || gs.Season != Spring || gs.Phase != PhaseMovement {
		t.Fatalf("unexpected turn descriptor: %d %v %v", gs.Year, gs.Season, gs.Phase)
	}
	if gs.SupplyCenters["par"] != France || gs.SupplyCenters["mun"] != Germany {
		t.Fatalf("unexpected supply center ownership: %+v", gs.SupplyCenters)
	}
	if len(gs.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(gs.Units))
	}
}

func TestFromScraped_AustriaHungaryAliasResolves(t *testing.T) {
	m := StandardMap()
	scraped := &scrape.ScrapedState{
		Turn:   "Fall 1902 Retreat",
		Owners: map[string]string{"vie": "Austria-Hungary"},
	}

	gs, err := FromScraped(scraped, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.SupplyCenters["vie"] != Austria {
		t.Errorf("expected Austria-Hungary to resolve to Austria, got %v", gs.SupplyCenters["vie"])
	}
}

func TestFromScraped_UnknownPowerIsError(t *testing.T) {
	m := StandardMap()
	scraped := &scrape.ScrapedState{
		Turn:   "Spring 1901 Movement",
		Owners: map[string]string{"par": "Atlantis"},
	}

	if _, err := FromScraped(scraped, m); err == nil {
		t.Error("expected an error for an unknown scraped power name")
	}
}

func TestFromScraped_UnknownUnitKindIsError(t *testing.T) {
	m := StandardMap()
	scraped := &scrape.ScrapedState{
		Turn: "Spring 1901 Movement",
		Units: map[string]map[string]scrape.UnitEntry{
			"France": {"par": {Kind: "X"}},
		},
	}

	if _, err := FromScraped(scraped, m); err == nil {
		t.Error("expected an error for an unrecognized unit kind")
	}
}

func TestFromScraped_MalformedTurnIsError(t *testing.T) {
	m := StandardMap()
	scraped := &scrape.ScrapedState{Turn: "garbage"}

	if _, err := FromScraped(scraped, m); err == nil {
		t.Error("expected an error for a malformed turn descriptor")
	}
}

func TestFromScraped_PhaseAliasesResolve(t *testing.T) {
	m := StandardMap()
	for _, phaseWord := range []string{"movement", "move", "orders"} {
		scraped := &scrape.ScrapedState{Turn: "Spring 1901 " + phaseWord}
		gs, err := FromScraped(scraped, m)
		if err != nil || gs.Phase != PhaseMovement {
			t.Errorf("phase alias %q: expected PhaseMovement, got %v (err %v)", phaseWord, gs, err)
		}
	}
}
