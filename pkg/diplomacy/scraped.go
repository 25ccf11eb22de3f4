package diplomacy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FTWinston/Stabalyzer/pkg/scrape"
)

// FromScraped builds a GameState from the scraper's parsed payload,
// applying the power-name normalization described in §6. Region tags are
// already normalized by the scrape package; this only resolves power
// names and turn descriptors.
func FromScraped(s *scrape.ScrapedState, m *DiplomacyMap) (*GameState, error) {
	year, season, phase, err := parseTurn(s.Turn)
	if err != nil {
		return nil, parseError(fmt.Errorf("scraped turn %q: %w", s.Turn, err))
	}

	gs := &GameState{
		Year:          year,
		Season:        season,
		Phase:         phase,
		SupplyCenters: make(map[string]Power, len(s.Owners)),
	}

	for region, ownerName := range s.Owners {
		power, ok := ParsePower(ownerName)
		if !ok {
			return nil, parseError(fmt.Errorf("scraped owner %q for region %q: unknown power", ownerName, region))
		}
		gs.SupplyCenters[region] = power
	}

	for powerName, regions := range s.Units {
		power, ok := ParsePower(powerName)
		if !ok {
			return nil, parseError(fmt.Errorf("scraped unit owner %q: unknown power", powerName))
		}
		for region, entry := range regions {
			unitType, err := parseUnitKind(entry.Kind)
			if err != nil {
				return nil, parseError(fmt.Errorf("scraped unit at %q: %w", region, err))
			}
			gs.Units = append(gs.Units, Unit{
				Type:     unitType,
				Power:    power,
				Province: region,
				Coast:    Coast(strings.ToLower(entry.Coast)),
			})
		}
	}

	return gs, nil
}

// parseError wraps a FromScraped failure as a *scrape.ScrapeError so it
// carries the same Kind() as a fetch failure: both are "this scraped
// payload can't be used," just caught at different stages.
func parseError(err error) error {
	return &scrape.ScrapeError{Op: "parse", Err: err}
}

func parseUnitKind(kind string) (UnitType, error) {
	switch strings.ToUpper(kind) {
	case "A":
		return Army, nil
	case "F":
		return Fleet, nil
	default:
		return Army, fmt.Errorf("unrecognized unit kind %q", kind)
	}
}

// parseTurn parses a turn descriptor of the form "Spring 1901 Movement"
// (case-insensitive) into its Year/Season/Phase components.
func parseTurn(turn string) (int, Season, PhaseType, error) {
	fields := strings.Fields(turn)
	if len(fields) != 3 {
		return 0, "", "", fmt.Errorf("expected \"<season> <year> <phase>\"")
	}

	var season Season
	switch strings.ToLower(fields[0]) {
	case "spring":
		season = Spring
	case "fall", "autumn":
		season = Fall
	default:
		return 0, "", "", fmt.Errorf("unrecognized season %q", fields[0])
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, "", "", fmt.Errorf("unrecognized year %q", fields[1])
	}

	var phase PhaseType
	switch strings.ToLower(fields[2]) {
	case "movement", "move", "orders":
		phase = PhaseMovement
	case "retreat", "retreats":
		phase = PhaseRetreat
	case "build", "builds", "adjustment", "adjustments":
		phase = PhaseBuild
	default:
		return 0, "", "", fmt.Errorf("unrecognized phase %q", fields[2])
	}

	return year, season, phase, nil
}
