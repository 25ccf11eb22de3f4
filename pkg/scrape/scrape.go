// Package scrape fetches a Backstabbr-style game page and extracts its
// embedded JSON game-state payload, normalizing region tags and power
// names to the analyzer's own conventions.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/FTWinston/Stabalyzer/internal/apperr"
)

// fetchTimeout bounds a single scrape; there is no retry, consistent
// with "no persistence between invocations" (spec.md §4.I).
const fetchTimeout = 30 * time.Second

// ScrapeError wraps any failure to retrieve or parse a game page. The
// caller (the CLI) converts it straight to exit code 1 without ever
// handing it to the search core.
type ScrapeError struct {
	URL string
	Op  string // "fetch", "status", "extract", "decode"
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s (%s): %v", e.URL, e.Op, e.Err)
}

func (e *ScrapeError) Unwrap() error     { return e.Err }
func (e *ScrapeError) Kind() apperr.Kind { return apperr.KindScrape }

// UnitEntry is one unit in a power's region->unit mapping: either just a
// kind ("A"/"F") or, for a split-coast fleet, kind plus coast.
type UnitEntry struct {
	Kind  string // "A" or "F"
	Coast string // optional, fleets only
}

// ScrapedState is the embedded payload's shape per spec.md §6: game
// identifier, display name, turn descriptor, power->region->unit, and
// region->owner.
type ScrapedState struct {
	GameID      string
	DisplayName string
	Turn        string
	Units       map[string]map[string]UnitEntry // power name (as scraped) -> region tag -> unit
	Owners      map[string]string                // region tag -> power name
}

// regionAliases handles Backstabbr-specific region spellings that differ
// from the analyzer's canonical three-letter tags (spec.md §6).
var regionAliases = map[string]string{
	"nwy": "nor",
	"lyo": "gol",
	"tys": "tyn",
	"nao": "nat",
}

// NormalizeRegion lowercases a scraped region tag and applies the fixed
// alias table.
func NormalizeRegion(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if alias, ok := regionAliases[tag]; ok {
		return alias
	}
	return tag
}

// embeddedStateRe locates the JS variable assignment Backstabbr embeds
// the game state in, e.g. `var gameData = {...};`. Bounded and
// non-greedy: it captures up to the first `};` terminator, which is
// sufficient for the single top-level object this page embeds.
var embeddedStateRe = regexp.MustCompile(`(?s)var\s+gameData\s*=\s*(\{.*?\});`)

// rawPayload mirrors the embedded JSON's field names before
// normalization into ScrapedState.
type rawPayload struct {
	GameID string                        `json:"game_id"`
	Name   string                        `json:"name"`
	Turn   string                        `json:"turn"`
	Units  map[string]map[string]any     `json:"units"`
	Owners map[string]string             `json:"centers"`
}

// Fetch issues an HTTP GET against url, extracts the embedded JSON game
// state from the response body, and normalizes it into a ScrapedState.
func Fetch(ctx context.Context, url string) (*ScrapedState, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ScrapeError{URL: url, Op: "fetch", Err: err}
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &ScrapeError{URL: url, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ScrapeError{URL: url, Op: "status", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ScrapeError{URL: url, Op: "fetch", Err: err}
	}

	match := embeddedStateRe.FindSubmatch(body)
	if match == nil {
		return nil, &ScrapeError{URL: url, Op: "extract", Err: fmt.Errorf("no embedded game state found")}
	}

	var raw rawPayload
	if err := json.Unmarshal(match[1], &raw); err != nil {
		return nil, &ScrapeError{URL: url, Op: "decode", Err: err}
	}

	return normalize(&raw), nil
}

// normalize converts the raw decoded payload into a ScrapedState with
// lowercase, alias-resolved region tags.
func normalize(raw *rawPayload) *ScrapedState {
	state := &ScrapedState{
		GameID:      raw.GameID,
		DisplayName: raw.Name,
		Turn:        raw.Turn,
		Units:       make(map[string]map[string]UnitEntry, len(raw.Units)),
		Owners:      make(map[string]string, len(raw.Owners)),
	}

	for power, regions := range raw.Units {
		entries := make(map[string]UnitEntry, len(regions))
		for region, v := range regions {
			entries[NormalizeRegion(region)] = parseUnitEntry(v)
		}
		state.Units[power] = entries
	}

	for region, power := range raw.Owners {
		state.Owners[NormalizeRegion(region)] = power
	}

	return state
}

// parseUnitEntry accepts either a bare one-letter kind string or an
// object with "kind" and optional "coast" fields, per spec.md §6.
func parseUnitEntry(v any) UnitEntry {
	switch val := v.(type) {
	case string:
		return UnitEntry{Kind: strings.ToUpper(val)}
	case map[string]any:
		entry := UnitEntry{}
		if k, ok := val["kind"].(string); ok {
			entry.Kind = strings.ToUpper(k)
		}
		if c, ok := val["coast"].(string); ok {
			entry.Coast = strings.ToLower(c)
		}
		return entry
	default:
		return UnitEntry{}
	}
}
