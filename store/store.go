package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"sicksense-cli/locator"
	"sicksense-cli/model"
)

const (
	appDir            = "sicksense-cli"
	catalogCacheTTL   = 24 * time.Hour
	symptomCacheTTL   = 24 * time.Hour
	maxRecentLocation = 8
)

// clock is swapped in tests to age cache entries.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type selectionHistory struct {
	Selections []locator.Selection `json:"selections"`
}

// LoadCatalogCache returns the cached catalog and whether it is still fresh.
func LoadCatalogCache() ([]model.Location, bool, error) {
	path, err := cachePath("locations.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Location](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, fresh(cache.UpdatedAt, catalogCacheTTL), nil
}

func SaveCatalogCache(locations []model.Location) error {
	path, err := cachePath("locations.json")
	if err != nil {
		return err
	}
	return saveCache(path, locations)
}

func LoadSymptomCache() ([]model.Symptom, bool, error) {
	path, err := cachePath("symptoms.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Symptom](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, fresh(cache.UpdatedAt, symptomCacheTTL), nil
}

func SaveSymptomCache(symptoms []model.Symptom) error {
	path, err := cachePath("symptoms.json")
	if err != nil {
		return err
	}
	return saveCache(path, symptoms)
}

// LoadRecentSelections returns remembered seats, most recent first.
func LoadRecentSelections() ([]locator.Selection, error) {
	path, err := ConfigPath("recent_locations.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history selectionHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid location history format")
	}
	return history.Selections, nil
}

// RememberSelection records a valid selection at the front of the history.
func RememberSelection(sel locator.Selection) error {
	if !sel.Valid() {
		return errors.New("only resolved seats can be remembered")
	}
	history, _ := LoadRecentSelections()
	next := []locator.Selection{sel}
	for _, existing := range history {
		if existing.SeatID == sel.SeatID {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentLocation {
			break
		}
	}

	path, err := ConfigPath("recent_locations.json")
	if err != nil {
		return err
	}
	return writeJSON(path, selectionHistory{Selections: next})
}

// ConfigDir is the per-user directory for settings and the session file.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

func ConfigPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func fresh(updatedAt time.Time, ttl time.Duration) bool {
	if updatedAt.IsZero() {
		return false
	}
	return clock.Since(updatedAt) <= ttl
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	return writeJSON(path, cacheEnvelope[T]{
		UpdatedAt: clock.Now(),
		Data:      data,
	})
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// MatchRecent returns the first remembered selection whose building matches
// name, ignoring case.
func MatchRecent(recents []locator.Selection, building string) (locator.Selection, bool) {
	building = strings.TrimSpace(building)
	for _, sel := range recents {
		if building == "" || strings.EqualFold(sel.Building, building) {
			return sel, true
		}
	}
	return locator.Selection{}, false
}
