package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/repositories"
)

// LoadReport lists the keys that were absent or unreadable when a snapshot
// was loaded.
type LoadReport struct {
	Missing    []string
	Corrupt    []string
	Recomputed bool
}

// EncodeSnapshot serializes every snapshot key as JSON. lastUpdated is a
// quoted RFC 3339 string and is omitted while the state has never been
// updated.
func EncodeSnapshot(s State) (map[string][]byte, error) {
	s = normalize(s)
	values := map[string]any{
		models.KeyMenuItems:       s.MenuItems,
		models.KeyRecommendations: s.Recommendations,
		models.KeyDashboardStats:  s.DashboardStats,
		models.KeyRevenueData:     s.RevenueData,
		models.KeyCategoryData:    s.CategoryData,
		models.KeyWasteData:       s.WasteData,
		models.KeyNotifications:   s.Notifications,
	}
	entries := make(map[string][]byte, len(values)+1)
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		entries[key] = data
	}
	if !s.LastUpdated.IsZero() {
		data, err := json.Marshal(s.LastUpdated.UTC())
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", models.KeyLastUpdated, err)
		}
		entries[models.KeyLastUpdated] = data
	}
	return entries, nil
}

// LoadSnapshot reads every key from kv. A missing key falls back to its
// empty default; an unreadable one does the same and is logged.
//
// Backends write keys one at a time, so the stored derived collections may
// belong to an older menu. Whenever anything was stored, derived data is
// rebuilt from the menu items as of the stored lastUpdated; with the same seed
// this reproduces exactly what was persisted.
func LoadSnapshot(ctx context.Context, kv repositories.KeyValueStore, env Env) (State, LoadReport, error) {
	s := EmptyState()
	var report LoadReport

	targets := map[string]any{
		models.KeyMenuItems:       &s.MenuItems,
		models.KeyRecommendations: &s.Recommendations,
		models.KeyDashboardStats:  &s.DashboardStats,
		models.KeyRevenueData:     &s.RevenueData,
		models.KeyCategoryData:    &s.CategoryData,
		models.KeyWasteData:       &s.WasteData,
		models.KeyNotifications:   &s.Notifications,
	}

	for _, key := range models.SnapshotKeys {
		data, err := kv.Get(ctx, key)
		if errors.Is(err, repositories.ErrKeyNotFound) {
			report.Missing = append(report.Missing, key)
			continue
		}
		if err != nil {
			return EmptyState(), report, fmt.Errorf("%w: reading %s: %w", models.ErrPersistence, key, err)
		}

		if key == models.KeyLastUpdated {
			var ts time.Time
			if err := json.Unmarshal(data, &ts); err != nil {
				log.Printf("action: load | result: corrupt | key: %s | error: %v", key, err)
				report.Corrupt = append(report.Corrupt, key)
				continue
			}
			s.LastUpdated = ts
			continue
		}

		if err := json.Unmarshal(data, targets[key]); err != nil {
			log.Printf("action: load | result: corrupt | key: %s | error: %v", key, err)
			report.Corrupt = append(report.Corrupt, key)
			resetKey(&s, key)
		}
	}
	s = normalize(s)

	if len(report.Missing) == len(models.SnapshotKeys) {
		return s, report, nil
	}
	env = env.withDefaults()
	if stamp := s.LastUpdated; !stamp.IsZero() {
		env.Now = func() time.Time { return stamp }
	}
	s = recompute(s, env)
	report.Recomputed = true
	return s, report, nil
}

func resetKey(s *State, key string) {
	empty := EmptyState()
	switch key {
	case models.KeyMenuItems:
		s.MenuItems = empty.MenuItems
	case models.KeyRecommendations:
		s.Recommendations = empty.Recommendations
	case models.KeyDashboardStats:
		s.DashboardStats = empty.DashboardStats
	case models.KeyRevenueData:
		s.RevenueData = empty.RevenueData
	case models.KeyCategoryData:
		s.CategoryData = empty.CategoryData
	case models.KeyWasteData:
		s.WasteData = empty.WasteData
	case models.KeyNotifications:
		s.Notifications = empty.Notifications
	}
}

// normalize replaces nil collections with empty ones so they encode as [].
func normalize(s State) State {
	if s.MenuItems == nil {
		s.MenuItems = []models.MenuItem{}
	}
	if s.Recommendations == nil {
		s.Recommendations = []models.Recommendation{}
	}
	if s.RevenueData == nil {
		s.RevenueData = []models.RevenueDataPoint{}
	}
	if s.CategoryData == nil {
		s.CategoryData = []models.CategoryDatum{}
	}
	if s.WasteData == nil {
		s.WasteData = []models.WasteDatum{}
	}
	if s.Notifications == nil {
		s.Notifications = []models.Notification{}
	}
	s.RevenueProvenance = models.ProvenanceNone
	if len(s.RevenueData) > 0 {
		s.RevenueProvenance = models.ProvenanceEstimated
	}
	return s
}
