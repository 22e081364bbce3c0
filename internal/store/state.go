package store

import (
	"time"

	"github.com/chrisdamba/menusight/internal/models"
)

// State is one consistent snapshot of the store. Derived collections always
// correspond to MenuItems.
type State struct {
	MenuItems       []models.MenuItem         `json:"menuItems"`
	Recommendations []models.Recommendation   `json:"recommendations"`
	DashboardStats  models.DashboardStats     `json:"dashboardStats"`
	RevenueData     []models.RevenueDataPoint `json:"revenueData"`
	CategoryData    []models.CategoryDatum    `json:"categoryData"`
	WasteData       []models.WasteDatum       `json:"wasteData"`
	Notifications   []models.Notification     `json:"notifications"`
	LastUpdated     time.Time                 `json:"lastUpdated"`
	// RevenueProvenance is estimated whenever the series is non-empty; the
	// series is synthesized from totals, never measured.
	RevenueProvenance models.Provenance `json:"revenueProvenance"`
}

func EmptyState() State {
	return State{
		MenuItems:         []models.MenuItem{},
		Recommendations:   []models.Recommendation{},
		RevenueData:       []models.RevenueDataPoint{},
		CategoryData:      []models.CategoryDatum{},
		WasteData:         []models.WasteDatum{},
		Notifications:     []models.Notification{},
		RevenueProvenance: models.ProvenanceNone,
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.MenuItems = cloneSlice(s.MenuItems)
	s.Recommendations = cloneSlice(s.Recommendations)
	s.RevenueData = cloneSlice(s.RevenueData)
	s.CategoryData = cloneSlice(s.CategoryData)
	s.WasteData = cloneSlice(s.WasteData)
	s.Notifications = cloneSlice(s.Notifications)
	return s
}

func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func (s State) findItem(id string) int {
	for i, item := range s.MenuItems {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s State) findItemByName(name string) int {
	for i, item := range s.MenuItems {
		if item.Name == name {
			return i
		}
	}
	return -1
}

func (s State) findRecommendation(id string) int {
	for i, rec := range s.Recommendations {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// UnreadNotifications counts notifications not yet marked read.
func (s State) UnreadNotifications() int {
	n := 0
	for _, notification := range s.Notifications {
		if !notification.Read {
			n++
		}
	}
	return n
}
