package store

import (
	"fmt"
	"math"
	"time"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/simulator"
	"github.com/google/uuid"
)

const maxNotifications = 50

// Env holds everything the reducer needs from outside: clock, id sources,
// seed and the period comparison strategy.
type Env struct {
	Seed              int64
	SeriesDays        int
	Comparison        analytics.PeriodComparison
	Now               func() time.Time
	NewItemID         func() string
	NewNotificationID func() string
}

func (e Env) withDefaults() Env {
	if e.SeriesDays <= 0 {
		e.SeriesDays = models.DefaultSeriesDays
	}
	if e.Comparison == nil {
		e.Comparison = analytics.PlaceholderComparison{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.NewItemID == nil {
		e.NewItemID = analytics.NewItemID
	}
	if e.NewNotificationID == nil {
		e.NewNotificationID = uuid.NewString
	}
	return e
}

type Action interface {
	isAction()
}

type AddItem struct{ Raw models.RawMenuItem }

type UpdateItem struct {
	ID    string
	Patch models.MenuItemPatch
}

type DeleteItem struct{ ID string }

type ReplaceAll struct{ Raw []models.RawMenuItem }

type ResetAll struct{}

type ImplementRecommendation struct{ ID string }

type SetRecommendations struct{ Recommendations []models.Recommendation }

type AddNotification struct {
	Type    models.NotificationType
	Title   string
	Message string
}

type MarkNotificationRead struct{ ID string }

type MarkAllNotificationsRead struct{}

func (AddItem) isAction()                  {}
func (UpdateItem) isAction()               {}
func (DeleteItem) isAction()               {}
func (ReplaceAll) isAction()               {}
func (ResetAll) isAction()                 {}
func (ImplementRecommendation) isAction()  {}
func (SetRecommendations) isAction()       {}
func (AddNotification) isAction()          {}
func (MarkNotificationRead) isAction()     {}
func (MarkAllNotificationsRead) isAction() {}

// Effect describes what a reduction did.
type Effect struct {
	Event   string
	Subject string
	Item    *models.MenuItem
	// Applied is false when a recommendation was discarded without changing
	// any menu item.
	Applied bool
}

// Reduce returns the state that results from applying action to state. It
// never modifies state. Every action that touches menu items recomputes all
// derived collections before returning.
func Reduce(state State, action Action, env Env) (State, Effect, error) {
	env = env.withDefaults()
	next := state.Clone()

	switch a := action.(type) {
	case AddItem:
		rng := simulator.NewContentRand(env.Seed, []models.RawMenuItem{a.Raw})
		item := analytics.DeriveItem(env.NewItemID(), a.Raw, rng)
		next.MenuItems = append(next.MenuItems, item)
		return recompute(next, env), Effect{Event: models.EventItemAdded, Subject: item.ID, Item: &item, Applied: true}, nil

	case UpdateItem:
		i := next.findItem(a.ID)
		if i < 0 {
			return state, Effect{}, fmt.Errorf("%w: %s", models.ErrItemNotFound, a.ID)
		}
		next.MenuItems[i] = analytics.ApplyPatch(next.MenuItems[i], a.Patch)
		item := next.MenuItems[i]
		return recompute(next, env), Effect{Event: models.EventItemUpdated, Subject: item.ID, Item: &item, Applied: true}, nil

	case DeleteItem:
		i := next.findItem(a.ID)
		if i < 0 {
			return state, Effect{}, fmt.Errorf("%w: %s", models.ErrItemNotFound, a.ID)
		}
		next.MenuItems = append(next.MenuItems[:i], next.MenuItems[i+1:]...)
		return recompute(next, env), Effect{Event: models.EventItemDeleted, Subject: a.ID, Applied: true}, nil

	case ReplaceAll:
		rng := simulator.NewContentRand(env.Seed, a.Raw)
		items := make([]models.MenuItem, 0, len(a.Raw))
		for _, raw := range a.Raw {
			items = append(items, analytics.DeriveItem(env.NewItemID(), raw, rng))
		}
		next.MenuItems = items
		return recompute(next, env), Effect{Event: models.EventMenuReplaced, Applied: true}, nil

	case ResetAll:
		return EmptyState(), Effect{Event: models.EventStateReset, Applied: true}, nil

	case ImplementRecommendation:
		return implementRecommendation(next, state, a.ID, env)

	case SetRecommendations:
		next.Recommendations = cloneSlice(a.Recommendations)
		return recompute(next, env), Effect{Event: models.EventRecommendationsRefreshed, Applied: true}, nil

	case AddNotification:
		n := models.Notification{
			ID:        env.NewNotificationID(),
			Title:     a.Title,
			Message:   a.Message,
			Type:      a.Type,
			Timestamp: env.Now().UTC(),
		}
		next.Notifications = append([]models.Notification{n}, next.Notifications...)
		if len(next.Notifications) > maxNotifications {
			next.Notifications = next.Notifications[:maxNotifications]
		}
		return next, Effect{Event: models.EventNotificationAdded, Subject: n.ID, Applied: true}, nil

	case MarkNotificationRead:
		for i := range next.Notifications {
			if next.Notifications[i].ID == a.ID {
				next.Notifications[i].Read = true
				return next, Effect{Event: models.EventNotificationsRead, Subject: a.ID, Applied: true}, nil
			}
		}
		return state, Effect{}, fmt.Errorf("%w: %s", models.ErrNotificationNotFound, a.ID)

	case MarkAllNotificationsRead:
		for i := range next.Notifications {
			next.Notifications[i].Read = true
		}
		return next, Effect{Event: models.EventNotificationsRead, Applied: true}, nil

	default:
		return state, Effect{}, fmt.Errorf("unknown action %T", action)
	}
}

func implementRecommendation(next, prev State, id string, env Env) (State, Effect, error) {
	ri := next.findRecommendation(id)
	if ri < 0 {
		return prev, Effect{}, fmt.Errorf("%w: %s", models.ErrRecommendationNotFound, id)
	}
	rec := next.Recommendations[ri]
	next.Recommendations = append(next.Recommendations[:ri], next.Recommendations[ri+1:]...)
	effect := Effect{Event: models.EventRecommendationApplied, Subject: rec.ID}

	// bundles only retire the recommendation
	if !rec.Type.NeedsItem() {
		return next, effect, nil
	}
	if rec.ItemName == "" {
		return prev, Effect{}, fmt.Errorf("%w: %s recommendation %s names no item", models.ErrItemNotFound, rec.Type, rec.ID)
	}

	i := next.findItemByName(rec.ItemName)
	if i < 0 {
		return prev, Effect{}, fmt.Errorf("%w: %q referenced by recommendation %s", models.ErrItemNotFound, rec.ItemName, rec.ID)
	}

	switch rec.Type {
	case models.RecommendationRemove:
		next.MenuItems = append(next.MenuItems[:i], next.MenuItems[i+1:]...)
	case models.RecommendationPriceAdjust:
		item := next.MenuItems[i]
		item.Price = analytics.Round2(item.Price * 1.1)
		next.MenuItems[i] = analytics.Recalculate(item)
	case models.RecommendationPromote:
		item := next.MenuItems[i]
		item.SalesCount = int(math.Floor(float64(item.SalesCount) * 1.2))
		next.MenuItems[i] = analytics.Recalculate(item)
	}
	effect.Applied = true
	return recompute(next, env), effect, nil
}

// recompute rebuilds every derived collection from the menu items. Random
// draws are seeded from the menu content, so the same menu on the same day
// always produces the same derived data.
func recompute(s State, env Env) State {
	raws := make([]models.RawMenuItem, len(s.MenuItems))
	for i, item := range s.MenuItems {
		raws[i] = item.Raw()
	}
	rng := simulator.NewContentRand(env.Seed, raws)
	now := env.Now()

	s.RevenueData = simulator.GenerateRevenueSeries(s.MenuItems, now, env.SeriesDays, rng)
	s.DashboardStats = analytics.CalculateDashboardStats(s.MenuItems, s.RevenueData, env.Comparison, rng)
	s.CategoryData = analytics.CalculateCategoryData(s.MenuItems)
	s.WasteData = analytics.CalculateWasteData(s.MenuItems)
	s.RevenueProvenance = models.ProvenanceNone
	if len(s.RevenueData) > 0 {
		s.RevenueProvenance = models.ProvenanceEstimated
	}
	s.LastUpdated = now.UTC()
	return s
}
