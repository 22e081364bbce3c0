package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/llm"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/repositories"
	"github.com/chrisdamba/menusight/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

func testEnv() Env {
	var mu sync.Mutex
	next := 0
	counter := func(prefix string) func() string {
		return func() string {
			mu.Lock()
			defer mu.Unlock()
			next++
			return fmt.Sprintf("%s-%d", prefix, next)
		}
	}
	return Env{
		Seed:              42,
		Now:               func() time.Time { return fixedNow },
		NewItemID:         counter("item"),
		NewNotificationID: counter("note"),
	}
}

func ptr[T any](v T) *T { return &v }

func rawMenu() []models.RawMenuItem {
	return []models.RawMenuItem{
		{Name: "Burger", Category: "Mains", Cost: 4, Price: 12, SalesCount: 100, WastePercentage: ptr(18.0)},
		{Name: "Fries", Category: "Sides", Cost: 0.5, Price: 4, SalesCount: 250, WastePercentage: ptr(2.0)},
		{Name: "Soup", Cost: 2, Price: 6, SalesCount: 40},
	}
}

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.Env.Now == nil {
		opts.Env = testEnv()
	}
	s, err := New(context.Background(), opts)
	require.NoError(t, err)
	return s
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (r *recordingPublisher) Publish(event models.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type failingKV struct {
	repositories.KeyValueStore
}

func (failingKV) PutAll(context.Context, map[string][]byte) error { return errors.New("disk full") }

type stubAdvisor struct {
	name string
	recs []models.Recommendation
	err  error
}

func (a stubAdvisor) Name() string { return a.name }

func (a stubAdvisor) Recommend(context.Context, llm.AnalysisInput) ([]models.Recommendation, error) {
	return a.recs, a.err
}

func TestReduceLeavesInputUntouched(t *testing.T) {
	env := testEnv()
	state, _, err := Reduce(EmptyState(), ReplaceAll{Raw: rawMenu()}, env)
	require.NoError(t, err)
	before := state.Clone()

	_, _, err = Reduce(state, DeleteItem{ID: state.MenuItems[0].ID}, env)
	require.NoError(t, err)
	assert.Equal(t, before, state)
}

func TestAddItemDerivesFields(t *testing.T) {
	s := newTestStore(t, Options{})
	item, err := s.AddItem(context.Background(), models.RawMenuItem{Name: "Salad", Cost: 3, Price: 10, SalesCount: 20})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultCategory, item.Category)
	assert.InDelta(t, 200.0, item.Revenue, 1e-9)
	assert.InDelta(t, 70.0, item.Margin, 1e-9)
	assert.Equal(t, models.ProvenanceEstimated, item.WasteProvenance)
	assert.GreaterOrEqual(t, item.WastePercentage, 0.0)
	assert.Less(t, item.WastePercentage, 20.0)

	state := s.Snapshot()
	assert.Len(t, state.RevenueData, models.DefaultSeriesDays)
	assert.InDelta(t, 200.0, state.DashboardStats.TotalRevenue, 1e-9)
	assert.Equal(t, fixedNow, state.LastUpdated)
}

func TestAddItemRejectsInvalid(t *testing.T) {
	s := newTestStore(t, Options{})
	_, err := s.AddItem(context.Background(), models.RawMenuItem{Name: "Free", Cost: 1, Price: 0})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, s.Snapshot().MenuItems)
}

func TestReplaceAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	_, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)
	first := s.Snapshot()

	_, err = s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)
	second := s.Snapshot()

	assert.Equal(t, first.RevenueData, second.RevenueData)
	assert.Equal(t, first.DashboardStats, second.DashboardStats)
	assert.Equal(t, first.CategoryData, second.CategoryData)
	assert.Equal(t, first.WasteData, second.WasteData)
	assert.Equal(t, first.MenuItems[2].WastePercentage, second.MenuItems[2].WastePercentage)
	assert.NotEqual(t, first.MenuItems[0].ID, second.MenuItems[0].ID)
}

func TestReplaceAllKeepsRecommendations(t *testing.T) {
	ctx := context.Background()
	recs := []models.Recommendation{{ID: "r1", Type: models.RecommendationBundle, Title: "Combo"}}
	s := newTestStore(t, Options{Advisor: stubAdvisor{name: "stub", recs: recs}})
	_, err := s.RefreshAnalysis(ctx)
	require.NoError(t, err)

	_, err = s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)
	assert.Equal(t, recs, s.Snapshot().Recommendations)
}

func TestUpdateAndDeleteUnknownItem(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	_, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = s.UpdateItem(ctx, "missing", models.MenuItemPatch{Price: ptr(5.0)})
	require.ErrorIs(t, err, models.ErrItemNotFound)
	require.ErrorIs(t, s.DeleteItem(ctx, "missing"), models.ErrItemNotFound)
	assert.Equal(t, before, s.Snapshot())
}

func TestUpdateItemRecomputes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	items, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)

	updated, err := s.UpdateItem(ctx, items[0].ID, models.MenuItemPatch{SalesCount: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, updated.ID)
	assert.InDelta(t, 120.0, updated.Revenue, 1e-9)
	assert.InDelta(t, 120.0+1000+240, s.Snapshot().DashboardStats.TotalRevenue, 1e-9)
}

func TestImplementRecommendation(t *testing.T) {
	env := testEnv()
	base, _, err := Reduce(EmptyState(), ReplaceAll{Raw: rawMenu()}, env)
	require.NoError(t, err)

	withRec := func(rec models.Recommendation) State {
		s, _, err := Reduce(base, SetRecommendations{Recommendations: []models.Recommendation{rec}}, env)
		require.NoError(t, err)
		return s
	}

	t.Run("price adjust", func(t *testing.T) {
		s := withRec(models.Recommendation{ID: "r", Type: models.RecommendationPriceAdjust, ItemName: "Soup"})
		next, effect, err := Reduce(s, ImplementRecommendation{ID: "r"}, env)
		require.NoError(t, err)
		assert.True(t, effect.Applied)
		assert.InDelta(t, 6.6, next.MenuItems[2].Price, 1e-9)
		assert.InDelta(t, 264.0, next.MenuItems[2].Revenue, 1e-9)
		assert.Empty(t, next.Recommendations)
	})

	t.Run("promote", func(t *testing.T) {
		s := withRec(models.Recommendation{ID: "r", Type: models.RecommendationPromote, ItemName: "Burger"})
		next, _, err := Reduce(s, ImplementRecommendation{ID: "r"}, env)
		require.NoError(t, err)
		assert.Equal(t, 120, next.MenuItems[0].SalesCount)
	})

	t.Run("remove", func(t *testing.T) {
		require.Contains(t, wasteNames(base), "Burger")
		s := withRec(models.Recommendation{ID: "r", Type: models.RecommendationRemove, ItemName: "Burger"})
		next, effect, err := Reduce(s, ImplementRecommendation{ID: "r"}, env)
		require.NoError(t, err)
		assert.True(t, effect.Applied)
		require.Len(t, next.MenuItems, 2)
		for _, item := range next.MenuItems {
			assert.NotEqual(t, "Burger", item.Name)
		}
		assert.NotContains(t, wasteNames(next), "Burger")
		for _, category := range next.CategoryData {
			assert.NotEqual(t, "Mains", category.Name)
		}
		assert.InDelta(t, 1000.0+240.0, next.DashboardStats.TotalRevenue, 1e-9)
	})

	t.Run("bundle only retires the recommendation", func(t *testing.T) {
		s := withRec(models.Recommendation{ID: "r", Type: models.RecommendationBundle, ItemName: "Burger"})
		next, effect, err := Reduce(s, ImplementRecommendation{ID: "r"}, env)
		require.NoError(t, err)
		assert.False(t, effect.Applied)
		assert.Equal(t, base.MenuItems, next.MenuItems)
		assert.Empty(t, next.Recommendations)
	})

	t.Run("missing item name is reported", func(t *testing.T) {
		for _, typ := range []models.RecommendationType{models.RecommendationRemove, models.RecommendationPriceAdjust, models.RecommendationPromote} {
			s := withRec(models.Recommendation{ID: "r", Type: typ})
			next, _, err := Reduce(s, ImplementRecommendation{ID: "r"}, env)
			require.ErrorIs(t, err, models.ErrItemNotFound, typ)
			assert.Equal(t, s, next, typ)
		}
	})

	t.Run("unknown item leaves state untouched", func(t *testing.T) {
		s := withRec(models.Recommendation{ID: "r", Type: models.RecommendationRemove, ItemName: "Pizza"})
		next, _, err := Reduce(s, ImplementRecommendation{ID: "r"}, env)
		require.ErrorIs(t, err, models.ErrItemNotFound)
		assert.Equal(t, s, next)
	})

	t.Run("unknown recommendation", func(t *testing.T) {
		_, _, err := Reduce(base, ImplementRecommendation{ID: "nope"}, env)
		require.ErrorIs(t, err, models.ErrRecommendationNotFound)
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryStore()
	s := newTestStore(t, Options{KV: kv})
	_, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)
	require.NoError(t, s.AddNotification(ctx, models.NotificationInfo, "Hello", "World"))
	want := s.Snapshot()

	reloaded := newTestStore(t, Options{KV: kv})
	got := reloaded.Snapshot()
	assert.Equal(t, want.MenuItems, got.MenuItems)
	assert.Equal(t, want.DashboardStats, got.DashboardStats)
	assert.Equal(t, want.RevenueData, got.RevenueData)
	assert.Equal(t, want.CategoryData, got.CategoryData)
	assert.Equal(t, want.WasteData, got.WasteData)
	require.Len(t, got.Notifications, 1)
	assert.Equal(t, "Hello", got.Notifications[0].Title)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
}

func TestLoadSnapshotDefaultsAndRecompute(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		state, report, err := LoadSnapshot(ctx, repositories.NewMemoryStore(), testEnv())
		require.NoError(t, err)
		assert.Equal(t, EmptyState(), state)
		assert.Len(t, report.Missing, len(models.SnapshotKeys))
		assert.False(t, report.Recomputed)
	})

	t.Run("missing derived data", func(t *testing.T) {
		kv := repositories.NewMemoryStore()
		require.NoError(t, kv.PutAll(ctx, map[string][]byte{
			models.KeyMenuItems: []byte(`[{"id":"a","name":"Tea","category":"Drinks","cost":1,"price":3,"salesCount":10,"revenue":30,"margin":66.67,"wastePercentage":4}]`),
		}))
		state, report, err := LoadSnapshot(ctx, kv, testEnv())
		require.NoError(t, err)
		assert.True(t, report.Recomputed)
		assert.Len(t, state.RevenueData, models.DefaultSeriesDays)
		assert.InDelta(t, 30.0, state.DashboardStats.TotalRevenue, 1e-9)
	})

	t.Run("corrupt values fall back", func(t *testing.T) {
		kv := repositories.NewMemoryStore()
		require.NoError(t, kv.PutAll(ctx, map[string][]byte{
			models.KeyMenuItems:     []byte(`{not json`),
			models.KeyNotifications: []byte(`"oops"`),
			models.KeyLastUpdated:   []byte(`yesterday`),
		}))
		state, report, err := LoadSnapshot(ctx, kv, testEnv())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{models.KeyMenuItems, models.KeyNotifications, models.KeyLastUpdated}, report.Corrupt)
		assert.True(t, report.Recomputed)
		assert.Empty(t, state.MenuItems)
		assert.Empty(t, state.Notifications)
	})
}

func TestSnapshotEntriesAreJSON(t *testing.T) {
	s, _, err := Reduce(EmptyState(), ReplaceAll{Raw: rawMenu()}, testEnv())
	require.NoError(t, err)
	entries, err := EncodeSnapshot(s)
	require.NoError(t, err)
	require.Len(t, entries, len(models.SnapshotKeys))
	for key, data := range entries {
		assert.True(t, json.Valid(data), "%s=%s", key, data)
	}
	assert.Equal(t, `"2024-06-14T12:00:00Z"`, string(entries[models.KeyLastUpdated]))

	entries, err = EncodeSnapshot(EmptyState())
	require.NoError(t, err)
	assert.NotContains(t, entries, models.KeyLastUpdated)
	assert.Equal(t, "[]", string(entries[models.KeyMenuItems]))
}

// partialKV writes every key except skip, then fails, the way a key by key
// backend does when it dies part way through a snapshot.
type partialKV struct {
	*repositories.MemoryStore
	skip   string
	broken bool
}

func (p *partialKV) PutAll(ctx context.Context, entries map[string][]byte) error {
	if !p.broken {
		return p.MemoryStore.PutAll(ctx, entries)
	}
	for key, value := range entries {
		if key == p.skip {
			continue
		}
		if err := p.MemoryStore.PutAll(ctx, map[string][]byte{key: value}); err != nil {
			return err
		}
	}
	return errors.New("connection reset")
}

func TestReloadAfterPartialWriteRebuildsDerivedData(t *testing.T) {
	ctx := context.Background()
	kv := &partialKV{MemoryStore: repositories.NewMemoryStore(), skip: models.KeyWasteData}
	s := newTestStore(t, Options{KV: kv})
	_, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)

	kv.broken = true
	_, err = s.AddItem(ctx, models.RawMenuItem{Name: "Salad", Cost: 3, Price: 9, SalesCount: 30, WastePercentage: ptr(40.0)})
	require.NoError(t, err)
	want := s.Snapshot()
	require.Equal(t, "Salad", want.WasteData[0].ItemName)

	got := newTestStore(t, Options{KV: kv}).Snapshot()
	require.Len(t, got.MenuItems, 4)
	assert.Equal(t, analytics.CalculateWasteData(got.MenuItems), got.WasteData)
	assert.Equal(t, want.WasteData, got.WasteData)
	assert.Equal(t, want.CategoryData, got.CategoryData)
	assert.Equal(t, want.RevenueData, got.RevenueData)
	assert.Equal(t, want.DashboardStats, got.DashboardStats)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddItem(ctx, models.RawMenuItem{Name: fmt.Sprintf("Dish %d", i), Cost: 1, Price: 5, SalesCount: 10})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	state := s.Snapshot()
	assert.Len(t, state.MenuItems, n)
	assert.InDelta(t, n*50.0, state.DashboardStats.TotalRevenue, 1e-6)
}

func TestBurgerScenario(t *testing.T) {
	s := newTestStore(t, Options{})
	item, err := s.AddItem(context.Background(), models.RawMenuItem{Name: "Burger", Category: "Burgers", Cost: 4.50, Price: 12.99, SalesCount: 450})
	require.NoError(t, err)
	assert.InDelta(t, 5845.50, item.Revenue, 1e-6)
	assert.InDelta(t, 65.36, item.Margin, 0.005)
}

func TestCategoryDataKeepsFirstSeenOrder(t *testing.T) {
	s := newTestStore(t, Options{})
	_, err := s.ReplaceAll(context.Background(), []models.RawMenuItem{
		{Name: "Margherita", Category: "Pizza", Cost: 2, Price: 10, SalesCount: 10},
		{Name: "Cheeseburger", Category: "Burgers", Cost: 5, Price: 15, SalesCount: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.CategoryDatum{
		{Name: "Pizza", Value: 100, Percentage: 25, Fill: "hsl(0, 70%, 50%)"},
		{Name: "Burgers", Value: 300, Percentage: 75, Fill: "hsl(45, 70%, 50%)"},
	}, s.Snapshot().CategoryData)
}

func wasteNames(s State) []string {
	names := make([]string, 0, len(s.WasteData))
	for _, w := range s.WasteData {
		names = append(names, w.ItemName)
	}
	return names
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	s := newTestStore(t, Options{KV: failingKV{repositories.NewMemoryStore()}})
	_, err := s.AddItem(context.Background(), rawMenu()[0])
	require.NoError(t, err)

	state := s.Snapshot()
	require.Len(t, state.MenuItems, 1)
	require.NotEmpty(t, state.Notifications)
	assert.Equal(t, models.NotificationError, state.Notifications[0].Type)
}

func TestResetAllClearsPersistedKeys(t *testing.T) {
	ctx := context.Background()
	kv := repositories.NewMemoryStore()
	s := newTestStore(t, Options{KV: kv})
	_, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)

	require.NoError(t, s.ResetAll(ctx))
	assert.Equal(t, EmptyState(), s.Snapshot())
	for _, key := range models.SnapshotKeys {
		_, err := kv.Get(ctx, key)
		assert.ErrorIs(t, err, repositories.ErrKeyNotFound, key)
	}
}

func TestRefreshFallsBackToHeuristic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{Advisor: stubAdvisor{name: "remote", err: errors.New("503")}})
	_, err := s.ReplaceAll(ctx, rawMenu())
	require.NoError(t, err)

	res, err := s.RefreshAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, "heuristic", res.Source)
	require.NotEmpty(t, res.Recommendations)
	assert.Equal(t, "remove-"+s.Snapshot().MenuItems[0].ID, res.Recommendations[0].ID)
	assert.Equal(t, models.NotificationWarning, s.Snapshot().Notifications[0].Type)
}

type gatedAdvisor struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (g *gatedAdvisor) Name() string { return "gated" }

func (g *gatedAdvisor) Recommend(ctx context.Context, _ llm.AnalysisInput) ([]models.Recommendation, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	g.mu.Unlock()
	if call == 1 {
		close(g.started)
		<-g.release
		return []models.Recommendation{{ID: "stale", Type: models.RecommendationBundle, Title: "old"}}, nil
	}
	return []models.Recommendation{{ID: "fresh", Type: models.RecommendationBundle, Title: "new"}}, nil
}

func TestRefreshDiscardsSupersededResult(t *testing.T) {
	ctx := context.Background()
	advisor := &gatedAdvisor{started: make(chan struct{}), release: make(chan struct{})}
	s := newTestStore(t, Options{Advisor: advisor})

	slow := make(chan error, 1)
	go func() {
		_, err := s.RefreshAnalysis(ctx)
		slow <- err
	}()
	<-advisor.started

	res, err := s.RefreshAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Recommendations[0].ID)

	close(advisor.release)
	require.ErrorIs(t, <-slow, models.ErrSuperseded)
	assert.Equal(t, "fresh", s.Snapshot().Recommendations[0].ID)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	csv := "Item,Category,Cost,Price,Qty\nBurger,Mains,4,12,100\nWater,Drinks,0,2,50\n,Sides,1,2,3\n"

	res, err := s.Upload(ctx, upload.Payload{Filename: "pos.csv", Data: csv})
	require.NoError(t, err)
	assert.Equal(t, models.FormatCSV, res.Format)
	require.Len(t, res.MenuItems, 1)
	assert.Equal(t, "Burger", res.MenuItems[0].Name)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, models.NotificationSuccess, s.Snapshot().Notifications[0].Type)
}

func TestUploadWithoutValidItems(t *testing.T) {
	s := newTestStore(t, Options{})
	_, err := s.Upload(context.Background(), upload.Payload{Format: models.FormatCSV, Data: "name,price,cost\nFree,0,0\n"})
	require.ErrorIs(t, err, models.ErrParse)
	assert.Empty(t, s.Snapshot().MenuItems)
}

func TestUploadRejectsOversized(t *testing.T) {
	s := newTestStore(t, Options{Intake: upload.NewIntake(models.UploadConfig{MaxBytes: 4})})
	_, err := s.Upload(context.Background(), upload.Payload{Format: models.FormatCSV, Data: "name,price\n"})
	require.ErrorIs(t, err, models.ErrUploadTooLarge)
}

func TestCollaboratorsRequired(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	_, err := s.GenerateInsights(ctx)
	require.ErrorIs(t, err, models.ErrCollaborator)

	_, err = s.Chat(ctx, "  ", nil)
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = s.Chat(ctx, "hello", nil)
	require.ErrorIs(t, err, models.ErrCollaborator)
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	require.NoError(t, s.AddNotification(ctx, models.NotificationInfo, "a", "first"))
	require.NoError(t, s.AddNotification(ctx, models.NotificationInfo, "b", "second"))

	state := s.Snapshot()
	require.Len(t, state.Notifications, 2)
	assert.Equal(t, "b", state.Notifications[0].Title)
	assert.Equal(t, 2, state.UnreadNotifications())

	require.NoError(t, s.MarkNotificationRead(ctx, state.Notifications[1].ID))
	assert.Equal(t, 1, s.Snapshot().UnreadNotifications())
	require.ErrorIs(t, s.MarkNotificationRead(ctx, "missing"), models.ErrNotificationNotFound)

	require.NoError(t, s.MarkAllNotificationsRead(ctx))
	assert.Zero(t, s.Snapshot().UnreadNotifications())
}

func TestChangeEventsPublished(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{}
	s := newTestStore(t, Options{Events: events})

	item, err := s.AddItem(ctx, rawMenu()[0])
	require.NoError(t, err)
	require.NoError(t, s.DeleteItem(ctx, item.ID))

	require.Len(t, events.events, 2)
	assert.Equal(t, models.EventItemAdded, events.events[0].Type)
	assert.Equal(t, 1, events.events[0].ItemCount)
	assert.InDelta(t, 1200.0, events.events[0].TotalRevenue, 1e-9)
	assert.Equal(t, models.EventItemDeleted, events.events[1].Type)
	assert.Equal(t, item.ID, events.events[1].Subject)
}

type unreadableKV struct {
	repositories.KeyValueStore
}

func (unreadableKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestUnreadableBackendStartsEmpty(t *testing.T) {
	s := newTestStore(t, Options{KV: unreadableKV{repositories.NewMemoryStore()}})
	assert.Equal(t, EmptyState(), s.Snapshot())
}
