package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func waste(v float64) *float64 { return &v }

func item(name, category string, price float64, sales int, wastePct float64) models.MenuItem {
	return Recalculate(models.MenuItem{
		ID:              "item-" + name,
		Name:            name,
		Category:        category,
		Cost:            price / 2,
		Price:           price,
		SalesCount:      sales,
		WastePercentage: wastePct,
	})
}

func TestDeriveItem(t *testing.T) {
	raw := models.RawMenuItem{Name: " Burger ", Cost: 4, Price: 10, SalesCount: 100}
	got := DeriveItem("item-1", raw, constRand(0.5))

	assert.Equal(t, "item-1", got.ID)
	assert.Equal(t, "Burger", got.Name)
	assert.Equal(t, models.DefaultCategory, got.Category)
	assert.InDelta(t, 1000.0, got.Revenue, 1e-9)
	assert.InDelta(t, 60.0, got.Margin, 1e-9)
	assert.InDelta(t, 10.0, got.WastePercentage, 1e-9)
	assert.Equal(t, models.ProvenanceEstimated, got.WasteProvenance)
}

func TestDeriveItemSuppliedWaste(t *testing.T) {
	raw := models.RawMenuItem{Name: "Soup", Category: "Starters", Cost: 2, Price: 5, SalesCount: 3, WastePercentage: waste(7.5)}
	got := DeriveItem("item-2", raw, constRand(0.99))

	assert.Equal(t, 7.5, got.WastePercentage)
	assert.Equal(t, models.ProvenanceMeasured, got.WasteProvenance)
	assert.Equal(t, "Starters", got.Category)
}

func TestWasteEstimateRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		got := DeriveItem("x", models.RawMenuItem{Name: "x", Cost: 1, Price: 2}, rng)
		require.GreaterOrEqual(t, got.WastePercentage, 0.0)
		require.Less(t, got.WastePercentage, MaxEstimatedWaste)
	}
}

func TestMarginZeroPrice(t *testing.T) {
	assert.Equal(t, 0.0, Margin(0, 5))
	assert.InDelta(t, -50.0, Margin(10, 15), 1e-9)
}

func TestApplyPatchKeepsID(t *testing.T) {
	orig := item("Pasta", "Mains", 12, 10, 3)
	price := 20.0
	sales := 5
	got := ApplyPatch(orig, models.MenuItemPatch{Price: &price, SalesCount: &sales})

	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, 100.0, got.Revenue)
	assert.InDelta(t, 70.0, got.Margin, 1e-9)
	assert.Equal(t, orig.WastePercentage, got.WastePercentage)
}

func TestNewItemIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewItemID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCalculateDashboardStatsEmpty(t *testing.T) {
	stats := CalculateDashboardStats(nil, nil, NoComparison{}, constRand(0))

	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0.0, stats.WastePercentage)
	assert.Equal(t, models.ProvenanceNone, stats.ChangeProvenance)
}

func TestCalculateDashboardStats(t *testing.T) {
	items := []models.MenuItem{
		item("A", "Mains", 10, 10, 4),
		item("B", "Mains", 5, 20, 8),
	}
	series := []models.RevenueDataPoint{
		{Date: "2024-01-01", Revenue: 100, Orders: 7, Profit: 40.5},
		{Date: "2024-01-02", Revenue: 120, Orders: 9, Profit: 50.25},
	}
	stats := CalculateDashboardStats(items, series, PlaceholderComparison{}, constRand(1))

	assert.Equal(t, 200.0, stats.TotalRevenue)
	assert.Equal(t, 16, stats.TotalOrders)
	assert.InDelta(t, 90.75, stats.NetProfit, 1e-9)
	assert.InDelta(t, 6.0, stats.WastePercentage, 1e-9)
	assert.InDelta(t, 10.0, stats.RevenueChange, 1e-9)
	assert.InDelta(t, 12.5, stats.ProfitChange, 1e-9)
	assert.InDelta(t, 7.5, stats.OrderChange, 1e-9)
	assert.InDelta(t, 5.0, stats.WasteChange, 1e-9)
	assert.Equal(t, models.ProvenanceEstimated, stats.ChangeProvenance)
}

func TestFixedComparison(t *testing.T) {
	values := models.PeriodChanges{Revenue: 12.5, Profit: 15.3, Orders: 8.2, Waste: -3.4}
	stats := CalculateDashboardStats(nil, nil, FixedComparison{Values: values}, nil)

	assert.Equal(t, 12.5, stats.RevenueChange)
	assert.Equal(t, -3.4, stats.WasteChange)
}

func TestCalculateCategoryData(t *testing.T) {
	items := []models.MenuItem{
		item("A", "Mains", 10, 10, 0),
		item("B", "Drinks", 2, 50, 0),
		item("C", "Mains", 10, 20, 0),
	}
	data := CalculateCategoryData(items)

	require.Len(t, data, 2)
	assert.Equal(t, "Mains", data[0].Name)
	assert.Equal(t, 300.0, data[0].Value)
	assert.InDelta(t, 75.0, data[0].Percentage, 1e-9)
	assert.Equal(t, "hsl(0, 70%, 50%)", data[0].Fill)
	assert.Equal(t, "Drinks", data[1].Name)
	assert.Equal(t, "hsl(45, 70%, 50%)", data[1].Fill)

	var sum float64
	for _, d := range data {
		sum += d.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestCalculateCategoryDataZeroRevenue(t *testing.T) {
	data := CalculateCategoryData([]models.MenuItem{item("A", "Mains", 10, 0, 0)})

	require.Len(t, data, 1)
	assert.Equal(t, 0.0, data[0].Percentage)
}

func TestCalculateWasteData(t *testing.T) {
	items := []models.MenuItem{
		item("low", "x", 1, 1, 5),
		item("a", "x", 1, 1, 9),
		item("b", "x", 1, 1, 12),
		item("c", "x", 1, 1, 9),
		item("d", "x", 1, 1, 6),
		item("e", "x", 1, 1, 20),
		item("f", "x", 1, 1, 7),
	}
	data := CalculateWasteData(items)

	require.Len(t, data, 5)
	names := make([]string, len(data))
	for i, d := range data {
		names[i] = d.ItemName
	}
	assert.Equal(t, []string{"e", "b", "a", "c", "f"}, names)
}

func TestCalculateWasteDataEmpty(t *testing.T) {
	assert.Empty(t, CalculateWasteData(nil))
	assert.NotNil(t, CalculateWasteData(nil))
}

func TestFilterRevenue(t *testing.T) {
	now := time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC)
	var series []models.RevenueDataPoint
	for i := 89; i >= 0; i-- {
		series = append(series, models.RevenueDataPoint{Date: now.AddDate(0, 0, -i).Format("2006-01-02")})
	}

	month := FilterRevenue(series, models.Period1Month, now)
	require.Len(t, month, 30)
	assert.Equal(t, "2024-03-02", month[0].Date)
	assert.Len(t, FilterRevenue(series, models.Period3Months, now), 90)
	assert.Len(t, FilterRevenue(series, models.PeriodAllTime, now), 90)
	assert.True(t, ValidPeriod(models.Period1Year))
	assert.False(t, ValidPeriod("2weeks"))
}
