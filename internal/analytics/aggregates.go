package analytics

import (
	"fmt"
	"sort"

	"github.com/chrisdamba/menusight/internal/models"
)

// CalculateDashboardStats summarizes the menu. Orders and profit come from the
// revenue series, so they are only as accurate as the series.
func CalculateDashboardStats(items []models.MenuItem, series []models.RevenueDataPoint, cmp PeriodComparison, rng RandomSource) models.DashboardStats {
	var stats models.DashboardStats
	var wasteSum float64
	for _, item := range items {
		stats.TotalRevenue += item.Revenue
		wasteSum += item.WastePercentage
	}
	for _, day := range series {
		stats.TotalOrders += day.Orders
		stats.NetProfit += day.Profit
	}
	if len(items) > 0 {
		stats.WastePercentage = wasteSum / float64(len(items))
	}

	if cmp == nil {
		cmp = NoComparison{}
	}
	changes := cmp.Changes(rng)
	stats.RevenueChange = changes.Revenue
	stats.ProfitChange = changes.Profit
	stats.OrderChange = changes.Orders
	stats.WasteChange = changes.Waste
	stats.ChangeProvenance = cmp.Provenance()
	return stats
}

// CalculateCategoryData groups revenue by category in first-seen order.
func CalculateCategoryData(items []models.MenuItem) []models.CategoryDatum {
	index := make(map[string]int)
	data := make([]models.CategoryDatum, 0)
	var total float64
	for _, item := range items {
		total += item.Revenue
		i, ok := index[item.Category]
		if !ok {
			i = len(data)
			index[item.Category] = i
			data = append(data, models.CategoryDatum{Name: item.Category})
		}
		data[i].Value += item.Revenue
	}

	for i := range data {
		if total > 0 {
			data[i].Percentage = data[i].Value / total * 100
		}
		data[i].Fill = fmt.Sprintf("hsl(%d, 70%%, 50%%)", i*45)
	}
	return data
}

// CalculateWasteData returns the worst waste offenders above the threshold,
// highest first. Ties keep collection order.
func CalculateWasteData(items []models.MenuItem) []models.WasteDatum {
	data := make([]models.WasteDatum, 0)
	for _, item := range items {
		if item.WastePercentage > models.WasteDataThreshold {
			data = append(data, models.WasteDatum{
				ItemName: item.Name,
				Sales:    item.SalesCount,
				Waste:    item.WastePercentage,
			})
		}
	}
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Waste > data[j].Waste
	})
	if len(data) > models.WasteDataLimit {
		data = data[:models.WasteDataLimit]
	}
	return data
}
