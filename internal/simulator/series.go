// Package simulator synthesizes the daily revenue trend shown on charts. The
// engine only holds aggregate menu totals, so the series is an approximation
// and is always tagged as estimated by callers.
package simulator

import (
	"math"
	"time"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/models"
)

const dateLayout = "2006-01-02"

// GenerateRevenueSeries spreads the menu's total revenue over days points,
// oldest first, ending on the UTC calendar day of now. Empty input yields an
// empty series.
func GenerateRevenueSeries(items []models.MenuItem, now time.Time, days int, rng analytics.RandomSource) []models.RevenueDataPoint {
	if len(items) == 0 || days <= 0 {
		return []models.RevenueDataPoint{}
	}

	var totalRevenue, priceSum, marginSum float64
	for _, item := range items {
		totalRevenue += item.Revenue
		priceSum += item.Price
		marginSum += item.Margin
	}
	avgItemPrice := priceSum / float64(len(items))
	avgMargin := marginSum / float64(len(items))
	baseDailyRevenue := totalRevenue / float64(days)

	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	series := make([]models.RevenueDataPoint, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -(days - 1 - i))
		variation := minVariation + rng.Float64()*variationRange

		revenue := analytics.Round2(baseDailyRevenue * weekdayMultiplier(date.Weekday()) * calculateGrowthFactor(i, days) * variation)
		orders := 0
		if avgItemPrice > 0 {
			orders = int(math.Floor(revenue / avgItemPrice))
		}

		series = append(series, models.RevenueDataPoint{
			Date:    date.Format(dateLayout),
			Revenue: revenue,
			Orders:  orders,
			Profit:  analytics.Round2(revenue * avgMargin / 100),
		})
	}
	return series
}
