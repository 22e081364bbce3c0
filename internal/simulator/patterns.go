package simulator

import "time"

// WeekdayMultipliers scale a day's base revenue. Days not listed trade at 1.0.
var WeekdayMultipliers = map[time.Weekday]float64{
	time.Friday:   1.4,
	time.Saturday: 1.4,
	time.Sunday:   1.2,
}

const (
	// growthSpan is the extra weight the newest day carries over the oldest.
	growthSpan = 0.15

	minVariation   = 0.85
	variationRange = 0.3
)

func weekdayMultiplier(day time.Weekday) float64 {
	if m, ok := WeekdayMultipliers[day]; ok {
		return m
	}
	return 1.0
}

func calculateGrowthFactor(dayIndex, days int) float64 {
	return 1 + float64(dayIndex)/float64(days)*growthSpan
}
