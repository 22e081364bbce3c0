package analytics

import (
	"fmt"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
)

// PeriodComparison produces the period over period change percentages. No
// implementation compares against a real previous period yet because the
// engine only holds aggregate totals.
type PeriodComparison interface {
	Changes(rng RandomSource) models.PeriodChanges
	Provenance() models.Provenance
}

// PlaceholderComparison draws uniform jitter: revenue ±10, profit ±12.5,
// orders ±7.5, waste ±5.
type PlaceholderComparison struct{}

func (PlaceholderComparison) Changes(rng RandomSource) models.PeriodChanges {
	return models.PeriodChanges{
		Revenue: (rng.Float64() - 0.5) * 20,
		Profit:  (rng.Float64() - 0.5) * 25,
		Orders:  (rng.Float64() - 0.5) * 15,
		Waste:   (rng.Float64() - 0.5) * 10,
	}
}

func (PlaceholderComparison) Provenance() models.Provenance { return models.ProvenanceEstimated }

// FixedComparison reports a configured table of changes.
type FixedComparison struct {
	Values models.PeriodChanges
}

func (f FixedComparison) Changes(RandomSource) models.PeriodChanges { return f.Values }

func (FixedComparison) Provenance() models.Provenance { return models.ProvenanceEstimated }

// NoComparison reports zero change.
type NoComparison struct{}

func (NoComparison) Changes(RandomSource) models.PeriodChanges { return models.PeriodChanges{} }

func (NoComparison) Provenance() models.Provenance { return models.ProvenanceNone }

func NewPeriodComparison(cfg *models.Config) (PeriodComparison, error) {
	switch cfg.PeriodComparison {
	case "", "placeholder":
		return PlaceholderComparison{}, nil
	case "fixed":
		return FixedComparison{Values: cfg.FixedChanges}, nil
	case "none":
		return NoComparison{}, nil
	default:
		return nil, fmt.Errorf("unknown period comparison %q: %w", cfg.PeriodComparison, models.ErrValidation)
	}
}

var periodDays = map[string]int{
	models.Period1Month:  30,
	models.Period3Months: 90,
	models.Period6Months: 180,
	models.Period1Year:   365,
}

// FilterRevenue keeps the points dated within the reporting period ending at
// now. Unknown periods and "alltime" return the whole series.
func FilterRevenue(series []models.RevenueDataPoint, period string, now time.Time) []models.RevenueDataPoint {
	days, ok := periodDays[period]
	if !ok {
		return append([]models.RevenueDataPoint(nil), series...)
	}
	y, m, d := now.UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	filtered := make([]models.RevenueDataPoint, 0, len(series))
	for _, point := range series {
		// ISO dates compare lexically
		if point.Date >= cutoff {
			filtered = append(filtered, point)
		}
	}
	return filtered
}

func ValidPeriod(period string) bool {
	_, ok := periodDays[period]
	return ok || period == models.PeriodAllTime
}
