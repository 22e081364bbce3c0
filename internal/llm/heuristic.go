package llm

import (
	"context"
	"fmt"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/models"
)

const (
	highWasteThreshold  = 15.0
	highMarginThreshold = 70.0
)

// HeuristicAdvisor derives recommendations from fixed waste and margin
// thresholds. It never fails.
type HeuristicAdvisor struct {
	rng analytics.RandomSource
}

func NewHeuristicAdvisor(rng analytics.RandomSource) *HeuristicAdvisor {
	return &HeuristicAdvisor{rng: rng}
}

func (h *HeuristicAdvisor) Name() string { return "heuristic" }

func (h *HeuristicAdvisor) Recommend(_ context.Context, in AnalysisInput) ([]models.Recommendation, error) {
	recs := make([]models.Recommendation, 0, models.MaxRecommendations)

	for _, item := range in.MenuItems {
		if item.WastePercentage <= highWasteThreshold {
			continue
		}
		recs = append(recs, models.Recommendation{
			ID:             "remove-" + item.ID,
			Type:           models.RecommendationRemove,
			Priority:       models.PriorityHigh,
			Title:          fmt.Sprintf("Consider removing %s", item.Name),
			Description:    fmt.Sprintf("This item has a high waste percentage of %.1f%% and low sales volume.", item.WastePercentage),
			ItemName:       item.Name,
			CurrentMetrics: metricsOf(item),
			ExpectedImpact: models.ExpectedImpact{
				RevenueChange: -item.Revenue,
				ProfitChange:  item.Revenue * 0.1, // waste cost savings
			},
			Confidence: 75 + h.rng.Float64()*20,
		})
	}

	for _, item := range in.MenuItems {
		if item.Margin <= highMarginThreshold {
			continue
		}
		recs = append(recs, models.Recommendation{
			ID:             "promote-" + item.ID,
			Type:           models.RecommendationPromote,
			Priority:       models.PriorityMedium,
			Title:          fmt.Sprintf("Promote %s", item.Name),
			Description:    fmt.Sprintf("This item has excellent margins (%.1f%%) and could benefit from promotion.", item.Margin),
			ItemName:       item.Name,
			CurrentMetrics: metricsOf(item),
			ExpectedImpact: models.ExpectedImpact{
				RevenueChange: item.Revenue * 0.3,
				ProfitChange:  item.Revenue * 0.3 * item.Margin / 100,
			},
			Confidence: 80 + h.rng.Float64()*15,
		})
	}

	if len(recs) > models.MaxRecommendations {
		recs = recs[:models.MaxRecommendations]
	}
	return recs, nil
}

func metricsOf(item models.MenuItem) models.CurrentMetrics {
	revenue, margin, sales := item.Revenue, item.Margin, item.SalesCount
	return models.CurrentMetrics{Revenue: &revenue, Margin: &margin, SalesCount: &sales}
}
