// Package analytics derives per-item metrics and the aggregate views shown on
// the dashboard. Every function here is pure; randomness comes in through a
// RandomSource so callers control determinism.
package analytics

import (
	"strings"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"
)

// RandomSource is satisfied by *rand.Rand.
type RandomSource interface {
	Float64() float64
}

// MaxEstimatedWaste bounds the placeholder waste estimate, exclusive.
const MaxEstimatedWaste = 20.0

func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func Revenue(price float64, salesCount int) float64 {
	return price * float64(salesCount)
}

// Margin is the gross margin percentage. A zero price yields 0.
func Margin(price, cost float64) float64 {
	if price == 0 {
		return 0
	}
	return (price - cost) / price * 100
}

func NewItemID() string {
	return "item-" + cuid.New()
}

// DeriveItem builds a MenuItem from user input. The waste percentage is an
// estimate drawn from rng unless the input supplies one.
func DeriveItem(id string, raw models.RawMenuItem, rng RandomSource) models.MenuItem {
	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	item := models.MenuItem{
		ID:         id,
		Name:       strings.TrimSpace(raw.Name),
		Category:   category,
		Cost:       raw.Cost,
		Price:      raw.Price,
		SalesCount: raw.SalesCount,
	}
	if raw.WastePercentage != nil {
		item.WastePercentage = *raw.WastePercentage
		item.WasteProvenance = models.ProvenanceMeasured
	} else {
		item.WastePercentage = rng.Float64() * MaxEstimatedWaste
		item.WasteProvenance = models.ProvenanceEstimated
	}
	return Recalculate(item)
}

// Recalculate refreshes revenue and margin from price, cost and sales.
func Recalculate(item models.MenuItem) models.MenuItem {
	item.Revenue = Revenue(item.Price, item.SalesCount)
	item.Margin = Margin(item.Price, item.Cost)
	return item
}

// ApplyPatch merges a partial edit into item, keeping the id and recomputing
// derived fields.
func ApplyPatch(item models.MenuItem, patch models.MenuItemPatch) models.MenuItem {
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
		if item.Category == "" {
			item.Category = models.DefaultCategory
		}
	}
	if patch.Cost != nil {
		item.Cost = *patch.Cost
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.SalesCount != nil {
		item.SalesCount = *patch.SalesCount
	}
	if patch.WastePercentage != nil {
		item.WastePercentage = *patch.WastePercentage
		item.WasteProvenance = models.ProvenanceMeasured
	}
	return Recalculate(item)
}
