package models

// Provenance tags a value as measured from user data or estimated by the engine.
type Provenance string

const (
	ProvenanceMeasured  Provenance = "measured"
	ProvenanceEstimated Provenance = "estimated"
	ProvenanceNone      Provenance = "none"
)

type MenuItem struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Cost            float64    `json:"cost"`
	Price           float64    `json:"price"`
	SalesCount      int        `json:"salesCount"`
	Revenue         float64    `json:"revenue"`
	Margin          float64    `json:"margin"`          // percent
	WastePercentage float64    `json:"wastePercentage"` // percent
	WasteProvenance Provenance `json:"wasteProvenance,omitempty"`
}

// RawMenuItem is the user supplied portion of a menu item, before derivation.
type RawMenuItem struct {
	Name            string   `json:"name" validate:"required"`
	Category        string   `json:"category"`
	Cost            float64  `json:"cost" validate:"gt=0"`
	Price           float64  `json:"price" validate:"gt=0"`
	SalesCount      int      `json:"salesCount" validate:"gte=0"`
	WastePercentage *float64 `json:"wastePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// MenuItemPatch carries a partial edit. Nil fields keep their current value.
type MenuItemPatch struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Category        *string  `json:"category,omitempty"`
	Cost            *float64 `json:"cost,omitempty" validate:"omitempty,gt=0"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	SalesCount      *int     `json:"salesCount,omitempty" validate:"omitempty,gte=0"`
	WastePercentage *float64 `json:"wastePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func (m MenuItem) Raw() RawMenuItem {
	raw := RawMenuItem{
		Name:       m.Name,
		Category:   m.Category,
		Cost:       m.Cost,
		Price:      m.Price,
		SalesCount: m.SalesCount,
	}
	if m.WasteProvenance != ProvenanceEstimated {
		waste := m.WastePercentage
		raw.WastePercentage = &waste
	}
	return raw
}
