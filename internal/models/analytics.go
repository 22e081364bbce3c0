package models

type RevenueDataPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
	Profit  float64 `json:"profit"`
}

type CategoryDatum struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Fill       string  `json:"fill,omitempty"`
}

type WasteDatum struct {
	ItemName string  `json:"itemName"`
	Sales    int     `json:"sales"`
	Waste    float64 `json:"waste"`
}

type DashboardStats struct {
	TotalRevenue     float64    `json:"totalRevenue"`
	NetProfit        float64    `json:"netProfit"`
	TotalOrders      int        `json:"totalOrders"`
	WastePercentage  float64    `json:"wastePercentage"`
	RevenueChange    float64    `json:"revenueChange"`
	ProfitChange     float64    `json:"profitChange"`
	OrderChange      float64    `json:"orderChange"`
	WasteChange      float64    `json:"wasteChange"`
	ChangeProvenance Provenance `json:"changeProvenance,omitempty"`
}

// PeriodChanges are the percentage deltas against a prior reporting period.
type PeriodChanges struct {
	Revenue float64 `mapstructure:"revenue" json:"revenue"`
	Profit  float64 `mapstructure:"profit" json:"profit"`
	Orders  float64 `mapstructure:"orders" json:"orders"`
	Waste   float64 `mapstructure:"waste" json:"waste"`
}
