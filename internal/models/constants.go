package models

// Persisted snapshot keys.
const (
	KeyMenuItems       = "menuItems"
	KeyRecommendations = "recommendations"
	KeyDashboardStats  = "dashboardStats"
	KeyRevenueData     = "revenueData"
	KeyCategoryData    = "categoryData"
	KeyWasteData       = "wasteData"
	KeyNotifications   = "notifications"
	KeyLastUpdated     = "lastUpdated"
)

var SnapshotKeys = []string{
	KeyMenuItems,
	KeyRecommendations,
	KeyDashboardStats,
	KeyRevenueData,
	KeyCategoryData,
	KeyWasteData,
	KeyNotifications,
	KeyLastUpdated,
}

const (
	DefaultCategory    = "Uncategorized"
	DefaultSeriesDays  = 90
	DefaultMaxUpload   = 10 * 1024 * 1024
	MaxRecommendations = 8
	WasteDataLimit     = 5
	WasteDataThreshold = 5.0
)

// Reporting periods understood by the revenue filter.
const (
	Period1Month  = "1month"
	Period3Months = "3months"
	Period6Months = "6months"
	Period1Year   = "1year"
	PeriodAllTime = "alltime"
)

// Upload formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatText = "text"
)
