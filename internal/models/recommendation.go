package models

type RecommendationType string

const (
	RecommendationRemove      RecommendationType = "remove"
	RecommendationPromote     RecommendationType = "promote"
	RecommendationPriceAdjust RecommendationType = "price-adjust"
	RecommendationBundle      RecommendationType = "bundle"
)

func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationRemove, RecommendationPromote, RecommendationPriceAdjust, RecommendationBundle:
		return true
	}
	return false
}

// NeedsItem reports whether applying the recommendation mutates a named item.
func (t RecommendationType) NeedsItem() bool {
	return t != RecommendationBundle
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

type CurrentMetrics struct {
	Revenue    *float64 `json:"revenue,omitempty"`
	Margin     *float64 `json:"margin,omitempty"`
	SalesCount *int     `json:"salesCount,omitempty"`
}

type ExpectedImpact struct {
	RevenueChange float64 `json:"revenueChange"`
	ProfitChange  float64 `json:"profitChange"`
}

type Recommendation struct {
	ID             string             `json:"id"`
	Type           RecommendationType `json:"type"`
	Priority       Priority           `json:"priority"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	ItemName       string             `json:"itemName,omitempty"`
	CurrentMetrics CurrentMetrics     `json:"currentMetrics"`
	ExpectedImpact ExpectedImpact     `json:"expectedImpact"`
	Confidence     float64            `json:"confidence"` // 0..100
}

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

func (i Impact) Valid() bool {
	return i == ImpactPositive || i == ImpactNegative || i == ImpactNeutral
}

type Insight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      Impact   `json:"impact"`
	Priority    Priority `json:"priority"`
}

// ChatMessage is a single turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}
