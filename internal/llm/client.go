// Package llm talks to the language model that writes recommendations,
// insights and chat replies, and to the local fallbacks used when it is not
// available.
package llm

import (
	"context"

	"github.com/chrisdamba/menusight/internal/models"
)

// AnalysisInput is the menu snapshot handed to analysis collaborators.
type AnalysisInput struct {
	MenuItems   []models.MenuItem         `json:"menuItems"`
	RevenueData []models.RevenueDataPoint `json:"revenueData,omitempty"`
	WasteData   []models.WasteDatum       `json:"wasteData,omitempty"`
}

type ParseResult struct {
	Items   []models.RawMenuItem `json:"menuItems"`
	Summary string               `json:"summary"`
	Skipped int                  `json:"skipped"`
}

type ChatRequest struct {
	Message               string                  `json:"message"`
	MenuItems             []models.MenuItem       `json:"-"`
	RecentRecommendations []models.Recommendation `json:"-"`
	History               []models.ChatMessage    `json:"conversationHistory,omitempty"`
}

type Advisor interface {
	Name() string
	Recommend(ctx context.Context, in AnalysisInput) ([]models.Recommendation, error)
}

type Parser interface {
	Name() string
	Parse(ctx context.Context, raw, format string) (ParseResult, error)
}

type InsightGenerator interface {
	Insights(ctx context.Context, in AnalysisInput) ([]models.Insight, error)
}

type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
