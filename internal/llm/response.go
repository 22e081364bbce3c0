package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
)

// extractJSON trims anything the model wrapped around the outermost object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

func invalidResponse(format string, args ...any) error {
	return fmt.Errorf("%w: invalid model response: %s", models.ErrCollaborator, fmt.Sprintf(format, args...))
}

type rawRecommendation struct {
	Type           models.RecommendationType `json:"type"`
	Priority       models.Priority           `json:"priority"`
	Title          string                    `json:"title"`
	Description    string                    `json:"description"`
	ItemName       string                    `json:"itemName"`
	CurrentMetrics models.CurrentMetrics     `json:"currentMetrics"`
	ExpectedImpact *models.ExpectedImpact    `json:"expectedImpact"`
	Confidence     *float64                  `json:"confidence"`
}

// decodeRecommendations validates every entry; one malformed entry rejects
// the whole response so the caller can fall back.
func decodeRecommendations(content string, now time.Time) ([]models.Recommendation, error) {
	body := extractJSON(content)
	if body == "" || !json.Valid([]byte(body)) {
		return nil, invalidResponse("not JSON")
	}
	var parsed struct {
		Recommendations []rawRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, invalidResponse("%v", err)
	}
	if len(parsed.Recommendations) == 0 {
		return nil, invalidResponse("no recommendations")
	}

	recs := make([]models.Recommendation, 0, len(parsed.Recommendations))
	for i, r := range parsed.Recommendations {
		switch {
		case !r.Type.Valid():
			return nil, invalidResponse("recommendation %d: unknown type %q", i, r.Type)
		case !r.Priority.Valid():
			return nil, invalidResponse("recommendation %d: unknown priority %q", i, r.Priority)
		case strings.TrimSpace(r.Title) == "":
			return nil, invalidResponse("recommendation %d: missing title", i)
		case r.Confidence == nil || *r.Confidence < 0 || *r.Confidence > 100 || math.IsNaN(*r.Confidence):
			return nil, invalidResponse("recommendation %d: confidence out of range", i)
		}
		rec := models.Recommendation{
			ID:             fmt.Sprintf("ai-%d-%d", now.UnixMilli(), i),
			Type:           r.Type,
			Priority:       r.Priority,
			Title:          r.Title,
			Description:    r.Description,
			ItemName:       r.ItemName,
			CurrentMetrics: r.CurrentMetrics,
			Confidence:     *r.Confidence,
		}
		if r.ExpectedImpact != nil {
			rec.ExpectedImpact = *r.ExpectedImpact
		}
		recs = append(recs, rec)
	}
	if len(recs) > models.MaxRecommendations {
		recs = recs[:models.MaxRecommendations]
	}
	return recs, nil
}

func decodeInsights(content string) ([]models.Insight, error) {
	body := extractJSON(content)
	if body == "" || !json.Valid([]byte(body)) {
		return nil, invalidResponse("not JSON")
	}
	var parsed struct {
		Insights []models.Insight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, invalidResponse("%v", err)
	}
	insights := make([]models.Insight, 0, len(parsed.Insights))
	for i, in := range parsed.Insights {
		if strings.TrimSpace(in.Title) == "" || !in.Impact.Valid() || !in.Priority.Valid() {
			return nil, invalidResponse("insight %d is malformed", i)
		}
		insights = append(insights, in)
	}
	return insights, nil
}

// parsedItems turns loosely typed item maps into raw menu items. Entries
// without a name or a numeric price and cost are skipped.
func parsedItems(entries []map[string]any) ([]models.RawMenuItem, int) {
	items := make([]models.RawMenuItem, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		name, _ := entry["name"].(string)
		price, priceOK := entry["price"].(float64)
		cost, costOK := entry["cost"].(float64)
		if strings.TrimSpace(name) == "" || !priceOK || !costOK {
			skipped++
			continue
		}

		item := models.RawMenuItem{
			Name:     strings.TrimSpace(name),
			Category: models.DefaultCategory,
			Cost:     cost,
			Price:    price,
		}
		if category, ok := entry["category"].(string); ok && strings.TrimSpace(category) != "" {
			item.Category = strings.TrimSpace(category)
		}
		if sales, ok := entry["salesCount"].(float64); ok && sales > 0 {
			item.SalesCount = int(math.Floor(sales))
		}
		items = append(items, item)
	}
	return items, skipped
}

func decodeParse(content string) (ParseResult, error) {
	body := extractJSON(content)
	if body == "" || !json.Valid([]byte(body)) {
		return ParseResult{}, invalidResponse("not JSON")
	}
	var parsed struct {
		MenuItems []map[string]any `json:"menuItems"`
		Summary   string           `json:"summary"`
		Error     any              `json:"error"`
		Message   any              `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return ParseResult{}, invalidResponse("%v", err)
	}
	if parsed.Error != nil || parsed.Message != nil {
		return ParseResult{}, fmt.Errorf("%w: model could not interpret the data", models.ErrParse)
	}

	items, skipped := parsedItems(parsed.MenuItems)
	if len(items) == 0 {
		return ParseResult{}, models.ErrParse
	}
	summary := parsed.Summary
	if summary == "" {
		summary = fmt.Sprintf("Successfully parsed %d menu items", len(items))
	}
	return ParseResult{Items: items, Summary: summary, Skipped: skipped}, nil
}
