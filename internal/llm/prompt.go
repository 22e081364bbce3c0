package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/chrisdamba/menusight/internal/models"
)

const recommendSystemPrompt = `You are an expert restaurant consultant and data analyst specializing in menu optimization and profitability analysis.
Analyze restaurant menu data and provide actionable, specific recommendations that increase profitability and efficiency.
Focus on:
- Items with high waste percentages that are losing money
- High-margin items that could be promoted more
- Pricing opportunities where items are underpriced
- Bundle opportunities to increase average order value
Be specific, data-driven, and actionable.`

const insightSystemPrompt = `You are an expert restaurant analyst providing quick, actionable insights for a dashboard.
Keep insights concise, specific, and immediately actionable.`

const parseSystemPrompt = `You are an expert at parsing POS (Point of Sale) system data.
Extract menu items with their costs, prices, and sales information.
Always return valid JSON. Never ask for clarification; make reasonable assumptions.`

const chatSystemPrompt = `You are a restaurant consultant assistant specializing in menu optimization, profitability analysis and operational efficiency.
You help restaurant owners make data-driven decisions about pricing, waste reduction, promotion, cost management and sales strategy.
Be conversational, helpful, and specific. Reference their actual menu items and data when relevant.`

type menuSummaryItem struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Cost            float64 `json:"cost"`
	Price           float64 `json:"price"`
	Margin          float64 `json:"margin"`
	SalesCount      int     `json:"salesCount"`
	Revenue         float64 `json:"revenue"`
	WastePercentage float64 `json:"wastePercentage"`
}

func buildRecommendPrompt(in AnalysisInput) string {
	summary := make([]menuSummaryItem, 0, len(in.MenuItems))
	for _, item := range in.MenuItems {
		summary = append(summary, menuSummaryItem{
			Name:            item.Name,
			Category:        item.Category,
			Cost:            item.Cost,
			Price:           item.Price,
			Margin:          item.Margin,
			SalesCount:      item.SalesCount,
			Revenue:         item.Revenue,
			WastePercentage: item.WastePercentage,
		})
	}
	menuJSON, _ := json.MarshalIndent(summary, "", "  ")

	var b strings.Builder
	b.WriteString("Analyze this restaurant menu data and provide 5-8 specific, actionable recommendations.\n\n")
	b.WriteString("Menu Items:\n")
	b.Write(menuJSON)
	if len(in.WasteData) > 0 {
		wasteJSON, _ := json.MarshalIndent(in.WasteData, "", "  ")
		b.WriteString("\n\nTop Waste Items:\n")
		b.Write(wasteJSON)
	}
	b.WriteString(`

Return ONLY valid JSON in this format:
{
  "recommendations": [
    {
      "type": "remove" | "promote" | "price-adjust" | "bundle",
      "priority": "high" | "medium" | "low",
      "title": "Short, actionable title",
      "description": "Explanation with specific data points",
      "itemName": "Menu item name if applicable",
      "currentMetrics": {"revenue": number, "margin": number, "salesCount": number},
      "expectedImpact": {"revenueChange": number, "profitChange": number},
      "confidence": number between 0 and 100
    }
  ]
}
Prioritize recommendations with the biggest positive impact on profitability.`)
	return b.String()
}

func buildInsightPrompt(in AnalysisInput) string {
	items := in.MenuItems
	var marginSum, revenueSum, wasteSum float64
	for _, item := range items {
		marginSum += item.Margin
		revenueSum += item.Revenue
		wasteSum += item.WastePercentage
	}
	n := float64(len(items))
	if n == 0 {
		n = 1
	}

	byRevenue := append([]models.MenuItem(nil), items...)
	sort.SliceStable(byRevenue, func(i, j int) bool { return byRevenue[i].Revenue > byRevenue[j].Revenue })
	byMargin := append([]models.MenuItem(nil), items...)
	sort.SliceStable(byMargin, func(i, j int) bool { return byMargin[i].Margin > byMargin[j].Margin })

	var b strings.Builder
	b.WriteString("Analyze this restaurant data and provide 3-5 key insights.\n\n")
	fmt.Fprintf(&b, "Menu Items Summary:\n- Total Items: %d\n- Average Margin: %.1f%%\n- Total Revenue: $%.2f\n- Average Waste: %.1f%%\n",
		len(items), marginSum/n, revenueSum, wasteSum/n)

	b.WriteString("\nTop 3 Revenue Items:\n")
	for _, item := range head(byRevenue, 3) {
		fmt.Fprintf(&b, "- %s: $%.2f (%.1f%% margin)\n", item.Name, item.Revenue, item.Margin)
	}
	b.WriteString("\nTop 3 Margin Items:\n")
	for _, item := range head(byMargin, 3) {
		fmt.Fprintf(&b, "- %s: %.1f%% margin ($%.2f revenue)\n", item.Name, item.Margin, item.Revenue)
	}
	b.WriteString("\nHigh Waste Items:\n")
	for _, item := range items {
		if item.WastePercentage > 10 {
			fmt.Fprintf(&b, "- %s: %.1f%% waste\n", item.Name, item.WastePercentage)
		}
	}
	b.WriteString(`
Return ONLY valid JSON in this format:
{
  "insights": [
    {
      "title": "Short title",
      "description": "Brief, specific insight",
      "impact": "positive" | "negative" | "neutral",
      "priority": "high" | "medium" | "low"
    }
  ]
}`)
	return b.String()
}

func buildParsePrompt(raw, format string) string {
	return fmt.Sprintf(`Parse this %s POS data and extract menu items.

Instructions:
1. Use the item name field for the name, not the category
2. If cost is missing, estimate it as 40%% of the selling price
3. If sales count is missing, use quantity or count, or estimate 100
4. Group by individual menu items, not by category
5. All numbers must be numeric, not strings

DATA:
%s

Return ONLY valid JSON in this exact format:
{
  "menuItems": [
    {"name": "Item name", "category": "Category", "cost": number, "price": number, "salesCount": number}
  ],
  "summary": "Brief summary of what was parsed"
}`, strings.ToUpper(format), raw)
}

func buildChatContext(req ChatRequest) string {
	var b strings.Builder
	b.WriteString(chatSystemPrompt)

	if len(req.MenuItems) > 0 {
		items := append([]models.MenuItem(nil), req.MenuItems...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Revenue > items[j].Revenue })
		b.WriteString("\n\nCurrent Menu (Top 5 by revenue):")
		for _, item := range head(items, 5) {
			fmt.Fprintf(&b, "\n- %s: $%.2f (%d sales, %.1f%% margin)", item.Name, item.Price, item.SalesCount, item.Margin)
		}
	}
	if len(req.RecentRecommendations) > 0 {
		b.WriteString("\n\nRecent Recommendations:")
		for _, rec := range head(req.RecentRecommendations, 3) {
			fmt.Fprintf(&b, "\n- %s", rec.Title)
		}
	}
	return b.String()
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
