// Package factories generates believable demo menus for the seed command and
// for tests.
package factories

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/jaswdr/faker"
)

var dishesByCategory = map[string][]string{
	"Pizza":    {"Margherita", "Pepperoni", "Hawaiian", "Veggie Supreme"},
	"Curry":    {"Chicken Tikka Masala", "Vegetable Curry", "Beef Madras", "Paneer Butter Masala"},
	"Burgers":  {"Classic Cheeseburger", "Veggie Burger", "BBQ Bacon Burger", "Mushroom Swiss Burger"},
	"Grill":    {"Grilled Chicken", "BBQ Ribs", "Grilled Salmon", "Mixed Grill Platter"},
	"Salads":   {"Caesar Salad", "Greek Salad", "Cobb Salad", "Quinoa Salad"},
	"Drinks":   {"Chocolate Shake", "Vanilla Shake", "Fresh Lemonade", "Iced Tea"},
	"Japanese": {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
	"Mexican":  {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
	"Desserts": {"Tiramisu", "Apple Pie", "Baklava", "Mango Sticky Rice"},
	"Starters": {"Falafel", "Hummus", "Dumplings", "Tom Yum Soup"},
}

// priceBands bound the menu price per category, in whole currency units.
var priceBands = map[string][2]int{
	"Drinks":   {3, 8},
	"Desserts": {5, 12},
	"Starters": {5, 14},
	"Salads":   {8, 16},
}

var defaultPriceBand = [2]int{10, 32}

type MenuItemFactory struct {
	fake faker.Faker
}

// NewMenuItemFactory returns a factory whose output is fully determined by
// seed.
func NewMenuItemFactory(seed int64) *MenuItemFactory {
	return &MenuItemFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

func (mf *MenuItemFactory) CreateMenuItem() models.RawMenuItem {
	categories := make([]string, 0, len(dishesByCategory))
	for category := range dishesByCategory {
		categories = append(categories, category)
	}
	// map order is random; sort for a seed-stable pick
	sort.Strings(categories)
	category := mf.fake.RandomStringElement(categories)
	name := mf.fake.RandomStringElement(dishesByCategory[category])

	band, ok := priceBands[category]
	if !ok {
		band = defaultPriceBand
	}
	price := mf.fake.Float64(2, band[0], band[1])
	costRatio := mf.fake.Float64(2, 18, 65) / 100

	item := models.RawMenuItem{
		Name:       name,
		Category:   category,
		Price:      price,
		Cost:       analytics.Round2(price * costRatio),
		SalesCount: mf.fake.IntBetween(5, 400),
	}
	if mf.fake.Bool() {
		waste := mf.fake.Float64(1, 0, 30)
		item.WastePercentage = &waste
	}
	return item
}

// CreateMenu returns count items with unique names.
func (mf *MenuItemFactory) CreateMenu(count int) []models.RawMenuItem {
	items := make([]models.RawMenuItem, 0, count)
	seen := make(map[string]int, count)
	for len(items) < count {
		item := mf.CreateMenuItem()
		seen[item.Name]++
		if n := seen[item.Name]; n > 1 {
			item.Name = fmt.Sprintf("%s No. %d", item.Name, n)
		}
		items = append(items, item)
	}
	return items
}
