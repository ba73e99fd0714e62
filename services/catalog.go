package services

import (
	"context"
	"log"
	"strings"

	"cafe-telegram/models"
)

// MenuFetcher is the remote side of the catalog provider.
type MenuFetcher interface {
	FetchMenu(ctx context.Context) ([]models.MenuItem, error)
}

// FallbackMenu is the built-in menu used when no remote service is configured
// or the fetch fails. Mirrors the café's published sheet (active items only).
var FallbackMenu = []models.MenuItem{
	{ID: "C001", Category: models.CategoryColdBeverage, Name: "Iced Dark Cocoa Ovaltine", Price: 150, IsCold: true, Image: "/images/C001.png"},
	{ID: "C003", Category: models.CategoryColdBeverage, Name: "Strawberry Sunrise", Price: 160, IsCold: true, Image: "/images/C003.png"},
	{ID: "C006", Category: models.CategoryColdBeverage, Name: "Blueberry Milk", Price: 170, IsCold: true, Image: "/images/C006.png"},
	{ID: "C008", Category: models.CategoryColdBeverage, Name: "Caramel Macchiato Frappe", Price: 180, IsCold: true, Image: "/images/C008.png"},
	{ID: "C009", Category: models.CategoryColdBeverage, Name: "Creamy Double Dutch Frappe", Price: 180, IsCold: true, Image: "/images/C009.png"},
	{ID: "C010", Category: models.CategoryColdBeverage, Name: "Lush Oreo Frappe", Price: 180, IsCold: true, Image: "/images/C010.png"},
	{ID: "C004", Category: models.CategoryCoffee, Name: "Coffee Frost", Price: 150, IsCold: true, Image: "/images/C004.jpg"},
	{ID: "C005", Category: models.CategoryCoffee, Name: "Katapang", Price: 140, IsCold: true, Image: "/images/C005.png"},
	{ID: "H001", Category: models.CategoryCoffee, Name: "Hot Americano", Price: 120, IsHot: true, Image: "/images/H001.png"},
	{ID: "H002", Category: models.CategoryCoffee, Name: "Hot Spanish Latte", Price: 150, IsHot: true, Image: "/images/H002.png"},
	{ID: "H003", Category: models.CategoryCoffee, Name: "Hot Cafe Mocha", Price: 160, IsHot: true, Image: "/images/H003.png"},
	{ID: "H004", Category: models.CategoryCoffee, Name: "Cinnamon Espresso Latte", Price: 130, IsHot: true, Image: "/images/H004.png"},
	{ID: "H007", Category: models.CategoryCoffee, Name: "Cinnamon Espresso Choco Latte", Price: 130, IsHot: true, Image: "/images/H007.png"},
	{ID: "P001", Category: models.CategoryPastry, Name: "Banana Bread Loaf", Price: 180, IsHot: true, Image: "/images/P001.png"},
	{ID: "P002", Category: models.CategoryPastry, Name: "Banana Bread Cupcake", Price: 85, Image: "/images/P002.png"},
	{ID: "S001", Category: models.CategorySoda, Name: "Strawberry Soda", Price: 120, IsCold: true, Image: "/images/S001.png"},
	{ID: "S002", Category: models.CategorySoda, Name: "Blueberry Soda", Price: 120, IsCold: true, Image: "/images/S002.png"},
}

// LoadMenu returns the orderable menu. It makes a single remote attempt; when
// no remote is configured (nil fetcher) or the fetch fails or the response
// carries no menu field, it returns the built-in list instead. It never
// returns an error. Items priced at zero or below are dropped either way.
func LoadMenu(ctx context.Context, remote MenuFetcher) []models.MenuItem {
	if remote == nil {
		return visibleItems(FallbackMenu)
	}
	items, err := remote.FetchMenu(ctx)
	if err != nil {
		log.Printf("menu fetch failed, using built-in menu: %v", err)
		return visibleItems(FallbackMenu)
	}
	if items == nil {
		return visibleItems(FallbackMenu)
	}
	return visibleItems(items)
}

func visibleItems(items []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Price > 0 {
			out = append(out, it)
		}
	}
	return out
}

// FilterByCategory narrows the menu to one category key, case-insensitively.
// The key "all" (or empty) passes everything through.
func FilterByCategory(items []models.MenuItem, key string) []models.MenuItem {
	if key == "" || strings.EqualFold(key, "all") {
		return items
	}
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.Category, key) {
			out = append(out, it)
		}
	}
	return out
}
