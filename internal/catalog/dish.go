package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

type Category string

const (
	CategoryWok     Category = "Wok"
	CategoryPizza   Category = "Pizza"
	CategorySoup    Category = "Soup"
	CategoryDessert Category = "Dessert"
	CategoryDrink   Category = "Drink"
)

var categories = map[Category]bool{
	CategoryWok: true, CategoryPizza: true, CategorySoup: true, CategoryDessert: true, CategoryDrink: true,
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !categories[c] {
		return "", fmt.Errorf("%w: unknown category %q", apperr.ErrInvalidRequest, s)
	}
	return c, nil
}

type Sorting string

const (
	SortNameAsc    Sorting = "NameAsc"
	SortNameDesc   Sorting = "NameDesc"
	SortPriceAsc   Sorting = "PriceAsc"
	SortPriceDesc  Sorting = "PriceDesc"
	SortRatingAsc  Sorting = "RatingAsc"
	SortRatingDesc Sorting = "RatingDesc"
)

func ParseSorting(s string) (Sorting, error) {
	switch v := Sorting(s); v {
	case "", SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingAsc, SortRatingDesc:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown sorting %q", apperr.ErrInvalidRequest, s)
}

const (
	PageSize  = 10
	MinRating = 1.0
	MaxRating = 10.0
)

type Dish struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Vegetarian  bool            `json:"vegetarian"`
	Rating      *float64        `json:"rating"`
	Category    Category        `json:"category"`
}

// Filter narrows a listing. Empty Categories and nil Vegetarian match all dishes.
type Filter struct {
	Categories []Category
	Vegetarian *bool
}

type PageInfo struct {
	Size    int `json:"size"`
	Count   int `json:"count"`
	Current int `json:"current"`
}

type Page struct {
	Dishes     []Dish   `json:"dishes"`
	Pagination PageInfo `json:"pagination"`
}
