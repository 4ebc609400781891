package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SampleDishes is the demo menu loaded on startup when seeding is enabled.
// Ids are fixed so repeated seeding is a no-op.
func SampleDishes() []Dish {
	return []Dish{
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000001", "Margherita", "Tomato, mozzarella, basil", "10.00", true, CategoryPizza),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000002", "Pepperoni", "Tomato, mozzarella, pepperoni", "12.50", false, CategoryPizza),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000003", "Chicken Wok", "Egg noodles, chicken, vegetables", "11.00", false, CategoryWok),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000004", "Tofu Wok", "Rice noodles, tofu, peanuts", "9.50", true, CategoryWok),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000005", "Tom Yum", "Shrimp, lemongrass, coconut milk", "8.00", false, CategorySoup),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000006", "Minestrone", "Seasonal vegetables, pasta", "6.50", true, CategorySoup),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000007", "Tiramisu", "Mascarpone, espresso, cocoa", "5.00", true, CategoryDessert),
		sample("6c1f1d2e-4a8b-4f4e-9a51-000000000008", "Cola", "0.5 l", "2.00", true, CategoryDrink),
	}
}

func sample(id, name, description, price string, vegetarian bool, category Category) Dish {
	return Dish{
		ID:          uuid.MustParse(id),
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Image:       fmt.Sprintf("/images/dishes/%s.jpg", id),
		Vegetarian:  vegetarian,
		Category:    category,
	}
}

// Seed inserts dishes that are not present yet.
func (r *PGRepo) Seed(ctx context.Context, dishes []Dish) error {
	for _, d := range dishes {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO dishes(`+dishColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO NOTHING`,
			d.ID, d.Name, d.Description, d.Price, d.Image, d.Vegetarian, d.Rating, string(d.Category))
		if err != nil {
			return fmt.Errorf("cannot seed dish %s: %w", d.Name, err)
		}
	}
	return nil
}
