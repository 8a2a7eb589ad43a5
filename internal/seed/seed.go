package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/internal/hash"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type seedUser struct {
	username, fullName, password string
	role                         access.Role
	country                      access.Country
}

var users = []seedUser{
	{"nickfury", "Nick Fury", "admin123", access.RoleAdmin, access.CountryAmerica},
	{"captainmarvel", "Captain Marvel", "manager123", access.RoleManager, access.CountryIndia},
	{"captainamerica", "Captain America", "manager123", access.RoleManager, access.CountryAmerica},
	{"thanos", "Thanos", "member123", access.RoleMember, access.CountryIndia},
	{"thor", "Thor", "member123", access.RoleMember, access.CountryIndia},
	{"travis", "Travis", "member123", access.RoleMember, access.CountryAmerica},
}

const img = "https://images.unsplash.com/"

var restaurants = []models.Restaurant{
	{Name: "Spice Garden", Location: "Mumbai, India", Country: access.CountryIndia, CuisineType: "Indian", ImageURL: img + "photo-1517248135467-4c7edcad34c4?w=400", Rating: 4.5},
	{Name: "Tandoor Palace", Location: "Delhi, India", Country: access.CountryIndia, CuisineType: "North Indian", ImageURL: img + "photo-1552566626-52f8b828add9?w=400", Rating: 4.7},
	{Name: "Curry House", Location: "Bangalore, India", Country: access.CountryIndia, CuisineType: "South Indian", ImageURL: img + "photo-1514933651103-005eec06c04b?w=400", Rating: 4.3},
	{Name: "Biryani Junction", Location: "Hyderabad, India", Country: access.CountryIndia, CuisineType: "Hyderabadi", ImageURL: img + "photo-1546069901-ba9599a7e63c?w=400", Rating: 4.8},
	{Name: "Masala Magic", Location: "Pune, India", Country: access.CountryIndia, CuisineType: "Multi-cuisine", ImageURL: img + "photo-1555939594-58d7cb561ad1?w=400", Rating: 4.4},
	{Name: "The Burger Joint", Location: "New York, USA", Country: access.CountryAmerica, CuisineType: "American", ImageURL: img + "photo-1550547660-d9450f859349?w=400", Rating: 4.6},
	{Name: "Pizza Paradise", Location: "Chicago, USA", Country: access.CountryAmerica, CuisineType: "Italian", ImageURL: img + "photo-1513104890138-7c749659a591?w=400", Rating: 4.7},
	{Name: "Steakhouse Deluxe", Location: "Texas, USA", Country: access.CountryAmerica, CuisineType: "Steakhouse", ImageURL: img + "photo-1504674900247-0877df9cc836?w=400", Rating: 4.9},
	{Name: "Taco Fiesta", Location: "Los Angeles, USA", Country: access.CountryAmerica, CuisineType: "Mexican", ImageURL: img + "photo-1565299624946-b28f40a0ae38?w=400", Rating: 4.5},
	{Name: "Seafood Bay", Location: "Seattle, USA", Country: access.CountryAmerica, CuisineType: "Seafood", ImageURL: img + "photo-1559339352-11d035aa65de?w=400", Rating: 4.8},
}

type dish struct {
	name, description, price, category, image string
}

var menus = map[string][]dish{
	"Spice Garden": {
		{"Butter Chicken", "Creamy tomato-based curry with tender chicken", "350", "Main Course", "photo-1603894584373-5ac82b2ae398?w=300"},
		{"Paneer Tikka", "Grilled cottage cheese with spices", "280", "Appetizer", "photo-1631452180519-c014fe946bc7?w=300"},
		{"Garlic Naan", "Soft bread with garlic and butter", "60", "Breads", "photo-1619467944452-00e6449c13f7?w=300"},
		{"Mango Lassi", "Sweet yogurt drink with mango", "80", "Beverages", "photo-1568906947865-79874f5e3bf3?w=300"},
	},
	"The Burger Joint": {
		{"Classic Beef Burger", "Juicy beef patty with lettuce, tomato, and cheese", "12.99", "Burgers", "photo-1568901346375-23c9450c58cd?w=300"},
		{"Chicken Wings", "Crispy wings with BBQ sauce", "9.99", "Appetizer", "photo-1527477396000-e27163b481c2?w=300"},
		{"French Fries", "Crispy golden fries", "4.99", "Sides", "photo-1576107232684-1279f390859f?w=300"},
		{"Coke", "Refreshing cola", "2.99", "Beverages", "photo-1554866585-cd94860890b7?w=300"},
	},
}

var defaultMenu = []dish{
	{"Special Dish", "Chef's special", "15.99", "Main Course", "photo-1546069901-ba9599a7e63c?w=300"},
	{"Appetizer", "Starter dish", "7.99", "Appetizer", "photo-1559847844-5315695dadae?w=300"},
	{"Dessert", "Sweet ending", "6.99", "Dessert", "photo-1488477181946-6428a0291777?w=300"},
}

func menuFor(name string) []models.MenuItem {
	dishes, ok := menus[name]
	if !ok {
		dishes = defaultMenu
	}
	items := make([]models.MenuItem, len(dishes))
	for i, d := range dishes {
		items[i] = models.MenuItem{
			Name:        d.name,
			Description: d.description,
			Price:       decimal.RequireFromString(d.price),
			Category:    d.category,
			ImageURL:    img + d.image,
			IsAvailable: true,
		}
	}
	return items
}

func strPtr(s string) *string { return &s }

// Seed fills an empty database with the demo users, restaurants, menus and
// payment methods. It does nothing once any user exists. cost is the bcrypt
// cost, 0 means the default.
func Seed(ctx context.Context, r *repo.GormRepo, cost int) (bool, error) {
	l := logging.FromContext(ctx).With("component", "seed")

	n, err := r.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		l.Info("seed_skipped", "reason", "database already seeded")
		return false, nil
	}

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txr := &repo.GormRepo{DB: tx}

		ids := make(map[string]string, len(users))
		for _, su := range users {
			pw, err := hashPassword(su.password, cost)
			if err != nil {
				return err
			}
			u := models.User{
				Username: su.username, FullName: su.fullName, PasswordHash: pw,
				Role: su.role, Country: su.country,
			}
			if err := txr.CreateUserIfNotExists(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", su.username, err)
			}
			ids[su.username] = u.ID
		}

		for _, rest := range restaurants {
			rest.MenuItems = menuFor(rest.Name)
			if err := txr.CreateRestaurant(ctx, &rest); err != nil {
				return fmt.Errorf("seed restaurant %s: %w", rest.Name, err)
			}
		}

		for _, pm := range []models.PaymentMethod{
			{UserID: ids["nickfury"], Type: transport.PaymentCreditCard, CardLast4: strPtr("4242"), CardholderName: strPtr("Nick Fury"), IsDefault: true},
			{UserID: ids["captainmarvel"], Type: transport.PaymentUPI, CardholderName: strPtr("Captain Marvel"), IsDefault: true},
		} {
			if err := txr.CreatePaymentMethod(ctx, &pm); err != nil {
				return fmt.Errorf("seed payment method: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		l.Error("seed_failed", "error", err)
		return false, err
	}

	l.Info("seed_completed", "users", len(users), "restaurants", len(restaurants))
	return true, nil
}

func hashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		return hash.HashPassword(pw)
	}
	return hash.HashPasswordCost(pw, cost)
}
