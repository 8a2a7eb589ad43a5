package models

import "github.com/Skotchmaster/food_ordering/pkg/transport"

func (u User) DTO() transport.User {
	return transport.User{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		Country:   u.Country,
		CreatedAt: u.CreatedAt,
	}
}

func (r Restaurant) DTO() transport.Restaurant {
	return transport.Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Location:    r.Location,
		Country:     r.Country,
		CuisineType: r.CuisineType,
		ImageURL:    r.ImageURL,
		Rating:      r.Rating,
	}
}

func (m MenuItem) DTO() transport.MenuItem {
	return transport.MenuItem{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		Category:     m.Category,
		ImageURL:     m.ImageURL,
		IsAvailable:  m.IsAvailable,
	}
}

func (o Order) DTO() transport.Order {
	items := make([]transport.OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = transport.OrderItem{
			ID:           it.ID,
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			Price:        it.Price,
		}
	}
	return transport.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		UserName:        o.UserName,
		RestaurantID:    o.RestaurantID,
		OrderDate:       o.OrderDate,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentMethodID: o.PaymentMethodID,
		Country:         o.Country,
		Items:           items,
	}
}

func (p PaymentMethod) DTO() transport.PaymentMethod {
	return transport.PaymentMethod{
		ID:             p.ID,
		UserID:         p.UserID,
		Type:           p.Type,
		CardLast4:      p.CardLast4,
		CardholderName: p.CardholderName,
		IsDefault:      p.IsDefault,
		CreatedAt:      p.CreatedAt,
	}
}
