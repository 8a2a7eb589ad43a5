package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_ordering/internal/access"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36"`
	Username     string         `gorm:"uniqueIndex;not null"`
	FullName     string         `gorm:"not null"`
	PasswordHash string         `gorm:"not null"`
	Role         access.Role    `gorm:"not null;index"`
	Country      access.Country `gorm:"not null;index"`
	CreatedAt    time.Time
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null;size:36"`
	Token     string `gorm:"uniqueIndex;not null"`
	JTI       string `gorm:"uniqueIndex;not null"`
	ExpiresAt int64  `gorm:"not null"`
	Revoked   bool   `gorm:"default:false"`
}

type Restaurant struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Name        string         `gorm:"not null"`
	Location    string         `gorm:"not null"`
	Country     access.Country `gorm:"not null;index"`
	CuisineType string         `gorm:"not null"`
	ImageURL    string
	Rating      float64    `gorm:"default:4.5"`
	MenuItems   []MenuItem `gorm:"foreignKey:RestaurantID"`
}

type MenuItem struct {
	ID           string          `gorm:"primaryKey;size:36"`
	RestaurantID string          `gorm:"index;not null;size:36"`
	Name         string          `gorm:"not null"`
	Description  string
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Category     string          `gorm:"not null"`
	ImageURL     string
	IsAvailable  bool `gorm:"not null;default:true"`
}

type Order struct {
	ID              string                `gorm:"primaryKey;size:36"`
	UserID          string                `gorm:"index;not null;size:36"`
	UserName        string                `gorm:"not null"`
	RestaurantID    string                `gorm:"index;not null;size:36"`
	OrderDate       time.Time             `gorm:"index;not null"`
	TotalAmount     decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Status          transport.OrderStatus `gorm:"not null;index"`
	PaymentMethodID *string               `gorm:"size:36"`
	Country         access.Country        `gorm:"not null;index"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID           string          `gorm:"primaryKey;size:36"`
	OrderID      string          `gorm:"index;not null;size:36"`
	MenuItemID   string          `gorm:"not null;size:36"`
	MenuItemName string          `gorm:"not null"`
	Quantity     int             `gorm:"not null;check:quantity>0"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

type PaymentMethod struct {
	ID             string                      `gorm:"primaryKey;size:36"`
	UserID         string                      `gorm:"index;not null;size:36"`
	Type           transport.PaymentMethodType `gorm:"not null"`
	CardLast4      *string                     `gorm:"size:4"`
	CardholderName *string
	IsDefault      bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// All is the AutoMigrate set, parents first.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &Restaurant{}, &MenuItem{},
		&Order{}, &OrderItem{}, &PaymentMethod{},
	}
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error          { newID(&u.ID); return nil }
func (r *Restaurant) BeforeCreate(*gorm.DB) error    { newID(&r.ID); return nil }
func (m *MenuItem) BeforeCreate(*gorm.DB) error      { newID(&m.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error         { newID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error     { newID(&i.ID); return nil }
func (p *PaymentMethod) BeforeCreate(*gorm.DB) error { newID(&p.ID); return nil }
