package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusDelivered
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"default:''"               json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsSuperuser  bool      `gorm:"not null;default:false"   json:"-"`
	DateJoined   time.Time `gorm:"autoCreateTime"           json:"date_joined"`
}

// GroupMembership links a user to a named role group. Superusers carry no
// membership row; the admin role comes from User.IsSuperuser.
type GroupMembership struct {
	ID     uint   `gorm:"primaryKey"                          json:"id"`
	UserID uint   `gorm:"uniqueIndex:idx_user_group;not null"                   json:"user_id"`
	Group  string `gorm:"column:group_name;uniqueIndex:idx_user_group;not null" json:"group"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey"      json:"id"`
	Slug  string `gorm:"unique;not null" json:"slug"`
	Title string `gorm:"index;not null"  json:"title"`
}

type MenuItem struct {
	ID         uint            `gorm:"primaryKey"                 json:"id"`
	Title      string          `gorm:"index;not null"             json:"title"`
	Price      decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price"`
	Featured   bool            `gorm:"index;not null"             json:"featured"`
	CategoryID uint            `gorm:"index;not null"             json:"category_id"`
	Category   *Category       `json:"category,omitempty"`
}

// CartLine snapshots the menu item price at add time. UnitPrice and Price
// never track later catalog edits.
type CartLine struct {
	ID         uint            `gorm:"primaryKey"                             json:"id"`
	UserID     uint            `gorm:"uniqueIndex:idx_user_menuitem;not null" json:"user_id"`
	MenuItemID uint            `gorm:"uniqueIndex:idx_user_menuitem;not null" json:"menu_item_id"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty"`
	Quantity   int             `gorm:"not null;check:quantity>0"              json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(8,2);not null"             json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:numeric(8,2);not null"             json:"price"`
}

func (CartLine) TableName() string { return "cart_lines" }

// Order.Total is frozen at checkout and never recomputed from the items
// afterwards.
type Order struct {
	ID             uint            `gorm:"primaryKey"                     json:"id"`
	Code           string          `gorm:"uniqueIndex;not null"           json:"code"`
	UserID         uint            `gorm:"index;not null"                 json:"user_id"`
	DeliveryCrewID *uint           `gorm:"index"                          json:"delivery_crew_id"`
	Status         OrderStatus     `gorm:"index;not null;default:pending" json:"status"`
	Total          decimal.Decimal `gorm:"type:numeric(8,2);not null"     json:"total"`
	CreatedAt      time.Time       `gorm:"index;autoCreateTime"           json:"date"`
	Items          []OrderItem     `json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Code == "" {
		o.Code = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID         uint            `gorm:"primaryKey"                              json:"id"`
	OrderID    uint            `gorm:"uniqueIndex:idx_order_menuitem;not null" json:"order_id"`
	MenuItemID uint            `gorm:"uniqueIndex:idx_order_menuitem;not null" json:"menu_item_id"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty"`
	Quantity   int             `gorm:"not null;check:quantity>0"               json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(8,2);not null"              json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:numeric(8,2);not null"              json:"price"`
}
