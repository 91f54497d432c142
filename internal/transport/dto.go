package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"restaurantapi/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type CategoryRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type MenuItemRequest struct {
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Featured   bool            `json:"featured"`
	CategoryID uint            `json:"category_id"`
}

// AddCartLineRequest carries a new cart line. Quantity is a pointer so an
// absent field can default to one while an explicit zero is rejected.
type AddCartLineRequest struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   *int `json:"quantity"`
}

type GroupMemberRequest struct {
	ID uint `json:"id"`
}

// UserView is the public user shape for group membership listings.
type UserView struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	DateJoined string `json:"date_joined"`
}

func NewUserView(u models.User) UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		DateJoined: u.DateJoined.Format("2006-01-02"),
	}
}

func NewUserViews(users []models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}

// CartMenuItemView exposes just the display fields of the referenced menu
// item inside a cart line.
type CartMenuItemView struct {
	ID    uint            `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type CartLineView struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	MenuItem  CartMenuItemView `json:"menu_item"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Price     decimal.Decimal  `json:"price"`
}

func NewCartLineView(line models.CartLine) CartLineView {
	v := CartLineView{
		ID:        line.ID,
		UserID:    line.UserID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Price:     line.Price,
	}
	if line.MenuItem != nil {
		v.MenuItem = CartMenuItemView{
			ID:    line.MenuItem.ID,
			Title: line.MenuItem.Title,
			Price: line.MenuItem.Price,
		}
	}
	return v
}

func NewCartLineViews(lines []models.CartLine) []CartLineView {
	views := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, NewCartLineView(line))
	}
	return views
}

// OrderItemView names the menu item by title rather than id. This is a
// deliberate denormalization for the order views only.
type OrderItemView struct {
	ID        uint            `json:"id"`
	MenuItem  string          `json:"menu_item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Price     decimal.Decimal `json:"price"`
}

type OrderView struct {
	ID             uint               `json:"id"`
	Code           string             `json:"code"`
	UserID         uint               `json:"user_id"`
	DeliveryCrewID *uint              `json:"delivery_crew_id"`
	Status         models.OrderStatus `json:"status"`
	Total          decimal.Decimal    `json:"total"`
	Date           time.Time          `json:"date"`
	Items          []OrderItemView    `json:"items"`
}

func NewOrderView(order models.Order) OrderView {
	items := make([]OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		view := OrderItemView{
			ID:        item.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Price:     item.Price,
		}
		if item.MenuItem != nil {
			view.MenuItem = item.MenuItem.Title
		}
		items = append(items, view)
	}
	return OrderView{
		ID:             order.ID,
		Code:           order.Code,
		UserID:         order.UserID,
		DeliveryCrewID: order.DeliveryCrewID,
		Status:         order.Status,
		Total:          order.Total,
		Date:           order.CreatedAt,
		Items:          items,
	}
}

func NewOrderViews(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, NewOrderView(order))
	}
	return views
}
