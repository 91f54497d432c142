package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restaurantapi/internal/models"
)

// OrderFilter narrows the order listing. Exactly one of the scope fields is
// set by the service depending on the caller's role.
type OrderFilter struct {
	UserID         *uint
	DeliveryCrewID *uint
	Status         *models.OrderStatus
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).
		Preload("Items").
		Preload("Items.MenuItem")

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.DeliveryCrewID != nil {
		q = q.Where("delivery_crew_id = ?", *f.DeliveryCrewID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var orders []models.Order
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.MenuItem").
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Checkout converts the user's cart into an order in one transaction: read
// the cart lines, create the order, copy every line into an order item,
// freeze the summed total, drop the cart. Any failure rolls the whole
// sequence back, so no order ever exists with missing items or a lingering
// cart. Returns gorm.ErrRecordNotFound when the cart is empty or when a
// concurrent checkout already consumed it (the delete-count guard below).
func (r *GormRepo) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Where("user_id = ?", userID).
			Order("id ASC").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return gorm.ErrRecordNotFound
		}

		order = models.Order{
			UserID: userID,
			Status: models.OrderStatusPending,
			Total:  decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Price:      line.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			total = total.Add(item.Price)
		}

		if err := tx.Model(&order).Update("total", total).Error; err != nil {
			return err
		}
		order.Total = total

		res := tx.Where("user_id = ?", userID).Delete(&models.CartLine{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(lines)) {
			// another checkout for the same user won the race
			return gorm.ErrRecordNotFound
		}

		return tx.Preload("Items").Preload("Items.MenuItem").First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Save(order).Error
}

// DeleteOrder removes the order and its items explicitly inside one
// transaction rather than leaning on database cascade rules.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
