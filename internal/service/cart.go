package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restaurantapi/internal/models"
	"restaurantapi/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) List(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.Repo.ListCartLines(ctx, userID)
}

// Add snapshots the current menu item price into a new cart line. Re-adding
// an item already in the cart is rejected, never merged.
func (s *CartService) Add(ctx context.Context, userID, menuItemID uint, quantity int) (*models.CartLine, error) {
	// resolve the item first: an unknown item is a 404 even when the
	// quantity is also bad
	item, err := s.Repo.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Menu item not found", ErrNotFound)
		}
		return nil, err
	}

	if quantity < 1 {
		return nil, fmt.Errorf("%w: Quantity must be at least 1", ErrValidation)
	}

	unitPrice := item.Price.Round(2)
	line := &models.CartLine{
		UserID:     userID,
		MenuItemID: item.ID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Price:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}

	if err := s.Repo.CreateCartLine(ctx, line); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: Item already in cart", ErrConflict)
		}
		return nil, err
	}
	return line, nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	deleted, err := s.Repo.DeleteCartLines(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: Cart is already empty", ErrNotFound)
	}
	return nil
}
