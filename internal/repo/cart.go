package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurantapi/internal/models"
)

func (r *GormRepo) ListCartLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.DB.WithContext(ctx).Preload("MenuItem").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// CreateCartLine inserts the line unless one already exists for the same
// (user, menu item) pair. The unique index on (user_id, menu_item_id) backs
// up the pre-check, so a racing pair of adds resolves to one surviving line
// and one gorm.ErrDuplicatedKey.
func (r *GormRepo) CreateCartLine(ctx context.Context, line *models.CartLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartLine
		err := tx.Where("user_id = ? AND menu_item_id = ?", line.UserID, line.MenuItemID).
			First(&existing).Error
		if err == nil {
			return gorm.ErrDuplicatedKey
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(line).Error; err != nil {
			return err
		}
		return tx.Preload("MenuItem").First(line, line.ID).Error
	})
}

// DeleteCartLines removes every line the user owns and reports how many rows
// went away, so the caller can distinguish an already-empty cart.
func (r *GormRepo) DeleteCartLines(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}
