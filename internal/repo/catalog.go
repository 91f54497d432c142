package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restaurantapi/internal/models"
)

// MenuItemFilter composes the optional menu listing filters with AND
// semantics. Zero values mean "no filter".
type MenuItemFilter struct {
	CategoryTitle string
	ToPrice       *decimal.Decimal
	Search        string
}

func (r *GormRepo) ListMenuItems(ctx context.Context, f MenuItemFilter, offset, limit int) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Preload("Category")

	if f.CategoryTitle != "" {
		q = q.Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("categories.title = ?", f.CategoryTitle)
	}
	if f.ToPrice != nil {
		q = q.Where("menu_items.price <= ?", *f.ToPrice)
	}
	if f.Search != "" {
		q = q.Where("LOWER(menu_items.title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var items []models.MenuItem
	if err := q.Order("menu_items.id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Preload("Category").First(item, item.ID).Error
}

func (r *GormRepo) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := r.DB.WithContext(ctx).Save(item).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Preload("Category").First(item, item.ID).Error
}

// MenuItemReferenced reports whether any cart line or order item still points
// at the menu item. Deletion is blocked while a reference exists instead of
// relying on cascade behavior.
func (r *GormRepo) MenuItemReferenced(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.CartLine{}).
		Where("menu_item_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("menu_item_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Save(cat).Error
}

func (r *GormRepo) CategoryHasItems(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
