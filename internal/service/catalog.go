package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restaurantapi/internal/models"
	"restaurantapi/internal/repo"
	"restaurantapi/internal/transport"
	"restaurantapi/internal/util"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

// MenuItemQuery carries the raw listing query params. Filters compose with
// AND; filtering happens before pagination and an out-of-range page yields an
// empty list.
type MenuItemQuery struct {
	Category string
	ToPrice  string
	Search   string
	Page     int
	PerPage  int
}

func (s *CatalogService) ListMenuItems(ctx context.Context, q MenuItemQuery) ([]models.MenuItem, error) {
	filter := repo.MenuItemFilter{
		CategoryTitle: q.Category,
		Search:        q.Search,
	}
	if q.ToPrice != "" {
		price, err := decimal.NewFromString(q.ToPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: price must be a number", ErrValidation)
		}
		filter.ToPrice = &price
	}

	offset, limit := util.Calculate(q.Page, q.PerPage)
	return s.Repo.ListMenuItems(ctx, filter, offset, limit)
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Menu item not found", ErrNotFound)
	}
	return item, err
}

func (s *CatalogService) validateMenuItem(ctx context.Context, req transport.MenuItemRequest) error {
	if req.Title == "" {
		return fmt.Errorf("%w: Title is required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: Price must not be negative", ErrValidation)
	}
	if req.CategoryID == 0 {
		return fmt.Errorf("%w: Category is required", ErrValidation)
	}
	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: Category not found", ErrValidation)
		}
		return err
	}
	return nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, req transport.MenuItemRequest) (*models.MenuItem, error) {
	if err := s.validateMenuItem(ctx, req); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		Title:      req.Title,
		Price:      req.Price.Round(2),
		Featured:   req.Featured,
		CategoryID: req.CategoryID,
	}
	if err := s.Repo.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem is a full replace: every field of the request overwrites the
// stored item.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uint, req transport.MenuItemRequest) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateMenuItem(ctx, req); err != nil {
		return nil, err
	}
	item.Title = req.Title
	item.Price = req.Price.Round(2)
	item.Featured = req.Featured
	item.CategoryID = req.CategoryID
	item.Category = nil
	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	if _, err := s.GetMenuItem(ctx, id); err != nil {
		return err
	}
	referenced, err := s.Repo.MenuItemReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: Menu item is referenced by carts or orders", ErrValidation)
	}
	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: Menu item not found", ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Category not found", ErrNotFound)
	}
	return cat, err
}

func validateCategory(req transport.CategoryRequest) error {
	if req.Title == "" {
		return fmt.Errorf("%w: Title is required", ErrValidation)
	}
	if req.Slug == "" {
		return fmt.Errorf("%w: Slug is required", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	cat := &models.Category{Slug: req.Slug, Title: req.Title}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: Slug already exists", ErrConflict)
		}
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	cat, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateCategory(req); err != nil {
		return nil, err
	}
	cat.Slug = req.Slug
	cat.Title = req.Title
	if err := s.Repo.SaveCategory(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: Slug already exists", ErrConflict)
		}
		return nil, err
	}
	return cat, nil
}

// DeleteCategory refuses while menu items still reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	hasItems, err := s.Repo.CategoryHasItems(ctx, id)
	if err != nil {
		return err
	}
	if hasItems {
		return fmt.Errorf("%w: Category has menu items attached", ErrValidation)
	}
	return s.Repo.DeleteCategory(ctx, id)
}
