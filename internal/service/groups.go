package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"restaurantapi/internal/models"
	"restaurantapi/internal/repo"
)

type GroupService struct {
	Repo *repo.GormRepo
}

func groupLabel(group string) string {
	if group == models.GroupDeliveryCrew {
		return "delivery crew"
	}
	return "manager"
}

func (s *GroupService) Members(ctx context.Context, group string) ([]models.User, error) {
	return s.Repo.ListGroupMembers(ctx, group)
}

func (s *GroupService) lookupUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: User not found", ErrNotFound)
	}
	return user, err
}

func (s *GroupService) Add(ctx context.Context, userID uint, group string) error {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return err
	}
	member, err := s.Repo.InGroup(ctx, userID, group)
	if err != nil {
		return err
	}
	if member {
		return fmt.Errorf("%w: User already in %s group", ErrConflict, groupLabel(group))
	}
	return s.Repo.AddToGroup(ctx, userID, group)
}

// Member returns the user if they belong to the group. A user outside the
// group is a 400, not a 404.
func (s *GroupService) Member(ctx context.Context, userID uint, group string) (*models.User, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	member, err := s.Repo.InGroup(ctx, userID, group)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: User not in %s group", ErrValidation, groupLabel(group))
	}
	return user, nil
}

func (s *GroupService) Remove(ctx context.Context, userID uint, group string) error {
	if _, err := s.Member(ctx, userID, group); err != nil {
		return err
	}
	return s.Repo.RemoveFromGroup(ctx, userID, group)
}
