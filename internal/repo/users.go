package repo

import (
	"context"

	"restaurantapi/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) GroupsOf(ctx context.Context, userID uint) ([]string, error) {
	var groups []string
	if err := r.DB.WithContext(ctx).Model(&models.GroupMembership{}).
		Where("user_id = ?", userID).
		Pluck("group_name", &groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *GormRepo) ListGroupMembers(ctx context.Context, group string) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).
		Joins("JOIN group_memberships ON group_memberships.user_id = users.id").
		Where("group_memberships.group_name = ?", group).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) InGroup(ctx context.Context, userID uint, group string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.GroupMembership{}).
		Where("user_id = ? AND group_name = ?", userID, group).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) AddToGroup(ctx context.Context, userID uint, group string) error {
	return r.DB.WithContext(ctx).Create(&models.GroupMembership{UserID: userID, Group: group}).Error
}

func (r *GormRepo) RemoveFromGroup(ctx context.Context, userID uint, group string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND group_name = ?", userID, group).
		Delete(&models.GroupMembership{}).Error
}
