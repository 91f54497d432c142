package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"restaurantapi/internal/hash"
	"restaurantapi/internal/models"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/repo"
)

const accessTokenTTL = 24 * time.Hour

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	if _, err := s.Repo.GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: Username already taken", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: Invalid username or password", ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("%w: Invalid username or password", ErrUnauthorized)
	}
	return s.SignAccessToken(user.ID)
}

func (s *AuthService) SignAccessToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"iat": now.Unix(),
		"exp": now.Add(accessTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

// Resolve loads the caller and derives their role from group memberships.
// Roles are read per request so a membership change takes effect immediately.
func (s *AuthService) Resolve(ctx context.Context, userID uint) (*models.User, policy.Role, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, policy.RoleCustomer, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}
	if err != nil {
		return nil, policy.RoleCustomer, err
	}
	groups, err := s.Repo.GroupsOf(ctx, userID)
	if err != nil {
		return nil, policy.RoleCustomer, err
	}
	return user, policy.ResolveRole(user, groups), nil
}
