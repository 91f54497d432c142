package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"restaurantapi/internal/models"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/repo"
	"restaurantapi/internal/util"
)

type OrderService struct {
	Repo *repo.GormRepo
}

// Checkout converts the caller's cart into an order. The repo runs the whole
// sequence in one transaction; an empty cart surfaces as a validation error.
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	order, err := s.Repo.Checkout(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Cart is empty", ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

type OrderQuery struct {
	Status  string
	Page    int
	PerPage int
}

// List applies the caller's visibility scope, then the optional status filter
// (meaningful only for the manager/admin view), then pagination.
func (s *OrderService) List(ctx context.Context, role policy.Role, userID uint, q OrderQuery) ([]models.Order, error) {
	var filter repo.OrderFilter

	switch policy.OrderVisibility(role) {
	case policy.ScopeAll:
		switch q.Status {
		case "delivered":
			status := models.OrderStatusDelivered
			filter.Status = &status
		case "pending":
			status := models.OrderStatusPending
			filter.Status = &status
		}
	case policy.ScopeAssigned:
		filter.DeliveryCrewID = &userID
		status := models.OrderStatusPending
		filter.Status = &status
	default:
		filter.UserID = &userID
	}

	offset, limit := util.Calculate(q.Page, q.PerPage)
	return s.Repo.ListOrders(ctx, filter, offset, limit)
}

func (s *OrderService) Get(ctx context.Context, role policy.Role, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !policy.CanViewOrder(role, order, userID) {
		return nil, fmt.Errorf("%w: Not authorized to view this order", ErrForbidden)
	}
	return order, nil
}

// Update applies a partial order update under the caller's mutation rule.
// Managers and admins may set status and delivery crew. Delivery crew must be
// assigned to the order, may send exactly the status field, and may only move
// a pending order forward.
func (s *OrderService) Update(ctx context.Context, role policy.Role, userID, orderID uint, payload map[string]json.RawMessage) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	switch policy.OrderMutationFor(role) {
	case policy.MutateAll:
		if err := s.applyManagerUpdate(ctx, order, payload); err != nil {
			return nil, err
		}
	case policy.MutateStatusOnly:
		if order.DeliveryCrewID == nil || *order.DeliveryCrewID != userID {
			return nil, fmt.Errorf("%w: Not authorized to update this order", ErrForbidden)
		}
		if err := applyCrewUpdate(order, payload); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: Not authorized", ErrForbidden)
	}

	order.Items = nil
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return s.Repo.GetOrder(ctx, order.ID)
}

func (s *OrderService) applyManagerUpdate(ctx context.Context, order *models.Order, payload map[string]json.RawMessage) error {
	if raw, ok := payload["status"]; ok {
		status, err := parseStatus(raw)
		if err != nil {
			return err
		}
		order.Status = status
	}
	if raw, ok := payload["delivery_crew_id"]; ok {
		var crewID *uint
		if err := json.Unmarshal(raw, &crewID); err != nil {
			return fmt.Errorf("%w: delivery_crew_id must be a user id", ErrValidation)
		}
		if crewID != nil {
			if _, err := s.Repo.GetUser(ctx, *crewID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: Delivery crew user not found", ErrValidation)
				}
				return err
			}
		}
		order.DeliveryCrewID = crewID
	}
	return nil
}

func applyCrewUpdate(order *models.Order, payload map[string]json.RawMessage) error {
	for field := range payload {
		if field != "status" {
			return fmt.Errorf("%w: Only status can be updated by delivery crew", ErrValidation)
		}
	}
	raw, ok := payload["status"]
	if !ok {
		return fmt.Errorf("%w: Only status can be updated by delivery crew", ErrValidation)
	}
	status, err := parseStatus(raw)
	if err != nil {
		return err
	}
	// one-way transition: a delivered order never reopens
	if order.Status == models.OrderStatusDelivered && status == models.OrderStatusPending {
		return fmt.Errorf("%w: Order is already delivered", ErrValidation)
	}
	order.Status = status
	return nil
}

func parseStatus(raw json.RawMessage) (models.OrderStatus, error) {
	var status models.OrderStatus
	if err := json.Unmarshal(raw, &status); err != nil || !status.Valid() {
		return "", fmt.Errorf("%w: status must be %q or %q", ErrValidation,
			models.OrderStatusPending, models.OrderStatusDelivered)
	}
	return status, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	err := s.Repo.DeleteOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: Order not found", ErrNotFound)
	}
	return err
}
