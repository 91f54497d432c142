// Package policy holds every role-based access decision in one place. Each
// function is pure: handlers resolve the caller's role once and consult these
// before touching storage, so all 403s trace back to a single spot.
package policy

import "restaurantapi/internal/models"

type Role int

const (
	RoleCustomer Role = iota
	RoleDeliveryCrew
	RoleManager
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleDeliveryCrew:
		return "delivery_crew"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "customer"
	}
}

// ResolveRole maps a user and their group memberships to a single role.
// Superuser wins over any membership, Manager over Delivery Crew.
func ResolveRole(user *models.User, groups []string) Role {
	if user.IsSuperuser {
		return RoleAdmin
	}
	for _, g := range groups {
		if g == models.GroupManager {
			return RoleManager
		}
	}
	for _, g := range groups {
		if g == models.GroupDeliveryCrew {
			return RoleDeliveryCrew
		}
	}
	return RoleCustomer
}

// CanManageCatalog gates create/update/delete of menu items and categories.
func CanManageCatalog(r Role) bool {
	return r == RoleManager || r == RoleAdmin
}

// CanManageGroups gates adding and removing Manager / Delivery Crew members.
func CanManageGroups(r Role) bool {
	return r == RoleManager || r == RoleAdmin
}

// CanUseCart admits plain customers only. Managers, admins and delivery crew
// all get a hard 403 on every cart operation.
func CanUseCart(r Role) bool {
	return r == RoleCustomer
}

// CanCheckout matches CanUseCart: only a customer owns a cart to convert.
func CanCheckout(r Role) bool {
	return r == RoleCustomer
}

func CanDeleteOrder(r Role) bool {
	return r == RoleManager || r == RoleAdmin
}

// OrderScope names the slice of orders a role may list.
type OrderScope int

const (
	// ScopeAll: every order, optionally filtered by status.
	ScopeAll OrderScope = iota
	// ScopeAssigned: orders assigned to the caller that are still pending.
	ScopeAssigned
	// ScopeOwn: orders the caller created, any status.
	ScopeOwn
)

func OrderVisibility(r Role) OrderScope {
	switch r {
	case RoleManager, RoleAdmin:
		return ScopeAll
	case RoleDeliveryCrew:
		return ScopeAssigned
	default:
		return ScopeOwn
	}
}

// CanViewOrder decides single-order access: customers must own the order,
// delivery crew must be the assigned crew, managers and admins see all.
func CanViewOrder(r Role, order *models.Order, userID uint) bool {
	switch r {
	case RoleManager, RoleAdmin:
		return true
	case RoleDeliveryCrew:
		return order.DeliveryCrewID != nil && *order.DeliveryCrewID == userID
	default:
		return order.UserID == userID
	}
}

// OrderMutation names what an update request may touch.
type OrderMutation int

const (
	// MutateNone: request is denied outright.
	MutateNone OrderMutation = iota
	// MutateStatusOnly: payload must contain exactly the status field and the
	// caller must be the assigned crew.
	MutateStatusOnly
	// MutateAll: partial update of status and delivery crew.
	MutateAll
)

func OrderMutationFor(r Role) OrderMutation {
	switch r {
	case RoleManager, RoleAdmin:
		return MutateAll
	case RoleDeliveryCrew:
		return MutateStatusOnly
	default:
		return MutateNone
	}
}
