package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"restaurantapi/internal/models"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/service"
	"restaurantapi/internal/transport"
)

// GroupHandler serves the role-membership endpoints. Each handler method is a
// factory taking the group name so the manager and delivery-crew routes share
// one implementation.
type GroupHandler struct {
	Svc *service.GroupService
}

func groupLabel(group string) string {
	if group == models.GroupDeliveryCrew {
		return "delivery crew"
	}
	return "manager"
}

func (h *GroupHandler) gate(c echo.Context) error {
	_, role := currentUser(c)
	if !policy.CanManageGroups(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}
	return nil
}

func (h *GroupHandler) Members(group string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.gate(c); err != nil {
			return err
		}
		users, err := h.Svc.Members(c.Request().Context(), group)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, transport.NewUserViews(users))
	}
}

func (h *GroupHandler) Add(group string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.gate(c); err != nil {
			return err
		}

		var req transport.GroupMemberRequest
		if err := c.Bind(&req); err != nil {
			return detailJSON(c, http.StatusBadRequest, "invalid body")
		}
		if req.ID == 0 {
			return detailJSON(c, http.StatusBadRequest, "User ID required")
		}

		if err := h.Svc.Add(c.Request().Context(), req.ID, group); err != nil {
			return errorJSON(c, err)
		}
		return detailJSON(c, http.StatusCreated,
			fmt.Sprintf("User added to %s group", groupLabel(group)))
	}
}

func (h *GroupHandler) Member(group string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.gate(c); err != nil {
			return err
		}

		id, err := parseUintParam(c, "id")
		if err != nil {
			return detailJSON(c, http.StatusNotFound, "User not found")
		}

		user, err := h.Svc.Member(c.Request().Context(), id, group)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, transport.NewUserView(*user))
	}
}

func (h *GroupHandler) Remove(group string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.gate(c); err != nil {
			return err
		}

		id, err := parseUintParam(c, "id")
		if err != nil {
			return detailJSON(c, http.StatusNotFound, "User not found")
		}

		if err := h.Svc.Remove(c.Request().Context(), id, group); err != nil {
			return errorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
