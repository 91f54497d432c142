package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"restaurantapi/internal/logging"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/service"
	"restaurantapi/internal/transport"
)

type CartHandler struct {
	Svc *service.CartService
}

// Every cart operation is customer-only; managers, admins and delivery crew
// get a hard 403 regardless of method.
func (h *CartHandler) gate(c echo.Context) error {
	_, role := currentUser(c)
	if !policy.CanUseCart(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}
	return nil
}

func (h *CartHandler) List(c echo.Context) error {
	if err := h.gate(c); err != nil {
		return err
	}
	user, _ := currentUser(c)

	lines, err := h.Svc.List(c.Request().Context(), user.ID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, transport.NewCartLineViews(lines))
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	if err := h.gate(c); err != nil {
		return err
	}
	user, _ := currentUser(c)

	var req transport.AddCartLineRequest
	if err := c.Bind(&req); err != nil {
		return detailJSON(c, http.StatusBadRequest, "invalid body")
	}

	// absent quantity defaults to one; an explicit zero is rejected
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.Svc.Add(ctx, user.ID, req.MenuItemID, quantity)
	if err != nil {
		l.Warn("add_to_cart_failed", "user_id", user.ID, "error", err)
		return errorJSON(c, err)
	}

	l.Info("cart_line_added", "user_id", user.ID, "menu_item_id", req.MenuItemID)
	return c.JSON(http.StatusCreated, transport.NewCartLineView(*line))
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.gate(c); err != nil {
		return err
	}
	user, _ := currentUser(c)

	if err := h.Svc.Clear(ctx, user.ID); err != nil {
		return errorJSON(c, err)
	}

	l.Info("cart_cleared", "user_id", user.ID)
	return c.NoContent(http.StatusNoContent)
}
