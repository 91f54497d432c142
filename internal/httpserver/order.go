package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"restaurantapi/internal/events"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/service"
	"restaurantapi/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, events.TopicOrderEvents, c.Path(), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("order event publish failed", "error", err)
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	user, role := currentUser(c)
	if !policy.CanCheckout(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	order, err := h.Svc.Checkout(ctx, user.ID)
	if err != nil {
		l.Warn("checkout_failed", "user_id", user.ID, "error", err)
		return errorJSON(c, err)
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  order.UserID,
		"total":   order.Total,
	})
	l.Info("order_created", "order_id", order.ID, "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.NewOrderView(*order))
}

func (h *OrderHandler) List(c echo.Context) error {
	user, role := currentUser(c)

	q := service.OrderQuery{
		Status:  c.QueryParam("status"),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("perpage"), 10),
	}

	orders, err := h.Svc.List(c.Request().Context(), role, user.ID, q)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderViews(orders))
}

func (h *OrderHandler) Get(c echo.Context) error {
	user, role := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Order not found")
	}

	order, err := h.Svc.Get(c.Request().Context(), role, user.ID, id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderView(*order))
}

func (h *OrderHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	user, role := currentUser(c)

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Order not found")
	}

	var payload map[string]json.RawMessage
	if err := c.Bind(&payload); err != nil {
		return detailJSON(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Update(ctx, role, user.ID, id, payload)
	if err != nil {
		l.Warn("update_order_failed", "order_id", id, "error", err)
		return errorJSON(c, err)
	}

	h.publish(c, map[string]any{
		"type":    "order_updated",
		"orderID": order.ID,
		"status":  order.Status,
	})
	l.Info("order_updated", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, transport.NewOrderView(*order))
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	_, role := currentUser(c)
	if !policy.CanDeleteOrder(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Order not found")
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return errorJSON(c, err)
	}

	h.publish(c, map[string]any{"type": "order_deleted", "orderID": id})
	l.Info("order_deleted", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
