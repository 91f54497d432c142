package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"restaurantapi/internal/events"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/policy"
	"restaurantapi/internal/service"
	"restaurantapi/internal/transport"
)

type MenuHandler struct {
	Svc      *service.CatalogService
	Producer *events.Producer
}

func (h *MenuHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.Publish(ctx, events.TopicMenuEvents, c.Path(), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("menu event publish failed", "error", err)
	}
}

func (h *MenuHandler) List(c echo.Context) error {
	q := service.MenuItemQuery{
		Category: c.QueryParam("category"),
		ToPrice:  c.QueryParam("price"),
		Search:   c.QueryParam("search"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PerPage:  parseIntDefault(c.QueryParam("perpage"), 10),
	}

	items, err := h.Svc.ListMenuItems(c.Request().Context(), q)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) Get(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Menu item not found")
	}
	item, err := h.Svc.GetMenuItem(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create")

	_, role := currentUser(c)
	if !policy.CanManageCatalog(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return detailJSON(c, http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateMenuItem(ctx, req)
	if err != nil {
		l.Warn("create_menu_item_failed", "error", err)
		return errorJSON(c, err)
	}

	h.publish(c, map[string]any{"type": "menu_item_created", "menuItemID": item.ID, "title": item.Title})
	l.Info("menu_item_created", "id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update")

	_, role := currentUser(c)
	if !policy.CanManageCatalog(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Menu item not found")
	}

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return detailJSON(c, http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateMenuItem(ctx, id, req)
	if err != nil {
		l.Warn("update_menu_item_failed", "id", id, "error", err)
		return errorJSON(c, err)
	}

	h.publish(c, map[string]any{"type": "menu_item_updated", "menuItemID": item.ID, "title": item.Title})
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete")

	_, role := currentUser(c)
	if !policy.CanManageCatalog(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Menu item not found")
	}

	if err := h.Svc.DeleteMenuItem(ctx, id); err != nil {
		l.Warn("delete_menu_item_failed", "id", id, "error", err)
		return errorJSON(c, err)
	}

	h.publish(c, map[string]any{"type": "menu_item_deleted", "menuItemID": id})
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHandler) ListCategories(c echo.Context) error {
	cats, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *MenuHandler) GetCategory(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Category not found")
	}
	cat, err := h.Svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *MenuHandler) CreateCategory(c echo.Context) error {
	_, role := currentUser(c)
	if !policy.CanManageCatalog(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return detailJSON(c, http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *MenuHandler) UpdateCategory(c echo.Context) error {
	_, role := currentUser(c)
	if !policy.CanManageCatalog(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Category not found")
	}

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return detailJSON(c, http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *MenuHandler) DeleteCategory(c echo.Context) error {
	_, role := currentUser(c)
	if !policy.CanManageCatalog(role) {
		return detailJSON(c, http.StatusForbidden, "Not authorized")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return detailJSON(c, http.StatusNotFound, "Category not found")
	}

	if err := h.Svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
