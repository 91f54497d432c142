package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurantapi/internal/models"
	"restaurantapi/internal/transport"
)

func (env *testEnv) addToCart(user *models.User, item *models.MenuItem, qty int) {
	rec, c := env.doJSONRequest(http.MethodPost, "/cart/menu-items",
		map[string]any{"menu_item_id": item.ID, "quantity": qty})
	env.as(c, user)
	require.NoError(env.T, env.Cart.Add(c))
	require.Equal(env.T, http.StatusCreated, rec.Code)
}

func (env *testEnv) checkout(user *models.User) transport.OrderView {
	rec, c := env.doJSONRequest(http.MethodPost, "/orders", nil)
	env.as(c, user)
	require.NoError(env.T, env.Order.Checkout(c))
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var order transport.OrderView
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")

	rec, c := env.doJSONRequest(http.MethodPost, "/orders", nil)
	env.as(c, customer)
	require.NoError(t, env.Order.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	requireDetail(t, rec, "Cart is empty")

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCheckoutForbiddenForNonCustomers(t *testing.T) {
	env := newTestEnv(t)
	for _, user := range []*models.User{
		env.seedUser("mgr", models.GroupManager),
		env.seedUser("crew", models.GroupDeliveryCrew),
		env.seedAdmin("root"),
	} {
		rec, c := env.doJSONRequest(http.MethodPost, "/orders", nil)
		env.as(c, user)
		require.NoError(t, env.Order.Checkout(c))
		require.Equal(t, http.StatusForbidden, rec.Code, "user %s", user.Username)
	}
}

func TestCheckoutConvertsCartAtomically(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)
	soup := env.seedMenuItem("Soup", "4.25", cat)

	env.addToCart(customer, fish, 3)
	env.addToCart(customer, soup, 2)

	order := env.checkout(customer)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.NotEmpty(t, order.Code)
	require.True(t, order.Total.Equal(dec("46.00")), "total %s", order.Total)
	require.Len(t, order.Items, 2)
	require.Equal(t, "Grilled Fish", order.Items[0].MenuItem)
	require.Equal(t, 3, order.Items[0].Quantity)
	require.True(t, order.Items[0].UnitPrice.Equal(dec("12.50")))
	require.True(t, order.Items[0].Price.Equal(dec("37.50")))

	// cart is gone afterwards
	var cartCount int64
	require.NoError(t, env.DB.Model(&models.CartLine{}).Where("user_id = ?", customer.ID).Count(&cartCount).Error)
	require.Zero(t, cartCount)

	// total is the stored value, not a later recomputation
	var stored models.Order
	require.NoError(t, env.DB.First(&stored, order.ID).Error)
	require.True(t, stored.Total.Equal(dec("46.00")))
}

func TestOrderTotalStaysFrozen(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)

	env.addToCart(customer, fish, 3)
	order := env.checkout(customer)

	// a later catalog price change must not touch the frozen total
	require.NoError(t, env.DB.Model(&models.MenuItem{}).
		Where("id = ?", fish.ID).Update("price", dec("99.00")).Error)

	rec, c := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	env.as(c, customer)
	require.NoError(t, env.Order.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got transport.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Total.Equal(dec("37.50")), "total %s", got.Total)
	require.True(t, got.Items[0].UnitPrice.Equal(dec("12.50")))
}

func TestGetOrderVisibility(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	other := env.seedUser("bob")
	crew := env.seedUser("crew", models.GroupDeliveryCrew)
	manager := env.seedUser("mgr", models.GroupManager)
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)

	env.addToCart(customer, fish, 1)
	order := env.checkout(customer)

	get := func(user *models.User) *http.Response {
		rec, c := env.doJSONRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(order.ID))
		env.as(c, user)
		require.NoError(t, env.Order.Get(c))
		return rec.Result()
	}

	require.Equal(t, http.StatusOK, get(customer).StatusCode)
	require.Equal(t, http.StatusForbidden, get(other).StatusCode)
	require.Equal(t, http.StatusForbidden, get(crew).StatusCode) // not assigned
	require.Equal(t, http.StatusOK, get(manager).StatusCode)

	// unknown order id is a 404 before any ownership check
	rec, c := env.doJSONRequest(http.MethodGet, "/orders/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	env.as(c, customer)
	require.NoError(t, env.Order.Get(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManagerAssignsCrewAndStatus(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	crew := env.seedUser("crew", models.GroupDeliveryCrew)
	manager := env.seedUser("mgr", models.GroupManager)
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)

	env.addToCart(customer, fish, 1)
	order := env.checkout(customer)

	rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID),
		map[string]any{"delivery_crew_id": crew.ID})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	env.as(c, manager)
	require.NoError(t, env.Order.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got transport.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.DeliveryCrewID)
	require.Equal(t, crew.ID, *got.DeliveryCrewID)
	require.Equal(t, models.OrderStatusPending, got.Status)

	// unknown crew user is a validation error
	rec, c = env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID),
		map[string]any{"delivery_crew_id": 999})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	env.as(c, manager)
	require.NoError(t, env.Order.Update(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	requireDetail(t, rec, "Delivery crew user not found")
}

func TestCrewUpdateStatusOnly(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	crew := env.seedUser("crew", models.GroupDeliveryCrew)
	manager := env.seedUser("mgr", models.GroupManager)
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)

	env.addToCart(customer, fish, 1)
	order := env.checkout(customer)

	patch := func(user *models.User, payload map[string]any) *httptest.ResponseRecorder {
		rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), payload)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(order.ID))
		env.as(c, user)
		require.NoError(t, env.Order.Update(c))
		return rec
	}

	// crew not yet assigned
	rec := patch(crew, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// assign via manager
	rec = patch(manager, map[string]any{"delivery_crew_id": crew.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	// extra fields in a crew payload are rejected and the order is unchanged
	rec = patch(crew, map[string]any{"status": "delivered", "delivery_crew_id": nil})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	requireDetail(t, rec, "Only status can be updated by delivery crew")

	var stored models.Order
	require.NoError(t, env.DB.First(&stored, order.ID).Error)
	require.Equal(t, models.OrderStatusPending, stored.Status)
	require.NotNil(t, stored.DeliveryCrewID)

	// bad status value
	rec = patch(crew, map[string]any{"status": "eaten"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// the happy path
	rec = patch(crew, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code)

	// delivered orders never reopen through the crew path
	rec = patch(crew, map[string]any{"status": "pending"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	requireDetail(t, rec, "Order is already delivered")
}

func TestCustomerCannotUpdateOrder(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)

	env.addToCart(customer, fish, 1)
	order := env.checkout(customer)

	rec, c := env.doJSONRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID),
		map[string]any{"status": "delivered"})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	env.as(c, customer)
	require.NoError(t, env.Order.Update(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteOrderCascades(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedUser("alice")
	manager := env.seedUser("mgr", models.GroupManager)
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)

	env.addToCart(customer, fish, 1)
	order := env.checkout(customer)

	// customers may not delete
	rec, c := env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	env.as(c, customer)
	require.NoError(t, env.Order.Delete(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, c = env.doJSONRequest(http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	env.as(c, manager)
	require.NoError(t, env.Order.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var items int64
	require.NoError(t, env.DB.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	require.Zero(t, items)
}

func TestOrderListScopes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser("alice")
	bob := env.seedUser("bob")
	crew := env.seedUser("crew", models.GroupDeliveryCrew)
	manager := env.seedUser("mgr", models.GroupManager)
	cat := env.seedCategory("Mains", "mains")
	fish := env.seedMenuItem("Grilled Fish", "12.50", cat)
	soup := env.seedMenuItem("Soup", "4.25", cat)

	env.addToCart(alice, fish, 1)
	aliceOrder := env.checkout(alice)
	env.addToCart(bob, soup, 1)
	bobOrder := env.checkout(bob)

	list := func(user *models.User, target string) []transport.OrderView {
		rec, c := env.doJSONRequest(http.MethodGet, target, nil)
		env.as(c, user)
		require.NoError(t, env.Order.List(c))
		require.Equal(t, http.StatusOK, rec.Code)
		var orders []transport.OrderView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
		return orders
	}

	// customers see only their own orders
	orders := list(alice, "/orders")
	require.Len(t, orders, 1)
	require.Equal(t, aliceOrder.ID, orders[0].ID)

	// managers see everything
	orders = list(manager, "/orders")
	require.Len(t, orders, 2)

	// unassigned crew sees nothing
	orders = list(crew, "/orders")
	require.Empty(t, orders)

	// assign bob's order to the crew member, still pending
	require.NoError(t, env.DB.Model(&models.Order{}).
		Where("id = ?", bobOrder.ID).Update("delivery_crew_id", crew.ID).Error)
	orders = list(crew, "/orders")
	require.Len(t, orders, 1)
	require.Equal(t, bobOrder.ID, orders[0].ID)

	// delivered orders drop out of the crew listing
	require.NoError(t, env.DB.Model(&models.Order{}).
		Where("id = ?", bobOrder.ID).Update("status", models.OrderStatusDelivered).Error)
	orders = list(crew, "/orders")
	require.Empty(t, orders)

	// manager status filter
	orders = list(manager, "/orders?status=delivered")
	require.Len(t, orders, 1)
	require.Equal(t, bobOrder.ID, orders[0].ID)
	orders = list(manager, "/orders?status=pending")
	require.Len(t, orders, 1)
	require.Equal(t, aliceOrder.ID, orders[0].ID)

	// out-of-range page degrades to an empty list
	orders = list(manager, "/orders?page=50")
	require.Empty(t, orders)
	require.NotNil(t, orders)
}
