package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"restaurantapi/internal/middleware/auth"
	"restaurantapi/internal/models"
)

type Deps struct {
	AuthHandler  *AuthHandler
	MenuHandler  *MenuHandler
	CartHandler  *CartHandler
	OrderHandler *OrderHandler
	GroupHandler *GroupHandler
	AuthMW       *auth.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)

	// catalog reads are open to anonymous callers, writes are manager-gated
	e.GET("/menu-items", d.MenuHandler.List)
	e.GET("/menu-items/:id", d.MenuHandler.Get)
	e.GET("/categories", d.MenuHandler.ListCategories)
	e.GET("/categories/:id", d.MenuHandler.GetCategory)

	authed := e.Group("", d.AuthMW.RequireUser)

	authed.POST("/menu-items", d.MenuHandler.Create)
	authed.PUT("/menu-items/:id", d.MenuHandler.Update)
	authed.DELETE("/menu-items/:id", d.MenuHandler.Delete)

	authed.POST("/categories", d.MenuHandler.CreateCategory)
	authed.PUT("/categories/:id", d.MenuHandler.UpdateCategory)
	authed.DELETE("/categories/:id", d.MenuHandler.DeleteCategory)

	cart := authed.Group("/cart")
	cart.GET("/menu-items", d.CartHandler.List)
	cart.POST("/menu-items", d.CartHandler.Add)
	cart.DELETE("/menu-items", d.CartHandler.Clear)

	orders := authed.Group("/orders")
	orders.GET("", d.OrderHandler.List)
	orders.POST("", d.OrderHandler.Checkout)
	orders.GET("/:id", d.OrderHandler.Get)
	orders.PUT("/:id", d.OrderHandler.Update)
	orders.PATCH("/:id", d.OrderHandler.Update)
	orders.DELETE("/:id", d.OrderHandler.Delete)

	groups := authed.Group("/groups")
	groups.GET("/manager/users", d.GroupHandler.Members(models.GroupManager))
	groups.POST("/manager/users", d.GroupHandler.Add(models.GroupManager))
	groups.GET("/manager/users/:id", d.GroupHandler.Member(models.GroupManager))
	groups.DELETE("/manager/users/:id", d.GroupHandler.Remove(models.GroupManager))
	groups.GET("/delivery-crew/users", d.GroupHandler.Members(models.GroupDeliveryCrew))
	groups.POST("/delivery-crew/users", d.GroupHandler.Add(models.GroupDeliveryCrew))
	groups.GET("/delivery-crew/users/:id", d.GroupHandler.Member(models.GroupDeliveryCrew))
	groups.DELETE("/delivery-crew/users/:id", d.GroupHandler.Remove(models.GroupDeliveryCrew))
}
