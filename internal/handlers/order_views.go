package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"furnimarket/internal/middleware"
	"furnimarket/internal/orders"
)

func GetCustomerOrders(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		customerID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		views, err := service.ListCustomerOrders(c.Request.Context(), customerID)
		if err != nil {
			respondOrderError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetCustomerOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		customerID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		view, err := service.GetCustomerView(c.Request.Context(), orderID, customerID)
		if err != nil {
			respondOrderError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func GetVendorOrders(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /vendor/orders"
		defer handlePanic(c, route)

		vendorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		views, err := service.ListVendorOrders(c.Request.Context(), vendorID)
		if err != nil {
			respondOrderError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetVendorOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /vendor/orders/:id"
		defer handlePanic(c, route)

		vendorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		view, err := service.GetVendorView(c.Request.Context(), orderID, vendorID)
		if err != nil {
			respondOrderError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func GetShipperOrders(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shipper/orders"
		defer handlePanic(c, route)

		views, err := service.ListShipperOrders(c.Request.Context())
		if err != nil {
			respondOrderError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetShipperOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shipper/orders/:id"
		defer handlePanic(c, route)

		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		view, err := service.GetShipperView(c.Request.Context(), orderID)
		if err != nil {
			respondOrderError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GetRefreshTicks reports the tick counter of the caller's order list.
// Clients remember the tick from their last fetch and refetch when it
// moves; staleness of a few seconds is acceptable by design.
func GetRefreshTicks(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/refresh"
		defer handlePanic(c, route)

		actorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		role, ok := middleware.ActorRole(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ticks, err := service.RefreshTicks(c.Request.Context(), role, actorID.Hex())
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "refresh signal unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticks": ticks})
	}
}
