package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furnimarket/internal/middleware"
	"furnimarket/internal/orders"
)

type reasonRequest struct {
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type vendorDecisionRequest struct {
	Action string        `json:"action" binding:"required"`
	Reason reasonRequest `json:"reason"`
}

// respondOrderError maps the service error taxonomy onto HTTP statuses.
// Invalid transitions carry the canonical state so the UI can refresh
// without a second round trip; a lost race asks the caller to re-fetch.
func respondOrderError(c *gin.Context, route string, err error) {
	var invalid *orders.InvalidTransitionError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "invalid transition",
			"status":         invalid.Status,
			"vendorDecision": invalid.VendorDecision,
		})
		return
	}

	var validation *orders.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Detail,
			"field": validation.Field,
		})
		return
	}

	if errors.Is(err, orders.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if errors.Is(err, orders.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "order changed concurrently, refresh and retry",
		})
		return
	}

	respondWithError(c, http.StatusInternalServerError, route, "db error")
}

func orderIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}
	return orderID, true
}

// CancelOrder handles POST /orders/:id/cancel for the owning customer.
func CancelOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/cancel"
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

		var req reasonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		order, err := service.SubmitCustomerCancel(c.Request.Context(), orderID, customerID, orders.Reason{
			Category: req.Category,
			Notes:    req.Notes,
		})
		if err != nil {
			respondOrderError(c, route, err)
			return
		}

		log.Printf("[%s] order %s canceled by customer", route, orderID.Hex())
		c.JSON(http.StatusOK, orders.ProjectCustomer(order))
	}
}

// SubmitVendorDecision handles POST /vendor/orders/:id/decision.
func SubmitVendorDecision(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /vendor/orders/:id/decision"
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

		var req vendorDecisionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var action orders.Action
		switch strings.ToUpper(strings.TrimSpace(req.Action)) {
		case string(orders.ActionAccept):
			action = orders.ActionAccept
		case string(orders.ActionReject):
			action = orders.ActionReject
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "action must be ACCEPT or REJECT"})
			return
		}

		order, err := service.SubmitVendorDecision(c.Request.Context(), orderID, vendorID, action, orders.Reason{
			Category: req.Reason.Category,
			Notes:    req.Reason.Notes,
		})
		if err != nil {
			respondOrderError(c, route, err)
			return
		}

		log.Printf("[%s] order %s: vendor %s", route, orderID.Hex(), action)
		c.JSON(http.StatusOK, orders.ProjectVendor(order, vendorID))
	}
}

// MarkOrderDelivered handles POST /shipper/orders/:id/delivered.
func MarkOrderDelivered(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /shipper/orders/:id/delivered"
		defer handlePanic(c, route)

		orderID, ok := orderIDParam(c)
		if !ok {
			return
		}

		order, err := service.SubmitShipperDelivered(c.Request.Context(), orderID)
		if err != nil {
			respondOrderError(c, route, err)
			return
		}

		log.Printf("[%s] order %s delivered", route, orderID.Hex())
		c.JSON(http.StatusOK, orders.ProjectShipper(order))
	}
}
