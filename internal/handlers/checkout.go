package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"furnimarket/internal/middleware"
	"furnimarket/internal/models"
	"furnimarket/internal/notify"
	"furnimarket/internal/orders"
)

/* =========================
   REQUEST DTOs
========================= */

type checkoutItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	Items         []checkoutItemRequest `json:"items" binding:"required"`
	AddressID     string                `json:"addressId" binding:"required"`
	PaymentMethod string                `json:"paymentMethod" binding:"required"`
}

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder runs checkout: it validates the cart inside a transaction
// (stock check + atomic decrement per line), snapshots the effective unit
// price and display fields, and writes one PENDING order per vendor whose
// items appear in the cart. Everything denormalized here is frozen; later
// profile edits never reach existing orders.
func CreateOrder(db *mongo.Database, signal notify.Signal) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		customerID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if len(req.Items) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "at least one item is required")
			return
		}
		if req.PaymentMethod != "cash" && req.PaymentMethod != "card" {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		lines := make(map[primitive.ObjectID]int, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			if item.Quantity <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
				return
			}
			lines[productID] += item.Quantity
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var customer models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": customerID}).Decode(&customer); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		address, ok := findAddress(customer, strings.TrimSpace(req.AddressID))
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "unknown addressId")
			return
		}

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var created []orders.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			itemsByVendor := make(map[primitive.ObjectID][]orders.Item)

			for productID, quantity := range lines {
				var raw bson.M
				err := db.Collection("products").FindOne(
					sessCtx,
					bson.M{
						"_id":       productID,
						"isActive":  true,
						"isDeleted": bson.M{"$ne": true},
					},
				).Decode(&raw)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: productID}
				}
				if err != nil {
					return nil, err
				}

				product, err := normalizeProductDocument(raw)
				if err != nil {
					return nil, err
				}

				if product.Stock < quantity {
					return nil, outOfStockError{
						ProductID: productID,
						Available: product.Stock,
						Requested: quantity,
					}
				}

				unitPrice := effectiveProductPrice(product.Price, product.SaleEnabled, product.SalePrice)
				itemsByVendor[product.VendorID] = append(itemsByVendor[product.VendorID],
					orders.NewItem(productID, product.VendorID, product.Name, product.ImagePath, unitPrice, quantity))

				filter := bson.M{
					"_id":       productID,
					"isDeleted": bson.M{"$ne": true},
					"stock":     bson.M{"$gte": quantity},
				}
				update := bson.M{"$inc": bson.M{"stock": -quantity}}

				res, err := db.Collection("products").UpdateOne(sessCtx, filter, update)
				if err != nil {
					return nil, err
				}
				if res.MatchedCount == 0 {
					return nil, outOfStockError{
						ProductID: productID,
						Available: product.Stock,
						Requested: quantity,
					}
				}
			}

			created = created[:0]
			now := time.Now()

			for vendorID, items := range itemsByVendor {
				var vendor models.User
				if err := db.Collection("users").FindOne(sessCtx, bson.M{"_id": vendorID}).Decode(&vendor); err != nil {
					return nil, err
				}

				order := orders.Order{
					CustomerID:      customerID,
					VendorID:        vendorID,
					Items:           items,
					TotalPrice:      orders.SumSubtotals(items),
					CustomerName:    customer.DisplayName(),
					CustomerAddress: address.Detail,
					VendorName:      vendor.DisplayName(),
					Status:          orders.StatusPending,
					VendorDecision:  orders.DecisionPending,
					Version:         1,
					CreatedAt:       now,
					UpdatedAt:       now,
				}

				res, err := db.Collection("orders").InsertOne(sessCtx, order)
				if err != nil {
					return nil, err
				}
				if id, ok := res.InsertedID.(primitive.ObjectID); ok {
					order.ID = id
				}
				created = append(created, order)
			}

			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		keys := []string{orders.ListKey(orders.RoleCustomer, customerID.Hex())}
		orderIDs := make([]string, 0, len(created))
		for _, order := range created {
			keys = append(keys, orders.ListKey(orders.RoleVendor, order.VendorID.Hex()))
			orderIDs = append(orderIDs, order.ID.Hex())
		}
		if err := signal.Invalidate(ctx, keys...); err != nil {
			log.Printf("[%s] refresh invalidation failed: %v", route, err)
		}

		log.Printf("[%s] %d order(s) created for customer %s", route, len(created), customerID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"orderIds": orderIDs,
			"message":  "order created",
		})
	}
}

func findAddress(user models.User, addressID string) (models.Address, bool) {
	for _, address := range user.Addresses {
		if address.ID == addressID {
			return address, true
		}
	}
	return models.Address{}, false
}
