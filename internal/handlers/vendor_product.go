package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"furnimarket/internal/middleware"
	"furnimarket/internal/models"
)

/* =======================
   HELPERS
======================= */

func resolveCategoryNamesByIDs(ctx context.Context, db *mongo.Database, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("category_id required")
	}

	seen := map[primitive.ObjectID]struct{}{}
	ordered := make([]primitive.ObjectID, 0, len(ids))

	for _, raw := range ids {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		objectID, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %s", value)
		}
		if _, ok := seen[objectID]; ok {
			continue
		}
		seen[objectID] = struct{}{}
		ordered = append(ordered, objectID)
	}

	if len(ordered) == 0 {
		return nil, fmt.Errorf("category_id required")
	}

	cursor, err := db.Collection("categories").Find(ctx, bson.M{"_id": bson.M{"$in": ordered}})
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	nameByID := make(map[primitive.ObjectID]string, len(categories))
	for _, category := range categories {
		nameByID[category.ID] = category.Name
	}

	names := make([]string, 0, len(ordered))
	for _, objectID := range ordered {
		name, ok := nameByID[objectID]
		if !ok {
			return nil, fmt.Errorf("category not found: %s", objectID.Hex())
		}
		names = append(names, name)
	}

	return names, nil
}

// loadOwnedProduct fetches a product and verifies the requesting vendor
// owns it. Foreign products are reported as not found.
func loadOwnedProduct(ctx context.Context, db *mongo.Database, productID, vendorID primitive.ObjectID) (models.Product, error) {
	var raw bson.M
	err := db.Collection("products").FindOne(ctx, bson.M{
		"_id":       productID,
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&raw)
	if err != nil {
		return models.Product{}, err
	}

	product, err := normalizeProductDocument(raw)
	if err != nil {
		return models.Product{}, err
	}
	if product.VendorID != vendorID {
		return models.Product{}, mongo.ErrNoDocuments
	}
	return product, nil
}

/* =======================
   LIST
======================= */

func GetVendorProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /vendor/products"
		defer handlePanic(c, route)

		vendorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("products").Find(ctx, bson.M{
			"vendorId":  vendorID,
			"isDeleted": bson.M{"$ne": true},
		}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /vendor/products"
		defer handlePanic(c, route)

		vendorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		input, err := parseMultipartProductRequest(c)
		if err != nil {
			respondMultipartError(c, err)
			return
		}

		if !input.NameSet || input.Name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name is required")
			return
		}
		if !input.PriceSet || input.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "price must be greater than 0")
			return
		}
		if !input.CategoryIDSet {
			respondWithError(c, http.StatusBadRequest, route, "category_id required")
			return
		}

		saleEnabled := input.SaleEnabledSet && input.SaleEnabled
		if err := validateSaleFields(input.Price, saleEnabled, input.SalePrice, input.SalePriceSet); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		categories, err := resolveCategoryNamesByIDs(ctx, db, input.CategoryIDs)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		product := models.Product{
			VendorID:    vendorID,
			Name:        input.Name,
			Price:       input.Price,
			SaleEnabled: saleEnabled,
			SalePrice:   input.SalePrice,
			Category:    categories,
			Description: input.Description,
			Material:    input.Material,
			Color:       input.Color,
			ImagePath:   input.ImagePath,
			Stock:       input.Stock,
			IsActive:    !input.IsActiveSet || input.IsActive,
			IsCampaign:  input.IsCampaignSet && input.IsCampaign,
			CreatedAt:   time.Now(),
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Printf("[%s] insert failed: %v", route, err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}
		product.InStock = product.Stock > 0
		product.IsOnSale = isProductOnSale(product.Price, product.SaleEnabled, product.SalePrice)

		log.Printf("[%s] product created: %s by vendor %s", route, product.ID.Hex(), vendorID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /vendor/products/:id"
		defer handlePanic(c, route)

		vendorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		input, err := parseMultipartProductRequest(c)
		if err != nil {
			respondMultipartError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		existing, err := loadOwnedProduct(ctx, db, productID, vendorID)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		set := bson.M{}

		if input.NameSet {
			if input.Name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			set["name"] = input.Name
		}
		if input.DescriptionSet {
			set["description"] = input.Description
		}
		if input.MaterialSet {
			set["material"] = input.Material
		}
		if input.ColorSet {
			set["color"] = input.Color
		}
		if input.StockSet {
			set["stock"] = input.Stock
		}
		if input.IsActiveSet {
			set["isActive"] = input.IsActive
		}
		if input.IsCampaignSet {
			set["isCampaign"] = input.IsCampaign
		}

		if input.CategoryIDSet {
			categories, err := resolveCategoryNamesByIDs(ctx, db, input.CategoryIDs)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			set["category"] = categories
		}

		saleInput := saleUpdateInput{}
		if input.PriceSet {
			saleInput.Price = &input.Price
		}
		if input.SaleEnabledSet {
			saleInput.SaleEnabled = &input.SaleEnabled
		}
		if input.SalePriceSet {
			saleInput.SalePrice = &input.SalePrice
		}

		saleResult, err := resolveSaleUpdate(existing.Price, existing.SaleEnabled, existing.SalePrice, saleInput)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if input.PriceSet {
			set["price"] = saleResult.Price
		}
		if saleResult.SetSaleEnabled {
			set["saleEnabled"] = saleResult.SaleEnabled
		}
		if saleResult.SetSalePrice {
			set["salePrice"] = saleResult.SalePrice
		}

		if input.ImageSet {
			if existing.ImagePath != "" {
				if err := safeDeleteUpload(existing.ImagePath); err != nil {
					log.Printf("[%s] old image cleanup failed: %v", route, err)
				}
			}
			set["imagePath"] = input.ImagePath
		}

		if len(set) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "nothing to update"})
			return
		}

		res, err := db.Collection("products").UpdateOne(ctx,
			bson.M{"_id": productID, "vendorId": vendorID},
			bson.M{"$set": set},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

/* =======================
   DELETE (SOFT)
======================= */

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /vendor/products/:id"
		defer handlePanic(c, route)

		vendorID, ok := middleware.ActorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("products").UpdateOne(ctx,
			bson.M{"_id": productID, "vendorId": vendorID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{"isDeleted": true, "isActive": false, "deletedAt": now}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		log.Printf("[%s] product soft-deleted: %s", route, productID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
