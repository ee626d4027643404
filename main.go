package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"furnimarket/internal/config"
	"furnimarket/internal/database"
	"furnimarket/internal/handlers"
	"furnimarket/internal/middleware"
	"furnimarket/internal/notify"
	"furnimarket/internal/orders"
	"furnimarket/internal/resettoken"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}

	// The refresh signal is shared across instances when Redis is
	// configured; otherwise the in-process fallback serves a single node.
	var signal notify.Signal
	if config.AppEnv.RedisAddr != "" {
		signal = notify.NewRedisSignal(redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr}))
		log.Println("refresh signal backed by Redis at:", config.AppEnv.RedisAddr)
	} else {
		signal = notify.NewMemorySignal()
		log.Println("refresh signal running in-process")
	}

	orderService := orders.NewService(orders.NewMongoStore(db), signal)
	resetTokens := resettoken.New(config.AppEnv.ResetTokenTTL, nil)

	r := gin.Default()
	r.Static("/public", "./public")

	r.POST("/auth/register", handlers.Register(db))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))
	r.POST("/auth/password-reset", handlers.RequestPasswordReset(db, resetTokens))
	r.POST("/auth/password-reset/confirm", handlers.ConfirmPasswordReset(db, resetTokens))
	r.GET("/auth/me", middleware.AuthGuard(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/campaign", handlers.GetCampaignProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.GET("/categories", handlers.GetCategories(db))

	authed := r.Group("/")
	authed.Use(middleware.AuthGuard(config.AppEnv.JWTSecret))
	{
		authed.GET("/orders/refresh", handlers.GetRefreshTicks(orderService))
	}

	customer := r.Group("/")
	customer.Use(middleware.AuthGuard(config.AppEnv.JWTSecret, orders.RoleCustomer))
	{
		customer.GET("/user/addresses", handlers.GetUserAddresses(db))
		customer.POST("/user/addresses", handlers.CreateUserAddress(db))
		customer.PUT("/user/addresses/:id", handlers.UpdateUserAddress(db))
		customer.DELETE("/user/addresses/:id", handlers.DeleteUserAddress(db))

		customer.POST("/orders", handlers.CreateOrder(db, signal))
		customer.GET("/orders", handlers.GetCustomerOrders(orderService))
		customer.GET("/orders/:id", handlers.GetCustomerOrder(orderService))
		customer.POST("/orders/:id/cancel", handlers.CancelOrder(orderService))
	}

	vendor := r.Group("/vendor")
	vendor.Use(middleware.AuthGuard(config.AppEnv.JWTSecret, orders.RoleVendor))
	{
		vendor.GET("/products", handlers.GetVendorProducts(db))
		vendor.POST("/products", handlers.CreateProduct(db))
		vendor.PUT("/products/:id", handlers.UpdateProduct(db))
		vendor.DELETE("/products/:id", handlers.DeleteProduct(db))

		vendor.POST("/categories", handlers.CreateCategory(db))

		vendor.GET("/orders", handlers.GetVendorOrders(orderService))
		vendor.GET("/orders/:id", handlers.GetVendorOrder(orderService))
		vendor.POST("/orders/:id/decision", handlers.SubmitVendorDecision(orderService))
	}

	shipper := r.Group("/shipper")
	shipper.Use(middleware.AuthGuard(config.AppEnv.JWTSecret, orders.RoleShipper))
	{
		shipper.GET("/orders", handlers.GetShipperOrders(orderService))
		shipper.GET("/orders/:id", handlers.GetShipperOrder(orderService))
		shipper.POST("/orders/:id/delivered", handlers.MarkOrderDelivered(orderService))
	}

	r.Run(":" + config.AppEnv.Port)
}
