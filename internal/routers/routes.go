package routers

import (
	"github.com/Art-Code2025/perfumes-sub001/internal/auth"
	"github.com/Art-Code2025/perfumes-sub001/internal/container"
	"github.com/Art-Code2025/perfumes-sub001/internal/middleware"
	"github.com/Art-Code2025/perfumes-sub001/pkg/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitRoute creates the Gin router with the full storefront surface.
func InitRoute() *gin.Engine {
	router := gin.Default()
	registerRoutes(router, container.NewServiceContainer())
	return router
}

func registerRoutes(router *gin.Engine, sc *container.ServiceContainer) {
	router.Use(middleware.CorsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/v1", middleware.StorefrontRateLimiter(), middleware.CartSession())
	{
		setupAuthRoutes(api, sc)
		catalogRoutes(api, sc)
		cartRoutes(api, sc)
		checkoutRoutes(api, sc)
		orderRoutes(api, sc)
		userRoutes(api, sc)
		adminRoutes(api, sc)
	}
}

func setupAuthRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	api.POST("/signup", sc.UserController.Register)
	api.POST("/auth", sc.UserController.Login)
	api.POST("/auth/google", sc.UserController.LoginWithGoogle)
	api.DELETE("/logout", sc.UserController.Logout)
	api.GET("/auth/me", auth.Auth(), sc.UserController.GetMe)
}

func catalogRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	api.GET("/ping", controllers.Ping)

	products := api.Group("/products")
	products.GET("", sc.ProductController.GetProducts)
	products.GET("/search", sc.ProductController.SearchProducts)
	products.GET("/:productid", sc.ProductController.GetProduct)

	categories := api.Group("/categories")
	categories.GET("", sc.CategoryController.GetCategories)
	categories.GET("/:categoryid", sc.CategoryController.GetCategory)
	categories.GET("/:categoryid/products", sc.ProductController.GetProductsByCategory)

	shipping := api.Group("/shipping")
	shipping.GET("/zones", sc.ShippingController.GetZones)
	shipping.GET("/quote", sc.ShippingController.QuoteShipping)

	api.POST("/coupons/apply", sc.CouponController.ApplyCoupon)
}

func cartRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	cart := api.Group("/cart", middleware.RequireCartSession())

	cart.GET("", sc.CartController.GetCart)
	cart.POST("/items", sc.CartController.AddCartItem)
	cart.PUT("/items/:itemid/quantity", sc.CartController.UpdateCartItemQuantity)
	cart.PUT("/items/:itemid/options", sc.CartController.UpdateCartItemOptions)
	cart.PUT("/items/:itemid/attachments", sc.CartController.UpdateCartItemAttachments)
	cart.DELETE("/items/:itemid", sc.CartController.RemoveCartItem)
	cart.DELETE("", sc.CartController.ClearCart)
	cart.GET("/validate", sc.CartController.ValidateCart)

	// Shoppers upload attachment images here before patching them onto a
	// line item; admins use the same endpoint for product media.
	api.POST("/uploads", middleware.RequireCartSession(), controllers.UploadImage())
}

func checkoutRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	checkout := api.Group("/checkout", middleware.RequireCartSession())

	checkout.POST("", sc.CheckoutController.BeginCheckout)
	checkout.GET("", sc.CheckoutController.GetCheckout)
	checkout.PUT("/customer", sc.CheckoutController.SubmitCustomerInfo)
	checkout.PUT("/shipping-payment", sc.CheckoutController.SubmitShippingAndPayment)
	checkout.PUT("/terms", sc.CheckoutController.AcceptTerms)
	checkout.POST("/back", sc.CheckoutController.GoBack)
	checkout.GET("/quote", sc.CheckoutController.GetQuote)
	checkout.POST("/submit", sc.CheckoutController.SubmitCheckout)
	checkout.DELETE("", sc.CheckoutController.AbandonCheckout)
}

func orderRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	orders := api.Group("/orders")
	orders.GET("/track/:reference", sc.OrderController.GetOrderByReference)
	orders.GET("/mine", sc.OrderController.GetMyOrders)
}

func userRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	user := api.Group("/users")

	secured := user.Group("").Use(auth.Auth())
	secured.GET("/:userid/wishlist", sc.UserController.GetWishlist)
	secured.POST("/:userid/wishlist/:productid", sc.UserController.AddToWishlist)
	secured.DELETE("/:userid/wishlist/:productid", sc.UserController.RemoveFromWishlist)
}

func adminRoutes(api *gin.RouterGroup, sc *container.ServiceContainer) {
	admin := api.Group("/admin", auth.Auth(), middleware.AdminOnly())

	admin.POST("/products", sc.ProductController.CreateProduct)
	admin.PUT("/products/:productid", sc.ProductController.UpdateProduct)
	admin.PUT("/products/:productid/stock", sc.ProductController.UpdateProductStock)
	admin.DELETE("/products/:productid", sc.ProductController.DeleteProduct)

	admin.POST("/categories", sc.CategoryController.CreateCategory)
	admin.PUT("/categories/:categoryid", sc.CategoryController.UpdateCategory)
	admin.DELETE("/categories/:categoryid", sc.CategoryController.DeleteCategory)

	admin.GET("/shipping/settings", sc.ShippingController.GetSettings)
	admin.PUT("/shipping/settings", sc.ShippingController.UpdateSettings)
	admin.POST("/shipping/zones", sc.ShippingController.CreateZone)
	admin.PUT("/shipping/zones/:zoneid", sc.ShippingController.UpdateZone)
	admin.DELETE("/shipping/zones/:zoneid", sc.ShippingController.DeleteZone)

	admin.GET("/coupons", sc.CouponController.ListCoupons)
	admin.POST("/coupons", sc.CouponController.CreateCoupon)
	admin.DELETE("/coupons/:couponid", sc.CouponController.DeleteCoupon)

	admin.GET("/orders", sc.OrderController.GetOrders)
	admin.PUT("/orders/:orderid/status", sc.OrderController.UpdateOrderStatus)

	admin.DELETE("/uploads", controllers.DeleteImage())
}
