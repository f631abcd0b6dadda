package services

import (
	"context"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingService resolves shipping quotes and manages zones and settings.
type ShippingService interface {
	Resolver(ctx context.Context) ShippingResolver
	Resolve(ctx context.Context, subtotal float64, city string, express bool) ShippingQuote
	Zones(ctx context.Context) []models.ShippingZone
	Settings() models.ShippingSettings
	UpdateSettings(ctx context.Context, settings models.ShippingSettings) error
	CreateZone(ctx context.Context, req models.ShippingZoneRequest) (primitive.ObjectID, error)
	UpdateZone(ctx context.Context, zoneID primitive.ObjectID, req models.ShippingZoneRequest) error
	DeleteZone(ctx context.Context, zoneID primitive.ObjectID) error
}

// CouponService validates and manages discount codes.
type CouponService interface {
	ApplyCoupon(ctx context.Context, code string, subtotal float64) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, req models.CouponRequest) (primitive.ObjectID, error)
	DeleteCoupon(ctx context.Context, couponID primitive.ObjectID) error
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
}

// OrderService persists and queries submitted orders.
type OrderService interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID primitive.ObjectID, pagination util.PaginationArgs) ([]models.Order, int64, error)
	GetSessionOrders(ctx context.Context, sessionID string, pagination util.PaginationArgs) ([]models.Order, int64, error)
	GetOrders(ctx context.Context, status models.OrderStatus, pagination util.PaginationArgs) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus) error
}

// ProductService serves the catalog and manages products.
type ProductService interface {
	GetProduct(ctx context.Context, identifier string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductsByCategory(ctx context.Context, categoryID primitive.ObjectID, pagination util.PaginationArgs) ([]models.Product, int64, error)
	SearchProducts(ctx context.Context, query string, pagination util.PaginationArgs) ([]models.Product, int64, error)
	CreateProduct(ctx context.Context, req models.ProductRequest) (primitive.ObjectID, error)
	UpdateProduct(ctx context.Context, productID primitive.ObjectID, req models.ProductRequest) error
	UpdateProductStock(ctx context.Context, productID primitive.ObjectID, delta int) error
	DeleteProduct(ctx context.Context, productID primitive.ObjectID) error
}

// CategoryService manages the category tree shown in navigation.
type CategoryService interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, identifier string) (*models.Category, error)
	CreateCategory(ctx context.Context, req models.CategoryRequest) (primitive.ObjectID, error)
	UpdateCategory(ctx context.Context, categoryID primitive.ObjectID, req models.CategoryRequest) error
	DeleteCategory(ctx context.Context, categoryID primitive.ObjectID) error
}

// UserService owns accounts, authentication and the wishlist.
type UserService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (primitive.ObjectID, error)
	AuthenticateUser(ctx context.Context, req models.UserAuthRequest, sessionID string) (*models.User, error)
	AuthenticateGoogleUser(ctx context.Context, idToken, sessionID string) (*models.User, error)
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	AddToWishlist(ctx context.Context, userID, productID primitive.ObjectID) (primitive.ObjectID, error)
	RemoveFromWishlist(ctx context.Context, userID, productID primitive.ObjectID) error
	GetWishlist(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistEntry, error)
}
