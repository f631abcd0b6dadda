package container

import (
	"context"
	"fmt"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/debounce"
	"github.com/Art-Code2025/perfumes-sub001/internal/events"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/controllers"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"
)

// ServiceContainer wires the full service and controller graph once at
// startup.
type ServiceContainer struct {
	CartStore       *services.CartStoreService
	MergeEngine     *services.CartMergeEngine
	ProductService  services.ProductService
	CategoryService services.CategoryService
	ShippingService services.ShippingService
	CouponService   services.CouponService
	OrderService    services.OrderService
	CheckoutService services.CheckoutService
	UserService     services.UserService

	CartController     *controllers.CartController
	CheckoutController *controllers.CheckoutController
	ProductController  *controllers.ProductController
	CategoryController *controllers.CategoryController
	ShippingController *controllers.ShippingController
	CouponController   *controllers.CouponController
	OrderController    *controllers.OrderController
	UserController     *controllers.UserController
}

func NewServiceContainer() *ServiceContainer {
	cartKV := kv.NewRedisStore(util.REDIS, common.CART_SESSION_TTL)
	draftKV := kv.NewRedisStore(util.REDIS, common.CHECKOUT_DRAFT_TTL)
	cacheKV := kv.NewRedisStore(util.REDIS, 0)
	publisher := events.NewPublisher(util.REDIS)

	noteScheduler := debounce.NewScheduler(common.NOTE_DEBOUNCE_WINDOW)
	cartStore := services.NewCartStore(cartKV, noteScheduler)
	cartStore.OnChange(func(change services.CartChange) {
		payload := fmt.Sprintf(`{"sessionId":%q,"itemCount":%d}`, change.SessionID, change.ItemCount)
		_ = publisher.Publish(context.Background(), events.CartCountChanged, payload)
	})
	mergeEngine := services.NewCartMergeEngine(cartStore, services.NewMongoRemoteCart())

	productService := services.NewProductService(cacheKV, publisher)
	categoryService := services.NewCategoryService(cacheKV, publisher)
	shippingService := services.NewShippingService(cacheKV, publisher)
	couponService := services.NewCouponService()
	orderService := services.NewOrderService()
	notifier := services.NewWebhookNotifier()
	checkoutService := services.NewCheckoutService(cartStore, shippingService, couponService, orderService, notifier, draftKV)
	userService := services.NewUserService(mergeEngine, publisher)

	return &ServiceContainer{
		CartStore:       cartStore,
		MergeEngine:     mergeEngine,
		ProductService:  productService,
		CategoryService: categoryService,
		ShippingService: shippingService,
		CouponService:   couponService,
		OrderService:    orderService,
		CheckoutService: checkoutService,
		UserService:     userService,

		CartController:     controllers.InitCartController(cartStore, productService),
		CheckoutController: controllers.InitCheckoutController(checkoutService),
		ProductController:  controllers.InitProductController(productService),
		CategoryController: controllers.InitCategoryController(categoryService),
		ShippingController: controllers.InitShippingController(shippingService, cartStore),
		CouponController:   controllers.InitCouponController(couponService, cartStore),
		OrderController:    controllers.InitOrderController(orderService),
		UserController:     controllers.InitUserController(userService),
	}
}
