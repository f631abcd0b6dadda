package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/debounce"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubShippingService struct {
	resolver ShippingResolver
}

func (s *stubShippingService) Resolver(context.Context) ShippingResolver { return s.resolver }
func (s *stubShippingService) Resolve(_ context.Context, subtotal float64, city string, express bool) ShippingQuote {
	return s.resolver.Resolve(subtotal, city, express)
}
func (s *stubShippingService) Zones(context.Context) []models.ShippingZone { return s.resolver.Zones }
func (s *stubShippingService) Settings() models.ShippingSettings           { return s.resolver.Settings }
func (s *stubShippingService) UpdateSettings(context.Context, models.ShippingSettings) error {
	return nil
}
func (s *stubShippingService) CreateZone(context.Context, models.ShippingZoneRequest) (primitive.ObjectID, error) {
	return primitive.NilObjectID, nil
}
func (s *stubShippingService) UpdateZone(context.Context, primitive.ObjectID, models.ShippingZoneRequest) error {
	return nil
}
func (s *stubShippingService) DeleteZone(context.Context, primitive.ObjectID) error { return nil }

type stubCouponService struct {
	coupons map[string]models.Coupon
}

func (s *stubCouponService) ApplyCoupon(_ context.Context, code string, subtotal float64) (*models.Coupon, error) {
	coupon, ok := s.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, &CouponRejectedError{Reason: "invalid coupon code"}
	}
	return CheckCouponEligibility(&coupon, subtotal, time.Now())
}
func (s *stubCouponService) CreateCoupon(context.Context, models.CouponRequest) (primitive.ObjectID, error) {
	return primitive.NilObjectID, nil
}
func (s *stubCouponService) DeleteCoupon(context.Context, primitive.ObjectID) error { return nil }
func (s *stubCouponService) ListCoupons(context.Context) ([]models.Coupon, error)   { return nil, nil }

type stubOrderService struct {
	created []models.Order
	err     error
}

func (s *stubOrderService) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	if s.err != nil {
		return models.Order{}, s.err
	}
	order.Id = primitive.NewObjectID()
	order.Reference = "ORD-TEST-0001"
	order.Status = models.OrderStatusPending
	s.created = append(s.created, order)
	return order, nil
}
func (s *stubOrderService) GetOrderByReference(context.Context, string) (*models.Order, error) {
	return nil, nil
}
func (s *stubOrderService) GetUserOrders(context.Context, primitive.ObjectID, util.PaginationArgs) ([]models.Order, int64, error) {
	return nil, 0, nil
}
func (s *stubOrderService) GetSessionOrders(context.Context, string, util.PaginationArgs) ([]models.Order, int64, error) {
	return nil, 0, nil
}
func (s *stubOrderService) GetOrders(context.Context, models.OrderStatus, util.PaginationArgs) ([]models.Order, int64, error) {
	return nil, 0, nil
}
func (s *stubOrderService) UpdateOrderStatus(context.Context, primitive.ObjectID, models.OrderStatus) error {
	return nil
}

type checkoutFixture struct {
	checkout *CheckoutServiceImpl
	cart     *CartStoreService
	orders   *stubOrderService
	coupons  *stubCouponService
}

func newCheckoutFixture() *checkoutFixture {
	cart := NewCartStore(kv.NewMemoryStore(), debounce.NewScheduler(time.Second))
	shipping := &stubShippingService{resolver: testResolver()}
	coupons := &stubCouponService{coupons: map[string]models.Coupon{
		"SAVE10": {Code: "SAVE10", Type: models.CouponTypePercentage, Amount: 10, IsActive: true},
		"BIG":    {Code: "BIG", Type: models.CouponTypeFixed, Amount: 50, IsActive: true, MinAmount: 500},
	}}
	orders := &stubOrderService{}
	checkout := NewCheckoutService(cart, shipping, coupons, orders, nil, kv.NewMemoryStore())
	return &checkoutFixture{checkout: checkout, cart: cart, orders: orders, coupons: coupons}
}

func (f *checkoutFixture) fillCart(t *testing.T, sessionID string) {
	t.Helper()
	_, err := f.cart.Add(context.Background(), sessionID, testProduct(50), models.CartItemRequest{Quantity: 2})
	require.NoError(t, err)
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{
		Name:    "Mona Hassan",
		Phone:   "+20 100 123 4567",
		Email:   "mona@example.com",
		Address: "12 Nile St",
		City:    "Cairo",
	}
}

// walk drives the fixture through customer info and shipping so tests can
// start at the confirm step.
func (f *checkoutFixture) walkToConfirm(t *testing.T, sessionID string) CheckoutDraft {
	t.Helper()
	ctx := context.Background()

	_, err := f.checkout.Begin(ctx, sessionID)
	require.NoError(t, err)
	_, err = f.checkout.SubmitCustomerInfo(ctx, sessionID, validCustomer())
	require.NoError(t, err)
	draft, err := f.checkout.SubmitShippingAndPayment(ctx, sessionID, ShippingAndPaymentRequest{
		PaymentMethod: models.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)
	require.Equal(t, StepConfirm, draft.Step)
	return draft
}

func TestBeginRequiresNonEmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.checkout.Begin(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestIncompleteItemsBlockLeavingReviewNotEntering(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	product := testProduct(10)
	product.Options = []models.ProductOption{
		{Name: "size", Label: "Bottle Size", Type: models.OptionTypeSelect, Required: true},
	}
	item, err := f.cart.Add(ctx, "s1", product, models.CartItemRequest{Quantity: 1})
	require.NoError(t, err)

	// Review is reachable so the buyer can fix or remove the item there.
	draft, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, draft.Step)

	_, err = f.checkout.SubmitCustomerInfo(ctx, "s1", validCustomer())
	assert.ErrorIs(t, err, ErrIncompleteItems)

	// Filling in the missing option unblocks the advancement.
	require.NoError(t, f.cart.UpdateOptions(ctx, "s1", item.Id, map[string]string{"size": "100ml"}, nil))
	draft, err = f.checkout.SubmitCustomerInfo(ctx, "s1", validCustomer())
	require.NoError(t, err)
	assert.Equal(t, StepShippingAndPayment, draft.Step)
}

func TestBeginStartsAtReviewAndResumes(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	draft, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, draft.Step)

	// Moving forward then beginning again resumes, it does not reset.
	_, err = f.checkout.SubmitCustomerInfo(ctx, "s1", validCustomer())
	require.NoError(t, err)

	resumed, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepShippingAndPayment, resumed.Step)
	assert.Equal(t, "Mona Hassan", resumed.Customer.Name)
}

func TestCustomerInfoReportsEveryFailingField(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)

	_, err = f.checkout.SubmitCustomerInfo(ctx, "s1", models.CustomerInfo{Email: "not-an-email"})

	var stepErr *StepValidationError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Fields, "name")
	assert.Contains(t, stepErr.Fields, "phone")
	assert.Contains(t, stepErr.Fields, "email")
	assert.Contains(t, stepErr.Fields, "address")
	assert.Contains(t, stepErr.Fields, "city")
}

func TestEmailIsOptional(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)

	info := validCustomer()
	info.Email = ""
	draft, err := f.checkout.SubmitCustomerInfo(ctx, "s1", info)
	require.NoError(t, err)
	assert.Equal(t, StepShippingAndPayment, draft.Step)
}

func TestShippingStepRequiresCorrectStep(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)

	_, err = f.checkout.SubmitShippingAndPayment(ctx, "s1", ShippingAndPaymentRequest{
		PaymentMethod: models.PaymentMethodCashOnDelivery,
	})
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestRejectedCouponFailsStepAndKeepsStoredCode(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)
	_, err = f.checkout.SubmitCustomerInfo(ctx, "s1", validCustomer())
	require.NoError(t, err)

	_, err = f.checkout.SubmitShippingAndPayment(ctx, "s1", ShippingAndPaymentRequest{
		PaymentMethod: models.PaymentMethodCashOnDelivery,
		CouponCode:    "save10",
	})
	require.NoError(t, err)

	// Step back and retry with a code below its minimum; the failure must not
	// clear the previously accepted coupon.
	_, err = f.checkout.Back(ctx, "s1")
	require.NoError(t, err)

	_, err = f.checkout.SubmitShippingAndPayment(ctx, "s1", ShippingAndPaymentRequest{
		PaymentMethod: models.PaymentMethodCashOnDelivery,
		CouponCode:    "BIG",
	})
	var stepErr *StepValidationError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Fields, "couponCode")

	draft, err := f.checkout.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", draft.CouponCode)
}

func TestBackNeverValidatesAndKeepsData(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")
	f.walkToConfirm(t, "s1")

	draft, err := f.checkout.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepShippingAndPayment, draft.Step)

	draft, err = f.checkout.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepCustomerInfo, draft.Step)
	assert.Equal(t, "Mona Hassan", draft.Customer.Name)

	draft, err = f.checkout.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, draft.Step)

	// At the first step back is a no-op.
	draft, err = f.checkout.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepReview, draft.Step)
}

func TestSubmitRequiresTerms(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")
	f.walkToConfirm(t, "s1")

	_, err := f.checkout.Submit(ctx, "s1", nil, nil)
	assert.ErrorIs(t, err, ErrTermsNotAccepted)
}

func TestSubmitCreatesOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")
	f.walkToConfirm(t, "s1")

	_, err := f.checkout.AcceptTerms(ctx, "s1", true)
	require.NoError(t, err)

	order, err := f.checkout.Submit(ctx, "s1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ORD-TEST-0001", order.Reference)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, f.orders.created, 1)

	// Subtotal 240, Cairo zone cost 30.
	assert.Equal(t, 240.0, order.Totals.Subtotal)
	assert.Equal(t, 30.0, order.Totals.ShippingCost)
	assert.Equal(t, 270.0, order.Totals.Total)
	assert.Equal(t, "Cairo Metro", order.ZoneName)

	assert.Empty(t, f.cart.Load(ctx, "s1"))

	_, err = f.checkout.Submit(ctx, "s1", nil, nil)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitAppliesCouponToTotals(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)
	_, err = f.checkout.SubmitCustomerInfo(ctx, "s1", validCustomer())
	require.NoError(t, err)
	_, err = f.checkout.SubmitShippingAndPayment(ctx, "s1", ShippingAndPaymentRequest{
		PaymentMethod: models.PaymentMethodCashOnDelivery,
		CouponCode:    "SAVE10",
	})
	require.NoError(t, err)
	_, err = f.checkout.AcceptTerms(ctx, "s1", true)
	require.NoError(t, err)

	order, err := f.checkout.Submit(ctx, "s1", nil, nil)
	require.NoError(t, err)
	// Subtotal 240 minus 10%, plus zone shipping 30.
	assert.Equal(t, 24.0, order.Totals.CouponDiscount)
	assert.Equal(t, 246.0, order.Totals.Total)
	assert.Equal(t, "SAVE10", order.CouponCode)
}

func TestSubmitValidatesCardForCardPayment(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)
	_, err = f.checkout.SubmitCustomerInfo(ctx, "s1", validCustomer())
	require.NoError(t, err)
	_, err = f.checkout.SubmitShippingAndPayment(ctx, "s1", ShippingAndPaymentRequest{
		PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)
	_, err = f.checkout.AcceptTerms(ctx, "s1", true)
	require.NoError(t, err)

	_, err = f.checkout.Submit(ctx, "s1", nil, nil)
	var stepErr *StepValidationError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Fields, "card")

	_, err = f.checkout.Submit(ctx, "s1", nil, &models.CardDetails{
		Number: "1234", Cvv: "123", ExpMonth: "12", ExpYear: "2030",
	})
	require.ErrorAs(t, err, &stepErr)

	order, err := f.checkout.Submit(ctx, "s1", nil, &models.CardDetails{
		Number: "4539148803436467", Cvv: "123", ExpMonth: "12", ExpYear: "2030",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCard, order.PaymentMethod)
}

func TestOrderFailureKeepsCartAndDraft(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")
	f.walkToConfirm(t, "s1")

	_, err := f.checkout.AcceptTerms(ctx, "s1", true)
	require.NoError(t, err)

	f.orders.err = errors.New("orders collection down")
	_, err = f.checkout.Submit(ctx, "s1", nil, nil)
	require.Error(t, err)

	// Cart and draft survive so the buyer can retry.
	assert.NotEmpty(t, f.cart.Load(ctx, "s1"))
	draft, err := f.checkout.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, draft.Step)
}

func TestAbandonRemovesDraft(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.fillCart(t, "s1")

	_, err := f.checkout.Begin(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, f.checkout.Abandon(ctx, "s1"))
	_, err = f.checkout.Current(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoCheckoutDraft)
}
