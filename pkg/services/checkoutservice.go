package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/kv"
	"github.com/Art-Code2025/perfumes-sub001/internal/validators"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	creditcard "github.com/durango/go-credit-card"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckoutStep string

const (
	StepReview             CheckoutStep = "review"
	StepCustomerInfo       CheckoutStep = "customer_info"
	StepShippingAndPayment CheckoutStep = "shipping_and_payment"
	StepConfirm            CheckoutStep = "confirm"
	StepSubmitted          CheckoutStep = "submitted"
)

// checkoutSteps is the forward order of the flow. Navigation is strictly
// linear, one step at a time in either direction.
var checkoutSteps = []CheckoutStep{
	StepReview,
	StepCustomerInfo,
	StepShippingAndPayment,
	StepConfirm,
	StepSubmitted,
}

func stepIndex(step CheckoutStep) int {
	for i, s := range checkoutSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// FieldErrors maps a field name to a human readable validation message so the
// client can highlight individual inputs.
type FieldErrors map[string]string

type StepValidationError struct {
	Fields FieldErrors
}

func (e *StepValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	ErrEmptyCart        = errors.New("cannot start checkout with an empty cart")
	ErrIncompleteItems  = errors.New("cart contains items with missing required options")
	ErrNoCheckoutDraft  = errors.New("no checkout in progress for this session")
	ErrWrongStep        = errors.New("operation not valid for the current checkout step")
	ErrAlreadySubmitted = errors.New("checkout has already been submitted")
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted before submitting")
)

// CheckoutDraft is the persisted state of one in-progress checkout. Card
// details are deliberately never part of the draft, they are supplied at
// submit time and discarded after validation.
type CheckoutDraft struct {
	SessionID       string               `json:"sessionId"`
	Step            CheckoutStep         `json:"step"`
	Customer        models.CustomerInfo  `json:"customer"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
	ExpressShipping bool                 `json:"expressShipping"`
	CouponCode      string               `json:"couponCode,omitempty"`
	IsGift          bool                 `json:"isGift"`
	Notes           string               `json:"notes,omitempty"`
	TermsAccepted   bool                 `json:"termsAccepted"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// CheckoutQuote is the priced preview shown on the shipping and confirm
// steps.
type CheckoutQuote struct {
	Items    []models.LineItem  `json:"items"`
	Shipping ShippingQuote      `json:"shipping"`
	Coupon   *models.Coupon     `json:"coupon,omitempty"`
	Totals   models.OrderTotals `json:"totals"`
}

type CheckoutService interface {
	Begin(ctx context.Context, sessionID string) (CheckoutDraft, error)
	Current(ctx context.Context, sessionID string) (CheckoutDraft, error)
	SubmitCustomerInfo(ctx context.Context, sessionID string, info models.CustomerInfo) (CheckoutDraft, error)
	SubmitShippingAndPayment(ctx context.Context, sessionID string, req ShippingAndPaymentRequest) (CheckoutDraft, error)
	AcceptTerms(ctx context.Context, sessionID string, accepted bool) (CheckoutDraft, error)
	Back(ctx context.Context, sessionID string) (CheckoutDraft, error)
	Quote(ctx context.Context, sessionID string) (CheckoutQuote, error)
	Submit(ctx context.Context, sessionID string, userID *primitive.ObjectID, card *models.CardDetails) (models.Order, error)
	Abandon(ctx context.Context, sessionID string) error
}

type ShippingAndPaymentRequest struct {
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
	ExpressShipping bool                 `json:"expressShipping"`
	CouponCode      string               `json:"couponCode"`
	IsGift          bool                 `json:"isGift"`
	Notes           string               `json:"notes"`
}

const checkoutKeyPrefix = "checkout:"

type CheckoutServiceImpl struct {
	cart     *CartStoreService
	shipping ShippingService
	coupons  CouponService
	orders   OrderService
	notifier *WebhookNotifier
	drafts   kv.Store
}

func NewCheckoutService(cart *CartStoreService, shipping ShippingService, coupons CouponService, orders OrderService, notifier *WebhookNotifier, drafts kv.Store) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		cart:     cart,
		shipping: shipping,
		coupons:  coupons,
		orders:   orders,
		notifier: notifier,
		drafts:   drafts,
	}
}

// Begin starts a checkout at the review step. Only an empty cart is turned
// away; items with missing required options are allowed into review, where
// the buyer can still edit or remove them. The gate sits on advancing past
// review. An existing unsubmitted draft is resumed as-is.
func (s *CheckoutServiceImpl) Begin(ctx context.Context, sessionID string) (CheckoutDraft, error) {
	items := s.cart.Load(ctx, sessionID)
	if len(items) == 0 {
		return CheckoutDraft{}, ErrEmptyCart
	}

	// Resume an unsubmitted draft; a submitted one is stale, start over.
	if draft, err := s.loadDraft(ctx, sessionID); err == nil && draft.Step != StepSubmitted {
		return draft, nil
	}

	draft := CheckoutDraft{
		SessionID:     sessionID,
		Step:          StepReview,
		PaymentMethod: models.PaymentMethodCashOnDelivery,
	}
	if err := s.saveDraft(ctx, &draft); err != nil {
		return CheckoutDraft{}, err
	}
	util.CartOperations.WithLabelValues("checkout_begin").Inc()
	return draft, nil
}

func (s *CheckoutServiceImpl) Current(ctx context.Context, sessionID string) (CheckoutDraft, error) {
	return s.loadDraft(ctx, sessionID)
}

// SubmitCustomerInfo validates the customer form and advances from the
// review or customer info step. Leaving review requires every required
// option to be filled in. Validation reports every failing field at once
// instead of stopping at the first.
func (s *CheckoutServiceImpl) SubmitCustomerInfo(ctx context.Context, sessionID string, info models.CustomerInfo) (CheckoutDraft, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return CheckoutDraft{}, err
	}
	if draft.Step != StepReview && draft.Step != StepCustomerInfo {
		return CheckoutDraft{}, ErrWrongStep
	}
	if !CanProceedToCheckout(s.cart.Load(ctx, sessionID)) {
		return CheckoutDraft{}, ErrIncompleteItems
	}

	if fields := validateCustomerInfo(info); len(fields) > 0 {
		return CheckoutDraft{}, &StepValidationError{Fields: fields}
	}

	draft.Customer = info
	draft.Step = StepShippingAndPayment
	if err := s.saveDraft(ctx, &draft); err != nil {
		return CheckoutDraft{}, err
	}
	return draft, nil
}

func validateCustomerInfo(info models.CustomerInfo) FieldErrors {
	fields := FieldErrors{}
	if common.IsEmptyString(info.Name) {
		fields["name"] = "name is required"
	}
	if common.IsEmptyString(info.Phone) {
		fields["phone"] = "phone number is required"
	} else if err := validators.ValidatePhoneFormat(info.Phone); err != nil {
		fields["phone"] = err.Error()
	}
	if !common.IsEmptyString(info.Email) {
		if _, err := mail.ParseAddress(strings.TrimSpace(info.Email)); err != nil {
			fields["email"] = "email address is not valid"
		}
	}
	if common.IsEmptyString(info.Address) {
		fields["address"] = "address is required"
	}
	if common.IsEmptyString(info.City) {
		fields["city"] = "city is required"
	}
	return fields
}

// SubmitShippingAndPayment captures shipping preferences, payment method and
// an optional coupon, advancing to the confirm step. A rejected coupon fails
// the step without clearing any previously stored code.
func (s *CheckoutServiceImpl) SubmitShippingAndPayment(ctx context.Context, sessionID string, req ShippingAndPaymentRequest) (CheckoutDraft, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return CheckoutDraft{}, err
	}
	if draft.Step != StepShippingAndPayment {
		return CheckoutDraft{}, ErrWrongStep
	}

	fields := FieldErrors{}
	switch req.PaymentMethod {
	case models.PaymentMethodCashOnDelivery, models.PaymentMethodCard:
	default:
		fields["paymentMethod"] = "unsupported payment method"
	}

	code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
	if code != "" {
		subtotal := Subtotal(s.cart.Load(ctx, sessionID))
		if _, err := s.coupons.ApplyCoupon(ctx, code, subtotal); err != nil {
			var rejected *CouponRejectedError
			if errors.As(err, &rejected) {
				fields["couponCode"] = rejected.Reason
			} else {
				return CheckoutDraft{}, err
			}
		}
	}

	if len(fields) > 0 {
		return CheckoutDraft{}, &StepValidationError{Fields: fields}
	}

	draft.PaymentMethod = req.PaymentMethod
	draft.ExpressShipping = req.ExpressShipping
	draft.CouponCode = code
	draft.IsGift = req.IsGift
	draft.Notes = strings.TrimSpace(req.Notes)
	draft.Step = StepConfirm
	if err := s.saveDraft(ctx, &draft); err != nil {
		return CheckoutDraft{}, err
	}
	return draft, nil
}

func (s *CheckoutServiceImpl) AcceptTerms(ctx context.Context, sessionID string, accepted bool) (CheckoutDraft, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return CheckoutDraft{}, err
	}
	if draft.Step != StepConfirm {
		return CheckoutDraft{}, ErrWrongStep
	}
	draft.TermsAccepted = accepted
	if err := s.saveDraft(ctx, &draft); err != nil {
		return CheckoutDraft{}, err
	}
	return draft, nil
}

// Back moves one step towards review. Going backwards never re-validates and
// never discards data already entered, so returning forward restores the
// previous inputs.
func (s *CheckoutServiceImpl) Back(ctx context.Context, sessionID string) (CheckoutDraft, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return CheckoutDraft{}, err
	}
	if draft.Step == StepSubmitted {
		return CheckoutDraft{}, ErrAlreadySubmitted
	}
	idx := stepIndex(draft.Step)
	if idx <= 0 {
		return draft, nil
	}
	draft.Step = checkoutSteps[idx-1]
	if err := s.saveDraft(ctx, &draft); err != nil {
		return CheckoutDraft{}, err
	}
	return draft, nil
}

// Quote prices the current draft: live cart items, shipping resolved from
// the entered city and express preference, and the stored coupon if it is
// still eligible.
func (s *CheckoutServiceImpl) Quote(ctx context.Context, sessionID string) (CheckoutQuote, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return CheckoutQuote{}, err
	}

	items := s.cart.Load(ctx, sessionID)
	subtotal := Subtotal(items)

	var coupon *models.Coupon
	if draft.CouponCode != "" {
		applied, err := s.coupons.ApplyCoupon(ctx, draft.CouponCode, subtotal)
		if err == nil {
			coupon = applied
		} else {
			var rejected *CouponRejectedError
			if !errors.As(err, &rejected) {
				return CheckoutQuote{}, err
			}
		}
	}

	quote := s.shipping.Resolve(ctx, subtotal, draft.Customer.City, draft.ExpressShipping)

	return CheckoutQuote{
		Items:    items,
		Shipping: quote,
		Coupon:   coupon,
		Totals:   ComputeOrderTotals(items, coupon, quote),
	}, nil
}

// Submit finalizes the checkout from the confirm step: validates payment,
// creates the order, clears the cart and marks the draft submitted. The
// fulfillment webhook is fired in the background and never blocks or fails
// the submission.
func (s *CheckoutServiceImpl) Submit(ctx context.Context, sessionID string, userID *primitive.ObjectID, card *models.CardDetails) (models.Order, error) {
	draft, err := s.loadDraft(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}
	if draft.Step == StepSubmitted {
		return models.Order{}, ErrAlreadySubmitted
	}
	if draft.Step != StepConfirm {
		return models.Order{}, ErrWrongStep
	}
	if !draft.TermsAccepted {
		return models.Order{}, ErrTermsNotAccepted
	}

	items := s.cart.Load(ctx, sessionID)
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if !CanProceedToCheckout(items) {
		return models.Order{}, ErrIncompleteItems
	}

	if draft.PaymentMethod == models.PaymentMethodCard {
		if fields := validateCard(card); len(fields) > 0 {
			return models.Order{}, &StepValidationError{Fields: fields}
		}
	}

	quote, err := s.Quote(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		SessionId:     sessionID,
		Items:         items,
		Customer:      draft.Customer,
		PaymentMethod: draft.PaymentMethod,
		CouponCode:    draft.CouponCode,
		Totals:        quote.Totals,
		IsGift:        draft.IsGift,
		Notes:         draft.Notes,
	}
	if userID != nil {
		order.UserId = *userID
	}
	if quote.Shipping.Zone != nil {
		order.ZoneName = quote.Shipping.Zone.Name
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		util.OrdersSubmitted.WithLabelValues("failure").Inc()
		return models.Order{}, err
	}

	if err := s.cart.Clear(ctx, sessionID); err != nil {
		util.LogWarning("order created but cart could not be cleared: " + err.Error())
	}

	draft.Step = StepSubmitted
	if err := s.saveDraft(ctx, &draft); err != nil {
		util.LogWarning("order created but checkout draft could not be finalized: " + err.Error())
	}

	util.OrdersSubmitted.WithLabelValues("success").Inc()

	if s.notifier != nil {
		go s.notifier.NotifyOrderSubmitted(created)
	}

	return created, nil
}

func validateCard(card *models.CardDetails) FieldErrors {
	fields := FieldErrors{}
	if card == nil {
		fields["card"] = "card details are required for card payment"
		return fields
	}
	cc := creditcard.Card{
		Number: strings.ReplaceAll(card.Number, " ", ""),
		Cvv:    card.Cvv,
		Month:  card.ExpMonth,
		Year:   card.ExpYear,
	}
	if err := cc.Validate(); err != nil {
		fields["card"] = err.Error()
	}
	return fields
}

func (s *CheckoutServiceImpl) Abandon(ctx context.Context, sessionID string) error {
	return s.drafts.Delete(ctx, checkoutKeyPrefix+sessionID)
}

func (s *CheckoutServiceImpl) loadDraft(ctx context.Context, sessionID string) (CheckoutDraft, error) {
	raw, err := s.drafts.Get(ctx, checkoutKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return CheckoutDraft{}, ErrNoCheckoutDraft
		}
		return CheckoutDraft{}, err
	}
	var draft CheckoutDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return CheckoutDraft{}, ErrNoCheckoutDraft
	}
	return draft, nil
}

func (s *CheckoutServiceImpl) saveDraft(ctx context.Context, draft *CheckoutDraft) error {
	draft.UpdatedAt = time.Now()
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.drafts.Set(ctx, checkoutKeyPrefix+draft.SessionID, string(raw))
}
