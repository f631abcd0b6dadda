package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type CheckoutController struct {
	checkoutService services.CheckoutService
}

func InitCheckoutController(checkoutService services.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// handleCheckoutError maps the checkout error taxonomy onto status codes.
// Step validation failures carry their per-field messages in the payload.
func handleCheckoutError(c *gin.Context, err error) {
	var stepErr *services.StepValidationError
	if errors.As(err, &stepErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "validation failed",
			"status":      http.StatusUnprocessableEntity,
			"fieldErrors": stepErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrIncompleteItems),
		errors.Is(err, services.ErrTermsNotAccepted):
		util.HandleError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNoCheckoutDraft):
		util.HandleError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrWrongStep), errors.Is(err, services.ErrAlreadySubmitted):
		util.HandleError(c, http.StatusConflict, err)
	default:
		util.HandleError(c, http.StatusInternalServerError, err)
	}
}

func (cc *CheckoutController) BeginCheckout(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	draft, err := cc.checkoutService.Begin(ctx, sessionID)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Checkout started", draft)
}

func (cc *CheckoutController) GetCheckout(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	draft, err := cc.checkoutService.Current(ctx, sessionID)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Checkout state", draft)
}

func (cc *CheckoutController) SubmitCustomerInfo(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var info models.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	draft, err := cc.checkoutService.SubmitCustomerInfo(ctx, sessionID, info)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Customer info saved", draft)
}

func (cc *CheckoutController) SubmitShippingAndPayment(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req services.ShippingAndPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	draft, err := cc.checkoutService.SubmitShippingAndPayment(ctx, sessionID, req)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Shipping and payment saved", draft)
}

func (cc *CheckoutController) AcceptTerms(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Accepted bool `json:"accepted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	draft, err := cc.checkoutService.AcceptTerms(ctx, sessionID, req.Accepted)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Terms updated", draft)
}

// GoBack steps the checkout one step towards review without validating.
func (cc *CheckoutController) GoBack(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	draft, err := cc.checkoutService.Back(ctx, sessionID)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Moved back", draft)
}

// GetQuote prices the draft with live shipping and coupon evaluation.
func (cc *CheckoutController) GetQuote(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	quote, err := cc.checkoutService.Quote(ctx, sessionID)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Checkout quote", quote)
}

// SubmitCheckout finalizes the order. Card details are accepted in the body
// for card payments and are never stored.
func (cc *CheckoutController) SubmitCheckout(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Card *models.CardDetails `json:"card,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	order, err := cc.checkoutService.Submit(ctx, sessionID, CurrentUserID(c), req.Card)
	if err != nil {
		handleCheckoutError(c, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Order submitted", order)
}

func (cc *CheckoutController) AbandonCheckout(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	if err := cc.checkoutService.Abandon(ctx, sessionID); err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Checkout abandoned", nil)
}
