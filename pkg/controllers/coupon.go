package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CouponController struct {
	couponService services.CouponService
	cartStore     *services.CartStoreService
}

func InitCouponController(couponService services.CouponService, cartStore *services.CartStoreService) *CouponController {
	return &CouponController{
		couponService: couponService,
		cartStore:     cartStore,
	}
}

// ApplyCoupon validates a code against the session's current subtotal. A
// rejection returns the reason without touching any coupon already applied
// client side.
func (cc *CouponController) ApplyCoupon(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	subtotal := services.Subtotal(cc.cartStore.Load(ctx, sessionID))
	coupon, err := cc.couponService.ApplyCoupon(ctx, req.Code, subtotal)
	if err != nil {
		var rejected *services.CouponRejectedError
		if errors.As(err, &rejected) {
			util.HandleError(c, http.StatusBadRequest, rejected)
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Coupon applied", gin.H{
		"coupon":   coupon,
		"discount": services.CouponDiscount(subtotal, coupon),
	})
}

func (cc *CouponController) ListCoupons(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	coupons, err := cc.couponService.ListCoupons(ctx)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Coupons fetched", coupons)
}

func (cc *CouponController) CreateCoupon(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req models.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	couponID, err := cc.couponService.CreateCoupon(ctx, req)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Coupon created", couponID)
}

func (cc *CouponController) DeleteCoupon(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	couponID, err := primitive.ObjectIDFromHex(c.Param("couponid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid coupon id"))
		return
	}

	if err := cc.couponService.DeleteCoupon(ctx, couponID); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("coupon not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Coupon deleted", couponID)
}
