package controllers

import (
	"net/http"
	"strconv"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ShippingController struct {
	shippingService services.ShippingService
	cartStore       *services.CartStoreService
}

func InitShippingController(shippingService services.ShippingService, cartStore *services.CartStoreService) *ShippingController {
	return &ShippingController{
		shippingService: shippingService,
		cartStore:       cartStore,
	}
}

// QuoteShipping resolves the shipping cost for the session's cart against a
// city, honoring express delivery and free shipping thresholds.
func (sc *ShippingController) QuoteShipping(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	city := c.Query("city")
	express, _ := strconv.ParseBool(c.DefaultQuery("express", "false"))

	subtotal := services.Subtotal(sc.cartStore.Load(ctx, sessionID))
	quote := sc.shippingService.Resolve(ctx, subtotal, city, express)
	util.HandleSuccess(c, http.StatusOK, "Shipping quote", quote)
}

func (sc *ShippingController) GetZones(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	util.HandleSuccess(c, http.StatusOK, "Shipping zones fetched", sc.shippingService.Zones(ctx))
}

func (sc *ShippingController) GetSettings(c *gin.Context) {
	util.HandleSuccess(c, http.StatusOK, "Shipping settings fetched", sc.shippingService.Settings())
}

func (sc *ShippingController) UpdateSettings(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var settings models.ShippingSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if err := sc.shippingService.UpdateSettings(ctx, settings); err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Shipping settings updated", settings)
}

func (sc *ShippingController) CreateZone(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req models.ShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	zoneID, err := sc.shippingService.CreateZone(ctx, req)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Shipping zone created", zoneID)
}

func (sc *ShippingController) UpdateZone(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	zoneID, err := primitive.ObjectIDFromHex(c.Param("zoneid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid zone id"))
		return
	}

	var req models.ShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	if err := sc.shippingService.UpdateZone(ctx, zoneID, req); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("shipping zone not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Shipping zone updated", zoneID)
}

func (sc *ShippingController) DeleteZone(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	zoneID, err := primitive.ObjectIDFromHex(c.Param("zoneid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid zone id"))
		return
	}

	if err := sc.shippingService.DeleteZone(ctx, zoneID); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("shipping zone not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Shipping zone deleted", zoneID)
}
