package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/helpers"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type OrderController struct {
	orderService services.OrderService
}

func InitOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// GetOrderByReference looks up a single order by its customer facing
// reference, for guest order tracking.
func (oc *OrderController) GetOrderByReference(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	order, err := oc.orderService.GetOrderByReference(ctx, c.Param("reference"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Order fetched", order)
}

// GetMyOrders lists orders for the signed-in user, falling back to the cart
// session for guests.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	pagination := helpers.GetPaginationArgs(c)

	var (
		orders []models.Order
		count  int64
		err    error
	)
	if userID := CurrentUserID(c); userID != nil {
		orders, count, err = oc.orderService.GetUserOrders(ctx, *userID, pagination)
	} else {
		sessionID, ok := RequireSessionID(c)
		if !ok {
			return
		}
		orders, count, err = oc.orderService.GetSessionOrders(ctx, sessionID, pagination)
	}
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccessMeta(c, http.StatusOK, "Orders fetched", orders, util.Pagination{
		Limit: pagination.Limit,
		Skip:  pagination.Skip,
		Count: count,
	})
}

func (oc *OrderController) GetOrders(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	pagination := helpers.GetPaginationArgs(c)
	status := models.OrderStatus(c.Query("status"))

	orders, count, err := oc.orderService.GetOrders(ctx, status, pagination)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccessMeta(c, http.StatusOK, "Orders fetched", orders, util.Pagination{
		Limit: pagination.Limit,
		Skip:  pagination.Skip,
		Count: count,
	})
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	switch req.Status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		util.HandleError(c, http.StatusBadRequest, errors.New("unknown order status"))
		return
	}

	if err := oc.orderService.UpdateOrderStatus(ctx, orderID, req.Status); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Order status updated", orderID)
}
