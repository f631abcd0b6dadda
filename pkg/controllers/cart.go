package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type CartController struct {
	cartStore      *services.CartStoreService
	productService services.ProductService
}

func InitCartController(cartStore *services.CartStoreService, productService services.ProductService) *CartController {
	return &CartController{
		cartStore:      cartStore,
		productService: productService,
	}
}

// GetCart returns the session's cart items and total count.
func (cc *CartController) GetCart(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	items := cc.cartStore.Load(ctx, sessionID)
	util.HandleSuccess(c, http.StatusOK, "Cart fetched", gin.H{
		"items":     items,
		"itemCount": cc.cartStore.ItemCount(ctx, sessionID),
	})
}

// AddCartItem adds a product to the cart, snapshotting the product details
// at add time.
func (cc *CartController) AddCartItem(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	product, err := cc.productService.GetProduct(ctx, req.ProductId.Hex())
	if err != nil {
		util.HandleError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	item, err := cc.cartStore.Add(ctx, sessionID, *product, req)
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Item added to cart", item)
}

// UpdateCartItemQuantity sets the quantity for one cart line. Requests below
// the floor of one are acknowledged without changing anything.
func (cc *CartController) UpdateCartItemQuantity(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if err := cc.cartStore.UpdateQuantity(ctx, sessionID, c.Param("itemid"), req.Quantity); err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Quantity updated", cc.cartStore.Load(ctx, sessionID))
}

// UpdateCartItemOptions merges the submitted option selections into the item.
func (cc *CartController) UpdateCartItemOptions(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		SelectedOptions map[string]string  `json:"selectedOptions"`
		OptionsPricing  map[string]float64 `json:"optionsPricing"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if err := cc.cartStore.UpdateOptions(ctx, sessionID, c.Param("itemid"), req.SelectedOptions, req.OptionsPricing); err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Options updated", cc.cartStore.Load(ctx, sessionID))
}

// UpdateCartItemAttachments updates the item's note and images. Image lists
// are saved immediately; note text is written on a short debounce window.
func (cc *CartController) UpdateCartItemAttachments(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	var req models.AttachmentsPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if err := cc.cartStore.UpdateAttachments(ctx, sessionID, c.Param("itemid"), req); err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Attachments updated", nil)
}

func (cc *CartController) RemoveCartItem(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	if err := cc.cartStore.Remove(ctx, sessionID, c.Param("itemid")); err != nil {
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Item removed", cc.cartStore.Load(ctx, sessionID))
}

func (cc *CartController) ClearCart(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	if err := cc.cartStore.Clear(ctx, sessionID); err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Cart cleared", nil)
}

// ValidateCart reports which items still miss required options, so the
// client can block checkout entry and point at the offending lines.
func (cc *CartController) ValidateCart(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	sessionID, ok := RequireSessionID(c)
	if !ok {
		return
	}

	items := cc.cartStore.Load(ctx, sessionID)
	incomplete := services.FindIncompleteItems(items)
	util.HandleSuccess(c, http.StatusOK, "Cart validated", gin.H{
		"canProceed":      len(incomplete) == 0,
		"incompleteItems": incomplete,
	})
}
