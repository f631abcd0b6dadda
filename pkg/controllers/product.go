package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/helpers"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductController struct {
	productService services.ProductService
}

func InitProductController(productService services.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetProducts returns the active catalog, served from cache when warm.
func (pc *ProductController) GetProducts(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	products, err := pc.productService.GetProducts(ctx)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Products fetched", products)
}

// GetProduct accepts a hex id or slug in the path.
func (pc *ProductController) GetProduct(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	product, err := pc.productService.GetProduct(ctx, c.Param("productid"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("product not found"))
			return
		}
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Product fetched", product)
}

func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid category id"))
		return
	}

	pagination := helpers.GetPaginationArgs(c)
	products, count, err := pc.productService.GetProductsByCategory(ctx, categoryID, pagination)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccessMeta(c, http.StatusOK, "Products fetched", products, util.Pagination{
		Limit: pagination.Limit,
		Skip:  pagination.Skip,
		Count: count,
	})
}

func (pc *ProductController) SearchProducts(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	query := c.Query("q")
	if common.IsEmptyString(query) {
		util.HandleError(c, http.StatusBadRequest, errors.New("missing search query"))
		return
	}

	pagination := helpers.GetPaginationArgs(c)
	products, count, err := pc.productService.SearchProducts(ctx, query, pagination)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccessMeta(c, http.StatusOK, "Products fetched", products, util.Pagination{
		Limit: pagination.Limit,
		Skip:  pagination.Skip,
		Count: count,
	})
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	productID, err := pc.productService.CreateProduct(ctx, req)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Product created", productID)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("productid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	if err := pc.productService.UpdateProduct(ctx, productID, req); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("product not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Product updated", productID)
}

// UpdateProductStock adjusts stock by a signed delta, for restocks and
// manual corrections.
func (pc *ProductController) UpdateProductStock(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("productid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if err := pc.productService.UpdateProductStock(ctx, productID, req.Delta); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("product not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Product stock updated", productID)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("productid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	if err := pc.productService.DeleteProduct(ctx, productID); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("product not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Product deleted", productID)
}
