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

type CategoryController struct {
	categoryService services.CategoryService
}

func InitCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

func (cc *CategoryController) GetCategories(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	categories, err := cc.categoryService.GetCategories(ctx)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Categories fetched", categories)
}

func (cc *CategoryController) GetCategory(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	category, err := cc.categoryService.GetCategory(ctx, c.Param("categoryid"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		util.HandleError(c, http.StatusBadRequest, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Category fetched", category)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	categoryID, err := cc.categoryService.CreateCategory(ctx, req)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Category created", categoryID)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid category id"))
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	if err := cc.categoryService.UpdateCategory(ctx, categoryID, req); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Category updated", categoryID)
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid category id"))
		return
	}

	if err := cc.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("category not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Category deleted", categoryID)
}
