package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/gin-gonic/gin"
)

// UploadImage pushes a multipart image to the CDN and returns its URL, used
// for product media and cart item attachment images.
func UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		formFile, _, err := c.Request.FormFile("file")
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		result, err := util.FileUpload(models.File{File: formFile})
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Image uploaded", gin.H{
			"url":      result.SecureURL,
			"publicId": result.PublicID,
		})
	}
}

// DeleteImage removes a previously uploaded image by public id.
func DeleteImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PublicId string `json:"publicId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusUnprocessableEntity, err)
			return
		}

		result, err := util.ImageDeletionHelper(uploader.DestroyParams{PublicID: req.PublicId})
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Image deleted", result)
	}
}
