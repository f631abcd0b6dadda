package controllers

import (
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/auth"
	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/middleware"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/services"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserController struct {
	userService services.UserService
}

func InitUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

func (uc *UserController) Register(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	userID, err := uc.userService.CreateUser(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			util.HandleError(c, http.StatusConflict, err)
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Account created", userID)
}

// Login authenticates local credentials and issues the token pair. The cart
// session travels with the request, so the guest cart merge starts in the
// background on success.
func (uc *UserController) Login(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req models.UserAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}
	if validationErr := common.Validate.Struct(&req); validationErr != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, validationErr)
		return
	}

	sessionID, _ := middleware.CartSessionID(c)
	user, err := uc.userService.AuthenticateUser(ctx, req, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotRegistered):
			util.HandleError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrInvalidCredentials):
			util.HandleError(c, http.StatusUnauthorized, err)
		default:
			util.HandleError(c, http.StatusInternalServerError, err)
		}
		return
	}

	uc.respondWithTokens(c, user)
}

// LoginWithGoogle verifies a Google ID token and signs the user in,
// provisioning an account on first use.
func (uc *UserController) LoginWithGoogle(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	var req struct {
		IdToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleError(c, http.StatusUnprocessableEntity, err)
		return
	}

	sessionID, _ := middleware.CartSessionID(c)
	user, err := uc.userService.AuthenticateGoogleUser(ctx, req.IdToken, sessionID)
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return
	}

	uc.respondWithTokens(c, user)
}

func (uc *UserController) respondWithTokens(c *gin.Context, user *models.User) {
	accessToken, expiresAt, err := auth.GenerateJWT(user.Id.Hex(), user.Email, user.IsAdmin)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	refreshToken, err := auth.GenerateRefreshJWT(user.Id.Hex(), user.Email, user.IsAdmin)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	util.HandleSuccess(c, http.StatusOK, "Signed in", gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"expiresAt":    expiresAt,
	})
}

// Logout blacklists the presented access token until it would have expired.
func (uc *UserController) Logout(c *gin.Context) {
	token := auth.ExtractToken(c)
	if common.IsEmptyString(token) {
		util.HandleError(c, http.StatusBadRequest, errors.New("no token provided"))
		return
	}

	if err := auth.InvalidateToken(util.REDIS, token); err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Signed out", nil)
}

func (uc *UserController) GetMe(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	userID := CurrentUserID(c)
	if userID == nil {
		util.HandleError(c, http.StatusUnauthorized, errors.New("not signed in"))
		return
	}

	user, err := uc.userService.GetUserByID(ctx, *userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("user not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Profile fetched", user)
}

func (uc *UserController) GetWishlist(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	userID, ok := ValidateAndGetUserID(c)
	if !ok {
		return
	}

	entries, err := uc.userService.GetWishlist(ctx, userID)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Wishlist fetched", entries)
}

func (uc *UserController) AddToWishlist(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	userID, ok := ValidateAndGetUserID(c)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	entryID, err := uc.userService.AddToWishlist(ctx, userID, productID)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Added to wishlist", entryID)
}

func (uc *UserController) RemoveFromWishlist(c *gin.Context) {
	ctx, cancel := WithTimeout()
	defer cancel()

	userID, ok := ValidateAndGetUserID(c)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productid"))
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	if err := uc.userService.RemoveFromWishlist(ctx, userID, productID); err != nil {
		if err == mongo.ErrNoDocuments {
			util.HandleError(c, http.StatusNotFound, errors.New("wishlist entry not found"))
			return
		}
		util.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	util.HandleSuccess(c, http.StatusOK, "Removed from wishlist", nil)
}
