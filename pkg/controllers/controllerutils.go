package controllers

import (
	"context"
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/auth"
	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/internal/middleware"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithTimeout creates a context with the standard request timeout.
func WithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
}

// RequireSessionID pulls the cart session id minted by the session
// middleware, failing the request if the middleware did not run.
func RequireSessionID(c *gin.Context) (string, bool) {
	sessionID, ok := middleware.CartSessionID(c)
	if !ok {
		util.HandleError(c, http.StatusBadRequest, errors.New("missing cart session"))
		return "", false
	}
	return sessionID, true
}

// CurrentUserID returns the authenticated user's id when a valid token is
// present. Guests get a nil pointer, not an error.
func CurrentUserID(c *gin.Context) *primitive.ObjectID {
	claim, err := auth.InitJwtClaim(c)
	if err != nil {
		return nil
	}
	userID, err := claim.GetUserObjectId()
	if err != nil {
		return nil
	}
	return &userID
}

// ValidateAndGetUserID validates the authenticated user id and handles the
// error response itself.
func ValidateAndGetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := auth.ValidateUserID(c)
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, err)
		return primitive.NilObjectID, false
	}
	return userID, true
}
