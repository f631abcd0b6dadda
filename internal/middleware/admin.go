package middleware

import (
	"errors"
	"net/http"

	"github.com/Art-Code2025/perfumes-sub001/internal/auth"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
)

// AdminOnly restricts a route group to authenticated admin users.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := auth.InitJwtClaim(c)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if !claim.IsAdmin {
			util.HandleError(c, http.StatusForbidden, errors.New("insufficient permissions: admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
