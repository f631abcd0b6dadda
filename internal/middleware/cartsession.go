package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
	cartSessionCtxKey = "cartSessionId"
)

// CartSession resolves the caller's cart session ID, minting one when absent.
// The session ID scopes all guest cart and checkout-draft keys; it is the unit
// of consistency for the cart engine.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(CartSessionHeader)
		if sid == "" {
			if cookie, err := c.Cookie(CartSessionCookie); err == nil {
				sid = cookie
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			c.SetCookie(CartSessionCookie, sid, int(30*24*60*60), "/", "", false, true)
		}

		c.Set(cartSessionCtxKey, sid)
		c.Writer.Header().Set(CartSessionHeader, sid)
		c.Next()
	}
}

// CartSessionID returns the session ID resolved by CartSession.
func CartSessionID(c *gin.Context) (string, bool) {
	sid := c.GetString(cartSessionCtxKey)
	if sid == "" {
		return "", false
	}
	return sid, true
}

// RequireCartSession aborts when no session could be resolved. Mounted after
// CartSession this never fires in practice, but keeps handlers honest.
func RequireCartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CartSessionID(c); !ok {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Next()
	}
}
