package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			util.HandleError(c, http.StatusUnauthorized, errors.New("request does not contain an access token"))
			c.Abort()
			return
		}
		_, err := ValidateToken(tokenString)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if !IsTokenValid(util.REDIS, tokenString) {
			util.HandleError(c, http.StatusUnauthorized, errors.New("token has been revoked, please login again"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func GenerateSecureToken(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return ""
	}

	return hex.EncodeToString(b)
}

// Validate param userid against the authenticated token.
func ValidateUserID(c *gin.Context) (primitive.ObjectID, error) {
	auth, err := InitJwtClaim(c)
	if err != nil {
		errMsg := fmt.Sprintf("unauthorized: User ID not found in authentication token - %v", err.Error())
		return primitive.NilObjectID, errors.New(errMsg)
	}

	userId := c.Param("userid")
	res, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if userId != auth.Id {
		return primitive.NilObjectID, errors.New("unauthorized: User ID in the URL path doesn't match with currently authenticated user")
	}

	return res, nil
}

func InvalidateToken(db *redis.Client, tokenString string) error {
	// Blacklisted tokens outlive their own expiry window
	_, err := db.Set(context.Background(), tokenString, true, 24*time.Hour).Result()
	if err != nil {
		return err
	}

	return nil
}

// Check if token is in the blacklist
func IsTokenValid(db *redis.Client, tokenString string) bool {
	_, err := db.Get(context.Background(), tokenString).Result()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		log.Printf("Error while checking blacklist: %s", err)
		return false
	}

	return false
}
