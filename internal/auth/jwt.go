package auth

import (
	"errors"
	"time"

	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AccessTokenExpirationTime = time.Minute * 15
const RefreshTokenExpirationTime = 7 * 24 * time.Hour

type JWTClaim struct {
	Id      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Generate auth token for new user session
func GenerateJWT(id, email string, admin bool) (string, int64, error) {
	expirationTime := time.Now().Local().Add(AccessTokenExpirationTime)
	jwtKey := util.LoadEnvFor("SECRET")

	claims := JWTClaim{
		Id:      id,
		Email:   email,
		IsAdmin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

// Generate refresh auth token for new user session.
func GenerateRefreshJWT(id, email string, admin bool) (string, error) {
	expirationTime := time.Now().Local().Add(RefreshTokenExpirationTime)
	jwtKey := util.LoadEnvFor("REFRESH_SECRET")

	claims := JWTClaim{
		Id:      id,
		Email:   email,
		IsAdmin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate a signed jwt refresh token and it's expiration time.
func ValidateRefreshToken(signedToken string) (JWTClaim, error) {
	return parseClaims(signedToken, util.LoadEnvFor("REFRESH_SECRET"))
}

// Validate a signed jwt auth token and it's expiration time.
func ValidateToken(signedToken string) (JWTClaim, error) {
	return parseClaims(signedToken, util.LoadEnvFor("SECRET"))
}

func parseClaims(signedToken, jwtKey string) (JWTClaim, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtKey), nil
		},
	)
	if err != nil {
		return JWTClaim{}, err
	}

	claim, ok := token.Claims.(*JWTClaim)
	if !ok {
		return JWTClaim{}, errors.New("couldn't parse claims")
	}
	exp, _ := claim.GetExpirationTime()
	if exp == nil || exp.Local().Unix() < time.Now().Local().Unix() {
		return JWTClaim{}, errors.New("token expired")
	}

	return *claim, nil
}

// Extract and Validate jwt auth token.
func InitJwtClaim(c *gin.Context) (JWTClaim, error) {
	tknStr := ExtractToken(c)
	token, err := ValidateToken(tknStr)
	if err != nil {
		return JWTClaim{}, err
	}

	return token, nil
}

// Get user object ID from JWTClaim.
func (j JWTClaim) GetUserObjectId() (primitive.ObjectID, error) {
	userId, err := primitive.ObjectIDFromHex(j.Id)
	if err != nil {
		return primitive.NilObjectID, err
	}

	return userId, nil
}

// Extract authorization token from request header.
func ExtractToken(c *gin.Context) string {
	return c.GetHeader("Authorization")
}
