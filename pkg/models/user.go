package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	Id           primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName    string             `bson:"first_name" json:"firstName"`
	LastName     string             `bson:"last_name" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Thumbnail    string             `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	AuthProvider AuthProvider       `bson:"auth_provider" json:"authProvider"`
	IsAdmin      bool               `bson:"is_admin" json:"isAdmin"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt   time.Time          `bson:"modified_at" json:"modifiedAt"`
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=1,max=60"`
	LastName  string `json:"lastName" validate:"required,min=1,max=60"`
	Password  string `json:"password" validate:"required,min=8"`
}

type UserAuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// WishlistEntry is one saved product reference for a user.
type WishlistEntry struct {
	Id        primitive.ObjectID `bson:"_id" json:"_id"`
	UserId    primitive.ObjectID `bson:"user_id" json:"userId"`
	ProductId primitive.ObjectID `bson:"product_id" json:"productId"`
	AddedAt   time.Time          `bson:"added_at" json:"addedAt"`
}
