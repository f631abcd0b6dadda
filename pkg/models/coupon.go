package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFixed        CouponType = "fixed"
	CouponTypeFreeShipping CouponType = "free_shipping"
)

type Coupon struct {
	Id          primitive.ObjectID `bson:"_id" json:"_id"`
	Code        string             `bson:"code" json:"code"`
	Type        CouponType         `bson:"type" json:"type"`
	Amount      float64            `bson:"amount" json:"amount"`
	MaxDiscount *float64           `bson:"max_discount,omitempty" json:"maxDiscount,omitempty"`
	MinAmount   float64            `bson:"min_amount" json:"minAmount"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	ExpiresAt   *time.Time         `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

type CouponRequest struct {
	Code        string     `json:"code" validate:"required"`
	Type        CouponType `json:"type" validate:"required,oneof=percentage fixed free_shipping"`
	Amount      float64    `json:"amount" validate:"gte=0"`
	MaxDiscount *float64   `json:"maxDiscount"`
	MinAmount   float64    `json:"minAmount" validate:"gte=0"`
	IsActive    *bool      `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}
