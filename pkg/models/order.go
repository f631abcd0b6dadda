package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCard           PaymentMethod = "card"
)

// CustomerInfo is collected during checkout. Every field is required before
// the flow may advance past the customer-info step.
type CustomerInfo struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
}

// OrderTotals is the computed money summary for a cart plus coupon plus
// resolved shipping.
type OrderTotals struct {
	Subtotal       float64 `bson:"subtotal" json:"subtotal"`
	CouponDiscount float64 `bson:"coupon_discount" json:"couponDiscount"`
	ShippingCost   float64 `bson:"shipping_cost" json:"shippingCost"`
	FreeShipping   bool    `bson:"free_shipping" json:"freeShipping"`
	Total          float64 `bson:"total" json:"total"`
}

type Order struct {
	Id            primitive.ObjectID `bson:"_id" json:"_id"`
	Reference     string             `bson:"reference" json:"reference"`
	UserId        primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	SessionId     string             `bson:"session_id,omitempty" json:"sessionId,omitempty"`
	Items         []LineItem         `bson:"items" json:"items"`
	Customer      CustomerInfo       `bson:"customer" json:"customer"`
	ZoneName      string             `bson:"zone_name,omitempty" json:"zoneName,omitempty"`
	PaymentMethod PaymentMethod      `bson:"payment_method" json:"paymentMethod"`
	CouponCode    string             `bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	Totals        OrderTotals        `bson:"totals" json:"totals"`
	IsGift        bool               `bson:"is_gift,omitempty" json:"isGift,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status        OrderStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt    time.Time          `bson:"modified_at" json:"modifiedAt"`
}

// CardDetails are collected only for card payments, validated at submit time
// and never persisted.
type CardDetails struct {
	Number   string `json:"number"`
	Cvv      string `json:"cvv"`
	ExpMonth string `json:"expMonth"`
	ExpYear  string `json:"expYear"`
}
