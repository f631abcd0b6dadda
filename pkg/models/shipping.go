package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingZone is a named region with its own flat cost and free-shipping
// threshold. Matching is case-insensitive substring matching on the customer
// city, lowest priority value first.
type ShippingZone struct {
	Id                    primitive.ObjectID `bson:"_id" json:"_id"`
	Name                  string             `bson:"name" json:"name"`
	Cities                []string           `bson:"cities" json:"cities"`
	ShippingCost          float64            `bson:"shipping_cost" json:"shippingCost"`
	FreeShippingThreshold float64            `bson:"free_shipping_threshold" json:"freeShippingThreshold"`
	EstimatedDays         string             `bson:"estimated_days" json:"estimatedDays"`
	IsActive              bool               `bson:"is_active" json:"isActive"`
	Priority              int                `bson:"priority" json:"priority"`
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt            time.Time          `bson:"modified_at" json:"modifiedAt"`
}

type ShippingZoneRequest struct {
	Name                  string   `json:"name" validate:"required"`
	Cities                []string `json:"cities" validate:"required,min=1"`
	ShippingCost          float64  `json:"shippingCost" validate:"gte=0"`
	FreeShippingThreshold float64  `json:"freeShippingThreshold" validate:"gte=0"`
	EstimatedDays         string   `json:"estimatedDays"`
	IsActive              *bool    `json:"isActive"`
	Priority              int      `json:"priority"`
}

// ShippingSettings is the global fallback applied when no zone matches.
// Loaded once at startup with built-in defaults, overridable by the persisted
// document.
type ShippingSettings struct {
	GlobalFreeShippingThreshold float64 `bson:"global_free_shipping_threshold" json:"globalFreeShippingThreshold"`
	DefaultShippingCost         float64 `bson:"default_shipping_cost" json:"defaultShippingCost"`
	DefaultEstimatedDays        string  `bson:"default_estimated_days" json:"defaultEstimatedDays"`
	ExpressEnabled              bool    `bson:"express_enabled" json:"expressEnabled"`
	ExpressShippingCost         float64 `bson:"express_shipping_cost" json:"expressShippingCost"`
	ExpressEstimatedDays        string  `bson:"express_estimated_days" json:"expressEstimatedDays"`
	FreeShippingEnabled         bool    `bson:"free_shipping_enabled" json:"freeShippingEnabled"`
	ZoneShippingEnabled         bool    `bson:"zone_shipping_enabled" json:"zoneShippingEnabled"`
}

// DefaultShippingSettings are the built-in values used until an admin saves
// an override.
func DefaultShippingSettings() ShippingSettings {
	return ShippingSettings{
		GlobalFreeShippingThreshold: 500,
		DefaultShippingCost:         50,
		DefaultEstimatedDays:        "2-5 days",
		ExpressEnabled:              true,
		ExpressShippingCost:         100,
		ExpressEstimatedDays:        "1-2 days",
		FreeShippingEnabled:         true,
		ZoneShippingEnabled:         true,
	}
}
