package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OptionType string

const (
	OptionTypeSelect OptionType = "select"
	OptionTypeText   OptionType = "text"
	OptionTypeNumber OptionType = "number"
	OptionTypeRadio  OptionType = "radio"
)

// OptionValue is one selectable value of a product option. A non-zero
// PriceDelta is an additive surcharge applied when the value is chosen.
type OptionValue struct {
	Value      string  `bson:"value" json:"value"`
	PriceDelta float64 `bson:"price_delta,omitempty" json:"priceDelta,omitempty"`
}

// ProductOption declares one configurable option on a product. Select and
// radio types carry an ordered value list; text types carry length/pattern
// constraints instead.
type ProductOption struct {
	Name      string        `bson:"name" json:"name" validate:"required"`
	Label     string        `bson:"label" json:"label"`
	Type      OptionType    `bson:"type" json:"type" validate:"required,oneof=select text number radio"`
	Required  bool          `bson:"required" json:"required"`
	Values    []OptionValue `bson:"values,omitempty" json:"values,omitempty"`
	MinLength int           `bson:"min_length,omitempty" json:"minLength,omitempty"`
	MaxLength int           `bson:"max_length,omitempty" json:"maxLength,omitempty"`
	Pattern   string        `bson:"pattern,omitempty" json:"pattern,omitempty"`
}

type Product struct {
	Id            primitive.ObjectID `bson:"_id" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	CategoryId    primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"original_price,omitempty" json:"originalPrice,omitempty"`
	MainImage     string             `bson:"main_image" json:"mainImage"`
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"`
	Stock         int                `bson:"stock" json:"stock"`
	Options       []ProductOption    `bson:"options,omitempty" json:"options,omitempty"`
	IsActive      bool               `bson:"is_active" json:"isActive"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	ModifiedAt    time.Time          `bson:"modified_at" json:"modifiedAt"`
}

type ProductRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=140"`
	Description   string          `json:"description"`
	CategoryId    string          `json:"categoryId"`
	Price         float64         `json:"price" validate:"gte=0"`
	OriginalPrice float64         `json:"originalPrice" validate:"gte=0"`
	MainImage     string          `json:"mainImage"`
	Images        []string        `json:"images"`
	Stock         int             `json:"stock" validate:"gte=0"`
	Options       []ProductOption `json:"options"`
	IsActive      *bool           `json:"isActive"`
}
