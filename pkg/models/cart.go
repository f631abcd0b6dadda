package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachments is the free-form, order-specific payload on a line item: an
// optional customer note and optional uploaded image URLs.
type Attachments struct {
	Note   string   `bson:"note,omitempty" json:"note,omitempty"`
	Images []string `bson:"images,omitempty" json:"images,omitempty"`
}

// LineItem is one product+options+quantity entry in a cart. Product fields
// are denormalized snapshots taken at add time; the catalog record may move
// on without invalidating the cart.
type LineItem struct {
	Id            string             `bson:"item_id" json:"id"`
	ProductId     primitive.ObjectID `bson:"product_id" json:"productId"`
	Name          string             `bson:"name" json:"name"`
	UnitPrice     float64            `bson:"unit_price" json:"unitPrice"`
	OriginalPrice float64            `bson:"original_price,omitempty" json:"originalPrice,omitempty"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Stock         int                `bson:"stock" json:"stock"`
	Options       []ProductOption    `bson:"options,omitempty" json:"options,omitempty"`

	Quantity        int                `bson:"quantity" json:"quantity"`
	SelectedOptions map[string]string  `bson:"selected_options,omitempty" json:"selectedOptions,omitempty"`
	OptionsPricing  map[string]float64 `bson:"options_pricing,omitempty" json:"optionsPricing,omitempty"`
	Attachments     *Attachments       `bson:"attachments,omitempty" json:"attachments,omitempty"`

	AddedAt    time.Time `bson:"added_at" json:"addedAt"`
	ModifiedAt time.Time `bson:"modified_at" json:"modifiedAt"`
}

// LinePrice is the effective unit price including chosen option surcharges.
func (li LineItem) LinePrice() float64 {
	price := li.UnitPrice
	for _, delta := range li.OptionsPricing {
		price += delta
	}
	return price
}

// LineTotal is LinePrice times quantity.
func (li LineItem) LineTotal() float64 {
	return li.LinePrice() * float64(li.Quantity)
}

// DedupKey identifies a line item for merge purposes: same product plus the
// same normalized option selection collapses into one entry.
func (li LineItem) DedupKey() string {
	return CartDedupKey(li.ProductId, li.SelectedOptions)
}

// NormalizeOptions trims keys and values and drops entries that end up empty.
func NormalizeOptions(selected map[string]string) map[string]string {
	if len(selected) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(selected))
	for k, v := range selected {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		normalized[key] = val
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// CartDedupKey builds the canonical dedup key: product id plus the sorted,
// trimmed option pairs. Key ordering in the source map never matters.
func CartDedupKey(productID primitive.ObjectID, selected map[string]string) string {
	normalized := NormalizeOptions(selected)
	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(productID.Hex())
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, normalized[k])
	}
	return b.String()
}

// CartItemRequest is the payload for adding a product to the cart.
type CartItemRequest struct {
	ProductId       primitive.ObjectID `json:"productId" validate:"required"`
	Quantity        int                `json:"quantity" validate:"gte=1"`
	SelectedOptions map[string]string  `json:"selectedOptions,omitempty"`
	OptionsPricing  map[string]float64 `json:"optionsPricing,omitempty"`
	Attachments     *Attachments       `json:"attachments,omitempty"`
}

// AttachmentsPatch is a shallow patch: nil fields leave the current value
// untouched.
type AttachmentsPatch struct {
	Note   *string  `json:"note,omitempty"`
	Images []string `json:"images,omitempty"`
}
